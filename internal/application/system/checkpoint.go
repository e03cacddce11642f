package system

import (
	"go.uber.org/zap"

	"github.com/younwookim/timeloop/internal/domain/entity"
	"github.com/younwookim/timeloop/internal/ecs"
	"github.com/younwookim/timeloop/internal/infrastructure/config"
)

// CheckpointSystem lets the player claim a checkpoint by pressing activate
// while standing on it.
type CheckpointSystem struct {
	config *config.EntitiesConfig
	sounds SoundPlayer
	log    *zap.Logger
}

// NewCheckpointSystem creates a new checkpoint system
func NewCheckpointSystem(cfg *config.EntitiesConfig, sounds SoundPlayer, log *zap.Logger) *CheckpointSystem {
	return &CheckpointSystem{config: cfg, sounds: sounds, log: log}
}

// Update activates at most one checkpoint per frame: the first one in
// iteration order that the player overlaps.
func (s *CheckpointSystem) Update(w *ecs.World, input InputState, mapID entity.MapID, frame *FrameData) {
	if !input.Activate {
		return
	}
	box, ok := w.PlayerBox()
	if !ok {
		return
	}

	for _, id := range ecs.SortedIDs(w.Checkpoint) {
		if !triggerBox(w, id).Overlaps(box) {
			continue
		}

		cp := w.Checkpoint[id]
		player := w.PlayerData[w.PlayerID]
		player.SpawnID = cp.ID
		player.SpawnMap = string(mapID)
		w.PlayerData[w.PlayerID] = player

		frame.TriggeredCheckpoint = true
		s.sounds.Play(s.config.Sounds.Checkpoint)
		spawnGhost(w, id, config.ColorOr(s.config.Checkpoint.ActiveColor, fallbackSpriteColor), s.config.Fade.Duration)
		s.log.Info("checkpoint activated", zap.String("map", string(mapID)), zap.Int32("checkpoint", cp.ID))
		return
	}
}

// IsActiveCheckpoint reports whether the checkpoint entity is the player's
// current rollback target.
func IsActiveCheckpoint(w *ecs.World, id ecs.EntityID, mapID entity.MapID) bool {
	if !w.HasPlayer() {
		return false
	}
	cp, ok := w.Checkpoint[id]
	if !ok {
		return false
	}
	player := w.PlayerData[w.PlayerID]
	return player.SpawnMap == string(mapID) && player.SpawnID == cp.ID
}
