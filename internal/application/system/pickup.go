package system

import (
	"image/color"

	"go.uber.org/zap"

	"github.com/younwookim/timeloop/internal/ecs"
	"github.com/younwookim/timeloop/internal/infrastructure/config"
)

// PickupSystem hands out upgrades and collectibles. Every id is granted at
// most once per game; entities whose id is already owned are removed
// without effect, which also cleans up pickups re-created by a map load.
type PickupSystem struct {
	config *config.EntitiesConfig
	sounds SoundPlayer
	text   *TextBox
	log    *zap.Logger
}

// NewPickupSystem creates a new pickup system
func NewPickupSystem(cfg *config.EntitiesConfig, sounds SoundPlayer, text *TextBox, log *zap.Logger) *PickupSystem {
	return &PickupSystem{config: cfg, sounds: sounds, text: text, log: log}
}

// Update collects whatever the player overlaps this frame.
func (s *PickupSystem) Update(w *ecs.World, frame *FrameData) {
	box, ok := w.PlayerBox()
	if !ok {
		return
	}
	player := w.PlayerData[w.PlayerID]

	// Deletions are applied after both scans.
	var remove []ecs.EntityID

	for _, id := range ecs.SortedIDs(w.Upgrade) {
		bit := int(w.Upgrade[id].UpgradeID)
		if player.Abilities.Has(bit) {
			remove = append(remove, id)
			continue
		}
		if !triggerBox(w, id).Overlaps(box) {
			continue
		}

		player.Abilities.Set(bit)
		remove = append(remove, id)
		frame.Upgraded = true

		s.sounds.Play(s.config.Sounds.Upgrade)
		if msg, ok := s.config.UpgradeTexts[int32(bit)]; ok {
			s.text.Show(msg, false)
		}
		spawnGhost(w, id, color.RGBA{}, s.config.Fade.Duration)
		s.log.Info("upgrade collected", zap.Stringer("ability", ecs.Ability(bit)))
	}

	for _, id := range ecs.SortedIDs(w.Collectible) {
		bit := int(w.Collectible[id].ID)
		if player.Collected.Has(bit) {
			remove = append(remove, id)
			continue
		}
		if !triggerBox(w, id).Overlaps(box) {
			continue
		}

		player.Collected.Set(bit)
		player.CollectedCount++
		remove = append(remove, id)
		frame.Collected++

		s.sounds.Play(s.config.Sounds.Collect)
		spawnGhost(w, id, color.RGBA{}, s.config.Fade.Duration)
		s.log.Debug("collectible collected", zap.Int("id", bit), zap.Int("count", player.CollectedCount))
	}

	w.PlayerData[w.PlayerID] = player
	for _, id := range remove {
		w.DestroyEntity(id)
	}
}

// PurgeCollected removes every pickup the player already owns and returns
// how many were removed. Calling it twice removes nothing the second time.
func PurgeCollected(w *ecs.World) int {
	if !w.HasPlayer() {
		return 0
	}
	player := w.PlayerData[w.PlayerID]

	var remove []ecs.EntityID
	for _, id := range ecs.SortedIDs(w.Upgrade) {
		if player.Abilities.Has(int(w.Upgrade[id].UpgradeID)) {
			remove = append(remove, id)
		}
	}
	for _, id := range ecs.SortedIDs(w.Collectible) {
		if player.Collected.Has(int(w.Collectible[id].ID)) {
			remove = append(remove, id)
		}
	}
	for _, id := range remove {
		w.DestroyEntity(id)
	}
	return len(remove)
}
