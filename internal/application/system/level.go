package system

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/younwookim/timeloop/internal/application/factory"
	"github.com/younwookim/timeloop/internal/domain/entity"
	"github.com/younwookim/timeloop/internal/ecs"
	"github.com/younwookim/timeloop/internal/infrastructure/config"
)

var (
	// ErrUnknownMap is returned when a load names a map the world lacks.
	ErrUnknownMap = errors.New("unknown map")
	// ErrCheckpointNotFound is returned when a checkpoint spawn names an id
	// the map does not contain. The player is still spawned.
	ErrCheckpointNotFound = errors.New("checkpoint not found")
)

// SpawnSelector says where the player appears after a load.
type SpawnSelector struct {
	checkpoint   int32
	position     mgl64.Vec2
	atCheckpoint bool
}

// AtCheckpoint spawns on the checkpoint with the given id and makes it the
// rollback target.
func AtCheckpoint(id int32) SpawnSelector {
	return SpawnSelector{checkpoint: id, atCheckpoint: true}
}

// AtPosition spawns at an explicit local position.
func AtPosition(pos mgl64.Vec2) SpawnSelector {
	return SpawnSelector{position: pos}
}

func (s SpawnSelector) String() string {
	if s.atCheckpoint {
		return fmt.Sprintf("checkpoint %d", s.checkpoint)
	}
	return fmt.Sprintf("position (%.1f, %.1f)", s.position[0], s.position[1])
}

// LevelLoader swaps the active map. Only the player's persistent state
// survives a load; every other entity is rebuilt from the map's
// descriptors.
type LevelLoader struct {
	world    *entity.WorldMap
	registry *factory.Registry
	textures TextureCache
	entities *config.EntitiesConfig
	log      *zap.Logger

	active *entity.MapData
}

// NewLevelLoader creates a loader over a world.
func NewLevelLoader(world *entity.WorldMap, registry *factory.Registry, textures TextureCache, entities *config.EntitiesConfig, log *zap.Logger) *LevelLoader {
	if textures == nil {
		textures = NopTextures{}
	}
	return &LevelLoader{
		world:    world,
		registry: registry,
		textures: textures,
		entities: entities,
		log:      log,
	}
}

// Active returns the active map, or nil before the first load.
func (l *LevelLoader) Active() *entity.MapSegment {
	if l.active == nil {
		return nil
	}
	return l.active.Segment
}

// World returns the world the loader reads from.
func (l *LevelLoader) World() *entity.WorldMap {
	return l.world
}

// SetWorld replaces the world data. The active map is left as it is until
// the next load.
func (l *LevelLoader) SetWorld(world *entity.WorldMap) {
	l.world = world
}

// LoadLevel makes mapID the active map and respawns the player.
// An unknown map fails before anything is touched. A missing checkpoint
// still leaves exactly one player in the world, and the error is returned.
func (l *LevelLoader) LoadLevel(w *ecs.World, mapID entity.MapID, spawn SpawnSelector) error {
	data, ok := l.world.Map(mapID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMap, mapID)
	}

	// Carry the player over.
	player, body := l.newPlayer()
	if w.HasPlayer() {
		player = w.PlayerData[w.PlayerID]
		body = w.RigidBody[w.PlayerID]
	}
	if spawn.atCheckpoint {
		player.SpawnMap = string(mapID)
		player.SpawnID = spawn.checkpoint
		body.Velocity = mgl64.Vec2{}
	}

	w.Reset()

	l.active = data
	for i, layer := range data.Segment.Layers {
		l.textures.UploadLayer(i, layer.Image)
	}
	l.textures.SetLayerCount(len(data.Segment.Layers))

	for _, d := range data.Entities {
		if _, err := l.registry.Instantiate(w, d); err != nil {
			l.log.DPanic("skipping entity",
				zap.String("map", string(mapID)),
				zap.String("type", d.Type),
				zap.Error(err))
		}
	}

	pos, spawnErr := l.spawnPosition(w, data.Segment, spawn, &player)

	w.CreatePlayer(ecs.Position{Vec: pos}, player, body, l.playerSprite())
	if box, _ := w.PlayerBox(); data.Segment.Grid != nil && ecs.IsSolidBox(data.Segment.Grid, box) {
		l.log.Warn("player spawned inside solid tiles",
			zap.String("map", string(mapID)),
			zap.Stringer("spawn", spawn))
	}
	w.CreateCamera(ecs.Position{Vec: pos})
	purged := PurgeCollected(w)

	l.log.Info("map loaded",
		zap.String("map", string(mapID)),
		zap.Stringer("spawn", spawn),
		zap.Int("entities", w.Count()),
		zap.Int("purged", purged))

	return spawnErr
}

func (l *LevelLoader) spawnPosition(w *ecs.World, seg *entity.MapSegment, spawn SpawnSelector, player *ecs.Player) (mgl64.Vec2, error) {
	if !spawn.atCheckpoint {
		return spawn.position, nil
	}
	if pos, ok := FindCheckpoint(w, spawn.checkpoint); ok {
		return pos.Vec, nil
	}

	err := fmt.Errorf("%w: %d on map %q", ErrCheckpointNotFound, spawn.checkpoint, seg.ID)
	l.log.Error("spawn checkpoint missing", zap.Error(err))

	// Fall back to the first checkpoint of the map so that rollbacks have
	// somewhere valid to go.
	ids := ecs.SortedIDs(w.Checkpoint)
	if len(ids) > 0 {
		player.SpawnID = w.Checkpoint[ids[0]].ID
		return w.Position[ids[0]].Vec, err
	}
	return seg.Center(), err
}

func (l *LevelLoader) newPlayer() (ecs.Player, ecs.RigidBody) {
	hb := l.entities.Player.Hitbox
	return ecs.Player{Mode: ecs.ModeBinary}, ecs.RigidBody{
		Bounds: ecs.NewRect(mgl64.Vec2{hb.OffsetX, hb.OffsetY}, mgl64.Vec2{hb.Width, hb.Height}),
	}
}

func (l *LevelLoader) playerSprite() ecs.Sprite {
	hb := l.entities.Player.Hitbox
	return ecs.Sprite{
		Size:  mgl64.Vec2{hb.Width, hb.Height},
		Color: config.ColorOr(l.entities.Player.Color, fallbackSpriteColor),
	}
}

// FindCheckpoint returns the position of the first checkpoint with the
// given id, in iteration order.
func FindCheckpoint(w *ecs.World, id int32) (ecs.Position, bool) {
	for _, eid := range ecs.SortedIDs(w.Checkpoint) {
		if w.Checkpoint[eid].ID == id {
			return w.Position[eid], true
		}
	}
	return ecs.Position{}, false
}
