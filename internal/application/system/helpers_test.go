package system

import (
	"image"
	"strconv"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/younwookim/timeloop/internal/domain/entity"
	"github.com/younwookim/timeloop/internal/ecs"
	"github.com/younwookim/timeloop/internal/infrastructure/config"
)

const testTile = 16

func createTestPhysicsConfig() *config.PhysicsConfig {
	return &config.PhysicsConfig{
		Display:  config.DisplayConfig{ScreenWidth: 320, ScreenHeight: 240, Framerate: 60},
		Physics:  config.PhysicsSettings{Gravity: 600, MinFallSpeed: -320},
		Movement: config.MovementConfig{MaxSpeed: 96, Blend: 0.2},
		Jump:     config.JumpConfig{Force: 190, Window: 0.18},
		Dash:     config.DashConfig{Speed: 280, Cooldown: 0.6},
		Clock:    config.ClockConfig{Modes: []config.ClockModeConfig{{Radix: 2, Seconds: 8}}},
		Camera:   config.CameraConfig{Smoothing: 8},
	}
}

func createTestEntitiesConfig() *config.EntitiesConfig {
	trigger := config.TriggerConfig{Width: 16, Height: 16, Color: "#3f88c5", ActiveColor: "#44bba4"}
	return &config.EntitiesConfig{
		Player:      config.PlayerConfig{Hitbox: config.Rect{Width: 10, Height: 14}, Color: "#f4d35e"},
		Checkpoint:  trigger,
		Upgrade:     config.TriggerConfig{Width: 12, Height: 12, Color: "#e94f37"},
		Collectible: config.TriggerConfig{Width: 8, Height: 8, Color: "#ffd166"},
		Sign:        trigger,
		Lantern:     config.TriggerConfig{Width: 6, Height: 10, Color: "orange"},
		Fade:        config.FadeConfig{Duration: 0.5},
		Sounds: config.SoundsConfig{
			Checkpoint: "sfx/checkpoint.wav",
			Upgrade:    "sfx/upgrade.wav",
			Collect:    "sfx/collect.wav",
			Rollback:   "sfx/rollback.wav",
		},
		Text:         config.TextConfig{CharsPerSecond: 10, HoldSeconds: 1},
		UpgradeTexts: map[int32]string{0: "dash", 1: "double jump"},
		SignTexts:    map[int32]string{0: "hello", 1: "tutorial"},
	}
}

func intField(name string, v int) config.FieldConfig {
	return config.FieldConfig{Name: name, Tag: "!!int", Value: strconv.Itoa(v)}
}

func boolField(name string, v bool) config.FieldConfig {
	return config.FieldConfig{Name: name, Tag: "!!bool", Value: strconv.FormatBool(v)}
}

func placed(typeName string, x, y float64, fields ...config.FieldConfig) config.EntityConfig {
	return config.EntityConfig{Type: typeName, X: x, Y: y, Fields: fields}
}

// createTestMapConfig builds an open 20x15 map with a solid bottom row.
func createTestMapConfig(id string, originX, originY float64, neighbors []string, entities ...config.EntityConfig) *config.MapConfig {
	rows := make([]string, 15)
	for i := range rows {
		rows[i] = strings.Repeat(".", 20)
	}
	rows[14] = strings.Repeat("#", 20)

	return &config.MapConfig{
		ID:          id,
		Origin:      config.PositionConfig{X: originX, Y: originY},
		Background:  "#101018",
		EntityLayer: 0,
		Neighbors:   neighbors,
		TileMapping: map[string]config.TileMappingConfig{
			"#": {Type: "wall", Solid: true, Color: "#4a4e69"},
		},
		Layers:   []config.LayerConfig{{Name: "ground", Collision: true, Rows: rows}},
		Entities: entities,
	}
}

// createTestWorld returns two 320x240 maps side by side: "a" at the world
// origin and "b" to its right.
func createTestWorld(t *testing.T) *entity.WorldMap {
	t.Helper()
	cfg := &config.WorldConfig{
		TileSize:     testTile,
		TotalPickups: 4,
		Start:        config.StartConfig{Map: "a"},
		Maps: []*config.MapConfig{
			createTestMapConfig("a", 0, 0, []string{"b"},
				placed(TypeCheckpoint, 32, 16, intField("id", 0)),
				placed(TypeCheckpoint, 100, 16, intField("id", 1)),
				placed(TypeUpgrade, 200, 16, intField("upgradeID", 0)),
				placed(TypeCollectible, 250, 16, intField("id", 0)),
				placed(TypeCollectible, 280, 16, intField("id", 1)),
			),
			createTestMapConfig("b", 320, 0, []string{"a"},
				placed(TypeCheckpoint, 64, 16, intField("id", 5)),
				placed(TypeCollectible, 150, 16, intField("id", 2)),
				placed(TypeSign, 200, 16, intField("textID", 1), boolField("tutorial", true)),
				placed(TypeLantern, 260, 16),
			),
		},
	}

	world, err := LoadWorld(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	return world
}

type upload struct {
	index   int
	created bool
}

type fakeTextures struct {
	seen    map[int]bool
	uploads []upload
	count   int
}

func newFakeTextures() *fakeTextures {
	return &fakeTextures{seen: make(map[int]bool)}
}

func (f *fakeTextures) UploadLayer(index int, _ *image.RGBA) {
	f.uploads = append(f.uploads, upload{index: index, created: !f.seen[index]})
	f.seen[index] = true
}

func (f *fakeTextures) SetLayerCount(n int) { f.count = n }

type fakeSounds struct {
	played []string
}

func (f *fakeSounds) Play(path string) { f.played = append(f.played, path) }

type testLevel struct {
	world    *ecs.World
	loader   *LevelLoader
	textures *fakeTextures
	entities *config.EntitiesConfig
}

func newTestLevel(t *testing.T) *testLevel {
	t.Helper()
	entities := createTestEntitiesConfig()
	registry, err := NewRegistry(entities)
	require.NoError(t, err)

	textures := newFakeTextures()
	return &testLevel{
		world:    ecs.NewWorld(),
		loader:   NewLevelLoader(createTestWorld(t), registry, textures, entities, zaptest.NewLogger(t)),
		textures: textures,
		entities: entities,
	}
}

// movePlayer places the player so that its box starts at pos.
func movePlayer(w *ecs.World, pos mgl64.Vec2) {
	w.Position[w.PlayerID] = ecs.Position{Vec: pos}
}

func playerPos(w *ecs.World) mgl64.Vec2 {
	return w.Position[w.PlayerID].Vec
}
