package playing

import (
	"strconv"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/younwookim/timeloop/internal/application/system"
	"github.com/younwookim/timeloop/internal/domain/entity"
	"github.com/younwookim/timeloop/internal/ecs"
	"github.com/younwookim/timeloop/internal/infrastructure/config"
)

const frameDT = 1.0 / 60.0

// createTestConfig creates a minimal config for testing
func createTestConfig() *config.GameConfig {
	trigger := config.TriggerConfig{Width: 16, Height: 16, Color: "#3f88c5", ActiveColor: "#44bba4"}
	return &config.GameConfig{
		Physics: &config.PhysicsConfig{
			Display:  config.DisplayConfig{ScreenWidth: 320, ScreenHeight: 240, Scale: 2, Framerate: 60},
			Physics:  config.PhysicsSettings{Gravity: 600, MinFallSpeed: -320},
			Movement: config.MovementConfig{MaxSpeed: 96, Blend: 0.2},
			Jump:     config.JumpConfig{Force: 190, Window: 0.18},
			Dash:     config.DashConfig{Speed: 280, Cooldown: 0.6},
			Camera:   config.CameraConfig{Smoothing: 8},
		},
		Entities: &config.EntitiesConfig{
			Player:      config.PlayerConfig{Hitbox: config.Rect{Width: 10, Height: 14}, Color: "#f4d35e"},
			Checkpoint:  trigger,
			Upgrade:     config.TriggerConfig{Width: 12, Height: 12, Color: "#e94f37"},
			Collectible: config.TriggerConfig{Width: 8, Height: 8, Color: "#ffd166"},
			Sign:        trigger,
			Lantern:     config.TriggerConfig{Width: 6, Height: 10, Color: "orange"},
			Fade:        config.FadeConfig{Duration: 0.5},
			Text:        config.TextConfig{CharsPerSecond: 30, HoldSeconds: 1},
			UpgradeTexts: map[int32]string{
				int32(ecs.AbilityDash): "dash",
			},
		},
		World: &config.WorldConfig{
			TileSize:     16,
			TotalPickups: 2,
			Start:        config.StartConfig{Map: "a"},
		},
	}
}

func field(name string, v int) config.FieldConfig {
	return config.FieldConfig{Name: name, Tag: "!!int", Value: strconv.Itoa(v)}
}

// createTestMap builds an open 320x240 map with a solid bottom row.
func createTestMap(id string, originX float64, neighbors []string, entities ...config.EntityConfig) *config.MapConfig {
	rows := make([]string, 15)
	for i := range rows {
		rows[i] = strings.Repeat(".", 20)
	}
	rows[14] = strings.Repeat("#", 20)

	return &config.MapConfig{
		ID:         id,
		Origin:     config.PositionConfig{X: originX},
		Background: "#101018",
		Neighbors:  neighbors,
		TileMapping: map[string]config.TileMappingConfig{
			"#": {Type: "wall", Solid: true, Color: "#4a4e69"},
		},
		Layers:   []config.LayerConfig{{Name: "ground", Collision: true, Rows: rows}},
		Entities: entities,
	}
}

func mapA(neighbors ...string) *config.MapConfig {
	return createTestMap("a", 0, neighbors,
		config.EntityConfig{Type: system.TypeCheckpoint, X: 32, Y: 16, Fields: config.FieldsConfig{field("id", 0)}},
		config.EntityConfig{Type: system.TypeUpgrade, X: 200, Y: 16, Fields: config.FieldsConfig{field("upgradeID", int(ecs.AbilityDash))}},
		config.EntityConfig{Type: system.TypeCollectible, X: 250, Y: 16, Fields: config.FieldsConfig{field("id", 0)}},
	)
}

func mapB() *config.MapConfig {
	return createTestMap("b", 320, []string{"a"},
		config.EntityConfig{Type: system.TypeCheckpoint, X: 64, Y: 16, Fields: config.FieldsConfig{field("id", 5)}},
		config.EntityConfig{Type: system.TypeCollectible, X: 150, Y: 16, Fields: config.FieldsConfig{field("id", 1)}},
	)
}

// createTestWorld returns "a" at the world origin with "b" to its right.
func createTestWorld(t *testing.T, cfg *config.GameConfig) *entity.WorldMap {
	t.Helper()
	wc := *cfg.World
	wc.Maps = []*config.MapConfig{mapA("b"), mapB()}
	world, err := system.LoadWorld(&wc, zaptest.NewLogger(t))
	require.NoError(t, err)
	return world
}

// createSoloWorld returns a world that only has map "a".
func createSoloWorld(t *testing.T, cfg *config.GameConfig) *entity.WorldMap {
	t.Helper()
	wc := *cfg.World
	wc.Maps = []*config.MapConfig{mapA()}
	world, err := system.LoadWorld(&wc, zaptest.NewLogger(t))
	require.NoError(t, err)
	return world
}

type fakeSounds struct {
	played []string
}

func (f *fakeSounds) Play(path string) { f.played = append(f.played, path) }

// newTestSession returns a session that is set up and on the title screen.
func newTestSession(t *testing.T) *Session {
	t.Helper()
	cfg := createTestConfig()
	s := NewSession(SessionOptions{Log: zaptest.NewLogger(t), Sounds: &fakeSounds{}})
	require.NoError(t, s.Setup(cfg, createTestWorld(t, cfg)))
	return s
}

// startSession returns a session past the title screen.
func startSession(t *testing.T) *Session {
	t.Helper()
	s := newTestSession(t)
	s.Update(system.InputState{Start: true}, frameDT)
	return s
}

func teleport(s *Session, pos mgl64.Vec2) {
	w := s.World()
	w.Position[w.PlayerID] = ecs.Position{Vec: pos}
}
