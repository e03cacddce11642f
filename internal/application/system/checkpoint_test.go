package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/younwookim/timeloop/internal/domain/entity"
	"github.com/younwookim/timeloop/internal/ecs"
)

func TestCheckpoint_Activate(t *testing.T) {
	tests := []struct {
		name      string
		pos       mgl64.Vec2
		activate  bool
		wantID    int32
		triggered bool
	}{
		{name: "needs activate", pos: mgl64.Vec2{100, 16}, activate: false, wantID: 0},
		{name: "not on a checkpoint", pos: mgl64.Vec2{160, 16}, activate: true, wantID: 0},
		{name: "claims overlapped checkpoint", pos: mgl64.Vec2{104, 16}, activate: true, wantID: 1, triggered: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lv := newTestLevel(t)
			w := lv.world
			require.NoError(t, lv.loader.LoadLevel(w, "a", AtCheckpoint(0)))
			movePlayer(w, tt.pos)

			sounds := &fakeSounds{}
			system := NewCheckpointSystem(lv.entities, sounds, zaptest.NewLogger(t))

			var frame FrameData
			system.Update(w, InputState{Activate: tt.activate}, "a", &frame)

			player := w.PlayerData[w.PlayerID]
			assert.Equal(t, tt.wantID, player.SpawnID)
			assert.Equal(t, "a", player.SpawnMap)
			assert.Equal(t, tt.triggered, frame.TriggeredCheckpoint)
			if tt.triggered {
				assert.Equal(t, []string{"sfx/checkpoint.wav"}, sounds.played)
				assert.Len(t, w.Fade, 1)
			} else {
				assert.Empty(t, sounds.played)
			}
		})
	}
}

func TestCheckpoint_AtMostOnePerFrame(t *testing.T) {
	seg := &entity.MapSegment{ID: "stack", Size: mgl64.Vec2{64, 64}, Grid: entity.NewGrid(4, 4, testTile)}
	world, err := entity.NewWorldMap(testTile, 0, []*entity.MapData{{
		Segment: seg,
		Entities: []entity.EntityDescriptor{
			{Type: TypeCheckpoint, Position: mgl64.Vec2{16, 0}, Fields: []entity.FieldValue{entity.IntField("id", 7)}},
			{Type: TypeCheckpoint, Position: mgl64.Vec2{16, 0}, Fields: []entity.FieldValue{entity.IntField("id", 8)}},
		},
	}})
	require.NoError(t, err)

	entities := createTestEntitiesConfig()
	registry, err := NewRegistry(entities)
	require.NoError(t, err)
	loader := NewLevelLoader(world, registry, nil, entities, zaptest.NewLogger(t))

	w := ecs.NewWorld()
	require.NoError(t, loader.LoadLevel(w, "stack", AtPosition(mgl64.Vec2{18, 0})))

	sounds := &fakeSounds{}
	system := NewCheckpointSystem(entities, sounds, zaptest.NewLogger(t))
	var frame FrameData
	system.Update(w, InputState{Activate: true}, "stack", &frame)

	player := w.PlayerData[w.PlayerID]
	assert.Equal(t, int32(7), player.SpawnID, "first in creation order wins")
	assert.Equal(t, "stack", player.SpawnMap)
	assert.Len(t, sounds.played, 1)
}

func TestIsActiveCheckpoint(t *testing.T) {
	lv := newTestLevel(t)
	w := lv.world
	require.NoError(t, lv.loader.LoadLevel(w, "a", AtCheckpoint(1)))

	var active, inactive ecs.EntityID
	for id, cp := range w.Checkpoint {
		if cp.ID == 1 {
			active = id
		} else {
			inactive = id
		}
	}

	assert.True(t, IsActiveCheckpoint(w, active, "a"))
	assert.False(t, IsActiveCheckpoint(w, inactive, "a"))
	assert.False(t, IsActiveCheckpoint(w, active, "b"))
	assert.False(t, IsActiveCheckpoint(w, w.PlayerID, "a"))
}
