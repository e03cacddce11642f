package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/timeloop/internal/domain/entity"
)

func TestTraversal_Resolve(t *testing.T) {
	world := createTestWorld(t)
	traversal := NewTraversalSystem(func() *entity.WorldMap { return world })

	a, _ := world.Map("a")
	b, _ := world.Map("b")

	tests := []struct {
		name    string
		active  *entity.MapSegment
		local   mgl64.Vec2
		wantMap entity.MapID
		wantPos mgl64.Vec2
		wantOK  bool
	}{
		{name: "inside", active: a.Segment, local: mgl64.Vec2{100, 50}},
		{name: "on the right edge is still inside", active: a.Segment, local: mgl64.Vec2{320, 50}},
		{name: "walked east", active: a.Segment, local: mgl64.Vec2{321, 50}, wantMap: "b", wantPos: mgl64.Vec2{1, 50}, wantOK: true},
		{name: "walked west", active: b.Segment, local: mgl64.Vec2{-2, 20}, wantMap: "a", wantPos: mgl64.Vec2{318, 20}, wantOK: true},
		{name: "no neighbor there", active: a.Segment, local: mgl64.Vec2{-5, 50}},
		{name: "fell off", active: a.Segment, local: mgl64.Vec2{50, -10}},
		{name: "no active map", active: nil, local: mgl64.Vec2{-5, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, pos, ok := traversal.Resolve(tt.active, tt.local)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantMap, id)
			assert.InDelta(t, tt.wantPos[0], pos[0], 1e-9)
			assert.InDelta(t, tt.wantPos[1], pos[1], 1e-9)
		})
	}
}

func TestTraversal_RoundTrip(t *testing.T) {
	world := createTestWorld(t)
	traversal := NewTraversalSystem(func() *entity.WorldMap { return world })
	a, _ := world.Map("a")
	b, _ := world.Map("b")

	id, inB, ok := traversal.Resolve(a.Segment, mgl64.Vec2{325, 33})
	require.True(t, ok)
	require.Equal(t, entity.MapID("b"), id)

	id, back, ok := traversal.Resolve(b.Segment, inB.Sub(mgl64.Vec2{10, 0}))
	require.True(t, ok)
	assert.Equal(t, entity.MapID("a"), id)
	assert.InDelta(t, 315.0, back[0], 1e-9)
	assert.InDelta(t, 33.0, back[1], 1e-9)
}

func TestTraversal_FirstListedNeighborWins(t *testing.T) {
	mk := func(id entity.MapID, origin mgl64.Vec2, neighbors ...entity.MapID) *entity.MapData {
		return &entity.MapData{Segment: &entity.MapSegment{
			ID:        id,
			Origin:    origin,
			Size:      mgl64.Vec2{64, 64},
			Grid:      entity.NewGrid(4, 4, testTile),
			Neighbors: neighbors,
		}}
	}
	world, err := entity.NewWorldMap(testTile, 0, []*entity.MapData{
		mk("home", mgl64.Vec2{0, 0}, "second", "first"),
		mk("first", mgl64.Vec2{64, 0}),
		mk("second", mgl64.Vec2{64, 0}),
	})
	require.NoError(t, err)

	traversal := NewTraversalSystem(func() *entity.WorldMap { return world })
	home, _ := world.Map("home")

	id, _, ok := traversal.Resolve(home.Segment, mgl64.Vec2{70, 10})
	require.True(t, ok)
	assert.Equal(t, entity.MapID("second"), id)
}

func TestTraversal_ReadsCurrentWorld(t *testing.T) {
	world := createTestWorld(t)
	current := world
	traversal := NewTraversalSystem(func() *entity.WorldMap { return current })
	a, _ := world.Map("a")

	// A world without "b" means nothing to cross into.
	aOnly, err := entity.NewWorldMap(testTile, 0, []*entity.MapData{{Segment: &entity.MapSegment{
		ID: "a", Size: a.Segment.Size, Grid: a.Segment.Grid,
	}}})
	require.NoError(t, err)
	current = aOnly

	_, _, ok := traversal.Resolve(a.Segment, mgl64.Vec2{330, 10})
	assert.False(t, ok)
}
