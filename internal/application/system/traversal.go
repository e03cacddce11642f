package system

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/timeloop/internal/domain/entity"
)

// TraversalSystem finds the neighboring map a player walked into.
type TraversalSystem struct {
	world func() *entity.WorldMap
}

// NewTraversalSystem creates a resolver that always reads the current
// world, so hot-reloaded data is picked up.
func NewTraversalSystem(world func() *entity.WorldMap) *TraversalSystem {
	return &TraversalSystem{world: world}
}

// Resolve returns the neighbor of active that contains the player's world
// position, and the player's position in that neighbor's local frame.
// Nothing is returned while the player is still inside active, or when no
// neighbor contains the point. Neighbors are tried in listed order.
func (s *TraversalSystem) Resolve(active *entity.MapSegment, local mgl64.Vec2) (entity.MapID, mgl64.Vec2, bool) {
	if active == nil || active.InBounds(local) {
		return "", mgl64.Vec2{}, false
	}

	world := active.ToWorld(local)
	maps := s.world()
	for _, id := range active.Neighbors {
		data, ok := maps.Map(id)
		if !ok {
			continue
		}
		if data.Segment.ContainsWorld(world) {
			return id, data.Segment.ToLocal(world), true
		}
	}
	return "", mgl64.Vec2{}, false
}
