package system

import (
	"github.com/younwookim/timeloop/internal/ecs"
)

// PhysicsSystem runs the integrator and derives the player's grounded
// state from the result.
type PhysicsSystem struct{}

// NewPhysicsSystem creates a new physics system
func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{}
}

// Update integrates all bodies against the grid. The player counts as
// grounded when vertical velocity comes out exactly zero and they were
// either grounded already or falling.
func (s *PhysicsSystem) Update(w *ecs.World, grid ecs.Grid, dt float64) {
	pid := w.PlayerID
	hasPlayer := w.HasPlayer()

	var prevVY float64
	var wasGrounded bool
	if hasPlayer {
		prevVY = w.RigidBody[pid].Velocity[1]
		wasGrounded = w.PlayerData[pid].Grounded
	}

	ecs.Integrate(w, grid, dt)

	if !hasPlayer {
		return
	}
	player := w.PlayerData[pid]
	vy := w.RigidBody[pid].Velocity[1]
	player.Grounded = vy == 0 && (wasGrounded || prevVY < 0)
	w.PlayerData[pid] = player
}
