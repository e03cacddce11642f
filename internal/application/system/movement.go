package system

import (
	"github.com/younwookim/timeloop/internal/ecs"
	"github.com/younwookim/timeloop/internal/infrastructure/config"
)

// MovementSystem turns input into player velocity
type MovementSystem struct {
	config *config.PhysicsConfig
}

// NewMovementSystem creates a new movement system
func NewMovementSystem(cfg *config.PhysicsConfig) *MovementSystem {
	return &MovementSystem{config: cfg}
}

// Update updates the player based on input
func (s *MovementSystem) Update(w *ecs.World, input InputState, dt float64, frame *FrameData) {
	if !w.HasPlayer() {
		return
	}
	pid := w.PlayerID
	player := w.PlayerData[pid]
	body := w.RigidBody[pid]

	s.updateTimers(&player, dt)
	s.handleMovement(&player, &body, input)
	s.handleJump(&player, &body, input)
	s.applyGravity(&body, dt)
	s.handleDash(&player, &body, input)

	if input.ModeCycle {
		if next := player.Mode.Next(player.Abilities); next != player.Mode {
			player.Mode = next
			frame.ModeChanged = true
		}
	}

	w.PlayerData[pid] = player
	w.RigidBody[pid] = body
}

func (s *MovementSystem) updateTimers(player *ecs.Player, dt float64) {
	if player.Grounded {
		player.AirTime = 0
		player.AirJumpUsed = false
	} else {
		player.AirTime += dt
	}

	if player.DashCooldown > 0 {
		player.DashCooldown = max(0, player.DashCooldown-dt)
	}
}

// handleMovement blends horizontal velocity toward the input target.
func (s *MovementSystem) handleMovement(player *ecs.Player, body *ecs.RigidBody, input InputState) {
	targetVX := 0.0
	maxSpeed := s.config.Movement.MaxSpeed

	if input.Left {
		targetVX -= maxSpeed
		player.FacingLeft = true
	}
	if input.Right {
		targetVX += maxSpeed
		player.FacingLeft = false
	}

	blend := s.config.Movement.Blend
	body.Velocity[0] = blend*targetVX + (1-blend)*body.Velocity[0]
}

// handleJump keeps pushing up while jump is held early in the air, which
// gives a variable jump height.
func (s *MovementSystem) handleJump(player *ecs.Player, body *ecs.RigidBody, input InputState) {
	switch {
	case input.Jump && player.AirTime < s.config.Jump.Window:
		body.Velocity[1] = s.config.Jump.Force
	case input.JumpPressed && !player.Grounded && !player.AirJumpUsed && player.HasAbility(ecs.AbilityDoubleJump):
		body.Velocity[1] = s.config.Jump.Force
		player.AirJumpUsed = true
	}
}

func (s *MovementSystem) applyGravity(body *ecs.RigidBody, dt float64) {
	body.Velocity[1] -= s.config.Physics.Gravity * dt
	if body.Velocity[1] < s.config.Physics.MinFallSpeed {
		body.Velocity[1] = s.config.Physics.MinFallSpeed
	}
}

func (s *MovementSystem) handleDash(player *ecs.Player, body *ecs.RigidBody, input InputState) {
	if !input.Dash || player.DashCooldown > 0 || !player.HasAbility(ecs.AbilityDash) {
		return
	}
	dir := 1.0
	if player.FacingLeft {
		dir = -1
	}
	body.Velocity[0] = dir * s.config.Dash.Speed
	player.DashCooldown = s.config.Dash.Cooldown
}
