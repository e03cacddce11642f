package system

import (
	"math"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/younwookim/timeloop/internal/domain/entity"
	"github.com/younwookim/timeloop/internal/ecs"
	"github.com/younwookim/timeloop/internal/infrastructure/config"
)

// RollbackResult reports what the world clock did this frame.
type RollbackResult int

const (
	RollbackNone RollbackResult = iota
	// RollbackTeleported moved the player on the active map.
	RollbackTeleported
	// RollbackDeferred queued a load of another map for the next frame.
	RollbackDeferred
)

func (r RollbackResult) String() string {
	switch r {
	case RollbackNone:
		return "none"
	case RollbackTeleported:
		return "teleported"
	case RollbackDeferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// Rollback is a pending return to a checkpoint on another map.
type Rollback struct {
	Map        entity.MapID
	Checkpoint int32
}

// ClockSystem counts down the time the player has left before being sent
// back to their checkpoint.
type ClockSystem struct {
	config *config.ClockConfig
	sounds SoundPlayer
	sound  string
	log    *zap.Logger

	remaining float64
	pending   *Rollback
}

// NewClockSystem creates a clock that starts full for ModeBinary.
func NewClockSystem(cfg *config.ClockConfig, sounds SoundPlayer, rollbackSound string, log *zap.Logger) *ClockSystem {
	c := &ClockSystem{config: cfg, sounds: sounds, sound: rollbackSound, log: log}
	c.Reset(ecs.ModeBinary)
	return c
}

// Max returns the full countdown for a mode.
func (c *ClockSystem) Max(mode ecs.CountdownMode) float64 {
	return c.config.MaxSeconds(mode.Radix())
}

// Reset refills the clock for mode.
func (c *ClockSystem) Reset(mode ecs.CountdownMode) {
	c.remaining = c.Max(mode)
}

// Remaining returns the seconds left.
func (c *ClockSystem) Remaining() float64 {
	return c.remaining
}

// Update ticks the clock. When it runs out the player returns to their
// checkpoint: immediately if it is on the active map, otherwise through a
// deferred load picked up with TakePending.
func (c *ClockSystem) Update(w *ecs.World, active entity.MapID, dt float64) RollbackResult {
	if !w.HasPlayer() {
		return RollbackNone
	}
	c.remaining -= dt
	if c.remaining > 0 {
		return RollbackNone
	}

	pid := w.PlayerID
	player := w.PlayerData[pid]
	c.Reset(player.Mode)
	c.sounds.Play(c.sound)

	if player.SpawnMap == string(active) {
		if pos, ok := FindCheckpoint(w, player.SpawnID); ok {
			body := w.RigidBody[pid]
			body.Velocity = mgl64.Vec2{}
			player.Grounded = true
			player.AirTime = 0
			player.AirJumpUsed = false

			w.Position[pid] = pos
			w.RigidBody[pid] = body
			w.PlayerData[pid] = player

			c.log.Debug("rollback", zap.String("map", string(active)), zap.Int32("checkpoint", player.SpawnID))
			return RollbackTeleported
		}
	}

	c.pending = &Rollback{Map: entity.MapID(player.SpawnMap), Checkpoint: player.SpawnID}
	c.log.Debug("rollback deferred", zap.String("from", string(active)), zap.String("to", player.SpawnMap))
	return RollbackDeferred
}

// TakePending returns and clears a deferred rollback.
func (c *ClockSystem) TakePending() (Rollback, bool) {
	if c.pending == nil {
		return Rollback{}, false
	}
	r := *c.pending
	c.pending = nil
	return r, true
}

// FormatCountdown renders whole seconds left, rounded up, in radix.
func FormatCountdown(remaining float64, radix int) string {
	if radix < 2 || radix > 36 {
		radix = 10
	}
	secs := int64(math.Ceil(max(remaining, 0)))
	return strconv.FormatInt(secs, radix)
}
