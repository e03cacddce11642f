package ecs

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Position is the bottom-left corner of an entity in local map
// coordinates (y grows upward from the bottom edge of the map).
type Position struct {
	Vec mgl64.Vec2
}

// Rect is an axis-aligned box relative to an entity's Position.
type Rect struct {
	Offset mgl64.Vec2
	Size   mgl64.Vec2 // never negative
}

// NewRect builds a Rect, clamping negative extents to zero.
func NewRect(offset, size mgl64.Vec2) Rect {
	return Rect{Offset: offset, Size: mgl64.Vec2{max(size[0], 0), max(size[1], 0)}}
}

// At returns the rect placed at pos.
func (r Rect) At(pos Position) Box {
	min := pos.Vec.Add(r.Offset)
	return Box{Min: min, Max: min.Add(r.Size)}
}

// Box is an absolute axis-aligned box in local map coordinates.
type Box struct {
	Min, Max mgl64.Vec2
}

// BoxAt returns the box of the given size with its bottom-left at pos.
func BoxAt(pos Position, size mgl64.Vec2) Box {
	return Box{Min: pos.Vec, Max: pos.Vec.Add(size)}
}

// Overlaps reports whether two boxes intersect. Touching edges do not count.
func (b Box) Overlaps(o Box) bool {
	return b.Min[0] < o.Max[0] && o.Min[0] < b.Max[0] &&
		b.Min[1] < o.Max[1] && o.Min[1] < b.Max[1]
}

// Center returns the midpoint of the box.
func (b Box) Center() mgl64.Vec2 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// RigidBody is the integrator-visible physics state.
type RigidBody struct {
	Velocity mgl64.Vec2 // px/s, +Y is up
	Bounds   Rect
}

// Ability indexes the player's ability bitset.
type Ability int

const (
	AbilityDash Ability = iota
	AbilityDoubleJump
	AbilityTernaryClock
	AbilityQuaternaryClock
	AbilityCount
)

func (a Ability) String() string {
	switch a {
	case AbilityDash:
		return "dash"
	case AbilityDoubleJump:
		return "double_jump"
	case AbilityTernaryClock:
		return "ternary_clock"
	case AbilityQuaternaryClock:
		return "quaternary_clock"
	default:
		return "unknown"
	}
}

// CountdownMode selects the world clock's maximum and display radix.
type CountdownMode int

const (
	ModeBinary CountdownMode = iota
	ModeTernary
	ModeQuaternary
	modeCount
)

// Radix returns the base the countdown is displayed in.
func (m CountdownMode) Radix() int {
	return int(m) + 2
}

// Unlocked reports whether the player may select this mode.
func (m CountdownMode) Unlocked(abilities Bitset) bool {
	switch m {
	case ModeBinary:
		return true
	case ModeTernary:
		return abilities.Has(int(AbilityTernaryClock))
	case ModeQuaternary:
		return abilities.Has(int(AbilityQuaternaryClock))
	default:
		return false
	}
}

// Next returns the next unlocked mode after m, wrapping around.
func (m CountdownMode) Next(abilities Bitset) CountdownMode {
	for i := 1; i <= int(modeCount); i++ {
		next := CountdownMode((int(m) + i) % int(modeCount))
		if next.Unlocked(abilities) {
			return next
		}
	}
	return m
}

func (m CountdownMode) String() string {
	switch m {
	case ModeBinary:
		return "binary"
	case ModeTernary:
		return "ternary"
	case ModeQuaternary:
		return "quaternary"
	default:
		return "unknown"
	}
}

// Player is the state that survives map reloads. It is a plain value so
// that a copy taken before a reset can be restored verbatim.
type Player struct {
	SpawnID  int32  // checkpoint the world clock rolls back to
	SpawnMap string // map that holds SpawnID

	Mode           CountdownMode
	Abilities      Bitset
	Collected      Bitset
	CollectedCount int

	AirTime      float64 // seconds since last grounded
	DashCooldown float64 // seconds
	Grounded     bool
	FacingLeft   bool
	AirJumpUsed  bool
}

// HasAbility reports whether the ability bit is set.
func (p Player) HasAbility(a Ability) bool {
	return p.Abilities.Has(int(a))
}

// Checkpoint is a respawn point the player can activate.
type Checkpoint struct {
	ID int32
}

// Upgrade grants the ability bit UpgradeID once.
type Upgrade struct {
	UpgradeID int32
}

// Collectible is counted once per ID across the whole world.
type Collectible struct {
	ID int32
}

// Sign shows a text while the player stands in front of it.
type Sign struct {
	TextID   int32
	Tutorial bool
}

// Trigger is the overlap area of a checkpoint, pickup or sign.
type Trigger struct {
	Size mgl64.Vec2
}

// Camera follows the player. Snapped is false until the first update,
// which jumps straight to the target.
type Camera struct {
	Pos     mgl64.Vec2
	Snapped bool
}

// FadeCurve shapes a fade's opacity over time.
type FadeCurve int

const (
	FadeLinear FadeCurve = iota
	FadeEaseOut
)

// Fade removes its entity when Remaining reaches zero.
type Fade struct {
	Remaining float64
	Duration  float64
	Curve     FadeCurve
}

// Alpha returns the current opacity in [0, 1].
func (f Fade) Alpha() float64 {
	if f.Duration <= 0 {
		return 0
	}
	t := max(0, min(1, f.Remaining/f.Duration))
	if f.Curve == FadeEaseOut {
		return t * t
	}
	return t
}

// Sprite is a flat coloured rectangle drawn at the entity's Position.
type Sprite struct {
	Size  mgl64.Vec2
	Color color.RGBA
}
