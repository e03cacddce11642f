package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// stickThreshold is how far the stick must be pushed to count as pressed.
const stickThreshold = 0.5

// InputState holds the input for one frame. Fields ending in an edge
// (Pressed, Dash, Activate, ModeCycle, Start) are true only on the frame
// the button went down.
type InputState struct {
	Left        bool `json:"l,omitempty"`
	Right       bool `json:"r,omitempty"`
	Jump        bool `json:"j,omitempty"`
	JumpPressed bool `json:"jp,omitempty"`
	Dash        bool `json:"d,omitempty"`
	Activate    bool `json:"a,omitempty"`
	ModeCycle   bool `json:"m,omitempty"`
	Start       bool `json:"s,omitempty"`
}

// InputSystem reads keyboard and gamepad state. It remembers the previous
// stick position so that pushing the stick down registers once, like a
// key press.
type InputSystem struct {
	prevAxisY float64
}

// NewInputSystem creates a new input system
func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

// GetInput reads the current input state
func (s *InputSystem) GetInput() InputState {
	input := InputState{
		Left:        ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right:       ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		Jump:        ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeySpace),
		JumpPressed: inpututil.IsKeyJustPressed(ebiten.KeyW) || inpututil.IsKeyJustPressed(ebiten.KeySpace),
		Dash:        inpututil.IsKeyJustPressed(ebiten.KeyX) || inpututil.IsKeyJustPressed(ebiten.KeyShiftLeft),
		Activate:    inpututil.IsKeyJustPressed(ebiten.KeyS) || inpututil.IsKeyJustPressed(ebiten.KeyArrowDown),
		ModeCycle:   inpututil.IsKeyJustPressed(ebiten.KeyC),
		Start:       inpututil.IsKeyJustPressed(ebiten.KeyEnter),
	}

	ids := ebiten.AppendGamepadIDs(nil)
	if len(ids) == 0 {
		s.prevAxisY = 0
		return input
	}
	id := ids[0]
	if !ebiten.IsStandardGamepadLayoutAvailable(id) {
		return input
	}

	axisX := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
	axisY := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
	stickDown := s.axisEdge(axisY)

	pad := InputState{
		Left:        axisX < -stickThreshold || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftLeft),
		Right:       axisX > stickThreshold || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftRight),
		Jump:        ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom),
		JumpPressed: inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom),
		Dash:        inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightLeft),
		Activate:    inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonLeftBottom) || stickDown,
		ModeCycle:   inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightTop),
		Start:       inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterRight),
	}
	return input.Merge(pad)
}

// axisEdge reports a downward push of the stick past the threshold that was
// not already past it last frame. Screen-down is positive on the vertical
// axis.
func (s *InputSystem) axisEdge(axisY float64) bool {
	edge := axisY > stickThreshold && s.prevAxisY <= stickThreshold
	s.prevAxisY = axisY
	return edge
}

// Merge ORs two input states together.
func (in InputState) Merge(o InputState) InputState {
	return InputState{
		Left:        in.Left || o.Left,
		Right:       in.Right || o.Right,
		Jump:        in.Jump || o.Jump,
		JumpPressed: in.JumpPressed || o.JumpPressed,
		Dash:        in.Dash || o.Dash,
		Activate:    in.Activate || o.Activate,
		ModeCycle:   in.ModeCycle || o.ModeCycle,
		Start:       in.Start || o.Start,
	}
}
