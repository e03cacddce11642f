// Package playing provides the main gameplay scene.
package playing

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/younwookim/timeloop/internal/application/scene"
	"github.com/younwookim/timeloop/internal/application/system"
	"github.com/younwookim/timeloop/internal/domain/entity"
	"github.com/younwookim/timeloop/internal/infrastructure/config"
)

// InputSource yields one input state per frame. ok is false once the
// source is exhausted.
type InputSource interface {
	GetInput() (input system.InputState, ok bool)
}

// LiveInput reads the keyboard and gamepad. It never runs out.
type LiveInput struct {
	input *system.InputSystem
}

// NewLiveInput creates an input source backed by the devices.
func NewLiveInput() *LiveInput {
	return &LiveInput{input: system.NewInputSystem()}
}

// GetInput implements InputSource.
func (l *LiveInput) GetInput() (system.InputState, bool) {
	return l.input.GetInput(), true
}

// Options configures a Playing scene.
type Options struct {
	Session SessionOptions
	Input   InputSource // defaults to LiveInput

	// Record enables input recording. RecordPath names the file; a
	// timestamped name is used when it is empty.
	Record     bool
	RecordPath string

	// Changed reports whether world data changed on disk since the last
	// call. LoadWorld reads it back. Hot reload is off unless both are set.
	Changed   func() bool
	LoadWorld func() (*entity.WorldMap, error)
}

// Playing is the main gameplay scene
type Playing struct {
	session *Session
	input   InputSource
	log     *zap.Logger
	screenW int
	screenH int
	dt      float64

	changed   func() bool
	loadWorld func() (*entity.WorldMap, error)

	// Input recording
	recorder       *Recorder
	recordFilename string
}

// New creates a Playing scene and sets up its session.
func New(cfg *config.GameConfig, world *entity.WorldMap, opts Options) (*Playing, error) {
	session := NewSession(opts.Session)
	if err := session.Setup(cfg, world); err != nil {
		return nil, fmt.Errorf("failed to set up session: %w", err)
	}

	input := opts.Input
	if input == nil {
		input = NewLiveInput()
	}

	display := cfg.Physics.Display
	framerate := display.Framerate
	if framerate <= 0 {
		framerate = 60
	}

	p := &Playing{
		session:        session,
		input:          input,
		log:            session.log,
		screenW:        display.ScreenWidth,
		screenH:        display.ScreenHeight,
		dt:             1.0 / float64(framerate),
		changed:        opts.Changed,
		loadWorld:      opts.LoadWorld,
		recordFilename: opts.RecordPath,
	}

	if opts.Record {
		p.recorder = NewRecorder(session.RunID().String(), string(session.ActiveMap().ID))
		p.log.Info("recording enabled", zap.String("path", opts.RecordPath))
	}

	return p, nil
}

// Update proceeds the game state (implements scene.Scene)
func (p *Playing) Update(_ float64) (scene.Scene, error) {
	p.reloadIfChanged()

	// F5: Save recording manually
	if p.recorder != nil && inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		p.saveRecording()
	}

	input, ok := p.input.GetInput()
	if !ok {
		p.log.Info("input exhausted", zap.Stringer("state", p.session.State()))
		return nil, ebiten.Termination
	}

	// Record input if recording is enabled
	if p.recorder != nil {
		p.recorder.RecordFrame(input)
	}

	p.session.Update(input, p.dt)
	return nil, nil // nil = stay on this scene
}

func (p *Playing) reloadIfChanged() {
	if p.changed == nil || p.loadWorld == nil || !p.changed() {
		return
	}
	world, err := p.loadWorld()
	if err != nil {
		p.log.Error("failed to reload world, keeping the old one", zap.Error(err))
		return
	}
	if err := p.session.Reload(world); err != nil {
		p.log.Error("failed to apply reloaded world", zap.Error(err))
	}
}

// saveRecording saves the current recording to file
func (p *Playing) saveRecording() {
	if p.recorder == nil {
		return
	}

	filename := p.recordFilename
	if filename == "" {
		filename = GenerateFilename()
	}

	if err := p.recorder.Save(filename); err != nil {
		p.log.Warn("failed to save recording", zap.String("path", filename), zap.Error(err))
		return
	}
	p.log.Info("recording saved", zap.String("path", filename), zap.Int("frames", p.recorder.FrameCount()))
}

// Draw renders the scene (implements scene.Scene)
func (p *Playing) Draw(screen *ebiten.Image) {
	p.session.Draw(screen)
}

// OnEnter is called when entering this scene
func (p *Playing) OnEnter() {
	// Scene is already initialized in New
}

// OnExit is called when leaving this scene
func (p *Playing) OnExit() {
	p.saveRecording()
}

// Layout returns the game's screen dimensions (used by game.Game)
func (p *Playing) Layout(outsideWidth, outsideHeight int) (int, int) {
	return p.screenW, p.screenH
}

// Session returns the running session.
func (p *Playing) Session() *Session {
	return p.session
}

// Recorder returns the input recorder, or nil when recording is off.
func (p *Playing) Recorder() *Recorder {
	return p.recorder
}
