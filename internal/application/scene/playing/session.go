package playing

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/younwookim/timeloop/internal/application/state"
	"github.com/younwookim/timeloop/internal/application/system"
	"github.com/younwookim/timeloop/internal/domain/entity"
	"github.com/younwookim/timeloop/internal/ecs"
	"github.com/younwookim/timeloop/internal/infrastructure/config"
)

var (
	// ErrAlreadySetup is returned by a second call to Setup.
	ErrAlreadySetup = errors.New("session already set up")
	// ErrNotSetup is returned when a session is used before Setup.
	ErrNotSetup = errors.New("session not set up")
)

// Layers is the texture side of the renderer: it receives map layers on
// load and draws them back by index.
type Layers interface {
	system.TextureCache
	DrawLayer(dst *ebiten.Image, index int, geoM ebiten.GeoM)
}

type nopLayers struct {
	system.NopTextures
}

func (nopLayers) DrawLayer(*ebiten.Image, int, ebiten.GeoM) {}

// SessionOptions holds the collaborators of a session. Zero values are
// replaced with silent defaults.
type SessionOptions struct {
	Log    *zap.Logger
	Sounds system.SoundPlayer
	Layers Layers
	RunID  uuid.UUID
}

// Session runs one play-through: it owns the entity world, the active map
// and every per-frame system.
type Session struct {
	log    *zap.Logger
	runID  uuid.UUID
	sounds system.SoundPlayer
	layers Layers

	cfg   *config.GameConfig
	state state.GameState
	world *ecs.World
	frame system.FrameData

	loader      *system.LevelLoader
	movement    *system.MovementSystem
	checkpoints *system.CheckpointSystem
	pickups     *system.PickupSystem
	signs       *system.SignSystem
	physics     *system.PhysicsSystem
	clock       *system.ClockSystem
	traversal   *system.TraversalSystem
	camera      *system.CameraSystem
	text        *system.TextBox

	countdown   countdownCache
	activeColor color.RGBA
}

// NewSession creates a session in the Uninitialized state.
func NewSession(opts SessionOptions) *Session {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Sounds == nil {
		opts.Sounds = system.NopSound{}
	}
	if opts.Layers == nil {
		opts.Layers = nopLayers{}
	}
	if opts.RunID == uuid.Nil {
		opts.RunID = uuid.New()
	}
	return &Session{
		log:    opts.Log.With(zap.Stringer("run", opts.RunID)),
		runID:  opts.RunID,
		sounds: opts.Sounds,
		layers: opts.Layers,
		state:  state.StateUninitialized,
	}
}

// Setup builds the systems, loads the start map and moves to Title.
func (s *Session) Setup(cfg *config.GameConfig, world *entity.WorldMap) error {
	if s.state != state.StateUninitialized {
		return ErrAlreadySetup
	}
	if cfg == nil || cfg.Physics == nil || cfg.Entities == nil || world == nil || len(world.Maps) == 0 {
		return fmt.Errorf("%w: incomplete configuration", ErrNotSetup)
	}

	registry, err := system.NewRegistry(cfg.Entities)
	if err != nil {
		return fmt.Errorf("failed to register entity types: %w", err)
	}

	display := cfg.Physics.Display
	s.cfg = cfg
	s.world = ecs.NewWorld()
	s.loader = system.NewLevelLoader(world, registry, s.layers, cfg.Entities, s.log)
	s.text = system.NewTextBox(cfg.Entities.Text)
	s.movement = system.NewMovementSystem(cfg.Physics)
	s.checkpoints = system.NewCheckpointSystem(cfg.Entities, s.sounds, s.log)
	s.pickups = system.NewPickupSystem(cfg.Entities, s.sounds, s.text, s.log)
	s.signs = system.NewSignSystem(cfg.Entities, s.text)
	s.physics = system.NewPhysicsSystem()
	s.clock = system.NewClockSystem(&cfg.Physics.Clock, s.sounds, cfg.Entities.Sounds.Rollback, s.log)
	s.traversal = system.NewTraversalSystem(s.loader.World)
	s.camera = system.NewCameraSystem(cfg.Physics.Camera, display.ScreenWidth, display.ScreenHeight)
	s.activeColor = activeCheckpointColor(cfg.Entities.Checkpoint)

	if err := s.loadStart(); err != nil {
		return err
	}

	s.state = s.state.Next()
	s.updateDerived(0)
	s.log.Info("session ready", zap.String("map", string(s.loader.Active().ID)))
	return nil
}

// start returns where a new game begins. Without a configured start the
// first map of the world is used.
func (s *Session) start() (entity.MapID, int32) {
	if s.cfg.World != nil && s.cfg.World.Start.Map != "" {
		return entity.MapID(s.cfg.World.Start.Map), s.cfg.World.Start.Checkpoint
	}
	return s.loader.World().Maps[0].Segment.ID, 0
}

func (s *Session) loadStart() error {
	mapID, checkpoint := s.start()
	err := s.loader.LoadLevel(s.world, mapID, system.AtCheckpoint(checkpoint))
	switch {
	case err == nil:
	case errors.Is(err, system.ErrCheckpointNotFound):
		s.log.Warn("start checkpoint missing", zap.Error(err))
	default:
		return fmt.Errorf("failed to load start map: %w", err)
	}
	s.clock.Reset(s.world.PlayerData[s.world.PlayerID].Mode)
	return nil
}

// Update advances the session by one frame.
func (s *Session) Update(input system.InputState, dt float64) {
	s.frame = system.FrameData{}

	switch s.state {
	case state.StateUninitialized:
		return
	case state.StateTitle:
		if input.Start {
			s.state = s.state.Next()
			s.log.Info("game started")
		}
		s.updateDerived(dt)
	case state.StateActive:
		s.updateActive(input, dt)
	}
}

func (s *Session) updateActive(input system.InputState, dt float64) {
	w := s.world

	if rb, ok := s.clock.TakePending(); ok {
		s.applyRollback(rb)
	}

	s.movement.Update(w, input, dt, &s.frame)
	if s.frame.ModeChanged {
		mode := w.PlayerData[w.PlayerID].Mode
		s.clock.Reset(mode)
		s.log.Debug("countdown mode changed", zap.Stringer("mode", mode))
	}

	seg := s.loader.Active()
	s.checkpoints.Update(w, input, seg.ID, &s.frame)
	if s.frame.TriggeredCheckpoint {
		s.clock.Reset(w.PlayerData[w.PlayerID].Mode)
	}
	s.pickups.Update(w, &s.frame)
	s.signs.Update(w, &s.frame)

	var grid ecs.Grid
	if seg.Grid != nil {
		grid = seg.Grid
	}
	s.physics.Update(w, grid, dt)

	result := s.clock.Update(w, seg.ID, dt)
	if result == system.RollbackTeleported {
		s.frame.RolledBack = true
	}

	// A deferred rollback replaces the map next frame anyway.
	if result != system.RollbackDeferred {
		s.traverse(seg)
	}

	system.UpdateFades(w, dt)
	s.updateDerived(dt)
}

func (s *Session) applyRollback(rb system.Rollback) {
	err := s.loader.LoadLevel(s.world, rb.Map, system.AtCheckpoint(rb.Checkpoint))
	switch {
	case err == nil:
	case errors.Is(err, system.ErrUnknownMap):
		s.log.Error("rollback map missing, restarting from the start", zap.Error(err))
		if err := s.loadStart(); err != nil {
			s.log.Error("failed to load start map", zap.Error(err))
			return
		}
	default:
		s.log.Error("rollback load", zap.Error(err))
	}
	s.frame.RolledBack = true
	s.frame.Reloaded = true
}

func (s *Session) traverse(seg *entity.MapSegment) {
	w := s.world
	if !w.HasPlayer() {
		return
	}
	id, local, ok := s.traversal.Resolve(seg, w.Position[w.PlayerID].Vec)
	if !ok {
		return
	}
	if err := s.loader.LoadLevel(w, id, system.AtPosition(local)); err != nil {
		s.log.Error("traversal load", zap.String("to", string(id)), zap.Error(err))
		return
	}
	s.frame.Reloaded = true
	s.log.Debug("map crossed", zap.String("from", string(seg.ID)), zap.String("to", string(id)))
}

// updateDerived refreshes state computed from the simulation. It also runs
// on the title screen.
func (s *Session) updateDerived(dt float64) {
	w := s.world
	if s.state == state.StateTitle {
		system.UpdateFades(w, dt)
	}
	s.text.Update(dt)

	mode := ecs.ModeBinary
	if w.HasPlayer() {
		mode = w.PlayerData[w.PlayerID].Mode
	}
	s.countdown.update(s.clock.Remaining(), mode.Radix())
	s.camera.Update(w, s.loader.Active(), dt)
}

// Reload swaps in freshly loaded world data. The player stays where they
// are when their map still exists, and starts over otherwise.
func (s *Session) Reload(world *entity.WorldMap) error {
	if s.state == state.StateUninitialized {
		return ErrNotSetup
	}
	s.loader.SetWorld(world)

	active := s.loader.Active().ID
	if _, ok := world.Map(active); !ok || !s.world.HasPlayer() {
		s.log.Warn("active map gone after reload", zap.String("map", string(active)))
		return s.loadStart()
	}

	pos := s.world.Position[s.world.PlayerID].Vec
	if err := s.loader.LoadLevel(s.world, active, system.AtPosition(pos)); err != nil {
		return fmt.Errorf("failed to reload map %q: %w", active, err)
	}
	s.log.Info("world reloaded", zap.String("map", string(active)))
	return nil
}

// State returns the current state.
func (s *Session) State() state.GameState { return s.state }

// World returns the entity world.
func (s *Session) World() *ecs.World { return s.world }

// Frame returns the scratch data of the last update.
func (s *Session) Frame() system.FrameData { return s.frame }

// RunID identifies this play-through in logs and recordings.
func (s *Session) RunID() uuid.UUID { return s.runID }

// ActiveMap returns the active map, or nil before Setup.
func (s *Session) ActiveMap() *entity.MapSegment {
	if s.loader == nil {
		return nil
	}
	return s.loader.Active()
}

// Remaining returns the seconds left on the world clock.
func (s *Session) Remaining() float64 {
	if s.clock == nil {
		return 0
	}
	return s.clock.Remaining()
}

// Countdown returns the clock as displayed, in the radix of the
// player's mode.
func (s *Session) Countdown() string { return s.countdown.text }

// Text returns the dialog box.
func (s *Session) Text() *system.TextBox { return s.text }

// Player returns the player's persistent state.
func (s *Session) Player() (ecs.Player, bool) {
	if s.world == nil || !s.world.HasPlayer() {
		return ecs.Player{}, false
	}
	return s.world.PlayerData[s.world.PlayerID], true
}

// PlayerPosition returns the player's position on the active map.
func (s *Session) PlayerPosition() (mgl64.Vec2, bool) {
	if s.world == nil || !s.world.HasPlayer() {
		return mgl64.Vec2{}, false
	}
	return s.world.Position[s.world.PlayerID].Vec, true
}

// countdownCache re-renders the countdown only when the displayed value
// changes.
type countdownCache struct {
	secs  int64
	radix int
	text  string
	valid bool
}

func (c *countdownCache) update(remaining float64, radix int) {
	secs := int64(math.Ceil(max(remaining, 0)))
	if c.valid && c.secs == secs && c.radix == radix {
		return
	}
	c.secs = secs
	c.radix = radix
	c.text = system.FormatCountdown(remaining, radix)
	c.valid = true
}
