package playing

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/younwookim/timeloop/internal/application/replay"
	"github.com/younwookim/timeloop/internal/application/scene"
	"github.com/younwookim/timeloop/internal/application/state"
	"github.com/younwookim/timeloop/internal/application/system"
	"github.com/younwookim/timeloop/internal/domain/entity"
)

// scriptedInput plays back a fixed list of inputs.
type scriptedInput struct {
	frames []system.InputState
	next   int
}

func (s *scriptedInput) GetInput() (system.InputState, bool) {
	if s.next >= len(s.frames) {
		return system.InputState{}, false
	}
	in := s.frames[s.next]
	s.next++
	return in, true
}

func newTestPlaying(t *testing.T, opts Options) *Playing {
	t.Helper()
	cfg := createTestConfig()
	opts.Session.Log = zaptest.NewLogger(t)
	p, err := New(cfg, createTestWorld(t, cfg), opts)
	require.NoError(t, err)
	return p
}

func TestPlaying_ImplementsScene(t *testing.T) {
	var _ scene.Scene = (*Playing)(nil)
}

func TestNewPlaying(t *testing.T) {
	p := newTestPlaying(t, Options{Input: &scriptedInput{}})

	assert.Equal(t, state.StateTitle, p.Session().State())
	assert.Nil(t, p.Recorder())

	w, h := p.Layout(1920, 1080)
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)
}

func TestNewPlaying_BadConfig(t *testing.T) {
	cfg := createTestConfig()
	_, err := New(cfg, nil, Options{})
	assert.ErrorIs(t, err, ErrNotSetup)
}

func TestPlaying_Update(t *testing.T) {
	input := &scriptedInput{frames: []system.InputState{{Start: true}, {Right: true}, {Right: true}}}
	p := newTestPlaying(t, Options{Input: input})

	for range 3 {
		next, err := p.Update(frameDT)
		require.NoError(t, err)
		assert.Nil(t, next)
	}
	assert.Equal(t, state.StateActive, p.Session().State())

	pos, _ := p.Session().PlayerPosition()
	assert.Greater(t, pos[0], 32.0)

	_, err := p.Update(frameDT)
	assert.True(t, errors.Is(err, ebiten.Termination), "exhausted input ends the game")
}

func TestPlaying_WithRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	input := &scriptedInput{frames: []system.InputState{{Start: true}, {Jump: true, JumpPressed: true}}}
	p := newTestPlaying(t, Options{Input: input, Record: true, RecordPath: path})
	require.NotNil(t, p.Recorder())

	_, err := p.Update(frameDT)
	require.NoError(t, err)
	_, err = p.Update(frameDT)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Recorder().FrameCount())

	p.OnExit()

	data, err := replay.LoadReplay(path)
	require.NoError(t, err)
	assert.Equal(t, replay.Version, data.Version)
	assert.Equal(t, p.Session().RunID().String(), data.RunID)
	assert.Equal(t, "a", data.Map)
	require.Len(t, data.Frames, 2)
	assert.True(t, data.Frames[0].Start)
	assert.Equal(t, 1, data.Frames[1].F)
	assert.True(t, data.Frames[1].JumpPressed)
}

func TestPlaying_OnExitWithoutFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	p := newTestPlaying(t, Options{Input: &scriptedInput{}, Record: true, RecordPath: path})

	p.OnEnter()
	p.OnExit()

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "an empty recording is not written")
}

func TestPlaying_HotReload(t *testing.T) {
	cfg := createTestConfig()
	changed := false
	loads := 0

	input := &scriptedInput{frames: []system.InputState{{Start: true}, {}, {}}}
	p := newTestPlaying(t, Options{
		Input:   input,
		Changed: func() bool { c := changed; changed = false; return c },
		LoadWorld: func() (*entity.WorldMap, error) {
			loads++
			if loads == 1 {
				return nil, errors.New("bad yaml")
			}
			return createSoloWorld(t, cfg), nil
		},
	})

	_, err := p.Update(frameDT)
	require.NoError(t, err)
	assert.Zero(t, loads, "nothing changed")

	changed = true
	_, err = p.Update(frameDT)
	require.NoError(t, err)
	assert.Equal(t, 1, loads)
	_, ok := p.Session().loader.World().Map("b")
	assert.True(t, ok, "a failed reload keeps the old world")

	teleport(p.Session(), mgl64.Vec2{100, 16})
	changed = true
	_, err = p.Update(frameDT)
	require.NoError(t, err)
	assert.Equal(t, 2, loads)
	_, ok = p.Session().loader.World().Map("b")
	assert.False(t, ok)
	assert.Equal(t, entity.MapID("a"), p.Session().ActiveMap().ID)
}

func TestRecorder_StopAndIsRecording(t *testing.T) {
	r := NewRecorder("run", "a")
	assert.True(t, r.IsRecording())

	r.Stop()
	assert.False(t, r.IsRecording())
}

func TestRecorder_DoesNotRecordWhenStopped(t *testing.T) {
	r := NewRecorder("run", "a")
	r.RecordFrame(system.InputState{Left: true})
	r.Stop()
	r.RecordFrame(system.InputState{Right: true})

	assert.Equal(t, 1, r.FrameCount())
	assert.True(t, r.GetData().Frames[0].Left)
}

func TestRecorder_SaveEmpty(t *testing.T) {
	r := NewRecorder("run", "a")
	assert.ErrorIs(t, r.Save(filepath.Join(t.TempDir(), "x.json")), ErrNoFrames)
}

func TestGenerateFilename(t *testing.T) {
	name := GenerateFilename()
	assert.Regexp(t, `^replay_\d{8}_\d{6}\.json$`, name)
}
