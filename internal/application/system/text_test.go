package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/timeloop/internal/ecs"
	"github.com/younwookim/timeloop/internal/infrastructure/config"
)

func TestTextBox_Typewriter(t *testing.T) {
	box := NewTextBox(config.TextConfig{CharsPerSecond: 10, HoldSeconds: 1})
	box.Show("hello", false)

	box.Update(0.25)
	assert.Equal(t, "he", box.Visible())
	assert.False(t, box.Done())

	box.Update(0.25)
	assert.Equal(t, "hello", box.Visible())
	assert.True(t, box.Done())

	box.Update(0.9)
	assert.True(t, box.Active(), "held after reveal")

	box.Update(0.2)
	assert.False(t, box.Active())
	assert.Empty(t, box.Visible())
}

func TestTextBox_TutorialStaysUp(t *testing.T) {
	box := NewTextBox(config.TextConfig{CharsPerSecond: 10, HoldSeconds: 1})
	box.Show("hi", true)

	box.Update(30)
	assert.True(t, box.Active())
	assert.True(t, box.Tutorial())
	assert.Equal(t, "hi", box.Visible())

	box.Hide()
	assert.False(t, box.Active())
	assert.False(t, box.Tutorial())
}

func TestTextBox_ShowRestarts(t *testing.T) {
	box := NewTextBox(config.TextConfig{})
	box.Show("first", false)
	box.Update(1)

	box.Show("second", false)
	assert.Empty(t, box.Visible())
	assert.Equal(t, "second", box.Target())

	// Defaults to 30 characters per second.
	box.Update(0.1)
	assert.Equal(t, "sec", box.Visible())
}

func TestSign_ShowsWhileOverlapping(t *testing.T) {
	lv := newTestLevel(t)
	w := lv.world
	require.NoError(t, lv.loader.LoadLevel(w, "b", AtCheckpoint(5)))

	text := NewTextBox(lv.entities.Text)
	signs := NewSignSystem(lv.entities, text)

	movePlayer(w, mgl64.Vec2{202, 16})
	var frame FrameData
	signs.Update(w, &frame)

	assert.True(t, frame.ShowDialog)
	assert.True(t, frame.TutorialDialog)
	assert.Equal(t, "tutorial", text.Target())

	// Standing still keeps the reveal going.
	text.Update(0.3)
	signs.Update(w, &FrameData{})
	assert.Equal(t, "tut", text.Visible())

	movePlayer(w, mgl64.Vec2{64, 16})
	frame = FrameData{}
	signs.Update(w, &frame)

	assert.False(t, frame.ShowDialog)
	assert.False(t, text.Active(), "walking away closes a tutorial")
}

func TestSign_LeavesOtherTextsAlone(t *testing.T) {
	lv := newTestLevel(t)
	w := lv.world
	require.NoError(t, lv.loader.LoadLevel(w, "b", AtCheckpoint(5)))

	text := NewTextBox(lv.entities.Text)
	text.Show("dash", false)
	NewSignSystem(lv.entities, text).Update(w, &FrameData{})

	assert.True(t, text.Active())
}

func TestUpdateFades(t *testing.T) {
	w := ecs.NewWorld()
	id := w.CreateFade(ecs.Position{}, ecs.Sprite{Size: mgl64.Vec2{4, 4}}, 0.5, ecs.FadeLinear)

	UpdateFades(w, 0.3)
	require.True(t, w.Exists(id))
	assert.InDelta(t, 0.2, w.Fade[id].Remaining, 1e-9)

	UpdateFades(w, 0.3)
	assert.False(t, w.Exists(id))
	assert.Empty(t, w.Fade)
}
