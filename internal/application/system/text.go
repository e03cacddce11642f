package system

import (
	"github.com/younwookim/timeloop/internal/infrastructure/config"
)

// TextBox reveals a message one character at a time. Tutorial texts stay
// up until hidden; other texts disappear after a hold time.
type TextBox struct {
	config config.TextConfig

	target   []rune
	shown    int
	passed   float64
	tutorial bool
}

// NewTextBox creates an empty text box
func NewTextBox(cfg config.TextConfig) *TextBox {
	if cfg.CharsPerSecond <= 0 {
		cfg.CharsPerSecond = 30
	}
	return &TextBox{config: cfg}
}

// Show starts revealing text from the beginning.
func (t *TextBox) Show(text string, tutorial bool) {
	t.target = []rune(text)
	t.shown = 0
	t.passed = 0
	t.tutorial = tutorial
}

// Hide clears the box.
func (t *TextBox) Hide() {
	t.target = nil
	t.shown = 0
	t.passed = 0
	t.tutorial = false
}

// Update advances the reveal.
func (t *TextBox) Update(dt float64) {
	if len(t.target) == 0 {
		return
	}
	t.passed += dt
	t.shown = min(len(t.target), int(t.passed*t.config.CharsPerSecond))

	if t.tutorial || t.shown < len(t.target) {
		return
	}
	revealTime := float64(len(t.target)) / t.config.CharsPerSecond
	if t.passed-revealTime >= t.config.HoldSeconds {
		t.Hide()
	}
}

// Visible returns the part of the text revealed so far.
func (t *TextBox) Visible() string {
	return string(t.target[:t.shown])
}

// Target returns the full text being shown.
func (t *TextBox) Target() string {
	return string(t.target)
}

// Active reports whether a text is up.
func (t *TextBox) Active() bool {
	return len(t.target) > 0
}

// Tutorial reports whether the current text is a tutorial text.
func (t *TextBox) Tutorial() bool {
	return t.tutorial
}

// Done reports whether the whole text has been revealed.
func (t *TextBox) Done() bool {
	return t.shown == len(t.target)
}
