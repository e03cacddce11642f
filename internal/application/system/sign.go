package system

import (
	"github.com/younwookim/timeloop/internal/ecs"
	"github.com/younwookim/timeloop/internal/infrastructure/config"
)

// SignSystem shows a sign's text while the player stands in front of it.
type SignSystem struct {
	config *config.EntitiesConfig
	text   *TextBox
}

// NewSignSystem creates a new sign system
func NewSignSystem(cfg *config.EntitiesConfig, text *TextBox) *SignSystem {
	return &SignSystem{config: cfg, text: text}
}

// Update opens the first overlapped sign. Walking away closes a tutorial
// text; other texts time out on their own.
func (s *SignSystem) Update(w *ecs.World, frame *FrameData) {
	box, ok := w.PlayerBox()
	if !ok {
		return
	}

	for _, id := range ecs.SortedIDs(w.Sign) {
		if !triggerBox(w, id).Overlaps(box) {
			continue
		}
		sign := w.Sign[id]
		msg, ok := s.config.SignTexts[sign.TextID]
		if !ok {
			continue
		}

		frame.ShowDialog = true
		frame.TutorialDialog = sign.Tutorial
		if s.text.Target() != msg {
			s.text.Show(msg, sign.Tutorial)
		}
		return
	}

	if s.text.Tutorial() {
		s.text.Hide()
	}
}
