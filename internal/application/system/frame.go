package system

import (
	"image"
)

// FrameData is per-frame scratch state. It is cleared at the start of
// every Update and never carried across frames.
type FrameData struct {
	TriggeredCheckpoint bool
	ModeChanged         bool
	Upgraded            bool
	Collected           int
	ShowDialog          bool
	TutorialDialog      bool
	RolledBack          bool
	Reloaded            bool
}

// TextureCache receives a map's tile layers on every load. Textures are
// keyed by layer index and live across loads: the first sight of an index
// creates a texture, later loads update it in place.
type TextureCache interface {
	UploadLayer(index int, img *image.RGBA)
	// SetLayerCount tells the cache how many layers the active map uses.
	SetLayerCount(n int)
}

// SoundPlayer plays an audio asset by path.
type SoundPlayer interface {
	Play(path string)
}

// NopSound discards every sound.
type NopSound struct{}

func (NopSound) Play(string) {}

// NopTextures discards every upload.
type NopTextures struct{}

func (NopTextures) UploadLayer(int, *image.RGBA) {}
func (NopTextures) SetLayerCount(int)            {}
