// Package sound plays short sound effects from an fs.FS.
package sound

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"go.uber.org/zap"
)

// DefaultSampleRate is used when no audio context is available.
const DefaultSampleRate = 44100

// Player decodes WAV assets on first use and keeps the PCM in memory.
// An asset that cannot be read or decoded is reported once and then
// ignored for the rest of the run.
type Player struct {
	ctx    *audio.Context
	fsys   fs.FS
	log    *zap.Logger
	volume float64

	pcm    map[string][]byte
	failed map[string]struct{}
}

// NewPlayer creates a player reading from fsys. A nil context makes every
// Play silent while still validating assets.
func NewPlayer(ctx *audio.Context, fsys fs.FS, log *zap.Logger) *Player {
	return &Player{
		ctx:    ctx,
		fsys:   fsys,
		log:    log,
		volume: 1,
		pcm:    make(map[string][]byte),
		failed: make(map[string]struct{}),
	}
}

// SetVolume sets the volume of sounds started from now on.
func (p *Player) SetVolume(v float64) {
	p.volume = min(max(v, 0), 1)
}

// Play implements system.SoundPlayer.
func (p *Player) Play(path string) {
	if path == "" {
		return
	}
	pcm, ok := p.load(path)
	if !ok || p.ctx == nil {
		return
	}
	player := p.ctx.NewPlayerFromBytes(pcm)
	player.SetVolume(p.volume)
	player.Play()
}

func (p *Player) load(path string) ([]byte, bool) {
	if b, ok := p.pcm[path]; ok {
		return b, true
	}
	if _, failed := p.failed[path]; failed {
		return nil, false
	}

	b, err := p.decode(path)
	if err != nil {
		p.failed[path] = struct{}{}
		p.log.Warn("sound unavailable", zap.String("path", path), zap.Error(err))
		return nil, false
	}
	p.pcm[path] = b
	return b, true
}

func (p *Player) decode(path string) ([]byte, error) {
	raw, err := fs.ReadFile(p.fsys, path)
	if err != nil {
		return nil, err
	}
	stream, err := wav.DecodeWithSampleRate(p.sampleRate(), bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode wav %q: %w", path, err)
	}
	return io.ReadAll(stream)
}

func (p *Player) sampleRate() int {
	if p.ctx == nil {
		return DefaultSampleRate
	}
	return p.ctx.SampleRate()
}
