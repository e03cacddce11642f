// Package render holds GPU-side state that outlives a single map.
package render

import (
	"image"

	"github.com/cespare/xxhash/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

type uploadAction int

const (
	actionSkip uploadAction = iota
	actionCreate
	actionUpdate
)

func (a uploadAction) String() string {
	switch a {
	case actionSkip:
		return "skip"
	case actionCreate:
		return "create"
	case actionUpdate:
		return "update"
	default:
		return "unknown"
	}
}

type slot struct {
	image *ebiten.Image
	size  image.Point
	sum   uint64
	valid bool
}

// LayerCache keeps one texture per layer index across map loads. A texture
// is created the first time its index is seen or when the layer changes
// size, and written in place otherwise. Uploads whose pixels hash the same
// as the texture's current contents are skipped.
type LayerCache struct {
	slots []slot
	count int
	log   *zap.Logger
}

// NewLayerCache creates an empty cache
func NewLayerCache(log *zap.Logger) *LayerCache {
	return &LayerCache{log: log}
}

// plan decides what an upload of the given size and checksum needs.
func (c *LayerCache) plan(index int, size image.Point, sum uint64) uploadAction {
	if index >= len(c.slots) || !c.slots[index].valid || c.slots[index].size != size {
		return actionCreate
	}
	if c.slots[index].sum == sum {
		return actionSkip
	}
	return actionUpdate
}

// UploadLayer implements system.TextureCache.
func (c *LayerCache) UploadLayer(index int, img *image.RGBA) {
	if index < 0 || img == nil {
		return
	}
	for len(c.slots) <= index {
		c.slots = append(c.slots, slot{})
	}

	size := img.Bounds().Size()
	sum := xxhash.Sum64(img.Pix)
	action := c.plan(index, size, sum)
	s := &c.slots[index]

	switch action {
	case actionSkip:
	case actionCreate:
		if s.image != nil {
			s.image.Deallocate()
		}
		s.image = ebiten.NewImage(size.X, size.Y)
		s.image.WritePixels(img.Pix)
	case actionUpdate:
		s.image.WritePixels(img.Pix)
	}
	s.size = size
	s.sum = sum
	s.valid = true

	c.log.Debug("layer upload", zap.Int("index", index), zap.Stringer("action", action))
}

// SetLayerCount implements system.TextureCache. Textures past n are kept
// for later maps but not drawn.
func (c *LayerCache) SetLayerCount(n int) {
	c.count = max(0, n)
}

// LayerCount returns the number of layers of the active map.
func (c *LayerCache) LayerCount() int {
	return c.count
}

// DrawLayer draws one layer of the active map onto dst.
func (c *LayerCache) DrawLayer(dst *ebiten.Image, index int, geoM ebiten.GeoM) {
	if index < 0 || index >= c.count || index >= len(c.slots) || c.slots[index].image == nil {
		return
	}
	op := &ebiten.DrawImageOptions{GeoM: geoM}
	dst.DrawImage(c.slots[index].image, op)
}
