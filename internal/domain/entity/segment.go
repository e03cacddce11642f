package entity

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// MapID names a map segment.
type MapID string

// EntityLayerBelowAll places entities underneath every tile layer.
const EntityLayerBelowAll = -1

// Layer is one pre-composited tile layer of a map.
type Layer struct {
	Name  string
	Image *image.RGBA
}

// MapSegment is one rectangular region of the world. Segments are
// immutable once loaded.
//
// Two frames are in play. World space has its origin at a fixed global
// top-left and Y grows downward; Origin is the segment's top-left corner in
// that space. The local frame is relative to the segment's bottom-left
// corner and Y grows upward; entity positions live there.
type MapSegment struct {
	ID          MapID
	Origin      mgl64.Vec2
	Size        mgl64.Vec2
	Layers      []Layer
	Grid        *Grid
	Background  color.RGBA
	EntityLayer int
	Neighbors   []MapID
}

// ToWorld converts a local position to world space.
func (m *MapSegment) ToWorld(local mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{
		m.Origin[0] + local[0],
		m.Origin[1] + (m.Size[1] - local[1]),
	}
}

// ToLocal converts a world position to this segment's local frame.
func (m *MapSegment) ToLocal(world mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{
		world[0] - m.Origin[0],
		m.Size[1] - (world[1] - m.Origin[1]),
	}
}

// InBounds reports whether a local position lies within [0, size] on both
// axes.
func (m *MapSegment) InBounds(local mgl64.Vec2) bool {
	return local[0] >= 0 && local[0] <= m.Size[0] &&
		local[1] >= 0 && local[1] <= m.Size[1]
}

// ContainsWorld reports whether a world position lies in the half-open
// rectangle [origin, origin+size).
func (m *MapSegment) ContainsWorld(world mgl64.Vec2) bool {
	return world[0] >= m.Origin[0] && world[0] < m.Origin[0]+m.Size[0] &&
		world[1] >= m.Origin[1] && world[1] < m.Origin[1]+m.Size[1]
}

// Center returns the middle of the segment in local coordinates.
func (m *MapSegment) Center() mgl64.Vec2 {
	return m.Size.Mul(0.5)
}
