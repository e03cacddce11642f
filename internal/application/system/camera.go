package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/timeloop/internal/domain/entity"
	"github.com/younwookim/timeloop/internal/ecs"
	"github.com/younwookim/timeloop/internal/infrastructure/config"
)

// CameraSystem keeps the camera centred on the player inside the map.
type CameraSystem struct {
	config config.CameraConfig
	view   mgl64.Vec2
}

// NewCameraSystem creates a camera for a screen of the given size.
func NewCameraSystem(cfg config.CameraConfig, screenW, screenH int) *CameraSystem {
	return &CameraSystem{config: cfg, view: mgl64.Vec2{float64(screenW), float64(screenH)}}
}

// View returns the screen size in pixels.
func (s *CameraSystem) View() mgl64.Vec2 {
	return s.view
}

// Update moves the camera toward the player. The first update after a load
// snaps.
func (s *CameraSystem) Update(w *ecs.World, seg *entity.MapSegment, dt float64) {
	cam, ok := w.Camera[w.CameraID]
	if !ok || seg == nil {
		return
	}
	box, ok := w.PlayerBox()
	if !ok {
		return
	}
	target := s.clamp(box.Center(), seg.Size)

	if !cam.Snapped || s.config.Smoothing <= 0 {
		cam.Pos = target
		cam.Snapped = true
	} else {
		k := 1 - math.Exp(-s.config.Smoothing*dt)
		cam.Pos = cam.Pos.Add(target.Sub(cam.Pos).Mul(k))
	}

	w.Camera[w.CameraID] = cam
	w.Position[w.CameraID] = ecs.Position{Vec: cam.Pos}
}

func (s *CameraSystem) clamp(p, size mgl64.Vec2) mgl64.Vec2 {
	for i := range 2 {
		half := s.view[i] / 2
		if size[i] <= s.view[i] {
			p[i] = size[i] / 2
			continue
		}
		p[i] = max(half, min(size[i]-half, p[i]))
	}
	return p
}
