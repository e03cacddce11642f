package ecs

import (
	"math"
)

// Grid is the collision view of the active map in local tile coordinates
// (row 0 is the bottom row). Cells outside the grid are open so that
// bodies can leave the map.
type Grid interface {
	CellSize() float64
	IsSolid(tx, ty int) bool
}

// collisionEpsilon keeps boxes that only touch a tile edge from counting
// as overlapping after float rounding.
const collisionEpsilon = 1e-6

// Integrate moves every rigid body by velocity*dt against the grid.
// X is resolved before Y. A blocked axis snaps to the tile edge and has its
// velocity zeroed.
func Integrate(w *World, grid Grid, dt float64) {
	for _, id := range SortedIDs(w.RigidBody) {
		pos, ok := w.Position[id]
		if !ok {
			continue
		}
		body := w.RigidBody[id]

		moveAxis(grid, &pos, &body, 0, body.Velocity[0]*dt)
		moveAxis(grid, &pos, &body, 1, body.Velocity[1]*dt)

		w.Position[id] = pos
		w.RigidBody[id] = body
	}
}

func moveAxis(grid Grid, pos *Position, body *RigidBody, axis int, delta float64) {
	if delta == 0 {
		return
	}
	if grid == nil {
		pos.Vec[axis] += delta
		return
	}

	// Sub-step so a fast body can never skip over a whole cell.
	maxStep := grid.CellSize() / 2
	for delta != 0 {
		step := delta
		if math.Abs(step) > maxStep {
			step = math.Copysign(maxStep, delta)
		}
		delta -= step
		pos.Vec[axis] += step

		if snap, hit := blocked(grid, body.Bounds.At(*pos), axis, step); hit {
			pos.Vec[axis] += snap
			body.Velocity[axis] = 0
			return
		}
	}
}

// blocked returns the correction that moves box out of the first solid
// tile in the direction of travel.
func blocked(grid Grid, box Box, axis int, dir float64) (float64, bool) {
	cell := grid.CellSize()
	x0, x1 := tileSpan(box.Min[0], box.Max[0], cell)
	y0, y1 := tileSpan(box.Min[1], box.Max[1], cell)

	hit := false
	edge := 0
	for ty := y0; ty <= y1; ty++ {
		for tx := x0; tx <= x1; tx++ {
			if !grid.IsSolid(tx, ty) {
				continue
			}
			t := tx
			if axis == 1 {
				t = ty
			}
			if !hit || (dir > 0 && t < edge) || (dir < 0 && t > edge) {
				edge = t
			}
			hit = true
		}
	}
	if !hit {
		return 0, false
	}
	if dir > 0 {
		return float64(edge)*cell - box.Max[axis], true
	}
	return float64(edge+1)*cell - box.Min[axis], true
}

func tileSpan(lo, hi, cell float64) (int, int) {
	return int(math.Floor((lo + collisionEpsilon) / cell)),
		int(math.Ceil((hi-collisionEpsilon)/cell)) - 1
}

// IsSolidBox reports whether any tile under box is solid.
func IsSolidBox(grid Grid, box Box) bool {
	if grid == nil {
		return false
	}
	cell := grid.CellSize()
	x0, x1 := tileSpan(box.Min[0], box.Max[0], cell)
	y0, y1 := tileSpan(box.Min[1], box.Max[1], cell)
	for ty := y0; ty <= y1; ty++ {
		for tx := x0; tx <= x1; tx++ {
			if grid.IsSolid(tx, ty) {
				return true
			}
		}
	}
	return false
}
