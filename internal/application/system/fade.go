package system

import (
	"github.com/younwookim/timeloop/internal/ecs"
)

// UpdateFades ticks fade timers and destroys expired entities once the scan
// is complete.
func UpdateFades(w *ecs.World, dt float64) {
	var expired []ecs.EntityID
	for _, id := range ecs.SortedIDs(w.Fade) {
		f := w.Fade[id]
		f.Remaining -= dt
		if f.Remaining <= 0 {
			expired = append(expired, id)
			continue
		}
		w.Fade[id] = f
	}
	for _, id := range expired {
		w.DestroyEntity(id)
	}
}
