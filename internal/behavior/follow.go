package behavior

import (
	"github.com/Faultbox/midgard-vcam/internal/engine/ecs"
	"github.com/Faultbox/midgard-vcam/pkg/math"
)

// Follow moves the camera toward the average of its targets' world positions
// plus Offset. One target is the single-follow case.
type Follow struct {
	Targets []ecs.Entity
	Offset  math.Vec3
	Damping float32
}

// FollowSystem runs every Follow component.
type FollowSystem struct{}

// Update implements ecs.System.
func (FollowSystem) Update(w *ecs.World, dt float32) {
	follows := Components[Follow](w)
	for _, e := range follows.Sorted() {
		f, _ := follows.Get(e)
		center, ok := average(targetPositions(w, f.Targets))
		if !ok {
			continue
		}
		desired := center.Add(f.Offset)

		w.Transforms().Update(e, func(tr *math.Transform) {
			if !tr.Translation.IsFinite() {
				tr.Translation = desired
				return
			}
			tr.Translation = tr.Translation.Lerp(desired, DampFactor(f.Damping, dt))
		})
	}
}
