// Package behavior contains the per-frame solvers that drive virtual
// cameras: follow, look-at, copy-rotation, orbit, free-look, group zoom and
// shake. Each is a component stored on the virtual camera entity plus a
// system that reads target world transforms and writes the camera's local
// transform or projection.
//
// Solvers never fail. An unresolvable target is skipped and a camera with
// nothing to track is left untouched for the frame.
package behavior

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-vcam/internal/engine/ecs"
	"github.com/Faultbox/midgard-vcam/pkg/math"
)

// DampFactor is the exponential approach factor 1 - e^(-k*dt). Non-positive
// k snaps (returns 1).
func DampFactor(k, dt float32) float32 {
	if k <= 0 {
		return 1
	}
	return 1 - math32.Exp(-k*dt)
}

// targetPositions resolves the world positions of targets, skipping any that
// are gone.
func targetPositions(w *ecs.World, targets []ecs.Entity) []math.Vec3 {
	out := make([]math.Vec3, 0, len(targets))
	for _, t := range targets {
		if p, ok := w.GlobalTranslation(t); ok {
			out = append(out, p)
		}
	}
	return out
}

// average returns the mean of ps. ok is false for an empty slice.
func average(ps []math.Vec3) (avg math.Vec3, ok bool) {
	if len(ps) == 0 {
		return math.Vec3{}, false
	}
	for _, p := range ps {
		avg = avg.Add(p)
	}
	return avg.Scale(1 / float32(len(ps))), true
}

// Components returns the store holding behavior T. It is ecs.GetStore named
// for readability at call sites.
func Components[T any](w *ecs.World) *ecs.Store[T] {
	return ecs.GetStore[T](w)
}
