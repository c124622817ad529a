package behavior

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-vcam/internal/engine/camera"
	"github.com/Faultbox/midgard-vcam/internal/engine/ecs"
	"github.com/Faultbox/midgard-vcam/pkg/math"
)

// GroupZoom keeps a group of targets framed. For perspective cameras
// MinScale/MaxScale bound the distance along the forward axis; for
// orthographic cameras they bound the projection scale. MaxScale 0 means
// unbounded.
type GroupZoom struct {
	Targets  []ecs.Entity
	DeadZone camera.DeadZone
	Damping  float32
	MinScale float32
	MaxScale float32
}

func (z GroupZoom) clamp(v float32) float32 {
	hi := math32.Inf(1)
	if z.MaxScale > 0 {
		hi = z.MaxScale
	}
	return math.Clamp(v, z.MinScale, hi)
}

// Breached reports whether any of positions projects outside the dead zone.
func (z GroupZoom) Breached(positions []math.Vec3, cam math.Transform, proj camera.Projection) bool {
	for _, p := range positions {
		if !z.DeadZone.Contains(camera.WorldToNDC(p, cam, proj)) {
			return true
		}
	}
	return false
}

// GroupZoomSystem runs every GroupZoom component.
type GroupZoomSystem struct{}

// Update implements ecs.System.
func (GroupZoomSystem) Update(w *ecs.World, dt float32) {
	zooms := Components[GroupZoom](w)
	projections := camera.Projections(w)
	for _, e := range zooms.Sorted() {
		z, _ := zooms.Get(e)
		positions := targetPositions(w, z.Targets)
		ref, ok := average(positions)
		if !ok {
			continue
		}
		tr, ok := w.Transforms().Get(e)
		if !ok {
			continue
		}
		proj, ok := projections.Get(e)
		if !ok {
			continue
		}

		forward := tr.Forward()
		t := DampFactor(z.Damping, dt)

		switch p := proj.(type) {
		case camera.Perspective:
			current := ref.Sub(tr.Translation).Dot(forward)
			desired := z.MinScale
			if z.Breached(positions, tr, p) {
				desired = current * 2
			}
			desired = z.clamp(desired)
			tr.Translation = tr.Translation.Add(forward.Scale((current - desired) * t))
			w.Transforms().Set(e, tr)

		case camera.Orthographic:
			var spread float32
			for _, pos := range positions {
				spread = math32.Max(spread, math32.Abs(pos.Sub(ref).Dot(forward)))
			}
			p.Scale += (z.clamp(spread) - p.Scale) * t
			projections.Set(e, p)
		}
	}
}
