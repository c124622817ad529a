package behavior

import (
	"github.com/Faultbox/midgard-vcam/internal/engine/camera"
	"github.com/Faultbox/midgard-vcam/internal/engine/ecs"
	"github.com/Faultbox/midgard-vcam/pkg/math"
)

// LookAt turns the camera toward its targets' average position once that
// point leaves the dead zone.
type LookAt struct {
	Targets  []ecs.Entity
	Offset   math.Vec3
	DeadZone camera.DeadZone
	Damping  float32
}

// LookAtSystem runs every LookAt component.
type LookAtSystem struct{}

// Update implements ecs.System.
func (LookAtSystem) Update(w *ecs.World, dt float32) {
	looks := Components[LookAt](w)
	projections := camera.Projections(w)
	for _, e := range looks.Sorted() {
		l, _ := looks.Get(e)
		center, ok := average(targetPositions(w, l.Targets))
		if !ok {
			continue
		}
		aim := center.Add(l.Offset)

		global, ok := w.GlobalTransform(e)
		if !ok {
			continue
		}
		proj, ok := projections.Get(e)
		if !ok {
			continue
		}
		// A broken camera projects to the screen center; skip the gate so it
		// snaps back.
		broken := !global.IsFinite()
		if !broken && l.DeadZone.Contains(camera.ScreenPosition(aim, global, proj)) {
			continue
		}

		desired, ok := math.QuatLookRotation(aim.Sub(global.Translation), math.Vec3Y)
		if !ok {
			continue
		}
		t := DampFactor(l.Damping, dt)
		w.Transforms().Update(e, func(tr *math.Transform) {
			if !tr.Rotation.IsFinite() {
				tr.Rotation = desired
				return
			}
			tr.Rotation = tr.Rotation.Slerp(desired, t)
		})
	}
}
