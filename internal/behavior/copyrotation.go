package behavior

import (
	"github.com/Faultbox/midgard-vcam/internal/engine/ecs"
	"github.com/Faultbox/midgard-vcam/pkg/math"
)

// CopyRotation matches the camera's rotation to Target's world rotation.
type CopyRotation struct {
	Target  ecs.Entity
	Damping float32
}

// CopyRotationSystem runs every CopyRotation component.
type CopyRotationSystem struct{}

// Update implements ecs.System.
func (CopyRotationSystem) Update(w *ecs.World, dt float32) {
	copies := Components[CopyRotation](w)
	for _, e := range copies.Sorted() {
		c, _ := copies.Get(e)
		target, ok := w.GlobalTransform(c.Target)
		if !ok {
			continue
		}
		t := DampFactor(c.Damping, dt)
		w.Transforms().Update(e, func(tr *math.Transform) {
			if !tr.Rotation.IsFinite() {
				tr.Rotation = target.Rotation
				return
			}
			tr.Rotation = tr.Rotation.Slerp(target.Rotation, t)
		})
	}
}
