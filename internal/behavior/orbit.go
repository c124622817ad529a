package behavior

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-vcam/internal/engine/ecs"
	"github.com/Faultbox/midgard-vcam/pkg/math"
)

// Orbit keeps the camera on a sphere around Target. Yaw and Pitch are
// driven externally; Offset is in camera space.
type Orbit struct {
	Target   ecs.Entity
	Radius   float32
	Offset   math.Vec3
	Yaw      float32
	Pitch    float32
	Damping  float32
	MinPitch float32
	MaxPitch float32
}

// DefaultOrbit returns an orbit of radius 5 slightly above the target.
func DefaultOrbit(target ecs.Entity) Orbit {
	return Orbit{
		Target:   target,
		Radius:   5,
		Pitch:    0.3,
		Damping:  8,
		MinPitch: -1.4,
		MaxPitch: 1.4,
	}
}

// Direction is the unit vector from the target toward the camera.
func (o Orbit) Direction() math.Vec3 {
	sy, cy := math32.Sincos(o.Yaw)
	sp, cp := math32.Sincos(o.Pitch)
	return math.Vec3{X: cy * cp, Y: sp, Z: sy * cp}
}

// OrbitSystem runs every Orbit component. The clamped pitch is written back.
type OrbitSystem struct{}

// Update implements ecs.System.
func (OrbitSystem) Update(w *ecs.World, dt float32) {
	orbits := Components[Orbit](w)
	for _, e := range orbits.Sorted() {
		o, _ := orbits.Get(e)
		target, ok := w.GlobalTranslation(o.Target)
		if !ok {
			continue
		}
		tr, ok := w.Transforms().Get(e)
		if !ok {
			continue
		}

		if p := math.Clamp(o.Pitch, o.MinPitch, o.MaxPitch); p != o.Pitch {
			o.Pitch = p
			orbits.Update(e, func(x *Orbit) { x.Pitch = p })
		}

		offset := tr.Rotation.Rotate(o.Offset)
		desired := target.Add(o.Direction().Scale(o.Radius)).Add(offset)

		if tr.Translation.IsFinite() {
			tr.Translation = tr.Translation.Lerp(desired, DampFactor(o.Damping, dt))
		} else {
			tr.Translation = desired
		}
		tr = tr.LookingAt(target.Add(offset), math.Vec3Y)
		w.Transforms().Set(e, tr)
	}
}
