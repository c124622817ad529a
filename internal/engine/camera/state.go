package camera

import (
	"github.com/Faultbox/midgard-vcam/internal/engine/ecs"
	"github.com/Faultbox/midgard-vcam/pkg/math"
)

// State is a camera's transform paired with its projection. It is a value:
// always copied, never shared.
type State struct {
	Transform  math.Transform
	Projection Projection
}

// Interpolate blends from toward to. Translation and scale are lerped,
// rotation is slerped along the shortest arc. Projections of the same variant
// have every numeric field lerped; mismatched or custom variants snap to
// to's projection.
func Interpolate(from, to State, t float32) State {
	return State{
		Transform: math.Transform{
			Translation: from.Transform.Translation.Lerp(to.Transform.Translation, t),
			Rotation:    from.Transform.Rotation.Slerp(to.Transform.Rotation, t),
			Scale:       from.Transform.Scale.Lerp(to.Transform.Scale, t),
		},
		Projection: interpolateProjection(from.Projection, to.Projection, t),
	}
}

func interpolateProjection(from, to Projection, t float32) Projection {
	switch a := from.(type) {
	case Perspective:
		if b, ok := to.(Perspective); ok {
			return Perspective{
				FOV:    math.Lerp(a.FOV, b.FOV, t),
				Aspect: math.Lerp(a.Aspect, b.Aspect, t),
				Near:   math.Lerp(a.Near, b.Near, t),
				Far:    math.Lerp(a.Far, b.Far, t),
			}
		}
	case Orthographic:
		if b, ok := to.(Orthographic); ok {
			return Orthographic{
				Scale:          math.Lerp(a.Scale, b.Scale, t),
				Near:           math.Lerp(a.Near, b.Near, t),
				Far:            math.Lerp(a.Far, b.Far, t),
				ViewportOrigin: a.ViewportOrigin.Lerp(b.ViewportOrigin, t),
				Area:           a.Area.Lerp(b.Area, t),
			}
		}
	}
	return to
}

// Projections returns the world's projection store. Any entity with both a
// transform and a projection can be read as a State.
func Projections(w *ecs.World) *ecs.Store[Projection] {
	return ecs.GetStore[Projection](w)
}

// Read resolves e's local State. ok is false if either half is missing.
func Read(w *ecs.World, e ecs.Entity) (State, bool) {
	tr, ok := w.Transforms().Get(e)
	if !ok {
		return State{}, false
	}
	proj, ok := Projections(w).Get(e)
	if !ok {
		return State{}, false
	}
	return State{Transform: tr, Projection: proj}, true
}

// Write stores s as e's local transform and projection.
func Write(w *ecs.World, e ecs.Entity, s State) {
	w.Transforms().Set(e, s.Transform)
	Projections(w).Set(e, s.Projection)
}
