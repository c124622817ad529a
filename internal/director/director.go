// Package director arbitrates among virtual cameras and drives the single
// physical camera each director owns.
//
// Per frame, after the behavior solvers have run, the selection phase picks
// each director's highest-priority virtual camera, the blend phase advances
// any in-flight transition, and the apply phase copies the settled camera's
// state onto the physical camera.
package director

import (
	"github.com/Faultbox/midgard-vcam/internal/engine/camera"
	"github.com/Faultbox/midgard-vcam/internal/engine/ecs"
)

// VirtualCamera is a candidate camera state source. Its transform and
// projection live in the world's stores like any other camera.
type VirtualCamera struct {
	Priority int32
	BlendIn  BlendDefinition // used when this camera becomes active
	Director ecs.Entity
}

// Director owns one physical camera. Blend is non-nil only while a
// transition is in flight, and then Blend.To == Active.
type Director struct {
	Camera ecs.Entity
	Active ecs.Entity
	Blend  *Blend
}

// Phase is the director's position in its Idle -> Settled <-> Blending cycle.
type Phase int

const (
	Idle Phase = iota
	Settled
	Blending
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Settled:
		return "settled"
	case Blending:
		return "blending"
	default:
		return "unknown"
	}
}

// Phase derives the director's phase from its fields.
func (d Director) Phase() Phase {
	switch {
	case !d.Active.Valid():
		return Idle
	case d.Blend != nil:
		return Blending
	default:
		return Settled
	}
}

// Directors returns the world's director store.
func Directors(w *ecs.World) *ecs.Store[Director] {
	return ecs.GetStore[Director](w)
}

// VirtualCameras returns the world's virtual camera store.
func VirtualCameras(w *ecs.World) *ecs.Store[VirtualCamera] {
	return ecs.GetStore[VirtualCamera](w)
}

// SpawnDirector creates a director driving the physical camera cam.
func SpawnDirector(w *ecs.World, cam ecs.Entity) ecs.Entity {
	e := w.Spawn()
	Directors(w).Set(e, Director{Camera: cam})
	return e
}

// SpawnVirtualCamera creates a virtual camera assigned to director with an
// initial state.
func SpawnVirtualCamera(w *ecs.World, director ecs.Entity, priority int32, blendIn BlendDefinition, initial camera.State) ecs.Entity {
	e := w.Spawn()
	camera.Write(w, e, initial)
	VirtualCameras(w).Set(e, VirtualCamera{
		Priority: priority,
		BlendIn:  blendIn,
		Director: director,
	})
	return e
}

// SetPriority changes a virtual camera's priority. It returns false if vcam
// is not a live virtual camera.
func SetPriority(w *ecs.World, vcam ecs.Entity, priority int32) bool {
	return VirtualCameras(w).Update(vcam, func(v *VirtualCamera) {
		v.Priority = priority
	})
}

// Reassign moves a virtual camera to another director.
func Reassign(w *ecs.World, vcam, director ecs.Entity) bool {
	return VirtualCameras(w).Update(vcam, func(v *VirtualCamera) {
		v.Director = director
	})
}

// State reports the phase of director d. Unknown entities are Idle.
func State(w *ecs.World, d ecs.Entity) Phase {
	dir, ok := Directors(w).Get(d)
	if !ok {
		return Idle
	}
	return dir.Phase()
}

// StartedBlend is emitted when a director begins a transition.
type StartedBlend struct {
	Director ecs.Entity
	From     ecs.Entity
	To       ecs.Entity
}

// FinishedBlend is emitted when a transition completes.
type FinishedBlend struct {
	Director ecs.Entity
	To       ecs.Entity
}
