package behavior

import (
	"github.com/Faultbox/midgard-vcam/internal/engine/ecs"
	"github.com/Faultbox/midgard-vcam/pkg/math"
)

// FreeLook sets the camera rotation directly from yaw and pitch. Both are
// negated unless the matching Invert flag is set, so positive pointer deltas
// turn right and look down.
type FreeLook struct {
	Yaw        float32
	Pitch      float32
	PitchLimit float32
	InvertX    bool
	InvertY    bool
}

// Rotation returns the orientation FreeLook prescribes.
func (f FreeLook) Rotation() math.Quat {
	yaw, pitch := -f.Yaw, -f.Pitch
	if f.InvertX {
		yaw = f.Yaw
	}
	if f.InvertY {
		pitch = f.Pitch
	}
	pitch = math.Clamp(pitch, -f.PitchLimit, f.PitchLimit)
	return math.QuatFromEuler(math.EulerYXZ, yaw, pitch, 0)
}

// FreeLookSystem runs every FreeLook component.
type FreeLookSystem struct{}

// Update implements ecs.System.
func (FreeLookSystem) Update(w *ecs.World, _ float32) {
	looks := Components[FreeLook](w)
	for _, e := range looks.Sorted() {
		f, _ := looks.Get(e)
		rot := f.Rotation()
		w.Transforms().Update(e, func(tr *math.Transform) {
			tr.Rotation = rot
		})
	}
}
