package behavior

import (
	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-vcam/internal/engine/ecs"
	"github.com/Faultbox/midgard-vcam/internal/logger"
	"github.com/Faultbox/midgard-vcam/pkg/math"
)

// Shake is a procedural, decaying sinusoidal offset layered on the camera's
// transform for Duration seconds. Each axis has its own intensity and
// frequency (Hz); Seed shifts the phase. Damping 0 keeps full strength to the
// end, 1 fades linearly to nothing.
type Shake struct {
	Duration             float32
	TranslationIntensity math.Vec3
	RotationIntensity    math.Vec3 // radians
	TranslationFrequency math.Vec3
	RotationFrequency    math.Vec3
	Damping              float32
	Seed                 float32

	elapsed  float32
	original *math.Transform
}

// Elapsed returns the seconds the shake has run.
func (s Shake) Elapsed() float32 {
	return s.elapsed
}

// Original returns the transform captured on the shake's first tick.
func (s Shake) Original() (math.Transform, bool) {
	if s.original == nil {
		return math.Transform{}, false
	}
	return *s.original, true
}

// Fraction is the completed share of the shake in [0, 1].
func (s Shake) Fraction() float32 {
	if s.Duration <= 0 {
		return 1
	}
	return math.Clamp(s.elapsed/s.Duration, 0, 1)
}

func (s Shake) finished() bool {
	return math.Reached(s.elapsed, s.Duration)
}

// offsets returns the translation and rotation offsets at the current time.
func (s Shake) offsets() (math.Vec3, math.Quat) {
	decay := 1 - s.Fraction()*s.Damping
	phase := s.elapsed + s.Seed
	wave := func(freq, intensity float32) float32 {
		return math32.Sin(phase*freq*2*math32.Pi) * intensity * decay
	}

	translation := math.Vec3{
		X: wave(s.TranslationFrequency.X, s.TranslationIntensity.X),
		Y: wave(s.TranslationFrequency.Y, s.TranslationIntensity.Y),
		Z: wave(s.TranslationFrequency.Z, s.TranslationIntensity.Z),
	}
	rotation := math.QuatFromEuler(math.EulerXYZ,
		wave(s.RotationFrequency.X, s.RotationIntensity.X),
		wave(s.RotationFrequency.Y, s.RotationIntensity.Y),
		wave(s.RotationFrequency.Z, s.RotationIntensity.Z),
	)
	return translation, rotation
}

// AddShake asks for Shake to be attached to Camera.
type AddShake struct {
	Camera ecs.Entity
	Shake  Shake
}

// ShakeRequests queues AddShake requests and attaches them, in request order,
// when it runs.
type ShakeRequests struct {
	pending []AddShake
}

// Push queues a request.
func (q *ShakeRequests) Push(req AddShake) {
	q.pending = append(q.pending, req)
}

// Len returns the number of queued requests.
func (q *ShakeRequests) Len() int {
	return len(q.pending)
}

// Update implements ecs.System. A camera that is already shaking is restored
// to its original transform before the new shake replaces the old one.
func (q *ShakeRequests) Update(w *ecs.World, _ float32) {
	if len(q.pending) == 0 {
		return
	}
	shakes := Components[Shake](w)
	log := logger.Named("shake")
	for _, req := range q.pending {
		if !w.Alive(req.Camera) {
			continue
		}
		if old, ok := shakes.Get(req.Camera); ok {
			if orig, ok := old.Original(); ok {
				w.Transforms().Set(req.Camera, orig)
			}
		}
		s := req.Shake
		s.elapsed = 0
		s.original = nil
		shakes.Set(req.Camera, s)
		log.Debug("attached", zap.Stringer("vcam", req.Camera), zap.Float32("duration", s.Duration))
	}
	q.pending = q.pending[:0]
}

// ShakeSystem advances every Shake and detaches finished ones.
type ShakeSystem struct{}

// Update implements ecs.System.
func (ShakeSystem) Update(w *ecs.World, dt float32) {
	shakes := Components[Shake](w)
	for _, e := range shakes.Sorted() {
		s, _ := shakes.Get(e)
		tr, ok := w.Transforms().Get(e)
		if !ok {
			continue
		}
		if s.original == nil {
			orig := tr
			s.original = &orig
		}
		s.elapsed += dt

		if s.finished() {
			w.Transforms().Set(e, *s.original)
			shakes.Remove(e)
			logger.Named("shake").Debug("restored", zap.Stringer("vcam", e))
			continue
		}

		offset, rot := s.offsets()
		tr.Translation = s.original.Translation.Add(offset)
		tr.Rotation = rot.Mul(s.original.Rotation)
		w.Transforms().Set(e, tr)
		shakes.Set(e, s)
	}
}
