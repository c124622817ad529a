package scenario

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-vcam/internal/behavior"
	"github.com/Faultbox/midgard-vcam/internal/director"
	"github.com/Faultbox/midgard-vcam/internal/logger"
	"github.com/Faultbox/midgard-vcam/pkg/math"
)

// Timeline action names.
const (
	ActionSetPriority = "set_priority"
	ActionReassign    = "reassign"
	ActionSetOrbit    = "set_orbit"
	ActionSetFreeLook = "set_free_look"
	ActionMoveTarget  = "move_target"
	ActionDespawn     = "despawn"
	ActionShake       = "shake"
	ActionResize      = "resize"
)

func actionName(a Action) string {
	switch k := normalize(a.Action); k {
	case "setpriority":
		return ActionSetPriority
	case "setorbit":
		return ActionSetOrbit
	case "set_freelook", "setfreelook":
		return ActionSetFreeLook
	case "movetarget", "move":
		return ActionMoveTarget
	default:
		return k
	}
}

// validate checks that a resolves against the built scene.
func (s *Scene) validate(a Action) error {
	var err error
	switch actionName(a) {
	case ActionSetPriority, ActionSetOrbit, ActionSetFreeLook:
		_, err = s.resolve(a.VCam, kindVCam)
	case ActionReassign:
		if _, err = s.resolve(a.VCam, kindVCam); err == nil {
			_, err = s.resolve(a.Director, kindDirector)
		}
	case ActionMoveTarget:
		if _, err = s.resolve(a.Target, ""); err == nil && a.Position == nil {
			err = fmt.Errorf("%w: move_target without position", ErrFormat)
		}
	case ActionDespawn:
		_, err = s.resolve(a.Entity, "")
	case ActionShake:
		if _, err = s.resolve(a.VCam, ""); err == nil && a.Shake == nil {
			err = fmt.Errorf("%w: shake without descriptor", ErrFormat)
		}
	case ActionResize:
		if a.Width <= 0 || a.Height <= 0 {
			err = fmt.Errorf("%w: resize to %dx%d", ErrFormat, a.Width, a.Height)
		}
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownAction, a.Action)
	}
	return err
}

// Apply performs one timeline action immediately. Actions on entities that
// have since been despawned do nothing.
func (s *Scene) Apply(a Action) error {
	if err := s.validate(a); err != nil {
		return err
	}
	w := s.Rig.World()
	log := logger.Named("scenario")
	log.Debug("action", zap.String("action", actionName(a)), zap.Float32("at", a.At))

	switch actionName(a) {
	case ActionSetPriority:
		director.SetPriority(w, s.entities[a.VCam], a.Priority)
	case ActionReassign:
		director.Reassign(w, s.entities[a.VCam], s.entities[a.Director])
	case ActionSetOrbit:
		behavior.Components[behavior.Orbit](w).Update(s.entities[a.VCam], func(o *behavior.Orbit) {
			o.Yaw, o.Pitch = a.Yaw, a.Pitch
		})
	case ActionSetFreeLook:
		behavior.Components[behavior.FreeLook](w).Update(s.entities[a.VCam], func(f *behavior.FreeLook) {
			f.Yaw, f.Pitch = a.Yaw, a.Pitch
		})
	case ActionMoveTarget:
		w.Transforms().Update(s.entities[a.Target], func(tr *math.Transform) {
			tr.Translation = a.Position.vec()
		})
	case ActionDespawn:
		e := s.entities[a.Entity]
		w.Despawn(e)
		delete(s.velocities, e)
	case ActionShake:
		sh := a.Shake
		s.Rig.AddShake(s.entities[a.VCam], behavior.Shake{
			Duration:             sh.Duration,
			TranslationIntensity: sh.TranslationIntensity.vec(),
			RotationIntensity:    sh.RotationIntensity.vec(),
			TranslationFrequency: sh.TranslationFrequency.vec(),
			RotationFrequency:    sh.RotationFrequency.vec(),
			Damping:              sh.Damping,
			Seed:                 sh.Seed,
		})
	case ActionResize:
		s.Rig.Resize(a.Width, a.Height)
	}
	return nil
}
