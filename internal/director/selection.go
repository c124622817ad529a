package director

import (
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-vcam/internal/engine/camera"
	"github.com/Faultbox/midgard-vcam/internal/engine/ecs"
	"github.com/Faultbox/midgard-vcam/internal/logger"
)

// SelectionSystem re-evaluates each director's active camera. It only does
// work when the virtual camera or director stores changed since its last
// run; set Always to evaluate every frame.
type SelectionSystem struct {
	Always bool

	primed      bool
	vcamVersion uint64
	dirVersion  uint64
	evaluations int
}

// Evaluations counts how many times selection actually ran.
func (s *SelectionSystem) Evaluations() int {
	return s.evaluations
}

// Update implements ecs.System.
func (s *SelectionSystem) Update(w *ecs.World, _ float32) {
	vcams := VirtualCameras(w)
	dirs := Directors(w)
	if !s.Always && s.primed && vcams.Version() == s.vcamVersion && dirs.Version() == s.dirVersion {
		return
	}
	s.evaluations++

	candidates := vcams.Sorted()
	for _, d := range dirs.Sorted() {
		winner, found := pick(vcams, candidates, d)
		dirs.Update(d, func(dir *Director) {
			s.transition(w, d, dir, winner, found)
		})
	}

	s.primed = true
	s.vcamVersion = vcams.Version()
	s.dirVersion = dirs.Version()
}

// pick returns director d's highest-priority camera. candidates is sorted by
// handle and only a strictly greater priority replaces the current best, so
// ties go to the lowest handle.
func pick(vcams *ecs.Store[VirtualCamera], candidates []ecs.Entity, d ecs.Entity) (ecs.Entity, bool) {
	var (
		winner ecs.Entity
		best   int32
		found  bool
	)
	for _, e := range candidates {
		vc, _ := vcams.Get(e)
		if vc.Director != d {
			continue
		}
		if !found || vc.Priority > best {
			winner, best, found = e, vc.Priority, true
		}
	}
	return winner, found
}

func (s *SelectionSystem) transition(w *ecs.World, d ecs.Entity, dir *Director, winner ecs.Entity, found bool) {
	log := logger.Named("director")

	switch {
	case !found:
		if dir.Active.Valid() {
			log.Debug("no virtual cameras, going idle", zap.Stringer("director", d))
		}
		dir.Active = ecs.Entity{}
		dir.Blend = nil

	case !dir.Active.Valid():
		log.Debug("activated", zap.Stringer("director", d), zap.Stringer("vcam", winner))
		dir.Active = winner
		dir.Blend = nil

	case dir.Active == winner:

	default:
		prev := dir.Active
		from, ok := s.snapshot(w, dir)
		dir.Active = winner
		if !ok {
			dir.Blend = nil
			log.Debug("cut", zap.Stringer("director", d), zap.Stringer("to", winner))
			return
		}

		vc, _ := VirtualCameras(w).Get(winner)
		dir.Blend = &Blend{
			From:       from,
			FromCamera: prev,
			To:         winner,
			Definition: vc.BlendIn,
		}
		w.Events().Push(StartedBlend{Director: d, From: prev, To: winner})
		log.Debug("blend started",
			zap.Stringer("director", d),
			zap.Stringer("from", prev),
			zap.Stringer("to", winner),
			zap.Float32("duration", vc.BlendIn.Duration),
		)
	}
}

// snapshot captures where the new blend starts. An interrupted blend starts
// from what is on screen; otherwise from the outgoing camera, falling back to
// the physical camera when that camera is gone.
func (s *SelectionSystem) snapshot(w *ecs.World, dir *Director) (camera.State, bool) {
	if dir.Blend == nil {
		if st, ok := camera.Read(w, dir.Active); ok && w.Alive(dir.Active) {
			return st, true
		}
	}
	if !w.Alive(dir.Camera) {
		return camera.State{}, false
	}
	return camera.Read(w, dir.Camera)
}
