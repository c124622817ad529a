// Package rig drives a camera world one frame at a time. Each Tick runs the
// behavior solvers, then director selection, then blending, then apply, so
// every phase sees what the previous one wrote.
package rig

import (
	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-vcam/internal/behavior"
	"github.com/Faultbox/midgard-vcam/internal/director"
	"github.com/Faultbox/midgard-vcam/internal/engine/camera"
	"github.com/Faultbox/midgard-vcam/internal/engine/ecs"
	"github.com/Faultbox/midgard-vcam/internal/logger"
	"github.com/Faultbox/midgard-vcam/pkg/math"
)

// Phase names, in run order.
const (
	PhaseSolvers = "solvers"
	PhaseSelect  = "select"
	PhaseBlend   = "blend"
	PhaseApply   = "apply"
)

// Rig owns a world and its frame schedule.
type Rig struct {
	world     *ecs.World
	schedule  ecs.Schedule
	shakes    *behavior.ShakeRequests
	selection *director.SelectionSystem

	frame   uint64
	elapsed float64
	events  []any

	warnedAspect map[ecs.Entity]bool
}

// Option configures a Rig.
type Option func(*Rig)

// WithWorld runs the rig over an existing world.
func WithWorld(w *ecs.World) Option {
	return func(r *Rig) {
		r.world = w
	}
}

// WithEagerSelection re-evaluates director selection every frame instead of
// only when virtual cameras or directors change.
func WithEagerSelection() Option {
	return func(r *Rig) {
		r.selection.Always = true
	}
}

// New creates a rig with the standard phase order.
func New(opts ...Option) *Rig {
	r := &Rig{
		shakes:       &behavior.ShakeRequests{},
		selection:    &director.SelectionSystem{},
		warnedAspect: make(map[ecs.Entity]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.world == nil {
		r.world = ecs.NewWorld()
	}

	// Solvers own disjoint fields per camera; shake goes last so it layers
	// on top of whatever the others produced this frame.
	r.schedule.AddPhase(PhaseSolvers,
		behavior.FollowSystem{},
		behavior.GroupZoomSystem{},
		behavior.CopyRotationSystem{},
		behavior.LookAtSystem{},
		behavior.FreeLookSystem{},
		behavior.OrbitSystem{},
		r.shakes,
		behavior.ShakeSystem{},
	)
	r.schedule.AddPhase(PhaseSelect, r.selection)
	r.schedule.AddPhase(PhaseBlend, director.BlendSystem{})
	r.schedule.AddPhase(PhaseApply, director.ApplySystem{})
	return r
}

// World returns the rig's world.
func (r *Rig) World() *ecs.World {
	return r.world
}

// Phases returns the phase names in run order.
func (r *Rig) Phases() []string {
	return r.schedule.Phases()
}

// Frame returns the number of completed ticks.
func (r *Rig) Frame() uint64 {
	return r.frame
}

// Elapsed returns the simulated seconds across all ticks.
func (r *Rig) Elapsed() float64 {
	return r.elapsed
}

// Tick advances the world by dt seconds. Negative or non-finite dt is
// treated as zero.
func (r *Rig) Tick(dt float32) {
	if dt < 0 || math32.IsNaN(dt) || math32.IsInf(dt, 0) {
		dt = 0
	}
	r.schedule.Run(r.world, dt)
	r.events = append(r.events, r.world.Events().Drain()...)
	r.frame++
	r.elapsed += float64(dt)
}

// AddShake queues a shake for vcam. It is attached at the start of the next
// tick's shake step.
func (r *Rig) AddShake(vcam ecs.Entity, s behavior.Shake) {
	r.shakes.Push(behavior.AddShake{Camera: vcam, Shake: s})
}

// DrainEvents returns the blend events emitted since the last drain.
func (r *Rig) DrainEvents() []any {
	out := r.events
	r.events = nil
	return out
}

// Resize fits every projection in the world to a render target of the given
// size. Projections that cannot be resized are left as they are and reported
// once per entity.
func (r *Rig) Resize(width, height int) {
	projections := camera.Projections(r.world)
	for _, e := range projections.Sorted() {
		p, _ := projections.Get(e)
		fitted, ok := camera.SyncAspect(p, width, height)
		if !ok {
			if !r.warnedAspect[e] {
				r.warnedAspect[e] = true
				logger.Named("rig").Warn("aspect sync not implemented for projection",
					zap.Stringer("entity", e),
					zap.String("kind", camera.Kind(p)),
				)
			}
			continue
		}
		projections.Set(e, fitted)
	}
}

// State returns e's current camera state.
func (r *Rig) State(e ecs.Entity) (camera.State, bool) {
	return camera.Read(r.world, e)
}

// SpawnCamera creates a physical camera entity with an initial state.
func (r *Rig) SpawnCamera(initial camera.State) ecs.Entity {
	e := r.world.Spawn()
	camera.Write(r.world, e, initial)
	return e
}

// SpawnTarget creates a plain entity at p for behaviors to track.
func (r *Rig) SpawnTarget(p math.Vec3) ecs.Entity {
	e := r.world.Spawn()
	r.world.Transforms().Set(e, math.TransformFromTranslation(p))
	return e
}
