package director

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-vcam/internal/engine/camera"
	"github.com/Faultbox/midgard-vcam/internal/engine/ecs"
	"github.com/Faultbox/midgard-vcam/internal/logger"
	"github.com/Faultbox/midgard-vcam/pkg/math"
)

// ErrUnknownEase is returned by EaseByName for names not in the registry.
var ErrUnknownEase = errors.New("unknown ease")

var eases = map[string]ease.TweenFunc{
	"linear": ease.Linear,

	"in_quad": ease.InQuad, "out_quad": ease.OutQuad, "in_out_quad": ease.InOutQuad, "out_in_quad": ease.OutInQuad,
	"in_cubic": ease.InCubic, "out_cubic": ease.OutCubic, "in_out_cubic": ease.InOutCubic, "out_in_cubic": ease.OutInCubic,
	"in_quart": ease.InQuart, "out_quart": ease.OutQuart, "in_out_quart": ease.InOutQuart, "out_in_quart": ease.OutInQuart,
	"in_quint": ease.InQuint, "out_quint": ease.OutQuint, "in_out_quint": ease.InOutQuint, "out_in_quint": ease.OutInQuint,
	"in_sine": ease.InSine, "out_sine": ease.OutSine, "in_out_sine": ease.InOutSine, "out_in_sine": ease.OutInSine,
	"in_expo": ease.InExpo, "out_expo": ease.OutExpo, "in_out_expo": ease.InOutExpo, "out_in_expo": ease.OutInExpo,
	"in_circ": ease.InCirc, "out_circ": ease.OutCirc, "in_out_circ": ease.InOutCirc, "out_in_circ": ease.OutInCirc,
	"in_back": ease.InBack, "out_back": ease.OutBack, "in_out_back": ease.InOutBack, "out_in_back": ease.OutInBack,
	"in_bounce": ease.InBounce, "out_bounce": ease.OutBounce, "in_out_bounce": ease.InOutBounce, "out_in_bounce": ease.OutInBounce,
	"in_elastic": ease.InElastic, "out_elastic": ease.OutElastic, "in_out_elastic": ease.InOutElastic, "out_in_elastic": ease.OutInElastic,
}

// EaseByName looks up an easing function. Names are snake case
// ("in_out_cubic"); the empty string is linear.
func EaseByName(name string) (ease.TweenFunc, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return ease.Linear, nil
	}
	fn, ok := eases[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEase, name)
	}
	return fn, nil
}

// EaseNames lists the registered ease names in sorted order.
func EaseNames() []string {
	names := make([]string, 0, len(eases))
	for name := range eases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BlendDefinition describes how a camera is blended in.
type BlendDefinition struct {
	Name     string         // ease name, informational
	Ease     ease.TweenFunc // nil is linear
	Duration float32        // seconds
}

// DefaultBlend is a one second linear blend.
func DefaultBlend() BlendDefinition {
	return BlendDefinition{Name: "linear", Ease: ease.Linear, Duration: 1}
}

// NewBlendDefinition resolves an ease by name.
func NewBlendDefinition(easeName string, duration float32) (BlendDefinition, error) {
	fn, err := EaseByName(easeName)
	if err != nil {
		return BlendDefinition{}, err
	}
	if easeName == "" {
		easeName = "linear"
	}
	return BlendDefinition{Name: easeName, Ease: fn, Duration: duration}, nil
}

// Progress maps elapsed seconds to the clamped [0, 1] fraction. A
// non-positive duration is complete immediately.
func (d BlendDefinition) Progress(elapsed float32) float32 {
	if d.Duration <= 0 {
		return 1
	}
	return math.Clamp(elapsed/d.Duration, 0, 1)
}

// Sample eases a progress fraction.
func (d BlendDefinition) Sample(progress float32) float32 {
	if d.Ease == nil {
		return progress
	}
	return d.Ease(progress, 0, 1, 1)
}

// Blend is an in-flight transition. From is captured once when the blend
// starts; To is read live every frame so a moving target is tracked.
type Blend struct {
	From       camera.State
	FromCamera ecs.Entity // previous active camera, informational
	To         ecs.Entity
	Elapsed    float32
	Definition BlendDefinition
}

// Done reports whether the blend has run its full duration.
func (b *Blend) Done() bool {
	return math.Reached(b.Elapsed, b.Definition.Duration)
}

// BlendSystem advances every in-flight blend and writes the interpolated
// state to the director's physical camera.
type BlendSystem struct{}

// Update implements ecs.System.
func (BlendSystem) Update(w *ecs.World, dt float32) {
	dirs := Directors(w)
	for _, d := range dirs.Sorted() {
		dir, _ := dirs.Get(d)
		b := dir.Blend
		if b == nil {
			continue
		}

		b.Elapsed += dt
		done := b.Done()
		progress := b.Definition.Progress(b.Elapsed)
		if done {
			progress = 1
		}
		eased := b.Definition.Sample(progress)

		// A missing endpoint skips the write but keeps the clock running.
		if to, ok := camera.Read(w, b.To); ok && w.Alive(dir.Camera) {
			camera.Write(w, dir.Camera, camera.Interpolate(b.From, to, eased))
		}

		if done {
			dirs.Update(d, func(x *Director) { x.Blend = nil })
			w.Events().Push(FinishedBlend{Director: d, To: dir.Active})
			logger.Named("director").Debug("blend finished",
				zap.Stringer("director", d),
				zap.Stringer("to", dir.Active),
			)
		}
	}
}
