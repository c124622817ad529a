package scenario

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-vcam/internal/behavior"
	"github.com/Faultbox/midgard-vcam/internal/director"
	"github.com/Faultbox/midgard-vcam/internal/engine/camera"
	"github.com/Faultbox/midgard-vcam/internal/engine/ecs"
	"github.com/Faultbox/midgard-vcam/internal/logger"
	"github.com/Faultbox/midgard-vcam/internal/rig"
	"github.com/Faultbox/midgard-vcam/pkg/math"
)

type entityKind string

const (
	kindTarget   entityKind = "target"
	kindCamera   entityKind = "camera"
	kindDirector entityKind = "director"
	kindVCam     entityKind = "virtual camera"
)

// Scene is a built scenario: a rig populated with the declared entities and
// the timeline still to play.
type Scene struct {
	Name string
	Rig  *rig.Rig

	entities   map[string]ecs.Entity
	kinds      map[string]entityKind
	names      map[ecs.Entity]string
	directors  []string
	velocities map[ecs.Entity]math.Vec3
	timeline   []Action
	next       int
	time       float64
}

// Build creates a rig and spawns every declared entity into it. All names in
// behaviors and the timeline are resolved up front, so a scene that builds
// cannot fail while running.
func (sc *Scenario) Build(opts ...rig.Option) (*Scene, error) {
	s := &Scene{
		Name:       sc.Name,
		Rig:        rig.New(opts...),
		entities:   make(map[string]ecs.Entity),
		kinds:      make(map[string]entityKind),
		names:      make(map[ecs.Entity]string),
		velocities: make(map[ecs.Entity]math.Vec3),
	}
	w := s.Rig.World()

	for _, t := range sc.Targets {
		tr := math.TransformFromTranslation(t.Position.vec())
		tr.Rotation = math.QuatFromEuler(math.EulerXYZ, t.Rotation[0], t.Rotation[1], t.Rotation[2])
		e := w.Spawn()
		w.Transforms().Set(e, tr)
		if err := s.register(t.Name, kindTarget, e); err != nil {
			return nil, err
		}
		if v := t.Velocity.vec(); v != (math.Vec3{}) {
			s.velocities[e] = v
		}
	}
	for _, t := range sc.Targets {
		if t.Parent == "" {
			continue
		}
		parent, err := s.resolve(t.Parent, "")
		if err != nil {
			return nil, fmt.Errorf("target %q: %w", t.Name, err)
		}
		w.SetParent(s.entities[t.Name], parent)
	}

	for _, c := range sc.Cameras {
		st, err := initialState(c.Position, c.LookAt, c.Projection)
		if err != nil {
			return nil, fmt.Errorf("camera %q: %w", c.Name, err)
		}
		if err := s.register(c.Name, kindCamera, s.Rig.SpawnCamera(st)); err != nil {
			return nil, err
		}
	}

	for _, d := range sc.Directors {
		cam, err := s.resolve(d.Camera, kindCamera)
		if err != nil {
			return nil, fmt.Errorf("director %q: %w", d.Name, err)
		}
		if err := s.register(d.Name, kindDirector, director.SpawnDirector(w, cam)); err != nil {
			return nil, err
		}
		s.directors = append(s.directors, d.Name)
	}

	for _, v := range sc.VirtualCameras {
		if err := s.spawnVirtualCamera(v); err != nil {
			return nil, fmt.Errorf("virtual camera %q: %w", v.Name, err)
		}
	}

	for i, a := range sc.Timeline {
		if err := s.validate(a); err != nil {
			return nil, fmt.Errorf("timeline[%d] at %gs: %w", i, a.At, err)
		}
	}
	s.timeline = append([]Action(nil), sc.Timeline...)
	sort.SliceStable(s.timeline, func(i, j int) bool { return s.timeline[i].At < s.timeline[j].At })

	if sc.Viewport.Width > 0 && sc.Viewport.Height > 0 {
		s.Rig.Resize(sc.Viewport.Width, sc.Viewport.Height)
	}

	logger.Named("scenario").Debug("built",
		zap.String("scenario", sc.Name),
		zap.Int("entities", len(s.entities)),
		zap.Int("actions", len(s.timeline)),
	)
	return s, nil
}

// Entity returns the entity declared under name.
func (s *Scene) Entity(name string) (ecs.Entity, bool) {
	e, ok := s.entities[name]
	return e, ok
}

// NameOf returns the declared name of e, or "" for undeclared entities.
func (s *Scene) NameOf(e ecs.Entity) string {
	return s.names[e]
}

func (s *Scene) register(name string, kind entityKind, e ecs.Entity) error {
	if name == "" {
		return fmt.Errorf("%w: %s without a name", ErrFormat, kind)
	}
	if _, dup := s.entities[name]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	s.entities[name] = e
	s.kinds[name] = kind
	s.names[e] = name
	return nil
}

// resolve looks up name, requiring the given kind unless kind is empty.
func (s *Scene) resolve(name string, kind entityKind) (ecs.Entity, error) {
	e, ok := s.entities[name]
	if !ok {
		return ecs.Entity{}, fmt.Errorf("%w: %q", ErrUnknownEntity, name)
	}
	if kind != "" && s.kinds[name] != kind {
		return ecs.Entity{}, fmt.Errorf("%w: %q is a %s, not a %s", ErrUnknownEntity, name, s.kinds[name], kind)
	}
	return e, nil
}

func (s *Scene) resolveAll(names ...string) ([]ecs.Entity, error) {
	out := make([]ecs.Entity, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		e, err := s.resolve(n, "")
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Scene) spawnVirtualCamera(v VirtualCamera) error {
	w := s.Rig.World()
	dir, err := s.resolve(v.Director, kindDirector)
	if err != nil {
		return err
	}
	st, err := initialState(v.Position, v.LookAt, v.Projection)
	if err != nil {
		return err
	}
	duration := v.Blend.Duration
	if duration == 0 && v.Blend.Ease == "" {
		duration = director.DefaultBlend().Duration
	}
	blend, err := director.NewBlendDefinition(v.Blend.Ease, duration)
	if err != nil {
		return err
	}

	e := director.SpawnVirtualCamera(w, dir, v.Priority, blend, st)
	if err := s.register(v.Name, kindVCam, e); err != nil {
		return err
	}
	for _, b := range v.Behaviors {
		if err := s.attach(e, b); err != nil {
			return fmt.Errorf("behavior %q: %w", b.Kind, err)
		}
	}
	return nil
}

func (s *Scene) attach(e ecs.Entity, b Behavior) error {
	w := s.Rig.World()
	targets, err := s.resolveAll(append([]string{b.Target}, b.Targets...)...)
	if err != nil {
		return err
	}
	first := func() (ecs.Entity, error) {
		if len(targets) == 0 {
			return ecs.Entity{}, fmt.Errorf("%w: no target", ErrFormat)
		}
		return targets[0], nil
	}

	switch normalize(b.Kind) {
	case "follow":
		behavior.Components[behavior.Follow](w).Set(e, behavior.Follow{
			Targets: targets,
			Offset:  b.Offset.vec(),
			Damping: b.Damping,
		})
	case "look_at":
		behavior.Components[behavior.LookAt](w).Set(e, behavior.LookAt{
			Targets:  targets,
			Offset:   b.Offset.vec(),
			DeadZone: deadZone(b.DeadZone),
			Damping:  b.Damping,
		})
	case "copy_rotation":
		t, err := first()
		if err != nil {
			return err
		}
		behavior.Components[behavior.CopyRotation](w).Set(e, behavior.CopyRotation{Target: t, Damping: b.Damping})
	case "orbit":
		t, err := first()
		if err != nil {
			return err
		}
		o := behavior.DefaultOrbit(t)
		if b.Radius != 0 {
			o.Radius = b.Radius
		}
		if b.MinPitch != nil {
			o.MinPitch = *b.MinPitch
		}
		if b.MaxPitch != nil {
			o.MaxPitch = *b.MaxPitch
		}
		o.Offset = b.Offset.vec()
		o.Yaw = b.Yaw
		o.Pitch = b.Pitch
		o.Damping = b.Damping
		behavior.Components[behavior.Orbit](w).Set(e, o)
	case "free_look":
		limit := b.PitchLimit
		if limit == 0 {
			limit = defaultPitchLimit
		}
		behavior.Components[behavior.FreeLook](w).Set(e, behavior.FreeLook{
			Yaw:        b.Yaw,
			Pitch:      b.Pitch,
			PitchLimit: limit,
			InvertX:    b.InvertX,
			InvertY:    b.InvertY,
		})
	case "group_zoom":
		behavior.Components[behavior.GroupZoom](w).Set(e, behavior.GroupZoom{
			Targets:  targets,
			DeadZone: deadZone(b.DeadZone),
			Damping:  b.Damping,
			MinScale: b.MinScale,
			MaxScale: b.MaxScale,
		})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBehavior, b.Kind)
	}
	return nil
}

const defaultPitchLimit = 1.4

// normalize folds "lookAt", "look-at" and "look_at" together.
func normalize(kind string) string {
	k := strings.ToLower(strings.TrimSpace(kind))
	k = strings.ReplaceAll(k, "-", "_")
	switch k {
	case "lookat":
		return "look_at"
	case "copyrotation":
		return "copy_rotation"
	case "freelook":
		return "free_look"
	case "groupzoom", "zoom":
		return "group_zoom"
	}
	return k
}

func initialState(pos Vec3, lookAt *Vec3, p Projection) (camera.State, error) {
	proj, err := p.build()
	if err != nil {
		return camera.State{}, err
	}
	tr := math.TransformFromTranslation(pos.vec())
	if lookAt != nil {
		tr = tr.LookingAt(lookAt.vec(), math.Vec3Y)
	}
	return camera.State{Transform: tr, Projection: proj}, nil
}

func (p Projection) build() (camera.Projection, error) {
	switch normalize(p.Kind) {
	case "", "perspective":
		out := camera.DefaultPerspective()
		setIf(&out.FOV, p.FOV)
		setIf(&out.Aspect, p.Aspect)
		setIf(&out.Near, p.Near)
		setIf(&out.Far, p.Far)
		return out, nil
	case "orthographic", "ortho":
		out := camera.DefaultOrthographic()
		setIf(&out.Scale, p.Scale)
		setIf(&out.Near, p.Near)
		setIf(&out.Far, p.Far)
		if p.ViewportOrigin != nil {
			out.ViewportOrigin = math.Vec2{X: p.ViewportOrigin[0], Y: p.ViewportOrigin[1]}
		}
		aspect := float32(1)
		setIf(&aspect, p.Aspect)
		out.Area = camera.OrthographicArea(out.ViewportOrigin, aspect)
		return out, nil
	case "custom":
		if len(p.Matrix) != 16 {
			return nil, fmt.Errorf("%w: custom projection needs 16 matrix values, got %d", ErrFormat, len(p.Matrix))
		}
		var m math.Mat4
		copy(m[:], p.Matrix)
		return camera.Custom{Name: "custom", Matrix: m}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProjection, p.Kind)
	}
}

func setIf(dst *float32, v float32) {
	if v != 0 {
		*dst = v
	}
}

func (v Vec3) vec() math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

func deadZone(d *camera.DeadZone) camera.DeadZone {
	if d == nil {
		return camera.DeadZone{}
	}
	return *d
}
