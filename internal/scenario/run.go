package scenario

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chewxy/math32"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-vcam/internal/director"
	"github.com/Faultbox/midgard-vcam/internal/engine/camera"
	"github.com/Faultbox/midgard-vcam/internal/rig"
	"github.com/Faultbox/midgard-vcam/pkg/math"
)

// RunOptions controls a headless run.
type RunOptions struct {
	FPS      int     // frames per second, default 60
	Duration float32 // seconds
	Every    int     // record every Nth frame; the last frame is always recorded
}

func (o RunOptions) withDefaults() RunOptions {
	if o.FPS <= 0 {
		o.FPS = 60
	}
	if o.Every <= 0 {
		o.Every = 1
	}
	return o
}

// Trace is the recorded output of a run.
type Trace struct {
	Scenario string        `yaml:"scenario"`
	FPS      int           `yaml:"fps"`
	Frames   []FrameRecord `yaml:"frames"`
	Events   []EventRecord `yaml:"events,omitempty"`
}

// FrameRecord is the state of every physical camera after one frame.
type FrameRecord struct {
	Frame   uint64         `yaml:"frame"`
	Time    float64        `yaml:"time"`
	Cameras []CameraRecord `yaml:"cameras"`
}

// CameraRecord is one director's physical camera in a frame.
type CameraRecord struct {
	Director   string     `yaml:"director"`
	Camera     string     `yaml:"camera"`
	Active     string     `yaml:"active,omitempty"`
	Phase      string     `yaml:"phase"`
	Position   Vec3       `yaml:"position,flow"`
	Rotation   [4]float32 `yaml:"rotation,flow"`
	Projection string     `yaml:"projection"`
	FOV        float32    `yaml:"fov,omitempty"`
	Scale      float32    `yaml:"scale,omitempty"`
}

// EventRecord is a blend event with the frame it was emitted on.
type EventRecord struct {
	Frame    uint64  `yaml:"frame"`
	Time     float64 `yaml:"time"`
	Kind     string  `yaml:"kind"`
	Director string  `yaml:"director"`
	From     string  `yaml:"from,omitempty"`
	To       string  `yaml:"to"`
}

// Run builds the scenario and runs it.
func (sc *Scenario) Run(ctx context.Context, opts RunOptions, rigOpts ...rig.Option) (*Trace, error) {
	s, err := sc.Build(rigOpts...)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, opts)
}

// Run plays the scene for opts.Duration seconds at a fixed step, applying
// timeline actions before the frame they fall on.
func (s *Scene) Run(ctx context.Context, opts RunOptions) (*Trace, error) {
	opts = opts.withDefaults()
	dt := 1 / float32(opts.FPS)
	frames := int(math32.Ceil(opts.Duration*float32(opts.FPS) - 1e-4))

	trace := &Trace{Scenario: s.Name, FPS: opts.FPS}
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return trace, err
		}
		if err := s.Step(dt); err != nil {
			return trace, err
		}
		trace.Events = append(trace.Events, s.drainEvents()...)
		if int(s.Rig.Frame())%opts.Every == 0 || i == frames-1 {
			trace.Frames = append(trace.Frames, s.Record())
		}
	}
	return trace, nil
}

// Step applies due timeline actions, moves targets with a velocity, and
// ticks the rig once.
func (s *Scene) Step(dt float32) error {
	const slack = 1e-6
	for s.next < len(s.timeline) && float64(s.timeline[s.next].At) <= s.time+slack {
		if err := s.Apply(s.timeline[s.next]); err != nil {
			return err
		}
		s.next++
	}

	w := s.Rig.World()
	for e, v := range s.velocities {
		w.Transforms().Update(e, func(tr *math.Transform) {
			tr.Translation = tr.Translation.Add(v.Scale(dt))
		})
	}

	s.Rig.Tick(dt)
	s.time += float64(dt)
	return nil
}

// Record snapshots every director's physical camera.
func (s *Scene) Record() FrameRecord {
	w := s.Rig.World()
	rec := FrameRecord{Frame: s.Rig.Frame(), Time: s.Rig.Elapsed()}
	for _, name := range s.directors {
		d := s.entities[name]
		dir, ok := director.Directors(w).Get(d)
		if !ok {
			continue
		}
		cr := CameraRecord{
			Director: name,
			Camera:   s.NameOf(dir.Camera),
			Active:   s.NameOf(dir.Active),
			Phase:    dir.Phase().String(),
		}
		if st, ok := camera.Read(w, dir.Camera); ok {
			t := st.Transform
			cr.Position = Vec3{t.Translation.X, t.Translation.Y, t.Translation.Z}
			cr.Rotation = [4]float32{t.Rotation.X, t.Rotation.Y, t.Rotation.Z, t.Rotation.W}
			cr.Projection = camera.Kind(st.Projection)
			switch p := st.Projection.(type) {
			case camera.Perspective:
				cr.FOV = p.FOV
			case camera.Orthographic:
				cr.Scale = p.Scale
			}
		}
		rec.Cameras = append(rec.Cameras, cr)
	}
	return rec
}

func (s *Scene) drainEvents() []EventRecord {
	var out []EventRecord
	for _, evt := range s.Rig.DrainEvents() {
		rec := EventRecord{Frame: s.Rig.Frame(), Time: s.Rig.Elapsed()}
		switch e := evt.(type) {
		case director.StartedBlend:
			rec.Kind = "started_blend"
			rec.Director, rec.From, rec.To = s.NameOf(e.Director), s.NameOf(e.From), s.NameOf(e.To)
		case director.FinishedBlend:
			rec.Kind = "finished_blend"
			rec.Director, rec.To = s.NameOf(e.Director), s.NameOf(e.To)
		default:
			continue
		}
		out = append(out, rec)
	}
	return out
}

// WriteYAML encodes the trace.
func (t *Trace) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode trace: %w", err)
	}
	return enc.Close()
}

// Save writes the trace to path, creating parent directories.
func (t *Trace) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create trace dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trace: %w", err)
	}
	if err := t.WriteYAML(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Final returns the last recorded frame.
func (t *Trace) Final() (FrameRecord, bool) {
	if len(t.Frames) == 0 {
		return FrameRecord{}, false
	}
	return t.Frames[len(t.Frames)-1], true
}
