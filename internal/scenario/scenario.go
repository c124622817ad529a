// Package scenario describes camera scenes declaratively and runs them
// headless. A scenario file (YAML or TOML) lists targets, physical cameras,
// directors, virtual cameras with their behaviors, and a timeline of actions;
// running it produces a per-frame Trace of what each physical camera did.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-vcam/internal/engine/camera"
)

var (
	// ErrFormat is returned for unreadable or malformed scenario files.
	ErrFormat = errors.New("scenario format")
	// ErrUnknownEntity is returned when a name does not refer to a declared entity.
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrDuplicateName is returned when two entities share a name.
	ErrDuplicateName = errors.New("duplicate entity name")
	// ErrUnknownBehavior is returned for unrecognized behavior kinds.
	ErrUnknownBehavior = errors.New("unknown behavior")
	// ErrUnknownAction is returned for unrecognized timeline actions.
	ErrUnknownAction = errors.New("unknown action")
	// ErrUnknownProjection is returned for unrecognized projection kinds.
	ErrUnknownProjection = errors.New("unknown projection")
)

// Format is a scenario file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: unsupported extension %q", ErrFormat, filepath.Ext(path))
	}
}

// Vec3 is an [x, y, z] triple in scenario files.
type Vec3 [3]float32

// Vec2 is an [x, y] pair in scenario files.
type Vec2 [2]float32

// Viewport is the render target size used for aspect-ratio sync.
type Viewport struct {
	Width  int `yaml:"width" toml:"width"`
	Height int `yaml:"height" toml:"height"`
}

// Projection describes a camera projection. Zero fields take the defaults
// for the kind.
type Projection struct {
	Kind           string    `yaml:"kind" toml:"kind"`
	FOV            float32   `yaml:"fov,omitempty" toml:"fov,omitempty"`
	Aspect         float32   `yaml:"aspect,omitempty" toml:"aspect,omitempty"`
	Near           float32   `yaml:"near,omitempty" toml:"near,omitempty"`
	Far            float32   `yaml:"far,omitempty" toml:"far,omitempty"`
	Scale          float32   `yaml:"scale,omitempty" toml:"scale,omitempty"`
	ViewportOrigin *Vec2     `yaml:"viewport_origin,omitempty" toml:"viewport_origin,omitempty"`
	Matrix         []float32 `yaml:"matrix,omitempty" toml:"matrix,omitempty"`
}

// Target is a tracked entity. Velocity moves it every frame.
type Target struct {
	Name     string `yaml:"name" toml:"name"`
	Position Vec3   `yaml:"position" toml:"position"`
	Rotation Vec3   `yaml:"rotation,omitempty" toml:"rotation,omitempty"` // XYZ euler, radians
	Velocity Vec3   `yaml:"velocity,omitempty" toml:"velocity,omitempty"`
	Parent   string `yaml:"parent,omitempty" toml:"parent,omitempty"`
}

// Camera is a physical camera.
type Camera struct {
	Name       string     `yaml:"name" toml:"name"`
	Position   Vec3       `yaml:"position" toml:"position"`
	LookAt     *Vec3      `yaml:"look_at,omitempty" toml:"look_at,omitempty"`
	Projection Projection `yaml:"projection" toml:"projection"`
}

// Director binds a physical camera.
type Director struct {
	Name   string `yaml:"name" toml:"name"`
	Camera string `yaml:"camera" toml:"camera"`
}

// Blend is a virtual camera's blend-in definition.
type Blend struct {
	Ease     string  `yaml:"ease,omitempty" toml:"ease,omitempty"`
	Duration float32 `yaml:"duration" toml:"duration"`
}

// Behavior is one solver attached to a virtual camera. Kind selects which
// fields apply: follow, look_at, copy_rotation, orbit, free_look or
// group_zoom.
type Behavior struct {
	Kind     string           `yaml:"kind" toml:"kind"`
	Target   string           `yaml:"target,omitempty" toml:"target,omitempty"`
	Targets  []string         `yaml:"targets,omitempty" toml:"targets,omitempty"`
	Offset   Vec3             `yaml:"offset,omitempty" toml:"offset,omitempty"`
	Damping  float32          `yaml:"damping,omitempty" toml:"damping,omitempty"`
	DeadZone *camera.DeadZone `yaml:"dead_zone,omitempty" toml:"dead_zone,omitempty"`

	// orbit
	Radius   float32  `yaml:"radius,omitempty" toml:"radius,omitempty"`
	Yaw      float32  `yaml:"yaw,omitempty" toml:"yaw,omitempty"`
	Pitch    float32  `yaml:"pitch,omitempty" toml:"pitch,omitempty"`
	MinPitch *float32 `yaml:"min_pitch,omitempty" toml:"min_pitch,omitempty"`
	MaxPitch *float32 `yaml:"max_pitch,omitempty" toml:"max_pitch,omitempty"`

	// free look
	PitchLimit float32 `yaml:"pitch_limit,omitempty" toml:"pitch_limit,omitempty"`
	InvertX    bool    `yaml:"invert_x,omitempty" toml:"invert_x,omitempty"`
	InvertY    bool    `yaml:"invert_y,omitempty" toml:"invert_y,omitempty"`

	// group zoom
	MinScale float32 `yaml:"min_scale,omitempty" toml:"min_scale,omitempty"`
	MaxScale float32 `yaml:"max_scale,omitempty" toml:"max_scale,omitempty"`
}

// VirtualCamera is a candidate camera with its behaviors.
type VirtualCamera struct {
	Name       string     `yaml:"name" toml:"name"`
	Director   string     `yaml:"director" toml:"director"`
	Priority   int32      `yaml:"priority" toml:"priority"`
	Blend      Blend      `yaml:"blend" toml:"blend"`
	Position   Vec3       `yaml:"position" toml:"position"`
	LookAt     *Vec3      `yaml:"look_at,omitempty" toml:"look_at,omitempty"`
	Projection Projection `yaml:"projection" toml:"projection"`
	Behaviors  []Behavior `yaml:"behaviors,omitempty" toml:"behaviors,omitempty"`
}

// Shake is a shake descriptor.
type Shake struct {
	Duration             float32 `yaml:"duration" toml:"duration"`
	TranslationIntensity Vec3    `yaml:"translation_intensity,omitempty" toml:"translation_intensity,omitempty"`
	RotationIntensity    Vec3    `yaml:"rotation_intensity,omitempty" toml:"rotation_intensity,omitempty"`
	TranslationFrequency Vec3    `yaml:"translation_frequency,omitempty" toml:"translation_frequency,omitempty"`
	RotationFrequency    Vec3    `yaml:"rotation_frequency,omitempty" toml:"rotation_frequency,omitempty"`
	Damping              float32 `yaml:"damping,omitempty" toml:"damping,omitempty"`
	Seed                 float32 `yaml:"seed,omitempty" toml:"seed,omitempty"`
}

// Action is a timeline entry applied before the first frame whose start time
// is at or after At.
type Action struct {
	At     float32 `yaml:"at" toml:"at"`
	Action string  `yaml:"action" toml:"action"`

	VCam     string `yaml:"vcam,omitempty" toml:"vcam,omitempty"`
	Target   string `yaml:"target,omitempty" toml:"target,omitempty"`
	Director string `yaml:"director,omitempty" toml:"director,omitempty"`
	Entity   string `yaml:"entity,omitempty" toml:"entity,omitempty"`

	Priority int32   `yaml:"priority,omitempty" toml:"priority,omitempty"`
	Position *Vec3   `yaml:"position,omitempty" toml:"position,omitempty"`
	Yaw      float32 `yaml:"yaw,omitempty" toml:"yaw,omitempty"`
	Pitch    float32 `yaml:"pitch,omitempty" toml:"pitch,omitempty"`
	Width    int     `yaml:"width,omitempty" toml:"width,omitempty"`
	Height   int     `yaml:"height,omitempty" toml:"height,omitempty"`
	Shake    *Shake  `yaml:"shake,omitempty" toml:"shake,omitempty"`
}

// Scenario is a parsed scenario file.
type Scenario struct {
	Name           string          `yaml:"name" toml:"name"`
	Viewport       Viewport        `yaml:"viewport,omitempty" toml:"viewport,omitempty"`
	Targets        []Target        `yaml:"targets,omitempty" toml:"targets,omitempty"`
	Cameras        []Camera        `yaml:"cameras" toml:"cameras"`
	Directors      []Director      `yaml:"directors" toml:"directors"`
	VirtualCameras []VirtualCamera `yaml:"virtual_cameras" toml:"virtual_cameras"`
	Timeline       []Action        `yaml:"timeline,omitempty" toml:"timeline,omitempty"`
}

// Load reads and parses a scenario file, choosing the format by extension.
func Load(path string) (*Scenario, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	sc, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// Parse decodes a scenario. Unknown fields are rejected.
func Parse(data []byte, format Format) (*Scenario, error) {
	var sc Scenario
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&sc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&sc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrFormat, format)
	}
	return &sc, nil
}
