// Package camera holds the value types every camera behavior works with:
// projections, the combined transform+projection state, interpolation
// between states and the world-to-screen mapping.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-vcam/pkg/math"
)

// Projection is a closed sum type: Perspective, Orthographic or Custom.
// Values are immutable; change a projection by storing a modified copy.
type Projection interface {
	// ClipFromView returns the view-to-clip matrix.
	ClipFromView() math.Mat4
	isProjection()
}

// Perspective is a symmetric perspective frustum.
type Perspective struct {
	FOV    float32 // vertical field of view, radians
	Aspect float32 // width / height
	Near   float32
	Far    float32
}

// DefaultPerspective returns a 45 degree, square frustum.
func DefaultPerspective() Perspective {
	return Perspective{
		FOV:    math32.Pi / 4,
		Aspect: 1,
		Near:   0.1,
		Far:    1000,
	}
}

// ClipFromView implements Projection.
func (p Perspective) ClipFromView() math.Mat4 {
	return math.Perspective(p.FOV, p.Aspect, p.Near, p.Far)
}

func (Perspective) isProjection() {}

// Orthographic is a box projection. Area is the visible view-space
// rectangle at Scale 1; the effective rectangle is Area scaled by Scale.
type Orthographic struct {
	Scale          float32
	Near           float32
	Far            float32
	ViewportOrigin math.Vec2 // (0.5, 0.5) centers the view
	Area           math.Rect
}

// DefaultOrthographic returns a centered box two units tall at scale 1.
func DefaultOrthographic() Orthographic {
	return Orthographic{
		Scale:          1,
		Near:           0,
		Far:            1000,
		ViewportOrigin: math.Vec2{X: 0.5, Y: 0.5},
		Area:           OrthographicArea(math.Vec2{X: 0.5, Y: 0.5}, 1),
	}
}

// OrthographicArea returns the scale-1 area for a viewport origin and aspect
// ratio. The area is two units tall.
func OrthographicArea(origin math.Vec2, aspect float32) math.Rect {
	h := float32(2)
	w := h * aspect
	return math.Rect{
		Min: math.Vec2{X: -origin.X * w, Y: -origin.Y * h},
		Max: math.Vec2{X: (1 - origin.X) * w, Y: (1 - origin.Y) * h},
	}
}

// ClipFromView implements Projection.
func (o Orthographic) ClipFromView() math.Mat4 {
	a := o.Area.Scale(o.Scale)
	return math.Ortho(a.Min.X, a.Max.X, a.Min.Y, a.Max.Y, o.Near, o.Far)
}

func (Orthographic) isProjection() {}

// Custom carries a host-supplied matrix. It is never interpolated, zoomed
// or resized; those operations snap or skip.
type Custom struct {
	Name   string
	Matrix math.Mat4
}

// ClipFromView implements Projection.
func (c Custom) ClipFromView() math.Mat4 {
	return c.Matrix
}

func (Custom) isProjection() {}

// Kind names the projection variant for logs and traces.
func Kind(p Projection) string {
	switch p.(type) {
	case Perspective:
		return "perspective"
	case Orthographic:
		return "orthographic"
	case Custom:
		return "custom"
	default:
		return "none"
	}
}

// SyncAspect fits p to a render target of the given size. ok is false for
// projections that do not support resizing (Custom), which are returned as is.
func SyncAspect(p Projection, width, height int) (Projection, bool) {
	if width <= 0 || height <= 0 {
		return p, true
	}
	aspect := float32(width) / float32(height)
	switch v := p.(type) {
	case Perspective:
		v.Aspect = aspect
		return v, true
	case Orthographic:
		v.Area = OrthographicArea(v.ViewportOrigin, aspect)
		return v, true
	default:
		return p, false
	}
}
