package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-vcam/pkg/math"
)

const wEpsilon = 1e-7

// DeadZone is a rectangle in normalized device coordinates ([-1, 1] on both
// axes) inside which a tracked point needs no correction.
type DeadZone struct {
	XMin float32 `yaml:"xmin" toml:"xmin"`
	XMax float32 `yaml:"xmax" toml:"xmax"`
	YMin float32 `yaml:"ymin" toml:"ymin"`
	YMax float32 `yaml:"ymax" toml:"ymax"`
}

// Contains reports whether p lies inside the zone, edges included.
func (d DeadZone) Contains(p math.Vec2) bool {
	return p.X >= d.XMin && p.X <= d.XMax && p.Y >= d.YMin && p.Y <= d.YMax
}

// WorldToNDC projects a world-space point through a camera placed at cam.
// Points that cannot be projected (w ~ 0 or a non-finite result) map to the
// screen center.
func WorldToNDC(p math.Vec3, cam math.Transform, proj Projection) math.Vec2 {
	if proj == nil {
		return math.Vec2{}
	}
	view := cam.Matrix().Inverse()
	clip := proj.ClipFromView().Mul(view).MulVec4(math.Vec4{p.X, p.Y, p.Z, 1})
	if math32.Abs(clip[3]) < wEpsilon {
		return math.Vec2{}
	}
	ndc := math.Vec2{X: clip[0] / clip[3], Y: clip[1] / clip[3]}
	if !ndc.IsFinite() {
		return math.Vec2{}
	}
	return ndc
}

// ScreenPosition maps p into the camera's screen space the way the look-at
// behavior reasons about it: orthographic cameras use the offset along the
// camera's right and up axes divided by the projection scale; every other
// projection goes through the clip-space divide.
func ScreenPosition(p math.Vec3, cam math.Transform, proj Projection) math.Vec2 {
	if o, ok := proj.(Orthographic); ok && o.Scale != 0 {
		offset := p.Sub(cam.Translation)
		return math.Vec2{
			X: offset.Dot(cam.Right()) / o.Scale,
			Y: offset.Dot(cam.Up()) / o.Scale,
		}
	}
	return WorldToNDC(p, cam, proj)
}
