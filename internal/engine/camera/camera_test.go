package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-vcam/pkg/math"
)

func TestInterpolateEndpoints(t *testing.T) {
	from := State{
		Transform:  math.TransformFromTranslation(math.Vec3{X: 1}),
		Projection: DefaultPerspective(),
	}
	to := State{
		Transform: math.Transform{
			Translation: math.Vec3{X: 5, Y: 2},
			Rotation:    math.QuatFromAxisAngle(math.Vec3Y, math32.Pi/2),
			Scale:       math.Vec3One,
		},
		Projection: Perspective{FOV: 1, Aspect: 2, Near: 1, Far: 100},
	}

	start := Interpolate(from, to, 0)
	assert.True(t, start.Transform.Translation.ApproxEqual(from.Transform.Translation, 1e-5))
	assert.True(t, start.Transform.Rotation.ApproxEqual(from.Transform.Rotation, 1e-5))

	end := Interpolate(from, to, 1)
	assert.True(t, end.Transform.Translation.ApproxEqual(to.Transform.Translation, 1e-5))
	assert.True(t, end.Transform.Rotation.ApproxEqual(to.Transform.Rotation, 1e-5))
	p, ok := end.Projection.(Perspective)
	require.True(t, ok)
	assert.InDelta(t, 1, p.FOV, 1e-5)
	assert.InDelta(t, 2, p.Aspect, 1e-5)
	assert.InDelta(t, 100, p.Far, 1e-3)

	mid := Interpolate(from, to, 0.5)
	assert.InDelta(t, 3, mid.Transform.Translation.X, 1e-5)
	mp := mid.Projection.(Perspective)
	assert.InDelta(t, 1.5, mp.Aspect, 1e-5)
}

func TestInterpolateOrthographic(t *testing.T) {
	a := DefaultOrthographic()
	b := DefaultOrthographic()
	b.Scale = 3
	b.Area = OrthographicArea(b.ViewportOrigin, 2)

	got := interpolateProjection(a, b, 0.5).(Orthographic)
	assert.InDelta(t, 2, got.Scale, 1e-5)
	assert.InDelta(t, -1.5, got.Area.Min.X, 1e-5)
	assert.InDelta(t, 1.5, got.Area.Max.X, 1e-5)
}

func TestInterpolateMismatchSnaps(t *testing.T) {
	tests := []struct {
		name     string
		from, to Projection
	}{
		{"perspective to ortho", DefaultPerspective(), DefaultOrthographic()},
		{"ortho to perspective", DefaultOrthographic(), DefaultPerspective()},
		{"custom to custom", Custom{Name: "a", Matrix: math.Identity()}, Custom{Name: "b", Matrix: math.Scale(2, 2, 2)}},
		{"perspective to custom", DefaultPerspective(), Custom{Name: "b", Matrix: math.Identity()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, f := range []float32{0, 0.3, 1} {
				assert.Equal(t, tt.to, interpolateProjection(tt.from, tt.to, f))
			}
		})
	}
}

func TestWorldToNDC(t *testing.T) {
	cam := math.TransformIdentity()
	proj := Perspective{FOV: math32.Pi / 2, Aspect: 1, Near: 0.1, Far: 100}

	center := WorldToNDC(math.Vec3{Z: -5}, cam, proj)
	assert.InDelta(t, 0, center.X, 1e-5)
	assert.InDelta(t, 0, center.Y, 1e-5)

	edge := WorldToNDC(math.Vec3{X: 5, Z: -5}, cam, proj)
	assert.InDelta(t, 1, edge.X, 1e-4)

	up := WorldToNDC(math.Vec3{Y: -2.5, Z: -5}, cam, proj)
	assert.InDelta(t, -0.5, up.Y, 1e-4)

	// w is zero at the eye
	assert.Equal(t, math.Vec2{}, WorldToNDC(math.Vec3{}, cam, proj))
	assert.Equal(t, math.Vec2{}, WorldToNDC(math.Vec3{Z: -1}, cam, nil))
}

func TestWorldToNDCMovedCamera(t *testing.T) {
	cam := math.TransformFromTranslation(math.Vec3{X: 10, Z: 10})
	proj := Perspective{FOV: math32.Pi / 2, Aspect: 1, Near: 0.1, Far: 100}

	got := WorldToNDC(math.Vec3{X: 10, Z: 0}, cam, proj)
	assert.InDelta(t, 0, got.X, 1e-5)
	assert.InDelta(t, 0, got.Y, 1e-5)
}

func TestScreenPositionOrthographic(t *testing.T) {
	proj := DefaultOrthographic()
	proj.Scale = 2
	cam := math.TransformFromTranslation(math.Vec3{X: 1})

	got := ScreenPosition(math.Vec3{X: 5, Y: 2, Z: -3}, cam, proj)
	assert.InDelta(t, 2, got.X, 1e-5)
	assert.InDelta(t, 1, got.Y, 1e-5)
}

func TestDeadZoneContains(t *testing.T) {
	dz := DeadZone{XMin: -0.2, XMax: 0.2, YMin: -0.1, YMax: 0.1}

	tests := []struct {
		p    math.Vec2
		want bool
	}{
		{math.Vec2{}, true},
		{math.Vec2{X: 0.2, Y: 0.1}, true},
		{math.Vec2{X: 0.25}, false},
		{math.Vec2{Y: -0.2}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, dz.Contains(tt.p), "%v", tt.p)
	}
}

func TestSyncAspect(t *testing.T) {
	p, ok := SyncAspect(DefaultPerspective(), 1920, 1080)
	require.True(t, ok)
	assert.InDelta(t, 1920.0/1080.0, p.(Perspective).Aspect, 1e-5)

	o, ok := SyncAspect(DefaultOrthographic(), 200, 100)
	require.True(t, ok)
	area := o.(Orthographic).Area
	assert.InDelta(t, 4, area.Width(), 1e-5)
	assert.InDelta(t, 2, area.Height(), 1e-5)

	c := Custom{Name: "fixed", Matrix: math.Identity()}
	got, ok := SyncAspect(c, 200, 100)
	assert.False(t, ok)
	assert.Equal(t, c, got)
}

func TestKind(t *testing.T) {
	assert.Equal(t, "perspective", Kind(DefaultPerspective()))
	assert.Equal(t, "orthographic", Kind(DefaultOrthographic()))
	assert.Equal(t, "custom", Kind(Custom{}))
	assert.Equal(t, "none", Kind(nil))
}
