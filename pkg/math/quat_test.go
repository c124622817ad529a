package math

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	q := Quat{X: 1, Y: 2, Z: 3, W: 4}
	n := q.Normalize()

	length := float32(math.Sqrt(float64(n.Dot(n))))
	if math.Abs(float64(length-1.0)) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}

	if got := (Quat{}).Normalize(); got != QuatIdentity() {
		t.Errorf("zero quaternion should normalize to identity, got %v", got)
	}
}

func TestQuatSlerp(t *testing.T) {
	q1 := QuatIdentity()
	q2 := QuatFromAxisAngle(Vec3Y, float32(math.Pi/2))

	if r := q1.Slerp(q2, 0); !r.ApproxEqual(q1, 1e-5) {
		t.Errorf("Slerp at t=0 should equal q1, got %v", r)
	}
	if r := q1.Slerp(q2, 1); !r.ApproxEqual(q2, 1e-5) {
		t.Errorf("Slerp at t=1 should equal q2, got %v", r)
	}

	// Halfway through a 90 degree turn is 45 degrees
	result5 := q1.Slerp(q2, 0.5)
	expectedW := float32(math.Cos(math.Pi / 8))
	if math.Abs(float64(result5.W-expectedW)) > 0.001 {
		t.Errorf("Slerp at t=0.5: expected W ~%v, got %v", expectedW, result5.W)
	}
}

func TestQuatSlerpShortestArc(t *testing.T) {
	q1 := QuatIdentity()
	q2 := QuatFromAxisAngle(Vec3Y, float32(math.Pi/2))
	neg := Quat{X: -q2.X, Y: -q2.Y, Z: -q2.Z, W: -q2.W}

	a := q1.Slerp(q2, 0.3)
	b := q1.Slerp(neg, 0.3)
	if !a.ApproxEqual(b, 1e-5) {
		t.Errorf("slerp toward q and -q should agree: %v vs %v", a, b)
	}
}

func TestQuatSlerpMatchesMathGL(t *testing.T) {
	q1 := QuatFromAxisAngle(Vec3{X: 1, Y: 0, Z: 0}, 0.4)
	q2 := QuatFromAxisAngle(Vec3{X: 0, Y: 0.6, Z: 0.8}, 1.3)

	m1 := mgl32.QuatRotate(0.4, mgl32.Vec3{1, 0, 0})
	m2 := mgl32.QuatRotate(1.3, mgl32.Vec3{0, 0.6, 0.8})

	for _, tt := range []float32{0, 0.25, 0.5, 0.75, 1} {
		got := q1.Slerp(q2, tt)
		want := mgl32.QuatSlerp(m1, m2, tt)
		if !got.ApproxEqual(Quat{X: want.V[0], Y: want.V[1], Z: want.V[2], W: want.W}, 1e-4) {
			t.Errorf("t=%v: got %v, want %v", tt, got, want)
		}
	}
}

func TestQuatRotateMatchesMathGL(t *testing.T) {
	axis := Vec3{X: 1, Y: 2, Z: 3}.Normalize()
	q := QuatFromAxisAngle(axis, 0.7)
	ref := mgl32.QuatRotate(0.7, mgl32.Vec3{axis.X, axis.Y, axis.Z})

	v := Vec3{X: 4, Y: -5, Z: 6}
	got := q.Rotate(v)
	want := ref.Rotate(mgl32.Vec3{4, -5, 6})
	if !got.ApproxEqual(Vec3{want[0], want[1], want[2]}, 1e-4) {
		t.Errorf("Rotate: got %v, want %v", got, want)
	}
}

func TestQuatToMat4(t *testing.T) {
	q := QuatIdentity()
	m := q.ToMat4()

	identity := Identity()
	for i := 0; i < 16; i++ {
		if math.Abs(float64(m[i]-identity[i])) > 0.0001 {
			t.Errorf("Identity quat should produce identity matrix, element %d: got %v, want %v", i, m[i], identity[i])
		}
	}

	// Matrix and quaternion must rotate vectors identically
	q = QuatFromAxisAngle(Vec3{X: 0, Y: 0.6, Z: 0.8}, 1.1)
	v := Vec3{X: 1, Y: 2, Z: 3}
	if a, b := q.ToMat4().TransformDirection(v), q.Rotate(v); !a.ApproxEqual(b, 1e-4) {
		t.Errorf("ToMat4 disagrees with Rotate: %v vs %v", a, b)
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	q := QuatFromAxisAngle(Vec3Y, float32(math.Pi/2))

	expectedW := float32(math.Cos(math.Pi / 4))
	expectedY := float32(math.Sin(math.Pi / 4))

	if math.Abs(float64(q.W-expectedW)) > 0.001 {
		t.Errorf("QuatFromAxisAngle W: expected %v, got %v", expectedW, q.W)
	}
	if math.Abs(float64(q.Y-expectedY)) > 0.001 {
		t.Errorf("QuatFromAxisAngle Y: expected %v, got %v", expectedY, q.Y)
	}
}

func TestQuatFromEuler(t *testing.T) {
	yaw, pitch := float32(0.8), float32(-0.3)

	q := QuatFromEuler(EulerYXZ, yaw, pitch, 0)
	want := QuatFromAxisAngle(Vec3Y, yaw).Mul(QuatFromAxisAngle(Vec3X, pitch))
	if !q.ApproxEqual(want, 1e-5) {
		t.Errorf("YXZ: got %v, want %v", q, want)
	}

	q = QuatFromEuler(EulerXYZ, 0.1, 0.2, 0.3)
	want = QuatFromAxisAngle(Vec3X, 0.1).
		Mul(QuatFromAxisAngle(Vec3Y, 0.2)).
		Mul(QuatFromAxisAngle(Vec3Z, 0.3))
	if !q.ApproxEqual(want, 1e-5) {
		t.Errorf("XYZ: got %v, want %v", q, want)
	}
}

func TestQuatLookRotation(t *testing.T) {
	tests := []struct {
		name string
		dir  Vec3
	}{
		{"forward", Vec3{0, 0, -1}},
		{"right", Vec3{1, 0, 0}},
		{"diagonal", Vec3{1, -2, 3}},
		{"straight_down", Vec3{0, -1, 0}},
		{"straight_up", Vec3{0, 5, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, ok := QuatLookRotation(tt.dir, Vec3Y)
			if !ok {
				t.Fatal("expected ok")
			}
			forward := q.Rotate(Vec3{0, 0, -1})
			if !forward.ApproxEqual(tt.dir.Normalize(), 1e-4) {
				t.Errorf("forward = %v, want %v", forward, tt.dir.Normalize())
			}
			// Right axis stays horizontal when possible
			if right := q.Rotate(Vec3X); math.Abs(float64(right.Y)) > 1e-4 {
				t.Errorf("right axis tilted: %v", right)
			}
		})
	}

	if _, ok := QuatLookRotation(Vec3{}, Vec3Y); ok {
		t.Error("zero direction should not be ok")
	}
}

func TestQuatIsFinite(t *testing.T) {
	if !QuatIdentity().IsFinite() {
		t.Error("identity should be finite")
	}
	nan := float32(math.NaN())
	if (Quat{W: nan}).IsFinite() {
		t.Error("NaN quaternion should not be finite")
	}
}
