package director

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-vcam/internal/engine/camera"
	"github.com/Faultbox/midgard-vcam/internal/engine/ecs"
	"github.com/Faultbox/midgard-vcam/pkg/math"
)

type harness struct {
	t   *testing.T
	w   *ecs.World
	sel *SelectionSystem
	cam ecs.Entity
	dir ecs.Entity
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	w := ecs.NewWorld()
	cam := w.Spawn()
	camera.Write(w, cam, stateAt(-100))
	return &harness{t: t, w: w, sel: &SelectionSystem{}, cam: cam, dir: SpawnDirector(w, cam)}
}

func stateAt(x float32) camera.State {
	return camera.State{
		Transform:  math.TransformFromTranslation(math.Vec3{X: x}),
		Projection: camera.DefaultPerspective(),
	}
}

func linear(d float32) BlendDefinition {
	return BlendDefinition{Name: "linear", Duration: d}
}

func (h *harness) vcam(priority int32, x float32) ecs.Entity {
	return SpawnVirtualCamera(h.w, h.dir, priority, linear(1), stateAt(x))
}

func (h *harness) tick(dt float32) {
	h.sel.Update(h.w, dt)
	BlendSystem{}.Update(h.w, dt)
	ApplySystem{}.Update(h.w, dt)
}

func (h *harness) camX() float32 {
	tr, ok := h.w.Transforms().Get(h.cam)
	require.True(h.t, ok)
	return tr.Translation.X
}

func (h *harness) director() Director {
	d, ok := Directors(h.w).Get(h.dir)
	require.True(h.t, ok)
	return d
}

func TestIdleToSettled(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, Idle, State(h.w, h.dir))

	a := h.vcam(1, 5)
	h.tick(0.1)

	assert.Equal(t, Settled, State(h.w, h.dir))
	assert.Equal(t, a, h.director().Active)
	assert.InDelta(t, 5, h.camX(), 1e-6)
	assert.Empty(t, h.w.Events().Drain(), "first activation is not a blend")
}

func TestHighestPriorityWins(t *testing.T) {
	h := newHarness(t)
	h.vcam(1, 0)
	high := h.vcam(5, 1)
	h.vcam(3, 2)
	h.vcam(-7, 3)

	h.tick(0.1)
	assert.Equal(t, high, h.director().Active)
}

func TestTieBreakIsLowestHandle(t *testing.T) {
	h := newHarness(t)
	h.sel.Always = true
	first := h.vcam(2, 0)
	h.vcam(2, 1)
	h.vcam(1, 2)

	for i := 0; i < 5; i++ {
		h.tick(0.1)
		assert.Equal(t, first, h.director().Active)
	}

	h.vcam(2, 3)
	h.tick(0.1)
	assert.Equal(t, first, h.director().Active)
	assert.Equal(t, Settled, State(h.w, h.dir))
}

func TestCamerasOfOtherDirectorsIgnored(t *testing.T) {
	h := newHarness(t)
	otherCam := h.w.Spawn()
	camera.Write(h.w, otherCam, stateAt(0))
	other := SpawnDirector(h.w, otherCam)

	mine := h.vcam(1, 0)
	theirs := SpawnVirtualCamera(h.w, other, 100, linear(1), stateAt(50))
	h.tick(0.1)

	assert.Equal(t, mine, h.director().Active)
	od, _ := Directors(h.w).Get(other)
	assert.Equal(t, theirs, od.Active)

	tr, _ := h.w.Transforms().Get(otherCam)
	assert.InDelta(t, 50, tr.Translation.X, 1e-6)
}

func TestBlendCompleteness(t *testing.T) {
	h := newHarness(t)
	a := h.vcam(1, 0)
	b := h.vcam(0, 10)
	h.tick(0.25)
	h.w.Events().Drain()

	require.True(t, SetPriority(h.w, b, 5))
	for i := 1; i <= 4; i++ {
		h.tick(0.25)
		// linear: from + (to - from) * t / D
		assert.InDelta(t, 2.5*float32(i), h.camX(), 1e-4, "tick %d", i)
	}

	d := h.director()
	assert.Equal(t, b, d.Active)
	assert.Nil(t, d.Blend)
	assert.Equal(t, Settled, d.Phase())

	want := stateAt(10)
	got, ok := camera.Read(h.w, h.cam)
	require.True(t, ok)
	assert.True(t, got.Transform.Translation.ApproxEqual(want.Transform.Translation, 1e-5))
	assert.Equal(t, want.Projection, got.Projection)

	assert.Equal(t, []any{
		StartedBlend{Director: h.dir, From: a, To: b},
		FinishedBlend{Director: h.dir, To: b},
	}, h.w.Events().Drain())
}

func TestBlendCompletesAtFrameRates(t *testing.T) {
	for _, n := range []int{30, 60, 120, 144} {
		h := newHarness(t)
		a := h.vcam(1, 0)
		b := h.vcam(0, 10)
		h.tick(0.1)
		h.w.Events().Drain()

		require.True(t, SetPriority(h.w, b, 5))
		dt := 1 / float32(n)
		for i := 0; i < n; i++ {
			h.tick(dt)
		}

		assert.Equal(t, Settled, State(h.w, h.dir), "%d fps", n)
		assert.Nil(t, h.director().Blend, "%d fps", n)
		assert.InDelta(t, 10, h.camX(), 1e-6, "%d fps", n)
		assert.Equal(t, []any{
			StartedBlend{Director: h.dir, From: a, To: b},
			FinishedBlend{Director: h.dir, To: b},
		}, h.w.Events().Drain(), "%d fps", n)
	}
}

func TestBlendInOneStep(t *testing.T) {
	h := newHarness(t)
	h.vcam(1, 0)
	b := h.vcam(0, 10)
	h.tick(0.1)

	SetPriority(h.w, b, 2)
	h.tick(3)
	assert.InDelta(t, 10, h.camX(), 1e-5)
	assert.Equal(t, Settled, State(h.w, h.dir))
}

func TestBlendEased(t *testing.T) {
	h := newHarness(t)
	h.vcam(1, 0)
	def, err := NewBlendDefinition("in_quad", 1)
	require.NoError(t, err)
	b := SpawnVirtualCamera(h.w, h.dir, 0, def, stateAt(10))
	h.tick(0.1)

	SetPriority(h.w, b, 2)
	h.tick(0.5)
	assert.InDelta(t, 2.5, h.camX(), 1e-4)
}

func TestBlendTracksMovingTarget(t *testing.T) {
	h := newHarness(t)
	h.vcam(1, 0)
	b := h.vcam(0, 10)
	h.tick(0.1)

	SetPriority(h.w, b, 2)
	h.tick(0.5)
	h.w.Transforms().Set(b, math.TransformFromTranslation(math.Vec3{X: 20}))
	h.tick(0.25)
	// from 0 toward the live 20 at 0.75
	assert.InDelta(t, 15, h.camX(), 1e-4)
	h.tick(0.25)
	assert.InDelta(t, 20, h.camX(), 1e-4)
}

func TestBlendSkipsMissingEndpoint(t *testing.T) {
	h := newHarness(t)
	h.vcam(1, 0)
	b := h.vcam(0, 10)
	h.tick(0.1)
	h.w.Events().Drain()

	SetPriority(h.w, b, 2)
	h.tick(0.5)
	assert.InDelta(t, 5, h.camX(), 1e-4)

	// Without a transform the endpoint cannot be read; the frame is skipped.
	saved, _ := h.w.Transforms().Get(b)
	h.w.Transforms().Remove(b)
	h.tick(0.25)
	assert.InDelta(t, 5, h.camX(), 1e-4)
	assert.Equal(t, Blending, State(h.w, h.dir))

	h.w.Transforms().Set(b, saved)
	h.tick(0.25)
	assert.InDelta(t, 10, h.camX(), 1e-4)
	assert.Equal(t, Settled, State(h.w, h.dir))
}

func TestBlendFinishesWithoutEndpoint(t *testing.T) {
	h := newHarness(t)
	h.vcam(1, 0)
	b := h.vcam(0, 10)
	h.tick(0.1)

	SetPriority(h.w, b, 2)
	h.tick(0.5)
	h.w.Transforms().Remove(b)
	h.tick(0.5)

	assert.Equal(t, Settled, State(h.w, h.dir))
	assert.InDelta(t, 5, h.camX(), 1e-4)
}

func TestInterruptedBlendStartsFromScreen(t *testing.T) {
	h := newHarness(t)
	a := h.vcam(1, 0)
	b := h.vcam(0, 10)
	h.tick(0.1)
	h.w.Events().Drain()

	SetPriority(h.w, b, 2)
	h.tick(0.5)
	require.InDelta(t, 5, h.camX(), 1e-4)

	SetPriority(h.w, a, 3)
	h.tick(0.5)
	// from the on-screen 5 back toward 0, half way
	assert.InDelta(t, 2.5, h.camX(), 1e-4)
	assert.Equal(t, a, h.director().Active)

	events := h.w.Events().Drain()
	require.Len(t, events, 2)
	assert.Equal(t, StartedBlend{Director: h.dir, From: b, To: a}, events[1])
}

func TestPreviousCameraGoneUsesPhysical(t *testing.T) {
	h := newHarness(t)
	a := h.vcam(2, 4)
	h.vcam(1, 10)
	h.tick(0.1)
	require.InDelta(t, 4, h.camX(), 1e-6)

	h.w.Despawn(a)
	h.tick(0.5)
	assert.InDelta(t, 7, h.camX(), 1e-4)
	assert.Equal(t, Blending, State(h.w, h.dir))
}

func TestHardCutWhenNoSnapshot(t *testing.T) {
	h := newHarness(t)
	a := h.vcam(2, 4)
	b := h.vcam(1, 10)
	h.tick(0.1)
	h.w.Events().Drain()

	camera.Projections(h.w).Remove(h.cam)
	h.w.Despawn(a)
	h.tick(0.1)

	assert.Equal(t, b, h.director().Active)
	assert.Equal(t, Settled, State(h.w, h.dir))
	assert.InDelta(t, 10, h.camX(), 1e-6)
	assert.Empty(t, h.w.Events().Drain())
}

func TestNoCandidatesGoesIdle(t *testing.T) {
	h := newHarness(t)
	a := h.vcam(1, 3)
	h.tick(0.1)
	require.Equal(t, Settled, State(h.w, h.dir))

	h.w.Despawn(a)
	h.tick(0.1)
	assert.Equal(t, Idle, State(h.w, h.dir))
	assert.InDelta(t, 3, h.camX(), 1e-6, "physical camera keeps its last state")
}

func TestReassign(t *testing.T) {
	h := newHarness(t)
	otherCam := h.w.Spawn()
	camera.Write(h.w, otherCam, stateAt(0))
	other := SpawnDirector(h.w, otherCam)

	a := h.vcam(1, 3)
	h.tick(0.1)
	require.True(t, Reassign(h.w, a, other))
	h.tick(0.1)

	assert.Equal(t, Idle, State(h.w, h.dir))
	od, _ := Directors(h.w).Get(other)
	assert.Equal(t, a, od.Active)
	assert.False(t, Reassign(h.w, h.w.Spawn(), other))
}

func TestSelectionGate(t *testing.T) {
	h := newHarness(t)
	a := h.vcam(1, 0)
	for i := 0; i < 3; i++ {
		h.tick(0.1)
	}
	assert.Equal(t, 1, h.sel.Evaluations())

	SetPriority(h.w, a, 4)
	h.tick(0.1)
	assert.Equal(t, 2, h.sel.Evaluations())
}

func TestMissingPhysicalCameraIsTolerated(t *testing.T) {
	h := newHarness(t)
	h.vcam(1, 0)
	b := h.vcam(0, 10)
	h.tick(0.1)

	h.w.Despawn(h.cam)
	SetPriority(h.w, b, 2)
	assert.NotPanics(t, func() {
		h.tick(0.5)
		h.tick(0.5)
	})
	assert.Equal(t, b, h.director().Active)
}

func TestEaseByName(t *testing.T) {
	fn, err := EaseByName("In_Out_Cubic")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, fn(0.5, 0, 1, 1), 1e-5)

	fn, err = EaseByName("")
	require.NoError(t, err)
	assert.InDelta(t, 0.3, fn(0.3, 0, 1, 1), 1e-6)

	_, err = EaseByName("wobble")
	assert.ErrorIs(t, err, ErrUnknownEase)

	_, err = NewBlendDefinition("wobble", 1)
	assert.ErrorIs(t, err, ErrUnknownEase)

	assert.Contains(t, EaseNames(), "out_bounce")
}

func TestBlendDefinitionProgress(t *testing.T) {
	def := linear(2)
	assert.InDelta(t, 0.25, def.Progress(0.5), 1e-6)
	assert.Equal(t, float32(1), def.Progress(5))
	assert.Equal(t, float32(0), def.Progress(-1))
	assert.Equal(t, float32(1), linear(0).Progress(0))
	assert.InDelta(t, 0.4, def.Sample(0.4), 1e-6)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "settled", Settled.String())
	assert.Equal(t, "blending", Blending.String())
}
