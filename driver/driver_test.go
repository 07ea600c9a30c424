package driver

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoveridian/backdrop/config"
	"github.com/ecoveridian/backdrop/field"
	"github.com/ecoveridian/backdrop/renderer"
	"github.com/ecoveridian/backdrop/telemetry"
)

// spyScheduler records frame requests and cancellations without running anything.
type spyScheduler struct {
	next      FrameHandle
	requested map[FrameHandle]FrameFunc
	cancelled []FrameHandle
}

func newSpyScheduler() *spyScheduler {
	return &spyScheduler{requested: make(map[FrameHandle]FrameFunc)}
}

func (s *spyScheduler) RequestFrame(fn FrameFunc) FrameHandle {
	s.next++
	s.requested[s.next] = fn
	return s.next
}

func (s *spyScheduler) CancelFrame(h FrameHandle) {
	s.cancelled = append(s.cancelled, h)
}

// spyVariant counts lifecycle calls.
type spyVariant struct {
	resets, steps, draws, moves int
	lastW, lastH                float32
}

func (v *spyVariant) Name() string { return "spy" }
func (v *spyVariant) Reset(ctx *field.Context) {
	v.resets++
	v.lastW, v.lastH = ctx.Width, ctx.Height
}
func (v *spyVariant) PointerMoved(*field.Context)          { v.moves++ }
func (v *spyVariant) Step(*field.Context)                  { v.steps++ }
func (v *spyVariant) Draw(renderer.Canvas, *field.Context) { v.draws++ }
func (v *spyVariant) Population() int                      { return 1 }

type testSurface struct {
	EventHub
	w, h   float32
	canvas renderer.Canvas
}

func (s *testSurface) Size() (float32, float32) { return s.w, s.h }
func (s *testSurface) Canvas() renderer.Canvas  { return s.canvas }

func newSurface(w, h float32) *testSurface {
	return &testSurface{w: w, h: h, canvas: renderer.NewRecorder(w, h)}
}

func TestMountRequestsFirstFrame(t *testing.T) {
	sched := newSpyScheduler()
	v := &spyVariant{}
	d := New(v, Options{Scheduler: sched, Seed: 1})
	s := newSurface(800, 600)

	require.NoError(t, d.Mount(s))
	assert.True(t, d.Mounted())
	assert.Equal(t, 1, v.resets)
	assert.Equal(t, float32(800), v.lastW)
	assert.Len(t, sched.requested, 1)
	assert.Equal(t, 1, s.Subscribers())

	assert.True(t, errors.Is(d.Mount(s), ErrMounted))
	assert.True(t, errors.Is(New(v, Options{Scheduler: sched}).Mount(nil), ErrNoSurface))
}

func TestFrameStepsDrawsAndReschedules(t *testing.T) {
	q := NewFrameQueue()
	v := &spyVariant{}
	d := New(v, Options{Scheduler: q, Seed: 1})
	require.NoError(t, d.Mount(newSurface(640, 480)))

	for i := 0; i < 3; i++ {
		assert.Equal(t, 1, q.Tick(time.Duration(i)*16*time.Millisecond))
	}
	assert.Equal(t, 3, v.steps)
	assert.Equal(t, 3, v.draws)
	assert.Equal(t, uint64(3), d.Context().Frame)
	assert.InDelta(t, 0.032, d.Context().Time, 1e-9)
	assert.Equal(t, 1, q.Pending())
}

func TestNilCanvasSkipsDrawing(t *testing.T) {
	q := NewFrameQueue()
	v := &spyVariant{}
	d := New(v, Options{Scheduler: q})
	s := newSurface(640, 480)
	s.canvas = nil
	require.NoError(t, d.Mount(s))

	q.Tick(0)
	q.Tick(time.Millisecond)
	assert.Equal(t, 2, v.steps)
	assert.Zero(t, v.draws)
}

func TestUnmountStopsEverything(t *testing.T) {
	sched := newSpyScheduler()
	v := &spyVariant{}
	d := New(v, Options{Scheduler: sched})
	s := newSurface(800, 600)
	require.NoError(t, d.Mount(s))

	// Run the first frame by hand, which requests the second
	sched.requested[1](0)
	require.Len(t, sched.requested, 2)

	d.Unmount()
	assert.False(t, d.Mounted())
	assert.Equal(t, []FrameHandle{2}, sched.cancelled)
	assert.Zero(t, s.Subscribers())

	// A host that fires the cancelled callback anyway gets nothing
	steps, draws := v.steps, v.draws
	sched.requested[2](16 * time.Millisecond)
	assert.Equal(t, steps, v.steps)
	assert.Equal(t, draws, v.draws)
	assert.Len(t, sched.requested, 2, "no frame requested after unmount")

	// Events after unmount are dropped
	s.Resize(100, 100)
	s.PointerMove(1, 1)
	d.OnResize(100, 100)
	d.OnPointerMove(1, 1)
	assert.Equal(t, 1, v.resets)
	assert.Zero(t, v.moves)

	// Second unmount is a no-op
	d.Unmount()
	assert.Len(t, sched.cancelled, 1)
}

func TestUnmountWithFrameQueue(t *testing.T) {
	q := NewFrameQueue()
	v := &spyVariant{}
	d := New(v, Options{Scheduler: q})
	require.NoError(t, d.Mount(newSurface(320, 240)))

	q.Tick(0)
	d.Unmount()
	assert.Zero(t, q.Pending())
	assert.Zero(t, q.Tick(time.Second))
	assert.Equal(t, 1, v.steps)
}

func TestResizeEvents(t *testing.T) {
	q := NewFrameQueue()
	v := &spyVariant{}
	d := New(v, Options{Scheduler: q})
	s := newSurface(800, 600)
	require.NoError(t, d.Mount(s))

	s.Resize(1024, 768)
	assert.Equal(t, 2, v.resets)
	assert.Equal(t, float32(1024), d.Context().Width)

	// Rapid resizes each rebuild
	s.Resize(500, 400)
	s.Resize(501, 400)
	assert.Equal(t, 4, v.resets)

	// Degenerate sizes are ignored
	s.Resize(0, 400)
	s.Resize(300, -1)
	assert.Equal(t, 4, v.resets)
	assert.Equal(t, float32(501), d.Context().Width)
}

func TestPointerEvents(t *testing.T) {
	q := NewFrameQueue()
	v := &spyVariant{}
	d := New(v, Options{Scheduler: q})
	s := newSurface(800, 600)
	require.NoError(t, d.Mount(s))

	assert.False(t, d.Context().Pointer.Active)
	s.PointerMove(10, 10)
	s.PointerMove(30, 10)
	assert.Equal(t, 2, v.moves)
	p := d.Context().Pointer
	assert.True(t, p.Active)
	assert.Equal(t, float32(30), p.X)
	assert.Equal(t, float32(10), p.PrevX)
}

func TestSwapResetsNewVariant(t *testing.T) {
	q := NewFrameQueue()
	d := New(&spyVariant{}, Options{Scheduler: q})
	require.NoError(t, d.Mount(newSurface(800, 600)))

	next := &spyVariant{}
	d.Swap(next)
	assert.Equal(t, 1, next.resets)
	assert.Equal(t, float32(600), next.lastH)

	q.Tick(0)
	assert.Equal(t, 1, next.steps)
}

func TestDriverWithRealVariantAndTelemetry(t *testing.T) {
	cfg := config.Default()
	v, err := field.New("repulsion", cfg)
	require.NoError(t, err)

	var windows []telemetry.WindowStats
	q := NewFrameQueue()
	d := New(v, Options{
		Scheduler: q,
		Seed:      7,
		Perf:      telemetry.NewPerfCollector(30),
		Collector: telemetry.NewCollector(0.5),
		OnStats:   func(s telemetry.WindowStats) { windows = append(windows, s) },
	})
	s := newSurface(800, 600)
	require.NoError(t, d.Mount(s))

	s.PointerMove(400, 300)
	for i := 0; i < 90; i++ {
		q.Tick(time.Duration(i) * time.Second / 60)
	}

	require.NotEmpty(t, windows)
	assert.Equal(t, "repulsion", windows[0].Variant)
	assert.Equal(t, 60, windows[0].Population)
	assert.Equal(t, 1, windows[0].PointerMoves)
	assert.Greater(t, windows[0].DisplacementPeak, 0.0)
}
