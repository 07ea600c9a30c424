package driver

import (
	"errors"
	"log/slog"
	"time"

	"github.com/ecoveridian/backdrop/field"
	"github.com/ecoveridian/backdrop/telemetry"
)

var (
	// ErrMounted is returned when mounting a driver that is already mounted.
	ErrMounted = errors.New("driver: already mounted")
	// ErrNoSurface is returned when mounting without a surface.
	ErrNoSurface = errors.New("driver: no surface")
)

// Options configures a Driver.
type Options struct {
	Scheduler Scheduler
	Seed      int64 // 0 = time-based

	// Optional instrumentation
	Perf      *telemetry.PerfCollector
	Collector *telemetry.Collector
	OnStats   func(telemetry.WindowStats)
}

// Driver runs one variant on one surface. It owns the simulation context and
// the pending frame request. All methods must be called from the host's loop goroutine.
type Driver struct {
	variant field.Variant
	ctx     *field.Context
	sched   Scheduler

	surface     Surface
	unsubscribe func()
	mounted     bool

	pending    FrameHandle
	hasPending bool
	lastNow    time.Duration
	started    bool

	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	onStats   func(telemetry.WindowStats)
}

// New creates an unmounted driver for v.
func New(v field.Variant, opts Options) *Driver {
	return &Driver{
		variant:   v,
		ctx:       field.NewContext(opts.Seed),
		sched:     opts.Scheduler,
		perf:      opts.Perf,
		collector: opts.Collector,
		onStats:   opts.OnStats,
	}
}

// Mount sizes the field from the surface, builds the working set, subscribes to
// surface events and requests the first frame.
func (d *Driver) Mount(s Surface) error {
	if d.mounted {
		return ErrMounted
	}
	if s == nil {
		return ErrNoSurface
	}

	d.surface = s
	d.ctx.Width, d.ctx.Height = s.Size()
	d.ctx.Pointer = field.Pointer{}
	d.ctx.Time, d.ctx.DT, d.ctx.Frame = 0, 0, 0
	d.started = false
	d.reset()

	d.mounted = true
	d.unsubscribe = s.Subscribe(d)
	d.schedule()

	slog.Debug("driver mounted", "variant", d.variant.Name(), "width", d.ctx.Width, "height", d.ctx.Height, "population", d.variant.Population())
	return nil
}

// Unmount cancels the pending frame and every subscription. No step, draw or
// frame request happens afterwards. Calling it twice is harmless.
func (d *Driver) Unmount() {
	if !d.mounted {
		return
	}
	d.mounted = false

	if d.hasPending {
		d.sched.CancelFrame(d.pending)
		d.hasPending = false
	}
	if d.unsubscribe != nil {
		d.unsubscribe()
		d.unsubscribe = nil
	}
	d.surface = nil
}

// OnResize rebuilds the working set for the new size. Empty sizes are ignored.
func (d *Driver) OnResize(w, h float32) {
	if !d.mounted || w <= 0 || h <= 0 {
		return
	}
	d.ctx.Width, d.ctx.Height = w, h
	d.reset()
	if d.collector != nil {
		d.collector.RecordResize()
	}
}

// OnPointerMove records the pointer and lets the variant react.
func (d *Driver) OnPointerMove(x, y float32) {
	if !d.mounted {
		return
	}
	d.ctx.MovePointer(x, y)
	d.variant.PointerMoved(d.ctx)
	if d.collector != nil {
		d.collector.RecordPointerMove()
	}
}

// Swap replaces the variant and rebuilds it for the current surface size.
func (d *Driver) Swap(v field.Variant) {
	d.variant = v
	if d.mounted {
		d.reset()
	}
}

// Variant returns the running variant.
func (d *Driver) Variant() field.Variant { return d.variant }

// Context returns the simulation context.
func (d *Driver) Context() *field.Context { return d.ctx }

// Mounted reports whether the driver is attached to a surface.
func (d *Driver) Mounted() bool { return d.mounted }

func (d *Driver) reset() {
	d.variant.Reset(d.ctx)
	if c := d.surface.Canvas(); c != nil {
		c.Clear()
	}
}

func (d *Driver) schedule() {
	d.pending = d.sched.RequestFrame(d.frame)
	d.hasPending = true
}

// frame is the per-frame callback: step, draw, sample, reschedule.
func (d *Driver) frame(now time.Duration) {
	if !d.mounted {
		return
	}
	d.hasPending = false

	var dt float64
	if d.started {
		dt = (now - d.lastNow).Seconds()
		if dt < 0 {
			dt = 0
		}
	}
	d.started = true
	d.lastNow = now

	d.ctx.DT = dt
	d.ctx.Time += dt
	d.ctx.Frame++

	if d.perf != nil {
		d.perf.StartFrame()
		d.perf.StartPhase(telemetry.PhaseStep)
	}
	d.variant.Step(d.ctx)

	if d.perf != nil {
		d.perf.StartPhase(telemetry.PhaseDraw)
	}
	if c := d.surface.Canvas(); c != nil {
		d.variant.Draw(c, d.ctx)
	}

	if d.perf != nil {
		d.perf.StartPhase(telemetry.PhaseTelemetry)
	}
	d.sample()
	if d.perf != nil {
		d.perf.EndFrame()
	}

	d.schedule()
}

func (d *Driver) sample() {
	if d.collector == nil {
		return
	}
	var mean, peak float64
	if disp, ok := d.variant.(field.Displacer); ok {
		mean, peak = disp.Displacement()
	}
	d.collector.RecordFrame(mean, peak)

	if d.collector.ShouldFlush(d.ctx.Time) {
		stats := d.collector.Flush(d.ctx.Frame, d.ctx.Time, d.variant.Name(), d.variant.Population())
		if d.onStats != nil {
			d.onStats(stats)
		}
	}
}
