// Package headless runs a particle field without a display at a fixed time step,
// for measurement and regression runs.
package headless

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/guptarohit/asciigraph"

	"github.com/ecoveridian/backdrop/config"
	"github.com/ecoveridian/backdrop/driver"
	"github.com/ecoveridian/backdrop/field"
	"github.com/ecoveridian/backdrop/renderer"
	"github.com/ecoveridian/backdrop/telemetry"
)

// Pointer scripts.
const (
	PointerNone  = "none"
	PointerSweep = "sweep"
)

// Options configures a headless run. Zero values fall back to the config.
type Options struct {
	Variant   string
	Seed      int64
	Frames    int
	Pointer   string
	OutputDir string
}

// Result summarizes a finished run.
type Result struct {
	Variant    string
	Frames     uint64
	Population int
	Windows    []telemetry.WindowStats
	// Mean rest displacement per frame; empty for variants without rest positions.
	Displacement []float64
}

// surface is an offscreen driver.Surface that records draw calls and discards
// them every frame.
type surface struct {
	driver.EventHub
	w, h   float32
	canvas *renderer.Recorder
}

func (s *surface) Size() (float32, float32) { return s.w, s.h }
func (s *surface) Canvas() renderer.Canvas  { return s.canvas }

// Run steps the configured variant until the frame budget is spent or ctx is
// cancelled. On cancellation the partial result is returned with ctx.Err().
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Result, error) {
	name := opts.Variant
	if name == "" {
		name = cfg.Field.Variant
	}
	frames := opts.Frames
	if frames <= 0 {
		frames = cfg.Headless.Frames
	}
	pointer := opts.Pointer
	if pointer == "" {
		pointer = cfg.Headless.Pointer
	}
	if pointer != PointerNone && pointer != PointerSweep {
		return nil, fmt.Errorf("unknown pointer script: %s", pointer)
	}

	v, err := field.New(name, cfg)
	if err != nil {
		return nil, err
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	res := &Result{Variant: name}
	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	queue := driver.NewFrameQueue()
	drv := driver.New(v, driver.Options{
		Scheduler: queue,
		Seed:      opts.Seed,
		Perf:      perf,
		Collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		OnStats: func(s telemetry.WindowStats) {
			res.Windows = append(res.Windows, s)
			slog.Info("stats", "window", s, "perf", perf.Stats())
			if err := om.WriteTelemetry(s); err != nil {
				slog.Warn("telemetry write failed", "error", err)
			}
			if err := om.WritePerf(perf.Stats(), s.WindowEndFrame); err != nil {
				slog.Warn("perf write failed", "error", err)
			}
		},
	})

	w, h := cfg.Derived.HeadlessW, cfg.Derived.HeadlessH
	s := &surface{w: w, h: h, canvas: renderer.NewRecorder(w, h)}
	if err := drv.Mount(s); err != nil {
		return nil, fmt.Errorf("mounting driver: %w", err)
	}
	defer drv.Unmount()

	slog.Info("starting headless run",
		"variant", name,
		"frames", frames,
		"width", w,
		"height", h,
		"pointer", pointer,
		"population", drv.Variant().Population(),
	)

	disp, _ := drv.Variant().(field.Displacer)
	dt := cfg.Headless.DT
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			res.Frames = drv.Context().Frame
			res.Population = drv.Variant().Population()
			return res, err
		}

		t := float64(i) * dt
		if pointer == PointerSweep {
			x, y := Sweep(t, w, h)
			s.PointerMove(x, y)
		}

		s.canvas.Reset()
		queue.Tick(time.Duration(t * float64(time.Second)))

		if disp != nil {
			mean, _ := disp.Displacement()
			res.Displacement = append(res.Displacement, mean)
		}
	}

	res.Frames = drv.Context().Frame
	res.Population = drv.Variant().Population()
	slog.Info("headless run finished", "frames", res.Frames, "windows", len(res.Windows), "output", om.Dir())
	return res, nil
}

// Sweep is the scripted pointer path: a slow Lissajous figure over the middle
// of a w x h surface.
func Sweep(t float64, w, h float32) (x, y float32) {
	x = w/2 + w*0.4*float32(math.Sin(t*0.7))
	y = h/2 + h*0.35*float32(math.Sin(t*1.1))
	return x, y
}

// Plot renders per-frame values as an ASCII chart, downsampled to width columns.
// It returns an empty string when there is nothing to plot.
func Plot(values []float64, width int, caption string) string {
	if len(values) == 0 {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	return asciigraph.Plot(downsample(values, width),
		asciigraph.Height(10),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// downsample averages values into at most n buckets.
func downsample(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	out := make([]float64, n)
	for i := range out {
		lo := i * len(values) / n
		hi := (i + 1) * len(values) / n
		var sum float64
		for _, v := range values[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}
