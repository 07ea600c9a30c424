// Package term hosts a particle field in a terminal. Each cell stands in for a
// block of surface pixels and is painted with its background color.
package term

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ecoveridian/backdrop/config"
	"github.com/ecoveridian/backdrop/driver"
	"github.com/ecoveridian/backdrop/field"
	"github.com/ecoveridian/backdrop/renderer"
	"github.com/ecoveridian/backdrop/telemetry"
)

// Options configures a terminal run.
type Options struct {
	Variant string // empty = config default
	Seed    int64
}

// Host is the tcell side of the driver bridge.
type Host struct {
	driver.EventHub

	screen  tcell.Screen
	cfg     *config.Config
	canvas  *renderer.CellCanvas
	queue   *driver.FrameQueue
	drv     *driver.Driver
	cellW   float32
	cellH   float32
	opacity float32
}

// NewHost mounts the configured variant on an initialized screen.
func NewHost(screen tcell.Screen, cfg *config.Config, opts Options) (*Host, error) {
	name := opts.Variant
	if name == "" {
		name = cfg.Field.Variant
	}
	v, err := field.New(name, cfg)
	if err != nil {
		return nil, err
	}

	cols, rows := screen.Size()
	h := &Host{
		screen:  screen,
		cfg:     cfg,
		queue:   driver.NewFrameQueue(),
		cellW:   float32(cfg.Terminal.CellWidth),
		cellH:   float32(cfg.Terminal.CellHeight),
		opacity: cfg.Derived.Opacity32,
	}
	h.canvas = renderer.NewCellCanvas(cols, rows, h.cellW, h.cellH)
	h.drv = driver.New(v, driver.Options{
		Scheduler: h.queue,
		Seed:      opts.Seed,
		Collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		OnStats: func(s telemetry.WindowStats) {
			slog.Debug("terminal stats", "stats", s)
		},
	})
	if err := h.drv.Mount(h); err != nil {
		return nil, fmt.Errorf("mounting driver: %w", err)
	}
	return h, nil
}

// Size implements driver.Surface.
func (h *Host) Size() (float32, float32) { return h.canvas.Size() }

// Canvas implements driver.Surface.
func (h *Host) Canvas() renderer.Canvas { return h.canvas }

// Driver returns the mounted driver.
func (h *Host) Driver() *driver.Driver { return h.drv }

// HandleEvent applies one terminal event. It returns false when the user asked to quit.
func (h *Host) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch r := ev.Rune(); r {
			case 'q':
				return false
			case '1', '2', '3':
				h.SelectVariant(field.Names()[r-'1'])
			}
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		h.PointerMove((float32(x)+0.5)*h.cellW, (float32(y)+0.5)*h.cellH)

	case *tcell.EventResize:
		cols, rows := ev.Size()
		if cols <= 0 || rows <= 0 {
			return true
		}
		h.screen.Sync()
		h.canvas.Resize(cols, rows)
		w, hgt := h.canvas.Size()
		h.Resize(w, hgt)
	}
	return true
}

// SelectVariant swaps in the named variant. Unknown names are logged and ignored.
func (h *Host) SelectVariant(name string) {
	if h.drv.Variant().Name() == name {
		return
	}
	v, err := field.New(name, h.cfg)
	if err != nil {
		slog.Warn("variant switch failed", "variant", name, "error", err)
		return
	}
	h.drv.Swap(v)
}

// Frame runs pending frame callbacks and pushes the cells to the screen.
func (h *Host) Frame(now time.Duration) {
	h.queue.Tick(now)
	h.canvas.Flush(h.screen, h.opacity)
	h.screen.Show()
}

// Close unmounts the driver.
func (h *Host) Close() {
	h.drv.Unmount()
}

// Run drives screen until ctx is cancelled or the user quits. The screen must be
// initialized; Run finalizes it before returning.
func Run(ctx context.Context, screen tcell.Screen, cfg *config.Config, opts Options) error {
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()
	screen.Clear()

	h, err := NewHost(screen, cfg, opts)
	if err != nil {
		screen.Fini()
		return err
	}
	defer h.Close()

	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	pumpDone := make(chan struct{})
	go func() {
		defer close(pumpDone)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	defer func() {
		close(done)
		// Fini makes PollEvent return nil so the pump exits
		screen.Fini()
		<-pumpDone
	}()

	frame := time.Duration(cfg.Terminal.FrameMS) * time.Millisecond
	if frame <= 0 {
		frame = 16 * time.Millisecond
	}
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !h.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			h.Frame(time.Since(start))
		}
	}
}
