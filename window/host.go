package window

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ecoveridian/backdrop/config"
	"github.com/ecoveridian/backdrop/driver"
	"github.com/ecoveridian/backdrop/field"
	"github.com/ecoveridian/backdrop/renderer"
	"github.com/ecoveridian/backdrop/telemetry"
	"github.com/ecoveridian/backdrop/ui"
)

// Options configures a window run.
type Options struct {
	Variant string // empty = config default
	Seed    int64
	// Updates delivers reloaded configs, e.g. from config.Watcher. May be nil.
	Updates <-chan *config.Config
}

// Host is the raylib side of the driver bridge.
type Host struct {
	driver.EventHub

	cfg    *config.Config
	canvas *Canvas
	queue  *driver.FrameQueue
	drv    *driver.Driver
	perf   *telemetry.PerfCollector

	width, height  float32
	mouseX, mouseY float32
	mouseSeen      bool

	bindings *ui.Bindings
	hud      *ui.HUD
	tuning   *ui.TuningPanel
}

// Size implements driver.Surface.
func (h *Host) Size() (float32, float32) { return h.width, h.height }

// Canvas implements driver.Surface.
func (h *Host) Canvas() renderer.Canvas { return h.canvas }

// Run opens the window and blocks until it is closed or ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, opts Options) error {
	name := opts.Variant
	if name == "" {
		name = cfg.Field.Variant
	}
	v, err := field.New(name, cfg)
	if err != nil {
		return err
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	h := &Host{
		cfg:      cfg,
		canvas:   NewCanvas(int32(cfg.Screen.Width), int32(cfg.Screen.Height)),
		queue:    driver.NewFrameQueue(),
		perf:     telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		width:    cfg.Derived.ScreenW32,
		height:   cfg.Derived.ScreenH32,
		bindings: ui.NewBindings(),
		hud:      ui.NewHUD(),
		tuning:   ui.NewTuningPanel(int32(cfg.Screen.Width)-290, 10, 280),
	}
	defer h.canvas.Unload()

	h.drv = driver.New(v, driver.Options{
		Scheduler: h.queue,
		Seed:      opts.Seed,
		Perf:      h.perf,
		Collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		OnStats: func(s telemetry.WindowStats) {
			slog.Info("window stats", "stats", s)
		},
	})
	if err := h.drv.Mount(h); err != nil {
		return fmt.Errorf("mounting driver: %w", err)
	}
	defer h.drv.Unmount()

	slog.Info("window started", "variant", name, "width", h.width, "height", h.height)

	start := time.Now()
	for !rl.WindowShouldClose() {
		select {
		case <-ctx.Done():
			return nil
		case next := <-opts.Updates:
			h.reload(next)
		default:
		}

		h.handleInput()

		h.canvas.Begin()
		h.queue.Tick(time.Since(start))
		h.canvas.End()

		h.draw()
	}
	return nil
}

// handleInput forwards resize and pointer events and applies key bindings.
func (h *Host) handleInput() {
	if rl.IsWindowResized() {
		w := float32(rl.GetScreenWidth())
		hgt := float32(rl.GetScreenHeight())
		if w > 0 && hgt > 0 && (w != h.width || hgt != h.height) {
			h.width, h.height = w, hgt
			h.canvas.Resize(int32(w), int32(hgt))
			h.tuning.SetPosition(int32(w)-290, 10)
			h.Resize(w, hgt)
		}
	}

	// The first reading only establishes a baseline; the pointer becomes
	// active on the first real movement.
	mouse := rl.GetMousePosition()
	if !h.mouseSeen {
		h.mouseSeen = true
		h.mouseX, h.mouseY = mouse.X, mouse.Y
	} else if mouse.X != h.mouseX || mouse.Y != h.mouseY {
		h.mouseX, h.mouseY = mouse.X, mouse.Y
		h.PointerMove(mouse.X, mouse.Y)
	}

	for _, id := range h.bindings.Pressed() {
		switch id {
		case ui.BindRepulsion, ui.BindFlow, ui.BindEnergy:
			h.selectVariant(string(id))
		case ui.BindTuning:
			h.tuning.Toggle()
		case ui.BindHUD:
			h.hud.Toggle()
		case ui.BindFullscreen:
			rl.ToggleFullscreen()
		}
	}
}

func (h *Host) selectVariant(name string) {
	if h.drv.Variant().Name() == name {
		return
	}
	v, err := field.New(name, h.cfg)
	if err != nil {
		slog.Warn("variant switch failed", "variant", name, "error", err)
		return
	}
	h.drv.Swap(v)
	slog.Info("variant switched", "variant", name, "population", v.Population())
}

// reload rebuilds the running variant from a freshly loaded config.
func (h *Host) reload(cfg *config.Config) {
	if cfg == nil {
		return
	}
	h.cfg = cfg
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	h.tuning.ResetDefaults()

	name := h.drv.Variant().Name()
	v, err := field.New(name, cfg)
	if err != nil {
		slog.Warn("config reload failed", "variant", name, "error", err)
		return
	}
	h.drv.Swap(v)
	slog.Info("config reloaded", "variant", name)
}

func (h *Host) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	h.canvas.Present(h.cfg.Derived.Opacity32)

	v := h.drv.Variant()
	h.tuning.Draw(v)
	h.hud.Draw(ui.HUDData{
		Title:      h.cfg.Screen.Title,
		Variant:    v.Name(),
		Population: v.Population(),
		Frame:      h.drv.Context().Frame,
		FPS:        rl.GetFPS(),
		TargetFPS:  h.cfg.Screen.TargetFPS,
		Perf:       h.perf.Stats(),
	})
	h.hud.DrawControls(int32(h.height), h.bindings.Legend())

	rl.EndDrawing()
	h.perf.RecordPresent()
}
