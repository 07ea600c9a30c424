package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ecoveridian/backdrop/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title      string
	Variant    string
	Population int
	Frame      uint64
	FPS        int32
	TargetFPS  int
	Perf       telemetry.PerfStats
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	visible  bool
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer(), visible: true}
}

// Toggle switches HUD visibility.
func (h *HUD) Toggle() bool {
	h.visible = !h.visible
	return h.visible
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	if !h.visible {
		return
	}
	rl.DrawText(data.Title, 10, 10, 20, rl.RayWhite)

	rl.DrawText(
		fmt.Sprintf("Variant: %s | Population: %d | Frame: %d", data.Variant, data.Population, data.Frame),
		10, 35, 16, rl.LightGray,
	)

	budget := data.Perf.Budget(data.TargetFPS)
	color := rl.LightGray
	if budget > 1 {
		color = rl.Orange
	}
	rl.DrawText(
		fmt.Sprintf("FPS: %d | step %s | draw %s | budget %.0f%%",
			data.FPS,
			data.Perf.PhaseAvg[telemetry.PhaseStep].Round(time.Microsecond),
			data.Perf.PhaseAvg[telemetry.PhaseDraw].Round(time.Microsecond),
			budget*100),
		10, 55, 16, color,
	)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	if !h.visible {
		return
	}
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
