package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ecoveridian/backdrop/field"
)

// TuningPanel renders sliders for the active variant's force constants.
// Values are written straight through the Param pointers.
type TuningPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool

	// defaults captured the first time a variant's params are shown
	defaults map[string][]float32
}

// NewTuningPanel creates a hidden tuning panel.
func NewTuningPanel(x, y, width int32) *TuningPanel {
	return &TuningPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		defaults: make(map[string][]float32),
	}
}

// SetPosition updates the panel position.
func (t *TuningPanel) SetPosition(x, y int32) {
	t.x = x
	t.y = y
}

// IsVisible returns whether the panel is shown.
func (t *TuningPanel) IsVisible() bool {
	return t.visible
}

// Toggle switches panel visibility.
func (t *TuningPanel) Toggle() bool {
	t.visible = !t.visible
	return t.visible
}

// Draw renders the panel for v and reports whether any value changed.
// Variants that expose no params get a short notice instead.
func (t *TuningPanel) Draw(v field.Variant) bool {
	if !t.visible {
		return false
	}
	r := t.renderer
	pad := r.Theme.Padding
	row := r.Theme.LineHeight + r.Theme.SliderHeight + 6

	var params []field.Param
	if tv, ok := v.(field.Tunable); ok {
		params = tv.Params()
	}
	t.remember(v.Name(), params)

	height := pad*3 + r.Theme.LineHeight*2 + int32(len(params))*row + 30
	r.DrawPanel(t.x, t.y, t.width, height)

	x := t.x + pad
	y := r.DrawSectionHeader(x, t.y+pad, fmt.Sprintf("Tuning: %s", v.Name()))

	if len(params) == 0 {
		rl.DrawText("no tunable constants", x, y, r.Theme.FontSize, r.Theme.LabelColor)
		return false
	}

	changed := false
	sliderW := float32(t.width - pad*2 - 60)
	for _, p := range params {
		rl.DrawText(p.Name, x, y, r.Theme.FontSize, r.Theme.LabelColor)
		y += r.Theme.LineHeight

		next := gui.SliderBar(
			rl.Rectangle{X: float32(x), Y: float32(y), Width: sliderW, Height: float32(r.Theme.SliderHeight)},
			"", "",
			*p.Value, p.Min, p.Max,
		)
		rl.DrawText(fmt.Sprintf("%.3f", *p.Value), x+int32(sliderW)+8, y+2, r.Theme.FontSize, r.Theme.ValueColor)
		if next != *p.Value {
			*p.Value = next
			changed = true
		}
		y += r.Theme.SliderHeight + 6
	}

	y += 4
	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: 120, Height: 24}, "Reset values") {
		t.restore(v.Name(), params)
		changed = true
	}
	return changed
}

func (t *TuningPanel) remember(name string, params []field.Param) {
	if _, ok := t.defaults[name]; ok {
		return
	}
	vals := make([]float32, len(params))
	for i, p := range params {
		vals[i] = *p.Value
	}
	t.defaults[name] = vals
}

func (t *TuningPanel) restore(name string, params []field.Param) {
	vals := t.defaults[name]
	for i, p := range params {
		if i < len(vals) {
			*p.Value = vals[i]
		}
	}
}

// ResetDefaults forgets captured defaults, e.g. after a config reload.
func (t *TuningPanel) ResetDefaults() {
	clear(t.defaults)
}
