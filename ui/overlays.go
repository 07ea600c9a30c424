package ui

import (
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// BindingID uniquely identifies a key binding.
type BindingID string

// Window host bindings.
const (
	BindRepulsion  BindingID = "repulsion"
	BindFlow       BindingID = "flow"
	BindEnergy     BindingID = "energy"
	BindTuning     BindingID = "tuning"
	BindHUD        BindingID = "hud"
	BindFullscreen BindingID = "fullscreen"
)

// Binding defines one key and what it does.
type Binding struct {
	ID       BindingID
	Name     string // Display name
	Key      int32  // raylib key code
	KeyLabel string // Key label for display
}

// Bindings maps keys to actions and renders the legend.
type Bindings struct {
	byID  map[BindingID]Binding
	order []BindingID
}

// NewBindings creates the window host's default bindings.
func NewBindings() *Bindings {
	b := &Bindings{byID: make(map[BindingID]Binding)}
	b.Register(Binding{ID: BindRepulsion, Name: "repulsion", Key: rl.KeyOne, KeyLabel: "1"})
	b.Register(Binding{ID: BindFlow, Name: "flow", Key: rl.KeyTwo, KeyLabel: "2"})
	b.Register(Binding{ID: BindEnergy, Name: "energy", Key: rl.KeyThree, KeyLabel: "3"})
	b.Register(Binding{ID: BindTuning, Name: "tuning", Key: rl.KeyTab, KeyLabel: "Tab"})
	b.Register(Binding{ID: BindHUD, Name: "hud", Key: rl.KeyH, KeyLabel: "H"})
	b.Register(Binding{ID: BindFullscreen, Name: "fullscreen", Key: rl.KeyF11, KeyLabel: "F11"})
	return b
}

// Register adds or replaces a binding. Insertion order is kept for display.
func (b *Bindings) Register(bind Binding) {
	if _, ok := b.byID[bind.ID]; !ok {
		b.order = append(b.order, bind.ID)
	}
	b.byID[bind.ID] = bind
}

// Pressed returns the bindings whose keys were pressed this frame, in order.
func (b *Bindings) Pressed() []BindingID {
	var out []BindingID
	for _, id := range b.order {
		if rl.IsKeyPressed(b.byID[id].Key) {
			out = append(out, id)
		}
	}
	return out
}

// Legend returns a one-line key legend.
func (b *Bindings) Legend() string {
	parts := make([]string, 0, len(b.order))
	for _, id := range b.order {
		bind := b.byID[id]
		parts = append(parts, "["+bind.KeyLabel+"] "+bind.Name)
	}
	return strings.Join(parts, "  ")
}
