package field

import (
	"errors"
	"fmt"
	"math"

	"github.com/ecoveridian/backdrop/config"
	"github.com/ecoveridian/backdrop/renderer"
	"github.com/ecoveridian/backdrop/systems"
)

// ErrUnknownVariant is returned by New for an unregistered variant name.
var ErrUnknownVariant = errors.New("unknown variant")

// Variant is one interactive background effect.
type Variant interface {
	// Name returns the registry name.
	Name() string
	// Reset discards the working set and rebuilds it for ctx.Width x ctx.Height.
	Reset(ctx *Context)
	// PointerMoved is called after ctx.Pointer has been updated by a move event.
	PointerMoved(ctx *Context)
	// Step advances the simulation one frame.
	Step(ctx *Context)
	// Draw renders the current state.
	Draw(c renderer.Canvas, ctx *Context)
	// Population returns the number of live particles, nodes and trails.
	Population() int
}

// Param is one live-tunable constant of a variant.
type Param struct {
	Name     string
	Value    *float32
	Min, Max float32
}

// Tunable is implemented by variants that expose constants to the tuning panel.
type Tunable interface {
	Params() []Param
}

// Displacer is implemented by variants whose particles relax toward rest positions.
type Displacer interface {
	Displacement() (mean, peak float64)
}

// Factory builds a variant from the loaded configuration.
type Factory func(cfg *config.Config) Variant

var registry = map[string]Factory{
	"repulsion": func(cfg *config.Config) Variant { return NewRepulsion(cfg.Repulsion) },
	"flow":      func(cfg *config.Config) Variant { return NewFlow(cfg.Flow) },
	"energy":    func(cfg *config.Config) Variant { return NewEnergy(cfg.Energy) },
}

// New builds the named variant.
func New(name string, cfg *config.Config) (Variant, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVariant, name)
	}
	return f(cfg), nil
}

// order is the hotkey order: 1 repulsion, 2 flow, 3 energy.
var order = []string{"repulsion", "flow", "energy"}

// Names returns the registered variant names in hotkey order.
func Names() []string {
	return append([]string(nil), order...)
}

func influenceAt(dx, dy, radius float32) float32 {
	d := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	return systems.Influence(d, radius)
}
