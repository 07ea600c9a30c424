package main

import (
	"fmt"

	"github.com/ecoveridian/backdrop/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the spring constants of one variant.
type ParamVector struct {
	Variant string
	Specs   []ParamSpec
}

// NewParamVector creates the search space for a particle variant.
func NewParamVector(cfg *config.Config, variant string) (*ParamVector, error) {
	var spring, damping float64
	switch variant {
	case "repulsion":
		spring, damping = cfg.Repulsion.Spring, cfg.Repulsion.Damping
	case "flow":
		spring, damping = cfg.Flow.Spring, cfg.Flow.Damping
	default:
		return nil, fmt.Errorf("variant %q has no spring to tune", variant)
	}
	return &ParamVector{
		Variant: variant,
		Specs: []ParamSpec{
			{Name: "spring", Path: variant + ".spring", Min: 0.005, Max: 0.2, Default: spring},
			{Name: "damping", Path: variant + ".damping", Min: 0.5, Max: 0.99, Default: damping},
		},
	}, nil
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped values into the variant's config section.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)
	switch pv.Variant {
	case "repulsion":
		cfg.Repulsion.Spring, cfg.Repulsion.Damping = c[0], c[1]
	case "flow":
		cfg.Flow.Spring, cfg.Flow.Damping = c[0], c[1]
	}
}
