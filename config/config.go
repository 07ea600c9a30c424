// Package config provides configuration loading and access for the backgrounds.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all background configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Field     FieldConfig     `yaml:"field"`
	Repulsion RepulsionConfig `yaml:"repulsion"`
	Flow      FlowConfig      `yaml:"flow"`
	Energy    EnergyConfig    `yaml:"energy"`
	Terminal  TerminalConfig  `yaml:"terminal"`
	Headless  HeadlessConfig  `yaml:"headless"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Dashboard DashboardConfig `yaml:"dashboard"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// FieldConfig selects the active variant and shared presentation settings.
type FieldConfig struct {
	Variant string  `yaml:"variant"` // repulsion, flow or energy
	Seed    int64   `yaml:"seed"`    // 0 = time-based
	Opacity float64 `yaml:"opacity"` // Whole-canvas opacity when presented
}

// RepulsionConfig holds parameters for the repulsion variant.
type RepulsionConfig struct {
	Density      float64    `yaml:"density"`       // Surface pixels per particle
	SizeMin      float64    `yaml:"size_min"`      // Radius lower bound
	SizeRange    float64    `yaml:"size_range"`    // Radius = min + rand*range
	OpacityMin   float64    `yaml:"opacity_min"`   // Opacity lower bound
	OpacityRange float64    `yaml:"opacity_range"` // Opacity = min + rand*range
	Radius       float64    `yaml:"radius"`        // Pointer interaction radius
	Gain         float64    `yaml:"gain"`          // Repulsion force scale
	Spring       float64    `yaml:"spring"`        // Restoring spring constant
	Damping      float64    `yaml:"damping"`       // Velocity multiplier per frame
	GlowScale    float64    `yaml:"glow_scale"`    // Glow radius = size * this
	CoreScale    float64    `yaml:"core_scale"`    // Core radius = size * this
	Color        [3]int     `yaml:"color"`         // Fixed RGB
	Links        LinkConfig `yaml:"links"`
}

// FlowConfig holds parameters for the attraction/flow variant.
type FlowConfig struct {
	Density      float64    `yaml:"density"`
	SizeMin      float64    `yaml:"size_min"`
	SizeRange    float64    `yaml:"size_range"`
	OpacityMin   float64    `yaml:"opacity_min"`
	OpacityRange float64    `yaml:"opacity_range"`
	HueJitter    float64    `yaml:"hue_jitter"`   // Per-particle hue offset in [-j, j)
	MinDistance  float64    `yaml:"min_distance"` // No attraction below this distance
	Radius       float64    `yaml:"radius"`       // Attraction radius
	Gain         float64    `yaml:"gain"`         // Attraction force scale
	Spring       float64    `yaml:"spring"`
	Damping      float64    `yaml:"damping"`
	WaveAmp      float64    `yaml:"wave_amp"`    // Rest-position wave amplitude (px)
	WaveStepX    float64    `yaml:"wave_step_x"` // Phase step per particle index (x)
	WaveStepY    float64    `yaml:"wave_step_y"` // Phase step per particle index (y)
	BaseHue      float64    `yaml:"base_hue"`
	HueShift     float64    `yaml:"hue_shift"` // Hue shift at full pointer influence
	Links        LinkConfig `yaml:"links"`
}

// LinkConfig holds connection-line parameters.
type LinkConfig struct {
	Distance float64 `yaml:"distance"` // Max link length
	Opacity  float64 `yaml:"opacity"`  // Opacity at zero length
	Width    float64 `yaml:"width"`
	Boost    float64 `yaml:"boost"` // Extra opacity at full pointer influence
}

// EnergyConfig holds parameters for the node network variant.
type EnergyConfig struct {
	BaseNodes     int         `yaml:"base_nodes"`     // Nodes at zero width
	WidthPerNode  float64     `yaml:"width_per_node"` // One extra node per this many px
	RadiusMin     float64     `yaml:"radius_min"`
	RadiusRange   float64     `yaml:"radius_range"`
	MaxLinks      int         `yaml:"max_links"` // Nearest earlier nodes linked
	BeamSegments  int         `yaml:"beam_segments"`
	BeamInfluence float64     `yaml:"beam_influence"` // Pointer radius for beams
	NodeInfluence float64     `yaml:"node_influence"` // Pointer radius for nodes
	BaseHue       float64     `yaml:"base_hue"`
	FadeAlpha     float64     `yaml:"fade_alpha"` // Per-frame fade fill alpha
	Trail         TrailConfig `yaml:"trail"`
}

// TrailConfig holds pointer trail parameters.
type TrailConfig struct {
	SpeedThreshold float64 `yaml:"speed_threshold"` // Min pointer displacement per event
	Burst          int     `yaml:"burst"`           // Trails per qualifying event
	Jitter         float64 `yaml:"jitter"`          // Spawn position spread
	Inherit        float64 `yaml:"inherit"`         // Fraction of pointer displacement (reversed)
	Spread         float64 `yaml:"spread"`          // Random velocity spread
	LifeMin        float64 `yaml:"life_min"`
	LifeRange      float64 `yaml:"life_range"`
	SizeMin        float64 `yaml:"size_min"`
	SizeRange      float64 `yaml:"size_range"`
	Damping        float64 `yaml:"damping"`
	MaxTrails      int     `yaml:"max_trails"`
}

// TerminalConfig holds terminal host parameters.
type TerminalConfig struct {
	CellWidth  int `yaml:"cell_width"`  // Simulated pixels per cell column
	CellHeight int `yaml:"cell_height"` // Simulated pixels per cell row
	FrameMS    int `yaml:"frame_ms"`
}

// HeadlessConfig holds headless run parameters.
type HeadlessConfig struct {
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	DT      float64 `yaml:"dt"`
	Frames  int     `yaml:"frames"`
	Pointer string  `yaml:"pointer"` // none or sweep
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // Seconds of sim time per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // Frames averaged by the perf collector
}

// DashboardConfig holds dashboard summary settings.
type DashboardConfig struct {
	HistoryLimit int `yaml:"history_limit"` // Rows shown by the summary
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32 float32
	ScreenH32 float32
	Opacity32 float32
	HeadlessW float32
	HeadlessH float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values that would make the simulation diverge or allocate nothing sensible.
func (c *Config) validate() error {
	if c.Repulsion.Density <= 0 || c.Flow.Density <= 0 {
		return fmt.Errorf("config: particle density must be positive")
	}
	if c.Energy.WidthPerNode <= 0 {
		return fmt.Errorf("config: energy.width_per_node must be positive")
	}
	for name, d := range map[string]float64{
		"repulsion.damping":    c.Repulsion.Damping,
		"flow.damping":         c.Flow.Damping,
		"energy.trail.damping": c.Energy.Trail.Damping,
	} {
		if d < 0 || d >= 1 {
			return fmt.Errorf("config: %s must be in [0, 1), got %v", name, d)
		}
	}
	for name, k := range map[string]float64{
		"repulsion.spring": c.Repulsion.Spring,
		"flow.spring":      c.Flow.Spring,
	} {
		if k <= 0 || k >= 1 {
			return fmt.Errorf("config: %s must be in (0, 1), got %v", name, k)
		}
	}
	if c.Energy.Trail.LifeMin < 1 {
		return fmt.Errorf("config: energy.trail.life_min must be at least 1")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.Opacity32 = float32(c.Field.Opacity)

	// Headless surface defaults to the window size
	w, h := c.Headless.Width, c.Headless.Height
	if w == 0 {
		w = c.Screen.Width
	}
	if h == 0 {
		h = c.Screen.Height
	}
	c.Derived.HeadlessW = float32(w)
	c.Derived.HeadlessH = float32(h)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
