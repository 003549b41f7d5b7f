// Package config provides configuration loading for the particle field.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Placement policies for initial particle layout.
const (
	PlacementAuto           = ""
	PlacementUnconstrained  = "unconstrained"
	PlacementNonOverlapping = "non_overlapping"
)

// Fill styles for particle circles.
const (
	FillGradient = "gradient"
	FillHue      = "hue"
	FillSolid    = "solid"
)

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Particles ParticlesConfig `yaml:"particles"`
	Links     LinksConfig     `yaml:"links"`
	Collision CollisionConfig `yaml:"collision"`
	Pointer   PointerConfig   `yaml:"pointer"`
	Spatial   SpatialConfig   `yaml:"spatial"`
	Render    RenderConfig    `yaml:"render"`
	Terminal  TerminalConfig  `yaml:"terminal"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Audio     AudioConfig     `yaml:"audio"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int  `yaml:"width"`
	Height    int  `yaml:"height"`
	TargetFPS int  `yaml:"target_fps"`
	Resizable bool `yaml:"resizable"`
}

// ParticlesConfig holds particle creation parameters.
type ParticlesConfig struct {
	Count                int     `yaml:"count"`
	MinRadius            float64 `yaml:"min_radius"`
	RadiusJitter         float64 `yaml:"radius_jitter"`  // radius sampled from [min_radius, min_radius+radius_jitter)
	VelocityRange        float64 `yaml:"velocity_range"` // per-axis velocity sampled from [-range, range)
	VelocityBias         float64 `yaml:"velocity_bias"`  // added away from zero so no axis is near-static
	Placement            string  `yaml:"placement"`      // "", unconstrained, non_overlapping
	MaxPlacementAttempts int     `yaml:"max_placement_attempts"`
}

// LinksConfig holds connective line parameters.
type LinksConfig struct {
	MaxDistance float64 `yaml:"max_distance"`
	Width       float64 `yaml:"width"`
}

// CollisionConfig holds pairwise bounce parameters.
type CollisionConfig struct {
	Enabled bool `yaml:"enabled"`
}

// PointerConfig holds pointer repulsion parameters.
type PointerConfig struct {
	Enabled         bool    `yaml:"enabled"`
	InfluenceRadius float64 `yaml:"influence_radius"`
	StepScale       float64 `yaml:"step_scale"`
}

// SpatialConfig holds the optional pair-pruning grid parameters.
type SpatialConfig struct {
	Enabled  bool    `yaml:"enabled"`
	CellSize float64 `yaml:"cell_size"` // 0 = derived
}

// RenderConfig holds colors and fill style. Colors are hex strings.
type RenderConfig struct {
	Fill       string   `yaml:"fill"`
	Gradient   []string `yaml:"gradient"`
	SolidColor string   `yaml:"solid_color"`
	Stroke     string   `yaml:"stroke"`
	Background string   `yaml:"background"`
	HueScale   float64  `yaml:"hue_scale"` // degrees of hue per pixel of x
}

// TerminalConfig maps surface pixels onto terminal cells.
type TerminalConfig struct {
	CellWidth  float64 `yaml:"cell_width"`
	CellHeight float64 `yaml:"cell_height"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	WindowTicks int `yaml:"window_ticks"`
	PerfWindow  int `yaml:"perf_window"`
}

// AudioConfig holds collision blip parameters.
type AudioConfig struct {
	Frequency     float64 `yaml:"frequency"`
	DurationMS    int     `yaml:"duration_ms"`
	MinIntervalMS int     `yaml:"min_interval_ms"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	MaxRadius    float64 // upper bound of the radius range
	Placement    string  // resolved placement policy
	GridCellSize float64 // effective spatial grid cell size
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
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

	if err := cfg.Resolve(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Resolve validates the config and recomputes derived values. Callers that
// edit a loaded Config must call it again before use.
func (c *Config) Resolve() error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	c.computeDerived()
	return nil
}

// Defaults returns the embedded default configuration.
func Defaults() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	cfg.computeDerived()
	return cfg, nil
}

// Validate reports every out-of-range parameter.
func (c *Config) Validate() error {
	var errs []error
	p := c.Particles
	if p.Count < 1 {
		errs = append(errs, fmt.Errorf("particles.count must be positive, got %d", p.Count))
	}
	if p.MinRadius <= 0 {
		errs = append(errs, fmt.Errorf("particles.min_radius must be positive, got %g", p.MinRadius))
	}
	if p.RadiusJitter < 0 {
		errs = append(errs, fmt.Errorf("particles.radius_jitter must not be negative, got %g", p.RadiusJitter))
	}
	if p.VelocityRange < 0 || p.VelocityBias < 0 {
		errs = append(errs, fmt.Errorf("particles velocity range and bias must not be negative"))
	}
	switch p.Placement {
	case PlacementAuto, PlacementUnconstrained, PlacementNonOverlapping:
	default:
		errs = append(errs, fmt.Errorf("unknown particles.placement %q", p.Placement))
	}
	if p.MaxPlacementAttempts < 1 {
		errs = append(errs, fmt.Errorf("particles.max_placement_attempts must be positive, got %d", p.MaxPlacementAttempts))
	}
	if c.Links.MaxDistance <= 0 {
		errs = append(errs, fmt.Errorf("links.max_distance must be positive, got %g", c.Links.MaxDistance))
	}
	if c.Pointer.Enabled && c.Pointer.InfluenceRadius <= 0 {
		errs = append(errs, fmt.Errorf("pointer.influence_radius must be positive, got %g", c.Pointer.InfluenceRadius))
	}
	if c.Spatial.CellSize < 0 {
		errs = append(errs, fmt.Errorf("spatial.cell_size must not be negative, got %g", c.Spatial.CellSize))
	}
	switch c.Render.Fill {
	case FillGradient, FillHue, FillSolid:
	default:
		errs = append(errs, fmt.Errorf("unknown render.fill %q", c.Render.Fill))
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.MaxRadius = c.Particles.MinRadius + c.Particles.RadiusJitter

	c.Derived.Placement = c.Particles.Placement
	if c.Derived.Placement == PlacementAuto {
		c.Derived.Placement = PlacementUnconstrained
		if c.Collision.Enabled {
			c.Derived.Placement = PlacementNonOverlapping
		}
	}

	// A cell must span both the link distance and a touching pair so that
	// every interacting pair sits in adjacent cells.
	c.Derived.GridCellSize = c.Spatial.CellSize
	if c.Derived.GridCellSize == 0 {
		c.Derived.GridCellSize = math.Max(c.Links.MaxDistance, 2*c.Derived.MaxRadius+1)
	}
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
