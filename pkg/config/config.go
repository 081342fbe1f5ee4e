// Package config holds the engine configuration: parse dialect, refinement
// bounds, and diff thresholds. Configs load from YAML and validate with
// struct tags plus cross-field checks.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config is the full engine configuration. The zero value is not usable;
// start from Default().
type Config struct {
	// Dialect selects the netlist syntax: "spice" or "tabular".
	Dialect string `yaml:"dialect" validate:"required,oneof=spice tabular"`
	// Strict makes unknown device types fatal parse errors instead of
	// degraded opaque devices.
	Strict bool `yaml:"strict"`
	// ExpandSubcircuits instantiates .subckt bodies into inner graphs.
	ExpandSubcircuits bool `yaml:"expand_subcircuits"`

	// MaxRefinementRounds caps color refinement.
	MaxRefinementRounds int `yaml:"max_refinement_rounds" validate:"min=1,max=1000"`
	// StepBudget, when positive, bounds total refinement work for
	// pathologically large inputs; exceeded budgets yield results flagged
	// as unstabilized rather than blocking.
	StepBudget int `yaml:"step_budget" validate:"min=0"`

	// RewireConfidenceThreshold is the rewire-versus-add/remove tie-break.
	RewireConfidenceThreshold float64 `yaml:"rewire_confidence_threshold" validate:"min=0,max=1"`

	// Workers sizes the batch comparison pool. Zero means NumCPU.
	Workers int `yaml:"workers" validate:"min=0"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// Default returns the documented engine defaults.
func Default() Config {
	return Config{
		Dialect:                   "spice",
		MaxRefinementRounds:       10,
		RewireConfidenceThreshold: 0.6,
		LogLevel:                  "info",
	}
}

// Load reads a YAML config file over the defaults and validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// EffectiveWorkers resolves the worker count, defaulting to NumCPU.
func (c Config) EffectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
