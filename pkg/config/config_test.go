package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
	if cfg.Dialect != "spice" {
		t.Errorf("default dialect = %q, want spice", cfg.Dialect)
	}
	if cfg.MaxRefinementRounds != 10 {
		t.Errorf("default rounds = %d, want 10", cfg.MaxRefinementRounds)
	}
	if cfg.RewireConfidenceThreshold != 0.6 {
		t.Errorf("default rewire threshold = %f, want 0.6", cfg.RewireConfidenceThreshold)
	}
}

func TestValidateTagErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad dialect", func(c *Config) { c.Dialect = "verilog" }, "Dialect"},
		{"missing dialect", func(c *Config) { c.Dialect = "" }, "required"},
		{"zero rounds", func(c *Config) { c.MaxRefinementRounds = 0 }, "minimum"},
		{"excessive rounds", func(c *Config) { c.MaxRefinementRounds = 5000 }, "maximum"},
		{"threshold above one", func(c *Config) { c.RewireConfidenceThreshold = 1.5 }, "maximum"},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "minimum"},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation failure")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestValidateCrossField(t *testing.T) {
	cfg := Default()
	cfg.Workers = MaxWorkers + 1
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "workers") {
		t.Errorf("oversized worker count not rejected: %v", err)
	}

	cfg = Default()
	cfg.StepBudget = 3 // below the 10-round cap
	err = cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "step_budget") {
		t.Errorf("undersized step budget not rejected: %v", err)
	}

	cfg = Default()
	cfg.StepBudget = 100000
	if err := cfg.Validate(); err != nil {
		t.Errorf("generous step budget rejected: %v", err)
	}
}

func TestLoadOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	yaml := `dialect: tabular
strict: true
max_refinement_rounds: 25
rewire_confidence_threshold: 0.8
workers: 2
log_level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Dialect != "tabular" || !cfg.Strict {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.MaxRefinementRounds != 25 || cfg.RewireConfidenceThreshold != 0.8 {
		t.Errorf("numeric overrides not applied: %+v", cfg)
	}
	if cfg.Workers != 2 || cfg.LogLevel != "debug" {
		t.Errorf("worker/log overrides not applied: %+v", cfg)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	if err := os.WriteFile(path, []byte("dialect: verilog\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("invalid dialect in file not rejected")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file not reported")
	}
}

func TestEffectiveWorkers(t *testing.T) {
	cfg := Default()
	if got := cfg.EffectiveWorkers(); got < 1 {
		t.Errorf("EffectiveWorkers() = %d with zero config, want >= 1", got)
	}
	cfg.Workers = 7
	if got := cfg.EffectiveWorkers(); got != 7 {
		t.Errorf("EffectiveWorkers() = %d, want 7", got)
	}
}
