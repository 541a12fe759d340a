package config

// #region imports
import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dawnfield/reflex-controller/internal/decision"
	"github.com/dawnfield/reflex-controller/internal/rebloomlog"
	"github.com/dawnfield/reflex-controller/internal/semantic"
	"github.com/dawnfield/reflex-controller/internal/state"
)

// #endregion imports

// #region types

// SignalConfig overrides one signal's tuning by name. Formulas stay in code;
// thresholds, weights, and mode overrides are configuration.
type SignalConfig struct {
	Name      string  `yaml:"name"`
	Threshold float32 `yaml:"threshold"`
	Weight    float32 `yaml:"weight"`
	Mode      string  `yaml:"mode"` // "", "clarify", "rephrase", "regenerate", "suppress"
}

// Config is the controller's file configuration.
type Config struct {
	LogPath      string `yaml:"log_path"`
	RegistryPath string `yaml:"registry_db"`

	Signals []SignalConfig `yaml:"signals"`

	FalteringCutoff      float32 `yaml:"faltering_cutoff"`
	FalteringMinSignals  int     `yaml:"faltering_min_signals"`
	EntropyFlagThreshold float32 `yaml:"entropy_flag_threshold"`

	DriftWindowSize int `yaml:"drift_window_size"`
	AuditMaxGaps    int `yaml:"audit_max_gaps"`
}

// #endregion types

// #region defaults

// Default returns the canonical configuration.
func Default() *Config {
	return &Config{
		LogPath:              rebloomlog.DefaultPath,
		RegistryPath:         "sigil_registry.db",
		FalteringCutoff:      0.7,
		FalteringMinSignals:  2,
		EntropyFlagThreshold: 0.7,
		DriftWindowSize:      5,
		AuditMaxGaps:         5,
	}
}

// #endregion defaults

// #region load

// Load reads a YAML config over the defaults. A missing file is not an
// error; it yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	for _, s := range c.Signals {
		if s.Name == "" {
			return fmt.Errorf("signal override with empty name")
		}
		if s.Mode != "" && !state.RebloomMode(s.Mode).Valid() {
			return fmt.Errorf("signal %s: unknown mode %q", s.Name, s.Mode)
		}
	}
	if c.FalteringMinSignals < 1 {
		return fmt.Errorf("faltering_min_signals must be at least 1")
	}
	return nil
}

// #endregion load

// #region apply

// SignalTable returns the default table with any configured overrides
// applied. Table order — and with it mode-override precedence — is fixed by
// the default table, not by the override list.
func (c *Config) SignalTable() semantic.SignalTable {
	table := semantic.DefaultTable()
	for i := range table {
		for _, override := range c.Signals {
			if override.Name != table[i].Name {
				continue
			}
			if override.Threshold > 0 {
				table[i].Threshold = override.Threshold
			}
			if override.Weight > 0 {
				table[i].Weight = override.Weight
			}
			if override.Mode != "" {
				table[i].Mode = state.RebloomMode(override.Mode)
			}
		}
	}
	return table
}

// DecisionConfig maps the file config onto the decision layer's config.
func (c *Config) DecisionConfig() decision.Config {
	return decision.Config{
		FalteringCutoff:      c.FalteringCutoff,
		FalteringMinSignals:  c.FalteringMinSignals,
		EntropyFlagThreshold: c.EntropyFlagThreshold,
	}
}

// #endregion apply
