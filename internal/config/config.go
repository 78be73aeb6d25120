// Package config loads carecoord's process-level settings: feature flags,
// LLM timeouts, and file locations. It follows the teacher's
// internal/config/config.go shape (a typed struct with mapstructure/yaml
// tags, populated by viper, overridable by environment variables) but does
// not load per-module assessment JSON — that is moduleconfig's job, which
// needs schema-validation error kinds viper does not give us.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all process-level configuration for carecoord.
type Config struct {
	Features FeatureFlags  `mapstructure:"features" yaml:"features"`
	LLM      LLMConfig     `mapstructure:"llm" yaml:"llm"`
	Modules  ModulesConfig `mapstructure:"modules" yaml:"modules"`
}

// FeatureFlags are runtime toggles, every one off-safe (§4.10): each
// consumer has a deterministic behavior when its flag is off.
type FeatureFlags struct {
	LLMEnabled      bool `mapstructure:"llm_enabled" yaml:"llm_enabled"`
	LLMAdjudication bool `mapstructure:"llm_adjudication" yaml:"llm_adjudication"`
	LLMHours        bool `mapstructure:"llm_hours" yaml:"llm_hours"`
	DemoMode        bool `mapstructure:"demo_mode" yaml:"demo_mode"`
}

// LLMConfig controls the LLM Client Adapter's request shaping.
type LLMConfig struct {
	TimeoutSeconds  int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	ConfidenceFloor float64 `mapstructure:"confidence_floor" yaml:"confidence_floor"`
}

// Timeout returns the configured LLM timeout, defaulting to the spec's 15s.
func (c LLMConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ModulesConfig points at on-disk locations for module JSON and reference
// tables (regional costs, VA rates, tier base costs, add-on rules).
type ModulesConfig struct {
	Dir          string `mapstructure:"dir" yaml:"dir"`
	RegionalFile string `mapstructure:"regional_file" yaml:"regional_file"`
	VARatesFile  string `mapstructure:"va_rates_file" yaml:"va_rates_file"`
	CostFile     string `mapstructure:"cost_file" yaml:"cost_file"`
}

// Defaults returns a Config with off-safe feature flags and the spec's
// default timeout/confidence floor.
func Defaults() Config {
	return Config{
		Features: FeatureFlags{},
		LLM: LLMConfig{
			TimeoutSeconds:  15,
			ConfidenceFloor: 0.5,
		},
		Modules: ModulesConfig{
			Dir:          "internal/testdata/modules",
			RegionalFile: "internal/testdata/reference/regional_costs.json",
			VARatesFile:  "internal/testdata/reference/va_rates.json",
			CostFile:     "internal/testdata/reference/tier_costs.json",
		},
	}
}

// Load reads configuration from an optional YAML file at path (if non-empty
// and present) overlaid by CARECOORD_* environment variables, falling back
// to Defaults() for anything unset.
func Load(path string) (Config, error) {
	cfg := Defaults()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("CARECOORD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("features.llm_enabled", cfg.Features.LLMEnabled)
	v.SetDefault("features.llm_adjudication", cfg.Features.LLMAdjudication)
	v.SetDefault("features.llm_hours", cfg.Features.LLMHours)
	v.SetDefault("features.demo_mode", cfg.Features.DemoMode)
	v.SetDefault("llm.timeout_seconds", cfg.LLM.TimeoutSeconds)
	v.SetDefault("llm.confidence_floor", cfg.LLM.ConfidenceFloor)
	v.SetDefault("modules.dir", cfg.Modules.Dir)
	v.SetDefault("modules.regional_file", cfg.Modules.RegionalFile)
	v.SetDefault("modules.va_rates_file", cfg.Modules.VARatesFile)
	v.SetDefault("modules.cost_file", cfg.Modules.CostFile)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
				return cfg, err
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
