// Package config loads the optional YAML run configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"cal2gutenprint/internal/accumulate"
	"cal2gutenprint/internal/calfile"
	"cal2gutenprint/internal/estimate"
)

// Config is the complete run configuration. Absent fields keep their
// defaults, so a config file only needs the values it changes.
type Config struct {
	Update     UpdateConfig     `yaml:"update"`
	Heuristics HeuristicsConfig `yaml:"heuristics"`
	Blocks     BlocksConfig     `yaml:"blocks"`
}

// UpdateConfig selects the accumulator behavior.
type UpdateConfig struct {
	// Policy is "smoothing" or "multiplicative".
	Policy string `yaml:"policy"`
	// Alpha is the smoothing factor in (0,1].
	Alpha float64 `yaml:"alpha"`
}

// HeuristicsConfig overrides the tuned estimator constants.
type HeuristicsConfig struct {
	Eps                  float64 `yaml:"eps"`
	FitLow               float64 `yaml:"fit_low"`
	FitHigh              float64 `yaml:"fit_high"`
	DarkZoneFactor       float64 `yaml:"dark_zone_factor"`
	LightZoneOffset      float64 `yaml:"light_zone_offset"`
	HighlightLimit       float64 `yaml:"highlight_limit"`
	HighlightSensitivity float64 `yaml:"highlight_sensitivity"`
	ValueMin             float64 `yaml:"value_min"`
	ValueMax             float64 `yaml:"value_max"`
	SaturationTail       float64 `yaml:"saturation_tail"`
	SaturationSlopeMin   float64 `yaml:"saturation_slope_min"`
	SaturatedDensity     float64 `yaml:"saturated_density"`
}

// BlocksConfig overrides the descriptor substrings that identify the two
// consumed blocks, for upstream tool versions with variant spellings.
type BlocksConfig struct {
	Curves     []string `yaml:"curves"`
	DEResponse []string `yaml:"de_response"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	h := estimate.DefaultHeuristics()
	p := calfile.DefaultBlockPatterns()
	return &Config{
		Update: UpdateConfig{
			Policy: accumulate.PolicySmoothing.String(),
			Alpha:  0.4,
		},
		Heuristics: HeuristicsConfig{
			Eps:                  h.Eps,
			FitLow:               h.FitLow,
			FitHigh:              h.FitHigh,
			DarkZoneFactor:       h.DarkZoneFactor,
			LightZoneOffset:      h.LightZoneOffset,
			HighlightLimit:       h.HighlightLimit,
			HighlightSensitivity: h.HighlightSensitivity,
			ValueMin:             h.ValueMin,
			ValueMax:             h.ValueMax,
			SaturationTail:       h.SaturationTail,
			SaturationSlopeMin:   h.SaturationSlopeMin,
			SaturatedDensity:     h.SaturatedDensity,
		},
		Blocks: BlocksConfig{
			Curves:     p.Curves,
			DEResponse: p.DEResponse,
		},
	}
}

// Load reads a YAML config file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and the policy name.
func (c *Config) Validate() error {
	if _, err := accumulate.ParsePolicy(c.Update.Policy); err != nil {
		return err
	}
	if c.Update.Alpha <= 0 || c.Update.Alpha > 1 {
		return fmt.Errorf("alpha must be in (0,1], got %g", c.Update.Alpha)
	}
	if c.Heuristics.FitLow >= c.Heuristics.FitHigh {
		return fmt.Errorf("fit_low %g must be below fit_high %g",
			c.Heuristics.FitLow, c.Heuristics.FitHigh)
	}
	if c.Heuristics.ValueMin >= c.Heuristics.ValueMax {
		return fmt.Errorf("value_min %g must be below value_max %g",
			c.Heuristics.ValueMin, c.Heuristics.ValueMax)
	}
	if len(c.Blocks.Curves) == 0 || len(c.Blocks.DEResponse) == 0 {
		return fmt.Errorf("block pattern lists must not be empty")
	}
	return nil
}

// Updater builds the accumulator updater from the config.
func (c *Config) Updater() accumulate.Updater {
	policy, _ := accumulate.ParsePolicy(c.Update.Policy)
	return accumulate.Updater{Policy: policy, Alpha: c.Update.Alpha}
}

// EstimatorHeuristics builds the estimator constants from the config.
func (c *Config) EstimatorHeuristics() estimate.Heuristics {
	h := c.Heuristics
	return estimate.Heuristics{
		Eps:                  h.Eps,
		FitLow:               h.FitLow,
		FitHigh:              h.FitHigh,
		DarkZoneFactor:       h.DarkZoneFactor,
		LightZoneOffset:      h.LightZoneOffset,
		HighlightLimit:       h.HighlightLimit,
		HighlightSensitivity: h.HighlightSensitivity,
		ValueMin:             h.ValueMin,
		ValueMax:             h.ValueMax,
		SaturationTail:       h.SaturationTail,
		SaturationSlopeMin:   h.SaturationSlopeMin,
		SaturatedDensity:     h.SaturatedDensity,
	}
}

// BlockPatterns builds the parser patterns from the config.
func (c *Config) BlockPatterns() calfile.BlockPatterns {
	return calfile.BlockPatterns{
		Curves:     c.Blocks.Curves,
		DEResponse: c.Blocks.DEResponse,
	}
}
