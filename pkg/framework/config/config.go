// Package config loads the relay configuration: logging, bridge behaviour,
// the visualizer feed and an optional parameter layout.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/justyntemme/paramrelay/pkg/framework/debug"
)

// Version is the current config schema version.
const Version = 1

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Parameter kinds accepted in a layout.
const (
	KindSlider = "slider"
	KindToggle = "toggle"
	KindChoice = "choice"
)

// Config is the top level configuration.
type Config struct {
	Version    int              `toml:"version" yaml:"version" json:"version"`
	Log        LogConfig        `toml:"log" yaml:"log" json:"log"`
	Bridge     BridgeConfig     `toml:"bridge" yaml:"bridge" json:"bridge"`
	Visualizer VisualizerConfig `toml:"visualizer" yaml:"visualizer" json:"visualizer"`
	// Parameters overrides the built-in layout when non-empty.
	Parameters []ParameterSpec `toml:"parameters" yaml:"parameters" json:"parameters"`
}

// LogConfig controls the debug logger.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level" json:"level"`
	Prefix string `toml:"prefix" yaml:"prefix" json:"prefix"`
	// File, when set, sends log output to a file instead of stderr.
	File string `toml:"file" yaml:"file" json:"file"`
}

// BridgeConfig controls the host relay.
type BridgeConfig struct {
	// InWebView is what the relay reports to adapters. Set it to false to
	// run the UI against defaults, as a browser preview would.
	InWebView bool `toml:"in_webview" yaml:"in_webview" json:"in_webview"`
	Visible   bool `toml:"visible" yaml:"visible" json:"visible"`
}

// VisualizerConfig controls the telemetry publisher.
type VisualizerConfig struct {
	RateHz     float64 `toml:"rate_hz" yaml:"rate_hz" json:"rate_hz"`
	SampleRate float64 `toml:"sample_rate" yaml:"sample_rate" json:"sample_rate"`
	BlockSize  int     `toml:"block_size" yaml:"block_size" json:"block_size"`
}

// ParameterSpec describes one host parameter. Min, Max and Default are
// plain values; for choices Default is an index.
type ParameterSpec struct {
	ID      string   `toml:"id" yaml:"id" json:"id"`
	Name    string   `toml:"name" yaml:"name" json:"name"`
	Kind    string   `toml:"kind" yaml:"kind" json:"kind"`
	Min     float64  `toml:"min" yaml:"min" json:"min"`
	Max     float64  `toml:"max" yaml:"max" json:"max"`
	Default float64  `toml:"default" yaml:"default" json:"default"`
	Unit    string   `toml:"unit" yaml:"unit" json:"unit"`
	Choices []string `toml:"choices" yaml:"choices" json:"choices"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Version: Version,
		Log: LogConfig{
			Level:  "info",
			Prefix: "paramrelay",
		},
		Bridge: BridgeConfig{
			InWebView: true,
			Visible:   true,
		},
		Visualizer: VisualizerConfig{
			RateHz:     30,
			SampleRate: 48000,
			BlockSize:  512,
		},
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Parameters = make([]ParameterSpec, len(c.Parameters))
	for i, p := range c.Parameters {
		p.Choices = append([]string(nil), p.Choices...)
		out.Parameters[i] = p
	}
	return &out
}

// ApplyEnvOverrides applies PARAMRELAY_* environment variables. Malformed
// values are ignored.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("PARAMRELAY_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PARAMRELAY_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("PARAMRELAY_IN_WEBVIEW"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Bridge.InWebView = b
		}
	}
	if v := os.Getenv("PARAMRELAY_VISUALIZER_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Visualizer.RateHz = f
		}
	}
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.Version < 1 || c.Version > Version {
		errs = append(errs, fmt.Errorf("unsupported version %d", c.Version))
	}
	if _, err := debug.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Visualizer.RateHz <= 0 || c.Visualizer.RateHz > 240 {
		errs = append(errs, fmt.Errorf("visualizer.rate_hz must be in (0, 240], got %g", c.Visualizer.RateHz))
	}
	if c.Visualizer.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("visualizer.sample_rate must be positive, got %g", c.Visualizer.SampleRate))
	}
	if c.Visualizer.BlockSize <= 0 {
		errs = append(errs, fmt.Errorf("visualizer.block_size must be positive, got %d", c.Visualizer.BlockSize))
	}

	seen := make(map[string]bool, len(c.Parameters))
	for i, p := range c.Parameters {
		if err := p.validate(); err != nil {
			errs = append(errs, fmt.Errorf("parameters[%d]: %w", i, err))
			continue
		}
		if seen[p.ID] {
			errs = append(errs, fmt.Errorf("parameters[%d]: duplicate id %q", i, p.ID))
		}
		seen[p.ID] = true
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

func (p ParameterSpec) validate() error {
	if p.ID == "" {
		return errors.New("empty id")
	}
	switch p.Kind {
	case KindSlider, "":
		if p.Max <= p.Min {
			return fmt.Errorf("%s: max %g must exceed min %g", p.ID, p.Max, p.Min)
		}
		if p.Default < p.Min || p.Default > p.Max {
			return fmt.Errorf("%s: default %g outside [%g, %g]", p.ID, p.Default, p.Min, p.Max)
		}
	case KindToggle:
	case KindChoice:
		if len(p.Choices) == 0 {
			return fmt.Errorf("%s: choice parameter without choices", p.ID)
		}
		if p.Default < 0 || int(p.Default) >= len(p.Choices) {
			return fmt.Errorf("%s: default index %g outside choices", p.ID, p.Default)
		}
	default:
		return fmt.Errorf("%s: unknown kind %q", p.ID, p.Kind)
	}
	return nil
}
