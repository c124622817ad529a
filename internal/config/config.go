// Package config handles camsim configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// Config holds all simulator settings.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Scenario   ScenarioConfig   `yaml:"scenario"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// SimulationConfig holds the fixed-step clock and render target size.
type SimulationConfig struct {
	FPS            int     `yaml:"fps"`
	Duration       float32 `yaml:"duration"` // seconds
	Width          int     `yaml:"width"`    // 0 keeps the scenario's viewport
	Height         int     `yaml:"height"`
	EagerSelection bool    `yaml:"eager_selection"`
}

// ScenarioConfig selects the scenario file.
type ScenarioConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"` // re-run when the file changes
}

// OutputConfig controls trace output.
type OutputConfig struct {
	TracePath string `yaml:"trace_path"` // empty or "-" writes to stdout
	Every     int    `yaml:"every"`      // record every Nth frame
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			FPS:      60,
			Duration: 5,
		},
		Scenario: ScenarioConfig{
			Path: "scenario.yaml",
		},
		Output: OutputConfig{
			TracePath: "-",
			Every:     1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings that cannot be run.
func (c *Config) Validate() error {
	var err error
	if c.Simulation.FPS <= 0 {
		err = multierr.Append(err, fmt.Errorf("simulation.fps must be positive, got %d", c.Simulation.FPS))
	}
	if c.Simulation.Duration < 0 {
		err = multierr.Append(err, fmt.Errorf("simulation.duration must not be negative, got %g", c.Simulation.Duration))
	}
	if (c.Simulation.Width > 0) != (c.Simulation.Height > 0) {
		err = multierr.Append(err, errors.New("simulation.width and simulation.height must be set together"))
	}
	if c.Output.Every < 0 {
		err = multierr.Append(err, fmt.Errorf("output.every must not be negative, got %d", c.Output.Every))
	}
	if c.Scenario.Path == "" {
		err = multierr.Append(err, errors.New("scenario.path is required"))
	}
	return err
}
