package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked for in the working and config directories.
const FileName = "camsim.yaml"

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	// Explicit path takes priority
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./" + FileName,
		filepath.Join(ConfigDir(), FileName),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "MidgardVCam")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "MidgardVCam")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "midgard-vcam")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "midgard-vcam")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
// Relative scenario and trace paths named in the file are resolved against
// the file's directory; paths from flags stay relative to the working
// directory.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}

	var named struct {
		Scenario struct {
			Path string `yaml:"path"`
		} `yaml:"scenario"`
		Output struct {
			TracePath string `yaml:"trace_path"`
		} `yaml:"output"`
	}
	if err := yaml.Unmarshal(data, &named); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if named.Scenario.Path != "" {
		cfg.Scenario.Path = resolvePath(dir, named.Scenario.Path)
	}
	if named.Output.TracePath != "" && named.Output.TracePath != "-" {
		cfg.Output.TracePath = resolvePath(dir, named.Output.TracePath)
	}
	return nil
}

func resolvePath(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
