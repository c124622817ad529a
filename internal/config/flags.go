package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagScenario = flag.String("scenario", "", "Scenario file (.yaml, .yml or .toml)")
	flagFPS      = flag.Int("fps", 0, "Simulation frames per second")
	flagDuration = flag.Float64("duration", 0, "Simulated seconds")
	flagWidth    = flag.Int("width", 0, "Render target width for aspect sync")
	flagHeight   = flag.Int("height", 0, "Render target height for aspect sync")
	flagTrace    = flag.String("trace", "", "Trace output path (- for stdout)")
	flagEvery    = flag.Int("every", 0, "Record every Nth frame")
	flagWatch    = flag.Bool("watch", false, "Re-run when the scenario file changes")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagScenario != "" {
		cfg.Scenario.Path = *flagScenario
	} else if flag.NArg() > 0 {
		cfg.Scenario.Path = flag.Arg(0)
	}
	if *flagFPS > 0 {
		cfg.Simulation.FPS = *flagFPS
	}
	if *flagDuration > 0 {
		cfg.Simulation.Duration = float32(*flagDuration)
	}
	if *flagWidth > 0 {
		cfg.Simulation.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Simulation.Height = *flagHeight
	}
	if *flagTrace != "" {
		cfg.Output.TracePath = *flagTrace
	}
	if *flagEvery > 0 {
		cfg.Output.Every = *flagEvery
	}
	if *flagWatch {
		cfg.Scenario.Watch = true
	}
}
