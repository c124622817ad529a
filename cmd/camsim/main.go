// Package main is the entry point for camsim, the headless virtual camera
// simulator.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-vcam/internal/config"
	"github.com/Faultbox/midgard-vcam/internal/logger"
	"github.com/Faultbox/midgard-vcam/internal/rig"
	"github.com/Faultbox/midgard-vcam/internal/scenario"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== camsim ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Scenario.Watch {
		err = watch(ctx, cfg)
	} else {
		err = run(ctx, cfg)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("camsim failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("camsim finished")
}

// run loads the scenario, plays it and writes the trace.
func run(ctx context.Context, cfg *config.Config) error {
	sc, err := scenario.Load(cfg.Scenario.Path)
	if err != nil {
		return err
	}
	if cfg.Simulation.Width > 0 && cfg.Simulation.Height > 0 {
		sc.Viewport.Width = cfg.Simulation.Width
		sc.Viewport.Height = cfg.Simulation.Height
	}

	var rigOpts []rig.Option
	if cfg.Simulation.EagerSelection {
		rigOpts = append(rigOpts, rig.WithEagerSelection())
	}

	trace, err := sc.Run(ctx, scenario.RunOptions{
		FPS:      cfg.Simulation.FPS,
		Duration: cfg.Simulation.Duration,
		Every:    cfg.Output.Every,
	}, rigOpts...)
	if err != nil {
		return fmt.Errorf("run %s: %w", sc.Name, err)
	}

	logger.Info("scenario complete",
		zap.String("scenario", sc.Name),
		zap.Int("frames", len(trace.Frames)),
		zap.Int("events", len(trace.Events)))

	if cfg.Output.TracePath == "" || cfg.Output.TracePath == "-" {
		return trace.WriteYAML(os.Stdout)
	}
	if err := trace.Save(cfg.Output.TracePath); err != nil {
		return err
	}
	logger.Info("trace written", zap.String("path", cfg.Output.TracePath))
	return nil
}

// watch re-runs the scenario each time the file changes. A failed run is
// logged and the watcher keeps going.
func watch(ctx context.Context, cfg *config.Config) error {
	w, err := scenario.NewWatcher(cfg.Scenario.Path)
	if err != nil {
		return fmt.Errorf("watch %s: %w", cfg.Scenario.Path, err)
	}
	defer w.Close()

	if err := run(ctx, cfg); err != nil {
		logger.Warn("run failed", zap.Error(err))
	}
	logger.Info("watching for changes", zap.String("path", cfg.Scenario.Path))

	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			logger.Info("scenario changed", zap.String("path", path))
			if err := run(ctx, cfg); err != nil {
				logger.Warn("run failed", zap.Error(err))
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}
