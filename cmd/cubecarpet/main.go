// Package main is the entry point for the cube carpet viewer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/Faultbox/cubecarpet/internal/app"
	"github.com/Faultbox/cubecarpet/internal/app/desktop"
	"github.com/Faultbox/cubecarpet/internal/config"
	"github.com/Faultbox/cubecarpet/internal/logger"
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

	logger.Info("=== Cube Carpet ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("cubecarpet failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("closed normally")
}

func run(cfg *config.Config) error {
	if cfg.Headless {
		report, err := app.RunHeadless(cfg, cfg.Frames)
		if err != nil {
			return fmt.Errorf("headless run: %w", err)
		}
		fmt.Printf("%d frames, depth %d: %d cubes, %d vertices, %d failed\n",
			report.Frames, report.Depth, report.Cubes, report.Vertices, report.Failed)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	d, err := desktop.New(cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	return d.Run(ctx)
}
