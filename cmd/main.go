package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotzip/internal/shared"
	"github.com/urfave/cli/v3"
)

// startupConfig loads the config file from the working directory when one
// is present, falling back to the embedded defaults. A file that exists
// but cannot be loaded is reported and skipped, never silently swallowed.
func startupConfig(logger *log.Logger, path string) *shared.Config {
	config, err := shared.LoadConfig(path)
	if err == nil {
		return config
	}
	if !errors.Is(err, shared.ErrMissingConfig) {
		logger.Warn("ignoring config file", "path", path, "error", err)
	}
	return shared.DefaultConfig()
}

func main() {
	logger := shared.NewLogger(nil)
	if os.Getenv("SPOTZIP_DEBUG") != "" {
		shared.SetLogLevel(logger, log.DebugLevel)
	}

	runner := NewRunner(RunnerOpts{
		Config: startupConfig(logger, "config.toml"),
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "spotzip",
		Usage:    "Export Spotify playlists as zip archives of JSON documents",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
