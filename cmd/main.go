package main

import (
	"context"
	"os"

	"github.com/desertthunder/trackrate/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnvFile(".env"); err != nil {
		logger.Warn("ignoring env file", "error", err)
	}

	configPath, required := defaultConfigPath, false
	if p, ok := os.LookupEnv("TRACKRATE_CONFIG"); ok && p != "" {
		configPath, required = p, true
	}

	config, err := shared.ResolveConfig(configPath, required)
	if err != nil {
		logger.Fatal("failed to load config", "path", configPath, "error", err)
	}

	if err := config.ApplyEnv(); err != nil {
		logger.Fatal("invalid environment", "error", err)
	}
	if err := shared.ApplyLogLevel(logger, config.Log.Level); err != nil {
		logger.Fatal("invalid log level", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "trackrate",
		Usage:    "Browse and review tracks in the music review store",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		runner.Close()
		logger.Fatalf("application error: %v", err)
	}
}
