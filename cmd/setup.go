package main

import (
	"context"
	"fmt"
	"net/url"

	"github.com/desertthunder/trackrate/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase connects to the configured database and runs the bootstrap migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Validate(); err != nil {
		return err
	}

	cfg := r.config.Database
	r.logger.Info("initializing database", "driver", cfg.Driver, "target", dbTarget(cfg))

	db, err := shared.Connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	versions, err := shared.AppliedMigrations(db)
	if err != nil {
		return err
	}

	r.logger.Info("setup complete", "driver", cfg.Driver, "target", dbTarget(cfg))
	return r.writePlain("✓ Database ready (%d migrations applied)\n", len(versions))
}

// SetupConfig writes the example configuration to the path given by --output.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Configuration written to %s\n", path)
	r.writePlain("Edit the [database] section, then run 'trackrate setup database'\n")
	return nil
}

// dbTarget names the database for logs without exposing credentials held in the DSN.
func dbTarget(cfg shared.DatabaseConfig) string {
	if cfg.Driver == shared.DriverSQLite {
		return cfg.DSN
	}
	if cfg.DSN == "" {
		return cfg.Host
	}
	u, err := url.Parse(cfg.DSN)
	if err != nil || u.Host == "" {
		return cfg.Driver
	}
	return u.Host
}
