package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/trackrate/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := int(cmd.Int("port")); port != 0 {
		cfg.Port = port
	}

	svc, err := r.service(ctx)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, svc, r.logger)
	r.writePlain("Serving on http://%s (ctrl+c to stop)\n", srv.Addr())
	return srv.ListenAndServe(ctx)
}
