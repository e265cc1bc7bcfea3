package main

import (
	"context"

	"github.com/desertthunder/libratech/internal/library"
	"github.com/desertthunder/libratech/internal/server"
	"github.com/desertthunder/libratech/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the JSON API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command, lib *library.Store) error {
	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	limiter := server.NewClientRateLimiter(r.config.Server.RateLimit, r.config.Server.Burst)
	logger := shared.WithLogger(r.logger, "component", "http")
	handler := server.NewHandler(lib, logger, limiter)
	return server.Serve(ctx, addr, handler, logger)
}
