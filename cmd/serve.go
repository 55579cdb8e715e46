package main

import (
	"context"

	"github.com/desertthunder/deepdive/internal/server"
	"github.com/desertthunder/deepdive/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the content query handlers over the REST API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := int(cmd.Int("port")); port != 0 {
		cfg.Port = port
	}

	// The handlers are the hosted functions, so they must not call back into them.
	content := r.newContentService(true)

	srv := server.New(cfg, content, shared.WithLogger(r.logger, "component", "server"))
	for _, route := range srv.Routes() {
		r.logger.Debug("route", "pattern", route)
	}
	return srv.ListenAndServe(ctx)
}
