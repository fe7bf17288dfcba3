package main

import (
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/rhuss/restapp/pkg/config"
	transporthttp "github.com/rhuss/restapp/pkg/transport/http"
)

const serveDescription = `Start an HTTP server on the configured port.

The server answers /healthz from the storage health check and, when
metrics are enabled, exposes Prometheus metrics on the configured path.
It shuts down gracefully on SIGINT or SIGTERM.`

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:        "serve",
		Usage:       "start the HTTP server",
		Description: serveDescription,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "port",
				Aliases:  []string{"P"},
				Usage:    "the port to listen on; overrides server.port",
				EnvVars:  []string{"HTTP_PORT"},
				Category: "server",
			},
			&cli.BoolFlag{
				Name:     "h2c",
				Usage:    "accept HTTP/2 without TLS",
				Category: "server",
			},
		},
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	cfg, err := configFromContext(c.Context)
	if err != nil {
		return err
	}
	if c.IsSet("port") {
		cfg.Server.Port = c.Int("port")
	}
	if c.IsSet("h2c") {
		cfg.Server.H2C = c.Bool("h2c")
	}

	logger := slog.Default()
	app, err := newApplication(c.Context, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("closing application resources", "error", err)
		}
	}()

	server := newServer(app, cfg, logger)
	return server.ListenAndServeContext(c.Context)
}

// newServer builds the HTTP server for app from cfg.Server and
// cfg.Observability.
func newServer(app *application, cfg *config.Config, logger *slog.Logger) *transporthttp.Server {
	opts := []transporthttp.ServerOption{
		transporthttp.WithAddr(fmt.Sprintf(":%d", cfg.Server.Port)),
		transporthttp.WithMaxBodySize(cfg.Server.MaxBodySize),
		transporthttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		transporthttp.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		transporthttp.WithH2C(cfg.Server.H2C),
		transporthttp.WithHealthCheck(app.store.HealthCheck),
		transporthttp.WithLogger(logger),
	}
	if cfg.Observability.Metrics.Enabled {
		opts = append(opts, transporthttp.WithMetrics(cfg.Observability.Metrics.Path))
	}
	return transporthttp.NewServer(app.dispatcher, opts...)
}
