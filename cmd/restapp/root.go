package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rhuss/restapp/pkg/config"
	"github.com/rhuss/restapp/pkg/debug"
	"github.com/rhuss/restapp/pkg/observability"
)

const (
	appName  = "restapp"
	appUsage = "A small REST application server with pluggable routes, middleware and storage."
)

type configKey struct{}

// contextWithConfig stores the loaded configuration for the commands.
func contextWithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// configFromContext returns the configuration loaded in Before.
func configFromContext(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok || cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	return cfg, nil
}

func newCLI(version string, compiled time.Time) *cli.App {
	var flushSentry func()

	return &cli.App{
		Name:            appName,
		Usage:           appUsage,
		Version:         version,
		Compiled:        compiled,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML configuration file.",
				EnvVars: []string{"RESTAPP_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "set the log level. Options: trace, debug, info, warn, error.",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			lambdaCommand(),
			routesCommand(),
		},
		Before: func(ctx *cli.Context) error {
			cfg, err := config.Load(ctx.String("config"))
			if err != nil {
				return err
			}

			if lvl := ctx.String("log-level"); lvl != "" {
				cfg.Logging.Level = lvl
			}
			debug.Init(cfg.Logging.Debug, cfg.Logging.Level)
			if cats := debug.Categories(); len(cats) > 0 {
				slog.Info("debug categories enabled", "categories", cats)
			}

			flushSentry, err = observability.InitSentry(observability.SentryConfig{
				DSN:         cfg.Observability.Sentry.DSN,
				Environment: cfg.Observability.Sentry.Environment,
				Release:     Commit,
				Debug:       cfg.Observability.Sentry.Debug,
			})
			if err != nil {
				return fmt.Errorf("sentry init failed: %w", err)
			}

			ctx.Context = contextWithConfig(ctx.Context, cfg)
			return nil
		},
		After: func(*cli.Context) error {
			if flushSentry != nil {
				flushSentry()
			}
			return nil
		},
	}
}

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:               "version",
		Usage:              "print the version",
		DisableDefaultText: true,
	}
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, app *cli.App, args []string) int {
	if err := app.RunContext(ctx, args); err != nil {
		slog.Error("restapp failed", "error", err)
		return 1
	}
	return 0
}
