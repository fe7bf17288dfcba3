package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/rhuss/restapp/pkg/router"
)

const routesDescription = `Print the registered route table and exit.

The table is built with in-memory storage and rate limiting so that no
database or Redis connection is needed.`

func routesCommand() *cli.Command {
	return &cli.Command{
		Name:        "routes",
		Usage:       "print the route table",
		Description: routesDescription,
		Action:      printRoutes,
	}
}

func printRoutes(c *cli.Context) error {
	cfg, err := configFromContext(c.Context)
	if err != nil {
		return err
	}
	offline := *cfg
	offline.Storage.Type = "memory"
	offline.Auth.RateLimit.Backend = "memory"

	app, err := newApplication(c.Context, &offline, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		return err
	}
	defer app.Close()

	return writeRoutes(c.App.Writer, app.dispatcher.Routes())
}

func writeRoutes(w io.Writer, routes []router.RouteInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH\tBINDINGS\tPROTECTION")
	for _, r := range routes {
		bindings := strings.Join(r.Bindings, ",")
		if bindings == "" {
			bindings = "-"
		}
		protection := r.Protection
		if protection == "" {
			protection = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Method, r.Path, bindings, protection)
	}
	return tw.Flush()
}
