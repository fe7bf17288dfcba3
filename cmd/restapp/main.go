// Command restapp runs the example REST application.
//
// The serve command starts an HTTP server, the lambda command runs the
// same application as an AWS Lambda function and the routes command
// prints the route table.
//
// Configuration is read from a YAML file and RESTAPP_* environment
// variables; see pkg/config.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var (
	Version   string
	Buildtime string
	Commit    string
)

func main() {
	appVersion := "local"
	if Version != "" {
		appVersion = Version
	}

	appBuildtime, _ := time.Parse(time.RFC3339, Buildtime)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, newCLI(appVersion, appBuildtime), os.Args)
	stop()
	os.Exit(code)
}
