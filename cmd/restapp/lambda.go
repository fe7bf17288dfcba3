package main

import (
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/rhuss/restapp/pkg/transport/lambda"
)

const lambdaDescription = `Run the application as an AWS Lambda function.

Requests arrive as API Gateway or ALB proxy events and are converted to
HTTP requests for the same handler the serve command uses. Valid proxy
sources are API_GW_V1, API_GW_V2 and ALB.`

func lambdaCommand() *cli.Command {
	return &cli.Command{
		Name:        "lambda",
		Usage:       "run as an AWS Lambda function",
		Description: lambdaDescription,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "lambda-proxy-source",
				Usage:    "the Lambda event source. Options: API_GW_V1, API_GW_V2, ALB",
				EnvVars:  []string{"LAMBDA_PROXY_SOURCE"},
				Category: "lambda",
			},
		},
		Action: runLambda,
	}
}

func runLambda(c *cli.Context) error {
	cfg, err := configFromContext(c.Context)
	if err != nil {
		return err
	}
	if c.IsSet("lambda-proxy-source") {
		cfg.Lambda.ProxySource = c.String("lambda-proxy-source")
	}

	source, err := lambda.ParseProxySource(cfg.Lambda.ProxySource)
	if err != nil {
		return err
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
	return lambda.New(server.Handler(), source, lambda.WithLogger(logger)).Start(c.Context)
}
