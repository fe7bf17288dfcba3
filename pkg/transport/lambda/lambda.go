// Package lambda serves the HTTP transport from AWS Lambda. Lambda proxy
// events are converted to net/http requests, served by the same handler
// as the standalone server and converted back into proxy responses.
package lambda

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
)

// ProxySource is the kind of AWS event that invokes the function.
type ProxySource string

const (
	// ProxySourceAPIGatewayV1 is an API Gateway REST (v1) proxy event.
	ProxySourceAPIGatewayV1 ProxySource = "API_GW_V1"
	// ProxySourceAPIGatewayV2 is an API Gateway HTTP (v2) proxy event.
	ProxySourceAPIGatewayV2 ProxySource = "API_GW_V2"
	// ProxySourceALB is an Application Load Balancer target group event.
	ProxySourceALB ProxySource = "ALB"
)

func (p ProxySource) String() string {
	return string(p)
}

// ParseProxySource parses a proxy source name (case-insensitive).
func ParseProxySource(s string) (ProxySource, error) {
	switch src := ProxySource(strings.ToUpper(strings.TrimSpace(s))); src {
	case ProxySourceAPIGatewayV1, ProxySourceAPIGatewayV2, ProxySourceALB:
		return src, nil
	default:
		return "", fmt.Errorf("invalid proxy source: %q (expected API_GW_V1, API_GW_V2 or ALB)", s)
	}
}

// Handler runs an http.Handler as a Lambda function.
type Handler struct {
	handler http.Handler
	source  ProxySource
	logger  *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) { h.logger = l }
}

// New creates a Lambda handler serving h for events of the given source.
func New(h http.Handler, source ProxySource, opts ...Option) *Handler {
	lh := &Handler{
		handler: h,
		source:  source,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(lh)
	}
	return lh
}

// Start runs the Lambda runtime client. It blocks until ctx is cancelled
// or the runtime terminates the process.
func (h *Handler) Start(ctx context.Context) error {
	fn, err := h.ProxyFunction()
	if err != nil {
		return err
	}

	h.logger.Info("starting AWS Lambda handler", slog.String("proxy_source", h.source.String()))
	lambda.StartWithOptions(fn, lambda.WithContext(ctx))
	return nil
}

// ProxyFunction returns the event handler for the configured source. The
// concrete type depends on the source, for example
// func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)
// for API Gateway v1.
func (h *Handler) ProxyFunction() (any, error) {
	switch h.source {
	case ProxySourceAPIGatewayV1:
		return httpadapter.New(h.handler).ProxyWithContext, nil
	case ProxySourceAPIGatewayV2:
		return httpadapter.NewV2(h.handler).ProxyWithContext, nil
	case ProxySourceALB:
		return httpadapter.NewALB(h.handler).ProxyWithContext, nil
	default:
		return nil, fmt.Errorf("invalid proxy source: %s", h.source)
	}
}
