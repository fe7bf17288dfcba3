package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rhuss/restapp/pkg/api"
	"github.com/rhuss/restapp/pkg/binding"
	"github.com/rhuss/restapp/pkg/debug"
	"github.com/rhuss/restapp/pkg/middleware"
	"github.com/rhuss/restapp/pkg/observability"
)

// Fixed response bodies.
const (
	NotFoundBody     = "Not found"
	InvalidBodyBody  = "Invalid body"
	InvocationPrefix = "Invocation Error: "
)

var errNoResponse = errors.New("handler returned no response")

// Dispatcher serves requests against a frozen route table. It is safe
// for concurrent use.
type Dispatcher struct {
	global   *middleware.Chain
	table    *table
	logger   *slog.Logger
	reporter FaultReporter
}

// Dispatch turns req into a response. It never returns nil and never
// panics because of a handler.
func (d *Dispatcher) Dispatch(ctx context.Context, req *api.Request) *api.Response {
	if res := d.global.PreRequest(ctx, req); res.Failed {
		debug.Log(debug.Middleware, "global middleware rejected request",
			"method", req.Method, "path", req.Path, "status", res.Status)
		observability.RecordRejection(observability.ScopeGlobal)
		return rejection(res)
	}

	route, ok := d.table.lookup(req.Method, req.Path)
	if !ok {
		debug.Log(debug.Routing, "no route", "method", req.Method, "path", req.Path)
		observability.DispatchTotal.WithLabelValues(observability.OutcomeNotFound).Inc()
		return api.Plain(NotFoundBody, api.WithStatus(http.StatusNotFound))
	}

	if route.Protection != nil {
		if res := route.Protection.PreRequest(ctx, req); res.Failed {
			debug.Log(debug.Middleware, "protection rejected request",
				"middleware", route.ProtectionName, "path", req.Path, "status", res.Status)
			observability.RecordRejection(observability.ScopeRoute)
			return rejection(res)
		}
	}

	args, err := binding.Bind(req, route.Bindings)
	if err != nil {
		return d.bindFailure(req, err)
	}
	debug.Trace(debug.Binding, "arguments bound", "path", req.Path, "args", len(args))

	resp, err := invoke(ctx, route, req, args)
	if err != nil {
		return d.fault(ctx, req, err)
	}
	observability.DispatchTotal.WithLabelValues(observability.OutcomeOK).Inc()
	return resp
}

// Routes returns the registered routes in registration order.
func (d *Dispatcher) Routes() []RouteInfo {
	out := make([]RouteInfo, 0, len(d.table.routes))
	for _, r := range d.table.routes {
		info := RouteInfo{
			Method:     r.Method,
			Path:       r.Path,
			Protection: r.ProtectionName,
		}
		for _, b := range r.Bindings {
			info.Bindings = append(info.Bindings, b.String())
		}
		out = append(out, info)
	}
	return out
}

func (d *Dispatcher) bindFailure(req *api.Request, err error) *api.Response {
	var missing *binding.MissingError
	if errors.As(err, &missing) {
		debug.Log(debug.Binding, "missing query parameters", "path", req.Path, "names", missing.Names)
		observability.DispatchTotal.WithLabelValues(observability.OutcomeMissingQuery).Inc()
		return api.Plain(missing.Error(), api.WithStatus(http.StatusBadRequest))
	}
	debug.Log(debug.Binding, "invalid body", "path", req.Path, "error", err)
	observability.DispatchTotal.WithLabelValues(observability.OutcomeInvalidBody).Inc()
	return api.Plain(InvalidBodyBody, api.WithStatus(http.StatusBadRequest))
}

func (d *Dispatcher) fault(ctx context.Context, req *api.Request, err error) *api.Response {
	d.logger.Error("handler fault",
		"method", req.Method,
		"path", req.Path,
		"error", err,
	)
	observability.RecordFault()
	if d.reporter != nil {
		d.reporter.Report(ctx, req, err)
	}
	return api.Plain(InvocationPrefix+err.Error(), api.WithStatus(http.StatusInternalServerError))
}

// invoke calls the handler, converting panics and nil responses into errors.
func invoke(ctx context.Context, route *Route, req *api.Request, args binding.Args) (resp *api.Response, err error) {
	defer func() {
		if p := recover(); p != nil {
			resp = nil
			if perr, ok := p.(error); ok {
				err = perr
			} else {
				err = fmt.Errorf("%v", p)
			}
		}
	}()

	resp, err = route.Handler(ctx, req, args)
	if err == nil && resp == nil {
		err = errNoResponse
	}
	return resp, err
}

// rejection serializes a failing middleware result as the JSON body of a
// response carrying the result's status.
func rejection(res api.MiddlewareResult) *api.Response {
	resp, err := api.JSON(res, api.WithStatus(res.Status))
	if err != nil {
		return api.Plain(res.Response, api.WithStatus(res.Status))
	}
	return resp
}
