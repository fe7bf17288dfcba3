package zoo

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rhuss/restapp/pkg/api"
	"github.com/rhuss/restapp/pkg/binding"
	"github.com/rhuss/restapp/pkg/cookie"
	"github.com/rhuss/restapp/pkg/router"
	"github.com/rhuss/restapp/pkg/storage"
)

const (
	// Prefix is prepended to every endpoint path.
	Prefix = "/animals"

	// AdminProtection names the middleware guarding destructive endpoints.
	// It must be registered with Router.Name before the controller.
	AdminProtection = "admin"

	// MaxListLimit caps the limit accepted by GET /animals/list.
	MaxListLimit = 100
)

// Response bodies.
const (
	NotFoundBody     = "Animal not found"
	ConflictBody     = "Animal already exists"
	InvalidLimitBody = "limit must be an integer between 1 and 100"
	RemovedBody      = "Removed"
	WelcomeBody      = "Welcome"
)

// Controller serves the /animals endpoints.
type Controller struct {
	store  Store
	logger *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for store changes.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController creates a controller backed by store.
func NewController(store Store, opts ...Option) *Controller {
	c := &Controller{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Prefix implements router.Controller.
func (c *Controller) Prefix() string { return Prefix }

// Endpoints implements router.Controller.
func (c *Controller) Endpoints() []router.Endpoint {
	return []router.Endpoint{
		router.GET("/dog", c.dog),
		router.GET("/get", c.get, router.Queries("name")),
		router.GET("/list", c.list, router.Queries("limit")),
		router.POST("/add", c.add, router.Bind(binding.BodyWithSchema[Animal](AnimalSchema))),
		router.DELETE("/remove", c.remove, router.Queries("name"), router.Protect(AdminProtection)),
		router.GET("/visit", c.visit),
	}
}

func (c *Controller) dog(context.Context, *api.Request, binding.Args) (*api.Response, error) {
	return api.JSON(Dog)
}

func (c *Controller) get(ctx context.Context, _ *api.Request, args binding.Args) (*api.Response, error) {
	a, err := c.store.Get(ctx, args.String(0))
	if errors.Is(err, storage.ErrNotFound) {
		return api.Plain(NotFoundBody, api.WithStatus(http.StatusNotFound)), nil
	}
	if err != nil {
		return nil, err
	}
	return api.JSON(a)
}

func (c *Controller) list(ctx context.Context, _ *api.Request, args binding.Args) (*api.Response, error) {
	limit, ok := args.Int(0)
	if !ok || limit < 1 || limit > MaxListLimit {
		return api.Plain(InvalidLimitBody, api.WithStatus(http.StatusBadRequest)), nil
	}

	animals, err := c.store.List(ctx, int(limit))
	if err != nil {
		return nil, err
	}
	if animals == nil {
		animals = []Animal{}
	}
	return api.JSON(animals)
}

func (c *Controller) add(ctx context.Context, _ *api.Request, args binding.Args) (*api.Response, error) {
	a, ok := binding.BodyAs[Animal](args, 0)
	if !ok {
		return nil, errors.New("body is not an animal")
	}

	err := c.store.Save(ctx, a)
	if errors.Is(err, storage.ErrConflict) {
		return api.Plain(ConflictBody, api.WithStatus(http.StatusConflict)), nil
	}
	if err != nil {
		return nil, err
	}

	c.logger.Info("animal added", "name", a.Name, "age", a.Age)
	return api.JSON(a, api.WithStatus(http.StatusCreated))
}

func (c *Controller) remove(ctx context.Context, _ *api.Request, args binding.Args) (*api.Response, error) {
	name := args.String(0)

	err := c.store.Delete(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return api.Plain(NotFoundBody, api.WithStatus(http.StatusNotFound)), nil
	}
	if err != nil {
		return nil, err
	}

	c.logger.Info("animal removed", "name", name)
	return api.Plain(RemovedBody), nil
}

func (c *Controller) visit(context.Context, *api.Request, binding.Args) (*api.Response, error) {
	return api.Plain(WelcomeBody,
		cookie.Set(cookie.New("visited", "true", cookie.WithPath(Prefix))),
		cookie.Set(cookie.New("visit_id", NewVisitID(), cookie.WithPath(Prefix), cookie.WithMaxAge(3600), cookie.HTTPOnly())),
	), nil
}
