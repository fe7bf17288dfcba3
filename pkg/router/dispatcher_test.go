package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhuss/restapp/pkg/api"
	"github.com/rhuss/restapp/pkg/binding"
	"github.com/rhuss/restapp/pkg/middleware"
)

type recordingReporter struct {
	mu     sync.Mutex
	errors []error
}

func (r *recordingReporter) Report(_ context.Context, _ *api.Request, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, err)
}

func get(path string, queries map[string]string) *api.Request {
	return api.NewRequest(api.MethodGet, path, "", nil, queries)
}

func build(t *testing.T, setup func(r *Router)) *Dispatcher {
	t.Helper()
	r := New()
	setup(r)
	return r.Build()
}

func TestDispatchHelloWorld(t *testing.T) {
	d := build(t, func(r *Router) {
		require.NoError(t, r.Handle(api.MethodGet, "/", ok("Hello World!")))
	})

	resp := d.Dispatch(context.Background(), get("/", nil))

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "Hello World!", resp.Body)
	assert.Equal(t, api.KindText, resp.Kind)
}

func TestDispatchControllerJSON(t *testing.T) {
	d := build(t, func(r *Router) {
		require.NoError(t, r.Register(Group{
			PathPrefix: "/animals",
			Routes: []Endpoint{
				GET("/dog", func(context.Context, *api.Request, binding.Args) (*api.Response, error) {
					return api.JSON(animal{Name: "Dog", Age: 12})
				}),
			},
		}))
	})

	resp := d.Dispatch(context.Background(), get("/animals/dog", nil))

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.JSONEq(t, `{"name":"Dog","age":12}`, resp.Body)
	assert.Equal(t, "application/json", resp.Kind.ContentType())
}

func TestDispatchNotFound(t *testing.T) {
	d := build(t, func(r *Router) {
		require.NoError(t, r.Handle(api.MethodGet, "/animals/dog", ok("dog")))
	})

	for _, req := range []*api.Request{
		get("/animals/cat", nil),
		get("/animals/dog/", nil),
		get("/animals", nil),
		api.NewRequest(api.MethodPost, "/animals/dog", "", nil, nil),
	} {
		resp := d.Dispatch(context.Background(), req)
		assert.Equal(t, http.StatusNotFound, resp.Status, "%s %s", req.Method, req.Path)
		assert.Equal(t, "Not found", resp.Body)
		assert.Equal(t, api.KindText, resp.Kind)
		assert.Empty(t, resp.Headers)
	}
}

func TestDispatchGlobalMiddlewareFailure(t *testing.T) {
	d := build(t, func(r *Router) {
		require.NoError(t, r.Use(middleware.Reject(http.StatusBadRequest, "blocked")))
		require.NoError(t, r.Handle(api.MethodGet, "/", ok("Hello World!")))
	})

	for _, path := range []string{"/", "/missing"} {
		resp := d.Dispatch(context.Background(), get(path, nil))

		assert.Equal(t, http.StatusBadRequest, resp.Status)
		assert.Equal(t, api.KindJSON, resp.Kind)
		var body map[string]any
		require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
		assert.Equal(t, true, body["failed"])
		assert.Equal(t, "blocked", body["response"])
		assert.Equal(t, float64(http.StatusBadRequest), body["status"])
	}
}

func TestDispatchProtectionRunsAfterGlobalOnlyForItsRoute(t *testing.T) {
	var order []string
	d := build(t, func(r *Router) {
		require.NoError(t, r.Use(middleware.Func(func(context.Context, *api.Request) api.MiddlewareResult {
			order = append(order, "global")
			return api.Pass()
		})))
		require.NoError(t, r.Name("admin", middleware.Func(func(_ context.Context, req *api.Request) api.MiddlewareResult {
			order = append(order, "admin")
			if req.Header("X-Admin") != "yes" {
				return api.Fail(http.StatusUnauthorized, "admins only")
			}
			return api.Pass()
		})))
		require.NoError(t, r.Register(Group{
			PathPrefix: "/animals",
			Routes: []Endpoint{
				GET("/dog", ok("dog")),
				DELETE("/remove", ok("Removed"), Protect("admin")),
			},
		}))
	})

	resp := d.Dispatch(context.Background(), get("/animals/dog", nil))
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, []string{"global"}, order)

	order = nil
	resp = d.Dispatch(context.Background(), api.NewRequest(api.MethodDelete, "/animals/remove", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.JSONEq(t, `{"failed":true,"response":"admins only","status":401}`, resp.Body)
	assert.Equal(t, []string{"global", "admin"}, order)

	resp = d.Dispatch(context.Background(), api.NewRequest(api.MethodDelete, "/animals/remove", "",
		map[string]string{"X-Admin": "yes"}, nil))
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "Removed", resp.Body)
}

func TestDispatchMissingQuery(t *testing.T) {
	invoked := false
	d := build(t, func(r *Router) {
		require.NoError(t, r.HandleEndpoint(GET("/age", func(context.Context, *api.Request, binding.Args) (*api.Response, error) {
			invoked = true
			return api.Plain(""), nil
		}, Queries("age"))))
		require.NoError(t, r.HandleEndpoint(GET("/many", ok(""), Queries("a", "b", "c"))))
	})

	resp := d.Dispatch(context.Background(), get("/age", nil))
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, "Missing query parameters: age", resp.Body)
	assert.False(t, invoked)

	resp = d.Dispatch(context.Background(), get("/many", map[string]string{"b": "1"}))
	assert.Equal(t, "Missing query parameters: a, c", resp.Body)
}

func TestDispatchQueryCoercion(t *testing.T) {
	var got []any
	d := build(t, func(r *Router) {
		require.NoError(t, r.HandleEndpoint(GET("/coerce", func(_ context.Context, _ *api.Request, args binding.Args) (*api.Response, error) {
			for i := range args {
				got = append(got, args.Value(i).Any())
			}
			return api.Plain("ok"), nil
		}, Queries("i", "f", "b", "s"))))
	})

	resp := d.Dispatch(context.Background(), get("/coerce", map[string]string{
		"i": "42", "f": "3.14", "b": "true", "s": "Dog",
	}))

	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, []any{int64(42), 3.14, true, "Dog"}, got)
}

func TestDispatchInvalidBodySkipsHandler(t *testing.T) {
	invoked := false
	d := build(t, func(r *Router) {
		require.NoError(t, r.HandleEndpoint(POST("/add", func(context.Context, *api.Request, binding.Args) (*api.Response, error) {
			invoked = true
			return api.Plain(""), nil
		}, Queries("missing"), Bind(binding.Body[animal]()))))
	})

	resp := d.Dispatch(context.Background(), api.NewRequest(api.MethodPost, "/add", `{"name": "Dog",`, nil, nil))

	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, "Invalid body", resp.Body)
	assert.False(t, invoked)
}

func TestDispatchBodyReachesHandler(t *testing.T) {
	d := build(t, func(r *Router) {
		require.NoError(t, r.HandleEndpoint(POST("/add", func(_ context.Context, _ *api.Request, args binding.Args) (*api.Response, error) {
			a, _ := binding.BodyAs[animal](args, 0)
			return api.JSON(a, api.WithStatus(http.StatusCreated))
		}, Bind(binding.Body[animal]()))))
	})

	resp := d.Dispatch(context.Background(), api.NewRequest(api.MethodPost, "/add", `{"name":"Cat","age":3}`, nil, nil))

	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.JSONEq(t, `{"name":"Cat","age":3}`, resp.Body)
}

func TestDispatchHandlerFaults(t *testing.T) {
	tests := []struct {
		name    string
		handler HandlerFunc
		body    string
	}{
		{
			name: "error",
			handler: func(context.Context, *api.Request, binding.Args) (*api.Response, error) {
				return nil, errors.New("database offline")
			},
			body: "Invocation Error: database offline",
		},
		{
			name: "panic with string",
			handler: func(context.Context, *api.Request, binding.Args) (*api.Response, error) {
				panic("boom")
			},
			body: "Invocation Error: boom",
		},
		{
			name: "panic with error",
			handler: func(context.Context, *api.Request, binding.Args) (*api.Response, error) {
				panic(fmt.Errorf("wrapped: %w", errors.New("cause")))
			},
			body: "Invocation Error: wrapped: cause",
		},
		{
			name: "nil response",
			handler: func(context.Context, *api.Request, binding.Args) (*api.Response, error) {
				return nil, nil
			},
			body: "Invocation Error: handler returned no response",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reporter := &recordingReporter{}
			r := New(WithFaultReporter(reporter))
			require.NoError(t, r.Handle(api.MethodGet, "/", tt.handler))

			resp := r.Build().Dispatch(context.Background(), get("/", nil))

			assert.Equal(t, http.StatusInternalServerError, resp.Status)
			assert.Equal(t, tt.body, resp.Body)
			assert.Equal(t, api.KindText, resp.Kind)
			assert.Len(t, reporter.errors, 1)
		})
	}
}

func TestDispatchPreservesHandlerResponse(t *testing.T) {
	d := build(t, func(r *Router) {
		require.NoError(t, r.Handle(api.MethodGet, "/visit", func(context.Context, *api.Request, binding.Args) (*api.Response, error) {
			return api.Plain("Welcome",
				api.WithHeader("Set-Cookie", "a=1"),
				api.WithHeader("Set-Cookie", "b=2"),
			), nil
		}))
		require.NoError(t, r.Handle(api.MethodGet, "/old", func(context.Context, *api.Request, binding.Args) (*api.Response, error) {
			return api.Redirect("/new"), nil
		}))
	})

	resp := d.Dispatch(context.Background(), get("/visit", nil))
	assert.Equal(t, []string{"a=1", "b=2"}, resp.HeaderValues("Set-Cookie"))

	resp = d.Dispatch(context.Background(), get("/old", nil))
	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, "/new", resp.HeaderValue("Location"))
}

func TestDispatchConcurrent(t *testing.T) {
	d := build(t, func(r *Router) {
		require.NoError(t, r.HandleEndpoint(GET("/echo", func(_ context.Context, _ *api.Request, args binding.Args) (*api.Response, error) {
			return api.Plain(args.String(0)), nil
		}, Queries("v"))))
	})

	var wg sync.WaitGroup
	errs := make(chan string, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			want := fmt.Sprintf("value-%d", i)
			resp := d.Dispatch(context.Background(), get("/echo", map[string]string{"v": want}))
			if resp.Body != want {
				errs <- resp.Body
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for body := range errs {
		t.Errorf("unexpected body %q", body)
	}
}
