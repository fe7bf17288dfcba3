package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rhuss/restapp/pkg/api"
	"github.com/rhuss/restapp/pkg/transport"
)

// capturingDispatcher records the last request and replies with a fixed response.
type capturingDispatcher struct {
	got  *api.Request
	resp *api.Response
}

func (d *capturingDispatcher) Dispatch(_ context.Context, req *api.Request) *api.Response {
	d.got = req
	if d.resp != nil {
		return d.resp
	}
	return api.Plain("ok")
}

func TestAdapterTransformsRequest(t *testing.T) {
	d := &capturingDispatcher{}
	adapter := NewAdapter(d, DefaultConfig())

	req := httptest.NewRequest("POST", "/animals/add?name=Rex&age=3&name=Other&q=a%20b", strings.NewReader(`{"name":"Rex"}`))
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Add("X-Multi", "first")
	req.Header.Add("X-Multi", "second")
	rec := httptest.NewRecorder()

	adapter.ServeHTTP(rec, req)

	if d.got == nil {
		t.Fatal("dispatcher was not called")
	}
	if d.got.Method != api.MethodPost {
		t.Errorf("method = %q, want POST", d.got.Method)
	}
	if d.got.Path != "/animals/add" {
		t.Errorf("path = %q, want /animals/add", d.got.Path)
	}
	if d.got.Body != `{"name":"Rex"}` {
		t.Errorf("body = %q", d.got.Body)
	}
	if d.got.Header("Authorization") != "Bearer token" {
		t.Errorf("Authorization = %q", d.got.Header("Authorization"))
	}
	if d.got.Header("X-Multi") != "first" {
		t.Errorf("X-Multi = %q, want first value", d.got.Header("X-Multi"))
	}

	wantQueries := map[string]string{"name": "Rex", "age": "3", "q": "a b"}
	for k, want := range wantQueries {
		if got, _ := d.got.Query(k); got != want {
			t.Errorf("query %q = %q, want %q", k, got, want)
		}
	}
}

func TestAdapterPreservesUncleanPath(t *testing.T) {
	d := &capturingDispatcher{}
	adapter := NewAdapter(d, DefaultConfig())

	rec := httptest.NewRecorder()
	adapter.ServeHTTP(rec, httptest.NewRequest("GET", "/animals//dog", nil))

	if d.got.Path != "/animals//dog" {
		t.Errorf("path = %q, want /animals//dog", d.got.Path)
	}
}

func TestAdapterWritesResponse(t *testing.T) {
	d := &capturingDispatcher{resp: api.Plain("Welcome",
		api.WithStatus(http.StatusAccepted),
		api.WithHeader("Set-Cookie", "a=1"),
		api.WithHeader("Set-Cookie", "b=2"),
	)}
	adapter := NewAdapter(d, DefaultConfig())

	rec := httptest.NewRecorder()
	adapter.ServeHTTP(rec, httptest.NewRequest("GET", "/visit", nil))

	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusAccepted)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain" {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
	if cookies := rec.Header().Values("Set-Cookie"); len(cookies) != 2 {
		t.Errorf("Set-Cookie = %v, want two entries", cookies)
	}
	if rec.Body.String() != "Welcome" {
		t.Errorf("body = %q, want Welcome", rec.Body.String())
	}
}

func TestAdapterRejectsOversizedBody(t *testing.T) {
	d := &capturingDispatcher{}
	adapter := NewAdapter(d, Config{MaxBodySize: 8})

	rec := httptest.NewRecorder()
	adapter.ServeHTTP(rec, httptest.NewRequest("POST", "/animals/add", strings.NewReader(`{"name":"a very long name"}`)))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusRequestEntityTooLarge)
	}
	if rec.Body.String() != BodyTooLarge {
		t.Errorf("body = %q, want %q", rec.Body.String(), BodyTooLarge)
	}
	if d.got != nil {
		t.Error("dispatcher should not be called for oversized bodies")
	}
}

func TestAdapterRejectsUnsupportedMethod(t *testing.T) {
	d := &capturingDispatcher{}
	adapter := NewAdapter(d, DefaultConfig())

	rec := httptest.NewRecorder()
	adapter.ServeHTTP(rec, httptest.NewRequest("PATCH", "/animals/dog", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
	if d.got != nil {
		t.Error("dispatcher should not be called for unsupported methods")
	}
}

func TestAdapterAppliesMiddleware(t *testing.T) {
	d := &capturingDispatcher{}
	adapter := NewAdapter(d, DefaultConfig(), transport.RequestID())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "client-supplied")
	rec := httptest.NewRecorder()
	adapter.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "client-supplied" {
		t.Errorf("X-Request-ID = %q, want client-supplied", got)
	}
}

func TestAdapterRecoveryMiddleware(t *testing.T) {
	panicking := transport.DispatcherFunc(func(context.Context, *api.Request) *api.Response {
		panic("hook exploded")
	})
	adapter := NewAdapter(panicking, DefaultConfig(), transport.Recovery(nil))

	rec := httptest.NewRecorder()
	adapter.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	body, _ := io.ReadAll(rec.Body)
	if rec.Code != http.StatusInternalServerError || string(body) != transport.InternalErrorBody {
		t.Errorf("got %d %q, want 500 %q", rec.Code, body, transport.InternalErrorBody)
	}
}
