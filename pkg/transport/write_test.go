package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rhuss/restapp/pkg/api"
)

func TestWriteResponse(t *testing.T) {
	resp, err := api.JSON(map[string]int{"age": 12},
		api.WithStatus(http.StatusCreated),
		api.WithHeader("Set-Cookie", "a=1"),
		api.WithHeader("Set-Cookie", "b=2"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := httptest.NewRecorder()
	WriteResponse(rec, resp)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	cookies := rec.Header().Values("Set-Cookie")
	if len(cookies) != 2 || cookies[0] != "a=1" || cookies[1] != "b=2" {
		t.Errorf("Set-Cookie = %v, want [a=1 b=2]", cookies)
	}
	if rec.Body.String() != `{"age":12}` {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestWriteResponseInvalidStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteResponse(rec, api.Plain("odd", api.WithStatus(0)))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestWriteText(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteText(rec, http.StatusRequestEntityTooLarge, "Request body too large")

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusRequestEntityTooLarge)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain" {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
}
