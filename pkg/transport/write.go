package transport

import (
	"io"
	"net/http"

	"github.com/rhuss/restapp/pkg/api"
)

// WriteResponse writes resp to w: the Content-Type derived from its kind,
// every header entry in order (repeated keys are preserved), the status
// code and the body. A status outside the valid HTTP range is written
// as 500.
func WriteResponse(w http.ResponseWriter, resp *api.Response) {
	h := w.Header()
	h.Set("Content-Type", resp.Kind.ContentType())
	for _, entry := range resp.Headers {
		h.Add(entry.Key, entry.Value)
	}

	status := resp.Status
	if status < 100 || status > 999 {
		status = http.StatusInternalServerError
	}
	w.WriteHeader(status)
	io.WriteString(w, resp.Body)
}

// WriteText writes a plain text response for transport-level failures
// that never reach the dispatcher.
func WriteText(w http.ResponseWriter, status int, body string) {
	WriteResponse(w, api.Plain(body, api.WithStatus(status)))
}
