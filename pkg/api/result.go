package api

import "net/http"

// MiddlewareResult is the verdict of a pre-request hook. When Failed is
// false, Response is empty and Status is 200.
//
// A failing result is serialized as-is into the JSON body that is sent
// back to the client, so the field names are part of the wire contract.
type MiddlewareResult struct {
	Failed   bool   `json:"failed"`
	Response string `json:"response"`
	Status   int    `json:"status"`
}

// Pass returns the neutral, non-failing result.
func Pass() MiddlewareResult {
	return MiddlewareResult{Status: http.StatusOK}
}

// Fail returns a failing result carrying status and message.
func Fail(status int, message string) MiddlewareResult {
	return MiddlewareResult{Failed: true, Response: message, Status: status}
}
