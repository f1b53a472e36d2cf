// Package apiresp writes the JSON envelope shared by every API route.
package apiresp

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// Error codes beyond the ones derived from the HTTP status.
const (
	CodeDataIntegrity     = "data_integrity"
	CodeInvalidSubmission = "invalid_submission"
	CodeTestNotFound      = "test_not_found"
)

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Meta struct {
	RequestID string `json:"request_id,omitempty"`
}

type Envelope struct {
	OK    bool          `json:"ok"`
	Data  any           `json:"data,omitempty"`
	Error *ErrorPayload `json:"error,omitempty"`
	Meta  Meta          `json:"meta"`
}

func WriteOK(w http.ResponseWriter, r *http.Request, status int, data any) {
	write(w, status, Envelope{OK: true, Data: data, Meta: meta(r)})
}

// WriteError writes an error with the code implied by status.
func WriteError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	WriteErrorCode(w, r, status, "", msg)
}

// WriteErrorCode writes an error with an explicit code; an empty code or
// message falls back to the status defaults.
func WriteErrorCode(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	if code == "" {
		code = codeFromStatus(status)
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	write(w, status, Envelope{
		OK:    false,
		Error: &ErrorPayload{Code: code, Message: msg},
		Meta:  meta(r),
	})
}

func meta(r *http.Request) Meta {
	return Meta{RequestID: middleware.GetReqID(r.Context())}
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func codeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusTooManyRequests:
		return "rate_limited"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		if status >= 200 && status < 300 {
			return ""
		}
		return "error"
	}
}
