// internal/app/system/apierror/apierror.go

// Package apierror defines the error taxonomy shared by stores, unit-of-work
// plans, and HTTP handlers, plus the JSON response helpers that map each kind
// to a status code.
//
// AlreadyInDesiredState is deliberately not an HTTP error: an idempotent
// no-op answers 200 with status "unchanged" so clients can tell it apart
// from a fresh mutation without branching on status codes.
package apierror

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Kind classifies a failure for HTTP mapping and logging.
type Kind int

const (
	KindInvalidInput Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindAlreadyInDesiredState
	KindStoreUnavailable
)

// Error is a classified error with a user-facing message. Fields carries a
// field-keyed map for validation failures so the client can highlight the
// offending input.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Invalid builds an InvalidInput error with an optional field error map.
func Invalid(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg, Fields: fields}
}

// Unauthorized builds a 401 error.
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// Forbidden builds a 403 error.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// NotFound builds a 404 error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Conflict builds a 409 error (state-machine guard violations, full events).
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// NoOp marks a precondition outcome of "already in the desired state".
// It aborts a unit of work without mutating, but is reported as success.
func NoOp(msg string) *Error {
	return &Error{Kind: KindAlreadyInDesiredState, Message: msg}
}

// Unavailable wraps a transient store failure. Safe for the client to retry
// since every mutation in the system is idempotent.
func Unavailable(err error) *Error {
	return &Error{Kind: KindStoreUnavailable, Message: "a database error occurred", Err: err}
}

// IsNoOp reports whether err is an AlreadyInDesiredState marker.
func IsNoOp(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == KindAlreadyInDesiredState
}

// KindOf extracts the Kind from err, defaulting to StoreUnavailable for
// unclassified errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindStoreUnavailable
}

// HTTPStatus maps a kind to its response status code.
func HTTPStatus(k Kind) int {
	switch k {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindAlreadyInDesiredState:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

// Envelope is the JSON response body shape for every API response.
// Status is "ok" for fresh mutations, "unchanged" for idempotent no-ops,
// and "error" for failures. Warning is set on partial success (a secondary
// mutation failed after the primary succeeded).
type Envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Warning string            `json:"warning,omitempty"`
	Data    any               `json:"data,omitempty"`
}

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteOK writes a 200 success envelope.
func WriteOK(w http.ResponseWriter, msg string, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Status: "ok", Message: msg, Data: data})
}

// WriteCreated writes a 201 success envelope.
func WriteCreated(w http.ResponseWriter, msg string, data any) {
	WriteJSON(w, http.StatusCreated, Envelope{Status: "ok", Message: msg, Data: data})
}

// WriteUnchanged writes a 200 idempotent no-op envelope.
func WriteUnchanged(w http.ResponseWriter, msg string, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Status: "unchanged", Message: msg, Data: data})
}

// WritePartial writes a 200 envelope for a unit of work whose primary
// mutation succeeded but a secondary step did not.
func WritePartial(w http.ResponseWriter, msg, warning string, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Status: "ok", Message: msg, Warning: warning, Data: data})
}

// WriteError classifies err and writes the matching error envelope.
func WriteError(w http.ResponseWriter, err error) {
	var ae *Error
	if !errors.As(err, &ae) {
		ae = Unavailable(err)
	}
	if ae.Kind == KindAlreadyInDesiredState {
		WriteUnchanged(w, ae.Message, nil)
		return
	}
	WriteJSON(w, HTTPStatus(ae.Kind), Envelope{
		Status:  "error",
		Message: ae.Message,
		Errors:  ae.Fields,
	})
}
