// Package apierror provides the canonical response envelope and error
// taxonomy for the API. All responses — success or failure — go through this
// package so the wire contract stays uniform and internal details (stack
// traces, SQL errors) never leak to clients.
package apierror

import (
	"errors"
	"net/http"
)

// Error codes understood by the frontend.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeForbidden  = "FORBIDDEN"
	CodeNotFound   = "NOT_FOUND"
	CodeConflict   = "CONFLICT"
	CodeDatabase   = "DATABASE_ERROR"
)

// Error is a typed service error carrying a taxonomy code.
// Services return *Error for every business failure; handlers map the code
// to an HTTP status via Status().
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

func Validation(msg string) *Error { return &Error{Code: CodeValidation, Message: msg} }
func Forbidden(msg string) *Error  { return &Error{Code: CodeForbidden, Message: msg} }
func NotFound(msg string) *Error   { return &Error{Code: CodeNotFound, Message: msg} }
func Conflict(msg string) *Error   { return &Error{Code: CodeConflict, Message: msg} }

// Database wraps an underlying store failure. The original error text is
// surfaced verbatim per the propagation policy — it is not retried locally.
func Database(err error) *Error { return &Error{Code: CodeDatabase, Message: err.Error()} }

// From normalizes any error into an *Error. Unknown errors are treated as
// store failures.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Database(err)
}

// Status maps a taxonomy code to its HTTP status.
func (e *Error) Status() int {
	switch e.Code {
	case CodeValidation:
		return http.StatusUnprocessableEntity
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Envelope is the wire format for every response:
// { success, data?, error?: { code, message }, meta? }
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// OK wraps data in a success envelope.
func OK(data interface{}) Envelope { return Envelope{Success: true, Data: data} }

// OKWithMeta wraps data plus pagination (or other) metadata.
func OKWithMeta(data, meta interface{}) Envelope {
	return Envelope{Success: true, Data: data, Meta: meta}
}

// Fail wraps an error in a failure envelope.
func Fail(err error) Envelope { return Envelope{Success: false, Error: From(err)} }
