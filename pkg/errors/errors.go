package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure of a search call. Every error that crosses the
// API client boundary carries exactly one Kind.
type Kind string

const (
	KindBadRequest  Kind = "BadRequest"
	KindNotFound    Kind = "NotFound"
	KindServerError Kind = "ServerError"
	KindNetwork     Kind = "NetworkError"
	KindTimeout     Kind = "Timeout"
	KindCancelled   Kind = "Cancelled"
	KindParse       Kind = "ParseError"
	KindUnknown     Kind = "Unknown"
)

// Sentinel errors, one per Kind, usable with errors.Is.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrNotFound    = errors.New("not found")
	ErrServerError = errors.New("server error")
	ErrNetwork     = errors.New("network error")
	ErrTimeout     = errors.New("request timed out")
	ErrCancelled   = errors.New("request cancelled")
	ErrParse       = errors.New("parse error")
	ErrUnknown     = errors.New("unknown error")
)

var sentinels = map[Kind]error{
	KindBadRequest:  ErrBadRequest,
	KindNotFound:    ErrNotFound,
	KindServerError: ErrServerError,
	KindNetwork:     ErrNetwork,
	KindTimeout:     ErrTimeout,
	KindCancelled:   ErrCancelled,
	KindParse:       ErrParse,
	KindUnknown:     ErrUnknown,
}

// AppError is the typed error surfaced by the API client and written by the
// catalog HTTP layer. StatusCode is zero when no HTTP response was received.
type AppError struct {
	Kind       Kind   `json:"kind"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode,omitempty"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's Kind.
func (e *AppError) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// BadRequest creates a 400 error, used for malformed or oversized queries.
func BadRequest(message string) *AppError {
	return &AppError{Kind: KindBadRequest, Message: message, StatusCode: http.StatusBadRequest}
}

// NotFound creates a 404 error.
func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message, StatusCode: http.StatusNotFound}
}

// ServerError creates a 5xx error with the given status.
func ServerError(status int, message string) *AppError {
	if status < 500 {
		status = http.StatusInternalServerError
	}
	return &AppError{Kind: KindServerError, Message: message, StatusCode: status}
}

// Network wraps a connection-level failure (DNS, refused, reset).
func Network(err error) *AppError {
	return &AppError{Kind: KindNetwork, Message: "unable to reach the search service", Err: err}
}

// Timeout wraps a failure caused by the client's own request budget.
func Timeout(err error) *AppError {
	return &AppError{Kind: KindTimeout, Message: "the search request timed out", Err: err}
}

// Cancelled wraps a failure caused by the caller superseding the request.
func Cancelled(err error) *AppError {
	return &AppError{Kind: KindCancelled, Message: "the search request was cancelled", Err: err}
}

// Parse wraps a malformed response body.
func Parse(err error) *AppError {
	return &AppError{Kind: KindParse, Message: "Parse Error", Err: err}
}

// FromStatus builds an error for a non-2xx HTTP response.
func FromStatus(status int, message string) *AppError {
	if message == "" {
		message = http.StatusText(status)
	}
	return &AppError{Kind: KindFromStatus(status), Message: message, StatusCode: status}
}

// KindFromStatus maps an HTTP status code to a Kind.
func KindFromStatus(status int) Kind {
	switch {
	case status == http.StatusBadRequest:
		return KindBadRequest
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 500 && status <= 599:
		return KindServerError
	default:
		return KindUnknown
	}
}

// KindOf returns the Kind of err. Bare context errors are classified too so
// callers never have to special-case them. A nil error has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	for kind, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	switch {
	case errors.Is(err, context.Canceled):
		return KindCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	default:
		return KindUnknown
	}
}

// IsCancelled reports whether err means "superseded by a newer operation".
func IsCancelled(err error) bool {
	return KindOf(err) == KindCancelled
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.StatusCode != 0 {
		return appErr.StatusCode
	}

	switch KindOf(err) {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
