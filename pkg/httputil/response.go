package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/ArnoldEsquivel/palindrome-web/pkg/errors"
	"github.com/ArnoldEsquivel/palindrome-web/pkg/logger"
)

// ErrorResponse is the error body written by every HTTP service:
//
//	{"message": "...", "error": "Bad Request", "statusCode": 400}
//
// Message is either a string or, for validation failures, a list of strings.
type ErrorResponse struct {
	Message    any    `json:"message"`
	Error      string `json:"error"`
	StatusCode int    `json:"statusCode"`
	RequestID  string `json:"requestId,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// NewErrorResponse builds the error body for status with the given message.
func NewErrorResponse(status int, message any) ErrorResponse {
	return ErrorResponse{
		Message:    message,
		Error:      http.StatusText(status),
		StatusCode: status,
	}
}

// WriteError writes a standardized error response for err. AppErrors keep
// their status and message; anything else becomes a logged 500 with a generic
// message. The request-scoped logger is preferred over fallback.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}

	status := apperrors.HTTPStatus(err)
	message := "Internal server error"

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && status < http.StatusInternalServerError {
		message = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	body := NewErrorResponse(status, message)
	body.RequestID = logger.CorrelationIDFromContext(r.Context())
	WriteJSON(w, status, body)
}
