package httpclient

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/ArnoldEsquivel/palindrome-web/pkg/errors"
)

// DownstreamErrorResponse mirrors the error body written by the catalog
// service: {"message": ..., "error": "Bad Request", "statusCode": 400}.
// Message may be a single string or a list of validation messages.
type DownstreamErrorResponse struct {
	Message    json.RawMessage `json:"message"`
	Error      string          `json:"error"`
	StatusCode int             `json:"statusCode"`
}

// text flattens Message into a single string.
func (d DownstreamErrorResponse) text() string {
	if len(d.Message) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(d.Message, &s) == nil {
		return s
	}
	var list []string
	if json.Unmarshal(d.Message, &list) == nil {
		return strings.Join(list, "; ")
	}
	return ""
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an *apperrors.AppError. The kind always follows the response status;
// the message comes from the body when it is structured, otherwise from the
// body's "error" field, otherwise from the HTTP status text.
//
// The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return apperrors.FromStatus(resp.StatusCode, "")
	}

	var downstream DownstreamErrorResponse
	if json.Unmarshal(bodyBytes, &downstream) == nil {
		msg := downstream.text()
		if msg == "" {
			msg = downstream.Error
		}
		return apperrors.FromStatus(resp.StatusCode, msg)
	}

	return apperrors.FromStatus(resp.StatusCode, "")
}
