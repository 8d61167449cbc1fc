package search

import (
	"errors"

	apperrors "github.com/ArnoldEsquivel/palindrome-web/pkg/errors"
)

// GenericMessage is shown for failures without a kind-specific message.
const GenericMessage = "Something went wrong while searching. Please try again."

// Messages maps an error kind to the text shown to the user.
type Messages map[apperrors.Kind]string

// DefaultMessages returns the built-in user-facing messages.
func DefaultMessages() Messages {
	return Messages{
		apperrors.KindNetwork:     "Connection problem. Check your network and try again.",
		apperrors.KindServerError: "Internal server error. Please try again later.",
		apperrors.KindTimeout:     "The search took too long to respond. Please try again.",
		apperrors.KindNotFound:    "The search service could not be found. Please try again later.",
		apperrors.KindParse:       "We received an unexpected response. Please try again.",
	}
}

// For returns the message for err. Bad requests carry their own message,
// since it tells the user what to change.
func (m Messages) For(err error) string {
	kind := apperrors.KindOf(err)
	if kind == apperrors.KindBadRequest {
		if msg, ok := m[kind]; ok {
			return msg
		}
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Message != "" {
			return appErr.Message
		}
	}
	if msg, ok := m[kind]; ok {
		return msg
	}
	return GenericMessage
}
