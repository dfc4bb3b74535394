package handler

import (
	"errors"
	"net/http"
	"strings"

	"leadership-chatbot-server/internal/apperrors"
	"leadership-chatbot-server/pkg/response"
)

// writeServiceError maps the service error taxonomy onto status codes in one
// place. Anything unrecognized is a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		response.BadRequest(w, strings.Join(validationErr.Messages, " "))
		return
	}

	var conflictErr *apperrors.ConflictError
	if errors.As(err, &conflictErr) {
		response.Conflict(w, conflictErr.Message)
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		response.Unauthorized(w, err.Error())
	case errors.Is(err, apperrors.ErrUserNotFound), errors.Is(err, apperrors.ErrChatNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, apperrors.ErrChatForbidden):
		response.Forbidden(w, err.Error())
	default:
		response.InternalError(w, "Internal server error")
	}
}
