// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/odyssey-erp/todo/internal/shared"
)

// AccessDeniedMessage is the fixed body text of an access-denied response.
const AccessDeniedMessage = "Access to requested data denied."

// MessageBody is the `{"Message": "..."}` payload used for user-facing rejections.
type MessageBody struct {
	Message string `json:"Message"`
}

// Denied writes the standard 401 access-denied payload.
func Denied(w http.ResponseWriter) {
	JSON(w, http.StatusUnauthorized, MessageBody{Message: AccessDeniedMessage})
}

// BadRequest writes a 400 with a message body.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, MessageBody{Message: message})
}

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrAlreadyExists):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, shared.ErrProtected):
		Problem(w, http.StatusConflict, "Protected", err.Error())
	case errors.Is(err, shared.ErrInvalidInput):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrInvalidCredentials):
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
