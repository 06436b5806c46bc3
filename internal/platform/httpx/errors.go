package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for the domain layer. Services wrap these so handlers can
// map outcomes to HTTP status codes without inspecting message text.
var (
	// ErrNotFound signals that the addressed resource does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrValidation signals malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidReference signals that a command referenced an entity
	// that does not exist.
	ErrInvalidReference = errors.New("referenced entity does not exist")
)

// RespondError maps domain errors to RFC7807 responses.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrInvalidReference):
		Problem(w, http.StatusUnprocessableEntity, "Invalid Reference", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
