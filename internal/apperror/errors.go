package apperror

import (
	"errors"
	"net/http"
)

// Sentinel errors for the search pipeline. Services wrap these with
// fmt.Errorf("...: %w", Err...) so the HTTP layer can map them without
// knowing the call site.
var (
	ErrValidation        = errors.New("invalid request")
	ErrNotFound          = errors.New("resource not found")
	ErrEmbeddingProvider = errors.New("embedding provider unavailable")
	ErrStoreUnavailable  = errors.New("product store unavailable")
)

// StatusCode maps a pipeline error to its HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmbeddingProvider):
		return http.StatusBadGateway
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
