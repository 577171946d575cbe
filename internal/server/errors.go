package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/resume-agent/internal/status"
)

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var notFound *status.NotFoundError
	var invalidURL *status.InvalidURLError
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &invalidURL):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
