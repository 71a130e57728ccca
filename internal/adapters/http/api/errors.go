package api

import (
	"errors"
	"net/http"

	service "github.com/okian/sketchrec/internal/app"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest     = errors.New("bad request")
	ErrMissingLabel   = errors.New("missing label")
	ErrTooManyResults = errors.New("top exceeds limit")
)

// Error codes written in the "code" field of error bodies.
const (
	codeBadRequest  = "bad_request"
	codeNotFound    = "not_found"
	codeUnavailable = "unavailable"
	codeInternal    = "internal_error"
)

// statusFor maps a service error to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidStroke),
		errors.Is(err, service.ErrStrokeTooLarge),
		errors.Is(err, service.ErrInvalidThreshold),
		errors.Is(err, service.ErrInvalidLabel),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, codeBadRequest
	case errors.Is(err, service.ErrTemplateNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, codeUnavailable
	default:
		return http.StatusInternalServerError, codeInternal
	}
}
