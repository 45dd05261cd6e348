package reports

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JaimeStill/sweep/pkg/formatting"
)

// Domain errors for report operations.
var (
	ErrNotFound        = errors.New("report not found")
	ErrValidation      = errors.New("invalid report")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidID       = errors.New("invalid report id")
	ErrNoEvidence      = errors.New("report has no evidence image")
	ErrInvalidImage    = errors.New("invalid evidence image")
	ErrPayloadTooLarge = errors.New("image exceeds maximum upload size")
)

func tooLarge(limit int64) error {
	return fmt.Errorf("%w: limit %s", ErrPayloadTooLarge, formatting.FormatBytes(limit, 0))
}

// MapHTTPStatus maps report domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrNoEvidence),
		errors.Is(err, ErrInvalidImage):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
