package telemetry

import (
	"context"
	"errors"

	"github.com/mmcdole/astrodaily/internal/domain"
)

// ErrorReason maps an error to a bounded label value
func ErrorReason(err error) string {
	var fetchErr *domain.FetchError
	switch {
	case errors.Is(err, domain.ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, domain.ErrNoContentAvailable):
		return "no_content"
	case errors.Is(err, domain.ErrImageTooLarge), errors.Is(err, domain.ErrResponseTooLarge):
		return "too_large"
	case errors.Is(err, domain.ErrInvalidImageData):
		return "invalid_image"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.As(err, &fetchErr):
		return fetchErr.Kind.String()
	default:
		return "other"
	}
}
