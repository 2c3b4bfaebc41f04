package domain

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"
)

// Sentinel errors for domain operations
var (
	// ErrInvalidDate indicates a requested date outside the published range
	ErrInvalidDate = errors.New("date is outside the available range")

	// ErrNoContentAvailable indicates the retry budget ran out and no cached record exists
	ErrNoContentAvailable = errors.New("no content available")

	// ErrInvalidRecord indicates wire or cached data that cannot form a valid record
	ErrInvalidRecord = errors.New("invalid content record")

	// ErrImageTooLarge indicates an image payload above the download or cache ceiling
	ErrImageTooLarge = errors.New("image is too large")

	// ErrInvalidImageData indicates a payload that does not decode as an image
	ErrInvalidImageData = errors.New("invalid image data")

	// ErrResponseTooLarge indicates a content response body above the client's read limit
	ErrResponseTooLarge = errors.New("response body too large")

	// ErrCacheWrite indicates the cache could not persist an entry
	ErrCacheWrite = errors.New("cache write failed")
)

// DateError reports a requested date outside [Epoch, today]
type DateError struct {
	Date   time.Time
	Reason string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("invalid date %s: %s", FormatDate(e.Date), e.Reason)
}

func (e *DateError) Unwrap() error { return ErrInvalidDate }

// FetchErrorKind classifies a failed remote fetch
type FetchErrorKind int

const (
	FetchTransport FetchErrorKind = iota // DNS, connection, timeout
	FetchStatus                          // Non-2xx HTTP status
	FetchNoData                          // Empty body on 2xx
	FetchDecode                          // Body failed schema validation or decoding
)

func (k FetchErrorKind) String() string {
	switch k {
	case FetchTransport:
		return "transport"
	case FetchStatus:
		return "status"
	case FetchNoData:
		return "no_data"
	case FetchDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// NoContentStatusCodes signal an unpublished date rather than a server failure
var NoContentStatusCodes = []int{
	http.StatusNotFound,
	http.StatusNoContent,
	http.StatusUnprocessableEntity,
}

// FetchError is the closed error taxonomy of the remote fetch client
type FetchError struct {
	Kind       FetchErrorKind
	StatusCode int // Set for FetchStatus
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchStatus:
		return fmt.Sprintf("server error, status %d", e.StatusCode)
	case FetchNoData:
		return "no data received"
	case FetchDecode:
		return fmt.Sprintf("decode error: %v", e.Err)
	default:
		return fmt.Sprintf("network error: %v", e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsNoContent reports whether the error is a status in NoContentStatusCodes
func (e *FetchError) IsNoContent() bool {
	return e.Kind == FetchStatus && slices.Contains(NoContentStatusCodes, e.StatusCode)
}

// IsNoContentError reports whether err wraps a no-content FetchError
func IsNoContentError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.IsNoContent()
}
