package domain

import (
	"context"
	"time"
)

// ContentFetcher retrieves one day's record from the remote source.
// Errors are *FetchError.
type ContentFetcher interface {
	Fetch(ctx context.Context, date time.Time) (*ContentRecord, error)
}

// RecordCache persists the single last-known-good record
type RecordCache interface {
	PutRecord(record *ContentRecord) error
	// GetRecord returns false on a miss, an oversized entry or a corrupt entry
	GetRecord() (*ContentRecord, bool)
}

// ImageCache persists image payloads keyed by source URL
type ImageCache interface {
	PutImage(key string, data []byte) error
	// GetImage returns false on a miss, an oversized entry or a read failure
	GetImage(key string) ([]byte, bool)
}

// ContentCache is the full cache surface used by the application
type ContentCache interface {
	RecordCache
	ImageCache
	Clear() error
}

// FetchOutcome labels one remote attempt
type FetchOutcome string

const (
	OutcomeSuccess   FetchOutcome = "success"
	OutcomeNoContent FetchOutcome = "no_content"
	OutcomeFailure   FetchOutcome = "failure"
)

// ImageSource labels where a loaded image came from
type ImageSource string

const (
	ImageFromCache    ImageSource = "cache"
	ImageFromNetwork  ImageSource = "network"
	ImageFromFallback ImageSource = "fallback"
)

// ResolveObserver receives resolution events (metrics, tracing).
// Implementations must not block.
type ResolveObserver interface {
	// OnFetchAttempt reports one fetch for date made while resolving requested
	OnFetchAttempt(requested, date time.Time, outcome FetchOutcome)
	OnResolved(result ResolutionResult)
	OnResolveFailed(err error)
	OnImageLoaded(source ImageSource, size int)
	OnImageFailed(err error)
}

// NoOpObserver discards all events
type NoOpObserver struct{}

func (NoOpObserver) OnFetchAttempt(time.Time, time.Time, FetchOutcome) {}
func (NoOpObserver) OnResolved(ResolutionResult)            {}
func (NoOpObserver) OnResolveFailed(error)                  {}
func (NoOpObserver) OnImageLoaded(ImageSource, int)         {}
func (NoOpObserver) OnImageFailed(error)                    {}
