package tui

import (
	"time"

	"github.com/mmcdole/astrodaily/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// ContentResolvedMsg signals that a requested date resolved to a record
type ContentResolvedMsg struct {
	Requested time.Time
	Result    domain.ResolutionResult
}

// ContentFailedMsg signals that resolution failed with no cached record
type ContentFailedMsg struct {
	Requested time.Time
	Err       error
}

// FetchProgressMsg reports one remote attempt during day-stepping
type FetchProgressMsg struct {
	Requested time.Time
	Date      time.Time
	Outcome   domain.FetchOutcome
}

// ImageLoadedMsg signals that the record's image finished prefetching
type ImageLoadedMsg struct {
	URL  string
	Size int
	Err  error
}

// CacheClearedMsg signals that the cache was emptied
type CacheClearedMsg struct {
	Err error
}

// MediaOpenedMsg signals that media was handed to an external program
type MediaOpenedMsg struct {
	URL            string
	Classification domain.MediaClassification
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// RequestDateMsg asks the model to resolve a date
type RequestDateMsg struct {
	Date time.Time
}
