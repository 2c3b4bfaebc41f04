package tui

import (
	"time"

	"github.com/mmcdole/astrodaily/internal/domain"
)

// ViewState is the content area's state: one of ViewEmpty, ViewLoading,
// ViewLoaded or ViewFailed.
type ViewState interface {
	isViewState()
}

// ViewEmpty is shown before anything has been requested
type ViewEmpty struct{}

// ViewLoading is shown while a date resolves
type ViewLoading struct {
	Attempts int
	// LastTried is the date of the latest fetch attempt, zero before the first one
	LastTried time.Time
}

// ViewLoaded shows a resolved record
type ViewLoaded struct {
	Result domain.ResolutionResult
}

// ViewFailed shows a resolution error
type ViewFailed struct {
	Err error
}

func (ViewEmpty) isViewState()   {}
func (ViewLoading) isViewState() {}
func (ViewLoaded) isViewState()  {}
func (ViewFailed) isViewState()  {}
