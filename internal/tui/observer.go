package tui

import (
	"time"

	"github.com/mmcdole/astrodaily/internal/domain"
)

// ChannelObserver adapts domain.ResolveObserver to a channel for Bubble Tea,
// forwarding each fetch attempt so the loading view can show day-stepping.
type ChannelObserver struct {
	domain.NoOpObserver
	ch chan<- FetchProgressMsg
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver(ch chan<- FetchProgressMsg) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// OnFetchAttempt sends progress to the channel (non-blocking if full).
func (o *ChannelObserver) OnFetchAttempt(requested, date time.Time, outcome domain.FetchOutcome) {
	select {
	case o.ch <- FetchProgressMsg{Requested: requested, Date: date, Outcome: outcome}:
	default: // Non-blocking if channel full
	}
}
