package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/astrodaily/internal/domain"
	"github.com/mmcdole/astrodaily/internal/media"
)

const (
	resolveTimeout = 2 * time.Minute
	imageTimeout   = time.Minute
)

// ContentResolver resolves dates to records
type ContentResolver interface {
	Resolve(ctx context.Context, date time.Time) (domain.ResolutionResult, error)
	Today() time.Time
}

// ImageLoader loads image bytes cache-first
type ImageLoader interface {
	LoadImage(ctx context.Context, url string) ([]byte, error)
}

// CacheClearer empties the on-disk cache
type CacheClearer interface {
	Clear() error
}

// MediaOpener hands a media URL to an external program
type MediaOpener interface {
	Open(url string, c domain.MediaClassification) error
}

// Command factories for async operations

// ResolveCmd resolves a date in the background
func ResolveCmd(resolver ContentResolver, date time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
		defer cancel()

		result, err := resolver.Resolve(ctx, date)
		if err != nil {
			return ContentFailedMsg{Requested: date, Err: err}
		}
		return ContentResolvedMsg{Requested: date, Result: result}
	}
}

// LoadImageCmd prefetches an image into the cache
func LoadImageCmd(images ImageLoader, url string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), imageTimeout)
		defer cancel()

		data, err := images.LoadImage(ctx, url)
		return ImageLoadedMsg{URL: url, Size: len(data), Err: err}
	}
}

// ClearCacheCmd empties the cache
func ClearCacheCmd(cache CacheClearer) tea.Cmd {
	return func() tea.Msg {
		return CacheClearedMsg{Err: cache.Clear()}
	}
}

// OpenMediaCmd opens the record's media with the strategy the classifier picks
func OpenMediaCmd(opener MediaOpener, record domain.ContentRecord) tea.Cmd {
	return func() tea.Msg {
		url, classification := media.OpenTarget(record)
		if err := opener.Open(url, classification); err != nil {
			return ErrMsg{Err: err, Context: "opening media"}
		}
		return MediaOpenedMsg{URL: url, Classification: classification}
	}
}

// WaitForProgressCmd waits for the next fetch attempt report
func WaitForProgressCmd(ch <-chan FetchProgressMsg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
