package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/astrodaily/internal/domain"
)

// DefaultRetryBudget is the maximum number of days walked back from the requested date
const DefaultRetryBudget = 30

// ContentResolver turns a requested date into a record using the remote
// source, stepping back over unpublished days and falling back to the cache slot.
type ContentResolver struct {
	fetcher     domain.ContentFetcher
	cache       domain.RecordCache
	clock       domain.Clock
	observer    domain.ResolveObserver
	logger      *slog.Logger
	retryBudget int
}

// ResolverOption configures a ContentResolver
type ResolverOption func(*ContentResolver)

// WithObserver reports resolution events to o
func WithObserver(o domain.ResolveObserver) ResolverOption {
	return func(r *ContentResolver) { r.observer = o }
}

// WithRetryBudget overrides DefaultRetryBudget
func WithRetryBudget(n int) ResolverOption {
	return func(r *ContentResolver) { r.retryBudget = n }
}

// NewContentResolver creates a resolver. A nil clock uses the system clock.
func NewContentResolver(
	fetcher domain.ContentFetcher,
	cache domain.RecordCache,
	clock domain.Clock,
	logger *slog.Logger,
	opts ...ResolverOption,
) *ContentResolver {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = domain.SystemClock()
	}
	r := &ContentResolver{
		fetcher:     fetcher,
		cache:       cache,
		clock:       clock,
		observer:    domain.NoOpObserver{},
		logger:      logger,
		retryBudget: DefaultRetryBudget,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Today returns the resolver clock's current calendar day
func (r *ContentResolver) Today() time.Time {
	return domain.Today(r.clock)
}

// ValidateDate rejects days before the epoch or after today
func (r *ContentResolver) ValidateDate(date time.Time) error {
	day := domain.Day(date)
	if day.Before(domain.Epoch) {
		return &domain.DateError{Date: day, Reason: "content starts on " + domain.FormatDate(domain.Epoch)}
	}
	if day.After(r.Today()) {
		return &domain.DateError{Date: day, Reason: "date is in the future"}
	}
	return nil
}

// ResolveToday resolves the current calendar day
func (r *ContentResolver) ResolveToday(ctx context.Context) (domain.ResolutionResult, error) {
	return r.Resolve(ctx, r.Today())
}

// Resolve returns the record for requested, or the nearest earlier published
// day. Only no-content statuses step back a day; any other failure falls back
// to the cache slot or is returned. Fails only for an invalid date, a
// cancelled context, or when neither the network nor the cache has a record.
func (r *ContentResolver) Resolve(ctx context.Context, requested time.Time) (domain.ResolutionResult, error) {
	requested = domain.Day(requested)

	if err := r.ValidateDate(requested); err != nil {
		r.logger.Warn("rejected date", "date", domain.FormatDate(requested), "error", err)
		return r.fail(err)
	}

	cursor := requested
	var lastErr error

	for attempts := 0; attempts < r.retryBudget; attempts++ {
		if cursor.Before(domain.Epoch) {
			break
		}
		if err := ctx.Err(); err != nil {
			return r.fail(err)
		}

		record, err := r.fetcher.Fetch(ctx, cursor)
		if err == nil {
			r.observer.OnFetchAttempt(requested, cursor, domain.OutcomeSuccess)
			return r.resolved(requested, record), nil
		}
		lastErr = err

		if domain.IsNoContentError(err) {
			r.observer.OnFetchAttempt(requested, cursor, domain.OutcomeNoContent)
			r.logger.Debug("no content for date, stepping back", "date", domain.FormatDate(cursor), "attempt", attempts+1)
			cursor = cursor.AddDate(0, 0, -1)
			continue
		}

		r.observer.OnFetchAttempt(requested, cursor, domain.OutcomeFailure)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return r.fail(ctxErr)
		}

		if result, ok := r.fromCache(requested); ok {
			r.logger.Info("network error, using cached record", "error", err, "title", result.Record.Title)
			return result, nil
		}
		r.logger.Error("fetch failed and no cached record", "date", domain.FormatDate(cursor), "error", err)
		return r.fail(fmt.Errorf("fetch %s: %w", domain.FormatDate(cursor), err))
	}

	if result, ok := r.fromCache(requested); ok {
		r.logger.Info("no published content found, using cached record", "requested", domain.FormatDate(requested), "title", result.Record.Title)
		return result, nil
	}

	err := fmt.Errorf("%w for %s", domain.ErrNoContentAvailable, domain.FormatDate(requested))
	if lastErr != nil {
		err = fmt.Errorf("%w for %s: %w", domain.ErrNoContentAvailable, domain.FormatDate(requested), lastErr)
	}
	r.logger.Error("retry budget exhausted", "requested", domain.FormatDate(requested), "budget", r.retryBudget)
	return r.fail(err)
}

func (r *ContentResolver) resolved(requested time.Time, record *domain.ContentRecord) domain.ResolutionResult {
	if err := r.cache.PutRecord(record); err != nil {
		r.logger.Warn("failed to cache record", "error", err, "date", record.ID)
	}

	result := domain.ResolutionResult{
		Record:         *record,
		IsFromCache:    false,
		IsFallbackDate: !domain.SameDay(record.Date, requested),
	}
	r.logger.Info("resolved record", "requested", domain.FormatDate(requested), "date", record.ID, "fallback", result.IsFallbackDate)
	r.observer.OnResolved(result)
	return result
}

func (r *ContentResolver) fromCache(requested time.Time) (domain.ResolutionResult, bool) {
	cached, ok := r.cache.GetRecord()
	if !ok {
		return domain.ResolutionResult{}, false
	}
	result := domain.ResolutionResult{
		Record:         *cached,
		IsFromCache:    true,
		IsFallbackDate: !domain.SameDay(cached.Date, requested),
	}
	r.observer.OnResolved(result)
	return result, true
}

func (r *ContentResolver) fail(err error) (domain.ResolutionResult, error) {
	r.observer.OnResolveFailed(err)
	return domain.ResolutionResult{}, err
}
