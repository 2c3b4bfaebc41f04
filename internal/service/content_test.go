package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/astrodaily/internal/domain"
)

const today = "2024-03-10"

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func newResolver(fetcher *fakeFetcher, cache *memoryCache, opts ...ResolverOption) *ContentResolver {
	return NewContentResolver(fetcher, cache, fixedClock(today), nil, opts...)
}

func TestResolve_RejectsOutOfRangeDates(t *testing.T) {
	tests := []struct {
		name string
		date string
	}{
		{"before epoch", "1995-06-15"},
		{"far past", "1900-01-01"},
		{"tomorrow", "2024-03-11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := newFakeFetcher()
			r := newResolver(fetcher, newMemoryCache())

			_, err := r.Resolve(context.Background(), mustDate(t, tt.date))

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidDate)
			var dateErr *domain.DateError
			assert.True(t, errors.As(err, &dateErr))
			assert.Empty(t, fetcher.calls, "no remote call for an invalid date")
		})
	}
}

func TestResolve_EpochAndTodayAreValid(t *testing.T) {
	fetcher := newFakeFetcher().on("1995-06-16", nil).on(today, nil)
	r := newResolver(fetcher, newMemoryCache())

	_, err := r.Resolve(context.Background(), domain.Epoch)
	require.NoError(t, err)

	res, err := r.ResolveToday(context.Background())
	require.NoError(t, err)
	assert.Equal(t, today, res.Record.ID)
}

func TestResolve_ExactDate(t *testing.T) {
	fetcher := newFakeFetcher().on("2024-01-15", nil)
	cache := newMemoryCache()
	r := newResolver(fetcher, cache)

	res, err := r.Resolve(context.Background(), mustDate(t, "2024-01-15"))

	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", res.Record.ID)
	assert.False(t, res.IsFromCache)
	assert.False(t, res.IsFallbackDate)

	cached, ok := cache.GetRecord()
	require.True(t, ok)
	assert.Equal(t, "2024-01-15", cached.ID)
}

func TestResolve_StepsBackOverNoContent(t *testing.T) {
	fetcher := newFakeFetcher().
		on(today, notFound()).
		on("2024-03-09", nil)
	r := newResolver(fetcher, newMemoryCache())

	res, err := r.ResolveToday(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "2024-03-09", res.Record.ID)
	assert.True(t, res.IsFallbackDate)
	assert.False(t, res.IsFromCache)
	assert.Equal(t, []string{today, "2024-03-09"}, fetcher.calls)
}

func TestResolve_AllNoContentStatusesStepBack(t *testing.T) {
	for _, code := range []int{404, 204, 422} {
		fetcher := newFakeFetcher().
			on("2024-01-15", &domain.FetchError{Kind: domain.FetchStatus, StatusCode: code}).
			on("2024-01-14", nil)
		r := newResolver(fetcher, newMemoryCache())

		res, err := r.Resolve(context.Background(), mustDate(t, "2024-01-15"))

		require.NoError(t, err, "status %d", code)
		assert.Equal(t, "2024-01-14", res.Record.ID)
	}
}

func TestResolve_BudgetExhaustedWithoutCache(t *testing.T) {
	fetcher := newFakeFetcher()
	r := newResolver(fetcher, newMemoryCache())

	_, err := r.Resolve(context.Background(), mustDate(t, "2024-01-15"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoContentAvailable)
	assert.Len(t, fetcher.calls, DefaultRetryBudget)
	assert.Equal(t, "2024-01-15", fetcher.calls[0])
	assert.Equal(t, "2023-12-17", fetcher.calls[DefaultRetryBudget-1])
}

func TestResolve_BudgetExhaustedUsesCache(t *testing.T) {
	fetcher := newFakeFetcher()
	cache := newMemoryCache()
	require.NoError(t, cache.PutRecord(testRecord("2023-06-01")))
	r := newResolver(fetcher, cache)

	res, err := r.Resolve(context.Background(), mustDate(t, "2024-01-15"))

	require.NoError(t, err)
	assert.True(t, res.IsFromCache)
	assert.True(t, res.IsFallbackDate)
	assert.Equal(t, "2023-06-01", res.Record.ID)
}

func TestResolve_CustomRetryBudget(t *testing.T) {
	fetcher := newFakeFetcher()
	r := newResolver(fetcher, newMemoryCache(), WithRetryBudget(3))

	_, err := r.Resolve(context.Background(), mustDate(t, "2024-01-15"))

	assert.ErrorIs(t, err, domain.ErrNoContentAvailable)
	assert.Len(t, fetcher.calls, 3)
}

func TestResolve_StopsAtEpoch(t *testing.T) {
	fetcher := newFakeFetcher()
	r := newResolver(fetcher, newMemoryCache())

	_, err := r.Resolve(context.Background(), mustDate(t, "1995-06-17"))

	assert.ErrorIs(t, err, domain.ErrNoContentAvailable)
	assert.Equal(t, []string{"1995-06-17", "1995-06-16"}, fetcher.calls)
}

func TestResolve_NetworkErrorFallsBackToCache(t *testing.T) {
	transport := &domain.FetchError{Kind: domain.FetchTransport, Err: errors.New("connection refused")}
	fetcher := newFakeFetcher().on(today, transport)
	cache := newMemoryCache()
	require.NoError(t, cache.PutRecord(testRecord(today)))
	r := newResolver(fetcher, cache)

	res, err := r.ResolveToday(context.Background())

	require.NoError(t, err)
	assert.True(t, res.IsFromCache)
	assert.False(t, res.IsFallbackDate, "cached record matches the requested day")
	assert.Len(t, fetcher.calls, 1, "non no-content errors do not step back")
}

func TestResolve_NetworkErrorWithoutCache(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind domain.FetchErrorKind
	}{
		{"transport", &domain.FetchError{Kind: domain.FetchTransport, Err: errors.New("refused")}, domain.FetchTransport},
		{"server error", &domain.FetchError{Kind: domain.FetchStatus, StatusCode: 500}, domain.FetchStatus},
		{"decode", &domain.FetchError{Kind: domain.FetchDecode, Err: errors.New("bad json")}, domain.FetchDecode},
		{"no data", &domain.FetchError{Kind: domain.FetchNoData}, domain.FetchNoData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := newFakeFetcher().on("2024-01-15", tt.err)
			r := newResolver(fetcher, newMemoryCache())

			_, err := r.Resolve(context.Background(), mustDate(t, "2024-01-15"))

			require.Error(t, err)
			var fetchErr *domain.FetchError
			require.True(t, errors.As(err, &fetchErr))
			assert.Equal(t, tt.kind, fetchErr.Kind)
			assert.Len(t, fetcher.calls, 1)
		})
	}
}

func TestResolve_CacheWriteFailureIsIgnored(t *testing.T) {
	fetcher := newFakeFetcher().on("2024-01-15", nil)
	cache := newMemoryCache()
	cache.putErr = errDiskFull
	r := newResolver(fetcher, cache)

	res, err := r.Resolve(context.Background(), mustDate(t, "2024-01-15"))

	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", res.Record.ID)
}

func TestResolve_CancelledContext(t *testing.T) {
	fetcher := newFakeFetcher()
	cache := newMemoryCache()
	require.NoError(t, cache.PutRecord(testRecord("2024-01-01")))
	r := newResolver(fetcher, cache)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Resolve(ctx, mustDate(t, "2024-01-15"))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fetcher.calls)
}

type recordingObserver struct {
	domain.NoOpObserver
	attempts []domain.FetchOutcome
	resolved []domain.ResolutionResult
	failures []error
}

func (o *recordingObserver) OnFetchAttempt(_, _ time.Time, outcome domain.FetchOutcome) {
	o.attempts = append(o.attempts, outcome)
}

func (o *recordingObserver) OnResolved(r domain.ResolutionResult) {
	o.resolved = append(o.resolved, r)
}

func (o *recordingObserver) OnResolveFailed(err error) {
	o.failures = append(o.failures, err)
}

func TestResolve_ReportsToObserver(t *testing.T) {
	obs := &recordingObserver{}
	fetcher := newFakeFetcher().on(today, notFound()).on("2024-03-09", nil)
	r := newResolver(fetcher, newMemoryCache(), WithObserver(obs))

	_, err := r.ResolveToday(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []domain.FetchOutcome{domain.OutcomeNoContent, domain.OutcomeSuccess}, obs.attempts)
	require.Len(t, obs.resolved, 1)
	assert.True(t, obs.resolved[0].IsFallbackDate)

	_, err = r.Resolve(context.Background(), mustDate(t, "2030-01-01"))
	require.Error(t, err)
	require.Len(t, obs.failures, 1)
	assert.ErrorIs(t, obs.failures[0], domain.ErrInvalidDate)
}
