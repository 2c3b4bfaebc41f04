package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/astrodaily/internal/domain"
)

var today = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

type stubResolver struct{}

func (stubResolver) Resolve(context.Context, time.Time) (domain.ResolutionResult, error) {
	return domain.ResolutionResult{}, errors.New("not used")
}

func (stubResolver) Today() time.Time { return today }

type stubOpener struct {
	url  string
	kind domain.PlaybackKind
}

func (o *stubOpener) Open(url string, c domain.MediaClassification) error {
	o.url = url
	o.kind = c.Kind
	return nil
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := NewModel(Services{Resolver: stubResolver{}})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func result(t *testing.T, date, mediaType, url string, fromCache, fallback bool) domain.ResolutionResult {
	t.Helper()
	rec, err := domain.NewContentRecord(domain.RecordFields{
		Date: date, Title: "Pillars of Creation", Explanation: "Columns of gas.", MediaType: mediaType, URL: url,
	})
	require.NoError(t, err)
	return domain.ResolutionResult{Record: *rec, IsFromCache: fromCache, IsFallbackDate: fallback}
}

func TestModel_StartsEmptyThenLoads(t *testing.T) {
	m := newTestModel(t)
	assert.IsType(t, ViewEmpty{}, m.State)
	assert.Contains(t, m.View(), "Press t for today")

	m, cmd := update(t, m, RequestDateMsg{Date: today})

	assert.IsType(t, ViewLoading{}, m.State)
	assert.True(t, m.Requested.Equal(today))
	assert.NotNil(t, cmd)
}

func TestModel_ResolvedShowsFallbackBanner(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, RequestDateMsg{Date: today})

	m, cmd := update(t, m, ContentResolvedMsg{
		Requested: today,
		Result:    result(t, "2024-03-09", "image", "https://example.com/a.jpg", false, true),
	})

	require.IsType(t, ViewLoaded{}, m.State)
	assert.NotNil(t, cmd, "image prefetch starts")
	assert.Equal(t, "Fetching image...", m.ImageStatus)
	view := m.View()
	assert.Contains(t, view, "Pillars of Creation")
	assert.Contains(t, view, "Nothing published for 2024-03-10")
}

func TestModel_CacheBanner(t *testing.T) {
	banner := RenderBanner(today, result(t, "2024-03-01", "image", "https://example.com/a.jpg", true, true))
	assert.Contains(t, banner, "Offline")
	assert.Contains(t, banner, "2024-03-01")

	assert.Empty(t, RenderBanner(today, result(t, "2024-03-10", "image", "https://example.com/a.jpg", false, false)))
}

func TestModel_IgnoresStaleResults(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, RequestDateMsg{Date: today})
	m, _ = update(t, m, keyPress("h"))
	require.True(t, m.Requested.Equal(today.AddDate(0, 0, -1)))

	m, _ = update(t, m, ContentResolvedMsg{
		Requested: today,
		Result:    result(t, "2024-03-10", "image", "https://example.com/a.jpg", false, false),
	})

	assert.IsType(t, ViewLoading{}, m.State)
}

func TestModel_DayNavigationBounds(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, RequestDateMsg{Date: today})

	m, _ = update(t, m, keyPress("l"))
	assert.True(t, m.Requested.Equal(today), "cannot move past today")
	assert.Equal(t, "Already at today", m.StatusMsg)

	m, _ = update(t, m, RequestDateMsg{Date: domain.Epoch})
	m, _ = update(t, m, keyPress("h"))
	assert.True(t, m.Requested.Equal(domain.Epoch))
	assert.Equal(t, "No earlier entries", m.StatusMsg)
}

func TestModel_FetchProgressUpdatesLoading(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, RequestDateMsg{Date: today})

	m, _ = update(t, m, FetchProgressMsg{Requested: today, Date: today, Outcome: domain.OutcomeNoContent})
	m, _ = update(t, m, FetchProgressMsg{Requested: today, Date: today.AddDate(0, 0, -1), Outcome: domain.OutcomeNoContent})

	loading, ok := m.State.(ViewLoading)
	require.True(t, ok)
	assert.Equal(t, 2, loading.Attempts)
	assert.Contains(t, m.View(), "trying 2024-03-09")
}

func TestModel_IgnoresProgressFromReplacedRequest(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, RequestDateMsg{Date: today})
	m, _ = update(t, m, keyPress("h"))
	yesterday := today.AddDate(0, 0, -1)
	require.True(t, m.Requested.Equal(yesterday))

	m, _ = update(t, m, FetchProgressMsg{Requested: today, Date: yesterday, Outcome: domain.OutcomeNoContent})
	m, _ = update(t, m, FetchProgressMsg{Requested: yesterday, Date: yesterday, Outcome: domain.OutcomeNoContent})

	loading, ok := m.State.(ViewLoading)
	require.True(t, ok)
	assert.Equal(t, 1, loading.Attempts)
}

func TestChannelObserver_TagsRequestedDate(t *testing.T) {
	ch := make(chan FetchProgressMsg, 1)
	obs := NewChannelObserver(ch)
	yesterday := today.AddDate(0, 0, -1)

	obs.OnFetchAttempt(today, yesterday, domain.OutcomeNoContent)
	obs.OnFetchAttempt(today, yesterday, domain.OutcomeNoContent) // full channel drops

	msg := <-ch
	assert.True(t, msg.Requested.Equal(today))
	assert.True(t, msg.Date.Equal(yesterday))
	assert.Empty(t, ch)
}

func TestModel_StatusMessages(t *testing.T) {
	m := newTestModel(t)

	m, cmd := update(t, m, CacheClearedMsg{})
	assert.NotNil(t, cmd)
	assert.Equal(t, "Cache cleared", m.StatusMsg)
	assert.False(t, m.StatusIsErr)
	assert.Contains(t, m.View(), "Cache cleared")

	m, _ = update(t, m, CacheClearedMsg{Err: errors.New("permission denied")})
	assert.True(t, m.StatusIsErr)
	assert.Contains(t, m.View(), "Failed to clear cache: permission denied")

	m, _ = update(t, m, ClearStatusMsg{})
	assert.Empty(t, m.StatusMsg)
}

func TestModel_Failed(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, RequestDateMsg{Date: today})

	m, _ = update(t, m, ContentFailedMsg{Requested: today, Err: domain.ErrNoContentAvailable})

	require.IsType(t, ViewFailed{}, m.State)
	assert.Contains(t, m.View(), "no content available")
}

func TestModel_ImageStatus(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, RequestDateMsg{Date: today})
	m, _ = update(t, m, ContentResolvedMsg{
		Requested: today,
		Result:    result(t, "2024-03-10", "image", "https://example.com/a.jpg", false, false),
	})

	m, _ = update(t, m, ImageLoadedMsg{URL: "https://example.com/other.jpg", Size: 10})
	assert.Equal(t, "Fetching image...", m.ImageStatus, "other URLs are ignored")

	m, _ = update(t, m, ImageLoadedMsg{URL: "https://example.com/a.jpg", Size: 2048})
	assert.Equal(t, "Image ready · 2 KB", m.ImageStatus)
}

func TestModel_OpenVideo(t *testing.T) {
	opener := &stubOpener{}
	m := NewModel(Services{Resolver: stubResolver{}, Opener: opener})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m, _ = update(t, m, RequestDateMsg{Date: today})
	m, _ = update(t, m, ContentResolvedMsg{
		Requested: today,
		Result:    result(t, "2024-03-10", "video", "https://www.youtube.com/embed/abc123", false, false),
	})

	_, cmd := update(t, m, keyPress("o"))
	require.NotNil(t, cmd)
	msg := cmd()

	opened, ok := msg.(MediaOpenedMsg)
	require.True(t, ok)
	assert.Equal(t, domain.PlaybackEmbedded, opened.Classification.Kind)
	assert.Equal(t, "https://www.youtube.com/embed/abc123", opener.url)
}

func TestModel_DatePrompt(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, keyPress("d"))
	require.True(t, m.DatePrompt.IsVisible())

	for _, r := range "yesterday" {
		m, _ = update(t, m, keyPress(string(r)))
	}
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.DatePrompt.IsVisible())
	assert.True(t, m.Requested.Equal(today.AddDate(0, 0, -1)))
	assert.IsType(t, ViewLoading{}, m.State)
	assert.NotNil(t, cmd)
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := update(t, m, keyPress("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
