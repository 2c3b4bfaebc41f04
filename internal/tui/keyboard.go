package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/astrodaily/internal/domain"
)

// handleKeyMsg routes key presses to the prompt, the help screen or the viewer
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.DatePrompt.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.DatePrompt, cmd, submitted = m.DatePrompt.Update(msg)
		if !submitted {
			return m, cmd
		}
		date, err := m.DatePrompt.Date(m.svc.Resolver.Today())
		if err != nil {
			return m.setStatus(err.Error(), true)
		}
		m.DatePrompt.Hide()
		return m.request(date)
	}

	if m.ShowHelp {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.ShowHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.ShowHelp = true
		return m, nil

	case key.Matches(msg, Keys.PrevDay):
		if !m.Requested.After(domain.Epoch) {
			return m.setStatus("No earlier entries", false)
		}
		return m.request(m.Requested.AddDate(0, 0, -1))

	case key.Matches(msg, Keys.NextDay):
		if !m.Requested.Before(m.svc.Resolver.Today()) {
			return m.setStatus("Already at today", false)
		}
		return m.request(m.Requested.AddDate(0, 0, 1))

	case key.Matches(msg, Keys.Today):
		return m.request(m.svc.Resolver.Today())

	case key.Matches(msg, Keys.PickDate):
		m.DatePrompt.Show()
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		if m.Requested.IsZero() {
			return m.request(m.svc.Resolver.Today())
		}
		return m.request(m.Requested)

	case key.Matches(msg, Keys.Open):
		loaded, ok := m.State.(ViewLoaded)
		if !ok || m.svc.Opener == nil {
			return m, nil
		}
		return m, OpenMediaCmd(m.svc.Opener, loaded.Result.Record)

	case key.Matches(msg, Keys.ClearCache):
		if m.svc.Cache == nil {
			return m, nil
		}
		return m, ClearCacheCmd(m.svc.Cache)

	case key.Matches(msg, Keys.Up), key.Matches(msg, Keys.Down):
		var cmd tea.Cmd
		m.Viewport, cmd = m.Viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// request starts resolving date
func (m Model) request(date time.Time) (tea.Model, tea.Cmd) {
	m.Requested = domain.Day(date)
	m.State = ViewLoading{}
	m.ImageStatus = ""
	m.logger.Info("requesting date", "date", domain.FormatDate(m.Requested))
	return m, tea.Batch(ResolveCmd(m.svc.Resolver, m.Requested), m.Spinner.Tick)
}

func (m Model) setStatus(msg string, isErr bool) (tea.Model, tea.Cmd) {
	m.StatusMsg = msg
	m.StatusIsErr = isErr
	return m, ClearStatusCmd(statusTimeout)
}
