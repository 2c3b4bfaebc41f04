package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/astrodaily/internal/domain"
	"github.com/mmcdole/astrodaily/internal/tui/styles"
)

// refreshViewport re-renders the loaded record into the viewport
func (m *Model) refreshViewport() {
	loaded, ok := m.State.(ViewLoaded)
	if !ok {
		return
	}
	m.Viewport.SetContent(styles.ContentStyle.Render(RenderRecord(m.Requested, loaded.Result, m.Width)))
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}
	if m.ShowHelp {
		return m.renderHelp()
	}

	contentHeight := max(m.Height-ChromeHeight, 1)

	var content string
	switch s := m.State.(type) {
	case ViewLoaded:
		content = m.Viewport.View()
	case ViewLoading:
		content = styles.ContentStyle.Render(RenderLoading(m.Spinner.View(), m.Requested, s))
	case ViewFailed:
		content = styles.ContentStyle.Render(RenderFailed(s.Err, m.Width))
	default:
		content = styles.ContentStyle.Render(RenderEmpty())
	}

	if m.DatePrompt.IsVisible() {
		content = lipgloss.Place(m.Width, contentHeight, lipgloss.Center, lipgloss.Center,
			m.DatePrompt.View(m.svc.Resolver.Today()))
	}

	content = lipgloss.NewStyle().Height(contentHeight).MaxHeight(contentHeight).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderFooter())
}

// renderFooter renders status on the left and the help hint on the right
func (m Model) renderFooter() string {
	var left string
	switch {
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.SuccessStyle.Render(m.StatusMsg)
	case m.ImageStatus != "":
		left = styles.DimStyle.Render(m.ImageStatus)
	}

	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")
	if !m.Requested.IsZero() {
		right = styles.DimStyle.Render(domain.FormatDate(m.Requested)+" · ") + right
	}

	gap := max(m.Width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + strings.Repeat(" ", gap) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	bindings := []key.Binding{
		Keys.PrevDay, Keys.NextDay, Keys.Today, Keys.PickDate,
		Keys.Up, Keys.Down, Keys.Refresh, Keys.Open, Keys.ClearCache, Keys.Quit,
	}

	var rows []string
	for _, b := range bindings {
		h := b.Help()
		rows = append(rows, fmt.Sprintf("  %s  %s",
			styles.HelpKeyStyle.Render(fmt.Sprintf("%-6s", h.Key)),
			styles.HelpDescStyle.Render(h.Desc)))
	}
	rows = append(rows, "", styles.DimStyle.Render("  Press any key to close"))

	help := styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		append([]string{styles.ModalTitleStyle.Render("Keys")}, rows...)...))
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, help)
}
