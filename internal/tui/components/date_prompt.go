package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/astrodaily/internal/domain"
	"github.com/mmcdole/astrodaily/internal/quickdate"
	"github.com/mmcdole/astrodaily/internal/tui/styles"
)

// DatePromptKeyMap defines key bindings inside the date prompt
type DatePromptKeyMap struct {
	Submit   key.Binding
	Cancel   key.Binding
	Next     key.Binding
	Prev     key.Binding
	Complete key.Binding
}

// DefaultDatePromptKeyMap returns the default date prompt key bindings
func DefaultDatePromptKeyMap() DatePromptKeyMap {
	return DatePromptKeyMap{
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "go")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Next:     key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next")),
		Prev:     key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "prev")),
		Complete: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
	}
}

// DatePrompt is a text input for dates with fuzzy preset suggestions
type DatePrompt struct {
	visible     bool
	input       textinput.Model
	suggestions []quickdate.Preset
	cursor      int
	keys        DatePromptKeyMap
}

// NewDatePrompt creates a new date prompt
func NewDatePrompt() DatePrompt {
	ti := textinput.New()
	ti.Placeholder = "YYYY-MM-DD, yesterday, 2 weeks ago..."
	ti.CharLimit = 32
	ti.Width = 36
	ti.Prompt = "› "
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return DatePrompt{
		input: ti,
		keys:  DefaultDatePromptKeyMap(),
	}
}

// Show displays the prompt with an empty input
func (p *DatePrompt) Show() {
	p.visible = true
	p.input.SetValue("")
	p.input.Focus()
	p.refreshSuggestions()
}

// Hide dismisses the prompt
func (p *DatePrompt) Hide() {
	p.visible = false
	p.input.Blur()
}

// IsVisible returns whether the prompt is shown
func (p DatePrompt) IsVisible() bool {
	return p.visible
}

// Value returns the current input text
func (p DatePrompt) Value() string {
	return p.input.Value()
}

// Suggestions returns the presets matching the current input
func (p DatePrompt) Suggestions() []quickdate.Preset {
	return p.suggestions
}

// Date resolves the prompt against today: the typed expression when it
// parses, otherwise the highlighted suggestion.
func (p DatePrompt) Date(today time.Time) (time.Time, error) {
	d, err := quickdate.Parse(p.input.Value(), today)
	if err == nil {
		return d, nil
	}
	if p.cursor < len(p.suggestions) {
		return p.suggestions[p.cursor].Date(today), nil
	}
	return time.Time{}, err
}

// Update handles input events, returns (prompt, cmd, submitted)
func (p DatePrompt) Update(msg tea.Msg) (DatePrompt, tea.Cmd, bool) {
	if !p.visible {
		return p, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, p.keys.Submit):
			return p, nil, true
		case key.Matches(keyMsg, p.keys.Cancel):
			p.Hide()
			return p, nil, false
		case key.Matches(keyMsg, p.keys.Next):
			if p.cursor < len(p.suggestions)-1 {
				p.cursor++
			}
			return p, nil, false
		case key.Matches(keyMsg, p.keys.Prev):
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil, false
		case key.Matches(keyMsg, p.keys.Complete):
			if p.cursor < len(p.suggestions) {
				p.input.SetValue(p.suggestions[p.cursor].Label)
				p.input.CursorEnd()
				p.refreshSuggestions()
			}
			return p, nil, false
		}
	}

	var cmd tea.Cmd
	before := p.input.Value()
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.refreshSuggestions()
	}
	return p, cmd, false
}

func (p *DatePrompt) refreshSuggestions() {
	p.suggestions = quickdate.Suggest(p.input.Value())
	p.cursor = 0
}

// View renders the prompt with its suggestion list
func (p DatePrompt) View(today time.Time) string {
	if !p.visible {
		return ""
	}

	const modalWidth = 40

	rows := []string{
		styles.ModalTitleStyle.Render("Go to date"),
		p.input.View(),
		"",
	}
	for i, s := range p.suggestions {
		label := fmt.Sprintf("%-12s %s", s.Label, domain.FormatDate(s.Date(today)))
		if i == p.cursor {
			rows = append(rows, styles.SelectedItemStyle.Width(modalWidth).Render(label))
		} else {
			rows = append(rows, styles.NormalItemStyle.Width(modalWidth).Render(label))
		}
	}
	rows = append(rows, "", styles.DimStyle.Render(fmt.Sprintf("earliest %s · tab complete · esc cancel", domain.FormatDate(domain.Epoch))))

	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
