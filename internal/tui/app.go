package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/astrodaily/internal/domain"
	"github.com/mmcdole/astrodaily/internal/tui/components"
	"github.com/mmcdole/astrodaily/internal/tui/styles"
)

const (
	// Vertical layout: single footer line
	ChromeHeight = 1

	statusTimeout = 4 * time.Second
)

// Services are the collaborators the viewer drives
type Services struct {
	Resolver ContentResolver
	Images   ImageLoader
	Cache    CacheClearer
	Opener   MediaOpener

	// Progress receives fetch attempts from the resolver's observer; may be nil
	Progress <-chan FetchProgressMsg
	Logger   *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	svc    Services
	logger *slog.Logger

	// Content state
	State     ViewState
	Requested time.Time

	// UI Components
	Viewport   viewport.Model
	Spinner    spinner.Model
	DatePrompt components.DatePrompt

	// Dimensions
	Width  int
	Height int
	Ready  bool

	// UI state
	ShowHelp    bool
	ImageStatus string
	StatusMsg   string
	StatusIsErr bool
}

// NewModel creates a new application model
func NewModel(svc Services) Model {
	logger := svc.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	return Model{
		svc:        svc,
		logger:     logger,
		State:      ViewEmpty{},
		Viewport:   viewport.New(0, 0),
		Spinner:    sp,
		DatePrompt: components.NewDatePrompt(),
	}
}

// Init requests today's record
func (m Model) Init() tea.Cmd {
	today := m.svc.Resolver.Today()
	return tea.Batch(
		func() tea.Msg { return RequestDateMsg{Date: today} },
		WaitForProgressCmd(m.svc.Progress),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.Viewport.Width = msg.Width
		m.Viewport.Height = max(msg.Height-ChromeHeight, 1)
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		if _, loading := m.State.(ViewLoading); !loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case RequestDateMsg:
		return m.request(msg.Date)

	case FetchProgressMsg:
		if s, loading := m.State.(ViewLoading); loading && domain.SameDay(msg.Requested, m.Requested) {
			s.Attempts++
			s.LastTried = msg.Date
			m.State = s
		}
		return m, WaitForProgressCmd(m.svc.Progress)

	case ContentResolvedMsg:
		if !domain.SameDay(msg.Requested, m.Requested) {
			return m, nil // stale: user moved on
		}
		m.State = ViewLoaded{Result: msg.Result}
		m.Viewport.GotoTop()
		m.refreshViewport()

		rec := msg.Result.Record
		if rec.MediaKind != domain.MediaKindImage || m.svc.Images == nil {
			m.ImageStatus = ""
			return m, nil
		}
		m.ImageStatus = "Fetching image..."
		return m, LoadImageCmd(m.svc.Images, rec.BestImageURL())

	case ContentFailedMsg:
		if !domain.SameDay(msg.Requested, m.Requested) {
			return m, nil
		}
		m.logger.Error("resolution failed", "date", domain.FormatDate(msg.Requested), "error", msg.Err)
		m.State = ViewFailed{Err: msg.Err}
		m.ImageStatus = ""
		return m, nil

	case ImageLoadedMsg:
		loaded, ok := m.State.(ViewLoaded)
		if !ok || loaded.Result.Record.BestImageURL() != msg.URL {
			return m, nil
		}
		if msg.Err != nil {
			m.ImageStatus = "Image unavailable: " + msg.Err.Error()
		} else {
			m.ImageStatus = "Image ready · " + formatBytes(msg.Size)
		}
		return m, nil

	case CacheClearedMsg:
		if msg.Err != nil {
			return m.setStatus("Failed to clear cache: "+msg.Err.Error(), true)
		}
		return m.setStatus("Cache cleared", false)

	case MediaOpenedMsg:
		target := "browser"
		if msg.Classification.Kind == domain.PlaybackDirect {
			target = "player"
		}
		return m.setStatus("Opened in "+target, false)

	case ErrMsg:
		m.logger.Error("command failed", "context", msg.Context, "error", msg.Err)
		return m.setStatus(msg.Error(), true)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}
