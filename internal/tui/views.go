package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/astrodaily/internal/domain"
	"github.com/mmcdole/astrodaily/internal/media"
	"github.com/mmcdole/astrodaily/internal/tui/styles"
)

// RenderRecord renders a resolved record with its provenance banners
func RenderRecord(requested time.Time, r domain.ResolutionResult, width int) string {
	rec := r.Record
	textWidth := max(width-4, 20)

	var b strings.Builder

	meta := []string{
		styles.BadgeStyle.Render(rec.ID),
		styles.DimBadgeStyle.Render(rec.MediaKind.DisplayName()),
	}
	if rec.Attribution != "" {
		meta = append(meta, styles.DimStyle.Render("© "+rec.Attribution))
	}
	header := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render(wordWrap(rec.Title, textWidth)),
		strings.Join(meta, " "),
	)
	b.WriteString(styles.HeaderStyle.Render(header))
	b.WriteString("\n")

	if banner := RenderBanner(requested, r); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n\n")
	}

	b.WriteString(wordWrap(rec.Explanation, textWidth))
	b.WriteString("\n\n")
	b.WriteString(renderMediaLine(rec, textWidth))

	return b.String()
}

// RenderBanner explains where a record came from when it is not the
// requested day fetched live. Empty otherwise.
func RenderBanner(requested time.Time, r domain.ResolutionResult) string {
	switch {
	case r.IsFromCache:
		return styles.CacheBannerStyle.Render(fmt.Sprintf(
			"Offline · showing saved record from %s", r.Record.ID))
	case r.IsFallbackDate:
		return styles.FallbackBannerStyle.Render(fmt.Sprintf(
			"Nothing published for %s · showing %s", domain.FormatDate(requested), r.Record.ID))
	default:
		return ""
	}
}

func renderMediaLine(rec domain.ContentRecord, width int) string {
	if rec.MediaKind == domain.MediaKindVideo {
		c := media.Classify(rec.PrimaryURL)
		how := "opens in browser"
		if c.Kind == domain.PlaybackDirect {
			how = "opens in player"
		}
		return styles.SubtitleStyle.Render(fmt.Sprintf("Video · %s (%s, %s confidence)", how, c.Kind, c.Confidence)) +
			"\n" + styles.DimStyle.Render(styles.Truncate(rec.PrimaryURL, width))
	}
	return styles.SubtitleStyle.Render("Image") + "\n" + styles.DimStyle.Render(styles.Truncate(rec.BestImageURL(), width))
}

// RenderLoading renders the loading state, including day-stepping progress
func RenderLoading(spinnerView string, requested time.Time, s ViewLoading) string {
	lines := []string{spinnerView + " " + styles.SubtitleStyle.Render("Loading "+domain.FormatDate(requested)+"...")}
	if s.Attempts > 1 && !s.LastTried.IsZero() {
		lines = append(lines, styles.DimStyle.Render(fmt.Sprintf(
			"No entry yet, trying %s (attempt %d)", domain.FormatDate(s.LastTried), s.Attempts)))
	}
	return strings.Join(lines, "\n")
}

// RenderFailed renders a resolution error with recovery hints
func RenderFailed(err error, width int) string {
	return RenderError(err, width) + "\n\n" +
		styles.DimStyle.Render("r retry · h/l change day · d pick a date")
}

// RenderEmpty renders the state before anything is requested
func RenderEmpty() string {
	return styles.DimStyle.Render("Press t for today or d to pick a date")
}

// wordWrap wraps text to the specified width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wordLen := len([]rune(word))

		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}

		if i > 0 && lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}

		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}

// RenderError renders an error message
func RenderError(err error, width int) string {
	msg := wordWrap(err.Error(), width-4)
	return styles.ErrorStyle.Render("Error: " + msg)
}

// formatBytes renders a byte count for the status line
func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%d KB", n>>10)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
