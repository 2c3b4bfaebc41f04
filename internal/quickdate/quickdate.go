// Package quickdate turns shortcuts like "yesterday", "3 days ago" or a
// misspelled preset name into calendar days.
package quickdate

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/astrodaily/internal/domain"
)

// ErrUnrecognized is returned for input that names no date
var ErrUnrecognized = errors.New("unrecognized date")

// maxTypoDistance bounds the edit distance accepted for a misspelled preset
const maxTypoDistance = 3

// Preset is a named relative date offered as a shortcut
type Preset struct {
	Label  string
	Days   int
	Months int
}

// Presets lists the shortcuts in display order
var Presets = []Preset{
	{Label: "Today"},
	{Label: "Yesterday", Days: 1},
	{Label: "3 Days Ago", Days: 3},
	{Label: "1 Week Ago", Days: 7},
	{Label: "1 Month Ago", Months: 1},
}

// Date returns the preset's day relative to today
func (p Preset) Date(today time.Time) time.Time {
	d := domain.Day(today)
	if p.Months > 0 {
		d = monthsAgo(d, p.Months)
	}
	return d.AddDate(0, 0, -p.Days)
}

// monthsAgo steps back n calendar months, clamping to the target month's last day
func monthsAgo(d time.Time, n int) time.Time {
	first := time.Date(d.Year(), d.Month()-time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	return first.AddDate(0, 0, min(d.Day(), last)-1)
}

var relativePattern = regexp.MustCompile(`^(\d+)\s*(d|days?|w|weeks?|m|months?)(\s+ago)?$`)

// Parse resolves input against today. Accepted forms: YYYY-MM-DD, "today",
// "yesterday", "N days|weeks|months [ago]", "-N" (days), and preset labels,
// matched fuzzily so "yestrday" or "week ago" still resolve.
// Range checks are left to the resolver.
func Parse(input string, today time.Time) (time.Time, error) {
	q := strings.ToLower(strings.TrimSpace(input))
	if q == "" {
		return time.Time{}, fmt.Errorf("%w: empty input", ErrUnrecognized)
	}

	if d, err := domain.ParseDate(q); err == nil {
		return d, nil
	}

	switch q {
	case "today", "now":
		return domain.Day(today), nil
	case "yesterday":
		return domain.Day(today).AddDate(0, 0, -1), nil
	}

	if n, ok := strings.CutPrefix(q, "-"); ok {
		days, err := strconv.Atoi(n)
		if err != nil || days < 0 {
			return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognized, input)
		}
		return domain.Day(today).AddDate(0, 0, -days), nil
	}

	if m := relativePattern.FindStringSubmatch(q); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognized, input)
		}
		switch m[2][0] {
		case 'w':
			return Preset{Days: 7 * n}.Date(today), nil
		case 'm':
			return Preset{Months: n}.Date(today), nil
		default:
			return Preset{Days: n}.Date(today), nil
		}
	}

	if p, ok := matchPreset(q); ok {
		return p.Date(today), nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognized, input)
}

// matchPreset finds the preset whose label best matches q: first as an
// in-order subsequence, then by edit distance for typos.
func matchPreset(q string) (Preset, bool) {
	labels := make([]string, len(Presets))
	for i, p := range Presets {
		labels[i] = strings.ToLower(p.Label)
	}

	ranks := fuzzy.RankFindFold(q, labels)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return Presets[ranks[0].OriginalIndex], true
	}

	best, bestDistance := -1, maxTypoDistance+1
	for i, label := range labels {
		if d := fuzzy.LevenshteinDistance(q, label); d < bestDistance {
			best, bestDistance = i, d
		}
	}
	if best < 0 {
		return Preset{}, false
	}
	return Presets[best], true
}
