package quickdate

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Suggest returns the presets matching a partially typed prompt, best first.
// Empty input returns every preset.
func Suggest(input string) []Preset {
	q := strings.ToLower(strings.TrimSpace(input))
	if q == "" {
		return append([]Preset(nil), Presets...)
	}

	labels := make([]string, len(Presets))
	for i, p := range Presets {
		labels[i] = strings.ToLower(p.Label)
	}

	matches := fuzzy.Find(q, labels)
	out := make([]Preset, 0, len(matches))
	for _, m := range matches {
		out = append(out, Presets[m.Index])
	}
	return out
}
