// Package media classifies media URLs so callers can pick a rendering strategy.
package media

import (
	"net/url"
	"path"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mmcdole/astrodaily/internal/domain"
)

// Video ID length bounds for v= / video= parameters
const (
	minVideoIDLength = 6
	maxVideoIDLength = 20
)

var (
	videoExtensions = []string{"mp4", "mov", "avi", "mkv", "webm", "m4v", "3gp", "flv", "m3u8", "ts"}

	videoIndicators = []string{"video", "watch", "embed", "player", "stream"}

	// Matched as host prefix or suffix
	videoDomainPatterns = []string{
		"player.", "embed.", "video.", "watch.", "stream.",
		".tv", ".video", ".stream",
	}

	videoParams = []string{"v", "video", "embed", "autoplay", "controls", "loop", "muted"}

	iframeIndicators = []string{"embed", "player", "widget", "iframe", "api", "oembed"}
)

// Classify scores a media URL. Rules are evaluated in order and the first
// match wins; direct-file detection runs first so a .mp4 on a "stream" host
// stays direct.
func Classify(rawURL string) domain.MediaClassification {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return unknown()
	}

	if isDirectVideoFile(u) {
		return domain.MediaClassification{
			Kind:       domain.PlaybackDirect,
			Confidence: domain.ConfidenceHigh,
			Reason:     "direct video file extension",
		}
	}
	if c, ok := classifyEmbeddedPattern(u); ok {
		return c
	}
	if c, ok := classifyQueryParams(u); ok {
		return c
	}
	if c, ok := classifyIframeHost(u); ok {
		return c
	}
	return unknown()
}

func unknown() domain.MediaClassification {
	return domain.MediaClassification{
		Kind:       domain.PlaybackUnknown,
		Confidence: domain.ConfidenceLow,
		Reason:     "no clear video indicators found",
	}
}

func embedded(confidence domain.Confidence, reason string) domain.MediaClassification {
	return domain.MediaClassification{Kind: domain.PlaybackEmbedded, Confidence: confidence, Reason: reason}
}

func isDirectVideoFile(u *url.URL) bool {
	for name, values := range u.Query() {
		name = strings.ToLower(name)
		if name != "format" && name != "type" {
			continue
		}
		for _, v := range values {
			v = strings.ToLower(v)
			if slices.Contains(videoExtensions, v) || strings.Contains(v, "video") {
				return true
			}
		}
	}

	ext := strings.TrimPrefix(strings.ToLower(path.Ext(u.Path)), ".")
	return ext != "" && slices.Contains(videoExtensions, ext)
}

func classifyEmbeddedPattern(u *url.URL) (domain.MediaClassification, bool) {
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return domain.MediaClassification{}, false
	}
	p := strings.ToLower(u.Path)

	if containsAny(host, videoIndicators) || containsAny(p, videoIndicators) {
		return embedded(domain.ConfidenceHigh, "URL contains video indicators"), true
	}

	for _, pattern := range videoDomainPatterns {
		if strings.HasPrefix(host, pattern) || strings.HasSuffix(host, pattern) {
			return embedded(domain.ConfidenceMedium, "domain pattern suggests video platform"), true
		}
	}
	return domain.MediaClassification{}, false
}

func classifyQueryParams(u *url.URL) (domain.MediaClassification, bool) {
	query := u.Query()
	if len(query) == 0 {
		return domain.MediaClassification{}, false
	}

	count := 0
	validID := false
	for name, values := range query {
		name = strings.ToLower(name)
		if !slices.Contains(videoParams, name) {
			continue
		}
		count += len(values)
		if name == "v" || name == "video" {
			for _, v := range values {
				if IsValidVideoID(v) {
					validID = true
				}
			}
		}
	}

	switch {
	case count >= 2:
		return embedded(domain.ConfidenceHigh, "multiple video parameters detected"), true
	case validID:
		return embedded(domain.ConfidenceHigh, "valid video ID pattern detected"), true
	case count == 1:
		return embedded(domain.ConfidenceMedium, "single video parameter detected"), true
	}
	return domain.MediaClassification{}, false
}

func classifyIframeHost(u *url.URL) (domain.MediaClassification, bool) {
	host := strings.ToLower(u.Hostname())
	if host != "" && containsAny(host, iframeIndicators) {
		return embedded(domain.ConfidenceMedium, "URL suggests iframe embedding"), true
	}
	return domain.MediaClassification{}, false
}

// IsValidVideoID reports whether id is 6-20 characters, each a letter,
// a number, '_' or '-'. Letters and numbers include non-ASCII ones.
func IsValidVideoID(id string) bool {
	if n := utf8.RuneCountInString(id); n < minVideoIDLength || n > maxVideoIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r), r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
