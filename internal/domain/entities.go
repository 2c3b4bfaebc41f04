package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// MediaKind distinguishes the type of media attached to a record
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// ParseMediaKind maps a wire media_type string to a MediaKind
func ParseMediaKind(s string) (MediaKind, error) {
	switch MediaKind(strings.ToLower(strings.TrimSpace(s))) {
	case MediaKindImage:
		return MediaKindImage, nil
	case MediaKindVideo:
		return MediaKindVideo, nil
	default:
		return "", fmt.Errorf("%w: unknown media type %q", ErrInvalidRecord, s)
	}
}

// DisplayName returns a human label for the media kind
func (k MediaKind) DisplayName() string {
	switch k {
	case MediaKindVideo:
		return "Video"
	default:
		return "Image"
	}
}

// ContentRecord is one day's published content.
// Construct with NewContentRecord; the zero value is not valid.
type ContentRecord struct {
	ID          string    // Canonical date key (YYYY-MM-DD)
	Date        time.Time // Calendar day at UTC midnight
	Title       string
	Explanation string
	MediaKind   MediaKind
	PrimaryURL  string // Absolute URL, always has scheme and host
	HighResURL  string // Optional absolute URL, empty when absent
	Attribution string // Optional, empty when absent
}

// RecordFields holds the raw string form of a record, as received on the wire
// or read back from the cache.
type RecordFields struct {
	Date        string
	Title       string
	Explanation string
	MediaType   string
	URL         string
	HDURL       string
	Copyright   string
}

// NewContentRecord validates raw fields and builds a record.
// Fails on an invalid date, an invalid primary URL or an unknown media type.
// An invalid high-resolution URL is dropped rather than failing the record.
func NewContentRecord(f RecordFields) (*ContentRecord, error) {
	date, err := ParseDate(f.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	kind, err := ParseMediaKind(f.MediaType)
	if err != nil {
		return nil, err
	}

	if !IsAbsoluteURL(f.URL) {
		return nil, fmt.Errorf("%w: invalid url %q", ErrInvalidRecord, f.URL)
	}

	hd := ""
	if IsAbsoluteURL(f.HDURL) {
		hd = f.HDURL
	}

	return &ContentRecord{
		ID:          FormatDate(date),
		Date:        date,
		Title:       f.Title,
		Explanation: f.Explanation,
		MediaKind:   kind,
		PrimaryURL:  f.URL,
		HighResURL:  hd,
		Attribution: strings.TrimSpace(f.Copyright),
	}, nil
}

// Fields returns the raw string form of the record
func (r ContentRecord) Fields() RecordFields {
	return RecordFields{
		Date:        FormatDate(r.Date),
		Title:       r.Title,
		Explanation: r.Explanation,
		MediaType:   string(r.MediaKind),
		URL:         r.PrimaryURL,
		HDURL:       r.HighResURL,
		Copyright:   r.Attribution,
	}
}

// BestImageURL returns the high-resolution URL when present, else the primary URL
func (r ContentRecord) BestImageURL() string {
	if r.HighResURL != "" {
		return r.HighResURL
	}
	return r.PrimaryURL
}

// ResolutionResult is a resolved record plus its provenance
type ResolutionResult struct {
	Record         ContentRecord
	IsFromCache    bool // Served from the cache slot instead of the network
	IsFallbackDate bool // Record.Date differs from the requested date
}

// IsAbsoluteURL reports whether s parses as a URL with both scheme and host
func IsAbsoluteURL(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
