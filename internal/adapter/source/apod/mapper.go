package apod

import (
	"fmt"

	"github.com/mmcdole/astrodaily/internal/domain"
)

// MapRecord validates a wire response and converts it to a domain record
func MapRecord(resp *ContentResponse) (*domain.ContentRecord, error) {
	missing := ""
	switch {
	case resp.Date == nil:
		missing = "date"
	case resp.Title == nil:
		missing = "title"
	case resp.Explanation == nil:
		missing = "explanation"
	case resp.URL == nil:
		missing = "url"
	case resp.MediaType == nil:
		missing = "media_type"
	}
	if missing != "" {
		return nil, fmt.Errorf("%w: missing field %q", domain.ErrInvalidRecord, missing)
	}

	return domain.NewContentRecord(domain.RecordFields{
		Date:        *resp.Date,
		Title:       *resp.Title,
		Explanation: *resp.Explanation,
		MediaType:   *resp.MediaType,
		URL:         *resp.URL,
		HDURL:       resp.HDURL,
		Copyright:   resp.Copyright,
	})
}
