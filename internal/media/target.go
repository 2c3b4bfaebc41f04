package media

import "github.com/mmcdole/astrodaily/internal/domain"

// OpenTarget picks the URL to open for a record and how to open it. Videos
// are classified; images open their best URL in the system handler.
func OpenTarget(record domain.ContentRecord) (string, domain.MediaClassification) {
	if record.MediaKind == domain.MediaKindVideo {
		return record.PrimaryURL, Classify(record.PrimaryURL)
	}
	return record.BestImageURL(), domain.MediaClassification{
		Kind:       domain.PlaybackUnknown,
		Confidence: domain.ConfidenceLow,
		Reason:     "image",
	}
}
