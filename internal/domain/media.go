package domain

// PlaybackKind is how a media URL should be rendered
type PlaybackKind string

const (
	PlaybackDirect   PlaybackKind = "direct"   // Plain video file, hand to a player
	PlaybackEmbedded PlaybackKind = "embedded" // Hosted player page, hand to a browser
	PlaybackUnknown  PlaybackKind = "unknown"
)

// Confidence grades a classification
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// MediaClassification is derived from a URL and never persisted
type MediaClassification struct {
	Kind       PlaybackKind
	Confidence Confidence
	Reason     string
}
