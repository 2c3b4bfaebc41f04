package media

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmcdole/astrodaily/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		wantKind       domain.PlaybackKind
		wantConfidence domain.Confidence
	}{
		{"direct mp4", "https://x.com/v.mp4", domain.PlaybackDirect, domain.ConfidenceHigh},
		{"direct uppercase ext", "https://x.com/clip.MOV", domain.PlaybackDirect, domain.ConfidenceHigh},
		{"hls playlist", "https://cdn.example.org/live/index.m3u8", domain.PlaybackDirect, domain.ConfidenceHigh},
		{"mp4 on stream host stays direct", "https://stream.example.com/movie.mp4", domain.PlaybackDirect, domain.ConfidenceHigh},
		{"format query param", "https://cdn.example.org/get?format=webm", domain.PlaybackDirect, domain.ConfidenceHigh},
		{"type query contains video", "https://cdn.example.org/get?type=video%2Fmp4", domain.PlaybackDirect, domain.ConfidenceHigh},
		{"youtube watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", domain.PlaybackEmbedded, domain.ConfidenceHigh},
		{"youtube embed", "https://www.youtube.com/embed/dQw4w9WgXcQ?rel=0", domain.PlaybackEmbedded, domain.ConfidenceHigh},
		{"vimeo player host", "https://player.vimeo.com/video/12345", domain.PlaybackEmbedded, domain.ConfidenceHigh},
		{"tv suffix", "https://nasa.tv/live", domain.PlaybackEmbedded, domain.ConfidenceMedium},
		{"two params", "https://example.com/p?autoplay=1&loop=1", domain.PlaybackEmbedded, domain.ConfidenceHigh},
		{"one param", "https://example.com/p?muted=1", domain.PlaybackEmbedded, domain.ConfidenceMedium},
		{"valid video id", "https://youtu.be/x?v=abc123_-Z", domain.PlaybackEmbedded, domain.ConfidenceHigh},
		{"short video id", "https://example.com/p?v=abc", domain.PlaybackEmbedded, domain.ConfidenceMedium},
		{"iframe host", "https://widgets.example.com/iframe-host/x", domain.PlaybackEmbedded, domain.ConfidenceMedium},
		{"api host", "https://api.example.com/thing", domain.PlaybackEmbedded, domain.ConfidenceMedium},
		{"plain image", "https://apod.nasa.gov/apod/image/2401/galaxy.jpg", domain.PlaybackUnknown, domain.ConfidenceLow},
		{"unknown", "https://example.com/unknown", domain.PlaybackUnknown, domain.ConfidenceLow},
		{"garbage", "::not a url", domain.PlaybackUnknown, domain.ConfidenceLow},
		{"empty", "", domain.PlaybackUnknown, domain.ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.url)
			assert.Equal(t, tt.wantKind, got.Kind, "reason: %s", got.Reason)
			assert.Equal(t, tt.wantConfidence, got.Confidence, "reason: %s", got.Reason)
			assert.NotEmpty(t, got.Reason)
		})
	}
}

func TestIsValidVideoID(t *testing.T) {
	assert.True(t, IsValidVideoID("dQw4w9WgXcQ"))
	assert.True(t, IsValidVideoID("abc-_1"))
	assert.True(t, IsValidVideoID("abcdefghij0123456789"))
	assert.False(t, IsValidVideoID("abcde"))
	assert.False(t, IsValidVideoID("abcdefghij01234567890"))
	assert.False(t, IsValidVideoID("abc def"))
	assert.False(t, IsValidVideoID("abc.def"))
	assert.False(t, IsValidVideoID("abc@123"))
	assert.False(t, IsValidVideoID(""))

	// Length counts characters, not bytes
	assert.True(t, IsValidVideoID("видео1"))
	assert.True(t, IsValidVideoID("星雲動画テスト"))
	assert.False(t, IsValidVideoID("星雲"))
	assert.False(t, IsValidVideoID("ééééééééééééééééééééé"))
}

func TestOpenTarget(t *testing.T) {
	video := domain.ContentRecord{MediaKind: domain.MediaKindVideo, PrimaryURL: "https://example.com/clip.mp4"}
	url, c := OpenTarget(video)
	assert.Equal(t, "https://example.com/clip.mp4", url)
	assert.Equal(t, domain.PlaybackDirect, c.Kind)

	image := domain.ContentRecord{
		MediaKind:  domain.MediaKindImage,
		PrimaryURL: "https://example.com/small.jpg",
		HighResURL: "https://example.com/big.jpg",
	}
	url, c = OpenTarget(image)
	assert.Equal(t, "https://example.com/big.jpg", url)
	assert.Equal(t, domain.PlaybackUnknown, c.Kind)
}
