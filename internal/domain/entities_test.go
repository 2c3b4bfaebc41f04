package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFields() RecordFields {
	return RecordFields{
		Date:        "2024-01-15",
		Title:       "Orion Nebula",
		Explanation: "A stellar nursery.",
		MediaType:   "image",
		URL:         "https://apod.nasa.gov/apod/image/2401/orion.jpg",
		HDURL:       "https://apod.nasa.gov/apod/image/2401/orion_big.jpg",
		Copyright:   "  Jane Doe \n",
	}
}

func TestNewContentRecord(t *testing.T) {
	rec, err := NewContentRecord(validFields())
	require.NoError(t, err)

	assert.Equal(t, "2024-01-15", rec.ID)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), rec.Date)
	assert.Equal(t, MediaKindImage, rec.MediaKind)
	assert.Equal(t, "Jane Doe", rec.Attribution)
	assert.Equal(t, rec.HighResURL, rec.BestImageURL())
}

func TestNewContentRecord_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*RecordFields)
	}{
		{"bad date", func(f *RecordFields) { f.Date = "15/01/2024" }},
		{"empty date", func(f *RecordFields) { f.Date = "" }},
		{"unknown media type", func(f *RecordFields) { f.MediaType = "audio" }},
		{"relative url", func(f *RecordFields) { f.URL = "/image/orion.jpg" }},
		{"empty url", func(f *RecordFields) { f.URL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.modify(&f)

			_, err := NewContentRecord(f)
			assert.ErrorIs(t, err, ErrInvalidRecord)
		})
	}
}

func TestNewContentRecord_DropsInvalidHighResURL(t *testing.T) {
	f := validFields()
	f.HDURL = "not a url"

	rec, err := NewContentRecord(f)
	require.NoError(t, err)

	assert.Empty(t, rec.HighResURL)
	assert.Equal(t, rec.PrimaryURL, rec.BestImageURL())
}

func TestParseMediaKind_CaseInsensitive(t *testing.T) {
	kind, err := ParseMediaKind(" Video ")
	require.NoError(t, err)
	assert.Equal(t, MediaKindVideo, kind)
	assert.Equal(t, "Video", kind.DisplayName())
}

func TestFieldsRoundTrip(t *testing.T) {
	rec, err := NewContentRecord(validFields())
	require.NoError(t, err)

	again, err := NewContentRecord(rec.Fields())
	require.NoError(t, err)
	assert.Equal(t, rec, again)
}

func TestDay(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	late := time.Date(2024, 3, 10, 23, 30, 0, 0, est)

	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), Day(late))
	assert.True(t, SameDay(late, time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-03-10", FormatDate(Day(late)))
}
