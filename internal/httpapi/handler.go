// Package httpapi serves resolved content, images and cache control over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mmcdole/astrodaily/internal/domain"
	"github.com/mmcdole/astrodaily/internal/media"
	"github.com/mmcdole/astrodaily/internal/quickdate"
)

// ContentResolver resolves a date to a record
type ContentResolver interface {
	Resolve(ctx context.Context, date time.Time) (domain.ResolutionResult, error)
	Today() time.Time
}

// ImageLoader loads image bytes for a URL
type ImageLoader interface {
	LoadImage(ctx context.Context, url string) ([]byte, error)
}

// CacheClearer empties the on-disk cache
type CacheClearer interface {
	Clear() error
}

// Handler handles content API requests
type Handler struct {
	content ContentResolver
	images  ImageLoader
	cache   CacheClearer

	// Hosts the image endpoint may fetch from: configured hosts plus the
	// hosts of every record this handler has served.
	mu         sync.RWMutex
	imageHosts map[string]bool
}

// HandlerOption configures a Handler
type HandlerOption func(*Handler)

// WithImageHosts allows image fetches from hosts before any record names them
func WithImageHosts(hosts ...string) HandlerOption {
	return func(h *Handler) {
		for _, host := range hosts {
			h.imageHosts[strings.ToLower(host)] = true
		}
	}
}

// NewHandler creates a new content API handler
func NewHandler(content ContentResolver, images ImageLoader, cache CacheClearer, opts ...HandlerOption) *Handler {
	h := &Handler{
		content:    content,
		images:     images,
		cache:      cache,
		imageHosts: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ContentResponse is the JSON form of a resolution
type ContentResponse struct {
	Date           string                 `json:"date"`
	RequestedDate  string                 `json:"requested_date"`
	Title          string                 `json:"title"`
	Explanation    string                 `json:"explanation"`
	MediaType      string                 `json:"media_type"`
	URL            string                 `json:"url"`
	HDURL          string                 `json:"hdurl,omitempty"`
	Copyright      string                 `json:"copyright,omitempty"`
	IsFromCache    bool                   `json:"is_from_cache"`
	IsFallbackDate bool                   `json:"is_fallback_date"`
	Playback       *ClassificationPayload `json:"playback,omitempty"`
}

// ClassificationPayload describes how a video URL should be played
type ClassificationPayload struct {
	Kind       string `json:"kind"`
	Confidence string `json:"confidence"`
	Reason     string `json:"reason"`
}

// GetContent handles GET /v1/content?date=. The date accepts YYYY-MM-DD or a
// shortcut like "yesterday"; absent means today.
func (h *Handler) GetContent(c *gin.Context) {
	requested := h.content.Today()
	if q := c.Query("date"); q != "" {
		parsed, err := quickdate.Parse(q, requested)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		requested = parsed
	}

	result, err := h.content.Resolve(c.Request.Context(), requested)
	if err != nil {
		_ = c.Error(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	h.allowRecordHosts(result.Record)
	c.JSON(http.StatusOK, NewContentResponse(requested, result))
}

// GetImage handles GET /v1/image?url=. Only http(s) URLs on an allowed host
// are fetched.
func (h *Handler) GetImage(c *gin.Context) {
	rawURL := c.Query("url")
	if !domain.IsAbsoluteURL(rawURL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url must be an absolute URL"})
		return
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url must use http or https"})
		return
	}
	if !h.imageHostAllowed(u.Hostname()) {
		c.JSON(http.StatusForbidden, gin.H{"error": "image host is not allowed"})
		return
	}

	data, err := h.images.LoadImage(c.Request.Context(), rawURL)
	if err != nil {
		_ = c.Error(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, http.DetectContentType(data), data)
}

// ClearCache handles DELETE /v1/cache
func (h *Handler) ClearCache(c *gin.Context) {
	if err := h.cache.Clear(); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) allowRecordHosts(rec domain.ContentRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, raw := range []string{rec.PrimaryURL, rec.HighResURL} {
		if u, err := url.Parse(raw); err == nil && u.Hostname() != "" {
			h.imageHosts[strings.ToLower(u.Hostname())] = true
		}
	}
}

func (h *Handler) imageHostAllowed(host string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.imageHosts[strings.ToLower(host)]
}

// NewContentResponse builds the JSON form of a resolution
func NewContentResponse(requested time.Time, r domain.ResolutionResult) ContentResponse {
	rec := r.Record
	resp := ContentResponse{
		Date:           rec.ID,
		RequestedDate:  domain.FormatDate(requested),
		Title:          rec.Title,
		Explanation:    rec.Explanation,
		MediaType:      string(rec.MediaKind),
		URL:            rec.PrimaryURL,
		HDURL:          rec.HighResURL,
		Copyright:      rec.Attribution,
		IsFromCache:    r.IsFromCache,
		IsFallbackDate: r.IsFallbackDate,
	}
	if rec.MediaKind == domain.MediaKindVideo {
		cl := media.Classify(rec.PrimaryURL)
		resp.Playback = &ClassificationPayload{
			Kind:       string(cl.Kind),
			Confidence: string(cl.Confidence),
			Reason:     cl.Reason,
		}
	}
	return resp
}

// statusFor maps resolver and image errors to HTTP status codes
func statusFor(err error) int {
	var fetchErr *domain.FetchError
	switch {
	case errors.Is(err, domain.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoContentAvailable):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrInvalidImageData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
