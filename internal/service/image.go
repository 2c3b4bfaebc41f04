package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"time"

	_ "image/gif"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/mmcdole/astrodaily/internal/domain"
)

const (
	// MaxDownloadBytes bounds an image download before decoding
	MaxDownloadBytes = 50 * 1024 * 1024

	// MaxImageDimension bounds the width and height of a stored image
	MaxImageDimension = 2048

	defaultImageTimeout = 30 * time.Second
	imageUserAgent      = "AstroDaily/1.0"
	jpegQuality         = 80
)

// ImageResolver loads images cache-first, downloading, validating and
// downscaling on a miss.
type ImageResolver struct {
	cache            domain.ImageCache
	httpClient       *http.Client
	observer         domain.ResolveObserver
	logger           *slog.Logger
	maxDownloadBytes int64
	maxDimension     int
}

// ImageOption configures an ImageResolver
type ImageOption func(*ImageResolver)

// WithImageObserver reports image events to o
func WithImageObserver(o domain.ResolveObserver) ImageOption {
	return func(r *ImageResolver) { r.observer = o }
}

// WithImageLimits overrides MaxDownloadBytes and MaxImageDimension
func WithImageLimits(maxDownloadBytes int64, maxDimension int) ImageOption {
	return func(r *ImageResolver) {
		r.maxDownloadBytes = maxDownloadBytes
		r.maxDimension = maxDimension
	}
}

// NewImageResolver creates an image resolver. A zero timeout uses 30s.
func NewImageResolver(cache domain.ImageCache, timeout time.Duration, logger *slog.Logger, opts ...ImageOption) *ImageResolver {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultImageTimeout
	}
	r := &ImageResolver{
		cache:            cache,
		httpClient:       &http.Client{Timeout: timeout},
		observer:         domain.NoOpObserver{},
		logger:           logger,
		maxDownloadBytes: MaxDownloadBytes,
		maxDimension:     MaxImageDimension,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadImage returns image bytes for rawURL from the cache or the network.
// Any download or validation failure gets one more cache lookup before the
// error is returned.
func (r *ImageResolver) LoadImage(ctx context.Context, rawURL string) ([]byte, error) {
	if data, ok := r.cache.GetImage(rawURL); ok {
		r.logger.Debug("image loaded from cache", "url", rawURL)
		r.observer.OnImageLoaded(domain.ImageFromCache, len(data))
		return data, nil
	}

	data, err := r.download(ctx, rawURL)
	if err != nil {
		r.logger.Error("failed to load image from network", "url", rawURL, "error", err)
		if cached, ok := r.cache.GetImage(rawURL); ok {
			r.logger.Info("network failed, using cached image", "url", rawURL)
			r.observer.OnImageLoaded(domain.ImageFromFallback, len(cached))
			return cached, nil
		}
		r.observer.OnImageFailed(err)
		return nil, err
	}

	if err := r.cache.PutImage(rawURL, data); err != nil {
		r.logger.Warn("failed to cache image", "url", rawURL, "error", err)
	}
	r.logger.Info("image loaded from network", "url", rawURL, "bytes", len(data))
	r.observer.OnImageLoaded(domain.ImageFromNetwork, len(data))
	return data, nil
}

// download fetches, validates and, if needed, downscales an image
func (r *ImageResolver) download(ctx context.Context, rawURL string) ([]byte, error) {
	if !domain.IsAbsoluteURL(rawURL) {
		return nil, fmt.Errorf("invalid image url %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", imageUserAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, &domain.FetchError{Kind: domain.FetchTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.FetchError{Kind: domain.FetchStatus, StatusCode: resp.StatusCode}
	}
	if resp.ContentLength > r.maxDownloadBytes {
		return nil, fmt.Errorf("%w: %d bytes", domain.ErrImageTooLarge, resp.ContentLength)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, r.maxDownloadBytes+1))
	if err != nil {
		return nil, &domain.FetchError{Kind: domain.FetchTransport, Err: err}
	}
	if int64(len(data)) > r.maxDownloadBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", domain.ErrImageTooLarge, r.maxDownloadBytes)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImageData, err)
	}

	b := img.Bounds()
	if b.Dx() <= r.maxDimension && b.Dy() <= r.maxDimension {
		return data, nil
	}

	resized, err := r.downscale(img, format)
	if err != nil {
		return nil, err
	}
	r.logger.Info("image resized", "url", rawURL, "from", b.Size(), "bytes", len(resized))
	return resized, nil
}

// downscale fits img inside maxDimension x maxDimension, keeping its aspect ratio
func (r *ImageResolver) downscale(img image.Image, format string) ([]byte, error) {
	w, h := FitWithin(img.Bounds().Dx(), img.Bounds().Dy(), r.maxDimension)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	var err error
	switch format {
	case "png", "gif":
		err = png.Encode(&buf, dst)
	default:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}
	return buf.Bytes(), nil
}

// FitWithin scales w x h down to fit a limit x limit box, preserving aspect ratio
func FitWithin(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}
