// Package telemetry exports Prometheus metrics for content and image resolution.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmcdole/astrodaily/internal/domain"
)

const namespace = "astrodaily"

// Provenance labels for resolutions
const (
	provenanceNetwork  = "network"
	provenanceFallback = "fallback_date"
	provenanceCache    = "cache"
)

// Metrics holds all resolution metrics. It implements domain.ResolveObserver.
type Metrics struct {
	registry *prometheus.Registry

	FetchAttempts   *prometheus.CounterVec
	Resolutions     *prometheus.CounterVec
	ResolveFailures *prometheus.CounterVec
	LastResolved    prometheus.Gauge

	ImageLoads    *prometheus.CounterVec
	ImageFailures *prometheus.CounterVec
	ImageBytes    prometheus.Histogram
}

var _ domain.ResolveObserver = (*Metrics)(nil)

// NewMetrics registers metrics on a fresh registry, along with Go runtime
// and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	m := &Metrics{registry: reg}

	m.FetchAttempts = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_attempts_total",
		Help:      "Remote fetch attempts by outcome (success, no_content, failure)",
	}, []string{"outcome"})

	m.Resolutions = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resolutions_total",
		Help:      "Successful resolutions by provenance (network, fallback_date, cache)",
	}, []string{"provenance"})

	m.ResolveFailures = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resolve_failures_total",
		Help:      "Failed resolutions by reason",
	}, []string{"reason"})

	m.LastResolved = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_resolved_timestamp_seconds",
		Help:      "Unix time of the day most recently resolved",
	})

	m.ImageLoads = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_loads_total",
		Help:      "Image loads by source (cache, network, fallback)",
	}, []string{"source"})

	m.ImageFailures = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_failures_total",
		Help:      "Image loads that failed with no cached copy",
	}, []string{"reason"})

	m.ImageBytes = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "image_bytes",
		Help:      "Size of loaded images",
		Buckets:   prometheus.ExponentialBuckets(16*1024, 4, 8),
	})

	return m
}

// Registry returns the registry the metrics are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) OnFetchAttempt(_, _ time.Time, outcome domain.FetchOutcome) {
	m.FetchAttempts.WithLabelValues(string(outcome)).Inc()
}

func (m *Metrics) OnResolved(r domain.ResolutionResult) {
	provenance := provenanceNetwork
	switch {
	case r.IsFromCache:
		provenance = provenanceCache
	case r.IsFallbackDate:
		provenance = provenanceFallback
	}
	m.Resolutions.WithLabelValues(provenance).Inc()
	m.LastResolved.Set(float64(r.Record.Date.Unix()))
}

func (m *Metrics) OnResolveFailed(err error) {
	m.ResolveFailures.WithLabelValues(ErrorReason(err)).Inc()
}

func (m *Metrics) OnImageLoaded(source domain.ImageSource, size int) {
	m.ImageLoads.WithLabelValues(string(source)).Inc()
	m.ImageBytes.Observe(float64(size))
}

func (m *Metrics) OnImageFailed(err error) {
	m.ImageFailures.WithLabelValues(ErrorReason(err)).Inc()
}
