// Package metrics exposes Prometheus collectors for the site and its live
// runtime.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/onekit-js/onekit-site/pkg/core"
)

// Metrics holds all application collectors.
type Metrics struct {
	gatherer prometheus.Gatherer

	// HTTP
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Live connections
	ConnectionsActive prometheus.Gauge
	ConnectionsTotal  *prometheus.CounterVec

	// Events and renders
	EventsTotal    *prometheus.CounterVec
	EventDuration  prometheus.Histogram
	RenderDuration prometheus.Histogram
	DiffSize       prometheus.Histogram
	PanicsTotal    prometheus.Counter

	// Site
	CopyTotal      *prometheus.CounterVec
	RunsTotal      *prometheus.CounterVec
	ContentReloads *prometheus.CounterVec
	CacheLookups   *prometheus.CounterVec
	SearchQueries  prometheus.Counter
	ExportedPages  prometheus.Counter
}

// New registers the collectors on reg under namespace. A nil reg uses a
// fresh registry.
func New(namespace string, reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		gatherer: reg,

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code",
		}, []string{"route", "code"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		ConnectionsActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_connections_active",
			Help:      "Open live sessions",
		}),
		ConnectionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "live_connections_closed_total",
			Help:      "Closed live sessions by terminate reason",
		}, []string{"reason"}),

		EventsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "live_events_total",
			Help:      "Live events handled by name and outcome",
		}, []string{"event", "outcome"}), // outcome=ok|error
		EventDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "live_event_duration_seconds",
			Help:      "Time spent in component event handlers",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 3},
		}),
		RenderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "live_render_duration_seconds",
			Help:      "Time spent rendering and diffing a live component",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5},
		}),
		DiffSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "live_diff_bytes",
			Help:      "Size of slot content sent per diff",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
		}),
		PanicsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "live_panics_total",
			Help:      "Component panics recovered",
		}),

		CopyTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "copy_total",
			Help:      "Copy-to-clipboard attempts reported by clients",
		}, []string{"outcome"}), // outcome=ok|failed
		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "playground_runs_total",
			Help:      "Playground runs by outcome",
		}, []string{"outcome"}), // outcome=completed|cancelled|limited
		ContentReloads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_reloads_total",
			Help:      "Content reload attempts by outcome",
		}, []string{"outcome"}), // outcome=ok|invalid
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_cache_lookups_total",
			Help:      "Page cache lookups by result",
		}, []string{"result"}), // result=hit|miss
		SearchQueries: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_queries_total",
			Help:      "Queries served by the search endpoint",
		}),
		ExportedPages: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "export_pages_total",
			Help:      "Pages written by static export",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware records request count and latency by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ConnectionOpened implements router.Observer.
func (m *Metrics) ConnectionOpened() {
	m.ConnectionsActive.Inc()
}

// ConnectionClosed implements router.Observer.
func (m *Metrics) ConnectionClosed(reason core.TerminateReason) {
	m.ConnectionsActive.Dec()
	m.ConnectionsTotal.WithLabelValues(reason.String()).Inc()
}

// EventHandled implements router.Observer.
func (m *Metrics) EventHandled(event string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.EventsTotal.WithLabelValues(event, outcome).Inc()
	m.EventDuration.Observe(d.Seconds())
}

// Rendered implements router.Observer.
func (m *Metrics) Rendered(d time.Duration, diffBytes int) {
	m.RenderDuration.Observe(d.Seconds())
	m.DiffSize.Observe(float64(diffBytes))
}

// Panicked implements router.Observer.
func (m *Metrics) Panicked() {
	m.PanicsTotal.Inc()
}

// CacheLookup implements router.Observer.
func (m *Metrics) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// CopyReported counts a clipboard result reported by a client.
func (m *Metrics) CopyReported(ok bool) {
	outcome := "failed"
	if ok {
		outcome = "ok"
	}
	m.CopyTotal.WithLabelValues(outcome).Inc()
}

// RunFinished counts a playground run by outcome.
func (m *Metrics) RunFinished(outcome string) {
	m.RunsTotal.WithLabelValues(outcome).Inc()
}

// ContentReloaded counts a content reload attempt.
func (m *Metrics) ContentReloaded(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "invalid"
	}
	m.ContentReloads.WithLabelValues(outcome).Inc()
}

// SearchServed counts a search endpoint query.
func (m *Metrics) SearchServed() {
	m.SearchQueries.Inc()
}

// PageExported counts a page written by static export.
func (m *Metrics) PageExported() {
	m.ExportedPages.Inc()
}
