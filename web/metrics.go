package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the site's Prometheus collectors on an isolated registry.
type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal          *prometheus.CounterVec
	RequestDurationSeconds *prometheus.HistogramVec
	SkippedPostsTotal      prometheus.Counter
	PostsRendered          *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance with all collectors registered.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "folio_http_requests_total",
				Help: "Total HTTP requests by route and status code.",
			},
			[]string{"method", "route", "status"},
		),
		RequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "folio_http_request_duration_seconds",
				Help:    "HTTP request latency by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		SkippedPostsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "folio_skipped_posts_total",
				Help: "Documents left out of post listings because they failed to load or parse.",
			},
		),
		PostsRendered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "folio_posts_rendered_total",
				Help: "Post pages rendered by slug.",
			},
			[]string{"slug"},
		),
	}
	reg.MustRegister(m.RequestsTotal, m.RequestDurationSeconds, m.SkippedPostsTotal, m.PostsRendered)
	return m
}

// SkipHook counts a document left out of a listing. It fits post.WithSkipHook.
func (m *Metrics) SkipHook(identifier string, err error) {
	m.SkippedPostsTotal.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Instrument wraps h, counting requests by the mux pattern that served them.
// A nil Metrics returns h unchanged.
func (m *Metrics) Instrument(h http.Handler) http.Handler {
	if m == nil {
		return h
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		h.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.RequestDurationSeconds.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
