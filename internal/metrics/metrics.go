// Package metrics exposes the site's prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts requests by route pattern, method and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carlton", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	// HTTPLatency observes request durations by route pattern and method.
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "carlton", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	// CacheEvents counts page cache operations per backend.
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carlton", Name: "cache_events_total", Help: "Page cache hits/misses/sets/dels."},
		[]string{"backend", "event"}, // event: hit|miss|set|del
	)
	// Submissions counts public form posts by outcome.
	Submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carlton", Name: "form_submissions_total", Help: "Public form submissions."},
		[]string{"form", "result"}, // form: booking, contact or form (rate limited before routing); result: accepted, invalid, unavailable, error, rate_limited
	)
)

// NewRegistry returns a registry holding every collector of the site.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, CacheEvents, Submissions)
	return reg
}

// Handler serves the registry in the prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// ObserveHTTP records one served request.
func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ObserveCache records a cache event (hit, miss, set or del).
func ObserveCache(backend, event string) {
	CacheEvents.WithLabelValues(backend, event).Inc()
}

// ObserveSubmission records the outcome of a public form post.
func ObserveSubmission(form, result string) {
	Submissions.WithLabelValues(form, result).Inc()
}
