package metrics

import (
	"net/http" // Metrics endpoint
	"strconv"  // Status code labels
	"time"     // Latency

	"github.com/prometheus/client_golang/prometheus"          // Prometheus metrics
	"github.com/prometheus/client_golang/prometheus/promhttp" // Exposition handler
)

// Collector wraps the Prometheus metrics of the site with its own registry.
type Collector struct {
	registry *prometheus.Registry // Registry served at /metrics

	BackendRequests *prometheus.CounterVec   // Backend calls by operation and outcome
	BackendDuration *prometheus.HistogramVec // Backend latency by operation
	HTTPRequests    *prometheus.CounterVec   // Served requests by route
	AuthEvents      *prometheus.CounterVec   // Logins, logouts and failures
}

// New creates a Collector registered under the given namespace.
func New(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		BackendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Requests sent to the restaurant backend",
		}, []string{"operation", "outcome"}),
		BackendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Latency of requests sent to the restaurant backend",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Pages and form posts served",
		}, []string{"method", "route", "status_code"}),
		AuthEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Logins and logouts",
		}, []string{"event"}),
	}
	reg.MustRegister(c.BackendRequests, c.BackendDuration, c.HTTPRequests, c.AuthEvents)
	return c
}

// ObserveBackend records one backend call. A nil collector is a no-op.
func (c *Collector) ObserveBackend(operation string, started time.Time, err error) {
	if c == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.BackendRequests.WithLabelValues(operation, outcome).Inc()
	c.BackendDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// ObserveHTTP records one served request.
func (c *Collector) ObserveHTTP(method, route string, status int) {
	if c == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// ObserveAuth records a login or logout.
func (c *Collector) ObserveAuth(event string) {
	if c == nil {
		return
	}
	c.AuthEvents.WithLabelValues(event).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
