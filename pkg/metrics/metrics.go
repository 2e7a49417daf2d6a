// Package metrics exposes Prometheus collectors for HTTP traffic and the
// duty roster engine.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Conflict kinds reported by the roster engine
const (
	ConflictOverlap = "overlap"
	ConflictRest    = "rest_period"
	ConflictRace    = "race"
)

// Metrics collectors on a private registry
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	rostersCreated  prometheus.Counter
	rosterConflicts *prometheus.CounterVec
	scopeResolution *prometheus.CounterVec
}

// New registers every collector.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		rostersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "duty_rosters_created_total",
			Help: "Duty rosters committed.",
		}),
		rosterConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "duty_roster_conflicts_total",
			Help: "Roster creations rejected, by conflict kind.",
		}, []string{"kind"}),
		scopeResolution: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "unit_scope_resolutions_total",
			Help: "Acting unit resolutions by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.latency, m.rostersCreated, m.rosterConflicts, m.scopeResolution,
	)
	return m
}

// Middleware records request count and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.requests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RosterCreated counts a committed roster. Safe on a nil receiver.
func (m *Metrics) RosterCreated() {
	if m == nil {
		return
	}
	m.rostersCreated.Inc()
}

// RosterConflict counts a rejected roster. Safe on a nil receiver.
func (m *Metrics) RosterConflict(kind string) {
	if m == nil {
		return
	}
	m.rosterConflicts.WithLabelValues(kind).Inc()
}

// ScopeResolved counts an acting unit resolution ("ok", "empty", "error").
// Safe on a nil receiver.
func (m *Metrics) ScopeResolved(outcome string) {
	if m == nil {
		return
	}
	m.scopeResolution.WithLabelValues(outcome).Inc()
}
