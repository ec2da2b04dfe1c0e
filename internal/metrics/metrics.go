// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes.
const (
	OutcomeCreated   = "created"
	OutcomeDuplicate = "duplicate"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
)

// Metrics groups the service collectors.
type Metrics struct {
	Requests   *prometheus.HistogramVec
	Records    *prometheus.CounterVec
	NameChecks *prometheus.CounterVec
	Pictures   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "alumni",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		Records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "alumni",
			Name:      "records_submitted_total",
			Help:      "Record create requests by outcome.",
		}, []string{"outcome"}),
		NameChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "alumni",
			Name:      "name_checks_total",
			Help:      "Duplicate name checks by result.",
		}, []string{"result"}),
		Pictures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "alumni",
			Name:      "pictures_offloaded_total",
			Help:      "Profile pictures moved to the CDN by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.Requests, m.Records, m.NameChecks, m.Pictures)
	return m
}

// GinMiddleware observes request latency keyed by the matched route.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
