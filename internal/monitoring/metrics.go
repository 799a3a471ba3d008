// Package monitoring exposes the Prometheus metrics and health/readiness
// endpoints for the optimizer HTTP shell.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	// JobsSubmittedTotal counts every accepted optimize job, labeled by
	// the requested unit so operators can see which champions/units drive
	// load.
	JobsSubmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optimizer_jobs_submitted_total",
			Help: "Total number of optimize jobs accepted",
		},
		[]string{"unit_id"},
	)

	JobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "optimizer_job_duration_seconds",
			Help:    "Wall-clock duration of a completed optimize job",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
		[]string{"unit_id"},
	)

	LayersExplored = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "optimizer_layers_explored",
			Help:    "Number of beam-search layers a job walked through",
			Buckets: prometheus.LinearBuckets(1, 1, 6),
		},
		[]string{"unit_id"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optimizer_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "optimizer_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// Metrics owns the Prometheus registry backing /metrics.
type Metrics struct {
	registry *prometheus.Registry
}

// NewMetrics registers every collector above into a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(JobsSubmittedTotal, JobDuration, LayersExplored, HTTPRequestsTotal, HTTPRequestDuration)

	logrus.Info("prometheus metrics initialized")
	return &Metrics{registry: registry}
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records HTTPRequestsTotal/HTTPRequestDuration for every
// request.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start).Seconds()

		HTTPRequestsTotal.WithLabelValues(c.Request.Method, c.FullPath(), strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, c.FullPath()).Observe(duration)
	}
}
