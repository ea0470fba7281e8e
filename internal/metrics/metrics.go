// Package metrics provides Prometheus instrumentation for the gallery API.
//
// Standard Go runtime and process metrics are exposed automatically by
// prometheus/client_golang; the gallery-specific metrics are registered here
// via promauto and served at GET /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPRequests counts HTTP requests by method, route and status code.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "mytube_http_requests_total",
	Help: "Total HTTP requests handled.",
}, []string{"method", "path", "status"})

// HTTPDuration tracks HTTP request latency by method and route.
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "mytube_http_request_duration_seconds",
	Help:    "HTTP request latency in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "path"})

// VideoWatches counts recorded watch-page loads by provider.
var VideoWatches = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "mytube_video_watches_total",
	Help: "Watch-page loads by embed provider.",
}, []string{"provider"})

// AuthEvents counts auth events (login, register, logout) by result.
var AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "mytube_auth_events_total",
	Help: "Auth events by type and result.",
}, []string{"event", "result"})

// Handler returns the Prometheus scrape handler for GET /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and latency for every route. The gin
// route template keeps the label cardinality bounded; unmatched routes are
// grouped under "unmatched".
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		HTTPRequests.WithLabelValues(c.Request.Method, path, status).Inc()
		HTTPDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
