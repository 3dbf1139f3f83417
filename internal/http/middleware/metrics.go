// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file exposes Prometheus instrumentation for HTTP traffic: request
// counts, latencies, in-flight concurrency and response sizes, labelled by
// method, registered route and status. Using the route (not the raw URL)
// keeps cardinality bounded even though essay slugs appear in paths.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics holds the HTTP collectors.
type HTTPMetrics struct {
	Requests *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
	Inflight prometheus.Gauge
	RespSize *prometheus.HistogramVec
}

// NewHTTPMetrics creates the collectors and registers them with reg. A nil
// reg leaves them unregistered.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		// status is omitted to keep the histogram small
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		Inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		}),
		RespSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "http_response_size_bytes",
			Help: "Size of HTTP responses in bytes.",
			Buckets: []float64{
				200, 500, 1 << 10, 2 << 10, 5 << 10,
				10 << 10, 25 << 10, 50 << 10,
				100 << 10, 250 << 10, 500 << 10,
				1 << 20, 2 << 20, 5 << 20,
			},
		}, []string{"method", "path"}),
	}
	if reg != nil {
		reg.MustRegister(m.Requests, m.Latency, m.Inflight, m.RespSize)
	}
	return m
}

// Handler returns a Gin middleware that instruments requests.
//
// The path label is c.FullPath(), falling back to the raw URL path when no
// route matched. Responses without a known size (hijacked websocket
// connections) are not added to the size histogram.
func (m *HTTPMetrics) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.Inflight.Inc()
		defer m.Inflight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method

		m.Requests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.Latency.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		if size := c.Writer.Size(); size >= 0 {
			m.RespSize.WithLabelValues(method, path).Observe(float64(size))
		}
	}
}
