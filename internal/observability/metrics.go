package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeOK          = "ok"
	OutcomeEmpty       = "empty"
	OutcomeError       = "error"
	OutcomeResolved    = "resolved"
	OutcomeUnresolved  = "unresolved"
	OutcomeUnavailable = "unavailable"
)

// Metrics holds the reader's domain collectors. Label cardinality stays
// bounded: modes, strategies and outcomes are small closed sets.
type Metrics struct {
	SearchRequests   *prometheus.CounterVec
	SearchDuration   *prometheus.HistogramVec
	IndexBuilds      *prometheus.CounterVec
	IndexDocuments   prometheus.Gauge
	AnchorResolution *prometheus.CounterVec
	LiveSessions     prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered, which tests use for isolation.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SearchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "Searches executed, by mode and outcome.",
		}, []string{"mode", "outcome"}),
		SearchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "search_duration_seconds",
			Help:    "Time spent executing a search, by mode.",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"mode"}),
		IndexBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "search_index_builds_total",
			Help: "Search index build attempts, by outcome.",
		}, []string{"outcome"}),
		IndexDocuments: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "search_index_documents",
			Help: "Sections in the most recently built search index.",
		}),
		AnchorResolution: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "anchor_resolutions_total",
			Help: "Anchor resolutions, by winning strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		LiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "search_live_sessions",
			Help: "Open live search websocket sessions.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.SearchRequests, m.SearchDuration, m.IndexBuilds, m.IndexDocuments, m.AnchorResolution, m.LiveSessions)
	}
	return m
}

// ObserveSearch records one search.
func (m *Metrics) ObserveSearch(mode, outcome string, took time.Duration) {
	m.SearchRequests.WithLabelValues(mode, outcome).Inc()
	m.SearchDuration.WithLabelValues(mode).Observe(took.Seconds())
}

// ObserveIndexBuild matches search.WithBuildObserver.
func (m *Metrics) ObserveIndexBuild(docs int, _ time.Duration, err error) {
	if err != nil {
		m.IndexBuilds.WithLabelValues(OutcomeError).Inc()
		return
	}
	m.IndexBuilds.WithLabelValues(OutcomeOK).Inc()
	m.IndexDocuments.Set(float64(docs))
}

// ObserveAnchor records an anchor resolution. strategy is the winning
// variant name, or "none".
func (m *Metrics) ObserveAnchor(strategy string, resolved bool) {
	outcome := OutcomeUnresolved
	if resolved {
		outcome = OutcomeResolved
	}
	m.AnchorResolution.WithLabelValues(strategy, outcome).Inc()
}
