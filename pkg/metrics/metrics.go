// Package metrics exposes the service's Prometheus instruments.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yanqian/aquasutra/internal/domain/market"
)

const namespace = "aquasutra"

// Metrics holds the Prometheus counters and histograms for the advisor.
type Metrics struct {
	Recommendations        *prometheus.CounterVec // labels: price_mode={live,partial,fallback}
	RecommendationResults  prometheus.Histogram
	SmartSwaps             prometheus.Counter
	RecommendationDuration prometheus.Histogram

	// Collaborator metrics.
	CacheLookups     *prometheus.CounterVec // labels: cache, result={hit,miss}
	UpstreamRequests *prometheus.CounterVec // labels: upstream, outcome={live,fallback}

	// Transport metrics.
	HTTPRequests *prometheus.CounterVec   // labels: method, route, status
	HTTPDuration *prometheus.HistogramVec // labels: route
}

// NewMetrics creates all instruments and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.Recommendations,
		m.RecommendationResults,
		m.SmartSwaps,
		m.RecommendationDuration,
		m.CacheLookups,
		m.UpstreamRequests,
		m.HTTPRequests,
		m.HTTPDuration,
	)
	return m
}

// NewMetricsForTesting creates unregistered instruments so tests can build
// as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Recommendations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Completed recommendation runs by price mode.",
		}, []string{"price_mode"}),
		RecommendationResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommendation_results",
			Help:      "Number of crops returned per recommendation run.",
			Buckets:   []float64{0, 1, 3, 5, 10, 15, 20, 30, 40},
		}),
		SmartSwaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "smart_swaps_total",
			Help:      "Crops flagged as smart swaps across all runs.",
		}),
		RecommendationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommendation_duration_seconds",
			Help:      "Wall time of a recommendation run including collaborator lookups.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by cache and result.",
		}, []string{"cache", "result"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Collaborator lookups by upstream and outcome.",
		}, []string{"upstream", "outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// ObserveRecommendation records a completed run.
func (m *Metrics) ObserveRecommendation(mode market.Mode, results, swaps int, elapsed time.Duration) {
	m.Recommendations.WithLabelValues(string(mode)).Inc()
	m.RecommendationResults.Observe(float64(results))
	m.SmartSwaps.Add(float64(swaps))
	m.RecommendationDuration.Observe(elapsed.Seconds())
}

// ObserveCache records a cache lookup.
func (m *Metrics) ObserveCache(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(cache, result).Inc()
}

// ObserveUpstream records whether a collaborator answered or fell back.
func (m *Metrics) ObserveUpstream(upstream string, live bool) {
	outcome := "fallback"
	if live {
		outcome = "live"
	}
	m.UpstreamRequests.WithLabelValues(upstream, outcome).Inc()
}

// ObserveHTTP records a served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
