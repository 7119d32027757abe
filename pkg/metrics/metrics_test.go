package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/aquasutra/internal/domain/market"
)

func TestObserveRecommendation(t *testing.T) {
	m := NewMetricsForTesting()
	m.ObserveRecommendation(market.ModePartial, 12, 2, 40*time.Millisecond)
	m.ObserveRecommendation(market.ModePartial, 3, 1, 10*time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(m.Recommendations.WithLabelValues("partial")))
	require.Equal(t, 3.0, testutil.ToFloat64(m.SmartSwaps))
	require.Equal(t, 2, testutil.CollectAndCount(m.RecommendationResults))
}

func TestObserveCacheAndUpstream(t *testing.T) {
	m := NewMetricsForTesting()
	m.ObserveCache("prices", true)
	m.ObserveCache("prices", false)
	m.ObserveCache("prices", false)
	m.ObserveUpstream("groundwater", false)

	require.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("prices", "hit")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("prices", "miss")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequests.WithLabelValues("groundwater", "fallback")))
}

func TestNewMetricsRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.ObserveHTTP("GET", "/healthz", 200, time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	require.Contains(t, names, "aquasutra_http_requests_total")
	require.Panics(t, func() { NewMetrics(reg) })
}
