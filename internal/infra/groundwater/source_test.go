package groundwater

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/aquasutra/internal/domain/groundwater"
	"github.com/yanqian/aquasutra/internal/domain/outcome"
	"github.com/yanqian/aquasutra/internal/domain/risk"
)

type stubRepo struct {
	status groundwater.BlockStatus
	found  bool
	err    error
}

func (r stubRepo) FindBlock(context.Context, string, string) (groundwater.BlockStatus, bool, error) {
	return r.status, r.found, r.err
}

type countingRecorder struct {
	live, fallback, hits, misses int
}

func (r *countingRecorder) ObserveUpstream(_ string, live bool) {
	if live {
		r.live++
		return
	}
	r.fallback++
}

func (r *countingRecorder) ObserveCache(_ string, hit bool) {
	if hit {
		r.hits++
		return
	}
	r.misses++
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSourceDepthCachesLiveReadings(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/level/nearest", r.URL.Path)
		_, _ = w.Write([]byte(`{"depth": 31.5, "station": "ALD-07"}`))
	}))
	defer srv.Close()

	rec := &countingRecorder{}
	src := NewSource(NewClient(srv.URL, time.Second), nil, nil, 8, rec, discardLogger())

	first := src.Depth(context.Background(), 25.4358, 81.8463)
	require.Equal(t, outcome.Live, first.Source)
	assert.Equal(t, 31.5, first.Value)

	second := src.Depth(context.Background(), 25.4361, 81.8459)
	assert.Equal(t, outcome.Cached, second.Source)
	assert.Equal(t, 31.5, second.Value)
	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, 1, rec.live)
	assert.Equal(t, 1, rec.hits)
	assert.Equal(t, 1, rec.misses)
}

func TestSourceDepthFallsBackToRegionalEstimate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	src := NewSource(NewClient(srv.URL, time.Second), nil, nil, 8, nil, discardLogger())

	res := src.Depth(context.Background(), 25.43, 81.84)
	assert.Equal(t, outcome.Fallback, res.Source)
	assert.Equal(t, prayagrajDepthM, res.Value)
	assert.Contains(t, res.Reason, "status=502")

	res = src.Depth(context.Background(), 20.7, 78.6)
	assert.Equal(t, regionalDepthM, res.Value)
}

func TestSourceDepthWithoutClient(t *testing.T) {
	src := NewSource(nil, nil, nil, 0, nil, discardLogger())

	res := src.Depth(context.Background(), 19.0, 73.0)
	assert.Equal(t, outcome.Fallback, res.Source)
	assert.Equal(t, regionalDepthM, res.Value)
}

func TestSourceStatusPrefersLiveService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Chaka", r.URL.Query().Get("block"))
		_, _ = w.Write([]byte(`{"classification":"Critical","depth":24,"rechargeRate":90,"extractionRate":97}`))
	}))
	defer srv.Close()

	src := NewSource(NewClient(srv.URL, time.Second), nil, nil, 0, nil, discardLogger())

	res, err := src.Status(context.Background(), "Prayagraj", "Chaka")
	require.NoError(t, err)
	require.Equal(t, outcome.Live, res.Source)
	assert.Equal(t, risk.Critical, res.Value.Classification)
	assert.Equal(t, 24.0, res.Value.DepthM)
	assert.Equal(t, outcome.Live, res.Value.Source)
}

func TestSourceStatusUsesRepositoryThenStaticTable(t *testing.T) {
	repo := stubRepo{found: true, status: groundwater.BlockStatus{District: "Nagpur", Block: "Katol", Classification: risk.SemiCritical, DepthM: 16}}
	src := NewSource(nil, repo, nil, 0, nil, discardLogger())

	res, err := src.Status(context.Background(), "Nagpur", "Katol")
	require.NoError(t, err)
	assert.Equal(t, outcome.Cached, res.Source)
	assert.Equal(t, risk.SemiCritical, res.Value.Classification)

	src = NewSource(nil, stubRepo{err: errors.New("db down")}, nil, 0, nil, discardLogger())
	res, err = src.Status(context.Background(), " prayagraj ", "CHAKA")
	require.NoError(t, err)
	assert.Equal(t, outcome.Fallback, res.Source)
	assert.Equal(t, risk.OverExploited, res.Value.Classification)
	assert.Equal(t, 28.5, res.Value.DepthM)
}

func TestSourceStatusUnknownBlock(t *testing.T) {
	src := NewSource(nil, nil, nil, 0, nil, discardLogger())

	res, err := src.Status(context.Background(), "Prayagraj", "Koraon")
	require.NoError(t, err)
	assert.Equal(t, outcome.Fallback, res.Source)
	assert.Equal(t, risk.Unknown, res.Value.Classification)
	assert.Equal(t, "Koraon", res.Value.Block)

	cls := src.BlockClassification(context.Background(), "Prayagraj", "Sahson")
	assert.Equal(t, risk.Critical, cls.Value)
	assert.Equal(t, outcome.Fallback, cls.Source)
}

func TestSourceStatusFailsWhenEveryUpstreamFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	src := NewSource(NewClient(srv.URL, time.Second), stubRepo{err: errors.New("db down")}, nil, 0, nil, discardLogger())

	res, err := src.Status(context.Background(), "Prayagraj", "Koraon")
	require.Error(t, err)
	assert.ErrorContains(t, err, "db down")
	assert.Equal(t, risk.Unknown, res.Value.Classification)
	assert.Equal(t, outcome.Fallback, res.Source)

	cls := src.BlockClassification(context.Background(), "Prayagraj", "Koraon")
	assert.Equal(t, risk.Unknown, cls.Value)
	assert.Equal(t, outcome.Fallback, cls.Source)
	assert.Contains(t, cls.Reason, "db down")

	_, err = src.Status(context.Background(), "Prayagraj", "Chaka")
	require.NoError(t, err)

	_, err = NewSource(NewClient(srv.URL, time.Second), stubRepo{}, nil, 0, nil, discardLogger()).Status(context.Background(), "Prayagraj", "Koraon")
	require.NoError(t, err)
}

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := newLRUCache(2)
	c.put("a", 1)
	c.put("b", 2)
	_, _ = c.get("a")
	c.put("c", 3)

	_, ok := c.get("b")
	assert.False(t, ok)
	v, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)
	assert.Equal(t, 2, c.len())
}
