package pricecache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/aquasutra/internal/domain/market"
	"github.com/yanqian/aquasutra/internal/domain/outcome"
)

func TestCachedSourceServesSnapshotWithinTTL(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 11, 3, 6, 0, 0, 0, time.UTC))
	next := &countingSource{quotes: map[string]market.LiveQuote{
		"wheat_lokwan": {Price: 23000, Trend: market.Rising, Source: outcome.Live},
	}}
	rec := &recorder{}
	src := NewCachedSource(next, NewMemoryStore(clock), time.Hour, clock, rec, discardLogger())
	ids := []string{"wheat_lokwan", "onion_red"}

	first, err := src.BatchPrices(context.Background(), "Uttar Pradesh", ids)
	require.NoError(t, err)
	require.Equal(t, outcome.Live, first["wheat_lokwan"].Source)

	clock.Advance(30 * time.Minute)
	second, err := src.BatchPrices(context.Background(), "uttar pradesh ", ids)
	require.NoError(t, err)
	require.Equal(t, 1, next.calls)
	require.Equal(t, outcome.Cached, second["wheat_lokwan"].Source)
	require.Equal(t, 23000.0, second["wheat_lokwan"].Price)
	require.NotContains(t, second, "onion_red")
	require.Equal(t, []bool{false, true}, rec.hits)

	clock.Advance(31 * time.Minute)
	_, err = src.BatchPrices(context.Background(), "Uttar Pradesh", ids)
	require.NoError(t, err)
	require.Equal(t, 2, next.calls)
}

func TestCachedSourceRefetchesForUncoveredCrops(t *testing.T) {
	clock := clockwork.NewFakeClock()
	next := &countingSource{quotes: map[string]market.LiveQuote{}}
	src := NewCachedSource(next, NewMemoryStore(clock), 0, clock, nil, discardLogger())

	_, err := src.BatchPrices(context.Background(), "Maharashtra", []string{"onion_red"})
	require.NoError(t, err)
	_, err = src.BatchPrices(context.Background(), "Maharashtra", []string{"onion_red", "grapes_thompson"})
	require.NoError(t, err)
	require.Equal(t, 2, next.calls)
}

func TestCachedSourcePropagatesUpstreamFailure(t *testing.T) {
	clock := clockwork.NewFakeClock()
	next := &countingSource{err: errors.New("timeout")}
	store := NewMemoryStore(clock)
	src := NewCachedSource(next, store, time.Hour, clock, nil, discardLogger())

	_, err := src.BatchPrices(context.Background(), "Maharashtra", []string{"onion_red"})
	require.Error(t, err)
	_, ok, err := store.Get(context.Background(), "Maharashtra")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCachedSourceIgnoresStoreErrors(t *testing.T) {
	next := &countingSource{quotes: map[string]market.LiveQuote{"onion_red": {Price: 15000}}}
	src := NewCachedSource(next, brokenStore{}, time.Hour, nil, nil, discardLogger())

	quotes, err := src.BatchPrices(context.Background(), "Maharashtra", []string{"onion_red"})
	require.NoError(t, err)
	require.Equal(t, 15000.0, quotes["onion_red"].Price)
}

func TestMemoryStoreExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewMemoryStore(clock)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Snapshot{Region: "Punjab", CropIDs: []string{"wheat_lokwan"}}, time.Minute))
	snap, ok, err := store.Get(ctx, "PUNJAB")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, snap.Covers([]string{"wheat_lokwan"}))
	require.False(t, snap.Covers([]string{"wheat_lokwan", "rice_basmati"}))

	clock.Advance(time.Minute)
	_, ok, err = store.Get(ctx, "Punjab")
	require.NoError(t, err)
	require.False(t, ok)
}

type countingSource struct {
	calls  int
	quotes map[string]market.LiveQuote
	err    error
}

func (s *countingSource) BatchPrices(context.Context, string, []string) (map[string]market.LiveQuote, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[string]market.LiveQuote, len(s.quotes))
	for k, v := range s.quotes {
		out[k] = v
	}
	return out, nil
}

type recorder struct {
	hits []bool
}

func (r *recorder) ObserveCache(_ string, hit bool) {
	r.hits = append(r.hits, hit)
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (Snapshot, bool, error) {
	return Snapshot{}, false, errors.New("connection reset")
}

func (brokenStore) Save(context.Context, Snapshot, time.Duration) error {
	return errors.New("connection reset")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
