package pricecache

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/yanqian/aquasutra/internal/domain/market"
	"github.com/yanqian/aquasutra/internal/domain/outcome"
)

// DefaultTTL bounds how long a region snapshot is served without refetching.
const DefaultTTL = 6 * time.Hour

// Recorder receives cache lookups.
type Recorder interface {
	ObserveCache(cache string, hit bool)
}

// CachedSource serves region snapshots from a Store and refetches from the
// wrapped source once they expire.
type CachedSource struct {
	next     market.Source
	store    Store
	ttl      time.Duration
	clock    clockwork.Clock
	recorder Recorder
	logger   *slog.Logger
}

var _ market.Source = (*CachedSource)(nil)

// NewCachedSource wraps next with a snapshot cache.
func NewCachedSource(next market.Source, store Store, ttl time.Duration, clock clockwork.Clock, recorder Recorder, logger *slog.Logger) *CachedSource {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CachedSource{
		next:     next,
		store:    store,
		ttl:      ttl,
		clock:    clock,
		recorder: recorder,
		logger:   logger.With("component", "pricecache.source"),
	}
}

// BatchPrices implements market.Source.
func (c *CachedSource) BatchPrices(ctx context.Context, region string, cropIDs []string) (map[string]market.LiveQuote, error) {
	snap, ok, err := c.store.Get(ctx, region)
	if err != nil {
		c.logger.Warn("price cache read failed", "region", region, "error", err)
		ok = false
	}
	if ok && snap.Covers(cropIDs) && c.clock.Since(snap.FetchedAt) < c.ttl {
		c.observe(true)
		return fromSnapshot(snap, cropIDs), nil
	}
	c.observe(false)

	quotes, err := c.next.BatchPrices(ctx, region, cropIDs)
	if err != nil {
		return nil, err
	}
	fresh := Snapshot{
		Region:    region,
		CropIDs:   append([]string(nil), cropIDs...),
		Quotes:    quotes,
		FetchedAt: c.clock.Now(),
	}
	if err := c.store.Save(ctx, fresh, c.ttl); err != nil {
		c.logger.Warn("price cache write failed", "region", region, "error", err)
	}
	return quotes, nil
}

func (c *CachedSource) observe(hit bool) {
	if c.recorder != nil {
		c.recorder.ObserveCache("prices", hit)
	}
}

func fromSnapshot(snap Snapshot, ids []string) map[string]market.LiveQuote {
	out := make(map[string]market.LiveQuote, len(ids))
	for _, id := range ids {
		q, ok := snap.Quotes[id]
		if !ok {
			continue
		}
		q.Source = outcome.Cached
		out[id] = q
	}
	return out
}
