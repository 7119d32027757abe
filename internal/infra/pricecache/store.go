package pricecache

import (
	"context"
	"strings"
	"time"

	"github.com/yanqian/aquasutra/internal/domain/market"
)

// Snapshot is the live price table last fetched for a region.
type Snapshot struct {
	Region    string                      `json:"region"`
	CropIDs   []string                    `json:"cropIds"`
	Quotes    map[string]market.LiveQuote `json:"quotes"`
	FetchedAt time.Time                   `json:"fetchedAt"`
}

// Covers reports whether the snapshot was fetched for every id in ids.
func (s Snapshot) Covers(ids []string) bool {
	have := make(map[string]struct{}, len(s.CropIDs))
	for _, id := range s.CropIDs {
		have[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := have[id]; !ok {
			return false
		}
	}
	return true
}

// Store persists snapshots keyed by region.
type Store interface {
	Get(ctx context.Context, region string) (Snapshot, bool, error)
	Save(ctx context.Context, snap Snapshot, ttl time.Duration) error
}

func regionKey(region string) string {
	return strings.ToLower(strings.TrimSpace(region))
}
