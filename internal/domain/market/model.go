package market

import (
	"context"
	"time"

	"github.com/yanqian/aquasutra/internal/domain/outcome"
)

// Trend is the short-term direction of mandi prices.
type Trend string

const (
	Rising  Trend = "RISING"
	Falling Trend = "FALLING"
	Stable  Trend = "STABLE"
)

// Mode summarizes how much of a resolution came from live data.
type Mode string

const (
	ModeLive     Mode = "live"
	ModePartial  Mode = "partial"
	ModeFallback Mode = "fallback"
)

// Data quality scores reported with a resolution.
const (
	LiveDataQuality     = 90
	FallbackDataQuality = 50
)

// DefaultVolatility is assumed when no price spread is observable.
const DefaultVolatility = 10.0

// LiveQuote is a price observation from an upstream market feed, INR per ton.
type LiveQuote struct {
	Price      float64        `json:"price"`
	Trend      Trend          `json:"trend"`
	Volatility float64        `json:"volatility"`
	Markets    int            `json:"markets"`
	Source     outcome.Source `json:"source,omitempty"`
}

// Source fetches live quotes for many crops in one call. The result may omit
// crops the feed does not cover.
type Source interface {
	BatchPrices(ctx context.Context, region string, cropIDs []string) (map[string]LiveQuote, error)
}

// Quote is the resolved price for one crop. MSP is nil for crops without a
// notified support price.
type Quote struct {
	CropID     string         `json:"cropId"`
	Price      float64        `json:"price"`
	MSP        *float64       `json:"msp"`
	Trend      Trend          `json:"trend"`
	Volatility float64        `json:"volatility"`
	Source     outcome.Source `json:"source"`
	ResolvedAt time.Time      `json:"resolvedAt"`
}

// FlooredPrice is the price with MSP applied as a floor.
func (q Quote) FlooredPrice() float64 {
	if q.MSP != nil && *q.MSP > q.Price {
		return *q.MSP
	}
	return q.Price
}

// Resolution holds exactly one quote per requested crop.
type Resolution struct {
	Region      string           `json:"region"`
	Quotes      map[string]Quote `json:"quotes"`
	DataQuality int              `json:"dataQuality"`
	Mode        Mode             `json:"mode"`
	LiveCount   int              `json:"liveCount"`
}
