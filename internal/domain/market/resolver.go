package market

import (
	"context"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/yanqian/aquasutra/internal/domain/catalog"
	"github.com/yanqian/aquasutra/internal/domain/outcome"
)

// Resolver turns a possibly failing Source into a complete price table.
type Resolver struct {
	source Source
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewResolver builds a Resolver. A nil source resolves everything from the catalog.
func NewResolver(source Source, clock clockwork.Clock, logger *slog.Logger) *Resolver {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Resolver{
		source: source,
		clock:  clock,
		logger: logger.With("component", "market.resolver"),
	}
}

// Resolve fetches live prices for crops in region in a single batch and fills
// every gap from the catalog baseline. It never fails.
func (r *Resolver) Resolve(ctx context.Context, region string, crops []catalog.CropDefinition) Resolution {
	ids := make([]string, 0, len(crops))
	for _, crop := range crops {
		ids = append(ids, crop.ID)
	}

	var live map[string]LiveQuote
	if r.source != nil && len(ids) > 0 {
		quotes, err := r.source.BatchPrices(ctx, region, ids)
		if err != nil {
			r.logger.Warn("live prices unavailable, using catalog prices", "region", region, "error", err)
		} else {
			live = quotes
		}
	}

	now := r.clock.Now()
	res := Resolution{
		Region: region,
		Quotes: make(map[string]Quote, len(crops)),
	}
	for _, crop := range crops {
		q := Quote{
			CropID:     crop.ID,
			Trend:      Stable,
			Volatility: DefaultVolatility,
			Source:     outcome.Fallback,
			Price:      crop.BaseMarketPrice,
			ResolvedAt: now,
		}
		if msp, ok := MSP(crop.ID); ok {
			q.MSP = &msp
		}
		if lq, ok := live[crop.ID]; ok && lq.Price > 0 {
			q.Price = lq.Price
			q.Trend = normalizeTrend(lq.Trend)
			if lq.Volatility > 0 {
				q.Volatility = lq.Volatility
			}
			q.Source = outcome.Live
			if lq.Source != "" {
				q.Source = lq.Source
			}
			res.LiveCount++
		}
		res.Quotes[crop.ID] = q
	}

	switch {
	case len(crops) > 0 && res.LiveCount == len(crops):
		res.Mode = ModeLive
	case res.LiveCount > 0:
		res.Mode = ModePartial
	default:
		res.Mode = ModeFallback
	}
	res.DataQuality = FallbackDataQuality
	if res.LiveCount > 0 {
		res.DataQuality = LiveDataQuality
	}
	return res
}

func normalizeTrend(t Trend) Trend {
	switch t {
	case Rising, Falling:
		return t
	default:
		return Stable
	}
}
