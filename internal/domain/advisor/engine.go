package advisor

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/aquasutra/internal/domain/catalog"
	"github.com/yanqian/aquasutra/internal/domain/market"
	"github.com/yanqian/aquasutra/internal/domain/outcome"
	"github.com/yanqian/aquasutra/internal/domain/risk"
	"github.com/yanqian/aquasutra/internal/domain/watercost"
	"github.com/yanqian/aquasutra/internal/domain/yieldstress"
)

// LocationResolver maps a pincode onto its district, block and state.
type LocationResolver interface {
	ResolveDistrict(ctx context.Context, pincode string) outcome.Result[Location]
}

// GroundwaterSource provides aquifer data for a farm.
type GroundwaterSource interface {
	Depth(ctx context.Context, lat, lon float64) outcome.Result[float64]
	BlockClassification(ctx context.Context, district, block string) outcome.Result[string]
}

// PriceResolver returns one quote per crop for a market region.
type PriceResolver interface {
	Resolve(ctx context.Context, region string, crops []catalog.CropDefinition) market.Resolution
}

// Config holds the engine's tunables.
type Config struct {
	SeasonalRainfallMm      float64
	DefaultWaterTableDepthM float64
	DefaultRegion           string
	// ProfitTieBand is the profit index gap under which ranking falls back to risk.
	ProfitTieBand float64
	PumpType      watercost.PumpType
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		SeasonalRainfallMm:      500,
		DefaultWaterTableDepthM: watercost.DefaultWaterTableDepthM,
		DefaultRegion:           "Uttar Pradesh",
		ProfitTieBand:           10,
		PumpType:                watercost.Electric,
	}
}

// Engine scores every eligible crop for a farm and ranks the results.
type Engine struct {
	cfg         Config
	catalog     catalog.Catalog
	prices      PriceResolver
	locations   LocationResolver
	groundwater GroundwaterSource
}

// NewEngine wires the engine. Nil collaborators resolve to their defaults.
func NewEngine(cfg Config, cat catalog.Catalog, prices PriceResolver, locations LocationResolver, groundwater GroundwaterSource) *Engine {
	def := DefaultConfig()
	if cfg.SeasonalRainfallMm < 0 {
		cfg.SeasonalRainfallMm = def.SeasonalRainfallMm
	}
	if cfg.DefaultWaterTableDepthM <= 0 {
		cfg.DefaultWaterTableDepthM = def.DefaultWaterTableDepthM
	}
	if strings.TrimSpace(cfg.DefaultRegion) == "" {
		cfg.DefaultRegion = def.DefaultRegion
	}
	if cfg.ProfitTieBand < 0 {
		cfg.ProfitTieBand = def.ProfitTieBand
	}
	if cfg.PumpType == "" {
		cfg.PumpType = def.PumpType
	}
	if prices == nil {
		prices = market.NewResolver(nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}
	return &Engine{
		cfg:         cfg,
		catalog:     cat,
		prices:      prices,
		locations:   locations,
		groundwater: groundwater,
	}
}

// farmState is everything resolved once per run and shared by all crops.
type farmState struct {
	zone        string
	soil        string
	previousID  string
	bucketMm    float64
	availableMm float64
	depth       outcome.Result[float64]
	block       outcome.Result[string]
	prices      market.Resolution
	pump        watercost.PumpType
}

// evaluation is the unrounded metric bundle for one crop.
type evaluation struct {
	crop        catalog.CropDefinition
	quote       market.Quote
	price       float64
	yield       yieldstress.Result
	water       watercost.Breakdown
	revenue     float64
	totalCost   float64
	netProfit   float64
	profitIndex float64
	risk        risk.Assessment
}

// Recommend evaluates the catalog for req.Farm and returns crops ranked best
// first. It fails only on malformed input; an empty list is a valid answer.
func (e *Engine) Recommend(ctx context.Context, req Request) (Response, error) {
	if err := req.Validate(); err != nil {
		return Response{}, err
	}
	farm := req.Farm
	area := farm.AreaAcres
	if area <= 0 {
		area = 1
	}

	loc := e.resolveLocation(ctx, farm.Pincode)
	region := strings.TrimSpace(loc.Value.State)
	if region == "" {
		region = e.cfg.DefaultRegion
	}
	district := firstNonEmpty(farm.District, loc.Value.District)
	block := firstNonEmpty(farm.Block, loc.Value.Block)

	all := e.catalog.All()
	st := farmState{
		zone: ZoneFor(farm.Pincode),
		soil: strings.TrimSpace(farm.SoilType),
		pump: e.cfg.PumpType,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		st.prices = e.prices.Resolve(gctx, region, all)
		return nil
	})
	g.Go(func() error {
		st.depth = e.lookupDepth(gctx, farm.Latitude, farm.Longitude)
		return nil
	})
	g.Go(func() error {
		st.block = e.lookupBlock(gctx, district, block)
		return nil
	})
	_ = g.Wait()

	st.bucketMm = BucketMm(st.soil, farm.SoilDepthCm)
	st.availableMm = st.bucketMm + e.cfg.SeasonalRainfallMm
	st.previousID = e.resolveCropID(farm.PreviousCrop)

	var intent *evaluation
	if crop, ok := e.catalog.Find(farm.IntendedCrop); ok {
		ev := e.evaluate(crop, st)
		intent = &ev
	}

	pool := all
	if len(req.RestrictToCropIDs) > 0 {
		pool = e.catalog.Subset(req.RestrictToCropIDs)
	}
	candidates := make([]*candidate, 0, len(pool))
	for _, crop := range pool {
		if !crop.GrowsIn(st.zone) || !crop.SuitsSoil(st.soil) {
			continue
		}
		candidates = append(candidates, annotate(e.evaluate(crop, st), intent))
	}

	rank(candidates, e.cfg.ProfitTieBand)
	promoteChampion(candidates, intent)

	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		var impact *Impact
		if c.swap && intent != nil {
			impact = computeImpact(*intent, c.eval, area)
		}
		results = append(results, present(c, st, impact))
	}

	resp := Response{
		Recommendations:     results,
		DataQuality:         st.prices.DataQuality,
		PriceMode:           st.prices.Mode,
		Region:              region,
		Zone:                st.zone,
		AvailableWaterMm:    roundTo(st.availableMm, 1),
		WaterTableDepthM:    st.depth.Value,
		BlockClassification: st.block.Value,
		Sources: SourceSummary{
			Location:    loc.Source,
			Groundwater: st.depth.Source,
			Block:       st.block.Source,
		},
	}
	if intent != nil {
		resp.IntentCropID = intent.crop.ID
	}
	return resp, nil
}

func (e *Engine) evaluate(crop catalog.CropDefinition, st farmState) evaluation {
	quote, ok := st.prices.Quotes[crop.ID]
	if !ok {
		quote = market.Quote{CropID: crop.ID, Price: crop.BaseMarketPrice, Trend: market.Stable, Volatility: market.DefaultVolatility, Source: outcome.Fallback}
	}
	price := quote.Price
	if quote.Source != outcome.Fallback {
		// MSP floors observed prices only; catalog fallbacks stay as listed.
		price = quote.FlooredPrice()
	}
	y := yieldstress.Adjust(crop.BaseYieldTons, crop.WaterRequirementMm, st.availableMm, crop.Category)
	water := watercost.Cost(crop.WaterRequirementMm, 1, st.pump, st.depth.Value, watercost.DefaultPump())

	revenue := y.AdjustedYield * price
	totalCost := crop.InputCost + water.TotalCostSeason
	net := revenue - totalCost

	assessment := risk.Assess(crop, risk.Context{
		BlockClassification: st.block.Value,
		WaterAvailableMm:    st.availableMm,
		SoilType:            st.soil,
		MarketTrend:         string(quote.Trend),
		MarketVolatility:    quote.Volatility,
		WaterTableDepthM:    st.depth.Value,
		PreviousCropID:      st.previousID,
	})

	return evaluation{
		crop:        crop,
		quote:       quote,
		price:       price,
		yield:       y,
		water:       water,
		revenue:     revenue,
		totalCost:   totalCost,
		netProfit:   net,
		profitIndex: ProfitIndex(net, crop.WaterRequirementMm, crop.DurationDays),
		risk:        assessment,
	}
}

// ProfitIndex is net profit per mm of water, annualized by crop duration.
func ProfitIndex(netProfit, waterMm float64, durationDays int) float64 {
	if waterMm <= 0 || bad(netProfit) || bad(waterMm) {
		return 0
	}
	perMm := netProfit / waterMm
	if durationDays <= 0 {
		return perMm
	}
	return perMm * 365 / float64(durationDays)
}

func (e *Engine) resolveLocation(ctx context.Context, pincode string) outcome.Result[Location] {
	if e.locations == nil {
		return outcome.FromFallback(Location{}, "no location resolver")
	}
	return e.locations.ResolveDistrict(ctx, strings.TrimSpace(pincode))
}

func (e *Engine) lookupDepth(ctx context.Context, lat, lon float64) outcome.Result[float64] {
	if e.groundwater == nil {
		return outcome.FromFallback(e.cfg.DefaultWaterTableDepthM, "no groundwater source")
	}
	res := e.groundwater.Depth(ctx, lat, lon)
	if bad(res.Value) || res.Value <= 0 {
		return outcome.FromFallback(e.cfg.DefaultWaterTableDepthM, "no usable depth reading")
	}
	return res
}

func (e *Engine) lookupBlock(ctx context.Context, district, block string) outcome.Result[string] {
	if district == "" || block == "" {
		return outcome.FromFallback(risk.Unknown, "block not resolved")
	}
	if e.groundwater == nil {
		return outcome.FromFallback(risk.Unknown, "no groundwater source")
	}
	res := e.groundwater.BlockClassification(ctx, district, block)
	if strings.TrimSpace(res.Value) == "" {
		return outcome.FromFallback(risk.Unknown, "empty classification")
	}
	return res
}

func (e *Engine) resolveCropID(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if crop, ok := e.catalog.Find(name); ok {
		return crop.ID
	}
	return name
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
