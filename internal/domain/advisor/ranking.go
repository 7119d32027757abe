package advisor

import (
	"fmt"
	"math"
	"sort"

	"github.com/yanqian/aquasutra/internal/domain/market"
	"github.com/yanqian/aquasutra/internal/domain/outcome"
	"github.com/yanqian/aquasutra/internal/domain/risk"
	"github.com/yanqian/aquasutra/internal/domain/watercost"
)

const (
	// SwapMinWaterSavingsPercent must be strictly exceeded for a smart swap.
	SwapMinWaterSavingsPercent = 20.0
	SwapProfitRetention        = 0.8
	SwapRiskAdvantage          = 20
	riskReasonDelta            = 10
	yieldLossWarningPercent    = 20.0

	DrinkingWaterLitersPerDay = 500.0
	PondLiters                = 1e6

	TopRecommendationReason = "Top Recommendation"
)

type candidate struct {
	eval    evaluation
	savings float64
	swap    bool
	reasons []string
}

// annotate computes water savings against the intent and decides the swap flag.
func annotate(ev evaluation, intent *evaluation) *candidate {
	c := &candidate{eval: ev}
	if intent != nil && ev.crop.ID != intent.crop.ID {
		if intentMm := intent.crop.WaterRequirementMm; intentMm > 0 {
			c.savings = (intentMm - ev.crop.WaterRequirementMm) / intentMm * 100
		}
		if c.savings > SwapMinWaterSavingsPercent &&
			(ev.profitIndex >= intent.profitIndex*SwapProfitRetention ||
				ev.risk.Score <= intent.risk.Score-SwapRiskAdvantage) {
			c.swap = true
			c.reasons = append(c.reasons, swapReasons(ev, *intent, c.savings)...)
		}
	}

	if ev.yield.YieldReductionPercent > yieldLossWarningPercent {
		c.reasons = append(c.reasons, fmt.Sprintf("%.0f%% yield loss due to water stress", ev.yield.YieldReductionPercent))
	}
	if ev.risk.Level == risk.High || ev.risk.Level == risk.Extreme {
		recs := ev.risk.Recommendations
		if len(recs) > 2 {
			recs = recs[:2]
		}
		c.reasons = append(c.reasons, recs...)
	}
	if ev.quote.Trend == market.Rising {
		c.reasons = append(c.reasons, "Prices rising, good timing")
	}
	return c
}

func swapReasons(ev, intent evaluation, savings float64) []string {
	reasons := []string{fmt.Sprintf("Saves %.0f%% water", savings)}
	if ev.profitIndex > intent.profitIndex {
		switch {
		case intent.profitIndex <= 0 && ev.profitIndex > 0:
			reasons = append(reasons, "Turns loss into profit")
		case intent.profitIndex <= 0:
			reasons = append(reasons, "Smaller loss per drop of water")
		default:
			gain := (ev.profitIndex - intent.profitIndex) / intent.profitIndex * 100
			reasons = append(reasons, fmt.Sprintf("%.0f%% higher profit per drop", gain))
		}
	}
	if ev.risk.Score < intent.risk.Score-riskReasonDelta {
		reasons = append(reasons, fmt.Sprintf("%d points lower risk", intent.risk.Score-ev.risk.Score))
	}
	return reasons
}

// rank orders candidates best first. Swaps lead; a profit index gap wider
// than tieBand decides, otherwise lower risk wins. Equal candidates keep
// catalog order.
func rank(cs []*candidate, tieBand float64) {
	// The tie band makes this comparator non-transitive, but SliceStable still
	// yields the same order for the same input slice.
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if a.swap != b.swap {
			return a.swap
		}
		if math.Abs(a.eval.profitIndex-b.eval.profitIndex) > tieBand {
			return a.eval.profitIndex > b.eval.profitIndex
		}
		return a.eval.risk.Score < b.eval.risk.Score
	})
}

// promoteChampion flags the top result as a swap when it beats the intent
// without having qualified on its own.
func promoteChampion(cs []*candidate, intent *evaluation) {
	if intent == nil || len(cs) == 0 {
		return
	}
	top := cs[0]
	if top.eval.crop.ID == intent.crop.ID || top.swap {
		return
	}
	top.swap = true
	top.reasons = append([]string{TopRecommendationReason}, top.reasons...)
}

// computeImpact translates the water saved by choosing rec over intent into
// tangible figures. It returns nil when rec saves no water.
func computeImpact(intent, rec evaluation, areaAcres float64) *Impact {
	if areaAcres <= 0 {
		areaAcres = 1
	}
	diffMm := intent.crop.WaterRequirementMm - rec.crop.WaterRequirementMm
	liters := diffMm * watercost.LitersPerMmAcre * areaAcres
	if liters <= 0 || bad(liters) {
		return nil
	}

	var extraAcres float64
	if rec.crop.WaterRequirementMm > 0 {
		extraAcres = liters / (rec.crop.WaterRequirementMm * watercost.LitersPerMmAcre)
	}
	return &Impact{
		WaterSavedLiters:    math.Round(liters),
		DrinkingWaterDays:   math.Round(liters / DrinkingWaterLitersPerDay),
		PondsFilled:         roundTo(liters/PondLiters, 1),
		ExtraAcresIrrigable: roundTo(extraAcres, 1),
		Comparison: Comparison{
			IntentCropName:         intent.crop.Name,
			IntentWaterMm:          intent.crop.WaterRequirementMm,
			IntentProfitIndex:      roundTo(intent.profitIndex, 2),
			RecommendedProfitIndex: roundTo(rec.profitIndex, 2),
			IntentRiskScore:        intent.risk.Score,
			RecommendedRiskScore:   rec.risk.Score,
			SavingsBreakdown: SavingsBreakdown{
				WaterCostSaved: math.Round(intent.water.TotalCostSeason - rec.water.TotalCostSeason),
				NetProfitDelta: math.Round(rec.netProfit - intent.netProfit),
				RiskReduction:  intent.risk.Score - rec.risk.Score,
			},
		},
	}
}

// present rounds a candidate into its public form.
func present(c *candidate, st farmState, impact *Impact) Result {
	ev := c.eval
	reasons := c.reasons
	if reasons == nil {
		reasons = []string{}
	}
	var live float64
	if ev.quote.Source != "" && ev.quote.Source != outcome.Fallback {
		live = ev.quote.Price
	}
	return Result{
		CropID:                ev.crop.ID,
		CropName:              ev.crop.Name,
		ProfitIndex:           roundTo(ev.profitIndex, 2),
		WaterSavingsPercent:   math.Round(c.savings),
		ViabilityScore:        100 - ev.risk.Score,
		IsSmartSwap:           c.swap,
		Reasons:               reasons,
		MarketPrice:           math.Round(ev.price),
		MSP:                   ev.quote.MSP,
		Trend:                 ev.quote.Trend,
		AdjustedYield:         roundTo(ev.yield.AdjustedYield, 2),
		YieldReductionPercent: roundTo(ev.yield.YieldReductionPercent, 1),
		WaterCost:             ev.water.Rounded(),
		Risk:                  ev.risk,
		Impact:                impact,
		Debug: Trace{
			Zone:                st.zone,
			BucketSizeMm:        roundTo(st.bucketMm, 1),
			AvailableWaterMm:    roundTo(st.availableMm, 1),
			WaterRequirementMm:  ev.crop.WaterRequirementMm,
			BaseYield:           ev.crop.BaseYieldTons,
			AdjustedYield:       roundTo(ev.yield.AdjustedYield, 2),
			BaseMarketPrice:     ev.crop.BaseMarketPrice,
			LiveMarketPrice:     math.Round(live),
			AppliedPrice:        math.Round(ev.price),
			ProjectedRevenue:    math.Round(ev.revenue),
			TotalCost:           math.Round(ev.totalCost),
			NetProfit:           math.Round(ev.netProfit),
			RiskScore:           ev.risk.Score,
			DataQuality:         st.prices.DataQuality,
			PriceSource:         ev.quote.Source,
			GroundwaterSource:   st.depth.Source,
			WaterTableDepthM:    st.depth.Value,
			BlockClassification: st.block.Value,
		},
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
