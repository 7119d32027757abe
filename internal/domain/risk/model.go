package risk

import (
	"math"
	"strings"

	"github.com/yanqian/aquasutra/internal/domain/catalog"
)

// Level buckets a risk score.
type Level string

const (
	Low     Level = "LOW"
	Medium  Level = "MEDIUM"
	High    Level = "HIGH"
	Extreme Level = "EXTREME"
)

// Category groups risk factors.
type Category string

const (
	Water          Category = "WATER"
	Market         Category = "MARKET"
	Soil           Category = "SOIL"
	Infrastructure Category = "INFRASTRUCTURE"
	Financial      Category = "FINANCIAL"
)

// Aquifer classifications published for administrative blocks.
const (
	Safe          = "Safe"
	SemiCritical  = "Semi-critical"
	Critical      = "Critical"
	OverExploited = "Over-exploited"
	Saline        = "Saline"
	Unknown       = "Unknown"
)

// Market trends.
const (
	TrendRising  = "RISING"
	TrendFalling = "FALLING"
	TrendStable  = "STABLE"
)

// Scoring constants.
const (
	BaseScore = 20
	MaxScore  = 99

	CriticalWaterRatio     = 0.6
	LowWaterRatio          = 0.8
	InsuranceWaterRatio    = 0.7
	InsuranceScore         = 50
	VolatilityThreshold    = 15.0
	DeepPumpingDepthM      = 50.0
	HighInputCostThreshold = 50000.0

	PremiumBaseRate   = 0.02
	PremiumMaxLoading = 0.05
)

// Factor is one triggered risk rule.
type Factor struct {
	Category    Category `json:"category"`
	Severity    int      `json:"severity"`
	Description string   `json:"description"`
	Impact      string   `json:"impact"`
}

// Assessment is the composite risk of planting a crop in a given context.
type Assessment struct {
	Score             int      `json:"score"`
	Level             Level    `json:"level"`
	Factors           []Factor `json:"factors"`
	Recommendations   []string `json:"recommendations"`
	InsuranceRequired bool     `json:"insuranceRequired"`
}

// Context is the farm and market state a crop is assessed against.
type Context struct {
	BlockClassification string
	WaterAvailableMm    float64
	SoilType            string
	MarketTrend         string
	MarketVolatility    float64
	WaterTableDepthM    float64
	PreviousCropID      string
}

type rule struct {
	applies func(crop catalog.CropDefinition, ctx Context, ratio float64) bool
	delta   int
	factor  Factor
}

var rules = []rule{
	{
		applies: func(_ catalog.CropDefinition, _ Context, ratio float64) bool { return ratio < CriticalWaterRatio },
		delta:   35,
		factor:  Factor{Water, 90, "Critical water shortage (<60%)", "Yield loss above 40% highly likely"},
	},
	{
		applies: func(_ catalog.CropDefinition, _ Context, ratio float64) bool {
			return ratio >= CriticalWaterRatio && ratio < LowWaterRatio
		},
		delta:  20,
		factor: Factor{Water, 60, "Insufficient water", "Yield reduction 15-30%"},
	},
	{
		applies: func(_ catalog.CropDefinition, ctx Context, _ float64) bool { return isClass(ctx.BlockClassification, OverExploited) },
		delta:   25,
		factor:  Factor{Water, 85, "Block is over-exploited", "Borewell may fail mid-season"},
	},
	{
		applies: func(_ catalog.CropDefinition, ctx Context, _ float64) bool { return isClass(ctx.BlockClassification, Critical) },
		delta:   15,
		factor:  Factor{Water, 65, "Block groundwater is critical", "Pumping restrictions possible"},
	},
	{
		applies: func(_ catalog.CropDefinition, ctx Context, _ float64) bool { return strings.EqualFold(ctx.MarketTrend, TrendFalling) },
		delta:   20,
		factor:  Factor{Market, 70, "Market prices falling", "Revenue may fall below estimate"},
	},
	{
		applies: func(_ catalog.CropDefinition, ctx Context, _ float64) bool { return ctx.MarketVolatility > VolatilityThreshold },
		delta:   15,
		factor:  Factor{Market, 55, "High price volatility", "Income uncertain at harvest"},
	},
	{
		applies: func(crop catalog.CropDefinition, ctx Context, _ float64) bool { return !crop.SuitsSoil(ctx.SoilType) },
		delta:   20,
		factor:  Factor{Soil, 65, "Soil type not ideal", "Poor establishment and lower yield"},
	},
	{
		applies: func(_ catalog.CropDefinition, ctx Context, _ float64) bool { return ctx.WaterTableDepthM > DeepPumpingDepthM },
		delta:   15,
		factor:  Factor{Infrastructure, 60, "Deep water table", "High pumping cost and pump wear"},
	},
	{
		applies: func(crop catalog.CropDefinition, _ Context, _ float64) bool { return crop.InputCost > HighInputCostThreshold },
		delta:   10,
		factor:  Factor{Financial, 50, "High capital requirement", "Large loss if the crop fails"},
	},
	{
		applies: func(crop catalog.CropDefinition, ctx Context, _ float64) bool {
			return ctx.PreviousCropID != "" && strings.EqualFold(ctx.PreviousCropID, crop.ID)
		},
		delta:  12,
		factor: Factor{Soil, 55, "Monoculture", "Pest build-up and nutrient depletion"},
	},
}

// Assess scores crop against ctx. It is pure and deterministic.
func Assess(crop catalog.CropDefinition, ctx Context) Assessment {
	ratio := waterRatio(crop.WaterRequirementMm, ctx.WaterAvailableMm)

	score := BaseScore
	factors := make([]Factor, 0, 4)
	for _, r := range rules {
		if r.applies(crop, ctx, ratio) {
			score += r.delta
			factors = append(factors, r.factor)
		}
	}
	if score > MaxScore {
		score = MaxScore
	}
	level := LevelFor(score)

	overExploited := isClass(ctx.BlockClassification, OverExploited)
	recs := make([]string, 0, 4)
	if level == Extreme {
		recs = append(recs, "NOT RECOMMENDED for planting", "Consider an alternative crop")
	}
	if level == High || level == Extreme {
		recs = append(recs, "Crop insurance mandatory", "Reduce planted area")
	}
	if overExploited {
		recs = append(recs, "Adopt drip irrigation")
	}
	if strings.EqualFold(ctx.MarketTrend, TrendFalling) {
		recs = append(recs, "Secure contract selling if possible")
	}

	return Assessment{
		Score:             score,
		Level:             level,
		Factors:           factors,
		Recommendations:   recs,
		InsuranceRequired: score > InsuranceScore || ratio < InsuranceWaterRatio || overExploited,
	}
}

// LevelFor maps a score onto a level.
func LevelFor(score int) Level {
	switch {
	case score >= 75:
		return Extreme
	case score >= 55:
		return High
	case score >= 30:
		return Medium
	default:
		return Low
	}
}

// Premium is the seasonal insurance premium for sumInsured at riskScore.
func Premium(sumInsured float64, riskScore int) float64 {
	if math.IsNaN(sumInsured) || sumInsured <= 0 {
		return 0
	}
	s := math.Max(0, math.Min(float64(riskScore), MaxScore))
	return math.Round(sumInsured * (PremiumBaseRate + s/100*PremiumMaxLoading))
}

func waterRatio(requiredMm, availableMm float64) float64 {
	if math.IsNaN(requiredMm) || requiredMm <= 0 {
		return 1
	}
	if math.IsNaN(availableMm) || availableMm <= 0 {
		return 0
	}
	return availableMm / requiredMm
}

func isClass(got, want string) bool {
	return strings.EqualFold(strings.TrimSpace(got), want)
}
