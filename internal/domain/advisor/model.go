package advisor

import (
	"math"
	"strings"

	"github.com/yanqian/aquasutra/internal/domain/market"
	"github.com/yanqian/aquasutra/internal/domain/outcome"
	"github.com/yanqian/aquasutra/internal/domain/risk"
	"github.com/yanqian/aquasutra/internal/domain/watercost"
	apperrors "github.com/yanqian/aquasutra/pkg/errors"
)

// MaxAreaAcres bounds the land area accepted per request.
const MaxAreaAcres = 10000

// FarmContext describes the farm a recommendation is made for.
type FarmContext struct {
	Pincode      string  `json:"pincode"`
	District     string  `json:"district,omitempty"`
	Block        string  `json:"block,omitempty"`
	Latitude     float64 `json:"lat"`
	Longitude    float64 `json:"lon"`
	SoilType     string  `json:"soilType"`
	SoilDepthCm  float64 `json:"soilDepthCm,omitempty"`
	PreviousCrop string  `json:"previousCropId,omitempty"`
	AreaAcres    float64 `json:"totalLandArea"`
	IntendedCrop string  `json:"intendedCrop,omitempty"`
}

// Request is one recommendation run. RestrictToCropIDs limits evaluation to a
// subset of the catalog; zone and soil filters still apply.
type Request struct {
	Farm              FarmContext `json:"farmContext"`
	RestrictToCropIDs []string    `json:"cropIds,omitempty"`
}

// Validate rejects malformed input before any computation runs.
func (r Request) Validate() error {
	f := r.Farm
	if strings.TrimSpace(f.Pincode) == "" {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "pincode is required", nil)
	}
	if bad(f.Latitude) || f.Latitude < -90 || f.Latitude > 90 {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "lat must be between -90 and 90", nil)
	}
	if bad(f.Longitude) || f.Longitude < -180 || f.Longitude > 180 {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "lon must be between -180 and 180", nil)
	}
	if bad(f.AreaAcres) || f.AreaAcres < 0 || f.AreaAcres > MaxAreaAcres {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "totalLandArea is out of range", nil)
	}
	if bad(f.SoilDepthCm) || f.SoilDepthCm < 0 {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "soilDepthCm cannot be negative", nil)
	}
	return nil
}

func bad(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// Location is the administrative unit a pincode belongs to.
type Location struct {
	District string `json:"district"`
	Block    string `json:"block,omitempty"`
	State    string `json:"state"`
}

// Response is the ranked output of a run.
type Response struct {
	RequestID           string        `json:"requestId"`
	Recommendations     []Result      `json:"recommendations"`
	DataQuality         int           `json:"dataQuality"`
	PriceMode           market.Mode   `json:"priceMode"`
	Region              string        `json:"region"`
	Zone                string        `json:"zone"`
	AvailableWaterMm    float64       `json:"availableWaterMm"`
	WaterTableDepthM    float64       `json:"waterTableDepthM"`
	BlockClassification string        `json:"blockClassification"`
	IntentCropID        string        `json:"intentCropId,omitempty"`
	Sources             SourceSummary `json:"sources"`
}

// SourceSummary records where each collaborator value came from.
type SourceSummary struct {
	Location    outcome.Source `json:"location"`
	Groundwater outcome.Source `json:"groundwater"`
	Block       outcome.Source `json:"block"`
}

// Result is the evaluation of a single crop.
type Result struct {
	CropID                string              `json:"cropId"`
	CropName              string              `json:"name"`
	ProfitIndex           float64             `json:"profitIndex"`
	WaterSavingsPercent   float64             `json:"waterSavings"`
	ViabilityScore        int                 `json:"viabilityScore"`
	IsSmartSwap           bool                `json:"isSmartSwap"`
	Reasons               []string            `json:"reason"`
	MarketPrice           float64             `json:"marketPrice"`
	MSP                   *float64            `json:"msp"`
	Trend                 market.Trend        `json:"priceTrend"`
	AdjustedYield         float64             `json:"adjustedYield"`
	YieldReductionPercent float64             `json:"yieldReduction"`
	WaterCost             watercost.Breakdown `json:"waterCost"`
	Risk                  risk.Assessment     `json:"riskAssessment"`
	Debug                 Trace               `json:"debug"`
	Impact                *Impact             `json:"impact,omitempty"`
}

// Trace exposes the intermediate values behind a result.
type Trace struct {
	Zone                string         `json:"zone"`
	BucketSizeMm        float64        `json:"bucketSize"`
	AvailableWaterMm    float64        `json:"availableWaterMm"`
	WaterRequirementMm  float64        `json:"waterMm"`
	BaseYield           float64        `json:"baseYield"`
	AdjustedYield       float64        `json:"adjustedYield"`
	BaseMarketPrice     float64        `json:"baseMarketPrice"`
	LiveMarketPrice     float64        `json:"liveMarketPrice"`
	AppliedPrice        float64        `json:"appliedPrice"`
	ProjectedRevenue    float64        `json:"projectedRevenue"`
	TotalCost           float64        `json:"totalCost"`
	NetProfit           float64        `json:"netProfit"`
	RiskScore           int            `json:"riskScore"`
	DataQuality         int            `json:"dataQuality"`
	PriceSource         outcome.Source `json:"priceSource"`
	GroundwaterSource   outcome.Source `json:"groundwaterSource"`
	WaterTableDepthM    float64        `json:"waterTableDepthM"`
	BlockClassification string         `json:"blockClassification"`
}

// Impact compares a recommended crop with the farmer's intended crop.
type Impact struct {
	WaterSavedLiters    float64    `json:"totalLiters"`
	DrinkingWaterDays   float64    `json:"drinkingWaterDays"`
	PondsFilled         float64    `json:"pondsFilled"`
	ExtraAcresIrrigable float64    `json:"extraAcres"`
	Comparison          Comparison `json:"comparison"`
}

// Comparison holds the intent-vs-recommendation figures.
type Comparison struct {
	IntentCropName         string           `json:"intentCropName"`
	IntentWaterMm          float64          `json:"intentWaterMm"`
	IntentProfitIndex      float64          `json:"intentProfitIndex"`
	RecommendedProfitIndex float64          `json:"recommendedProfitIndex"`
	IntentRiskScore        int              `json:"intentRiskScore"`
	RecommendedRiskScore   int              `json:"recommendedRiskScore"`
	SavingsBreakdown       SavingsBreakdown `json:"savingsBreakdown"`
}

// SavingsBreakdown is the money and risk delta of switching crops.
type SavingsBreakdown struct {
	WaterCostSaved float64 `json:"waterCostSaved"`
	NetProfitDelta float64 `json:"yieldImprovement"`
	RiskReduction  int     `json:"riskReduction"`
}
