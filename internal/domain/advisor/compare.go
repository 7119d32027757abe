package advisor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/yanqian/aquasutra/pkg/errors"
)

const (
	MinCompareCrops = 2
	MaxCompareCrops = 6
	compareFactors  = 3
)

// CompareRequest asks for a side-by-side evaluation of a few crops on one farm.
type CompareRequest struct {
	Farm    FarmContext `json:"farmContext"`
	CropIDs []string    `json:"cropIds"`
}

// CompareItem is one crop in a comparison.
type CompareItem struct {
	CropID          string   `json:"cropId"`
	Name            string   `json:"name"`
	ProfitPerDrop   float64  `json:"profitPerDrop"`
	TotalProfit     float64  `json:"totalProfit"`
	WaterRequired   float64  `json:"waterRequired"`
	WaterCostRupees float64  `json:"waterCostRupees"`
	AdjustedYield   float64  `json:"adjustedYield"`
	YieldReduction  float64  `json:"yieldReduction"`
	MarketPrice     float64  `json:"marketPrice"`
	MSP             *float64 `json:"msp"`
	PriceTrend      string   `json:"priceTrend"`
	RiskLevel       string   `json:"riskLevel"`
	RiskScore       int      `json:"riskScore"`
	RiskFactors     []string `json:"riskFactors"`
	DaysToHarvest   int      `json:"daysToHarvest"`
	ViabilityScore  int      `json:"viabilityScore"`
}

// ChartData holds parallel series ready for plotting.
type ChartData struct {
	Labels         []string  `json:"labels"`
	ProfitPerDrop  []float64 `json:"profitPerDrop"`
	TotalProfit    []float64 `json:"totalProfit"`
	WaterRequired  []float64 `json:"waterRequired"`
	RiskScore      []int     `json:"riskScore"`
	ViabilityScore []int     `json:"viabilityScore"`
}

// Winner names the best crop of a comparison.
type Winner struct {
	CropID    string `json:"cropId"`
	Name      string `json:"name"`
	Advantage string `json:"advantage"`
	Message   string `json:"message"`
}

// CompareResponse is ordered by profit per drop, best first.
type CompareResponse struct {
	Crops       []CompareItem `json:"crops"`
	ChartData   ChartData     `json:"chartData"`
	Winner      Winner        `json:"winner"`
	DataQuality int           `json:"dataQuality"`
	Region      string        `json:"region"`
}

// Compare evaluates the requested crops under the same farm conditions.
func (e *Engine) Compare(ctx context.Context, req CompareRequest) (CompareResponse, error) {
	ids := dedupe(req.CropIDs)
	if len(ids) < MinCompareCrops || len(ids) > MaxCompareCrops {
		return CompareResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput,
			fmt.Sprintf("between %d and %d distinct crop ids are required", MinCompareCrops, MaxCompareCrops), nil)
	}

	farm := req.Farm
	farm.IntendedCrop = ""
	resp, err := e.Recommend(ctx, Request{Farm: farm, RestrictToCropIDs: ids})
	if err != nil {
		return CompareResponse{}, err
	}
	if len(resp.Recommendations) == 0 {
		return CompareResponse{}, apperrors.Wrap(apperrors.CodeNoViableCrops, "none of the requested crops can grow on this farm", nil)
	}

	results := resp.Recommendations
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ProfitIndex > results[j].ProfitIndex
	})

	out := CompareResponse{
		Crops:       make([]CompareItem, 0, len(results)),
		DataQuality: resp.DataQuality,
		Region:      resp.Region,
	}
	for _, r := range results {
		item := e.compareItem(r)
		out.Crops = append(out.Crops, item)
		out.ChartData.Labels = append(out.ChartData.Labels, item.Name)
		out.ChartData.ProfitPerDrop = append(out.ChartData.ProfitPerDrop, item.ProfitPerDrop)
		out.ChartData.TotalProfit = append(out.ChartData.TotalProfit, item.TotalProfit)
		out.ChartData.WaterRequired = append(out.ChartData.WaterRequired, item.WaterRequired)
		out.ChartData.RiskScore = append(out.ChartData.RiskScore, item.RiskScore)
		out.ChartData.ViabilityScore = append(out.ChartData.ViabilityScore, item.ViabilityScore)
	}
	out.Winner = winnerOf(out.Crops)
	return out, nil
}

func (e *Engine) compareItem(r Result) CompareItem {
	factors := make([]string, 0, compareFactors)
	for i, f := range r.Risk.Factors {
		if i == compareFactors {
			break
		}
		factors = append(factors, f.Description)
	}
	var days int
	if crop, ok := e.catalog.Get(r.CropID); ok {
		days = crop.DurationDays
	}
	return CompareItem{
		CropID:          r.CropID,
		Name:            r.CropName,
		ProfitPerDrop:   r.ProfitIndex,
		TotalProfit:     r.Debug.NetProfit,
		WaterRequired:   r.Debug.WaterRequirementMm,
		WaterCostRupees: r.WaterCost.TotalCostSeason,
		AdjustedYield:   r.AdjustedYield,
		YieldReduction:  r.YieldReductionPercent,
		MarketPrice:     r.MarketPrice,
		MSP:             r.MSP,
		PriceTrend:      string(r.Trend),
		RiskLevel:       string(r.Risk.Level),
		RiskScore:       r.Risk.Score,
		RiskFactors:     factors,
		DaysToHarvest:   days,
		ViabilityScore:  r.ViabilityScore,
	}
}

func winnerOf(items []CompareItem) Winner {
	best := items[0]
	w := Winner{
		CropID:  best.CropID,
		Name:    best.Name,
		Message: fmt.Sprintf("%s offers the best water productivity with %s risk", best.Name, strings.ToLower(best.RiskLevel)),
	}
	switch {
	case len(items) == 1:
		w.Advantage = "Only viable crop among those compared"
	case items[1].ProfitPerDrop > 0:
		gain := (best.ProfitPerDrop - items[1].ProfitPerDrop) / items[1].ProfitPerDrop * 100
		w.Advantage = fmt.Sprintf("%.0f%% higher profit/drop than runner-up", gain)
	case best.ProfitPerDrop > 0:
		w.Advantage = "Only profitable crop among those compared"
	default:
		w.Advantage = "Smallest loss per drop among those compared"
	}
	return w
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
