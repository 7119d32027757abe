package yieldstress

import (
	"math"

	"github.com/yanqian/aquasutra/internal/domain/catalog"
)

// Severity describes how badly a water deficit hurts yield.
type Severity string

const (
	None     Severity = "NONE"
	Mild     Severity = "MILD"
	Moderate Severity = "MODERATE"
	Severe   Severity = "SEVERE"
)

// Band cutoffs on the available/required water ratio.
const (
	MildRatio       = 1.0
	ModerateRatio   = 0.8
	SevereRatio     = 0.6
	DoNotPlantRatio = 0.4
	MaxRatio        = 1.2
	FloorFactor     = 0.05
)

// Result is the yield outcome for one crop under the available water.
type Result struct {
	WaterRatio            float64  `json:"waterRatio"`
	BaseYield             float64  `json:"baseYield"`
	AdjustedYield         float64  `json:"adjustedYield"`
	YieldReductionPercent float64  `json:"yieldReductionPercent"`
	Severity              Severity `json:"severity"`
	Recommendations       []string `json:"recommendations"`
}

// curve points are the yield factor at 100, 90, ... 30 percent of required water.
var curves = map[catalog.Category][8]float64{
	catalog.Cereal:       {1.00, 0.95, 0.88, 0.78, 0.65, 0.48, 0.28, 0.10},
	catalog.CashCrop:     {1.00, 0.92, 0.82, 0.68, 0.50, 0.28, 0.12, 0.05},
	catalog.Pulse:        {1.00, 0.96, 0.91, 0.84, 0.75, 0.62, 0.45, 0.25},
	catalog.Vegetable:    {1.00, 0.94, 0.85, 0.73, 0.58, 0.38, 0.18, 0.05},
	catalog.Horticulture: {1.00, 0.93, 0.84, 0.71, 0.54, 0.32, 0.15, 0.05},
}

// Adjust applies the water stress penalty for category to baseYield.
func Adjust(baseYield, requiredMm, availableMm float64, category catalog.Category) Result {
	base := baseYield
	if math.IsNaN(base) || math.IsInf(base, 0) || base < 0 {
		base = 0
	}
	ratio := Ratio(requiredMm, availableMm)
	severity := SeverityFor(ratio)

	factor := 1.0
	if ratio < MildRatio {
		factor = yieldFactor(category, ratio*100)
	}
	reduction := (1 - factor) * 100

	return Result{
		WaterRatio:            ratio,
		BaseYield:             base,
		AdjustedYield:         math.Max(0, base*factor),
		YieldReductionPercent: reduction,
		Severity:              severity,
		Recommendations:       recommendationsFor(severity, ratio),
	}
}

// Ratio is available/required water clamped to [0, MaxRatio]. A crop that
// needs no water is never stressed.
func Ratio(requiredMm, availableMm float64) float64 {
	if math.IsNaN(requiredMm) || requiredMm <= 0 {
		return MaxRatio
	}
	if math.IsNaN(availableMm) || availableMm <= 0 {
		return 0
	}
	return math.Min(MaxRatio, availableMm/requiredMm)
}

// SeverityFor maps a water ratio onto the stress bands.
func SeverityFor(ratio float64) Severity {
	switch {
	case ratio >= MildRatio:
		return None
	case ratio >= ModerateRatio:
		return Mild
	case ratio >= SevereRatio:
		return Moderate
	default:
		return Severe
	}
}

func yieldFactor(category catalog.Category, waterPercent float64) float64 {
	points, ok := curves[category]
	if !ok {
		points = curves[catalog.Cereal]
	}
	if waterPercent >= 100 {
		return 1
	}
	if waterPercent < 30 {
		return FloorFactor
	}
	// points[i] sits at 100-10i percent.
	i := int((100 - waterPercent) / 10)
	if i >= len(points)-1 {
		return points[len(points)-1]
	}
	upper := 100 - float64(i)*10
	frac := (upper - waterPercent) / 10
	return points[i] + (points[i+1]-points[i])*frac
}

func recommendationsFor(severity Severity, ratio float64) []string {
	switch severity {
	case Mild:
		return []string{
			"Apply mulching to cut evaporation losses",
			"Monitor soil moisture before each irrigation",
		}
	case Moderate:
		return []string{
			"Consider drip irrigation to stretch available water",
			"Reduce plant density by about 20%",
		}
	case Severe:
		recs := []string{
			"Critical water shortage for this crop",
			"Plan life-saving irrigation at flowering",
			"Harvest early for fodder if the season fails",
		}
		if ratio < DoNotPlantRatio {
			recs = append(recs, "Do not plant without an assured water source")
		}
		return recs
	default:
		return []string{}
	}
}
