package watercost

import (
	"math"
	"strings"
)

// PumpType selects how extraction energy is paid for.
type PumpType string

const (
	Electric PumpType = "ELECTRIC"
	Diesel   PumpType = "DIESEL"
	Hybrid   PumpType = "HYBRID"
	Solar    PumpType = "SOLAR"
)

// ParsePumpType normalizes a pump type name. Unknown names map to Electric.
func ParsePumpType(s string) (PumpType, bool) {
	switch PumpType(strings.ToUpper(strings.TrimSpace(s))) {
	case Electric:
		return Electric, true
	case Diesel:
		return Diesel, true
	case Hybrid:
		return Hybrid, true
	case Solar:
		return Solar, true
	default:
		return Electric, false
	}
}

// Tariffs and physical constants.
const (
	ElectricRatePerKWh      = 7.5
	DieselRatePerLiter      = 95.0
	SolarTokenRatePerKWh    = 0.5
	DieselKWhPerLiter       = 3.0
	HybridElectricShare     = 0.6
	BorewellAnnualUpkeep    = 12000.0
	PumpCapitalCost         = 45000.0
	PumpLifeYears           = 10.0
	SeasonsPerYear          = 3.0
	LitersPerMmAcre         = 4046.86
	HeadLossFactor          = 1.2
	Gravity                 = 9.81
	JoulesPerKWh            = 3.6e6
	DefaultEfficiency       = 0.65
	DefaultWaterTableDepthM = 20.0
)

// PumpConfig describes the installed pump. Type is used when Cost is called
// without an explicit pump type.
type PumpConfig struct {
	Type       PumpType `json:"type"`
	Efficiency float64  `json:"efficiency"`
}

// DefaultPump is an electric pump at the default efficiency.
func DefaultPump() PumpConfig {
	return PumpConfig{Type: Electric, Efficiency: DefaultEfficiency}
}

// Breakdown itemizes the seasonal cost of pumping the required water. Money is INR.
type Breakdown struct {
	ElectricityCost      float64 `json:"electricityCost"`
	DieselCost           float64 `json:"dieselCost"`
	BorewellMaintenance  float64 `json:"borewellMaintenance"`
	PumpDepreciation     float64 `json:"pumpDepreciation"`
	TotalCostPerMm       float64 `json:"totalCostPerMm"`
	TotalCostSeason      float64 `json:"totalCostSeason"`
	TotalWaterLiters     float64 `json:"totalWaterLiters"`
	PowerRequiredKWh     float64 `json:"powerRequiredKWh"`
	DieselRequiredLiters float64 `json:"dieselRequiredLiters"`
}

// Rounded returns the presentation form: money and liters to whole units,
// per-mm cost to paise, energy and fuel to one decimal.
func (b Breakdown) Rounded() Breakdown {
	return Breakdown{
		ElectricityCost:      math.Round(b.ElectricityCost),
		DieselCost:           math.Round(b.DieselCost),
		BorewellMaintenance:  math.Round(b.BorewellMaintenance),
		PumpDepreciation:     math.Round(b.PumpDepreciation),
		TotalCostPerMm:       roundTo(b.TotalCostPerMm, 2),
		TotalCostSeason:      math.Round(b.TotalCostSeason),
		TotalWaterLiters:     math.Round(b.TotalWaterLiters),
		PowerRequiredKWh:     roundTo(b.PowerRequiredKWh, 1),
		DieselRequiredLiters: roundTo(b.DieselRequiredLiters, 1),
	}
}

// Cost computes the seasonal cost of lifting requiredMm of water over areaAcres
// from waterTableDepthM with the given pump, or cfg.Type when pump is empty.
// Inputs are sanitized so the result never contains NaN or Inf.
func Cost(requiredMm, areaAcres float64, pump PumpType, waterTableDepthM float64, cfg PumpConfig) Breakdown {
	req := sanitize(requiredMm, 0)
	if req < 0 {
		req = 0
	}
	area := sanitize(areaAcres, 1)
	if area <= 0 {
		area = 1
	}
	depth := sanitize(waterTableDepthM, DefaultWaterTableDepthM)
	if depth < 0 {
		depth = 0
	}
	efficiency := sanitize(cfg.Efficiency, DefaultEfficiency)
	if efficiency <= 0 {
		efficiency = DefaultEfficiency
	}
	if efficiency > 1 {
		efficiency = 1
	}

	liters := req * LitersPerMmAcre * area
	head := depth * HeadLossFactor
	theoreticalKWh := liters * Gravity * head / JoulesPerKWh
	kwh := theoreticalKWh / efficiency

	if pump == "" {
		pump = cfg.Type
	}

	var out Breakdown
	switch pump {
	case Diesel:
		out.DieselRequiredLiters = kwh / DieselKWhPerLiter
		out.DieselCost = out.DieselRequiredLiters * DieselRatePerLiter
	case Hybrid:
		out.ElectricityCost = kwh * HybridElectricShare * ElectricRatePerKWh
		out.DieselRequiredLiters = kwh * (1 - HybridElectricShare) / DieselKWhPerLiter
		out.DieselCost = out.DieselRequiredLiters * DieselRatePerLiter
	case Solar:
		out.ElectricityCost = kwh * SolarTokenRatePerKWh
	default:
		out.ElectricityCost = kwh * ElectricRatePerKWh
	}

	out.BorewellMaintenance = BorewellAnnualUpkeep / SeasonsPerYear
	out.PumpDepreciation = PumpCapitalCost / PumpLifeYears / SeasonsPerYear
	out.TotalCostSeason = out.ElectricityCost + out.DieselCost + out.BorewellMaintenance + out.PumpDepreciation
	if req > 0 {
		out.TotalCostPerMm = out.TotalCostSeason / req
	}
	out.TotalWaterLiters = liters
	out.PowerRequiredKWh = kwh
	return out
}

// Comparison holds the same requirement costed on the common pump types.
type Comparison struct {
	Electric Breakdown `json:"electric"`
	Diesel   Breakdown `json:"diesel"`
	Solar    Breakdown `json:"solar"`
}

// ComparePumps costs the requirement for electric, diesel and solar pumps.
func ComparePumps(requiredMm, waterTableDepthM, areaAcres float64) Comparison {
	cfg := DefaultPump()
	return Comparison{
		Electric: Cost(requiredMm, areaAcres, Electric, waterTableDepthM, cfg),
		Diesel:   Cost(requiredMm, areaAcres, Diesel, waterTableDepthM, cfg),
		Solar:    Cost(requiredMm, areaAcres, Solar, waterTableDepthM, cfg),
	}
}

// SolarPaysOff reports whether solar running cost is below 60% of electric.
func (c Comparison) SolarPaysOff() bool {
	return c.Solar.TotalCostSeason < 0.6*c.Electric.TotalCostSeason
}

func sanitize(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
