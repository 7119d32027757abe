// Package groundwater reports aquifer status and depth history for a block.
package groundwater

import (
	"context"
	"math"
	"strings"

	"github.com/yanqian/aquasutra/internal/domain/outcome"
	"github.com/yanqian/aquasutra/internal/domain/risk"
)

const (
	DefaultTrendYears = 5
	MaxTrendYears     = 20
)

// BlockStatus is the CGWB assessment of an administrative block.
type BlockStatus struct {
	District       string         `json:"district"`
	Block          string         `json:"block"`
	Classification string         `json:"classification"`
	DepthM         float64        `json:"waterTableDepthM"`
	RechargeRate   float64        `json:"rechargeRate"`
	ExtractionRate float64        `json:"extractionRate"`
	Source         outcome.Source `json:"source"`
}

// TrendPoint is the water table depth observed in a year.
type TrendPoint struct {
	Year   int     `json:"year"`
	DepthM float64 `json:"waterTableDepthM"`
}

// TrendReport is a depth history ending in the current year, oldest first.
type TrendReport struct {
	Status          BlockStatus  `json:"status"`
	DeclinePerYearM float64      `json:"declinePerYearM"`
	Points          []TrendPoint `json:"points"`
}

// StatusSource looks up block status. The result always holds a usable value;
// the error is set only when every configured upstream failed and no built-in
// assessment covers the block.
type StatusSource interface {
	Status(ctx context.Context, district, block string) (outcome.Result[BlockStatus], error)
}

// DeclineRate is the typical yearly drop of the water table in meters for a
// classification. A negative rate means the table is recovering.
func DeclineRate(classification string) float64 {
	switch strings.ToLower(strings.TrimSpace(classification)) {
	case strings.ToLower(risk.OverExploited):
		return 1.2
	case strings.ToLower(risk.Critical):
		return 0.8
	case strings.ToLower(risk.SemiCritical):
		return 0.4
	case strings.ToLower(risk.Safe):
		return -0.1
	default:
		return 0
	}
}

// Trend rebuilds a yearly depth series from the current status.
func Trend(status BlockStatus, currentYear, years int) TrendReport {
	if years <= 0 {
		years = DefaultTrendYears
	}
	if years > MaxTrendYears {
		years = MaxTrendYears
	}
	rate := DeclineRate(status.Classification)
	points := make([]TrendPoint, 0, years)
	for back := years - 1; back >= 0; back-- {
		depth := math.Max(0, status.DepthM-rate*float64(back))
		points = append(points, TrendPoint{
			Year:   currentYear - back,
			DepthM: math.Round(depth*10) / 10,
		})
	}
	return TrendReport{Status: status, DeclinePerYearM: rate, Points: points}
}
