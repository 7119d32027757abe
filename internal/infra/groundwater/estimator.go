package groundwater

import (
	"strings"

	"github.com/yanqian/aquasutra/internal/domain/groundwater"
	"github.com/yanqian/aquasutra/internal/domain/risk"
)

// Regional depth estimates used when no station reading is available.
const (
	prayagrajDepthM = 28.5
	regionalDepthM  = 20.5
)

// box is a lat/lon rectangle.
type box struct {
	minLat, maxLat, minLon, maxLon float64
}

func (b box) contains(lat, lon float64) bool {
	return lat >= b.minLat && lat <= b.maxLat && lon >= b.minLon && lon <= b.maxLon
}

var prayagrajBox = box{minLat: 25.2, maxLat: 25.6, minLon: 81.6, maxLon: 82.0}

// EstimateDepth returns a regional water table depth for lat/lon.
func EstimateDepth(lat, lon float64) float64 {
	if prayagrajBox.contains(lat, lon) {
		return prayagrajDepthM
	}
	return regionalDepthM
}

// StaticBlocks is an in-memory block assessment table.
type StaticBlocks struct {
	blocks map[string]groundwater.BlockStatus
}

// NewStaticBlocks indexes statuses by district and block, case-insensitively.
func NewStaticBlocks(statuses []groundwater.BlockStatus) *StaticBlocks {
	s := &StaticBlocks{blocks: make(map[string]groundwater.BlockStatus, len(statuses))}
	for _, st := range statuses {
		s.blocks[blockKey(st.District, st.Block)] = st
	}
	return s
}

// DefaultBlocks returns the built-in assessments for the Prayagraj pilot blocks.
func DefaultBlocks() *StaticBlocks {
	return NewStaticBlocks([]groundwater.BlockStatus{
		{District: "Prayagraj", Block: "Chaka", Classification: risk.OverExploited, DepthM: 28.5, RechargeRate: 85, ExtractionRate: 115},
		{District: "Prayagraj", Block: "Sahson", Classification: risk.Critical, DepthM: 22.0, RechargeRate: 92, ExtractionRate: 95},
	})
}

// Lookup returns the status of district/block if known.
func (s *StaticBlocks) Lookup(district, block string) (groundwater.BlockStatus, bool) {
	st, ok := s.blocks[blockKey(district, block)]
	return st, ok
}

func blockKey(district, block string) string {
	return strings.ToLower(strings.TrimSpace(district)) + "|" + strings.ToLower(strings.TrimSpace(block))
}
