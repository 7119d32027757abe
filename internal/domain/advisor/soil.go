package advisor

import (
	"strconv"
	"strings"

	"github.com/yanqian/aquasutra/internal/domain/catalog"
)

// DefaultRootDepthCm is assumed when the farmer does not know the soil depth.
const DefaultRootDepthCm = 100.0

// available water capacity in mm per meter of soil, first match wins.
var waterHoldingCapacity = []struct {
	keywords []string
	mmPerM   float64
}{
	{[]string{"sand"}, 100},
	{[]string{"clay", "black"}, 200},
	{[]string{"loam"}, 180},
}

const defaultHoldingCapacity = 140.0

// HoldingCapacity returns mm of plant-available water per meter of soil.
func HoldingCapacity(soilType string) float64 {
	soil := strings.ToLower(soilType)
	for _, row := range waterHoldingCapacity {
		for _, kw := range row.keywords {
			if strings.Contains(soil, kw) {
				return row.mmPerM
			}
		}
	}
	return defaultHoldingCapacity
}

// BucketMm is the soil moisture reservoir for soilType over depthCm.
func BucketMm(soilType string, depthCm float64) float64 {
	if depthCm <= 0 {
		depthCm = DefaultRootDepthCm
	}
	return HoldingCapacity(soilType) * depthCm / 100
}

var zoneRanges = []struct {
	from, to int
	zone     string
}{
	{440, 445, "Vidarbha"},
	{431, 436, "Marathwada"},
	{410, 416, "Western Maharashtra"},
	{424, 425, "Northern Maharashtra"},
}

// ZoneFor maps a pincode onto an agro-climatic zone by its first three digits.
func ZoneFor(pincode string) string {
	p := strings.TrimSpace(pincode)
	if len(p) < 3 {
		return catalog.GeneralZone
	}
	prefix, err := strconv.Atoi(p[:3])
	if err != nil {
		return catalog.GeneralZone
	}
	for _, r := range zoneRanges {
		if prefix >= r.from && prefix <= r.to {
			return r.zone
		}
	}
	return catalog.GeneralZone
}
