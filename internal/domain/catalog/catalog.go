package catalog

import (
	"fmt"
	"strings"
)

// GeneralZone matches every agro-climatic zone.
const GeneralZone = "General"

// Category groups crops by how sharply yield drops under water deficit.
type Category string

const (
	Cereal       Category = "CEREAL"
	CashCrop     Category = "CASH_CROP"
	Pulse        Category = "PULSE"
	Vegetable    Category = "VEGETABLE"
	Horticulture Category = "HORTICULTURE"
)

// TemperatureRange is the tolerated growing range in °C.
type TemperatureRange struct {
	MinC float64 `json:"minC" yaml:"minC"`
	MaxC float64 `json:"maxC" yaml:"maxC"`
}

// CropDefinition is a single immutable catalog entry. Prices are INR per ton,
// yield is tons per acre and input cost is INR per acre.
type CropDefinition struct {
	ID                 string           `json:"id" yaml:"id"`
	Name               string           `json:"name" yaml:"name"`
	DurationDays       int              `json:"durationDays" yaml:"durationDays"`
	WaterRequirementMm float64          `json:"waterRequirementMm" yaml:"waterRequirementMm"`
	Temperature        TemperatureRange `json:"temperature" yaml:"temperature"`
	BaseYieldTons      float64          `json:"baseYieldTons" yaml:"baseYieldTons"`
	BaseMarketPrice    float64          `json:"baseMarketPrice" yaml:"baseMarketPrice"`
	InputCost          float64          `json:"inputCost" yaml:"inputCost"`
	SoilTypes          []string         `json:"soilTypes" yaml:"soilTypes"`
	Zones              []string         `json:"zones" yaml:"zones"`
	IsLegume           bool             `json:"isLegume" yaml:"isLegume"`
	Category           Category         `json:"category" yaml:"category"`
}

// GrowsIn reports whether the crop may be planted in zone.
func (d CropDefinition) GrowsIn(zone string) bool {
	if len(d.Zones) == 0 || strings.EqualFold(zone, GeneralZone) || strings.TrimSpace(zone) == "" {
		return true
	}
	for _, z := range d.Zones {
		if strings.EqualFold(z, zone) || strings.EqualFold(z, GeneralZone) {
			return true
		}
	}
	return false
}

// SuitsSoil reports whether soil matches one of the crop's soil types.
// Matching is a case-insensitive substring test in either direction so that
// "Black Cotton Soil" matches "Black" and vice versa. An empty soil is not
// evidence of a mismatch.
func (d CropDefinition) SuitsSoil(soil string) bool {
	s := strings.ToLower(strings.TrimSpace(soil))
	if s == "" || len(d.SoilTypes) == 0 {
		return true
	}
	for _, candidate := range d.SoilTypes {
		c := strings.ToLower(strings.TrimSpace(candidate))
		if c == "" {
			continue
		}
		if strings.Contains(s, c) || strings.Contains(c, s) {
			return true
		}
	}
	return false
}

// CategoryFor derives a water sensitivity category from a crop id.
func CategoryFor(id string) Category {
	lower := strings.ToLower(id)
	containsAny := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}
	switch {
	case containsAny("sugarcane", "cotton"):
		return CashCrop
	case containsAny("gram", "tur", "moong", "soybean", "urad"):
		return Pulse
	case containsAny("onion", "tomato", "potato", "chili", "chilli", "brinjal", "okra", "cabbage", "cauliflower"):
		return Vegetable
	case containsAny("pomegranate", "grapes", "mango", "banana", "papaya"):
		return Horticulture
	default:
		return Cereal
	}
}

// Catalog is an immutable set of crop definitions in a fixed order.
type Catalog struct {
	crops []CropDefinition
	index map[string]int
}

// New validates and copies the given definitions into a Catalog.
func New(crops []CropDefinition) (Catalog, error) {
	out := Catalog{
		crops: make([]CropDefinition, 0, len(crops)),
		index: make(map[string]int, len(crops)),
	}
	for i, crop := range crops {
		id := strings.TrimSpace(crop.ID)
		if id == "" {
			return Catalog{}, fmt.Errorf("crop %d: id cannot be empty", i)
		}
		if _, dup := out.index[id]; dup {
			return Catalog{}, fmt.Errorf("crop %q: duplicate id", id)
		}
		if crop.DurationDays <= 0 {
			return Catalog{}, fmt.Errorf("crop %q: durationDays must be positive", id)
		}
		if crop.WaterRequirementMm < 0 || crop.BaseYieldTons < 0 || crop.BaseMarketPrice < 0 || crop.InputCost < 0 {
			return Catalog{}, fmt.Errorf("crop %q: numeric fields cannot be negative", id)
		}
		crop.ID = id
		if strings.TrimSpace(crop.Name) == "" {
			crop.Name = id
		}
		if crop.Category == "" {
			crop.Category = CategoryFor(id)
		}
		crop.SoilTypes = append([]string(nil), crop.SoilTypes...)
		crop.Zones = append([]string(nil), crop.Zones...)
		out.index[id] = len(out.crops)
		out.crops = append(out.crops, crop)
	}
	return out, nil
}

// MustNew is New for static tables known to be valid.
func MustNew(crops []CropDefinition) Catalog {
	c, err := New(crops)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of crops.
func (c Catalog) Len() int {
	return len(c.crops)
}

// All returns the definitions in catalog order.
func (c Catalog) All() []CropDefinition {
	out := make([]CropDefinition, len(c.crops))
	copy(out, c.crops)
	return out
}

// IDs returns crop ids in catalog order.
func (c Catalog) IDs() []string {
	ids := make([]string, 0, len(c.crops))
	for _, crop := range c.crops {
		ids = append(ids, crop.ID)
	}
	return ids
}

// Get looks up a crop by exact id.
func (c Catalog) Get(id string) (CropDefinition, bool) {
	i, ok := c.index[strings.TrimSpace(id)]
	if !ok {
		return CropDefinition{}, false
	}
	return c.crops[i], true
}

// Find resolves a free-text crop name. The first crop in catalog order whose
// name contains the needle (case-insensitive) or whose id equals it wins.
func (c Catalog) Find(name string) (CropDefinition, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return CropDefinition{}, false
	}
	for _, crop := range c.crops {
		if strings.Contains(strings.ToLower(crop.Name), needle) || strings.ToLower(crop.ID) == needle {
			return crop, true
		}
	}
	return CropDefinition{}, false
}

// Subset returns the crops with the given ids in catalog order. Unknown ids
// are ignored.
func (c Catalog) Subset(ids []string) []CropDefinition {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[strings.TrimSpace(id)] = struct{}{}
	}
	out := make([]CropDefinition, 0, len(wanted))
	for _, crop := range c.crops {
		if _, ok := wanted[crop.ID]; ok {
			out = append(out, crop)
		}
	}
	return out
}
