// Package pincode maps Indian postal codes onto administrative blocks.
package pincode

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/yanqian/aquasutra/internal/domain/advisor"
	"github.com/yanqian/aquasutra/internal/domain/outcome"
)

// SearchRadiusKm bounds the nearest block search.
const SearchRadiusKm = 50.0

const earthRadiusKm = 6371.0

// Record ties a pincode to its district, block and a representative point.
type Record struct {
	Pincode  string  `json:"pincode"`
	District string  `json:"district"`
	Block    string  `json:"block"`
	State    string  `json:"state"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}

// Location converts the record for the recommendation engine.
func (r Record) Location() advisor.Location {
	return advisor.Location{District: r.District, Block: r.Block, State: r.State}
}

// Match is the result of a nearest block search.
type Match struct {
	Record
	DistanceKm float64 `json:"distanceKm"`
}

// Repository looks up pincodes in a persistent store.
type Repository interface {
	FindByPincode(ctx context.Context, pincode string) (Record, bool, error)
}

// Directory resolves pincodes from the repository first and the built-in records second.
type Directory struct {
	records map[string]Record
	ordered []Record
	repo    Repository
	logger  *slog.Logger
}

var _ advisor.LocationResolver = (*Directory)(nil)

// NewDirectory indexes records. repo may be nil.
func NewDirectory(records []Record, repo Repository, logger *slog.Logger) *Directory {
	d := &Directory{
		records: make(map[string]Record, len(records)),
		ordered: make([]Record, 0, len(records)),
		repo:    repo,
		logger:  logger.With("component", "pincode.directory"),
	}
	for _, r := range records {
		key := strings.TrimSpace(r.Pincode)
		if key == "" {
			continue
		}
		if _, dup := d.records[key]; !dup {
			d.ordered = append(d.ordered, r)
		}
		d.records[key] = r
	}
	return d
}

// Lookup returns the record for pincode.
func (d *Directory) Lookup(ctx context.Context, pincode string) (Record, outcome.Source, bool) {
	pincode = strings.TrimSpace(pincode)
	if pincode == "" {
		return Record{}, "", false
	}
	if d.repo != nil {
		rec, ok, err := d.repo.FindByPincode(ctx, pincode)
		switch {
		case err != nil:
			d.logger.Warn("pincode repository lookup failed", "pincode", pincode, "error", err)
		case ok:
			return rec, outcome.Live, true
		}
	}
	rec, ok := d.records[pincode]
	if !ok {
		return Record{}, "", false
	}
	return rec, outcome.Cached, true
}

// ResolveDistrict implements advisor.LocationResolver.
func (d *Directory) ResolveDistrict(ctx context.Context, pincode string) outcome.Result[advisor.Location] {
	rec, src, ok := d.Lookup(ctx, pincode)
	if !ok {
		return outcome.FromFallback(advisor.Location{}, "pincode not in directory")
	}
	return outcome.Result[advisor.Location]{Value: rec.Location(), Source: src}
}

// Nearest returns the built-in record closest to lat/lon within SearchRadiusKm.
func (d *Directory) Nearest(lat, lon float64) (Match, bool) {
	best := Match{DistanceKm: math.Inf(1)}
	for _, r := range d.ordered {
		if dist := Haversine(lat, lon, r.Lat, r.Lon); dist < best.DistanceKm {
			best = Match{Record: r, DistanceKm: dist}
		}
	}
	if best.DistanceKm > SearchRadiusKm {
		return Match{}, false
	}
	best.DistanceKm = math.Round(best.DistanceKm*100) / 100
	return best, true
}

// ByDistrict lists built-in records of a district, case-insensitively.
func (d *Directory) ByDistrict(district string) []Record {
	district = strings.TrimSpace(district)
	var out []Record
	for _, r := range d.ordered {
		if strings.EqualFold(r.District, district) {
			out = append(out, r)
		}
	}
	return out
}

// Haversine returns the great-circle distance in kilometers.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
