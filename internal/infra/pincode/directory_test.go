package pincode

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/aquasutra/internal/domain/outcome"
)

type stubRepo struct {
	rec   Record
	found bool
	err   error
	calls int
}

func (r *stubRepo) FindByPincode(context.Context, string) (Record, bool, error) {
	r.calls++
	return r.rec, r.found, r.err
}

func newDirectory(repo Repository) *Directory {
	return NewDirectory(DefaultRecords(), repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestResolveDistrictFromBuiltInRecords(t *testing.T) {
	d := newDirectory(nil)

	res := d.ResolveDistrict(context.Background(), " 211012 ")
	require.Equal(t, outcome.Cached, res.Source)
	assert.Equal(t, "Prayagraj", res.Value.District)
	assert.Equal(t, "Sahson", res.Value.Block)
	assert.Equal(t, "Uttar Pradesh", res.Value.State)
}

func TestResolveDistrictPrefersRepository(t *testing.T) {
	repo := &stubRepo{found: true, rec: Record{Pincode: "999999", District: "Satara", Block: "Man", State: "Maharashtra"}}
	d := newDirectory(repo)

	res := d.ResolveDistrict(context.Background(), "999999")
	assert.Equal(t, outcome.Live, res.Source)
	assert.Equal(t, "Satara", res.Value.District)
	assert.Equal(t, 1, repo.calls)
}

func TestResolveDistrictRepositoryErrorFallsThrough(t *testing.T) {
	d := newDirectory(&stubRepo{err: errors.New("connection refused")})

	res := d.ResolveDistrict(context.Background(), "440001")
	assert.Equal(t, outcome.Cached, res.Source)
	assert.Equal(t, "Nagpur", res.Value.District)
}

func TestResolveDistrictUnknownPincode(t *testing.T) {
	d := newDirectory(&stubRepo{})

	res := d.ResolveDistrict(context.Background(), "000000")
	assert.Equal(t, outcome.Fallback, res.Source)
	assert.Empty(t, res.Value.State)
	assert.NotEmpty(t, res.Reason)
}

func TestNearestWithinRadius(t *testing.T) {
	d := newDirectory(nil)

	m, ok := d.Nearest(25.47, 82.01)
	require.True(t, ok)
	assert.Equal(t, "211012", m.Pincode)
	assert.Less(t, m.DistanceKm, 1.0)

	_, ok = d.Nearest(12.97, 77.59)
	assert.False(t, ok)
}

func TestByDistrict(t *testing.T) {
	d := newDirectory(nil)

	recs := d.ByDistrict("prayagraj")
	assert.Len(t, recs, 4)
	assert.Empty(t, d.ByDistrict("Kolhapur"))
}

func TestHaversine(t *testing.T) {
	assert.InDelta(t, 0, Haversine(25.4, 81.8, 25.4, 81.8), 1e-9)
	// Prayagraj to Nagpur is roughly 554 km.
	assert.InDelta(t, 554, Haversine(25.4358, 81.8463, 21.1458, 79.0882), 15)
}
