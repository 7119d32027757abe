package advisor

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/aquasutra/internal/domain/catalog"
	"github.com/yanqian/aquasutra/internal/domain/market"
	"github.com/yanqian/aquasutra/internal/domain/risk"
	"github.com/yanqian/aquasutra/internal/domain/watercost"
	apperrors "github.com/yanqian/aquasutra/pkg/errors"
)

func TestServiceRecommendEchoesRequestID(t *testing.T) {
	obs := &recordingObserver{}
	svc := newTestService(t, []catalog.CropDefinition{sugarcane, bajra, paddy}, obs)

	f := farm("")
	f.IntendedCrop = "sugarcane"
	ctx := WithRequestID(context.Background(), "req-123")
	resp, err := svc.Recommend(ctx, Request{Farm: f})
	require.NoError(t, err)
	require.Equal(t, "req-123", resp.RequestID)
	require.Equal(t, []string{"bajra_hybrid", "sugarcane_seasonal"}, sortedIDs(resp))

	require.Equal(t, 1, obs.calls)
	require.Equal(t, 2, obs.results)
	require.Equal(t, 1, obs.swaps)
	require.Equal(t, market.ModeFallback, obs.mode)
}

func TestServiceRecommendGeneratesRequestID(t *testing.T) {
	svc := newTestService(t, []catalog.CropDefinition{bajra}, nil)

	resp, err := svc.Recommend(context.Background(), Request{Farm: farm("Medium")})
	require.NoError(t, err)
	_, err = uuid.Parse(resp.RequestID)
	require.NoError(t, err)
}

func TestServiceRecommendPropagatesValidation(t *testing.T) {
	obs := &recordingObserver{}
	svc := newTestService(t, []catalog.CropDefinition{bajra}, obs)
	f := farm("Medium")
	f.Latitude = -100

	_, err := svc.Recommend(context.Background(), Request{Farm: f})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Zero(t, obs.calls)
}

func TestServiceWaterCost(t *testing.T) {
	svc := newTestService(t, []catalog.CropDefinition{bajra}, nil)

	resp, err := svc.WaterCost(WaterCostRequest{WaterRequirementMm: 450})
	require.NoError(t, err)
	require.Equal(t, watercost.Electric, resp.PumpType)
	want := watercost.Cost(450, 1, watercost.Electric, watercost.DefaultWaterTableDepthM, watercost.DefaultPump()).Rounded()
	require.Equal(t, want, resp.Breakdown)
	require.Equal(t, want.TotalCostSeason, resp.Comparison.Electric.TotalCostSeason)
	require.Greater(t, resp.Comparison.Diesel.TotalCostSeason, resp.Comparison.Electric.TotalCostSeason)
	require.False(t, resp.SolarRecommendation)

	resp, err = svc.WaterCost(WaterCostRequest{WaterRequirementMm: 450, PumpType: "diesel", AreaAcres: 2, WaterTableDepthM: 60})
	require.NoError(t, err)
	require.Equal(t, watercost.Diesel, resp.PumpType)
	require.Greater(t, resp.Breakdown.DieselRequiredLiters, 0.0)

	_, err = svc.WaterCost(WaterCostRequest{WaterRequirementMm: 0})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	_, err = svc.WaterCost(WaterCostRequest{WaterRequirementMm: 100, AreaAcres: -2})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestServicePremium(t *testing.T) {
	svc := newTestService(t, []catalog.CropDefinition{bajra}, nil)

	resp, err := svc.Premium(PremiumRequest{SumInsured: 100000, RiskScore: 50})
	require.NoError(t, err)
	require.Equal(t, 4500.0, resp.Premium)
	require.Equal(t, risk.Medium, resp.RiskLevel)

	_, err = svc.Premium(PremiumRequest{SumInsured: 0, RiskScore: 50})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	_, err = svc.Premium(PremiumRequest{SumInsured: 1000, RiskScore: 101})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestServicePrices(t *testing.T) {
	svc := newTestService(t, []catalog.CropDefinition{bajra, mustard}, nil)

	res, err := svc.Prices(context.Background(), " ", []string{"mustard_rai"})
	require.NoError(t, err)
	require.Equal(t, "Uttar Pradesh", res.Region)
	require.Len(t, res.Quotes, 1)
	require.Equal(t, 50000.0, res.Quotes["mustard_rai"].Price)

	res, err = svc.Prices(context.Background(), "Maharashtra", nil)
	require.NoError(t, err)
	require.Len(t, res.Quotes, 2)

	_, err = svc.Prices(context.Background(), "", []string{"saffron"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestServiceCrops(t *testing.T) {
	svc := newTestService(t, []catalog.CropDefinition{bajra, mustard}, nil)
	crops := svc.Crops()
	require.Len(t, crops, 2)
	require.Equal(t, "bajra_hybrid", crops[0].ID)
}

func newTestService(t *testing.T, crops []catalog.CropDefinition, obs Observer) Service {
	t.Helper()
	engine := newTestEngine(t, crops, nil, nil, nil)
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC))
	return NewService(engine, obs, clock, discardLogger())
}

type recordingObserver struct {
	calls   int
	mode    market.Mode
	results int
	swaps   int
}

func (o *recordingObserver) ObserveRecommendation(mode market.Mode, results, swaps int, _ time.Duration) {
	o.calls++
	o.mode = mode
	o.results = results
	o.swaps = swaps
}
