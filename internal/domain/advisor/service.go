package advisor

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/yanqian/aquasutra/internal/domain/catalog"
	"github.com/yanqian/aquasutra/internal/domain/market"
	"github.com/yanqian/aquasutra/internal/domain/risk"
	"github.com/yanqian/aquasutra/internal/domain/watercost"
	apperrors "github.com/yanqian/aquasutra/pkg/errors"
)

// DefaultSoilType is used when the farmer leaves the soil type blank.
const DefaultSoilType = "Medium"

// Service exposes the advisor use cases to transports.
type Service interface {
	Recommend(ctx context.Context, req Request) (Response, error)
	Compare(ctx context.Context, req CompareRequest) (CompareResponse, error)
	Prices(ctx context.Context, region string, cropIDs []string) (market.Resolution, error)
	WaterCost(req WaterCostRequest) (WaterCostResponse, error)
	Premium(req PremiumRequest) (PremiumResponse, error)
	Crops() []catalog.CropDefinition
}

// Observer receives one event per completed recommendation run.
type Observer interface {
	ObserveRecommendation(mode market.Mode, results, swaps int, elapsed time.Duration)
}

type service struct {
	engine   *Engine
	catalog  catalog.Catalog
	prices   PriceResolver
	region   string
	observer Observer
	clock    clockwork.Clock
	logger   *slog.Logger
}

// NewService wires the advisor domain around an engine.
func NewService(engine *Engine, observer Observer, clock clockwork.Clock, logger *slog.Logger) Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &service{
		engine:   engine,
		catalog:  engine.catalog,
		prices:   engine.prices,
		region:   engine.cfg.DefaultRegion,
		observer: observer,
		clock:    clock,
		logger:   logger.With("component", "advisor.service"),
	}
}

func (s *service) Recommend(ctx context.Context, req Request) (Response, error) {
	start := s.clock.Now()
	req.Farm = withDefaults(req.Farm)

	resp, err := s.engine.Recommend(ctx, req)
	if err != nil {
		return Response{}, err
	}
	resp.RequestID = requestID(ctx)

	swaps := 0
	for _, r := range resp.Recommendations {
		if r.IsSmartSwap {
			swaps++
		}
	}
	elapsed := s.clock.Since(start)
	if s.observer != nil {
		s.observer.ObserveRecommendation(resp.PriceMode, len(resp.Recommendations), swaps, elapsed)
	}
	s.logger.Info("recommendation computed",
		"requestId", resp.RequestID,
		"pincode", req.Farm.Pincode,
		"region", resp.Region,
		"zone", resp.Zone,
		"results", len(resp.Recommendations),
		"swaps", swaps,
		"priceMode", resp.PriceMode,
		"groundwaterSource", resp.Sources.Groundwater,
		"elapsed", elapsed,
	)
	return resp, nil
}

func (s *service) Compare(ctx context.Context, req CompareRequest) (CompareResponse, error) {
	req.Farm = withDefaults(req.Farm)
	resp, err := s.engine.Compare(ctx, req)
	if err != nil {
		return CompareResponse{}, err
	}
	s.logger.Info("crops compared", "crops", len(resp.Crops), "winner", resp.Winner.CropID)
	return resp, nil
}

func (s *service) Prices(ctx context.Context, region string, cropIDs []string) (market.Resolution, error) {
	region = strings.TrimSpace(region)
	if region == "" {
		region = s.region
	}
	crops := s.catalog.All()
	if len(cropIDs) > 0 {
		crops = s.catalog.Subset(cropIDs)
		if len(crops) == 0 {
			return market.Resolution{}, apperrors.Wrap(apperrors.CodeNotFound, "no known crop ids requested", nil)
		}
	}
	return s.prices.Resolve(ctx, region, crops), nil
}

// WaterCostRequest prices irrigation for an arbitrary water requirement.
type WaterCostRequest struct {
	WaterRequirementMm float64 `json:"waterRequirementMm"`
	AreaAcres          float64 `json:"areaAcres"`
	PumpType           string  `json:"pumpType"`
	WaterTableDepthM   float64 `json:"waterTableDepthM"`
}

// WaterCostResponse is the selected pump breakdown plus a pump comparison.
type WaterCostResponse struct {
	PumpType            watercost.PumpType   `json:"pumpType"`
	Breakdown           watercost.Breakdown  `json:"breakdown"`
	Comparison          watercost.Comparison `json:"comparison"`
	SolarRecommendation bool                 `json:"solarRecommended"`
}

func (s *service) WaterCost(req WaterCostRequest) (WaterCostResponse, error) {
	if bad(req.WaterRequirementMm) || req.WaterRequirementMm <= 0 {
		return WaterCostResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "waterRequirementMm must be positive", nil)
	}
	if bad(req.AreaAcres) || req.AreaAcres < 0 || req.AreaAcres > MaxAreaAcres {
		return WaterCostResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "areaAcres is out of range", nil)
	}
	area := req.AreaAcres
	if area == 0 {
		area = 1
	}
	pump, _ := watercost.ParsePumpType(req.PumpType)
	depth := req.WaterTableDepthM
	if bad(depth) || depth <= 0 {
		depth = s.engine.cfg.DefaultWaterTableDepthM
	}

	cmp := watercost.ComparePumps(req.WaterRequirementMm, depth, area)
	return WaterCostResponse{
		PumpType:            pump,
		Breakdown:           watercost.Cost(req.WaterRequirementMm, area, pump, depth, watercost.DefaultPump()).Rounded(),
		Comparison: watercost.Comparison{
			Electric: cmp.Electric.Rounded(),
			Diesel:   cmp.Diesel.Rounded(),
			Solar:    cmp.Solar.Rounded(),
		},
		SolarRecommendation: cmp.SolarPaysOff(),
	}, nil
}

// PremiumRequest asks for the crop insurance premium of a policy.
type PremiumRequest struct {
	SumInsured float64 `json:"sumInsured"`
	RiskScore  int     `json:"riskScore"`
}

// PremiumResponse is the premium in rupees and the risk level it was priced at.
type PremiumResponse struct {
	Premium    float64    `json:"premium"`
	SumInsured float64    `json:"sumInsured"`
	RiskScore  int        `json:"riskScore"`
	RiskLevel  risk.Level `json:"riskLevel"`
}

func (s *service) Premium(req PremiumRequest) (PremiumResponse, error) {
	if bad(req.SumInsured) || req.SumInsured <= 0 {
		return PremiumResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "sumInsured must be positive", nil)
	}
	if req.RiskScore < 0 || req.RiskScore > 100 {
		return PremiumResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "riskScore must be between 0 and 100", nil)
	}
	return PremiumResponse{
		Premium:    risk.Premium(req.SumInsured, req.RiskScore),
		SumInsured: req.SumInsured,
		RiskScore:  req.RiskScore,
		RiskLevel:  risk.LevelFor(req.RiskScore),
	}, nil
}

func (s *service) Crops() []catalog.CropDefinition {
	return s.catalog.All()
}

func withDefaults(f FarmContext) FarmContext {
	if strings.TrimSpace(f.SoilType) == "" {
		f.SoilType = DefaultSoilType
	}
	return f
}

type requestIDKey struct{}

// WithRequestID attaches a request id that Recommend echoes back.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
