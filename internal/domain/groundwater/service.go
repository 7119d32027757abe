package groundwater

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jonboulle/clockwork"

	apperrors "github.com/yanqian/aquasutra/pkg/errors"
)

// Service exposes groundwater reporting.
type Service interface {
	Status(ctx context.Context, district, block string) (BlockStatus, error)
	Trend(ctx context.Context, district, block string, years int) (TrendReport, error)
}

type service struct {
	source StatusSource
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewService wires the groundwater reporting domain.
func NewService(source StatusSource, clock clockwork.Clock, logger *slog.Logger) Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &service{
		source: source,
		clock:  clock,
		logger: logger.With("component", "groundwater.service"),
	}
}

func (s *service) Status(ctx context.Context, district, block string) (BlockStatus, error) {
	district = strings.TrimSpace(district)
	block = strings.TrimSpace(block)
	if district == "" || block == "" {
		return BlockStatus{}, apperrors.Wrap(apperrors.CodeInvalidInput, "district and block are required", nil)
	}
	res, err := s.source.Status(ctx, district, block)
	if err != nil {
		s.logger.Warn("groundwater status unavailable", "district", district, "block", block, "error", err)
		return BlockStatus{}, apperrors.Wrap(apperrors.CodeUpstream, "groundwater status unavailable", err)
	}
	status := res.Value
	status.Source = res.Source
	if res.Degraded() {
		s.logger.Info("groundwater status estimated", "district", district, "block", block, "reason", res.Reason)
	}
	return status, nil
}

func (s *service) Trend(ctx context.Context, district, block string, years int) (TrendReport, error) {
	if years < 0 || years > MaxTrendYears {
		return TrendReport{}, apperrors.Wrap(apperrors.CodeInvalidInput, "years must be between 1 and 20", nil)
	}
	status, err := s.Status(ctx, district, block)
	if err != nil {
		return TrendReport{}, err
	}
	return Trend(status, s.clock.Now().Year(), years), nil
}
