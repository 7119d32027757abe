package groundwater

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yanqian/aquasutra/internal/domain/advisor"
	"github.com/yanqian/aquasutra/internal/domain/groundwater"
	"github.com/yanqian/aquasutra/internal/domain/outcome"
	"github.com/yanqian/aquasutra/internal/domain/risk"
)

// BlockRepository stores block assessments.
type BlockRepository interface {
	FindBlock(ctx context.Context, district, block string) (groundwater.BlockStatus, bool, error)
}

// Recorder receives collaborator lookup outcomes.
type Recorder interface {
	ObserveUpstream(upstream string, live bool)
	ObserveCache(cache string, hit bool)
}

// Source answers depth and block lookups from the live service, the block
// repository and finally the built-in estimates.
type Source struct {
	client   *Client
	repo     BlockRepository
	static   *StaticBlocks
	depths   *lruCache
	recorder Recorder
	logger   *slog.Logger
}

var (
	_ advisor.GroundwaterSource = (*Source)(nil)
	_ groundwater.StatusSource  = (*Source)(nil)
)

// NewSource wires the lookup chain. client and repo may be nil.
func NewSource(client *Client, repo BlockRepository, static *StaticBlocks, cacheSize int, recorder Recorder, logger *slog.Logger) *Source {
	if static == nil {
		static = DefaultBlocks()
	}
	return &Source{
		client:   client,
		repo:     repo,
		static:   static,
		depths:   newLRUCache(cacheSize),
		recorder: recorder,
		logger:   logger.With("component", "groundwater.source"),
	}
}

// Depth implements advisor.GroundwaterSource.
func (s *Source) Depth(ctx context.Context, lat, lon float64) outcome.Result[float64] {
	key := fmt.Sprintf("%.2f,%.2f", lat, lon)
	if v, ok := s.depths.get(key); ok {
		s.observeCache(true)
		return outcome.FromCache(v)
	}
	s.observeCache(false)

	reason := "no groundwater service configured"
	if s.client != nil {
		depth, err := s.client.NearestDepth(ctx, lat, lon)
		if err == nil {
			s.depths.put(key, depth)
			s.observe("groundwater_level", true)
			return outcome.FromLive(depth)
		}
		s.logger.Warn("groundwater level lookup failed, using regional estimate", "lat", lat, "lon", lon, "error", err)
		reason = err.Error()
	}
	s.observe("groundwater_level", false)
	return outcome.FromFallback(EstimateDepth(lat, lon), reason)
}

// BlockClassification implements advisor.GroundwaterSource. Lookup failures
// degrade to the unknown classification.
func (s *Source) BlockClassification(ctx context.Context, district, block string) outcome.Result[string] {
	res, err := s.Status(ctx, district, block)
	if err != nil {
		res.Reason = err.Error()
	}
	return outcome.Result[string]{Value: res.Value.Classification, Source: res.Source, Reason: res.Reason}
}

// Status implements groundwater.StatusSource.
func (s *Source) Status(ctx context.Context, district, block string) (outcome.Result[groundwater.BlockStatus], error) {
	district = strings.TrimSpace(district)
	block = strings.TrimSpace(block)

	var attempted int
	var failures []error
	if s.client != nil {
		attempted++
		st, err := s.client.BlockStatus(ctx, district, block)
		if err == nil {
			s.observe("groundwater_status", true)
			st.Source = outcome.Live
			return outcome.FromLive(st), nil
		}
		s.logger.Warn("groundwater status lookup failed", "district", district, "block", block, "error", err)
		failures = append(failures, fmt.Errorf("groundwater service: %w", err))
	}
	s.observe("groundwater_status", false)

	if s.repo != nil {
		attempted++
		st, ok, err := s.repo.FindBlock(ctx, district, block)
		switch {
		case err != nil:
			s.logger.Warn("groundwater block repository failed", "district", district, "block", block, "error", err)
			failures = append(failures, fmt.Errorf("block repository: %w", err))
		case ok:
			st.Source = outcome.Cached
			return outcome.FromCache(st), nil
		}
	}
	if st, ok := s.static.Lookup(district, block); ok {
		st.Source = outcome.Fallback
		return outcome.FromFallback(st, "built-in block assessment"), nil
	}

	unknown := outcome.FromFallback(groundwater.BlockStatus{
		District:       district,
		Block:          block,
		Classification: risk.Unknown,
		DepthM:         regionalDepthM,
		Source:         outcome.Fallback,
	}, "block not assessed")
	if attempted > 0 && len(failures) == attempted {
		return unknown, fmt.Errorf("block %s/%s: %w", district, block, errors.Join(failures...))
	}
	return unknown, nil
}

func (s *Source) observe(upstream string, live bool) {
	if s.recorder != nil {
		s.recorder.ObserveUpstream(upstream, live)
	}
}

func (s *Source) observeCache(hit bool) {
	if s.recorder != nil {
		s.recorder.ObserveCache("groundwater_depth", hit)
	}
}
