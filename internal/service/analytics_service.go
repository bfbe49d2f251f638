package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/lead-dashboard/internal/cache"
	"github.com/spec-kit/lead-dashboard/internal/domain"
	"github.com/spec-kit/lead-dashboard/internal/observability"
	"github.com/spec-kit/lead-dashboard/internal/query"
	"github.com/spec-kit/lead-dashboard/internal/repository"
)

// AnalyticsService computes lead summaries.
type AnalyticsService struct {
	leads   repository.LeadRepository
	builder *query.Builder
	cache   cache.SummaryCache
	metrics *observability.Metrics
	logger  *zap.Logger
}

// AnalyticsDependencies bundles collaborators for the analytics service.
// Cache and Metrics are optional.
type AnalyticsDependencies struct {
	LeadRepo repository.LeadRepository
	Builder  *query.Builder
	Cache    cache.SummaryCache
	Metrics  *observability.Metrics
	Logger   *zap.Logger
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(deps AnalyticsDependencies) *AnalyticsService {
	s := &AnalyticsService{
		leads:   deps.LeadRepo,
		builder: deps.Builder,
		cache:   deps.Cache,
		metrics: deps.Metrics,
		logger:  deps.Logger,
	}
	if s.builder == nil {
		s.builder = query.NewBuilder(query.Options{})
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Summary aggregates the lead set, optionally restricted to a day of the
// current month. Sub-queries run concurrently and are not a snapshot.
func (s *AnalyticsService) Summary(ctx context.Context, day string) (*domain.AnalyticsSummary, error) {
	filter := s.builder.DayFilter(day)
	key := cacheKey(filter)

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("analytics cache read failed", zap.Error(err))
		} else {
			s.metrics.RecordCacheLookup(ok)
			if ok {
				return cached, nil
			}
		}
	}

	summary, err := s.compute(ctx, filter)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, summary); err != nil {
			s.logger.Warn("analytics cache write failed", zap.Error(err))
		}
	}
	return summary, nil
}

// InvalidateCache drops cached summaries.
func (s *AnalyticsService) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}

func (s *AnalyticsService) compute(ctx context.Context, filter query.Filter) (*domain.AnalyticsSummary, error) {
	var (
		total, converted int64
		byStage          []domain.StageCount
		byStatus         []domain.StatusCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(recovered(func() (err error) {
		if total, err = s.leads.Count(gctx, filter); err != nil {
			return fmt.Errorf("count leads: %w", err)
		}
		return nil
	}))
	g.Go(recovered(func() (err error) {
		if converted, err = s.leads.Count(gctx, filter.WithStage(domain.LeadStageConverted)); err != nil {
			return fmt.Errorf("count converted leads: %w", err)
		}
		return nil
	}))
	g.Go(recovered(func() (err error) {
		if byStage, err = s.leads.CountByStage(gctx, filter); err != nil {
			return fmt.Errorf("count leads by stage: %w", err)
		}
		return nil
	}))
	g.Go(recovered(func() (err error) {
		if byStatus, err = s.leads.CountByStatus(gctx, filter); err != nil {
			return fmt.Errorf("count leads by status: %w", err)
		}
		return nil
	}))
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.AnalyticsSummary{
		TotalLeads:     total,
		ConvertedLeads: converted,
		ConversionRate: ConversionRate(converted, total),
		LeadsByStage:   byStage,
		LeadsByStatus:  byStatus,
	}, nil
}

// ConversionRate returns converted/total as a percentage rounded to two
// decimals, or 0 for an empty set.
func ConversionRate(converted, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(converted)/float64(total)*100*100) / 100
}

func cacheKey(filter query.Filter) string {
	if filter.CreatedFrom == nil {
		return "all"
	}
	return "day:" + filter.CreatedFrom.Format(time.RFC3339) + "/" + filter.CreatedTo.Format(time.RFC3339)
}
