package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dormdesk/dormdesk-api/internal/models"
	appErrors "github.com/dormdesk/dormdesk-api/pkg/errors"
)

type analyticsRepository interface {
	CategoryDensity(ctx context.Context, filter models.CategoryDensityFilter) ([]models.CategoryDensity, error)
	HostelHeatmap(ctx context.Context) ([]models.HeatmapCell, error)
	StatusDistribution(ctx context.Context) (*models.StatusDistribution, error)
	Summary(ctx context.Context) (*models.AnalyticsSummary, error)
}

type lostItemAnalyticsRepository interface {
	ListFoundAndReturned(ctx context.Context) ([]models.LostItemWithClaims, error)
}

// LostItemStats is the lost-and-found analytics row: a recovered item
// and how many claims it attracted.
type LostItemStats struct {
	Item       models.LostItem `json:"item"`
	ClaimCount int             `json:"claim_count"`
}

// AnalyticsService serves the dashboard read models. Every read is
// cached under an "analytics:" key; issue mutations invalidate the
// whole prefix.
type AnalyticsService struct {
	repo      analyticsRepository
	lostItems lostItemAnalyticsRepository
	cache     *CacheService
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(repo analyticsRepository, lostItems lostItemAnalyticsRepository, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{repo: repo, lostItems: lostItems, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// CategoryDensity returns per-category active issue counts. The bool
// reports whether the response came from cache.
func (s *AnalyticsService) CategoryDensity(ctx context.Context, filter models.CategoryDensityFilter) ([]models.CategoryDensity, bool, error) {
	key := categoryDensityKey(filter)
	cached := []models.CategoryDensity{}
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, true, nil
	}

	densities, err := s.repo.CategoryDensity(ctx, filter)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute category density")
	}
	s.store(ctx, key, densities)
	return densities, false, nil
}

// HostelHeatmap returns per-(hostel, block) aggregates.
func (s *AnalyticsService) HostelHeatmap(ctx context.Context) ([]models.HeatmapCell, bool, error) {
	const key = "analytics:heatmap"
	cached := []models.HeatmapCell{}
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, true, nil
	}

	cells, err := s.repo.HostelHeatmap(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute heatmap")
	}
	s.store(ctx, key, cells)
	return cells, false, nil
}

// StatusDistribution returns the admin three-bucket breakdown.
func (s *AnalyticsService) StatusDistribution(ctx context.Context) (*models.StatusDistribution, bool, error) {
	const key = "analytics:status-distribution"
	var cached models.StatusDistribution
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, true, nil
	}

	dist, err := s.repo.StatusDistribution(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute status distribution")
	}
	s.store(ctx, key, dist)
	return dist, false, nil
}

// Summary returns the dashboard KPI figures. An empty database yields
// zeroes, not an error.
func (s *AnalyticsService) Summary(ctx context.Context) (*models.AnalyticsSummary, bool, error) {
	const key = "analytics:summary"
	var cached models.AnalyticsSummary
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, true, nil
	}

	summary, err := s.repo.Summary(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute summary")
	}
	s.store(ctx, key, summary)
	return summary, false, nil
}

// LostItemStats returns FOUND and RETURNED items with claim counts.
func (s *AnalyticsService) LostItemStats(ctx context.Context) ([]LostItemStats, bool, error) {
	const key = "analytics:lost-items"
	cached := []LostItemStats{}
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, true, nil
	}

	items, err := s.lostItems.ListFoundAndReturned(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute lost item stats")
	}
	stats := make([]LostItemStats, 0, len(items))
	for _, item := range items {
		stats = append(stats, LostItemStats{Item: item.LostItem, ClaimCount: len(item.Claims)})
	}
	s.store(ctx, key, stats)
	return stats, false, nil
}

func (s *AnalyticsService) store(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("analytics cache store failed", zap.String("key", key), zap.Error(err))
	}
}

func categoryDensityKey(filter models.CategoryDensityFilter) string {
	from, to := "", ""
	if filter.CreatedFrom != nil {
		from = filter.CreatedFrom.UTC().Format(time.RFC3339)
	}
	if filter.CreatedTo != nil {
		to = filter.CreatedTo.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("analytics:category-density:%s:%s:%s", filter.HostelID, from, to)
}
