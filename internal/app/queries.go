package app

import (
	"context"
	"time"

	"lodgeiq/internal/domain"
)

type QueryService struct {
	checklist   domain.ChecklistRepository
	inspections domain.InspectionRepository
	cache       domain.Cache
	cacheTTL    time.Duration
	now         func() time.Time
}

func NewQueryService(cr domain.ChecklistRepository, ir domain.InspectionRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{checklist: cr, inspections: ir, cache: c, cacheTTL: ttl, now: time.Now}
}

// ChecklistItems returns active items ordered by (category, display order).
// The checklist is seeded reference data, so a long-lived cache entry is safe.
func (s *QueryService) ChecklistItems(ctx context.Context) ([]domain.ChecklistItem, error) {
	var items []domain.ChecklistItem
	if ok, _ := s.cache.Get(ctx, cacheKeyChecklist, &items); ok {
		return items, nil
	}
	items, err := s.checklist.ListChecklistItems(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, cacheKeyChecklist, items, int(s.cacheTTL.Seconds()))
	return items, nil
}

// ReportSummary serves the dashboard aggregates; commands invalidate the
// cache entry after every hotel or inspection write.
func (s *QueryService) ReportSummary(ctx context.Context) (domain.ReportMetrics, error) {
	var m domain.ReportMetrics
	if ok, _ := s.cache.Get(ctx, cacheKeyReportSummary, &m); ok {
		return m, nil
	}
	m, err := s.inspections.Metrics(ctx, s.now().AddDate(0, 0, -30))
	if err != nil {
		return domain.ReportMetrics{}, err
	}
	_ = s.cache.Set(ctx, cacheKeyReportSummary, m, int(s.cacheTTL.Seconds()))
	return m, nil
}
