package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/dormdesk/dormdesk-api/internal/models"
)

// AnalyticsRepository exposes read-optimised aggregate queries over the
// issues and lost-and-found tables. All queries tolerate empty tables
// and return zero-filled rows instead of errors.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository instantiates the repository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// CategoryDensity counts active, non-duplicate issues per category,
// optionally filtered by hostel and a creation-time window.
func (r *AnalyticsRepository) CategoryDensity(ctx context.Context, filter models.CategoryDensityFilter) ([]models.CategoryDensity, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT c.id AS category_id, c.name AS category_name, COUNT(i.id) AS issue_count
FROM issues i
JOIN issue_categories c ON c.id = i.category_id
WHERE i.is_duplicate = FALSE
AND i.status IN ('REPORTED', 'ASSIGNED', 'IN_PROGRESS')`)
	var args []interface{}
	if filter.HostelID != "" {
		args = append(args, filter.HostelID)
		fmt.Fprintf(&builder, " AND i.hostel_id = $%d", len(args))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		fmt.Fprintf(&builder, " AND i.created_at >= $%d", len(args))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		fmt.Fprintf(&builder, " AND i.created_at <= $%d", len(args))
	}
	builder.WriteString(" GROUP BY c.id, c.name ORDER BY issue_count DESC")

	densities := []models.CategoryDensity{}
	if err := r.db.SelectContext(ctx, &densities, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query category density: %w", err)
	}
	return densities, nil
}

// HostelHeatmap buckets every issue by (hostel, block) with open and
// high-priority counts plus average resolution hours for RESOLVED rows.
// Negative intervals from clock skew are clamped to zero.
func (r *AnalyticsRepository) HostelHeatmap(ctx context.Context) ([]models.HeatmapCell, error) {
	const query = `SELECT h.name AS hostel_name, b.name AS block_name,
	COUNT(i.id) AS total_count,
	SUM(CASE WHEN i.status IN ('REPORTED', 'ASSIGNED', 'IN_PROGRESS') THEN 1 ELSE 0 END) AS open_count,
	SUM(CASE WHEN i.status IN ('REPORTED', 'ASSIGNED', 'IN_PROGRESS') AND i.priority IN ('HIGH', 'EMERGENCY') THEN 1 ELSE 0 END) AS high_priority_open,
	COALESCE(AVG(CASE WHEN i.status = 'RESOLVED'
		THEN GREATEST(EXTRACT(EPOCH FROM (i.updated_at - i.created_at)) / 3600.0, 0) END), 0) AS avg_resolution_hours
FROM issues i
JOIN hostels h ON h.id = i.hostel_id
JOIN blocks b ON b.id = i.block_id
GROUP BY h.name, b.name
ORDER BY h.name, b.name`
	cells := []models.HeatmapCell{}
	if err := r.db.SelectContext(ctx, &cells, query); err != nil {
		return nil, fmt.Errorf("query hostel heatmap: %w", err)
	}
	return cells, nil
}

// StatusDistribution returns the admin three-bucket breakdown over
// non-duplicate issues. REPORTED and ASSIGNED fold into one bucket.
func (r *AnalyticsRepository) StatusDistribution(ctx context.Context) (*models.StatusDistribution, error) {
	const query = `SELECT
	COALESCE(SUM(CASE WHEN status = 'RESOLVED' THEN 1 ELSE 0 END), 0) AS resolved,
	COALESCE(SUM(CASE WHEN status = 'IN_PROGRESS' THEN 1 ELSE 0 END), 0) AS in_progress,
	COALESCE(SUM(CASE WHEN status IN ('REPORTED', 'ASSIGNED') THEN 1 ELSE 0 END), 0) AS reported
FROM issues WHERE is_duplicate = FALSE`
	var dist models.StatusDistribution
	if err := r.db.GetContext(ctx, &dist, query); err != nil {
		return nil, fmt.Errorf("query status distribution: %w", err)
	}
	return &dist, nil
}

// Summary computes the dashboard KPI figures. Student headcount stands
// in for occupancy.
func (r *AnalyticsRepository) Summary(ctx context.Context) (*models.AnalyticsSummary, error) {
	const query = `SELECT
	(SELECT COUNT(*) FROM issues WHERE status IN ('REPORTED', 'ASSIGNED', 'IN_PROGRESS')) AS active_issues,
	COALESCE((SELECT AVG(GREATEST(EXTRACT(EPOCH FROM (updated_at - created_at)) / 3600.0, 0)) FROM issues WHERE status = 'RESOLVED'), 0) AS avg_resolution_hours,
	(SELECT COUNT(*) FROM issues WHERE status = 'RESOLVED' AND resolved_at >= date_trunc('month', NOW())) AS resolved_this_month,
	(SELECT COUNT(*) FROM users WHERE role = 'STUDENT') AS occupancy`
	var summary models.AnalyticsSummary
	if err := r.db.GetContext(ctx, &summary, query); err != nil {
		return nil, fmt.Errorf("query analytics summary: %w", err)
	}
	return &summary, nil
}
