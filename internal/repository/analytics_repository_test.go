package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dormdesk/dormdesk-api/internal/models"
)

func TestCategoryDensityFiltersByHostel(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	rows := sqlmock.NewRows([]string{"category_id", "category_name", "issue_count"}).
		AddRow("cat-1", "Plumbing", 4).
		AddRow("cat-2", "Electrical", 2)
	mock.ExpectQuery(regexp.QuoteMeta("i.hostel_id = $1")).
		WithArgs("hostel-1").
		WillReturnRows(rows)

	densities, err := repo.CategoryDensity(context.Background(), models.CategoryDensityFilter{HostelID: "hostel-1"})
	require.NoError(t, err)
	require.Len(t, densities, 2)
	assert.Equal(t, "Plumbing", densities[0].CategoryName)
	assert.Equal(t, 4, densities[0].IssueCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHostelHeatmapClampsNegativeResolutionTimes(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	rows := sqlmock.NewRows([]string{"hostel_name", "block_name", "total_count", "open_count", "high_priority_open", "avg_resolution_hours"}).
		AddRow("A", "North", 5, 2, 1, 0.0)
	mock.ExpectQuery(regexp.QuoteMeta("GREATEST(EXTRACT(EPOCH FROM (i.updated_at - i.created_at)) / 3600.0, 0)")).
		WillReturnRows(rows)

	cells, err := repo.HostelHeatmap(context.Background())
	require.NoError(t, err)
	require.Len(t, cells, 1)
	assert.Equal(t, 0.0, cells[0].AvgResolutionHours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusDistributionZeroOnEmptyTable(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	rows := sqlmock.NewRows([]string{"resolved", "in_progress", "reported"}).AddRow(0, 0, 0)
	mock.ExpectQuery(regexp.QuoteMeta("FROM issues WHERE is_duplicate = FALSE")).
		WillReturnRows(rows)

	dist, err := repo.StatusDistribution(context.Background())
	require.NoError(t, err)
	assert.Zero(t, dist.Resolved)
	assert.Zero(t, dist.InProgress)
	assert.Zero(t, dist.Reported)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryUsesResolvedAtForMonthlyCount(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	rows := sqlmock.NewRows([]string{"active_issues", "avg_resolution_hours", "resolved_this_month", "occupancy"}).
		AddRow(3, 12.5, 2, 40)
	mock.ExpectQuery(regexp.QuoteMeta("resolved_at >= date_trunc('month', NOW())")).
		WillReturnRows(rows)

	summary, err := repo.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.ActiveIssues)
	assert.Equal(t, 12.5, summary.AvgResolutionHours)
	assert.Equal(t, 2, summary.ResolvedThisMonth)
	assert.Equal(t, 40, summary.Occupancy)
	assert.NoError(t, mock.ExpectationsWereMet())
}
