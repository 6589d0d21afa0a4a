package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dormdesk/dormdesk-api/internal/models"
)

func TestAnnouncementListExcludesExpiredAndOrdersPinnedFirst(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "title", "content", "priority", "is_pinned", "author_id", "target_hostel_id", "target_block_id", "expires_at", "created_at"}).
		AddRow("a1", "Water outage", "Maintenance on Friday", string(models.AnnouncementPriorityHigh), true, "admin-1", nil, nil, nil, now)

	mock.ExpectQuery(regexp.QuoteMeta("(expires_at IS NULL OR expires_at > NOW())")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	announcements, total, err := repo.List(context.Background(), models.AnnouncementFilter{})
	require.NoError(t, err)
	require.Len(t, announcements, 1)
	assert.Equal(t, 1, total)
	assert.True(t, announcements[0].IsPinned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementListRanksPriorityByUrgency(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	// text priorities collate NORMAL > LOW > HIGH, so the query must
	// order through the explicit rank instead of the raw column
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "title", "content", "priority", "is_pinned", "author_id", "target_hostel_id", "target_block_id", "expires_at", "created_at"}).
		AddRow("a1", "Fire drill", "Today 6pm", string(models.AnnouncementPriorityHigh), false, "admin-1", nil, nil, nil, now).
		AddRow("a2", "Menu change", "New menu from Monday", string(models.AnnouncementPriorityNormal), false, "admin-1", nil, nil, nil, now)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY is_pinned DESC, CASE priority WHEN 'HIGH' THEN 3 WHEN 'NORMAL' THEN 2 ELSE 1 END DESC, created_at DESC")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	announcements, _, err := repo.List(context.Background(), models.AnnouncementFilter{})
	require.NoError(t, err)
	require.Len(t, announcements, 2)
	assert.Equal(t, models.AnnouncementPriorityHigh, announcements[0].Priority)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementListFiltersByHostelTarget(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	hostel := "hostel-1"
	mock.ExpectQuery(regexp.QuoteMeta("(target_hostel_id IS NULL OR target_hostel_id = $1)")).
		WithArgs(hostel).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "priority", "is_pinned", "author_id", "target_hostel_id", "target_block_id", "expires_at", "created_at"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs(hostel).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, total, err := repo.List(context.Background(), models.AnnouncementFilter{HostelID: &hostel})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectExec("INSERT INTO announcements").WillReturnResult(sqlmock.NewResult(1, 1))

	announcement := &models.Announcement{
		Title:    "Water outage",
		Content:  "Maintenance on Friday",
		Priority: models.AnnouncementPriorityHigh,
		AuthorID: "admin-1",
	}
	err := repo.Create(context.Background(), announcement)
	require.NoError(t, err)
	assert.NotEmpty(t, announcement.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
