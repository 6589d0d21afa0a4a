package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dormdesk/dormdesk-api/internal/models"
)

// AnnouncementRepository provides persistence for announcements.
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository creates the repository.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// List returns unexpired announcements visible in the viewer's hostel:
// global broadcasts plus those targeted at the hostel. Pinned entries
// sort first, then priority, then recency. Priority is a text enum, so
// the ordering goes through an explicit rank.
func (r *AnnouncementRepository) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, int, error) {
	base := "FROM announcements"
	where := []string{"(expires_at IS NULL OR expires_at > NOW())"}
	var args []interface{}

	if filter.HostelID != nil && *filter.HostelID != "" {
		where = append(where, fmt.Sprintf("(target_hostel_id IS NULL OR target_hostel_id = $%d)", len(args)+1))
		args = append(args, *filter.HostelID)
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, title, content, priority, is_pinned, author_id, target_hostel_id, target_block_id, expires_at, created_at
%s WHERE %s
ORDER BY is_pinned DESC, CASE priority WHEN 'HIGH' THEN 3 WHEN 'NORMAL' THEN 2 ELSE 1 END DESC, created_at DESC
LIMIT %d OFFSET %d`, base, whereClause, size, offset)
	announcements := []models.Announcement{}
	if err := r.db.SelectContext(ctx, &announcements, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list announcements: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count announcements: %w", err)
	}
	return announcements, total, nil
}

// Create inserts a new announcement.
func (r *AnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	if announcement.ID == "" {
		announcement.ID = uuid.NewString()
	}
	if announcement.CreatedAt.IsZero() {
		announcement.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO announcements (id, title, content, priority, is_pinned, author_id, target_hostel_id, target_block_id, expires_at, created_at)
VALUES (:id, :title, :content, :priority, :is_pinned, :author_id, :target_hostel_id, :target_block_id, :expires_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, announcement); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}
