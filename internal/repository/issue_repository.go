package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dormdesk/dormdesk-api/internal/models"
)

// IssueRepository provides persistence for issues, their status history,
// comments and upvotes.
type IssueRepository struct {
	db *sqlx.DB
}

// NewIssueRepository creates the repository.
func NewIssueRepository(db *sqlx.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

const issueColumns = `id, title, description, priority, status, visibility, category_id, reporter_id, assignee_id, hostel_id, block_id, room, media_url, is_duplicate, merged_with, created_at, updated_at, assigned_at, resolved_at, closed_at`

// Create inserts a new issue with status REPORTED.
func (r *IssueRepository) Create(ctx context.Context, issue *models.Issue) error {
	if issue.ID == "" {
		issue.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if issue.CreatedAt.IsZero() {
		issue.CreatedAt = now
	}
	issue.UpdatedAt = now
	issue.Status = models.IssueStatusReported

	const query = `INSERT INTO issues (id, title, description, priority, status, visibility, category_id, reporter_id, hostel_id, block_id, room, media_url, is_duplicate, created_at, updated_at)
VALUES (:id, :title, :description, :priority, :status, :visibility, :category_id, :reporter_id, :hostel_id, :block_id, :room, :media_url, :is_duplicate, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, issue); err != nil {
		return fmt.Errorf("create issue: %w", err)
	}
	return nil
}

// GetByID returns a bare issue row.
func (r *IssueRepository) GetByID(ctx context.Context, id string) (*models.Issue, error) {
	query := fmt.Sprintf(`SELECT %s FROM issues WHERE id = $1`, issueColumns)
	var issue models.Issue
	if err := r.db.GetContext(ctx, &issue, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get issue: %w", err)
	}
	return &issue, nil
}

// GetDetail returns an issue joined with its relation names and upvote count.
func (r *IssueRepository) GetDetail(ctx context.Context, id string) (*models.IssueDetail, error) {
	const query = `
SELECT i.id, i.title, i.description, i.priority, i.status, i.visibility, i.category_id, i.reporter_id, i.assignee_id,
	i.hostel_id, i.block_id, i.room, i.media_url, i.is_duplicate, i.merged_with,
	i.created_at, i.updated_at, i.assigned_at, i.resolved_at, i.closed_at,
	c.name AS category_name,
	reporter.name AS reporter_name,
	assignee.name AS assignee_name,
	h.name AS hostel_name,
	b.name AS block_name,
	(SELECT COUNT(*) FROM upvotes u WHERE u.issue_id = i.id) AS upvote_count
FROM issues i
JOIN issue_categories c ON c.id = i.category_id
JOIN users reporter ON reporter.id = i.reporter_id
LEFT JOIN users assignee ON assignee.id = i.assignee_id
JOIN hostels h ON h.id = i.hostel_id
JOIN blocks b ON b.id = i.block_id
WHERE i.id = $1`
	var detail models.IssueDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get issue detail: %w", err)
	}
	return &detail, nil
}

// List returns issues matching the filter with a total count. PRIVATE
// issues are restricted to their reporter, staff and admins.
func (r *IssueRepository) List(ctx context.Context, filter models.IssueFilter) ([]models.IssueDetail, int, error) {
	base := `
FROM issues i
JOIN issue_categories c ON c.id = i.category_id
JOIN users reporter ON reporter.id = i.reporter_id
LEFT JOIN users assignee ON assignee.id = i.assignee_id
JOIN hostels h ON h.id = i.hostel_id
JOIN blocks b ON b.id = i.block_id
WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.ViewerRole != models.RoleStaff && filter.ViewerRole != models.RoleAdmin {
		if filter.ViewerID != "" {
			conditions = append(conditions, fmt.Sprintf("(i.visibility = 'PUBLIC' OR i.reporter_id = $%d)", len(args)+1))
			args = append(args, filter.ViewerID)
		} else {
			conditions = append(conditions, "i.visibility = 'PUBLIC'")
		}
	}
	if filter.HostelID != "" {
		conditions = append(conditions, fmt.Sprintf("(i.hostel_id = $%d OR h.name = $%d)", len(args)+1, len(args)+1))
		args = append(args, filter.HostelID)
	}
	if filter.BlockID != "" {
		conditions = append(conditions, fmt.Sprintf("(i.block_id = $%d OR b.name = $%d)", len(args)+1, len(args)+1))
		args = append(args, filter.BlockID)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("i.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Priority != nil {
		conditions = append(conditions, fmt.Sprintf("i.priority = $%d", len(args)+1))
		args = append(args, *filter.Priority)
	}
	if filter.UnresolvedOnly {
		conditions = append(conditions, "i.status IN ('REPORTED', 'ASSIGNED', 'IN_PROGRESS')")
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(i.title) LIKE $%d OR LOWER(i.description) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	// priority is a text enum, so it sorts through an explicit urgency rank
	allowedSorts := map[string]string{
		"created_at": "i.created_at",
		"priority":   "CASE i.priority WHEN 'EMERGENCY' THEN 4 WHEN 'HIGH' THEN 3 WHEN 'MEDIUM' THEN 2 ELSE 1 END",
		"status":     "i.status",
		"updated_at": "i.updated_at",
	}
	sortColumn, ok := allowedSorts[sortBy]
	if !ok {
		sortColumn = "i.created_at"
	}
	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf(`SELECT i.id, i.title, i.description, i.priority, i.status, i.visibility, i.category_id, i.reporter_id, i.assignee_id,
	i.hostel_id, i.block_id, i.room, i.media_url, i.is_duplicate, i.merged_with,
	i.created_at, i.updated_at, i.assigned_at, i.resolved_at, i.closed_at,
	c.name AS category_name, reporter.name AS reporter_name, assignee.name AS assignee_name,
	h.name AS hostel_name, b.name AS block_name,
	(SELECT COUNT(*) FROM upvotes u WHERE u.issue_id = i.id) AS upvote_count
%s%s ORDER BY %s %s LIMIT %d OFFSET %d`, base, whereClause, sortColumn, sortOrder, pageSize, offset)

	issues := []models.IssueDetail{}
	if err := r.db.SelectContext(ctx, &issues, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list issues: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s%s", base, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count issues: %w", err)
	}

	return issues, total, nil
}

// Claim assigns an issue to a staff member. Deliberately a single
// statement: no history row and no unassigned check, so the last
// concurrent writer wins.
func (r *IssueRepository) Claim(ctx context.Context, issueID, staffID string) error {
	now := time.Now().UTC()
	const query = `UPDATE issues SET status = 'ASSIGNED', assignee_id = $2, assigned_at = $3, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, issueID, staffID, now); err != nil {
		return fmt.Errorf("claim issue: %w", err)
	}
	return nil
}

// StartProgress marks an issue as being worked on. The current status is
// not checked.
func (r *IssueRepository) StartProgress(ctx context.Context, issueID string) error {
	const query = `UPDATE issues SET status = 'IN_PROGRESS', updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, issueID, time.Now().UTC()); err != nil {
		return fmt.Errorf("start progress: %w", err)
	}
	return nil
}

// Resolve moves an issue to RESOLVED and appends the status-history row
// in one transaction. Either both writes commit or neither does.
func (r *IssueRepository) Resolve(ctx context.Context, issueID, staffID, note string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin resolve transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var fromStatus models.IssueStatus
	const selectQuery = `SELECT status FROM issues WHERE id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &fromStatus, selectQuery, issueID); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("lock issue for resolve: %w", err)
	}

	now := time.Now().UTC()
	const updateQuery = `UPDATE issues SET status = 'RESOLVED', resolved_at = $2, updated_at = $2 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, updateQuery, issueID, now); err != nil {
		return fmt.Errorf("resolve issue: %w", err)
	}

	const historyQuery = `INSERT INTO issue_status_history (id, issue_id, from_status, to_status, changed_by_id, note, created_at)
VALUES ($1, $2, $3, 'RESOLVED', $4, $5, $6)`
	if _, err = tx.ExecContext(ctx, historyQuery, uuid.NewString(), issueID, fromStatus, staffID, note, now); err != nil {
		return fmt.Errorf("insert resolve history: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit resolve: %w", err)
	}
	return nil
}

// Close moves an issue to CLOSED and appends the status-history row in
// one transaction. fromStatus is the pre-image read by the caller before
// the update.
func (r *IssueRepository) Close(ctx context.Context, issueID string, fromStatus models.IssueStatus, changedByID string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin close transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	const updateQuery = `UPDATE issues SET status = 'CLOSED', closed_at = $2, updated_at = $2 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, updateQuery, issueID, now); err != nil {
		return fmt.Errorf("close issue: %w", err)
	}

	const historyQuery = `INSERT INTO issue_status_history (id, issue_id, from_status, to_status, changed_by_id, note, created_at)
VALUES ($1, $2, $3, 'CLOSED', $4, $5, $6)`
	if _, err = tx.ExecContext(ctx, historyQuery, uuid.NewString(), issueID, fromStatus, changedByID, "Closed by reporter", now); err != nil {
		return fmt.Errorf("insert close history: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit close: %w", err)
	}
	return nil
}

// ToggleUpvote removes the (issue, user) upvote when present, otherwise
// inserts it. Returns true when the issue ends up upvoted. The unique
// constraint on (issue_id, user_id) is the only race protection.
func (r *IssueRepository) ToggleUpvote(ctx context.Context, issueID, userID string) (bool, error) {
	const deleteQuery = `DELETE FROM upvotes WHERE issue_id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, deleteQuery, issueID, userID)
	if err != nil {
		return false, fmt.Errorf("delete upvote: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("upvote rows affected: %w", err)
	}
	if deleted > 0 {
		return false, nil
	}

	const insertQuery = `INSERT INTO upvotes (issue_id, user_id, created_at) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, insertQuery, issueID, userID, time.Now().UTC()); err != nil {
		return false, fmt.Errorf("insert upvote: %w", err)
	}
	return true, nil
}

// UpvoteCount returns the number of upvotes on an issue.
func (r *IssueRepository) UpvoteCount(ctx context.Context, issueID string) (int, error) {
	const query = `SELECT COUNT(*) FROM upvotes WHERE issue_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, issueID); err != nil {
		return 0, fmt.Errorf("count upvotes: %w", err)
	}
	return count, nil
}

// AddComment inserts a comment. parent_id is stored as given; the flat
// list is reassembled into a tree by the client.
func (r *IssueRepository) AddComment(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO comments (id, issue_id, user_id, parent_id, content, type, created_at)
VALUES (:id, :issue_id, :user_id, :parent_id, :content, :type, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, comment); err != nil {
		return fmt.Errorf("add comment: %w", err)
	}
	return nil
}

// ListComments returns all comments on an issue, oldest first.
func (r *IssueRepository) ListComments(ctx context.Context, issueID string) ([]models.Comment, error) {
	const query = `SELECT id, issue_id, user_id, parent_id, content, type, created_at FROM comments WHERE issue_id = $1 ORDER BY created_at ASC`
	comments := []models.Comment{}
	if err := r.db.SelectContext(ctx, &comments, query, issueID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// ListHistory returns the status-history trail for an issue.
func (r *IssueRepository) ListHistory(ctx context.Context, issueID string) ([]models.IssueStatusHistory, error) {
	const query = `SELECT id, issue_id, from_status, to_status, changed_by_id, note, created_at FROM issue_status_history WHERE issue_id = $1 ORDER BY created_at ASC`
	history := []models.IssueStatusHistory{}
	if err := r.db.SelectContext(ctx, &history, query, issueID); err != nil {
		return nil, fmt.Errorf("list issue history: %w", err)
	}
	return history, nil
}
