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

// LostItemRepository provides persistence for the lost-and-found registry.
type LostItemRepository struct {
	db *sqlx.DB
}

// NewLostItemRepository creates the repository.
func NewLostItemRepository(db *sqlx.DB) *LostItemRepository {
	return &LostItemRepository{db: db}
}

const lostItemColumns = `id, title, description, status, location, date, image_urls, reporter_id, hostel_id, created_at`

// Create inserts a new lost item.
func (r *LostItemRepository) Create(ctx context.Context, item *models.LostItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO lost_items (id, title, description, status, location, date, image_urls, reporter_id, hostel_id, created_at)
VALUES (:id, :title, :description, :status, :location, :date, :image_urls, :reporter_id, :hostel_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create lost item: %w", err)
	}
	return nil
}

// GetByID returns a lost item by identifier.
func (r *LostItemRepository) GetByID(ctx context.Context, id string) (*models.LostItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM lost_items WHERE id = $1`, lostItemColumns)
	var item models.LostItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get lost item: %w", err)
	}
	return &item, nil
}

// List returns lost items with their claims attached.
func (r *LostItemRepository) List(ctx context.Context, filter models.LostItemFilter) ([]models.LostItemWithClaims, int, error) {
	base := `FROM lost_items WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.HostelID != "" {
		conditions = append(conditions, fmt.Sprintf("hostel_id = $%d", len(args)+1))
		args = append(args, filter.HostelID)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " AND " + strings.Join(conditions, " AND ")
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

	listQuery := fmt.Sprintf("SELECT %s %s%s ORDER BY created_at DESC LIMIT %d OFFSET %d", lostItemColumns, base, whereClause, pageSize, offset)
	items := []models.LostItem{}
	if err := r.db.SelectContext(ctx, &items, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list lost items: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s%s", base, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count lost items: %w", err)
	}

	result := make([]models.LostItemWithClaims, 0, len(items))
	for _, item := range items {
		claims, err := r.ListClaims(ctx, item.ID)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, models.LostItemWithClaims{LostItem: item, Claims: claims})
	}
	return result, total, nil
}

// ListFoundAndReturned returns FOUND and RETURNED items with their
// claims, feeding the lost-item analytics endpoint.
func (r *LostItemRepository) ListFoundAndReturned(ctx context.Context) ([]models.LostItemWithClaims, error) {
	query := fmt.Sprintf("SELECT %s FROM lost_items WHERE status IN ('FOUND', 'RETURNED') ORDER BY created_at DESC", lostItemColumns)
	items := []models.LostItem{}
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list found items: %w", err)
	}

	result := make([]models.LostItemWithClaims, 0, len(items))
	for _, item := range items {
		claims, err := r.ListClaims(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, models.LostItemWithClaims{LostItem: item, Claims: claims})
	}
	return result, nil
}

const claimColumns = `id, lost_item_id, claimant_id, description, proof_urls, status, reviewed_at, created_at`

// CreateClaim inserts a PENDING claim.
func (r *LostItemRepository) CreateClaim(ctx context.Context, claim *models.LostItemClaim) error {
	if claim.ID == "" {
		claim.ID = uuid.NewString()
	}
	if claim.CreatedAt.IsZero() {
		claim.CreatedAt = time.Now().UTC()
	}
	claim.Status = models.ClaimStatusPending
	const query = `INSERT INTO lost_item_claims (id, lost_item_id, claimant_id, description, proof_urls, status, created_at)
VALUES (:id, :lost_item_id, :claimant_id, :description, :proof_urls, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, claim); err != nil {
		return fmt.Errorf("create claim: %w", err)
	}
	return nil
}

// FindClaimByClaimant returns the claimant's existing claim on an item,
// or sql.ErrNoRows. This is the application-level duplicate pre-check;
// there is no unique constraint backing it.
func (r *LostItemRepository) FindClaimByClaimant(ctx context.Context, lostItemID, claimantID string) (*models.LostItemClaim, error) {
	query := fmt.Sprintf(`SELECT %s FROM lost_item_claims WHERE lost_item_id = $1 AND claimant_id = $2 LIMIT 1`, claimColumns)
	var claim models.LostItemClaim
	if err := r.db.GetContext(ctx, &claim, query, lostItemID, claimantID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find claim by claimant: %w", err)
	}
	return &claim, nil
}

// GetClaim returns a claim scoped to its item.
func (r *LostItemRepository) GetClaim(ctx context.Context, lostItemID, claimID string) (*models.LostItemClaim, error) {
	query := fmt.Sprintf(`SELECT %s FROM lost_item_claims WHERE id = $1 AND lost_item_id = $2`, claimColumns)
	var claim models.LostItemClaim
	if err := r.db.GetContext(ctx, &claim, query, claimID, lostItemID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get claim: %w", err)
	}
	return &claim, nil
}

// ListClaims returns all claims against an item, oldest first.
func (r *LostItemRepository) ListClaims(ctx context.Context, lostItemID string) ([]models.LostItemClaim, error) {
	query := fmt.Sprintf(`SELECT %s FROM lost_item_claims WHERE lost_item_id = $1 ORDER BY created_at ASC`, claimColumns)
	claims := []models.LostItemClaim{}
	if err := r.db.SelectContext(ctx, &claims, query, lostItemID); err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	return claims, nil
}

// ApproveClaim approves a claim and marks the item RETURNED in one
// transaction. Either both updates commit or neither does.
func (r *LostItemRepository) ApproveClaim(ctx context.Context, lostItemID, claimID string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin approve transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	const claimQuery = `UPDATE lost_item_claims SET status = 'APPROVED', reviewed_at = $3 WHERE id = $1 AND lost_item_id = $2`
	if _, err = tx.ExecContext(ctx, claimQuery, claimID, lostItemID, now); err != nil {
		return fmt.Errorf("approve claim: %w", err)
	}

	const itemQuery = `UPDATE lost_items SET status = 'RETURNED' WHERE id = $1`
	if _, err = tx.ExecContext(ctx, itemQuery, lostItemID); err != nil {
		return fmt.Errorf("mark item returned: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit approve: %w", err)
	}
	return nil
}

// RejectClaim marks a claim REJECTED.
func (r *LostItemRepository) RejectClaim(ctx context.Context, lostItemID, claimID string) error {
	const query = `UPDATE lost_item_claims SET status = 'REJECTED', reviewed_at = $3 WHERE id = $1 AND lost_item_id = $2`
	if _, err := r.db.ExecContext(ctx, query, claimID, lostItemID, time.Now().UTC()); err != nil {
		return fmt.Errorf("reject claim: %w", err)
	}
	return nil
}

// MarkReturned closes the loop when the reporter recovers the item
// themselves.
func (r *LostItemRepository) MarkReturned(ctx context.Context, lostItemID string) error {
	const query = `UPDATE lost_items SET status = 'RETURNED' WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, lostItemID); err != nil {
		return fmt.Errorf("mark item returned: %w", err)
	}
	return nil
}
