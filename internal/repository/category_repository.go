package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dormdesk/dormdesk-api/internal/models"
)

// CategoryRepository reads issue categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates the repository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ListActive returns categories available for new issues.
func (r *CategoryRepository) ListActive(ctx context.Context) ([]models.IssueCategory, error) {
	const query = `SELECT id, name, icon, specialization, is_active, created_at FROM issue_categories WHERE is_active = TRUE ORDER BY name ASC`
	categories := []models.IssueCategory{}
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list active categories: %w", err)
	}
	return categories, nil
}

// GetByID returns a category by identifier.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*models.IssueCategory, error) {
	const query = `SELECT id, name, icon, specialization, is_active, created_at FROM issue_categories WHERE id = $1`
	var category models.IssueCategory
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &category, nil
}
