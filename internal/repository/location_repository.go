package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dormdesk/dormdesk-api/internal/models"
)

// LocationRepository reads the static hostel/block/room hierarchy.
type LocationRepository struct {
	db *sqlx.DB
}

// NewLocationRepository creates the repository.
func NewLocationRepository(db *sqlx.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// ListHostels returns all hostels as id+name pairs.
func (r *LocationRepository) ListHostels(ctx context.Context) ([]models.HostelSummary, error) {
	const query = `SELECT id, name FROM hostels ORDER BY name ASC`
	hostels := []models.HostelSummary{}
	if err := r.db.SelectContext(ctx, &hostels, query); err != nil {
		return nil, fmt.Errorf("list hostels: %w", err)
	}
	return hostels, nil
}

// ListBlocks returns the blocks belonging to a hostel.
func (r *LocationRepository) ListBlocks(ctx context.Context, hostelID string) ([]models.Block, error) {
	const query = `SELECT id, hostel_id, name FROM blocks WHERE hostel_id = $1 ORDER BY name ASC`
	blocks := []models.Block{}
	if err := r.db.SelectContext(ctx, &blocks, query, hostelID); err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	return blocks, nil
}
