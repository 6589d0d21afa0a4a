package models

import "time"

// LostItemStatus tracks a lost-and-found entry.
type LostItemStatus string

const (
	LostItemStatusLost     LostItemStatus = "LOST"
	LostItemStatusFound    LostItemStatus = "FOUND"
	LostItemStatusReturned LostItemStatus = "RETURNED"
)

// ClaimStatus tracks an ownership assertion against a lost item.
type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "PENDING"
	ClaimStatusApproved ClaimStatus = "APPROVED"
	ClaimStatusRejected ClaimStatus = "REJECTED"
)

// LostItem is a reported lost-or-found object.
type LostItem struct {
	ID          string         `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Description string         `db:"description" json:"description"`
	Status      LostItemStatus `db:"status" json:"status"`
	Location    string         `db:"location" json:"location"`
	Date        time.Time      `db:"date" json:"date"`
	ImageURLs   StringSlice    `db:"image_urls" json:"image_urls"`
	ReporterID  string         `db:"reporter_id" json:"reporter_id"`
	HostelID    *string        `db:"hostel_id" json:"hostel_id,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

// LostItemClaim is a competing ownership assertion against a lost item.
// At most one claim per (item, claimant) is enforced by an application
// level pre-check only.
type LostItemClaim struct {
	ID          string      `db:"id" json:"id"`
	LostItemID  string      `db:"lost_item_id" json:"lost_item_id"`
	ClaimantID  string      `db:"claimant_id" json:"claimant_id"`
	Description string      `db:"description" json:"description"`
	ProofURLs   StringSlice `db:"proof_urls" json:"proof_urls"`
	Status      ClaimStatus `db:"status" json:"status"`
	ReviewedAt  *time.Time  `db:"reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
}

// LostItemWithClaims bundles an item with its claims for listings.
type LostItemWithClaims struct {
	LostItem
	Claims []LostItemClaim `json:"claims"`
}

// LostItemFilter scopes lost item listings.
type LostItemFilter struct {
	Status   *LostItemStatus
	HostelID string
	Page     int
	PageSize int
}
