package models

import "time"

// AnnouncementPriority defines ordering for announcements.
type AnnouncementPriority string

const (
	AnnouncementPriorityLow    AnnouncementPriority = "LOW"
	AnnouncementPriorityNormal AnnouncementPriority = "NORMAL"
	AnnouncementPriorityHigh   AnnouncementPriority = "HIGH"
)

// Announcement is an admin broadcast. A NULL target hostel means the
// announcement is global.
type Announcement struct {
	ID             string               `db:"id" json:"id"`
	Title          string               `db:"title" json:"title"`
	Content        string               `db:"content" json:"content"`
	Priority       AnnouncementPriority `db:"priority" json:"priority"`
	IsPinned       bool                 `db:"is_pinned" json:"is_pinned"`
	AuthorID       string               `db:"author_id" json:"author_id"`
	TargetHostelID *string              `db:"target_hostel_id" json:"target_hostel_id,omitempty"`
	TargetBlockID  *string              `db:"target_block_id" json:"target_block_id,omitempty"`
	ExpiresAt      *time.Time           `db:"expires_at" json:"expires_at,omitempty"`
	CreatedAt      time.Time            `db:"created_at" json:"created_at"`
}

// AnnouncementFilter scopes announcement listings to a viewer's hostel.
type AnnouncementFilter struct {
	HostelID *string
	Page     int
	PageSize int
}
