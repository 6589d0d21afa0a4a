package models

import "time"

// IssueStatus tracks an issue through its lifecycle.
type IssueStatus string

const (
	IssueStatusReported   IssueStatus = "REPORTED"
	IssueStatusAssigned   IssueStatus = "ASSIGNED"
	IssueStatusInProgress IssueStatus = "IN_PROGRESS"
	IssueStatusResolved   IssueStatus = "RESOLVED"
	IssueStatusClosed     IssueStatus = "CLOSED"
)

// ActiveIssueStatuses is the "open" subset used by analytics and the
// unresolved-only listing filter.
var ActiveIssueStatuses = []IssueStatus{IssueStatusReported, IssueStatusAssigned, IssueStatusInProgress}

// IssuePriority orders issues by urgency.
type IssuePriority string

const (
	IssuePriorityLow       IssuePriority = "LOW"
	IssuePriorityMedium    IssuePriority = "MEDIUM"
	IssuePriorityHigh      IssuePriority = "HIGH"
	IssuePriorityEmergency IssuePriority = "EMERGENCY"
)

// IssueVisibility controls who can see an issue.
type IssueVisibility string

const (
	IssueVisibilityPublic  IssueVisibility = "PUBLIC"
	IssueVisibilityPrivate IssueVisibility = "PRIVATE"
)

// RoomPlaceholder is stored when a reporter has no room assignment.
const RoomPlaceholder = "N/A"

// Issue represents a reported maintenance/security problem tied to a
// location and reporter. Location fields are denormalized at creation
// time from the reporter's profile (or an explicit staff override).
type Issue struct {
	ID          string          `db:"id" json:"id"`
	Title       string          `db:"title" json:"title"`
	Description string          `db:"description" json:"description"`
	Priority    IssuePriority   `db:"priority" json:"priority"`
	Status      IssueStatus     `db:"status" json:"status"`
	Visibility  IssueVisibility `db:"visibility" json:"visibility"`
	CategoryID  string          `db:"category_id" json:"category_id"`
	ReporterID  string          `db:"reporter_id" json:"reporter_id"`
	AssigneeID  *string         `db:"assignee_id" json:"assignee_id,omitempty"`
	HostelID    string          `db:"hostel_id" json:"hostel_id"`
	BlockID     string          `db:"block_id" json:"block_id"`
	Room        string          `db:"room" json:"room"`
	MediaURL    *string         `db:"media_url" json:"media_url,omitempty"`
	IsDuplicate bool            `db:"is_duplicate" json:"is_duplicate"`
	MergedWith  *string         `db:"merged_with" json:"merged_with,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
	AssignedAt  *time.Time      `db:"assigned_at" json:"assigned_at,omitempty"`
	ResolvedAt  *time.Time      `db:"resolved_at" json:"resolved_at,omitempty"`
	ClosedAt    *time.Time      `db:"closed_at" json:"closed_at,omitempty"`
}

// IssueDetail joins an issue with display names for its relations.
type IssueDetail struct {
	Issue
	CategoryName string  `db:"category_name" json:"category_name"`
	ReporterName string  `db:"reporter_name" json:"reporter_name"`
	AssigneeName *string `db:"assignee_name" json:"assignee_name,omitempty"`
	HostelName   string  `db:"hostel_name" json:"hostel_name"`
	BlockName    string  `db:"block_name" json:"block_name"`
	UpvoteCount  int     `db:"upvote_count" json:"upvote_count"`
}

// IssueStatusHistory is the append-only audit trail of status changes.
type IssueStatusHistory struct {
	ID          string      `db:"id" json:"id"`
	IssueID     string      `db:"issue_id" json:"issue_id"`
	FromStatus  IssueStatus `db:"from_status" json:"from_status"`
	ToStatus    IssueStatus `db:"to_status" json:"to_status"`
	ChangedByID string      `db:"changed_by_id" json:"changed_by_id"`
	Note        string      `db:"note" json:"note"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
}

// CommentType distinguishes official staff updates from discussion.
type CommentType string

const (
	CommentTypeOfficialUpdate CommentType = "OFFICIAL_UPDATE"
	CommentTypeDiscussion     CommentType = "DISCUSSION"
)

// Comment is a flat comment row; reply trees are reconstructed by the
// client from parent_id references.
type Comment struct {
	ID        string      `db:"id" json:"id"`
	IssueID   string      `db:"issue_id" json:"issue_id"`
	UserID    string      `db:"user_id" json:"user_id"`
	ParentID  *string     `db:"parent_id" json:"parent_id,omitempty"`
	Content   string      `db:"content" json:"content"`
	Type      CommentType `db:"type" json:"type"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}

// Upvote is an "I'm affected too" signal, unique per (issue, user).
type Upvote struct {
	IssueID   string    `db:"issue_id" json:"issue_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// IssueFilter captures listing criteria for issues.
type IssueFilter struct {
	HostelID       string
	BlockID        string
	Status         *IssueStatus
	Priority       *IssuePriority
	Search         string
	UnresolvedOnly bool
	SortBy         string
	SortOrder      string
	Page           int
	PageSize       int

	// Viewer scoping: PRIVATE issues are only listed for their reporter,
	// staff and admins.
	ViewerID   string
	ViewerRole UserRole
}
