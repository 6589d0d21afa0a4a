package models

import "time"

// CategoryDensity counts active, non-duplicate issues per category.
type CategoryDensity struct {
	CategoryID   string `db:"category_id" json:"category_id"`
	CategoryName string `db:"category_name" json:"category_name"`
	IssueCount   int    `db:"issue_count" json:"issue_count"`
}

// CategoryDensityFilter scopes the category density query.
type CategoryDensityFilter struct {
	HostelID    string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// HeatmapCell aggregates issues per (hostel, block) bucket.
type HeatmapCell struct {
	HostelName         string  `db:"hostel_name" json:"hostel_name"`
	BlockName          string  `db:"block_name" json:"block_name"`
	TotalCount         int     `db:"total_count" json:"total_count"`
	OpenCount          int     `db:"open_count" json:"open_count"`
	HighPriorityOpen   int     `db:"high_priority_open" json:"high_priority_open"`
	AvgResolutionHours float64 `db:"avg_resolution_hours" json:"avg_resolution_hours"`
}

// StatusDistribution is the admin three-bucket issue breakdown.
// Reported folds REPORTED and ASSIGNED together.
type StatusDistribution struct {
	Resolved   int `db:"resolved" json:"resolved"`
	InProgress int `db:"in_progress" json:"in_progress"`
	Reported   int `db:"reported" json:"reported"`
}

// AnalyticsSummary holds the dashboard KPI figures. Zero values are
// valid on an empty database.
type AnalyticsSummary struct {
	ActiveIssues       int     `db:"active_issues" json:"active_issues"`
	AvgResolutionHours float64 `db:"avg_resolution_hours" json:"avg_resolution_hours"`
	ResolvedThisMonth  int     `db:"resolved_this_month" json:"resolved_this_month"`
	Occupancy          int     `db:"occupancy" json:"occupancy"`
}
