package models

import "time"

// IssueCategory maps reported issues to the staff specialization that
// should handle them.
type IssueCategory struct {
	ID             string              `db:"id" json:"id"`
	Name           string              `db:"name" json:"name"`
	Icon           string              `db:"icon" json:"icon"`
	Specialization StaffSpecialization `db:"specialization" json:"specialization"`
	IsActive       bool                `db:"is_active" json:"is_active"`
	CreatedAt      time.Time           `db:"created_at" json:"created_at"`
}
