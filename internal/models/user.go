package models

import "time"

// UserRole represents the available roles for access control.
type UserRole string

const (
	RoleStudent UserRole = "STUDENT"
	RoleStaff   UserRole = "STAFF"
	RoleAdmin   UserRole = "ADMIN"
)

// StaffSpecialization is the skill category used to route issues to staff.
type StaffSpecialization string

const (
	SpecializationITSupport   StaffSpecialization = "IT_SUPPORT"
	SpecializationElectrician StaffSpecialization = "ELECTRICIAN"
	SpecializationPlumber     StaffSpecialization = "PLUMBER"
	SpecializationCarpenter   StaffSpecialization = "CARPENTER"
	SpecializationCleaner     StaffSpecialization = "CLEANER"
	SpecializationSecurity    StaffSpecialization = "SECURITY"
)

// User represents an application user stored in the users table.
// Residents carry a hostel/block/room assignment; staff carry a
// specialization instead.
type User struct {
	ID             string               `db:"id" json:"id"`
	Email          string               `db:"email" json:"email"`
	PasswordHash   string               `db:"password_hash" json:"-"`
	Name           string               `db:"name" json:"name"`
	Role           UserRole             `db:"role" json:"role"`
	Specialization *StaffSpecialization `db:"specialization" json:"specialization,omitempty"`
	HostelID       *string              `db:"hostel_id" json:"hostel_id,omitempty"`
	BlockID        *string              `db:"block_id" json:"block_id,omitempty"`
	RoomID         *string              `db:"room_id" json:"room_id,omitempty"`
	CreatedAt      time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time            `db:"updated_at" json:"updated_at"`
}

// UserSummary is the id+name projection used by directory listings.
type UserSummary struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
