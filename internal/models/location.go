package models

import "time"

// Hostel is the top level of the physical location hierarchy.
// Static reference data, created at setup and read-only at runtime.
type Hostel struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Block belongs to exactly one hostel.
type Block struct {
	ID       string `db:"id" json:"id"`
	HostelID string `db:"hostel_id" json:"hostel_id"`
	Name     string `db:"name" json:"name"`
}

// Room belongs to exactly one block.
type Room struct {
	ID      string `db:"id" json:"id"`
	BlockID string `db:"block_id" json:"block_id"`
	Number  string `db:"number" json:"number"`
}

// HostelSummary is the id+name projection returned by the hostels endpoint.
type HostelSummary struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
