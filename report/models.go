package report

import "time"

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Record mirrors the reports table. Optional values are pointers; the
// wire-level sentinels ((0,0) coordinate, the string "null" photo) never
// appear here.
type Record struct {
	ID          string
	Name        string
	Telephone   string
	Comments    string
	Coordinates *Coordinate
	PhotoRef    *string
	Approved    bool
	IsRemoved   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateParams contains the fields a submission provides. The server assigns
// id and timestamps; new records start unapproved and not removed.
type CreateParams struct {
	Name        string
	Telephone   string
	Comments    string
	Coordinates *Coordinate
	PhotoRef    *string
}

// Filter narrows List results. The default (zero) filter excludes removed
// records; moderation listings set IncludeRemoved.
type Filter struct {
	IncludeRemoved bool
}
