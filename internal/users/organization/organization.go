package organization

import "time"

// Organization is the tenant boundary of the platform.
//
// Every vehicle, driver, tour, calendar event, and non-provisional user
// belongs to exactly one organization. No cross-organization reference is
// ever valid for these owned entities.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Field names for validation
const (
	FieldName = "name"
)
