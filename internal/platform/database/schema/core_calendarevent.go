package schema

// CalendarEventTable represents the 'core.calendarevent' table
type CalendarEventTable struct {
	Table          string
	ID             string
	OrganizationID string
	Title          string
	Description    string
	EventDate      string
	Color          string
	CreatedAt      string
	UpdatedAt      string
}

// CalendarEvent is the schema definition for core.calendarevent
var CalendarEvent = CalendarEventTable{
	Table:          "core.calendarevent",
	ID:             "id",
	OrganizationID: "organizationid",
	Title:          "title",
	Description:    "description",
	EventDate:      "eventdate",
	Color:          "color",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}

// Columns returns all standard column names
func (t CalendarEventTable) Columns() []string {
	return []string{
		t.ID, t.OrganizationID, t.Title, t.Description, t.EventDate, t.Color,
		t.CreatedAt, t.UpdatedAt,
	}
}
