package schema

// DriverNoteTable represents the 'core.drivernote' table
type DriverNoteTable struct {
	Table          string
	ID             string
	DriverID       string
	OrganizationID string
	NoteType       string
	Content        string
	CreatedAt      string
}

// DriverNote is the schema definition for core.drivernote
var DriverNote = DriverNoteTable{
	Table:          "core.drivernote",
	ID:             "id",
	DriverID:       "driverid",
	OrganizationID: "organizationid",
	NoteType:       "notetype",
	Content:        "content",
	CreatedAt:      "createdat",
}

// Columns returns all standard column names
func (t DriverNoteTable) Columns() []string {
	return []string{t.ID, t.DriverID, t.OrganizationID, t.NoteType, t.Content, t.CreatedAt}
}
