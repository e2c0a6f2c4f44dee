package schema

// UnloadingStopTable represents the 'core.unloadingstop' table
type UnloadingStopTable struct {
	Table         string
	ID            string
	TourID        string
	Position      string
	Location      string
	UnloadingDate string
}

// UnloadingStop is the schema definition for core.unloadingstop
var UnloadingStop = UnloadingStopTable{
	Table:         "core.unloadingstop",
	ID:            "id",
	TourID:        "tourid",
	Position:      "position",
	Location:      "location",
	UnloadingDate: "unloadingdate",
}

// Columns returns all standard column names
func (t UnloadingStopTable) Columns() []string {
	return []string{t.ID, t.TourID, t.Position, t.Location, t.UnloadingDate}
}
