package schema

// VehicleTable represents the 'core.vehicle' table
type VehicleTable struct {
	Table                      string
	ID                         string
	OrganizationID             string
	VehicleType                string
	RegistrationNumber         string
	InspectionExpiryDate       string
	RegistrationExpiryDate     string
	FireExtinguisherExpiryDate string
	CreatedAt                  string
	UpdatedAt                  string
}

// Vehicle is the schema definition for core.vehicle
var Vehicle = VehicleTable{
	Table:                      "core.vehicle",
	ID:                         "id",
	OrganizationID:             "organizationid",
	VehicleType:                "vehicletype",
	RegistrationNumber:         "registrationnumber",
	InspectionExpiryDate:       "inspectionexpirydate",
	RegistrationExpiryDate:     "registrationexpirydate",
	FireExtinguisherExpiryDate: "fireextinguisherexpirydate",
	CreatedAt:                  "createdat",
	UpdatedAt:                  "updatedat",
}

// Columns returns all standard column names
func (t VehicleTable) Columns() []string {
	return []string{
		t.ID, t.OrganizationID, t.VehicleType, t.RegistrationNumber,
		t.InspectionExpiryDate, t.RegistrationExpiryDate, t.FireExtinguisherExpiryDate,
		t.CreatedAt, t.UpdatedAt,
	}
}
