package schema

// DriverTable represents the 'core.driver' table
type DriverTable struct {
	Table                 string
	ID                    string
	OrganizationID        string
	FirstName             string
	LastName              string
	Phone                 string
	Email                 string
	LicenseNumber         string
	LicenseExpiryDate     string
	MedicalExamExpiryDate string
	DriverCardExpiryDate  string
	CreatedAt             string
	UpdatedAt             string
}

// Driver is the schema definition for core.driver
var Driver = DriverTable{
	Table:                 "core.driver",
	ID:                    "id",
	OrganizationID:        "organizationid",
	FirstName:             "firstname",
	LastName:              "lastname",
	Phone:                 "phone",
	Email:                 "email",
	LicenseNumber:         "licensenumber",
	LicenseExpiryDate:     "licenseexpirydate",
	MedicalExamExpiryDate: "medicalexamexpirydate",
	DriverCardExpiryDate:  "drivercardexpirydate",
	CreatedAt:             "createdat",
	UpdatedAt:             "updatedat",
}

// Columns returns all standard column names
func (t DriverTable) Columns() []string {
	return []string{
		t.ID, t.OrganizationID, t.FirstName, t.LastName, t.Phone, t.Email,
		t.LicenseNumber, t.LicenseExpiryDate, t.MedicalExamExpiryDate,
		t.DriverCardExpiryDate, t.CreatedAt, t.UpdatedAt,
	}
}
