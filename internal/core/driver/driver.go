package driver

import "time"

// Driver is an employed driver of an organization.
//
// The three expiry dates feed the document-expiry scan and the calendar.
type Driver struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	LicenseNumber  string `json:"license_number"`

	LicenseExpiryDate     *time.Time `json:"license_expiry_date"`
	MedicalExamExpiryDate *time.Time `json:"medical_exam_expiry_date"`
	DriverCardExpiryDate  *time.Time `json:"driver_card_expiry_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName returns the display name used in conflict messages.
func (d *Driver) FullName() string {
	return d.FirstName + " " + d.LastName
}

// NoteType classifies a driver note.
type NoteType string

const (
	NotePositive NoteType = "POSITIVE"
	NoteNegative NoteType = "NEGATIVE"
)

// Note is a timestamped free-text remark about a driver.
//
// Notes are organization-scoped like every other resource: any member with
// view_drivers sees all of them, whoever wrote them.
type Note struct {
	ID             string    `json:"id"`
	DriverID       string    `json:"driver_id"`
	OrganizationID string    `json:"organization_id"`
	NoteType       NoteType  `json:"note_type"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// Field names for validation
const (
	FieldFirstName     = "first_name"
	FieldLastName      = "last_name"
	FieldPhone         = "phone"
	FieldEmail         = "email"
	FieldLicenseNumber = "license_number"
	FieldNoteType      = "note_type"
	FieldContent       = "content"
)
