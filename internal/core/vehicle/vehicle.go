package vehicle

import "time"

// Type discriminates the two kinds of fleet vehicles.
type Type string

const (
	TypeTruck   Type = "TRUCK"
	TypeTrailer Type = "TRAILER"
)

// Types lists every valid vehicle type.
var Types = []Type{TypeTruck, TypeTrailer}

// Vehicle is a truck or trailer owned by an organization.
//
// The three expiry dates feed the document-expiry scan and the calendar. Each
// is nullable: not every document applies to every vehicle.
type Vehicle struct {
	ID                 string `json:"id"`
	OrganizationID     string `json:"organization_id"`
	VehicleType        Type   `json:"vehicle_type"`
	RegistrationNumber string `json:"registration_number"`

	InspectionExpiryDate       *time.Time `json:"inspection_expiry_date"`
	RegistrationExpiryDate     *time.Time `json:"registration_expiry_date"`
	FireExtinguisherExpiryDate *time.Time `json:"fire_extinguisher_expiry_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Field names for validation
const (
	FieldVehicleType        = "vehicle_type"
	FieldRegistrationNumber = "registration_number"
)
