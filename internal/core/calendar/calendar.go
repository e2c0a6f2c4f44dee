package calendar

import "time"

// EventKind tells a persisted custom event apart from the read-only events
// synthesized from vehicle, driver, and tour dates.
type EventKind string

const (
	KindCustom EventKind = "CUSTOM"
	KindSystem EventKind = "SYSTEM"
)

// SystemEventType classifies a synthesized event by its source date field.
type SystemEventType string

const (
	SystemVehicleInspection       SystemEventType = "VEHICLE_INSPECTION_EXPIRY"
	SystemVehicleRegistration     SystemEventType = "VEHICLE_REGISTRATION_EXPIRY"
	SystemVehicleFireExtinguisher SystemEventType = "VEHICLE_FIRE_EXTINGUISHER_EXPIRY"
	SystemDriverLicense           SystemEventType = "DRIVER_LICENSE_EXPIRY"
	SystemDriverMedicalExam       SystemEventType = "DRIVER_MEDICAL_EXAM_EXPIRY"
	SystemDriverCard              SystemEventType = "DRIVER_CARD_EXPIRY"
	SystemTourLoading             SystemEventType = "TOUR_LOADING"
	SystemTourUnloading           SystemEventType = "TOUR_UNLOADING"
)

// Event is one calendar entry.
//
// Custom events are persisted and editable. System events are synthesized at
// read time and carry the id of the entity they were derived from; they have
// no identity of their own and cannot be edited or deleted.
type Event struct {
	ID             string    `json:"id,omitempty"`
	OrganizationID string    `json:"-"`
	Kind           EventKind `json:"kind"`
	Title          string    `json:"title"`
	Description    *string   `json:"description,omitempty"`
	Date           time.Time `json:"date"`
	Color          string    `json:"color,omitempty"`

	SystemType SystemEventType `json:"system_type,omitempty"`
	SourceID   string          `json:"source_id,omitempty"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Field names for validation
const (
	FieldTitle = "title"
	FieldDate  = "date"
	FieldColor = "color"
)
