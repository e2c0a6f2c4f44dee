package notify

import "time"

// SourceKind tells which entity an alert was derived from.
type SourceKind string

const (
	SourceVehicle SourceKind = "VEHICLE"
	SourceDriver  SourceKind = "DRIVER"
)

// Document names the expiring document behind an alert.
type Document string

const (
	DocInspection       Document = "INSPECTION"
	DocRegistration     Document = "REGISTRATION"
	DocFireExtinguisher Document = "FIRE_EXTINGUISHER"
	DocLicense          Document = "LICENSE"
	DocMedicalExam      Document = "MEDICAL_EXAM"
	DocDriverCard       Document = "DRIVER_CARD"
)

// Alert is one expiring or expired document.
//
// DaysUntilExpiry is ceil((expiry - now) / 24h): zero means the document
// expires within the next day, negative means it is already expired.
type Alert struct {
	Kind            SourceKind `json:"kind"`
	SourceID        string     `json:"source_id"`
	Name            string     `json:"name"`
	Document        Document   `json:"document"`
	ExpiryDate      time.Time  `json:"expiry_date"`
	DaysUntilExpiry int        `json:"days_until_expiry"`
}

// Expired reports whether the alert's document is already past its date.
func (a Alert) Expired() bool {
	return a.DaysUntilExpiry < 0
}

// FailedDelivery records one recipient the mailer could not reach.
type FailedDelivery struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// Report is the partial-success summary of one scan run.
type Report struct {
	Sent   int              `json:"sent"`
	Failed []FailedDelivery `json:"failed"`
}

// DaysUntil computes ceil((expiry - now) / 24h). A date 12 hours ahead
// counts as 1, a date 12 hours past counts as 0 (expires today), and a date
// a full day past or more is negative.
func DaysUntil(now, expiry time.Time) int {
	diff := expiry.Sub(now)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return days
}
