package auth

import (
	"time"

	"github.com/fleetdesk/fleetdesk/internal/platform/sec"
)

// User is a back-office account inside an organization.
type User struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	Role         sec.Role `json:"role"`

	// OrganizationID is nil only while provisioning is incomplete. Such
	// accounts cannot use any organization-scoped endpoint.
	OrganizationID *string `json:"organization_id"`

	// Notification preferences for the document-expiry email scan.
	EmailNotificationsEnabled bool `json:"email_notifications_enabled"`
	NotificationDaysBefore    int  `json:"notification_days_before"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName returns the display name used in logs and conflict messages.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Session tracks a refresh token issued to a user agent.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"token_hash"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	IsRevoked bool      `json:"is_revoked"`
}

// Field names for validation
const (
	FieldEmail            = "email"
	FieldPassword         = "password"
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldOrganizationName = "organization_name"
	FieldRole             = "role"
)
