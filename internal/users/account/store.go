package account

import (
	"context"

	"github.com/fleetdesk/fleetdesk/internal/users/auth"
)

// Field names for validation
const (
	FieldNotificationDaysBefore = "notification_days_before"
)

// Repository is the persistent store for organization member accounts.
//
// Every method is scoped to one organization: a member of another tenant is
// indistinguishable from a missing one.
type Repository interface {
	FindInOrganization(context context.Context, organizationID, id string) (*auth.User, error)
	ListByOrganization(context context.Context, organizationID string) ([]*auth.User, error)
	Create(context context.Context, user *auth.User) error
	Update(context context.Context, user *auth.User) error
	Delete(context context.Context, organizationID, id string) error
}
