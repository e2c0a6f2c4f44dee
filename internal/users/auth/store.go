package auth

import (
	"context"

	"github.com/fleetdesk/fleetdesk/internal/users/organization"
)

// UserRepository is the persistent store for accounts.
type UserRepository interface {
	FindByID(context context.Context, id string) (*User, error)
	FindByEmail(context context.Context, email string) (*User, error)

	// CreateWithOrganization inserts the organization and its founding user
	// in a single transaction. Signup must never leave a user without a
	// tenant or an empty tenant without a director.
	CreateWithOrganization(context context.Context, user *User, org *organization.Organization) error
}

// SessionRepository is the volatile store for refresh-token sessions.
type SessionRepository interface {
	Create(context context.Context, session *Session) error
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)
	Revoke(context context.Context, tokenHash string) error
}
