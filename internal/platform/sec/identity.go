// Copyright (c) 2026 Fleetdesk. All rights reserved.
// Author: dev@fleetdesk.io

package sec

// Identity is the fully-resolved caller identity for a single request.
//
// # Freshness
//
// Unlike [AuthClaims], which only proves who the caller is, Identity carries
// the role and organization re-read from the primary store on every request.
// A role change or organization move therefore takes effect immediately, with
// no cached authorization surviving across requests.
type Identity struct {
	// UserID is the UUID of the authenticated account.
	UserID string

	// Role is the account's current role, freshly resolved.
	Role Role

	// OrganizationID is the tenant the account belongs to. It is never empty:
	// accounts without an organization are rejected during identity resolution.
	OrganizationID string
}

// Can reports whether this identity's role grants the permission.
func (i *Identity) Can(permission Permission) bool {
	return i.Role.Can(permission)
}

// IsSelf reports whether the identity refers to the given user id.
//
// Used by the self-protection guard: a manage_users caller must not change
// their own role or delete their own account.
func (i *Identity) IsSelf(userID string) bool {
	return i.UserID == userID
}
