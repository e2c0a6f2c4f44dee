// Copyright (c) 2026 Fleetdesk. All rights reserved.
// Author: dev@fleetdesk.io

package sec

// # User Roles

// Role represents the authorization level granted to an account.
//
// The set is closed: adding a role means extending [rolePermissions] in this
// file, never runtime configuration.
type Role string

const (
	// Full control over the organization, including user management
	RoleDirector Role = "DIRECTOR"

	// Day-to-day fleet and tour operations, no user management
	RoleDispatcher Role = "DISPATCHER"

	// Read access plus invoicing of completed tours
	RoleAccountant Role = "ACCOUNTANT"

	// Vehicle maintenance only
	RoleTechnician Role = "TECHNICIAN"
)

// Roles lists every valid role. Used for input validation and tests.
var Roles = []Role{RoleDirector, RoleDispatcher, RoleAccountant, RoleTechnician}

// IsValid reports whether r is one of the closed set of roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleDirector, RoleDispatcher, RoleAccountant, RoleTechnician:
		return true
	}
	return false
}

// # Permissions

// Permission names a single gated capability of the API.
type Permission string

const (
	PermViewVehicles Permission = "view_vehicles"
	PermEditVehicles Permission = "edit_vehicles"
	PermViewDrivers  Permission = "view_drivers"
	PermEditDrivers  Permission = "edit_drivers"
	PermViewTours    Permission = "view_tours"
	PermEditTours    Permission = "edit_tours"
	PermInvoiceTours Permission = "invoice_tours"
	PermViewCalendar Permission = "view_calendar"
	PermEditCalendar Permission = "edit_calendar"
	PermManageUsers  Permission = "manage_users"
	PermViewSettings Permission = "view_settings"
	PermEditSettings Permission = "edit_settings"
)

// Permissions lists the full closed permission vocabulary.
var Permissions = []Permission{
	PermViewVehicles, PermEditVehicles,
	PermViewDrivers, PermEditDrivers,
	PermViewTours, PermEditTours, PermInvoiceTours,
	PermViewCalendar, PermEditCalendar,
	PermManageUsers,
	PermViewSettings, PermEditSettings,
}

// # Role → Permission Table

// rolePermissions is the authoritative static mapping from role to granted
// permissions. It is package-level constant state: initialized once, never
// mutated, safe for concurrent reads from every request handler.
var rolePermissions = map[Role][]Permission{
	RoleDirector: {
		PermViewVehicles, PermEditVehicles,
		PermViewDrivers, PermEditDrivers,
		PermViewTours, PermEditTours, PermInvoiceTours,
		PermViewCalendar, PermEditCalendar,
		PermManageUsers,
		PermViewSettings, PermEditSettings,
	},
	RoleDispatcher: {
		PermViewVehicles, PermEditVehicles,
		PermViewDrivers, PermEditDrivers,
		PermViewTours, PermEditTours, PermInvoiceTours,
		PermViewCalendar, PermEditCalendar,
		PermViewSettings, PermEditSettings,
	},
	RoleAccountant: {
		PermViewVehicles,
		PermViewDrivers,
		PermViewTours, PermInvoiceTours,
		PermViewCalendar,
		PermViewSettings,
	},
	RoleTechnician: {
		PermViewVehicles, PermEditVehicles,
		PermViewSettings,
	},
}

// PermissionsFor returns the set of permissions granted to a role.
//
// Unknown roles yield an empty set, so a corrupted role value fails closed.
func PermissionsFor(role Role) []Permission {
	perms := rolePermissions[role]

	// Defensive copy so callers can never mutate the table.
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// Can reports whether the role grants the given permission.
func (r Role) Can(permission Permission) bool {
	for _, p := range rolePermissions[r] {
		if p == permission {
			return true
		}
	}
	return false
}
