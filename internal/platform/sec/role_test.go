// Copyright (c) 2026 Fleetdesk. All rights reserved.
// Author: dev@fleetdesk.io

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fleetdesk/fleetdesk/internal/platform/sec"
)

/*
TestRole_Can enumerates the full role/permission matrix.

The table below is the authorization contract of the API: changing role.go
without updating this test is a deliberate speed bump.
*/
func TestRole_Can(t *testing.T) {
	grants := map[sec.Role]map[sec.Permission]bool{
		sec.RoleDirector: {
			sec.PermViewVehicles: true, sec.PermEditVehicles: true,
			sec.PermViewDrivers: true, sec.PermEditDrivers: true,
			sec.PermViewTours: true, sec.PermEditTours: true, sec.PermInvoiceTours: true,
			sec.PermViewCalendar: true, sec.PermEditCalendar: true,
			sec.PermManageUsers:  true,
			sec.PermViewSettings: true, sec.PermEditSettings: true,
		},
		sec.RoleDispatcher: {
			sec.PermViewVehicles: true, sec.PermEditVehicles: true,
			sec.PermViewDrivers: true, sec.PermEditDrivers: true,
			sec.PermViewTours: true, sec.PermEditTours: true, sec.PermInvoiceTours: true,
			sec.PermViewCalendar: true, sec.PermEditCalendar: true,
			sec.PermManageUsers:  false,
			sec.PermViewSettings: true, sec.PermEditSettings: true,
		},
		sec.RoleAccountant: {
			sec.PermViewVehicles: true, sec.PermEditVehicles: false,
			sec.PermViewDrivers: true, sec.PermEditDrivers: false,
			sec.PermViewTours: true, sec.PermEditTours: false, sec.PermInvoiceTours: true,
			sec.PermViewCalendar: true, sec.PermEditCalendar: false,
			sec.PermManageUsers:  false,
			sec.PermViewSettings: true, sec.PermEditSettings: false,
		},
		sec.RoleTechnician: {
			sec.PermViewVehicles: true, sec.PermEditVehicles: true,
			sec.PermViewDrivers: false, sec.PermEditDrivers: false,
			sec.PermViewTours: false, sec.PermEditTours: false, sec.PermInvoiceTours: false,
			sec.PermViewCalendar: false, sec.PermEditCalendar: false,
			sec.PermManageUsers:  false,
			sec.PermViewSettings: true, sec.PermEditSettings: false,
		},
	}

	for role, expected := range grants {
		t.Run(string(role), func(t *testing.T) {
			// Every role's expectations must cover the whole vocabulary.
			assert.Len(t, expected, len(sec.Permissions))

			for _, permission := range sec.Permissions {
				assert.Equal(t, expected[permission], role.Can(permission),
					"role %s permission %s", role, permission)
			}
		})
	}
}

/*
TestRole_UnknownFailsClosed verifies that a corrupted role value grants nothing.
*/
func TestRole_UnknownFailsClosed(t *testing.T) {
	unknown := sec.Role("SUPERADMIN")

	assert.False(t, unknown.IsValid())
	assert.Empty(t, sec.PermissionsFor(unknown))

	for _, permission := range sec.Permissions {
		assert.False(t, unknown.Can(permission))
	}
}

/*
TestRole_IsValid checks the closed role set.
*/
func TestRole_IsValid(t *testing.T) {
	for _, role := range sec.Roles {
		assert.True(t, role.IsValid(), "role %s", role)
	}

	assert.False(t, sec.Role("").IsValid())
	assert.False(t, sec.Role("director").IsValid()) // case sensitive
}

/*
TestPermissionsFor_DefensiveCopy verifies callers cannot mutate the grant table.
*/
func TestPermissionsFor_DefensiveCopy(t *testing.T) {
	perms := sec.PermissionsFor(sec.RoleTechnician)
	assert.NotEmpty(t, perms)

	perms[0] = sec.PermManageUsers
	assert.False(t, sec.RoleTechnician.Can(sec.PermManageUsers))
}

/*
TestIdentity_IsSelf verifies the self-protection predicate.
*/
func TestIdentity_IsSelf(t *testing.T) {
	identity := &sec.Identity{
		UserID:         "user-1",
		Role:           sec.RoleDirector,
		OrganizationID: "org-1",
	}

	assert.True(t, identity.IsSelf("user-1"))
	assert.False(t, identity.IsSelf("user-2"))
}
