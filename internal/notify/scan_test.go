// Copyright (c) 2026 Fleetdesk. All rights reserved.
// Author: dev@fleetdesk.io

package notify_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetdesk/fleetdesk/internal/core/driver"
	"github.com/fleetdesk/fleetdesk/internal/core/vehicle"
	"github.com/fleetdesk/fleetdesk/internal/notify"
	"github.com/fleetdesk/fleetdesk/internal/platform/sec"
	"github.com/fleetdesk/fleetdesk/internal/users/auth"
)

// # Fakes

type fakeUserSource struct {
	users []*auth.User
}

func (source *fakeUserSource) ListWithNotificationsEnabled(context.Context) ([]*auth.User, error) {
	return source.users, nil
}

type fakeVehicleSource struct {
	vehicles map[string][]*vehicle.Vehicle
}

func (source *fakeVehicleSource) ListAll(_ context.Context, organizationID string) ([]*vehicle.Vehicle, error) {
	return source.vehicles[organizationID], nil
}

type fakeDriverSource struct {
	drivers map[string][]*driver.Driver
}

func (source *fakeDriverSource) ListAll(_ context.Context, organizationID string) ([]*driver.Driver, error) {
	return source.drivers[organizationID], nil
}

// recordingMailer captures every digest and fails for listed user ids.
type recordingMailer struct {
	sent    map[string][]notify.Alert
	failFor map[string]bool
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{sent: map[string][]notify.Alert{}, failFor: map[string]bool{}}
}

func (mailer *recordingMailer) SendExpiryAlerts(_ context.Context, user *auth.User, alerts []notify.Alert) error {
	if mailer.failFor[user.ID] {
		return errors.New("smtp connection refused")
	}
	mailer.sent[user.ID] = alerts
	return nil
}

// # Harness

var scanNow = time.Date(2026, 6, 1, 6, 0, 0, 0, time.UTC)

func inDays(days int) *time.Time {
	at := scanNow.AddDate(0, 0, days)
	return &at
}

func optedInUser(id, organizationID string, daysBefore int) *auth.User {
	return &auth.User{
		ID:                        id,
		Email:                     id + "@fleetdesk.io",
		OrganizationID:            &organizationID,
		EmailNotificationsEnabled: true,
		NotificationDaysBefore:    daysBefore,
	}
}

func newScanner(users *fakeUserSource, vehicles *fakeVehicleSource, drivers *fakeDriverSource, mailer notify.Mailer) *notify.Scanner {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return notify.NewScanner(users, vehicles, drivers, mailer, logger)
}

// # Day Arithmetic

/*
TestDaysUntil checks the ceiling behavior on both sides of now.
*/
func TestDaysUntil(t *testing.T) {
	tests := []struct {
		name   string
		expiry time.Time
		want   int
	}{
		{"twelve_hours_ahead", scanNow.Add(12 * time.Hour), 1},
		{"exactly_one_day", scanNow.Add(24 * time.Hour), 1},
		{"day_and_a_half", scanNow.Add(36 * time.Hour), 2},
		{"now", scanNow, 0},
		{"twelve_hours_past", scanNow.Add(-12 * time.Hour), 0},
		{"one_day_past", scanNow.Add(-24 * time.Hour), -1},
		{"ten_days_past", scanNow.AddDate(0, 0, -10), -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, notify.DaysUntil(scanNow, tt.expiry))
		})
	}
}

// # Scan

/*
TestScan_PersonalWindow verifies each user is matched against their own lead
window: the same fleet warns one colleague and stays silent for another.
*/
func TestScan_PersonalWindow(t *testing.T) {
	users := &fakeUserSource{users: []*auth.User{
		optedInUser("user-wide", "org-1", 30),
		optedInUser("user-narrow", "org-1", 3),
	}}
	vehicles := &fakeVehicleSource{vehicles: map[string][]*vehicle.Vehicle{
		"org-1": {{
			ID:                   "truck-1",
			OrganizationID:       "org-1",
			RegistrationNumber:   "ZG-1234-AB",
			InspectionExpiryDate: inDays(5),
		}},
	}}
	drivers := &fakeDriverSource{drivers: map[string][]*driver.Driver{}}
	mailer := newRecordingMailer()

	report, err := newScanner(users, vehicles, drivers, mailer).Scan(context.Background(), scanNow)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Sent)
	assert.Empty(t, report.Failed)

	digest, ok := mailer.sent["user-wide"]
	require.True(t, ok)
	require.Len(t, digest, 1)
	assert.Equal(t, notify.SourceVehicle, digest[0].Kind)
	assert.Equal(t, notify.DocInspection, digest[0].Document)
	assert.Equal(t, "ZG-1234-AB", digest[0].Name)
	assert.Equal(t, 5, digest[0].DaysUntilExpiry)

	// 5 days out is beyond a 3-day window, so no email at all.
	_, ok = mailer.sent["user-narrow"]
	assert.False(t, ok)
}

/*
TestScan_ExpiredAlwaysIncluded verifies already-expired documents reach the
digest regardless of how narrow the personal window is, and come first.
*/
func TestScan_ExpiredAlwaysIncluded(t *testing.T) {
	users := &fakeUserSource{users: []*auth.User{
		optedInUser("user-1", "org-1", 3),
	}}
	vehicles := &fakeVehicleSource{vehicles: map[string][]*vehicle.Vehicle{
		"org-1": {{
			ID:                   "truck-1",
			OrganizationID:       "org-1",
			RegistrationNumber:   "ZG-1234-AB",
			InspectionExpiryDate: inDays(2),
		}},
	}}
	drivers := &fakeDriverSource{drivers: map[string][]*driver.Driver{
		"org-1": {{
			ID:                    "driver-1",
			OrganizationID:        "org-1",
			FirstName:             "Jane",
			LastName:              "Kovacs",
			LicenseExpiryDate:     inDays(-10),
			MedicalExamExpiryDate: inDays(60),
		}},
	}}
	mailer := newRecordingMailer()

	report, err := newScanner(users, vehicles, drivers, mailer).Scan(context.Background(), scanNow)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)

	digest := mailer.sent["user-1"]
	require.Len(t, digest, 2)

	// Expired first, then ascending by days left. The medical exam at 60 days
	// is outside the window and absent.
	assert.Equal(t, notify.DocLicense, digest[0].Document)
	assert.True(t, digest[0].Expired())
	assert.Equal(t, -10, digest[0].DaysUntilExpiry)
	assert.Equal(t, notify.DocInspection, digest[1].Document)
	assert.Equal(t, 2, digest[1].DaysUntilExpiry)
}

/*
TestScan_PartialDelivery verifies one failing recipient does not stop the
batch and is reported instead.
*/
func TestScan_PartialDelivery(t *testing.T) {
	users := &fakeUserSource{users: []*auth.User{
		optedInUser("user-ok", "org-1", 30),
		optedInUser("user-broken", "org-1", 30),
	}}
	vehicles := &fakeVehicleSource{vehicles: map[string][]*vehicle.Vehicle{
		"org-1": {{
			ID:                   "truck-1",
			OrganizationID:       "org-1",
			RegistrationNumber:   "ZG-1234-AB",
			InspectionExpiryDate: inDays(5),
		}},
	}}
	drivers := &fakeDriverSource{drivers: map[string][]*driver.Driver{}}
	mailer := newRecordingMailer()
	mailer.failFor["user-broken"] = true

	report, err := newScanner(users, vehicles, drivers, mailer).Scan(context.Background(), scanNow)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Sent)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "user-broken", report.Failed[0].UserID)
	assert.Equal(t, "user-broken@fleetdesk.io", report.Failed[0].Email)
	assert.Equal(t, "smtp connection refused", report.Failed[0].Reason)
}

/*
TestScan_SkipsUnprovisionedAccounts verifies accounts without an organization
are ignored.
*/
func TestScan_SkipsUnprovisionedAccounts(t *testing.T) {
	orphan := optedInUser("user-orphan", "org-1", 30)
	orphan.OrganizationID = nil

	users := &fakeUserSource{users: []*auth.User{orphan}}
	vehicles := &fakeVehicleSource{vehicles: map[string][]*vehicle.Vehicle{}}
	drivers := &fakeDriverSource{drivers: map[string][]*driver.Driver{}}
	mailer := newRecordingMailer()

	report, err := newScanner(users, vehicles, drivers, mailer).Scan(context.Background(), scanNow)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Sent)
	assert.Empty(t, mailer.sent)
}

// # Badge

/*
TestGetBadge verifies the fixed 30-day classification: expired, upcoming, and
far-future documents end up in the right buckets independent of any personal
email window.
*/
func TestGetBadge(t *testing.T) {
	users := &fakeUserSource{}
	vehicles := &fakeVehicleSource{vehicles: map[string][]*vehicle.Vehicle{
		"org-1": {{
			ID:                     "truck-1",
			OrganizationID:         "org-1",
			RegistrationNumber:     "ZG-1234-AB",
			InspectionExpiryDate:   inDays(5),
			RegistrationExpiryDate: inDays(40),
		}},
	}}
	drivers := &fakeDriverSource{drivers: map[string][]*driver.Driver{
		"org-1": {{
			ID:                "driver-1",
			OrganizationID:    "org-1",
			FirstName:         "Jane",
			LastName:          "Kovacs",
			LicenseExpiryDate: inDays(-2),
		}},
	}}

	scanner := newScanner(users, vehicles, drivers, newRecordingMailer())
	identity := &sec.Identity{
		UserID:         "user-1",
		Role:           sec.RoleAccountant,
		OrganizationID: "org-1",
	}

	badge, err := scanner.GetBadge(context.Background(), identity)
	require.NoError(t, err)

	require.Len(t, badge.Expired, 1)
	assert.Equal(t, notify.DocLicense, badge.Expired[0].Document)
	assert.Equal(t, "Jane Kovacs", badge.Expired[0].Name)

	// The registration at 40 days is outside the fixed window.
	require.Len(t, badge.Upcoming, 1)
	assert.Equal(t, notify.DocInspection, badge.Upcoming[0].Document)
}
