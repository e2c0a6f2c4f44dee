// Copyright (c) 2026 Fleetdesk. All rights reserved.
// Author: dev@fleetdesk.io

package calendar_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetdesk/fleetdesk/internal/core/calendar"
	"github.com/fleetdesk/fleetdesk/internal/core/driver"
	"github.com/fleetdesk/fleetdesk/internal/core/tour"
	"github.com/fleetdesk/fleetdesk/internal/core/vehicle"
	"github.com/fleetdesk/fleetdesk/internal/platform/apperr"
	"github.com/fleetdesk/fleetdesk/internal/platform/sec"
)

// # Fakes

type memoryEventRepo struct {
	events map[string]*calendar.Event
}

func (repo *memoryEventRepo) Create(_ context.Context, event *calendar.Event) error {
	clone := *event
	repo.events[event.ID] = &clone
	return nil
}

func (repo *memoryEventRepo) FindByID(_ context.Context, organizationID, id string) (*calendar.Event, error) {
	event, ok := repo.events[id]
	if !ok || event.OrganizationID != organizationID {
		return nil, apperr.NotFound("Event")
	}
	clone := *event
	return &clone, nil
}

func (repo *memoryEventRepo) ListWindow(_ context.Context, organizationID string, from, to time.Time) ([]*calendar.Event, error) {
	events := []*calendar.Event{}
	for _, event := range repo.events {
		if event.OrganizationID != organizationID {
			continue
		}
		if event.Date.Before(from) || !event.Date.Before(to) {
			continue
		}
		clone := *event
		events = append(events, &clone)
	}
	return events, nil
}

func (repo *memoryEventRepo) Update(_ context.Context, event *calendar.Event) error {
	if _, ok := repo.events[event.ID]; !ok {
		return apperr.NotFound("Event")
	}
	clone := *event
	repo.events[event.ID] = &clone
	return nil
}

func (repo *memoryEventRepo) Delete(_ context.Context, organizationID, id string) error {
	delete(repo.events, id)
	return nil
}

type staticVehicles struct{ vehicles []*vehicle.Vehicle }

func (source *staticVehicles) ListAll(context.Context, string) ([]*vehicle.Vehicle, error) {
	return source.vehicles, nil
}

type staticDrivers struct{ drivers []*driver.Driver }

func (source *staticDrivers) ListAll(context.Context, string) ([]*driver.Driver, error) {
	return source.drivers, nil
}

type staticTours struct{ tours []*tour.Tour }

func (source *staticTours) ListAll(context.Context, string) ([]*tour.Tour, error) {
	return source.tours, nil
}

// # Harness

var (
	monthStart = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	monthEnd   = monthStart.AddDate(0, 1, 0)
)

func day(d int) *time.Time {
	at := time.Date(2026, 4, d, 0, 0, 0, 0, time.UTC)
	return &at
}

func member() *sec.Identity {
	return &sec.Identity{
		UserID:         "user-1",
		Role:           sec.RoleDispatcher,
		OrganizationID: "org-1",
	}
}

func newCalendarService(vehicles []*vehicle.Vehicle, drivers []*driver.Driver, tours []*tour.Tour) (*calendar.Service, *memoryEventRepo) {
	repo := &memoryEventRepo{events: map[string]*calendar.Event{}}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	service := calendar.NewService(repo,
		&staticVehicles{vehicles: vehicles},
		&staticDrivers{drivers: drivers},
		&staticTours{tours: tours},
		logger,
	)
	return service, repo
}

// # Month View

/*
TestListEvents_Synthesis verifies system events are derived from entity dates
inside the window and merged with persisted custom events, ordered by date.
*/
func TestListEvents_Synthesis(t *testing.T) {
	vehicles := []*vehicle.Vehicle{{
		ID:                     "truck-1",
		OrganizationID:         "org-1",
		RegistrationNumber:     "ZG-1234-AB",
		InspectionExpiryDate:   day(20),
		RegistrationExpiryDate: day(3),
	}}
	drivers := []*driver.Driver{{
		ID:                "driver-1",
		OrganizationID:    "org-1",
		FirstName:         "Jane",
		LastName:          "Kovacs",
		LicenseExpiryDate: day(10),
	}}
	tours := []*tour.Tour{{
		ID:              "tour-1",
		OrganizationID:  "org-1",
		LoadingLocation: "Zagreb",
		LoadingDate:     day(5),
		Stops: []*tour.UnloadingStop{
			{ID: "stop-1", TourID: "tour-1", Position: 0, Location: "Munich", UnloadingDate: day(7)},
		},
	}}

	service, _ := newCalendarService(vehicles, drivers, tours)

	_, err := service.CreateEvent(context.Background(), member(), calendar.EventInput{
		Title: "Team meeting",
		Date:  *day(15),
	})
	require.NoError(t, err)

	events, err := service.ListEvents(context.Background(), member(), monthStart, monthEnd)
	require.NoError(t, err)
	require.Len(t, events, 6)

	// Ordered by date: registration (3), loading (5), unloading (7),
	// license (10), custom (15), inspection (20).
	wantTypes := []calendar.SystemEventType{
		calendar.SystemVehicleRegistration,
		calendar.SystemTourLoading,
		calendar.SystemTourUnloading,
		calendar.SystemDriverLicense,
		"",
		calendar.SystemVehicleInspection,
	}
	for index, event := range events {
		assert.Equal(t, wantTypes[index], event.SystemType, "index %d", index)
	}

	assert.Equal(t, calendar.KindCustom, events[4].Kind)
	assert.Equal(t, "Team meeting", events[4].Title)
	assert.Equal(t, calendar.KindSystem, events[0].Kind)
	assert.Equal(t, "Registration expires: ZG-1234-AB", events[0].Title)
	assert.Equal(t, "truck-1", events[0].SourceID)
	assert.Empty(t, events[0].ID)
}

/*
TestListEvents_WindowBounds verifies the [from, to) window: the first day of
the month is in, the first day of the next month is out.
*/
func TestListEvents_WindowBounds(t *testing.T) {
	nextMonth := monthEnd
	vehicles := []*vehicle.Vehicle{{
		ID:                     "truck-1",
		OrganizationID:         "org-1",
		RegistrationNumber:     "ZG-1234-AB",
		InspectionExpiryDate:   day(1),
		RegistrationExpiryDate: &nextMonth,
	}}

	service, _ := newCalendarService(vehicles, nil, nil)

	events, err := service.ListEvents(context.Background(), member(), monthStart, monthEnd)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, calendar.SystemVehicleInspection, events[0].SystemType)
}

// # Custom Events

/*
TestCustomEvent_CRUD verifies create, update, and delete of persisted events.
*/
func TestCustomEvent_CRUD(t *testing.T) {
	service, repo := newCalendarService(nil, nil, nil)

	created, err := service.CreateEvent(context.Background(), member(), calendar.EventInput{
		Title: "Garage closed",
		Date:  *day(12),
		Color: "#ff0000",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, calendar.KindCustom, created.Kind)

	updated, err := service.UpdateEvent(context.Background(), member(), created.ID, calendar.EventInput{
		Title: "Garage closed (all day)",
		Date:  *day(13),
	})
	require.NoError(t, err)
	assert.Equal(t, "Garage closed (all day)", updated.Title)

	require.NoError(t, service.DeleteEvent(context.Background(), member(), created.ID))
	_, err = repo.FindByID(context.Background(), "org-1", created.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestCustomEvent_Validation checks the writable-field rules.
*/
func TestCustomEvent_Validation(t *testing.T) {
	service, _ := newCalendarService(nil, nil, nil)

	tests := []struct {
		name  string
		input calendar.EventInput
		field string
	}{
		{"missing_title", calendar.EventInput{Date: *day(1)}, "title"},
		{"missing_date", calendar.EventInput{Title: "x"}, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateEvent(context.Background(), member(), tt.input)
			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			require.NotEmpty(t, ae.Details)
			assert.Equal(t, tt.field, ae.Details[0].Field)
		})
	}
}
