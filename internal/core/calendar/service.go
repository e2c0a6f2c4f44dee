// Copyright (c) 2026 Fleetdesk. All rights reserved.
// Author: dev@fleetdesk.io

/*
Package calendar serves the month view of an organization.

Two kinds of entries share the view. Custom events are plain persisted rows.
System events are synthesized on every read from the date fields of
vehicles, drivers, and tours; they are never written anywhere, so they can
never drift out of sync with their source entities.
*/
package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/fleetdesk/fleetdesk/internal/core/driver"
	"github.com/fleetdesk/fleetdesk/internal/core/tour"
	"github.com/fleetdesk/fleetdesk/internal/core/vehicle"
	"github.com/fleetdesk/fleetdesk/internal/platform/sec"
	"github.com/fleetdesk/fleetdesk/internal/platform/validate"
	"github.com/fleetdesk/fleetdesk/pkg/uuid"
)

// # Sources

// VehicleSource provides the fleet the synthesis reads expiry dates from.
type VehicleSource interface {
	ListAll(context context.Context, organizationID string) ([]*vehicle.Vehicle, error)
}

// DriverSource provides the drivers the synthesis reads expiry dates from.
type DriverSource interface {
	ListAll(context context.Context, organizationID string) ([]*driver.Driver, error)
}

// TourSource provides the tours the synthesis reads loading and unloading
// dates from.
type TourSource interface {
	ListAll(context context.Context, organizationID string) ([]*tour.Tour, error)
}

type Service struct {
	repo     Repository
	vehicles VehicleSource
	drivers  DriverSource
	tours    TourSource
	logger   *slog.Logger
}

func NewService(repo Repository, vehicles VehicleSource, drivers DriverSource, tours TourSource, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		vehicles: vehicles,
		drivers:  drivers,
		tours:    tours,
		logger:   logger,
	}
}

// # Month View

// ListEvents returns all events in [from, to): persisted custom events
// merged with synthesized system events, ordered by date.
func (service *Service) ListEvents(context context.Context, identity *sec.Identity, from, to time.Time) ([]*Event, error) {
	events, err := service.repo.ListWindow(context, identity.OrganizationID, from, to)
	if err != nil {
		return nil, err
	}

	system, err := service.synthesize(context, identity.OrganizationID, from, to)
	if err != nil {
		return nil, err
	}
	events = append(events, system...)

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	return events, nil
}

// synthesize derives read-only events from every date-bearing entity of the
// organization, keeping only those inside the window.
func (service *Service) synthesize(context context.Context, organizationID string, from, to time.Time) ([]*Event, error) {
	events := []*Event{}

	inWindow := func(date *time.Time) bool {
		return date != nil && !date.Before(from) && date.Before(to)
	}
	add := func(systemType SystemEventType, title, sourceID string, date *time.Time) {
		if !inWindow(date) {
			return
		}
		events = append(events, &Event{
			Kind:       KindSystem,
			Title:      title,
			Date:       *date,
			SystemType: systemType,
			SourceID:   sourceID,
		})
	}

	vehicles, err := service.vehicles.ListAll(context, organizationID)
	if err != nil {
		return nil, err
	}
	for _, v := range vehicles {
		add(SystemVehicleInspection, fmt.Sprintf("Inspection expires: %s", v.RegistrationNumber), v.ID, v.InspectionExpiryDate)
		add(SystemVehicleRegistration, fmt.Sprintf("Registration expires: %s", v.RegistrationNumber), v.ID, v.RegistrationExpiryDate)
		add(SystemVehicleFireExtinguisher, fmt.Sprintf("Fire extinguisher expires: %s", v.RegistrationNumber), v.ID, v.FireExtinguisherExpiryDate)
	}

	drivers, err := service.drivers.ListAll(context, organizationID)
	if err != nil {
		return nil, err
	}
	for _, d := range drivers {
		add(SystemDriverLicense, fmt.Sprintf("License expires: %s", d.FullName()), d.ID, d.LicenseExpiryDate)
		add(SystemDriverMedicalExam, fmt.Sprintf("Medical exam expires: %s", d.FullName()), d.ID, d.MedicalExamExpiryDate)
		add(SystemDriverCard, fmt.Sprintf("Driver card expires: %s", d.FullName()), d.ID, d.DriverCardExpiryDate)
	}

	tours, err := service.tours.ListAll(context, organizationID)
	if err != nil {
		return nil, err
	}
	for _, t := range tours {
		add(SystemTourLoading, fmt.Sprintf("Loading: %s", t.LoadingLocation), t.ID, t.LoadingDate)
		for _, stop := range t.Stops {
			add(SystemTourUnloading, fmt.Sprintf("Unloading: %s", stop.Location), t.ID, stop.UnloadingDate)
		}
	}

	return events, nil
}

// # Custom Events

// EventInput holds the writable fields of a custom event.
type EventInput struct {
	Title       string
	Description *string
	Date        time.Time
	Color       string
}

func (input EventInput) validate() error {
	validator := &validate.Validator{}
	validator.
		Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, 200).
		Custom(FieldDate, input.Date.IsZero(), "This field is required").
		MaxLen(FieldColor, input.Color, 20)
	return validator.Err()
}

// CreateEvent persists a new custom event.
func (service *Service) CreateEvent(context context.Context, identity *sec.Identity, input EventInput) (*Event, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	event := &Event{
		ID:             uuid.New(),
		OrganizationID: identity.OrganizationID,
		Kind:           KindCustom,
		Title:          input.Title,
		Description:    input.Description,
		Date:           input.Date,
		Color:          input.Color,
	}

	if err := service.repo.Create(context, event); err != nil {
		return nil, err
	}

	service.logger.Info("calendar_event_created", slog.String("event_id", event.ID))
	return event, nil
}

// UpdateEvent replaces the writable fields of a custom event.
func (service *Service) UpdateEvent(context context.Context, identity *sec.Identity, id string, input EventInput) (*Event, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	event, err := service.repo.FindByID(context, identity.OrganizationID, id)
	if err != nil {
		return nil, err
	}

	event.Title = input.Title
	event.Description = input.Description
	event.Date = input.Date
	event.Color = input.Color

	if err := service.repo.Update(context, event); err != nil {
		return nil, err
	}
	return event, nil
}

// DeleteEvent removes a custom event.
func (service *Service) DeleteEvent(context context.Context, identity *sec.Identity, id string) error {
	if _, err := service.repo.FindByID(context, identity.OrganizationID, id); err != nil {
		return err
	}

	if err := service.repo.Delete(context, identity.OrganizationID, id); err != nil {
		return err
	}

	service.logger.Info("calendar_event_deleted", slog.String("event_id", id))
	return nil
}
