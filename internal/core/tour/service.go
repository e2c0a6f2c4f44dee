// Copyright (c) 2026 Fleetdesk. All rights reserved.
// Author: dev@fleetdesk.io

/*
Package tour implements the contracted-tour lifecycle.

Tours move through CONTRACTED -> ACTIVE -> COMPLETED <-> INVOICED. The rules
that make this more than CRUD:

  - A driver, truck, or trailer backs at most one active tour at a time
    within an organization. The check and the write are a single conditional
    update in the store, so concurrent assignments cannot both win.
  - A standalone tour needs a driver before it can be completed. A parent
    tour completes its whole group at once, and a group releases its
    resources the moment the last member finishes.
  - Invoicing requires completion and is the only reversible transition.
*/
package tour

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fleetdesk/fleetdesk/internal/core/driver"
	"github.com/fleetdesk/fleetdesk/internal/core/vehicle"
	"github.com/fleetdesk/fleetdesk/internal/platform/apperr"
	"github.com/fleetdesk/fleetdesk/internal/platform/sec"
	"github.com/fleetdesk/fleetdesk/internal/platform/validate"
	"github.com/fleetdesk/fleetdesk/pkg/pagination"
	"github.com/fleetdesk/fleetdesk/pkg/uuid"
)

// # Collaborators

// DriverDirectory resolves drivers inside an organization. Satisfied by the
// driver repository.
type DriverDirectory interface {
	FindByID(context context.Context, organizationID, id string) (*driver.Driver, error)
}

// VehicleDirectory resolves vehicles inside an organization. Satisfied by the
// vehicle repository.
type VehicleDirectory interface {
	FindByID(context context.Context, organizationID, id string) (*vehicle.Vehicle, error)
}

type Service struct {
	repo     Repository
	drivers  DriverDirectory
	vehicles VehicleDirectory
	logger   *slog.Logger
}

func NewService(repo Repository, drivers DriverDirectory, vehicles VehicleDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		drivers:  drivers,
		vehicles: vehicles,
		logger:   logger,
	}
}

// # Contract Fields

// StopInput is one unloading stop in a create or full-edit payload.
type StopInput struct {
	Location      string
	UnloadingDate *time.Time
}

// Input holds the contract fields shared by create and full edit. Lifecycle
// flags, resource assignments and group membership are never part of it.
type Input struct {
	TourType        Type
	LoadingLocation string
	LoadingDate     *time.Time
	ExportCustoms   *string
	ImportCustoms   *string
	Price           float64
	Company         string
	IsADR           bool
	Stops           []StopInput
}

func (input Input) validate() error {
	validator := &validate.Validator{}
	validator.
		OneOf(FieldTourType, string(input.TourType), string(TypeImport), string(TypeExport), string(TypeInter)).
		Required(FieldLoadingLocation, input.LoadingLocation).MaxLen(FieldLoadingLocation, input.LoadingLocation, 200).
		NonNegative(FieldPrice, input.Price).
		Required(FieldCompany, input.Company).MaxLen(FieldCompany, input.Company, 200).
		Custom(FieldUnloadingStops, len(input.Stops) == 0, "At least one unloading stop is required")
	for index, stop := range input.Stops {
		validator.Required(fmt.Sprintf("%s[%d].location", FieldUnloadingStops, index), stop.Location)
	}
	return validator.Err()
}

// buildStops materializes ordered stop records for a tour.
func buildStops(tourID string, inputs []StopInput) []*UnloadingStop {
	stops := make([]*UnloadingStop, 0, len(inputs))
	for index, input := range inputs {
		stops = append(stops, &UnloadingStop{
			ID:            uuid.New(),
			TourID:        tourID,
			Position:      index,
			Location:      input.Location,
			UnloadingDate: input.UnloadingDate,
		})
	}
	return stops
}

// CreateTour registers a new contracted tour. It starts with no driver, no
// vehicles, and no group membership.
func (service *Service) CreateTour(context context.Context, identity *sec.Identity, input Input) (*Tour, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	tour := &Tour{
		ID:              uuid.New(),
		OrganizationID:  identity.OrganizationID,
		TourType:        input.TourType,
		LoadingLocation: input.LoadingLocation,
		LoadingDate:     input.LoadingDate,
		ExportCustoms:   input.ExportCustoms,
		ImportCustoms:   input.ImportCustoms,
		Price:           input.Price,
		Company:         input.Company,
		IsADR:           input.IsADR,
	}
	tour.Stops = buildStops(tour.ID, input.Stops)

	if err := service.repo.Create(context, tour); err != nil {
		return nil, err
	}

	service.logger.Info("tour_created",
		slog.String("tour_id", tour.ID),
		slog.String("tour_type", string(tour.TourType)),
	)
	return tour, nil
}

// GetTour returns one tour with its stops and, for a group parent, its
// children.
func (service *Service) GetTour(context context.Context, identity *sec.Identity, id string) (*Tour, error) {
	tour, err := service.repo.FindByID(context, identity.OrganizationID, id)
	if err != nil {
		return nil, err
	}

	children, err := service.repo.ListChildren(context, identity.OrganizationID, tour.ID)
	if err != nil {
		return nil, err
	}
	if len(children) > 0 {
		tour.Children = children
	}
	return tour, nil
}

// ListTours returns a page of the organization's tours.
func (service *Service) ListTours(context context.Context, identity *sec.Identity, filter ListFilter, params pagination.Params) ([]*Tour, pagination.Meta, error) {
	tours, total, err := service.repo.List(context, identity.OrganizationID, filter, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return tours, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// UpdateTour replaces the contract fields and the entire unloading-stop set.
// Old stops are gone afterwards; the new set is the only one that exists.
func (service *Service) UpdateTour(context context.Context, identity *sec.Identity, id string, input Input) (*Tour, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	tour, err := service.repo.FindByID(context, identity.OrganizationID, id)
	if err != nil {
		return nil, err
	}

	tour.TourType = input.TourType
	tour.LoadingLocation = input.LoadingLocation
	tour.LoadingDate = input.LoadingDate
	tour.ExportCustoms = input.ExportCustoms
	tour.ImportCustoms = input.ImportCustoms
	tour.Price = input.Price
	tour.Company = input.Company
	tour.IsADR = input.IsADR
	tour.Stops = buildStops(tour.ID, input.Stops)

	if err := service.repo.Update(context, tour); err != nil {
		return nil, err
	}
	return tour, nil
}

// DeleteTour hard-deletes a tour. Its stops go with it; children of a
// deleted parent are detached, not deleted.
func (service *Service) DeleteTour(context context.Context, identity *sec.Identity, id string) error {
	if _, err := service.repo.FindByID(context, identity.OrganizationID, id); err != nil {
		return err
	}

	if err := service.repo.Delete(context, identity.OrganizationID, id); err != nil {
		return err
	}

	service.logger.Info("tour_deleted", slog.String("tour_id", id))
	return nil
}

// # Targeted Patch

// PatchField carries an optional value: Set distinguishes "leave unchanged"
// from "set to null".
type PatchField struct {
	Set   bool
	Value *string
}

// PatchInput holds the targeted fields of a partial update.
type PatchInput struct {
	ParentTourID PatchField
	DriverID     PatchField
	TruckID      PatchField
	TrailerID    PatchField
}

/*
PatchTour applies a targeted update of group membership and resource
assignments.

Attaching to a parent requires the parent to exist in the same organization,
to not be completed, and to not itself be a child (groups are one level
deep). Resource fields go through the same guarded assignments as the
dedicated endpoints, so the exclusivity invariant holds here too.
*/
func (service *Service) PatchTour(context context.Context, identity *sec.Identity, id string, input PatchInput) (*Tour, error) {
	tour, err := service.repo.FindByID(context, identity.OrganizationID, id)
	if err != nil {
		return nil, err
	}

	if input.ParentTourID.Set {
		if err := service.setParent(context, identity, tour, input.ParentTourID.Value); err != nil {
			return nil, err
		}
	}

	if input.DriverID.Set {
		if _, err := service.AssignDriver(context, identity, id, input.DriverID.Value); err != nil {
			return nil, err
		}
	}

	if input.TruckID.Set || input.TrailerID.Set {
		if _, err := service.AssignVehicle(context, identity, id, VehicleAssignment{
			TruckID:   input.TruckID,
			TrailerID: input.TrailerID,
		}); err != nil {
			return nil, err
		}
	}

	return service.repo.FindByID(context, identity.OrganizationID, id)
}

func (service *Service) setParent(context context.Context, identity *sec.Identity, tour *Tour, parentTourID *string) error {
	if parentTourID != nil {
		if *parentTourID == tour.ID {
			return validate.RequiredError(FieldParentTourID, "A tour cannot be its own parent")
		}

		parent, err := service.repo.FindByID(context, identity.OrganizationID, *parentTourID)
		if err != nil {
			return err
		}
		if parent.IsCompleted {
			return apperr.Conflict("A completed tour group cannot be extended")
		}
		if parent.ParentTourID != nil {
			return validate.RequiredError(FieldParentTourID, "Tour groups are only one level deep")
		}
	}

	return service.repo.SetParent(context, identity.OrganizationID, tour.ID, parentTourID)
}

// # Resource Assignment

/*
AssignDriver sets or detaches the tour's driver. This is the sole
CONTRACTED -> ACTIVE trigger.

The driver must belong to the caller's organization and must not already
back another not-completed tour. Detaching (nil) always succeeds. The store
applies the exclusivity check and the write atomically; on rejection the
tour is re-read only to tell a vanished tour from a genuine conflict.
*/
func (service *Service) AssignDriver(context context.Context, identity *sec.Identity, id string, driverID *string) (*Tour, error) {
	var assigned *driver.Driver
	if driverID != nil {
		found, err := service.drivers.FindByID(context, identity.OrganizationID, *driverID)
		if err != nil {
			return nil, err
		}
		assigned = found
	}

	ok, err := service.repo.AssignDriver(context, identity.OrganizationID, id, driverID)
	if err != nil {
		return nil, err
	}
	if !ok {
		if _, err := service.repo.FindByID(context, identity.OrganizationID, id); err != nil {
			return nil, err
		}
		return nil, apperr.Conflict(fmt.Sprintf(
			"Driver %s is already assigned to an active tour", assigned.FullName(),
		))
	}

	service.logger.Info("tour_driver_assigned",
		slog.String("tour_id", id),
		slog.Any("driver_id", driverID),
	)
	return service.repo.FindByID(context, identity.OrganizationID, id)
}

// VehicleAssignment carries the independently settable vehicle fields.
type VehicleAssignment struct {
	TruckID   PatchField
	TrailerID PatchField
}

/*
AssignVehicle sets or detaches the tour's truck and trailer independently.

The conflict check is deliberately scoped to active tours only: contracted
tours referencing the same vehicle do not block each other, because nothing
is moving yet.
*/
func (service *Service) AssignVehicle(context context.Context, identity *sec.Identity, id string, assignment VehicleAssignment) (*Tour, error) {
	if assignment.TruckID.Set {
		if err := service.assignVehicleAxis(context, identity, id, assignment.TruckID.Value, service.repo.AssignTruck); err != nil {
			return nil, err
		}
	}

	if assignment.TrailerID.Set {
		if err := service.assignVehicleAxis(context, identity, id, assignment.TrailerID.Value, service.repo.AssignTrailer); err != nil {
			return nil, err
		}
	}

	return service.repo.FindByID(context, identity.OrganizationID, id)
}

type assignFunc func(context context.Context, organizationID, id string, vehicleID *string) (bool, error)

func (service *Service) assignVehicleAxis(context context.Context, identity *sec.Identity, id string, vehicleID *string, assign assignFunc) error {
	var assigned *vehicle.Vehicle
	if vehicleID != nil {
		found, err := service.vehicles.FindByID(context, identity.OrganizationID, *vehicleID)
		if err != nil {
			return err
		}
		assigned = found
	}

	ok, err := assign(context, identity.OrganizationID, id, vehicleID)
	if err != nil {
		return err
	}
	if !ok {
		if _, err := service.repo.FindByID(context, identity.OrganizationID, id); err != nil {
			return err
		}
		return apperr.Conflict(fmt.Sprintf(
			"Vehicle %s is already assigned to an active tour", assigned.RegistrationNumber,
		))
	}
	return nil
}

// # Completion

/*
CompleteTour marks a tour completed.

Three shapes of the operation:

  - Parent with children: the whole group completes in one transition
    (CompleteGroup) and every member's resources are released immediately.
  - Child: the child completes on its own; if the parent and all siblings
    are now complete, the group's resources are released.
  - Standalone: requires a driver. Resources stay attached to the completed
    tour for history; they stop blocking new assignments because the
    exclusivity checks only consider not-completed tours.
*/
func (service *Service) CompleteTour(context context.Context, identity *sec.Identity, id string) (*Tour, error) {
	tour, err := service.repo.FindByID(context, identity.OrganizationID, id)
	if err != nil {
		return nil, err
	}

	completedAt := time.Now()

	switch {
	case tour.ParentTourID == nil:
		children, err := service.repo.ListChildren(context, identity.OrganizationID, tour.ID)
		if err != nil {
			return nil, err
		}

		if len(children) > 0 {
			if err := service.completeGroup(context, identity, tour, children, completedAt); err != nil {
				return nil, err
			}
			break
		}

		if tour.DriverID == nil {
			return nil, validate.RequiredError("driver_id", "A tour without a driver cannot be completed")
		}
		if err := service.repo.MarkCompleted(context, identity.OrganizationID, []string{tour.ID}, completedAt); err != nil {
			return nil, err
		}

	default:
		if err := service.completeChild(context, identity, tour, completedAt); err != nil {
			return nil, err
		}
	}

	service.logger.Info("tour_completed", slog.String("tour_id", id))
	return service.repo.FindByID(context, identity.OrganizationID, id)
}

// completeGroup completes a parent and all of its children as one unit and
// releases resources across the group.
func (service *Service) completeGroup(context context.Context, identity *sec.Identity, parent *Tour, children []*Tour, completedAt time.Time) error {
	ids := make([]string, 0, len(children)+1)
	ids = append(ids, parent.ID)
	for _, child := range children {
		ids = append(ids, child.ID)
	}

	if err := service.repo.CompleteGroup(context, identity.OrganizationID, ids, completedAt); err != nil {
		return err
	}

	service.logger.Info("tour_group_completed",
		slog.String("parent_tour_id", parent.ID),
		slog.Int("group_size", len(ids)),
	)
	return nil
}

// completeChild completes one member of a group and, when it was the last
// open member, releases the group's resources.
func (service *Service) completeChild(context context.Context, identity *sec.Identity, child *Tour, completedAt time.Time) error {
	if err := service.repo.MarkCompleted(context, identity.OrganizationID, []string{child.ID}, completedAt); err != nil {
		return err
	}

	parent, err := service.repo.FindByID(context, identity.OrganizationID, *child.ParentTourID)
	if err != nil {
		return err
	}
	siblings, err := service.repo.ListChildren(context, identity.OrganizationID, parent.ID)
	if err != nil {
		return err
	}

	if !parent.IsCompleted {
		return nil
	}
	for _, sibling := range siblings {
		if sibling.ID != child.ID && !sibling.IsCompleted {
			return nil
		}
	}

	ids := make([]string, 0, len(siblings)+1)
	ids = append(ids, parent.ID)
	for _, sibling := range siblings {
		ids = append(ids, sibling.ID)
	}

	if err := service.repo.ReleaseResources(context, identity.OrganizationID, ids); err != nil {
		return err
	}

	service.logger.Info("tour_group_resources_released",
		slog.String("parent_tour_id", parent.ID),
	)
	return nil
}

// # Invoicing

// InvoiceInput holds the invoicing flag and optional number.
type InvoiceInput struct {
	IsInvoiced    bool
	InvoiceNumber *string
}

/*
InvoiceTour marks or unmarks a tour as invoiced.

Only completed tours can be invoiced. Unmarking is the single reversible
transition in the lifecycle and clears the stored invoice number.
*/
func (service *Service) InvoiceTour(context context.Context, identity *sec.Identity, id string, input InvoiceInput) (*Tour, error) {
	tour, err := service.repo.FindByID(context, identity.OrganizationID, id)
	if err != nil {
		return nil, err
	}

	if input.IsInvoiced && !tour.IsCompleted {
		return nil, validate.RequiredError("is_invoiced", "Only a completed tour can be invoiced")
	}

	tour.IsInvoiced = input.IsInvoiced
	if input.IsInvoiced {
		tour.InvoiceNumber = input.InvoiceNumber
	} else {
		tour.InvoiceNumber = nil
	}

	if err := service.repo.SetInvoiced(context, tour); err != nil {
		return nil, err
	}

	service.logger.Info("tour_invoiced",
		slog.String("tour_id", id),
		slog.Bool("is_invoiced", input.IsInvoiced),
	)
	return tour, nil
}
