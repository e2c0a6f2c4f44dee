// Copyright (c) 2026 Fleetdesk. All rights reserved.
// Author: dev@fleetdesk.io

// Package vehicle manages the organization's trucks and trailers and the
// document expiry dates attached to them.
package vehicle

import (
	"context"
	"log/slog"
	"time"

	"github.com/fleetdesk/fleetdesk/internal/platform/sec"
	"github.com/fleetdesk/fleetdesk/internal/platform/validate"
	"github.com/fleetdesk/fleetdesk/pkg/pagination"
	"github.com/fleetdesk/fleetdesk/pkg/uuid"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Input holds the writable vehicle fields shared by create and update.
type Input struct {
	VehicleType        Type
	RegistrationNumber string

	InspectionExpiryDate       *time.Time
	RegistrationExpiryDate     *time.Time
	FireExtinguisherExpiryDate *time.Time
}

func (input Input) validate() error {
	validator := &validate.Validator{}
	validator.
		OneOf(FieldVehicleType, string(input.VehicleType), string(TypeTruck), string(TypeTrailer)).
		Required(FieldRegistrationNumber, input.RegistrationNumber).
		MaxLen(FieldRegistrationNumber, input.RegistrationNumber, 20)
	return validator.Err()
}

// CreateVehicle registers a new vehicle in the caller's organization.
//
// A duplicate registration number within the organization surfaces as a
// Conflict from the unique index.
func (service *Service) CreateVehicle(context context.Context, identity *sec.Identity, input Input) (*Vehicle, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	vehicle := &Vehicle{
		ID:                         uuid.New(),
		OrganizationID:             identity.OrganizationID,
		VehicleType:                input.VehicleType,
		RegistrationNumber:         input.RegistrationNumber,
		InspectionExpiryDate:       input.InspectionExpiryDate,
		RegistrationExpiryDate:     input.RegistrationExpiryDate,
		FireExtinguisherExpiryDate: input.FireExtinguisherExpiryDate,
	}

	if err := service.repo.Create(context, vehicle); err != nil {
		return nil, err
	}

	service.logger.Info("vehicle_created",
		slog.String("vehicle_id", vehicle.ID),
		slog.String("vehicle_type", string(vehicle.VehicleType)),
	)
	return vehicle, nil
}

// GetVehicle returns one vehicle from the caller's organization.
func (service *Service) GetVehicle(context context.Context, identity *sec.Identity, id string) (*Vehicle, error) {
	return service.repo.FindByID(context, identity.OrganizationID, id)
}

// ListVehicles returns a page of the organization's vehicles, optionally
// filtered by type.
func (service *Service) ListVehicles(context context.Context, identity *sec.Identity, filter ListFilter, params pagination.Params) ([]*Vehicle, pagination.Meta, error) {
	vehicles, total, err := service.repo.List(context, identity.OrganizationID, filter, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return vehicles, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// UpdateVehicle replaces the writable fields of a vehicle.
func (service *Service) UpdateVehicle(context context.Context, identity *sec.Identity, id string, input Input) (*Vehicle, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	vehicle, err := service.repo.FindByID(context, identity.OrganizationID, id)
	if err != nil {
		return nil, err
	}

	vehicle.VehicleType = input.VehicleType
	vehicle.RegistrationNumber = input.RegistrationNumber
	vehicle.InspectionExpiryDate = input.InspectionExpiryDate
	vehicle.RegistrationExpiryDate = input.RegistrationExpiryDate
	vehicle.FireExtinguisherExpiryDate = input.FireExtinguisherExpiryDate

	if err := service.repo.Update(context, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// DeleteVehicle removes a vehicle from the caller's organization.
func (service *Service) DeleteVehicle(context context.Context, identity *sec.Identity, id string) error {
	if _, err := service.repo.FindByID(context, identity.OrganizationID, id); err != nil {
		return err
	}

	if err := service.repo.Delete(context, identity.OrganizationID, id); err != nil {
		return err
	}

	service.logger.Info("vehicle_deleted", slog.String("vehicle_id", id))
	return nil
}
