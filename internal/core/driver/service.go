// Copyright (c) 2026 Fleetdesk. All rights reserved.
// Author: dev@fleetdesk.io

// Package driver manages the organization's drivers, their expiring documents
// and the free-text notes dispatchers keep about them.
package driver

import (
	"context"
	"log/slog"
	"time"

	"github.com/fleetdesk/fleetdesk/internal/platform/apperr"
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

// Input holds the writable driver fields shared by create and update.
type Input struct {
	FirstName     string
	LastName      string
	Phone         string
	Email         string
	LicenseNumber string

	LicenseExpiryDate     *time.Time
	MedicalExamExpiryDate *time.Time
	DriverCardExpiryDate  *time.Time
}

func (input Input) validate() error {
	validator := &validate.Validator{}
	validator.
		Required(FieldFirstName, input.FirstName).MaxLen(FieldFirstName, input.FirstName, 100).
		Required(FieldLastName, input.LastName).MaxLen(FieldLastName, input.LastName, 100).
		Required(FieldLicenseNumber, input.LicenseNumber).MaxLen(FieldLicenseNumber, input.LicenseNumber, 50).
		MaxLen(FieldPhone, input.Phone, 30)
	if input.Email != "" {
		validator.Email(FieldEmail, input.Email)
	}
	return validator.Err()
}

// CreateDriver registers a new driver in the caller's organization.
//
// A duplicate license number surfaces as a Conflict from the unique index.
func (service *Service) CreateDriver(context context.Context, identity *sec.Identity, input Input) (*Driver, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	driver := &Driver{
		ID:                    uuid.New(),
		OrganizationID:        identity.OrganizationID,
		FirstName:             input.FirstName,
		LastName:              input.LastName,
		Phone:                 input.Phone,
		Email:                 input.Email,
		LicenseNumber:         input.LicenseNumber,
		LicenseExpiryDate:     input.LicenseExpiryDate,
		MedicalExamExpiryDate: input.MedicalExamExpiryDate,
		DriverCardExpiryDate:  input.DriverCardExpiryDate,
	}

	if err := service.repo.Create(context, driver); err != nil {
		return nil, err
	}

	service.logger.Info("driver_created", slog.String("driver_id", driver.ID))
	return driver, nil
}

// GetDriver returns one driver from the caller's organization.
func (service *Service) GetDriver(context context.Context, identity *sec.Identity, id string) (*Driver, error) {
	return service.repo.FindByID(context, identity.OrganizationID, id)
}

// ListDrivers returns a page of the organization's drivers.
func (service *Service) ListDrivers(context context.Context, identity *sec.Identity, params pagination.Params) ([]*Driver, pagination.Meta, error) {
	drivers, total, err := service.repo.List(context, identity.OrganizationID, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return drivers, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// UpdateDriver replaces the writable fields of a driver.
func (service *Service) UpdateDriver(context context.Context, identity *sec.Identity, id string, input Input) (*Driver, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	driver, err := service.repo.FindByID(context, identity.OrganizationID, id)
	if err != nil {
		return nil, err
	}

	driver.FirstName = input.FirstName
	driver.LastName = input.LastName
	driver.Phone = input.Phone
	driver.Email = input.Email
	driver.LicenseNumber = input.LicenseNumber
	driver.LicenseExpiryDate = input.LicenseExpiryDate
	driver.MedicalExamExpiryDate = input.MedicalExamExpiryDate
	driver.DriverCardExpiryDate = input.DriverCardExpiryDate

	if err := service.repo.Update(context, driver); err != nil {
		return nil, err
	}
	return driver, nil
}

// DeleteDriver removes a driver from the caller's organization.
func (service *Service) DeleteDriver(context context.Context, identity *sec.Identity, id string) error {
	if _, err := service.repo.FindByID(context, identity.OrganizationID, id); err != nil {
		return err
	}

	if err := service.repo.Delete(context, identity.OrganizationID, id); err != nil {
		return err
	}

	service.logger.Info("driver_deleted", slog.String("driver_id", id))
	return nil
}

// # Notes

// NoteInput holds the data to attach a note to a driver.
type NoteInput struct {
	NoteType NoteType
	Content  string
}

// AddNote attaches a POSITIVE or NEGATIVE note to a driver.
func (service *Service) AddNote(context context.Context, identity *sec.Identity, driverID string, input NoteInput) (*Note, error) {
	validator := &validate.Validator{}
	validator.
		OneOf(FieldNoteType, string(input.NoteType), string(NotePositive), string(NoteNegative)).
		Required(FieldContent, input.Content).MaxLen(FieldContent, input.Content, 2000)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// The driver must exist in the caller's organization.
	if _, err := service.repo.FindByID(context, identity.OrganizationID, driverID); err != nil {
		return nil, err
	}

	note := &Note{
		ID:             uuid.New(),
		DriverID:       driverID,
		OrganizationID: identity.OrganizationID,
		NoteType:       input.NoteType,
		Content:        input.Content,
	}

	if err := service.repo.CreateNote(context, note); err != nil {
		return nil, err
	}
	return note, nil
}

// ListNotes returns all notes for a driver, newest first.
func (service *Service) ListNotes(context context.Context, identity *sec.Identity, driverID string) ([]*Note, error) {
	if _, err := service.repo.FindByID(context, identity.OrganizationID, driverID); err != nil {
		return nil, err
	}
	return service.repo.ListNotes(context, identity.OrganizationID, driverID)
}

// DeleteNote removes a single note from a driver.
func (service *Service) DeleteNote(context context.Context, identity *sec.Identity, driverID, noteID string) error {
	notes, err := service.ListNotes(context, identity, driverID)
	if err != nil {
		return err
	}

	found := false
	for _, note := range notes {
		if note.ID == noteID {
			found = true
			break
		}
	}
	if !found {
		return apperr.NotFound("Note")
	}

	return service.repo.DeleteNote(context, identity.OrganizationID, driverID, noteID)
}
