// Copyright (c) 2026 Fleetdesk. All rights reserved.
// Author: dev@fleetdesk.io

/*
Package account covers the logged-in user's own profile and, for callers with
the manage_users permission, administration of the organization's members.

Role changes and deletions are guarded twice: the permission table decides who
may manage users at all, and a separate self-protection rule stops any caller
from changing their own role or deleting their own account. Without the second
rule an organization could lock itself out by demoting its last director.
*/
package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fleetdesk/fleetdesk/internal/platform/apperr"
	"github.com/fleetdesk/fleetdesk/internal/platform/constants"
	"github.com/fleetdesk/fleetdesk/internal/platform/sec"
	"github.com/fleetdesk/fleetdesk/internal/platform/validate"
	"github.com/fleetdesk/fleetdesk/internal/users/auth"
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

// # Own Account

// GetMe returns the caller's own account.
func (service *Service) GetMe(context context.Context, identity *sec.Identity) (*auth.User, error) {
	return service.repo.FindInOrganization(context, identity.OrganizationID, identity.UserID)
}

// UpdateProfileInput holds the editable profile fields.
type UpdateProfileInput struct {
	FirstName string
	LastName  string
}

// UpdateProfile changes the caller's display name.
func (service *Service) UpdateProfile(context context.Context, identity *sec.Identity, input UpdateProfileInput) (*auth.User, error) {
	validator := &validate.Validator{}
	validator.
		Required(auth.FieldFirstName, input.FirstName).MaxLen(auth.FieldFirstName, input.FirstName, 100).
		Required(auth.FieldLastName, input.LastName).MaxLen(auth.FieldLastName, input.LastName, 100)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.repo.FindInOrganization(context, identity.OrganizationID, identity.UserID)
	if err != nil {
		return nil, err
	}

	user.FirstName = input.FirstName
	user.LastName = input.LastName

	if err := service.repo.Update(context, user); err != nil {
		return nil, err
	}
	return user, nil
}

// NotificationPreferencesInput holds the expiry-scan email settings.
type NotificationPreferencesInput struct {
	EmailNotificationsEnabled bool
	NotificationDaysBefore    int
}

/*
UpdateNotificationPreferences changes how far ahead the daily expiry scan
warns the caller, and whether it emails them at all.

The lead window is clamped by validation to the supported range so a typo
cannot silence the scan or flood the inbox with year-ahead warnings.
*/
func (service *Service) UpdateNotificationPreferences(context context.Context, identity *sec.Identity, input NotificationPreferencesInput) (*auth.User, error) {
	validator := &validate.Validator{}
	validator.Range(FieldNotificationDaysBefore, input.NotificationDaysBefore,
		constants.MinNotificationDaysBefore, constants.MaxNotificationDaysBefore)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.repo.FindInOrganization(context, identity.OrganizationID, identity.UserID)
	if err != nil {
		return nil, err
	}

	user.EmailNotificationsEnabled = input.EmailNotificationsEnabled
	user.NotificationDaysBefore = input.NotificationDaysBefore

	if err := service.repo.Update(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("notification_preferences_updated",
		slog.String("user_id", user.ID),
		slog.Bool("enabled", user.EmailNotificationsEnabled),
		slog.Int("days_before", user.NotificationDaysBefore),
	)
	return user, nil
}

// # Member Administration

// ListUsers returns every account in the caller's organization.
func (service *Service) ListUsers(context context.Context, identity *sec.Identity) ([]*auth.User, error) {
	return service.repo.ListByOrganization(context, identity.OrganizationID)
}

// CreateUserInput holds the data to enroll an additional organization member.
type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      sec.Role
}

/*
CreateUser enrolls an additional member into the caller's organization.

Unlike signup, the role is chosen explicitly by the caller. A duplicate email
surfaces as a Conflict from the storage layer's unique index.
*/
func (service *Service) CreateUser(context context.Context, identity *sec.Identity, input CreateUserInput) (*auth.User, error) {
	validator := &validate.Validator{}
	validator.
		Required(auth.FieldEmail, input.Email).Email(auth.FieldEmail, input.Email).
		MinLen(auth.FieldPassword, input.Password, auth.MinPasswordLength).
		Required(auth.FieldFirstName, input.FirstName).MaxLen(auth.FieldFirstName, input.FirstName, 100).
		Required(auth.FieldLastName, input.LastName).MaxLen(auth.FieldLastName, input.LastName, 100).
		Custom(auth.FieldRole, !input.Role.IsValid(), "Unknown role")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("account_service_hash_failed: %w", err)
	}

	user := &auth.User{
		ID:                        uuid.New(),
		Email:                     input.Email,
		PasswordHash:              hashedPassword,
		FirstName:                 input.FirstName,
		LastName:                  input.LastName,
		Role:                      input.Role,
		OrganizationID:            &identity.OrganizationID,
		EmailNotificationsEnabled: true,
		NotificationDaysBefore:    constants.DefaultNotificationDaysBefore,
	}

	if err := service.repo.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_created",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
		slog.String("created_by", identity.UserID),
	)
	return user, nil
}

/*
ChangeRole reassigns another member's role.

Self-protection: the caller can never change their own role, regardless of
permission.
*/
func (service *Service) ChangeRole(context context.Context, identity *sec.Identity, userID string, role sec.Role) (*auth.User, error) {
	if identity.IsSelf(userID) {
		return nil, apperr.Forbidden("You cannot change your own role")
	}

	if !role.IsValid() {
		return nil, validate.RequiredError(auth.FieldRole, "Unknown role")
	}

	user, err := service.repo.FindInOrganization(context, identity.OrganizationID, userID)
	if err != nil {
		return nil, err
	}

	user.Role = role

	if err := service.repo.Update(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_role_changed",
		slog.String("user_id", user.ID),
		slog.String("role", string(role)),
		slog.String("changed_by", identity.UserID),
	)
	return user, nil
}

/*
DeleteUser removes another member from the organization.

Self-protection: the caller can never delete their own account.
*/
func (service *Service) DeleteUser(context context.Context, identity *sec.Identity, userID string) error {
	if identity.IsSelf(userID) {
		return apperr.Forbidden("You cannot delete your own account")
	}

	// Confirm the target exists in the caller's organization first, so a
	// cross-tenant id surfaces as NotFound instead of a silent no-op.
	if _, err := service.repo.FindInOrganization(context, identity.OrganizationID, userID); err != nil {
		return err
	}

	if err := service.repo.Delete(context, identity.OrganizationID, userID); err != nil {
		return err
	}

	service.logger.Info("user_deleted",
		slog.String("user_id", userID),
		slog.String("deleted_by", identity.UserID),
	)
	return nil
}
