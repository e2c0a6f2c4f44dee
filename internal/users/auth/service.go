// Copyright (c) 2026 Fleetdesk. All rights reserved.
// Author: dev@fleetdesk.io

/*
Package auth implements the core identity and access management (IAM) system.

It handles signup (which auto-provisions a fresh organization and makes the
first member its DIRECTOR), credential verification, and session lifecycle
management via JWT and Refresh tokens (stored in Redis).

Architecture:

  - Service: Orchestrates business logic (Signup, Login, Refresh, Logout).
  - Repository: Abstracted interfaces for Postgres (Users) and Redis (Sessions).
  - Security: Leverages bcrypt and RSA-signed JWTs.

The service also implements [middleware.IdentityResolver]: role and
organization are re-read from the primary store on every request, so
authorization changes take effect immediately.
*/
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetdesk/fleetdesk/internal/platform/apperr"
	"github.com/fleetdesk/fleetdesk/internal/platform/constants"
	"github.com/fleetdesk/fleetdesk/internal/platform/sec"
	"github.com/fleetdesk/fleetdesk/internal/platform/validate"
	"github.com/fleetdesk/fleetdesk/internal/users/organization"
	"github.com/fleetdesk/fleetdesk/pkg/slug"
	"github.com/fleetdesk/fleetdesk/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	GenerateAccessToken(userID string, timeToLive time.Duration) (string, error)
}

// Service implements authentication use cases.
type Service struct {
	userRepository    UserRepository
	sessionRepository SessionRepository
	tokenProvider     TokenProvider
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(userRepo UserRepository, sessionRepo SessionRepository, tokenProv TokenProvider) *Service {
	return &Service{
		userRepository:    userRepo,
		sessionRepository: sessionRepo,
		tokenProvider:     tokenProv,
	}
}

// # Signup Flow

// SignupInput holds the data required to enroll a new organization.
type SignupInput struct {
	OrganizationName string
	Email            string
	Password         string
	FirstName        string
	LastName         string
}

/*
Signup provisions a brand new organization with its founding user.

The first member of an organization is always a DIRECTOR: someone must be able
to manage users, and at signup time there is nobody else to do it.

Returns:
  - *User: Created director account
  - error: Validation, Conflict (if email exists) or storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*User, error) {
	validator := &validate.Validator{}
	validator.
		Required(FieldOrganizationName, input.OrganizationName).MaxLen(FieldOrganizationName, input.OrganizationName, 200).
		Required(FieldEmail, input.Email).Email(FieldEmail, input.Email).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		Required(FieldFirstName, input.FirstName).MaxLen(FieldFirstName, input.FirstName, 100).
		Required(FieldLastName, input.LastName).MaxLen(FieldLastName, input.LastName, 100)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Prevent storing plain-text passwords.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new tenant. Time-sortable IDs to prevent PG index fragmentation.
	org := &organization.Organization{
		ID:   uuid.New(),
		Name: input.OrganizationName,
		Slug: slug.From(input.OrganizationName),
	}

	user := &User{
		ID:                        uuid.New(),
		Email:                     input.Email,
		PasswordHash:              hashedPassword,
		FirstName:                 input.FirstName,
		LastName:                  input.LastName,
		Role:                      sec.RoleDirector,
		OrganizationID:            &org.ID,
		EmailNotificationsEnabled: true,
		NotificationDaysBefore:    constants.DefaultNotificationDaysBefore,
	}

	// Organization and founding director are persisted atomically.
	if err := service.userRepository.CreateWithOrganization(context, user, org); err != nil {
		return nil, err
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Login validates user credentials and issues security tokens.

Description: Verifies identity, performs constant-time password comparison,
and initializes a new session with rotated security tokens.
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	user, err := service.userRepository.FindByEmail(context, input.Email)

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Constant-time comparison in bcrypt prevents timing attacks.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	return service.issueSession(context, user, input.UserAgent, input.IPAddress)
}

/*
Logout permanently revokes the user's active session.

Description: Ensures that a tracked refresh token can never be used again.
Already-gone sessions are treated as a successful logout (idempotent).
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {
	tokenHash := sec.HashToken(refreshToken)

	if _, err := service.sessionRepository.FindByTokenHash(context, tokenHash); err != nil {
		return nil
	}

	if err := service.sessionRepository.Revoke(context, tokenHash); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// # Session Management

/*
RefreshSession implements the Refresh Token Rotation mechanism.

Description: Verifies the existing refresh token, revokes it to prevent reuse
(replay attack mitigation), and issues a fresh pair of rotated tokens.
*/
func (service *Service) RefreshSession(context context.Context, refreshToken, userAgent, ipAddress string) (*LoginSession, error) {
	tokenHash := sec.HashToken(refreshToken)
	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)

	// If (err != nil) the token is either expired, already revoked, or completely invalid.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// Rotation: Revoke the old session to prevent replay attacks
	if err := service.sessionRepository.Revoke(context, tokenHash); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_revoke_failed: %w", err)
	}

	user, err := service.userRepository.FindByID(context, session.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("User not found or suspended")
	}

	return service.issueSession(context, user, userAgent, ipAddress)
}

// issueSession generates an access/refresh token pair and persists the session.
func (service *Service) issueSession(context context.Context, user *User, userAgent, ipAddress string) (*LoginSession, error) {
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	expiresAt := time.Now().Add(RefreshTokenTTL)
	session := &Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(refreshToken),
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: expiresAt,
		IsRevoked: false,
	}

	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
	}, nil
}

// # Identity Resolution

/*
ResolveIdentity re-reads the caller's role and organization from the store.

Description: Called by the identity middleware on every request. Nothing is
cached across requests, so a concurrent role change is effective immediately.

Returns:
  - *sec.Identity: The resolved identity
  - error: apperr.Unauthorized when the account is gone or has no organization
    (mid-provisioning accounts are treated as not-yet-usable)
*/
func (service *Service) ResolveIdentity(context context.Context, userID string) (*sec.Identity, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid session")
	}

	if user.OrganizationID == nil {
		return nil, apperr.Unauthorized("Account has no organization yet")
	}

	return &sec.Identity{
		UserID:         user.ID,
		Role:           user.Role,
		OrganizationID: *user.OrganizationID,
	}, nil
}
