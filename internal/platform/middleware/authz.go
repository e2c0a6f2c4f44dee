// Copyright (c) 2026 Fleetdesk. All rights reserved.
// Author: dev@fleetdesk.io

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/fleetdesk/fleetdesk/internal/platform/apperr"
	"github.com/fleetdesk/fleetdesk/internal/platform/ctxutil"
	"github.com/fleetdesk/fleetdesk/internal/platform/respond"
	"github.com/fleetdesk/fleetdesk/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the `sec` token
// service implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// IdentityResolver resolves the caller's current role and organization from
// the primary store.
//
// # Freshness Contract
//
// ResolveIdentity is called on EVERY request behind the Identity middleware.
// Nothing is cached across requests: a concurrent role change or organization
// move is reflected on the caller's very next request.
//
// Implementations must return [apperr.Unauthorized] when the user record is
// gone or the account has no organization yet (mid-provisioning state).
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID string) (*sec.Identity, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, parse and verify the JWT via [TokenVerifier].
//  4. Inject [*sec.AuthClaims] into the request context for downstream use.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			tokenStr := parts[1]
			claims, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithClaims(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// Identity resolves the authenticated caller into a full [sec.Identity].
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. All organization-scoped
// route groups mount behind it; it implies authentication.
//
// # Flow
//  1. Check if [*sec.AuthClaims] exists in context; abort with 401 if missing.
//  2. Re-resolve the user record (role, organization) via [IdentityResolver].
//  3. Abort with 401 when the account is gone or has no organization yet.
//  4. Inject [*sec.Identity] into the request context.
func Identity(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetClaims(request.Context())
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			identity, err := resolver.ResolveIdentity(request.Context(), claims.UserID)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequirePermission blocks requests whose resolved identity lacks the permission.
//
// # Usage
//
// Must be registered in the router AFTER [Identity].
//
// # Flow
//  1. Check if [*sec.Identity] exists in context (implies AuthN + provisioned org).
//  2. Check the permission against the static role table via [sec.Role.Can].
//  3. If not granted, abort with HTTP 403 Forbidden.
func RequirePermission(permission sec.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !identity.Can(permission) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
