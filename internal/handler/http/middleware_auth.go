// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"slices"

	"github.com/MKhiriev/go-intra-api/internal/logger"
	"github.com/MKhiriev/go-intra-api/internal/service"
	"github.com/MKhiriev/go-intra-api/internal/utils"
	"github.com/MKhiriev/go-intra-api/models"
)

// auth is an HTTP middleware that enforces bearer-token authentication.
//
// It validates the access token from the "Authorization" header via
// [service.AuthService.ParseToken], resolves the account it was issued for
// via [service.UsersService.ValidateUser] and stores that account in the
// request context (see [utils.WithUser]).
//
// Requests without a valid token, or whose account no longer exists, are
// rejected with 401.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			h.writeError(w, r, ErrEmptyAuthorizationHeader)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			h.writeError(w, r, ErrInvalidAuthorizationHeader)
			return
		}

		ctx := r.Context()
		token, err := h.services.AuthService.ParseToken(ctx, tokenString)
		if err != nil {
			log.Debug().Err(err).Msg("error occurred during parsing token")
			h.writeError(w, r, err)
			return
		}

		user, err := h.services.UsersService.ValidateUser(ctx, token.UserID)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		if user == nil {
			h.writeError(w, r, ErrEmptyAuthorizationHeader)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithUser(ctx, user)))
	})
}

// requireRole admits authenticated users holding one of roles.
// It must run after [Handler.auth].
func (h *Handler) requireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := utils.GetUserFromContext(r.Context())
			if !ok || !slices.Contains(roles, user.Role) {
				h.writeError(w, r, ErrRouteForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// currentUser returns the account stored by [Handler.auth].
func currentUser(r *http.Request) (*models.User, error) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		return nil, service.Unauthorized("%s", ErrEmptyAuthorizationHeader.Error())
	}
	return user, nil
}
