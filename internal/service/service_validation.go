// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-intra-api/internal/validators"
	"github.com/MKhiriev/go-intra-api/models"
)

// AuthValidationService rejects malformed auth requests with [ErrValidation]
// before they reach the wrapped AuthService.
type AuthValidationService struct {
	inner     AuthService
	validator validators.Validator
}

func NewAuthValidationService() AuthServiceWrapper {
	return &AuthValidationService{
		validator: validators.NewRequestValidator(),
	}
}

func (v *AuthValidationService) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if err := v.validator.Validate(ctx, req); err != nil {
		return models.AuthResponse{}, Validation(err)
	}
	return v.inner.Register(ctx, req)
}

func (v *AuthValidationService) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	req.Login = strings.TrimSpace(req.Login)

	if err := v.validator.Validate(ctx, req); err != nil {
		return models.AuthResponse{}, Validation(err)
	}
	return v.inner.Login(ctx, req)
}

func (v *AuthValidationService) RequestPasswordReset(ctx context.Context, email, userAgent string) error {
	req := models.ForgotPasswordRequest{Email: strings.TrimSpace(email)}

	if err := v.validator.Validate(ctx, req); err != nil {
		return Validation(err)
	}
	return v.inner.RequestPasswordReset(ctx, req.Email, userAgent)
}

func (v *AuthValidationService) ResetPassword(ctx context.Context, token, newPassword string) error {
	req := models.ResetPasswordRequest{Token: strings.TrimSpace(token), Password: newPassword}

	if err := v.validator.Validate(ctx, req); err != nil {
		return Validation(err)
	}
	return v.inner.ResetPassword(ctx, req.Token, req.Password)
}

func (v *AuthValidationService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	return v.inner.ParseToken(ctx, tokenString)
}

func (v *AuthValidationService) Wrap(inner AuthService) AuthService {
	v.inner = inner
	return v
}

// UsersValidationService validates the request bodies of account mutations.
// Every other method is served by the wrapped UsersService.
type UsersValidationService struct {
	UsersService
	validator validators.Validator
}

func NewUsersValidationService() UsersServiceWrapper {
	return &UsersValidationService{
		validator: validators.NewRequestValidator(),
	}
}

func (v *UsersValidationService) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if err := v.validator.Validate(ctx, req); err != nil {
		return nil, Validation(err)
	}
	return v.UsersService.Create(ctx, req)
}

func (v *UsersValidationService) UpdateSelf(ctx context.Context, actor *models.User, req models.UpdateUserRequest) (*models.User, error) {
	if req.Username != nil {
		trimmed := strings.TrimSpace(*req.Username)
		req.Username = &trimmed
	}

	if err := v.validator.Validate(ctx, req); err != nil {
		return nil, Validation(err)
	}
	return v.UsersService.UpdateSelf(ctx, actor, req)
}

func (v *UsersValidationService) UpdateAdmin(ctx context.Context, id string, actor *models.User, req models.AdminUpdateUserRequest) (*models.User, error) {
	if err := v.validator.Validate(ctx, req); err != nil {
		return nil, Validation(err)
	}
	return v.UsersService.UpdateAdmin(ctx, id, actor, req)
}

func (v *UsersValidationService) Wrap(inner UsersService) UsersService {
	v.UsersService = inner
	return v
}
