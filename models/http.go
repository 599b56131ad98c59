// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Request bodies carry `validate` tags checked by the validators package
// before a request reaches a service.

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=8,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=30"`
}

// LoginRequest is the body of POST /auth/login.
// Login accepts either the username or the email of the account.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=30"`
}

// ForgotPasswordRequest is the body of POST /auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the body of POST /auth/reset-password.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=30"`
}

// UpdateUserRequest is the self-service update body of PUT /users/me.
//
// It intentionally has no password, email, role or group fields: a user
// can never change those on their own account.
type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=8,max=30"`
}

// CreateUserRequest is the admin body of POST /users.
type CreateUserRequest struct {
	Username string  `json:"username" validate:"required,min=8,max=30"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=30"`
	Role     Role    `json:"role" validate:"omitempty,role"`
	Group    *string `json:"group"`
}

// AdminUpdateUserRequest is the admin body of PUT /users/{id}.
// Only non-nil fields are updated.
type AdminUpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=8,max=30"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8,max=30"`
	Role     *Role   `json:"role" validate:"omitempty,role"`
	Group    *string `json:"group"`
}

// ListQuery carries paging parameters of list endpoints.
type ListQuery struct {
	Limit  uint64
	Offset uint64
}
