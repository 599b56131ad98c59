// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Role is the authorization role of a user account.
type Role string

const (
	// RoleAdmin grants access to every user record and to the admin routes.
	RoleAdmin Role = "Admin"
	// RoleUser is the default role assigned on self-registration.
	RoleUser Role = "User"
)

// Roles lists every role accepted by the "user_role" database enum.
var Roles = []Role{RoleAdmin, RoleUser}

// IsValid reports whether r is one of [Roles].
func (r Role) IsValid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// User represents an account stored in the "users" table.
//
// Password holds the bcrypt hash and is never serialised to JSON. It is
// only populated by the credential lookup used during login.
type User struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"-"`
	Role     Role    `json:"role"`
	Group    *string `json:"group"`

	// AvatarID references files.id. Replacing or clearing it removes the
	// previously referenced file.
	AvatarID *string `json:"avatar_id"`
	Avatar   *File   `json:"avatar,omitempty"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds [RoleAdmin].
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// FirstUser carries the credentials of the administrator account created
// on startup when the users table does not contain it yet.
type FirstUser struct {
	Username string
	Password string
	Email    string
	Role     Role
}
