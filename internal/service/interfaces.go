// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-intra-api/models"
)

// AuthService implements registration, login and the password reset flow.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error)
	RequestPasswordReset(ctx context.Context, email, userAgent string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// UsersService manages user accounts.
//
// Methods taking an actor enforce ownership: a non-admin actor may only act
// on their own account.
type UsersService interface {
	Init(ctx context.Context) error
	Bootstrap(ctx context.Context, first models.FirstUser)

	FindAll(ctx context.Context, q models.ListQuery) ([]models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsernameOrEmailWithPassword(ctx context.Context, login string) (*models.User, error)

	// ValidateUser resolves the subject of an access token through the
	// cache. It returns nil when the account no longer exists.
	ValidateUser(ctx context.Context, id string) (*models.User, error)
	AuthorizeAccess(ctx context.Context, targetID string, actor *models.User) (*models.User, error)

	Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
	UpdateSelf(ctx context.Context, actor *models.User, req models.UpdateUserRequest) (*models.User, error)
	UpdateAdmin(ctx context.Context, id string, actor *models.User, req models.AdminUpdateUserRequest) (*models.User, error)
	ChangePassword(ctx context.Context, id, newPassword string) error
	Delete(ctx context.Context, id string, actor *models.User) error

	SetAvatar(ctx context.Context, actor *models.User, upload Upload) (*models.User, error)
	RemoveAvatar(ctx context.Context, actor *models.User) (*models.User, error)
}

// FilesService stores uploaded files and reclaims the space of deleted ones.
type FilesService interface {
	FileStore

	Init(ctx context.Context) error

	// CreateFile stores upload and returns its row, or nil for a nil upload.
	CreateFile(ctx context.Context, upload Upload) (*models.File, error)
	FindAll(ctx context.Context, q models.ListQuery) ([]models.File, error)
	DownloadFile(ctx context.Context, id string) (*models.FileStream, error)
	ShowFile(ctx context.Context, id string) (*models.FileStream, error)

	// DuplicateFile copies a file. Failures are logged and reported as nil.
	DuplicateFile(ctx context.Context, id string) *models.File

	// DeleteAllFile removes the blobs of every tombstone.
	DeleteAllFile(ctx context.Context) error
}

// AppInfoService reports build information.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// AuthServiceWrapper decorates an AuthService, e.g. with input validation.
type AuthServiceWrapper interface {
	Wrap(AuthService) AuthService
}

// UsersServiceWrapper decorates a UsersService, e.g. with input validation.
type UsersServiceWrapper interface {
	Wrap(UsersService) UsersService
}
