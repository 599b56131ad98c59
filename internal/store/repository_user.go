// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-intra-api/internal/logger"
	"github.com/MKhiriev/go-intra-api/models"
)

// User table columns.
const (
	UserColumnUsername = "username"
	UserColumnEmail    = "email"
	UserColumnPassword = "password"
	UserColumnRole     = "role"
	UserColumnGroup    = "user_group"
	UserColumnAvatarID = "avatar_id"
)

// userColumns is the default projection. It never contains the password hash.
var userColumns = []string{
	"id",
	UserColumnUsername,
	UserColumnEmail,
	UserColumnRole,
	UserColumnGroup,
	UserColumnAvatarID,
	"version",
	"created_at",
	"updated_at",
}

// UserSchema maps [models.User] onto the "users" table.
var UserSchema = Schema[models.User]{
	Table:   models.User{}.TableName(),
	Columns: userColumns,
	Fields: func(u *models.User) map[string]any {
		return map[string]any{
			"id":               &u.ID,
			UserColumnUsername: &u.Username,
			UserColumnEmail:    &u.Email,
			UserColumnPassword: &u.Password,
			UserColumnRole:     &u.Role,
			UserColumnGroup:    &u.Group,
			UserColumnAvatarID: &u.AvatarID,
			"version":          &u.Version,
			"created_at":       &u.CreatedAt,
			"updated_at":       &u.UpdatedAt,
		}
	},
}

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
type userRepository struct {
	*CRUDRepository[models.User]
}

// NewUserRepository constructs a [UserRepository] backed by db.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{CRUDRepository: NewCRUDRepository(db, UserSchema)}
}

// FindByUsernameOrEmailWithPassword returns the user whose username or email
// equals login, including the password hash, or nil when none matches.
func (r *userRepository) FindByUsernameOrEmailWithPassword(ctx context.Context, login string) (*models.User, error) {
	columns := make([]string, 0, len(userColumns)+1)
	columns = append(columns, userColumns...)
	columns = append(columns, UserColumnPassword)

	return r.findOne(ctx, Query{
		Where:   sq.Or{sq.Eq{UserColumnUsername: login}, sq.Eq{UserColumnEmail: login}},
		Limit:   1,
		Columns: columns,
	})
}
