// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-intra-api/internal/config"
	"github.com/MKhiriev/go-intra-api/internal/logger"
	"github.com/MKhiriev/go-intra-api/internal/mock"
	"github.com/MKhiriev/go-intra-api/internal/store"
	"github.com/MKhiriev/go-intra-api/internal/utils"
	"github.com/MKhiriev/go-intra-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakeUserCache is an in-memory UserCache with injectable failures.
type fakeUserCache struct {
	mu    sync.Mutex
	users map[string]models.User

	getErr, setErr, deleteErr error
}

func newFakeUserCache() *fakeUserCache {
	return &fakeUserCache{users: map[string]models.User{}}
}

func (c *fakeUserCache) Get(_ context.Context, id string) (models.User, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return models.User{}, false, c.getErr
	}
	u, ok := c.users[id]
	return u, ok, nil
}

func (c *fakeUserCache) Set(_ context.Context, id string, user models.User, _ ...time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.users[id] = user
	return nil
}

func (c *fakeUserCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deleteErr != nil {
		return c.deleteErr
	}
	delete(c.users, id)
	return nil
}

func (c *fakeUserCache) has(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.users[id]
	return ok
}

type usersFixture struct {
	svc   UsersService
	users *mock.MockUserRepository
	files *mock.MockFileRepository
	blobs *mock.MockBlobStorage
	cache *fakeUserCache
}

func newUsersFixture(t *testing.T) usersFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := usersFixture{
		users: mock.NewMockUserRepository(ctrl),
		files: mock.NewMockFileRepository(ctrl),
		blobs: mock.NewMockBlobStorage(ctrl),
		cache: newFakeUserCache(),
	}
	files := NewFilesService(f.files, mock.NewMockFileDeletedRepository(ctrl), f.blobs, config.Files{}, logger.Nop())
	f.svc = NewUsersService(f.users, files, f.cache, logger.Nop())
	return f
}

var (
	admin = &models.User{ID: "admin-1", Username: "administrator", Role: models.RoleAdmin}
	alice = &models.User{ID: "alice-1", Username: "alice123", Role: models.RoleUser}
	bob   = &models.User{ID: "bob-1", Username: "bobby123", Role: models.RoleUser}
)

// ── Bootstrap ───────────────────────────────────────────────────────────────

func TestUsersService_Bootstrap(t *testing.T) {
	first := models.FirstUser{Username: "administrator", Password: "secret123", Email: "root@x.com", Role: models.RoleAdmin}

	t.Run("creates admin", func(t *testing.T) {
		f := newUsersFixture(t)
		f.users.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, values map[string]any) (string, error) {
				assert.Equal(t, "administrator", values[store.UserColumnUsername])
				assert.Equal(t, "Admin", values[store.UserColumnRole])
				assert.True(t, utils.IsPasswordValid("secret123", values[store.UserColumnPassword].(string)))
				return "admin-1", nil
			})

		f.svc.Bootstrap(context.Background(), first)
	})

	t.Run("already exists", func(t *testing.T) {
		f := newUsersFixture(t)
		f.users.EXPECT().Insert(gomock.Any(), gomock.Any()).Return("", store.ErrUniqueViolation)

		assert.NotPanics(t, func() { f.svc.Bootstrap(context.Background(), first) })
	})

	t.Run("database error is swallowed", func(t *testing.T) {
		f := newUsersFixture(t)
		f.users.EXPECT().Insert(gomock.Any(), gomock.Any()).Return("", errors.New("db down"))

		assert.NotPanics(t, func() { f.svc.Bootstrap(context.Background(), first) })
	})
}

// ── AuthorizeAccess ─────────────────────────────────────────────────────────

func TestUsersService_AuthorizeAccess(t *testing.T) {
	tests := []struct {
		name    string
		actor   *models.User
		wantErr error
	}{
		{name: "admin", actor: admin},
		{name: "self", actor: alice},
		{name: "internal call", actor: nil},
		{name: "other user", actor: bob, wantErr: ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUsersFixture(t)
			f.cache.users[alice.ID] = *alice

			target, err := f.svc.AuthorizeAccess(context.Background(), alice.ID, tt.actor)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.EqualError(t, err, "Access denied: Unauthorized access attempt.")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, alice.ID, target.ID)
		})
	}
}

func TestUsersService_AuthorizeAccess_MissingTarget(t *testing.T) {
	f := newUsersFixture(t)
	f.users.EXPECT().FindOne(gomock.Any(), sq.Eq{"id": "ghost"}).Return(nil, nil)

	_, err := f.svc.AuthorizeAccess(context.Background(), "ghost", admin)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "User with id ghost does not exist")
}

// ── ValidateUser / cache ────────────────────────────────────────────────────

func TestUsersService_ValidateUser_CacheAside(t *testing.T) {
	f := newUsersFixture(t)

	// only the first lookup reaches the database
	f.users.EXPECT().FindOne(gomock.Any(), sq.Eq{"id": alice.ID}).Return(&models.User{ID: alice.ID, Username: alice.Username}, nil).Times(1)

	user, err := f.svc.ValidateUser(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.Username, user.Username)
	assert.True(t, f.cache.has(alice.ID))

	user, err = f.svc.ValidateUser(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.Username, user.Username)
}

func TestUsersService_ValidateUser_CacheFailuresFallBack(t *testing.T) {
	f := newUsersFixture(t)
	f.cache.getErr = errors.New("redis down")
	f.cache.setErr = errors.New("redis down")

	f.users.EXPECT().FindOne(gomock.Any(), gomock.Any()).Return(&models.User{ID: alice.ID}, nil)

	user, err := f.svc.ValidateUser(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)
}

func TestUsersService_ValidateUser_Missing(t *testing.T) {
	f := newUsersFixture(t)
	f.users.EXPECT().FindOne(gomock.Any(), gomock.Any()).Return(nil, nil)

	user, err := f.svc.ValidateUser(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, user)
}

// ── Create / Update ─────────────────────────────────────────────────────────

func TestUsersService_Create_DefaultsRole(t *testing.T) {
	f := newUsersFixture(t)

	f.users.EXPECT().Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, values map[string]any) (string, error) {
			assert.Equal(t, "User", values[store.UserColumnRole])
			assert.NotEqual(t, "secret123", values[store.UserColumnPassword])
			_, hasGroup := values[store.UserColumnGroup]
			assert.False(t, hasGroup)
			return "u-1", nil
		})
	f.users.EXPECT().FindOne(gomock.Any(), sq.Eq{"id": "u-1"}).Return(&models.User{ID: "u-1", Role: models.RoleUser}, nil)

	user, err := f.svc.Create(context.Background(), models.CreateUserRequest{Username: "charlie1", Email: "c@x.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
}

func TestUsersService_UpdateSelf_OnlyUsername(t *testing.T) {
	f := newUsersFixture(t)
	f.cache.users[alice.ID] = *alice

	f.users.EXPECT().FindByID(gomock.Any(), alice.ID).Return(alice, nil)
	f.users.EXPECT().UpdateByID(gomock.Any(), alice.ID, map[string]any{store.UserColumnUsername: "alice_new"}).Return(int64(1), nil)
	f.users.EXPECT().FindOne(gomock.Any(), gomock.Any()).Return(&models.User{ID: alice.ID, Username: "alice_new", Role: models.RoleUser}, nil)

	user, err := f.svc.UpdateSelf(context.Background(), alice, models.UpdateUserRequest{Username: ptr("alice_new")})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, "alice_new", f.cache.users[alice.ID].Username, "cache holds the new state")
}

func TestUsersService_UpdateAdmin(t *testing.T) {
	f := newUsersFixture(t)
	f.cache.users[bob.ID] = *bob

	f.users.EXPECT().FindByID(gomock.Any(), bob.ID).Return(bob, nil)
	f.users.EXPECT().UpdateByID(gomock.Any(), bob.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, values map[string]any) (int64, error) {
			assert.Equal(t, "Admin", values[store.UserColumnRole])
			assert.Equal(t, "sales", values[store.UserColumnGroup])
			assert.True(t, utils.IsPasswordValid("newsecret1", values[store.UserColumnPassword].(string)))
			_, hasEmail := values[store.UserColumnEmail]
			assert.False(t, hasEmail)
			return 1, nil
		})
	f.users.EXPECT().FindOne(gomock.Any(), gomock.Any()).Return(&models.User{ID: bob.ID, Role: models.RoleAdmin}, nil)

	role := models.RoleAdmin
	user, err := f.svc.UpdateAdmin(context.Background(), bob.ID, admin, models.AdminUpdateUserRequest{
		Role:     &role,
		Group:    ptr("sales"),
		Password: ptr("newsecret1"),
	})
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())
}

func TestUsersService_Update_Forbidden(t *testing.T) {
	f := newUsersFixture(t)
	f.cache.users[alice.ID] = *alice

	_, err := f.svc.UpdateAdmin(context.Background(), alice.ID, bob, models.AdminUpdateUserRequest{Username: ptr("hijacked")})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUsersService_ChangePassword(t *testing.T) {
	f := newUsersFixture(t)

	f.users.EXPECT().FindByID(gomock.Any(), alice.ID).Return(alice, nil)
	f.users.EXPECT().UpdateByID(gomock.Any(), alice.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, values map[string]any) (int64, error) {
			assert.Len(t, values, 1)
			assert.True(t, utils.IsPasswordValid("brandnew1", values[store.UserColumnPassword].(string)))
			return 1, nil
		})
	f.users.EXPECT().FindOne(gomock.Any(), gomock.Any()).Return(alice, nil)

	require.NoError(t, f.svc.ChangePassword(context.Background(), alice.ID, "brandnew1"))
}

// ── Delete ──────────────────────────────────────────────────────────────────

func TestUsersService_Delete_EvictsCache(t *testing.T) {
	f := newUsersFixture(t)
	f.cache.users[alice.ID] = *alice

	f.users.EXPECT().FindByID(gomock.Any(), alice.ID).Return(alice, nil)
	f.users.EXPECT().DeleteByID(gomock.Any(), alice.ID).Return(int64(1), nil)

	require.NoError(t, f.svc.Delete(context.Background(), alice.ID, admin))
	assert.False(t, f.cache.has(alice.ID))
}

func TestUsersService_Delete_EvictFailureIsSwallowed(t *testing.T) {
	f := newUsersFixture(t)
	f.cache.users[alice.ID] = *alice
	f.cache.deleteErr = errors.New("redis down")

	f.users.EXPECT().FindByID(gomock.Any(), alice.ID).Return(alice, nil)
	f.users.EXPECT().DeleteByID(gomock.Any(), alice.ID).Return(int64(1), nil)

	assert.NoError(t, f.svc.Delete(context.Background(), alice.ID, alice))
}

func TestUsersService_Delete_Forbidden(t *testing.T) {
	f := newUsersFixture(t)
	f.cache.users[alice.ID] = *alice

	assert.ErrorIs(t, f.svc.Delete(context.Background(), alice.ID, bob), ErrForbidden)
	assert.True(t, f.cache.has(alice.ID))
}

// ── Avatar ──────────────────────────────────────────────────────────────────

func TestUsersService_SetAvatar(t *testing.T) {
	f := newUsersFixture(t)
	f.cache.users[alice.ID] = *alice
	withOld := &models.User{ID: alice.ID, AvatarID: ptr("f-old")}

	f.blobs.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), "image/png").Return(nil)
	f.files.EXPECT().Insert(gomock.Any(), gomock.Any()).Return("f-new", nil)
	f.files.EXPECT().FindOne(gomock.Any(), sq.Eq{"id": "f-new"}).Return(&models.File{ID: "f-new"}, nil).Times(2)

	f.users.EXPECT().FindByID(gomock.Any(), alice.ID).Return(withOld, nil)
	f.users.EXPECT().UpdateByID(gomock.Any(), alice.ID, map[string]any{store.UserColumnAvatarID: "f-new"}).Return(int64(1), nil)
	f.files.EXPECT().DeleteByID(gomock.Any(), "f-old").Return(int64(1), nil)
	f.users.EXPECT().FindOne(gomock.Any(), sq.Eq{"id": alice.ID}).Return(&models.User{ID: alice.ID, AvatarID: ptr("f-new")}, nil)

	user, err := f.svc.SetAvatar(context.Background(), alice, MemoryUpload{Data: []byte("png"), Filename: "me.png", MimeType: "image/png"})
	require.NoError(t, err)
	require.NotNil(t, user.Avatar)
	assert.Equal(t, "f-new", user.Avatar.ID)
}

func TestUsersService_SetAvatar_NoFile(t *testing.T) {
	f := newUsersFixture(t)

	_, err := f.svc.SetAvatar(context.Background(), alice, nil)
	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "file is required")
}

func TestUsersService_SetAvatar_UpdateFailureRemovesFile(t *testing.T) {
	f := newUsersFixture(t)
	f.cache.users[alice.ID] = *alice

	f.files.EXPECT().Insert(gomock.Any(), gomock.Any()).Return("f-new", nil)
	f.files.EXPECT().FindOne(gomock.Any(), gomock.Any()).Return(&models.File{ID: "f-new"}, nil)
	f.users.EXPECT().FindByID(gomock.Any(), alice.ID).Return(nil, nil)
	f.files.EXPECT().DeleteByID(gomock.Any(), "f-new").Return(int64(1), nil)

	_, err := f.svc.SetAvatar(context.Background(), alice, StoredFileUpload{Key: "k.png"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUsersService_RemoveAvatar(t *testing.T) {
	f := newUsersFixture(t)
	f.cache.users[alice.ID] = *alice

	f.users.EXPECT().FindByID(gomock.Any(), alice.ID).Return(&models.User{ID: alice.ID, AvatarID: ptr("f-old")}, nil)
	f.users.EXPECT().UpdateByID(gomock.Any(), alice.ID, map[string]any{store.UserColumnAvatarID: nil}).Return(int64(1), nil)
	f.files.EXPECT().DeleteByID(gomock.Any(), "f-old").Return(int64(1), nil)
	f.users.EXPECT().FindOne(gomock.Any(), gomock.Any()).Return(&models.User{ID: alice.ID}, nil)

	user, err := f.svc.RemoveAvatar(context.Background(), alice)
	require.NoError(t, err)
	assert.Nil(t, user.AvatarID)
}
