// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/MKhiriev/go-intra-api/internal/config"
	"github.com/MKhiriev/go-intra-api/internal/logger"
	"github.com/MKhiriev/go-intra-api/internal/mailer"
	"github.com/MKhiriev/go-intra-api/internal/mock"
	"github.com/MKhiriev/go-intra-api/internal/store"
	"github.com/MKhiriev/go-intra-api/internal/utils"
	"github.com/MKhiriev/go-intra-api/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testAppConfig = config.App{
	TokenSignKey:       "test-sign-key",
	TokenIssuer:        "go-intra-api",
	TokenDuration:      time.Hour,
	ResetTokenDuration: 10 * time.Minute,
	PasswordResetURL:   "https://intra.example.com/reset-password",
}

type authFixture struct {
	svc    AuthService
	users  *mock.MockUserRepository
	sender *mock.MockSender
	cache  *fakeUserCache
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := authFixture{
		users:  mock.NewMockUserRepository(ctrl),
		sender: mock.NewMockSender(ctrl),
		cache:  newFakeUserCache(),
	}
	files := NewFilesService(mock.NewMockFileRepository(ctrl), mock.NewMockFileDeletedRepository(ctrl), mock.NewMockBlobStorage(ctrl), config.Files{}, logger.Nop())
	users := NewUsersService(f.users, files, f.cache, logger.Nop())
	f.svc = NewAuthService(users, f.sender, testAppConfig, logger.Nop())
	return f
}

func hashedUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := utils.EncodePassword(password)
	require.NoError(t, err)
	return &models.User{ID: "alice-1", Username: "alice123", Email: "alice@x.com", Password: hash, Role: models.RoleUser}
}

// ── Register / Login ────────────────────────────────────────────────────────

func TestAuthService_Register(t *testing.T) {
	f := newAuthFixture(t)
	stored := hashedUser(t, "secret123")

	f.users.EXPECT().Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, values map[string]any) (string, error) {
			assert.Equal(t, "User", values[store.UserColumnRole])
			return stored.ID, nil
		})
	f.users.EXPECT().FindOne(gomock.Any(), gomock.Any()).Return(&models.User{ID: stored.ID, Username: stored.Username}, nil)
	f.users.EXPECT().FindByUsernameOrEmailWithPassword(gomock.Any(), "alice123").Return(stored, nil)

	resp, err := f.svc.Register(context.Background(), models.RegisterRequest{Username: "alice123", Email: "alice@x.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Empty(t, resp.User.Password)
	require.NotEmpty(t, resp.Token)

	token, err := f.svc.ParseToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, token.UserID)
	assert.Equal(t, models.TokenTypeAccess, token.Type)
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	f := newAuthFixture(t)
	f.users.EXPECT().Insert(gomock.Any(), gomock.Any()).Return("", store.ErrUniqueViolation)

	_, err := f.svc.Register(context.Background(), models.RegisterRequest{Username: "alice123", Email: "alice@x.com", Password: "secret123"})
	assert.ErrorIs(t, err, store.ErrConstraintViolation)
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture(t)
	f.users.EXPECT().FindByUsernameOrEmailWithPassword(gomock.Any(), "alice@x.com").Return(hashedUser(t, "secret123"), nil)

	resp, err := f.svc.Login(context.Background(), models.LoginRequest{Login: "alice@x.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "alice-1", resp.User.ID)
	assert.Empty(t, resp.User.Password)
}

func TestAuthService_Login_SameErrorForUnknownAndWrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.users.EXPECT().FindByUsernameOrEmailWithPassword(gomock.Any(), "ghost").Return(nil, nil)
	f.users.EXPECT().FindByUsernameOrEmailWithPassword(gomock.Any(), "alice123").Return(hashedUser(t, "secret123"), nil)

	_, unknownErr := f.svc.Login(context.Background(), models.LoginRequest{Login: "ghost", Password: "secret123"})
	_, wrongErr := f.svc.Login(context.Background(), models.LoginRequest{Login: "alice123", Password: "not-the-one"})

	assert.ErrorIs(t, unknownErr, ErrNotFound)
	assert.ErrorIs(t, wrongErr, ErrNotFound)
	assert.EqualError(t, unknownErr, "Wrong email/username or password.")
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestAuthService_Login_DatabaseError(t *testing.T) {
	f := newAuthFixture(t)
	dbErr := errors.New("db down")
	f.users.EXPECT().FindByUsernameOrEmailWithPassword(gomock.Any(), gomock.Any()).Return(nil, dbErr)

	_, err := f.svc.Login(context.Background(), models.LoginRequest{Login: "alice123", Password: "secret123"})
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, ErrNotFound)
}

// ── ParseToken ──────────────────────────────────────────────────────────────

func TestAuthService_ParseToken_Rejects(t *testing.T) {
	f := newAuthFixture(t)

	reset, err := utils.GenerateJWTToken(testAppConfig.TokenIssuer, "alice-1", time.Minute, testAppConfig.TokenSignKey, models.TokenTypeResetPassword)
	require.NoError(t, err)
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testAppConfig.TokenIssuer,
			Subject:   "alice-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		Type: models.TokenTypeAccess,
	}).SignedString([]byte(testAppConfig.TokenSignKey))
	require.NoError(t, err)
	foreign, err := utils.GenerateJWTToken(testAppConfig.TokenIssuer, "alice-1", time.Minute, "other-key", models.TokenTypeAccess)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":     "not.a.jwt",
		"reset token": reset.String(),
		"expired":     expired,
		"foreign key": foreign.String(),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.ParseToken(context.Background(), token)
			assert.ErrorIs(t, err, ErrUnauthorized)
			assert.EqualError(t, err, "Invalid or expired token")
		})
	}
}

// ── Password reset ──────────────────────────────────────────────────────────

func TestAuthService_PasswordResetFlow(t *testing.T) {
	f := newAuthFixture(t)
	alice := hashedUser(t, "secret123")
	alice.Password = ""

	var sent mailer.PasswordReset
	f.users.EXPECT().FindOne(gomock.Any(), gomock.Any()).Return(alice, nil).AnyTimes()
	f.sender.EXPECT().SendPasswordReset(gomock.Any(), "alice@x.com", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, data mailer.PasswordReset) error {
			sent = data
			return nil
		})

	require.NoError(t, f.svc.RequestPasswordReset(context.Background(), "alice@x.com", "Mozilla/5.0"))

	assert.Equal(t, "alice123", sent.Username)
	assert.Equal(t, "Mozilla/5.0", sent.UserAgent)
	assert.Equal(t, 10*time.Minute, sent.ExpiresIn)

	link, err := url.Parse(sent.ActionURL)
	require.NoError(t, err)
	assert.Equal(t, "intra.example.com", link.Host)
	assert.Equal(t, "/reset-password", link.Path)
	token := link.Query().Get("token")
	require.NotEmpty(t, token)

	// a reset token is not an access token
	_, err = f.svc.ParseToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	f.users.EXPECT().FindByID(gomock.Any(), "alice-1").Return(alice, nil)
	f.users.EXPECT().UpdateByID(gomock.Any(), "alice-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, values map[string]any) (int64, error) {
			assert.True(t, utils.IsPasswordValid("brandnew1", values[store.UserColumnPassword].(string)))
			return 1, nil
		})

	require.NoError(t, f.svc.ResetPassword(context.Background(), token, "brandnew1"))
}

func TestAuthService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.users.EXPECT().FindOne(gomock.Any(), gomock.Any()).Return(nil, nil)

	err := f.svc.RequestPasswordReset(context.Background(), "ghost@x.com", "curl")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "No user found with the email ghost@x.com")
}

func TestAuthService_RequestPasswordReset_MailFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.users.EXPECT().FindOne(gomock.Any(), gomock.Any()).Return(&models.User{ID: "alice-1", Email: "alice@x.com"}, nil)
	f.sender.EXPECT().SendPasswordReset(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("smtp: 421"))

	err := f.svc.RequestPasswordReset(context.Background(), "alice@x.com", "curl")
	assert.ErrorContains(t, err, "smtp: 421")
}

func TestAuthService_ResetPassword_InvalidToken(t *testing.T) {
	f := newAuthFixture(t)

	access, err := utils.GenerateJWTToken(testAppConfig.TokenIssuer, "alice-1", time.Minute, testAppConfig.TokenSignKey, models.TokenTypeAccess)
	require.NoError(t, err)

	for _, token := range []string{"garbage", access.String()} {
		err := f.svc.ResetPassword(context.Background(), token, "brandnew1")
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.EqualError(t, err, "Invalid password reset token")
	}
}

func TestAuthService_ResetPassword_DeletedAccount(t *testing.T) {
	f := newAuthFixture(t)

	reset, err := utils.GenerateJWTToken(testAppConfig.TokenIssuer, "alice-1", time.Minute, testAppConfig.TokenSignKey, models.TokenTypeResetPassword)
	require.NoError(t, err)
	f.users.EXPECT().FindOne(gomock.Any(), gomock.Any()).Return(nil, nil)

	err = f.svc.ResetPassword(context.Background(), reset.String(), "brandnew1")
	assert.ErrorIs(t, err, ErrNotFound)
}
