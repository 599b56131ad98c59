// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-intra-api/internal/config"
	"github.com/MKhiriev/go-intra-api/internal/logger"
	"github.com/MKhiriev/go-intra-api/internal/service"
	"github.com/MKhiriev/go-intra-api/models"
	"github.com/stretchr/testify/require"
)

// Function-field fakes of the service interfaces. Unset functions return
// zero values.

type fakeAuthService struct {
	register     func(models.RegisterRequest) (models.AuthResponse, error)
	login        func(models.LoginRequest) (models.AuthResponse, error)
	requestReset func(email, userAgent string) error
	reset        func(token, password string) error
	parseToken   func(token string) (models.Token, error)
}

func (f *fakeAuthService) Register(_ context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	if f.register == nil {
		return models.AuthResponse{}, nil
	}
	return f.register(req)
}

func (f *fakeAuthService) Login(_ context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	if f.login == nil {
		return models.AuthResponse{}, nil
	}
	return f.login(req)
}

func (f *fakeAuthService) RequestPasswordReset(_ context.Context, email, userAgent string) error {
	if f.requestReset == nil {
		return nil
	}
	return f.requestReset(email, userAgent)
}

func (f *fakeAuthService) ResetPassword(_ context.Context, token, newPassword string) error {
	if f.reset == nil {
		return nil
	}
	return f.reset(token, newPassword)
}

func (f *fakeAuthService) ParseToken(_ context.Context, token string) (models.Token, error) {
	if f.parseToken == nil {
		return models.Token{}, service.Unauthorized("Invalid or expired token")
	}
	return f.parseToken(token)
}

type fakeUsersService struct {
	findAll      func(models.ListQuery) ([]models.User, error)
	findByID     func(id string) (*models.User, error)
	validateUser func(id string) (*models.User, error)
	create       func(models.CreateUserRequest) (*models.User, error)
	updateSelf   func(actor *models.User, req models.UpdateUserRequest) (*models.User, error)
	updateAdmin  func(id string, actor *models.User, req models.AdminUpdateUserRequest) (*models.User, error)
	delete       func(id string, actor *models.User) error
	setAvatar    func(actor *models.User, upload service.Upload) (*models.User, error)
	removeAvatar func(actor *models.User) (*models.User, error)
}

func (f *fakeUsersService) Init(context.Context) error { return nil }

func (f *fakeUsersService) Bootstrap(context.Context, models.FirstUser) {}

func (f *fakeUsersService) FindAll(_ context.Context, q models.ListQuery) ([]models.User, error) {
	if f.findAll == nil {
		return nil, nil
	}
	return f.findAll(q)
}

func (f *fakeUsersService) FindByID(_ context.Context, id string) (*models.User, error) {
	if f.findByID == nil {
		return nil, nil
	}
	return f.findByID(id)
}

func (f *fakeUsersService) FindByEmail(context.Context, string) (*models.User, error) {
	return nil, nil
}

func (f *fakeUsersService) FindByUsernameOrEmailWithPassword(context.Context, string) (*models.User, error) {
	return nil, nil
}

func (f *fakeUsersService) ValidateUser(_ context.Context, id string) (*models.User, error) {
	if f.validateUser == nil {
		return nil, nil
	}
	return f.validateUser(id)
}

func (f *fakeUsersService) AuthorizeAccess(context.Context, string, *models.User) (*models.User, error) {
	return nil, nil
}

func (f *fakeUsersService) Create(_ context.Context, req models.CreateUserRequest) (*models.User, error) {
	if f.create == nil {
		return nil, nil
	}
	return f.create(req)
}

func (f *fakeUsersService) UpdateSelf(_ context.Context, actor *models.User, req models.UpdateUserRequest) (*models.User, error) {
	if f.updateSelf == nil {
		return nil, nil
	}
	return f.updateSelf(actor, req)
}

func (f *fakeUsersService) UpdateAdmin(_ context.Context, id string, actor *models.User, req models.AdminUpdateUserRequest) (*models.User, error) {
	if f.updateAdmin == nil {
		return nil, nil
	}
	return f.updateAdmin(id, actor, req)
}

func (f *fakeUsersService) ChangePassword(context.Context, string, string) error { return nil }

func (f *fakeUsersService) Delete(_ context.Context, id string, actor *models.User) error {
	if f.delete == nil {
		return nil
	}
	return f.delete(id, actor)
}

func (f *fakeUsersService) SetAvatar(_ context.Context, actor *models.User, upload service.Upload) (*models.User, error) {
	if f.setAvatar == nil {
		return nil, nil
	}
	return f.setAvatar(actor, upload)
}

func (f *fakeUsersService) RemoveAvatar(_ context.Context, actor *models.User) (*models.User, error) {
	if f.removeAvatar == nil {
		return nil, nil
	}
	return f.removeAvatar(actor)
}

type fakeFilesService struct {
	createFile    func(service.Upload) (*models.File, error)
	findAll       func(models.ListQuery) ([]models.File, error)
	findByID      func(id string) (*models.File, error)
	removeByID    func(id string) error
	download      func(id string) (*models.FileStream, error)
	show          func(id string) (*models.FileStream, error)
	duplicateFile func(id string) *models.File
}

func (f *fakeFilesService) Init(context.Context) error { return nil }

func (f *fakeFilesService) CreateFile(_ context.Context, upload service.Upload) (*models.File, error) {
	if f.createFile == nil {
		return nil, nil
	}
	return f.createFile(upload)
}

func (f *fakeFilesService) FindAll(_ context.Context, q models.ListQuery) ([]models.File, error) {
	if f.findAll == nil {
		return nil, nil
	}
	return f.findAll(q)
}

func (f *fakeFilesService) FindByID(_ context.Context, id string) (*models.File, error) {
	if f.findByID == nil {
		return nil, nil
	}
	return f.findByID(id)
}

func (f *fakeFilesService) RemoveByID(_ context.Context, id string) error {
	if f.removeByID == nil {
		return nil
	}
	return f.removeByID(id)
}

func (f *fakeFilesService) DownloadFile(_ context.Context, id string) (*models.FileStream, error) {
	if f.download == nil {
		return nil, service.NotFound("File not found for item with id: %s", id)
	}
	return f.download(id)
}

func (f *fakeFilesService) ShowFile(_ context.Context, id string) (*models.FileStream, error) {
	if f.show == nil {
		return nil, service.NotFound("File not found for item with id: %s", id)
	}
	return f.show(id)
}

func (f *fakeFilesService) DuplicateFile(_ context.Context, id string) *models.File {
	if f.duplicateFile == nil {
		return nil
	}
	return f.duplicateFile(id)
}

func (f *fakeFilesService) DeleteAllFile(context.Context) error { return nil }

type mockAppInfoService struct {
	version string
}

func (m *mockAppInfoService) GetAppVersion(context.Context) string {
	return m.version
}

type fakePinger struct {
	err error
}

func (f fakePinger) PingContext(context.Context) error {
	return f.err
}

// ── Fixture ─────────────────────────────────────────────────────────────────

var (
	testAdmin = &models.User{ID: "admin-1", Username: "admin123", Email: "admin@x.com", Role: models.RoleAdmin}
	testAlice = &models.User{ID: "alice-1", Username: "alice123", Email: "alice@x.com", Role: models.RoleUser}
)

// testTokens maps bearer tokens accepted by the fake auth service to users.
var testTokens = map[string]*models.User{
	"admin-token": testAdmin,
	"alice-token": testAlice,
}

type testServer struct {
	auth   *fakeAuthService
	users  *fakeUsersService
	files  *fakeFilesService
	router http.Handler
	opts   Options
}

// newTestServer builds the full router over fakes. The auth fake accepts
// the tokens of testTokens.
func newTestServer(t *testing.T, opts ...func(*Options)) *testServer {
	t.Helper()

	options := Options{
		Files:  config.Files{TmpDir: t.TempDir(), MaxUploadSize: 1 << 20},
		Server: config.Server{AuthRateLimit: 0},
	}
	for _, opt := range opts {
		opt(&options)
	}

	s := &testServer{
		auth: &fakeAuthService{
			parseToken: func(token string) (models.Token, error) {
				if user, ok := testTokens[token]; ok {
					return models.Token{UserID: user.ID, Type: models.TokenTypeAccess}, nil
				}
				return models.Token{}, service.Unauthorized("Invalid or expired token")
			},
		},
		users: &fakeUsersService{
			validateUser: func(id string) (*models.User, error) {
				for _, user := range testTokens {
					if user.ID == id {
						return user, nil
					}
				}
				return nil, nil
			},
		},
		files: &fakeFilesService{},
		opts:  options,
	}

	h := NewHandler(&service.Services{
		AuthService:    s.auth,
		UsersService:   s.users,
		FilesService:   s.files,
		AppInfoService: &mockAppInfoService{version: "1.2.3"},
	}, fakePinger{}, options, logger.Nop())
	s.router = h.Init()

	return s
}

func (s *testServer) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp
}
