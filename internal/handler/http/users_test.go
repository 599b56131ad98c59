// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/MKhiriev/go-intra-api/internal/service"
	"github.com/MKhiriev/go-intra-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// ── Self routes ─────────────────────────────────────────────────────────────

func TestMe(t *testing.T) {
	s := newTestServer(t)

	var asked string
	s.users.findByID = func(id string) (*models.User, error) {
		asked = id
		return testAlice, nil
	}

	rr := s.do(httptest.NewRequest(http.MethodGet, "/users/me", nil), "alice-token")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "alice-1", asked)
	var got models.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "alice123", got.Username)
}

func TestUpdateMe(t *testing.T) {
	s := newTestServer(t)

	var gotActor *models.User
	var gotReq models.UpdateUserRequest
	s.users.updateSelf = func(actor *models.User, req models.UpdateUserRequest) (*models.User, error) {
		gotActor, gotReq = actor, req
		return &models.User{ID: actor.ID, Username: *req.Username}, nil
	}

	rr := s.do(jsonRequest(http.MethodPut, "/users/me", `{"username":"alice4567","role":"Admin"}`), "alice-token")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Same(t, testAlice, gotActor)
	assert.Equal(t, models.UpdateUserRequest{Username: ptr("alice4567")}, gotReq)

	rr = s.do(jsonRequest(http.MethodPut, "/users/me", `not json`), "alice-token")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeleteMe(t *testing.T) {
	s := newTestServer(t)

	var gotID string
	s.users.delete = func(id string, actor *models.User) error {
		gotID = id
		assert.Same(t, testAlice, actor)
		return nil
	}

	rr := s.do(httptest.NewRequest(http.MethodDelete, "/users/me", nil), "alice-token")

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "alice-1", gotID)
}

func multipartRequest(t *testing.T, method, target, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("note", "ignored"))
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestSetAvatar(t *testing.T) {
	s := newTestServer(t)
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

	var spooled service.TempFileUpload
	s.users.setAvatar = func(actor *models.User, upload service.Upload) (*models.User, error) {
		require.IsType(t, service.TempFileUpload{}, upload)
		spooled = upload.(service.TempFileUpload)

		data, err := os.ReadFile(spooled.Path)
		require.NoError(t, err)
		assert.Equal(t, png, data)

		return &models.User{ID: actor.ID, AvatarID: ptr("f-1")}, nil
	}

	rr := s.do(multipartRequest(t, http.MethodPut, "/users/me/avatar", "file", "me.png", png), "alice-token")

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "me.png", spooled.Filename)
	assert.Equal(t, "image/png", spooled.MimeType)
	assert.EqualValues(t, len(png), spooled.Size)

	_, err := os.Stat(spooled.Path)
	assert.ErrorIs(t, err, os.ErrNotExist, "spool file is removed after the request")
}

func TestSetAvatar_NoFile(t *testing.T) {
	s := newTestServer(t)

	var got service.Upload = service.MemoryUpload{}
	s.users.setAvatar = func(_ *models.User, upload service.Upload) (*models.User, error) {
		got = upload
		return nil, service.Validation(errFileRequired)
	}

	rr := s.do(multipartRequest(t, http.MethodPut, "/users/me/avatar", "", "", nil), "alice-token")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Nil(t, got)
	assert.Equal(t, "file is required", decodeError(t, rr).Message)
}

func TestRemoveAvatar(t *testing.T) {
	s := newTestServer(t)
	s.users.removeAvatar = func(actor *models.User) (*models.User, error) {
		return &models.User{ID: actor.ID}, nil
	}

	rr := s.do(httptest.NewRequest(http.MethodDelete, "/users/me/avatar", nil), "alice-token")

	require.Equal(t, http.StatusOK, rr.Code)
	var got models.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Nil(t, got.AvatarID)
}

// ── Admin routes ────────────────────────────────────────────────────────────

func TestListUsers_Paging(t *testing.T) {
	tests := []struct {
		query string
		want  models.ListQuery
	}{
		{query: "", want: models.ListQuery{}},
		{query: "?limit=10&offset=20", want: models.ListQuery{Limit: 10, Offset: 20}},
		{query: "?limit=5000", want: models.ListQuery{Limit: maxPageSize}},
		{query: "?limit=-1&offset=abc", want: models.ListQuery{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			s := newTestServer(t)

			var got models.ListQuery
			s.users.findAll = func(q models.ListQuery) ([]models.User, error) {
				got = q
				return []models.User{*testAdmin, *testAlice}, nil
			}

			rr := s.do(httptest.NewRequest(http.MethodGet, "/users"+tt.query, nil), "admin-token")

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.want, got)
			var users []models.User
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &users))
			assert.Len(t, users, 2)
		})
	}
}

func TestGetUser(t *testing.T) {
	s := newTestServer(t)
	s.users.findByID = func(id string) (*models.User, error) {
		if id == "alice-1" {
			return testAlice, nil
		}
		return nil, service.NotFound("User with ID %s not found", id)
	}

	rr := s.do(httptest.NewRequest(http.MethodGet, "/users/alice-1", nil), "admin-token")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(httptest.NewRequest(http.MethodGet, "/users/ghost", nil), "admin-token")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "User with ID ghost not found", decodeError(t, rr).Message)
}

func TestCreateUser(t *testing.T) {
	s := newTestServer(t)

	var got models.CreateUserRequest
	s.users.create = func(req models.CreateUserRequest) (*models.User, error) {
		got = req
		return &models.User{ID: "u-9", Username: req.Username, Role: req.Role, Group: req.Group}, nil
	}

	rr := s.do(jsonRequest(http.MethodPost, "/users", `{"username":"charlie1","email":"c@x.com","password":"secret123","role":"Admin","group":"ops"}`), "admin-token")

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, models.RoleAdmin, got.Role)
	assert.Equal(t, ptr("ops"), got.Group)
}

func TestUpdateUser(t *testing.T) {
	s := newTestServer(t)

	var gotID string
	var gotReq models.AdminUpdateUserRequest
	s.users.updateAdmin = func(id string, actor *models.User, req models.AdminUpdateUserRequest) (*models.User, error) {
		gotID, gotReq = id, req
		assert.Same(t, testAdmin, actor)
		return &models.User{ID: id}, nil
	}

	rr := s.do(jsonRequest(http.MethodPut, "/users/alice-1", `{"role":"Admin","group":"sales"}`), "admin-token")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "alice-1", gotID)
	assert.Equal(t, ptr(models.RoleAdmin), gotReq.Role)
	assert.Equal(t, ptr("sales"), gotReq.Group)
	assert.Nil(t, gotReq.Password)
}

func TestDeleteUser(t *testing.T) {
	s := newTestServer(t)
	s.users.delete = func(id string, _ *models.User) error {
		if id == "ghost" {
			return service.NotFound("User with ID %s not found", id)
		}
		return nil
	}

	rr := s.do(httptest.NewRequest(http.MethodDelete, "/users/alice-1", nil), "admin-token")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = s.do(httptest.NewRequest(http.MethodDelete, "/users/ghost", nil), "admin-token")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
