// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-intra-api/internal/logger"
	"github.com/MKhiriev/go-intra-api/internal/utils"
	"github.com/MKhiriev/go-intra-api/models"
	"github.com/go-resty/resty/v2"
)

// maxErrorBody bounds how much of a failed stream response is read.
const maxErrorBody = 64 << 10

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP implementation of [ServerAdapter]
// for the server at address. A missing scheme defaults to http.
//
// Returns an error if address is empty or cannot be parsed as a URL.
func NewHTTPServerAdapter(address string, timeout time.Duration, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(address)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	return &httpServerAdapter{
		client: utils.NewHTTPClient(baseURL, timeout),
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Register POSTs to /auth/register and stores the returned token.
func (h *httpServerAdapter) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	return h.authenticate(ctx, "/auth/register", req)
}

// Login POSTs to /auth/login and stores the returned token.
func (h *httpServerAdapter) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	return h.authenticate(ctx, "/auth/login", req)
}

func (h *httpServerAdapter) authenticate(ctx context.Context, path string, body any) (models.AuthResponse, error) {
	var result models.AuthResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&result).
		Post(path)
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("%s request: %w", path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.AuthResponse{}, err
	}
	if result.Token == "" {
		return models.AuthResponse{}, fmt.Errorf("%s: response carries no token", path)
	}

	h.SetToken(result.Token)
	return result, nil
}

func (h *httpServerAdapter) ForgotPassword(ctx context.Context, email string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.ForgotPasswordRequest{Email: email}).
		Post("/auth/forgot-password")
	if err != nil {
		return fmt.Errorf("forgot password request: %w", err)
	}
	return mapHTTPError(resp)
}

func (h *httpServerAdapter) ResetPassword(ctx context.Context, token, password string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.ResetPasswordRequest{Token: token, Password: password}).
		Post("/auth/reset-password")
	if err != nil {
		return fmt.Errorf("reset password request: %w", err)
	}
	return mapHTTPError(resp)
}

// Me GETs /users/me.
func (h *httpServerAdapter) Me(ctx context.Context) (models.User, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	resp, err := req.SetResult(&user).Get("/users/me")
	if err != nil {
		return models.User{}, fmt.Errorf("me request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// UploadAvatar PUTs a multipart "file" part to /users/me/avatar.
func (h *httpServerAdapter) UploadAvatar(ctx context.Context, filename string, content io.Reader) (models.User, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	resp, err := req.
		SetFileReader("file", filename, content).
		SetResult(&user).
		Put("/users/me/avatar")
	if err != nil {
		return models.User{}, fmt.Errorf("upload avatar request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// DownloadFile GETs /files/download/{id} without buffering the body.
func (h *httpServerAdapter) DownloadFile(ctx context.Context, id string, dst io.Writer) (int64, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetPathParam("id", id).
		Get("/files/download/{id}")
	if err != nil {
		return 0, fmt.Errorf("download file request: %w", err)
	}

	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
		return 0, mapStatusError(resp.StatusCode(), payload)
	}

	n, err := io.Copy(dst, body)
	if err != nil {
		return n, fmt.Errorf("download file %s: %w", id, err)
	}

	h.logger.Debug().
		Str("id", id).
		Int64("bytes", n).
		Str("content_disposition", resp.Header().Get("Content-Disposition")).
		Msg("file downloaded")
	return n, nil
}

// Version GETs /version, which answers in plain text.
func (h *httpServerAdapter) Version(ctx context.Context) (string, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/plain").
		Get("/version")
	if err != nil {
		return "", fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.String()), nil
}

// Health GETs /health. The report is decoded for 200 and 503 alike.
func (h *httpServerAdapter) Health(ctx context.Context) (models.HealthResponse, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		Get("/health")
	if err != nil {
		return models.HealthResponse{}, fmt.Errorf("health request: %w", err)
	}

	var report models.HealthResponse
	switch resp.StatusCode() {
	case http.StatusOK, http.StatusServiceUnavailable:
		if err = json.Unmarshal(resp.Body(), &report); err != nil {
			return models.HealthResponse{}, fmt.Errorf("decode health response: %w", err)
		}
	}
	return report, mapHTTPError(resp)
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) (*resty.Request, error) {
	token := h.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	return h.client.R().
		SetContext(ctx).
		SetAuthToken(token), nil
}

// IsAuthError reports whether err means the stored token is missing or
// was rejected by the server.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrUnauthorized)
}
