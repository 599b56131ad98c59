// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-intra-api/internal/logger"
	"github.com/MKhiriev/go-intra-api/internal/service"
	"github.com/stretchr/testify/assert"
)

// ── GET /version ────────────────────────────────────────────────────────────

func TestGetServerVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{name: "semantic version", version: "1.4.2"},
		{name: "commit hash", version: "a1b2c3d"},
		{name: "empty", version: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Handler{
				services: &service.Services{AppInfoService: &mockAppInfoService{version: tt.version}},
				logger:   logger.Nop(),
			}

			rr := httptest.NewRecorder()
			h.getServerVersion(rr, httptest.NewRequest(http.MethodGet, "/version", nil))

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "text/plain", rr.Header().Get("Content-Type"))
			assert.Equal(t, tt.version, rr.Body.String())
		})
	}
}
