// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"net/http"
	"time"

	"github.com/MKhiriev/go-intra-api/internal/logger"
	"github.com/MKhiriev/go-intra-api/internal/utils"
	"github.com/MKhiriev/go-intra-api/models"
)

const healthTimeout = 2 * time.Second

// health pings the database. It answers 503 when the database is down.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		logger.FromRequest(r).Err(err).Msg("database ping failed")
		_, _ = utils.WriteJSON(w, models.HealthResponse{Status: "error", Database: "down"}, http.StatusServiceUnavailable)
		return
	}

	_, _ = utils.WriteJSON(w, models.HealthResponse{Status: "ok", Database: "up"}, http.StatusOK)
}
