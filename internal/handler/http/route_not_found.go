// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-intra-api/internal/service"
)

// routeNotFound answers unknown paths. It is also registered as the
// MethodNotAllowed handler, so a known path requested with an unsupported
// method is reported as missing instead of 405.
func (h *Handler) routeNotFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, service.NotFound("Cannot %s %s", r.Method, r.URL.Path))
}
