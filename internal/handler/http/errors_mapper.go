// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/MKhiriev/go-intra-api/internal/logger"
	"github.com/MKhiriev/go-intra-api/internal/service"
	"github.com/MKhiriev/go-intra-api/internal/store"
	"github.com/MKhiriev/go-intra-api/internal/utils"
	"github.com/MKhiriev/go-intra-api/models"
)

// Error codes of [models.ErrorResponse].
const (
	codeHTTPException       = "HttpException"
	codeQueryFailed         = "QueryFailedError"
	codeInternalServerError = "InternalServerError"
)

const internalServerErrorMessage = "Internal server error"

var errorStatusMap = map[error]int{
	service.ErrValidation:        http.StatusBadRequest,
	service.ErrUnsupportedUpload: http.StatusBadRequest,
	service.ErrUnauthorized:      http.StatusUnauthorized,
	service.ErrForbidden:         http.StatusForbidden,
	service.ErrNotFound:          http.StatusNotFound,

	ErrInvalidJSON:                http.StatusBadRequest,
	ErrInvalidGzip:                http.StatusBadRequest,
	ErrInvalidMultipart:           http.StatusBadRequest,
	ErrFileTooLarge:               http.StatusBadRequest,
	ErrEmptyAuthorizationHeader:   http.StatusUnauthorized,
	ErrInvalidAuthorizationHeader: http.StatusUnauthorized,
	ErrRouteForbidden:             http.StatusForbidden,
	ErrTooManyRequests:            http.StatusTooManyRequests,

	store.ErrNotFound:            http.StatusNotFound,
	store.ErrConstraintViolation: http.StatusUnprocessableEntity,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// errorResponse translates err into the uniform error body.
func errorResponse(r *http.Request, err error) models.ErrorResponse {
	resp := models.ErrorResponse{
		StatusCode: statusFromError(err),
		Message:    err.Error(),
		Code:       codeHTTPException,
		Timestamp:  time.Now().UTC(),
		Path:       r.URL.RequestURI(),
		Method:     r.Method,
	}

	var serviceErr *service.Error
	if errors.As(err, &serviceErr) {
		resp.Message = serviceErr.Message
	}

	switch {
	case errors.Is(err, store.ErrConstraintViolation):
		resp.Code = codeQueryFailed
		if state := store.SQLState(err); state != "" {
			resp.Code = state
		}
	case resp.StatusCode == http.StatusInternalServerError:
		resp.Code = codeInternalServerError
		resp.Message = internalServerErrorMessage
	}

	return resp
}

// writeError answers the request with the error body of err. Server errors
// are always logged, others only with Options.LogAllError.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse(r, err)

	if resp.StatusCode >= http.StatusInternalServerError || h.options.LogAllError {
		logger.FromRequest(r).ErrorRecord(err, resp.Code).
			Int("status", resp.StatusCode).
			Str("path", resp.Path).
			Str("method", resp.Method).
			Msgf("%s %s", resp.Method, resp.Path)
	}

	_, _ = utils.WriteJSON(w, resp, resp.StatusCode)
}
