// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/MKhiriev/go-intra-api/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.RealIP)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// file streams are never compressed
	router.Group(func(r chi.Router) {
		r.Get("/files/download/{id}", h.downloadFile)
		r.Get("/files/show/{id}", h.showFile)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.withGZip)
		if timeout := h.options.Server.RequestTimeout; timeout > 0 {
			r.Use(middleware.Timeout(timeout))
		}

		r.Get("/health", h.health)
		r.Get("/version", h.getServerVersion)

		// routes without authorization
		r.Group(func(r chi.Router) {
			r.Use(h.withRateLimit(newIPRateLimiter(h.options.Server.AuthRateLimit, h.options.Server.AuthRateBurst)))

			r.Post("/auth/register", h.register)
			r.Post("/auth/login", h.login)
			r.Post("/auth/forgot-password", h.forgotPassword)
			r.Post("/auth/reset-password", h.resetPassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.auth)

			r.Get("/users/me", h.me)
			r.Put("/users/me", h.updateMe)
			r.Delete("/users/me", h.deleteMe)
			r.Put("/users/me/avatar", h.setAvatar)
			r.Delete("/users/me/avatar", h.removeAvatar)

			r.Group(func(r chi.Router) {
				r.Use(h.requireRole(models.RoleAdmin))

				r.Get("/users", h.listUsers)
				r.Post("/users", h.createUser)
				r.Get("/users/{id}", h.getUser)
				r.Put("/users/{id}", h.updateUser)
				r.Delete("/users/{id}", h.deleteUser)

				r.Get("/files", h.listFiles)
				r.Post("/files", h.createFile)
				r.Get("/files/{id}", h.getFile)
				r.Delete("/files/{id}", h.deleteFile)
				r.Post("/files/{id}/duplicate", h.duplicateFile)
			})
		})
	})

	router.NotFound(h.routeNotFound)
	router.MethodNotAllowed(h.routeNotFound)

	return router
}
