// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-intra-api/internal/utils"
	"github.com/MKhiriev/go-intra-api/models"
	"github.com/go-chi/chi/v5"
)

const maxPageSize = 100

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.services.UsersService.FindByID(r.Context(), actor.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	_, _ = utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req models.UpdateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.services.UsersService.UpdateSelf(r.Context(), actor, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	_, _ = utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) deleteMe(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err = h.services.UsersService.Delete(r.Context(), actor.ID, actor); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setAvatar(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	upload, cleanup, err := h.receiveFile(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer cleanup()

	user, err := h.services.UsersService.SetAvatar(r.Context(), actor, upload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	_, _ = utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) removeAvatar(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.services.UsersService.RemoveAvatar(r.Context(), actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	_, _ = utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.services.UsersService.FindAll(r.Context(), listQuery(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	_, _ = utils.WriteJSON(w, users, http.StatusOK)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.services.UsersService.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	_, _ = utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.services.UsersService.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	_, _ = utils.WriteJSON(w, user, http.StatusCreated)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req models.AdminUpdateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.services.UsersService.UpdateAdmin(r.Context(), chi.URLParam(r, "id"), actor, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	_, _ = utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err = h.services.UsersService.Delete(r.Context(), chi.URLParam(r, "id"), actor); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listQuery reads the limit and offset query parameters. Invalid values
// are ignored and limit is capped at maxPageSize.
func listQuery(r *http.Request) models.ListQuery {
	var q models.ListQuery

	if limit, err := strconv.ParseUint(r.URL.Query().Get("limit"), 10, 64); err == nil {
		q.Limit = min(limit, maxPageSize)
	}
	if offset, err := strconv.ParseUint(r.URL.Query().Get("offset"), 10, 64); err == nil {
		q.Offset = offset
	}
	return q
}
