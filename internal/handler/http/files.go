// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-intra-api/internal/logger"
	"github.com/MKhiriev/go-intra-api/internal/service"
	"github.com/MKhiriev/go-intra-api/internal/utils"
	"github.com/MKhiriev/go-intra-api/models"
	"github.com/go-chi/chi/v5"
)

var errFileRequired = errors.New("file is required")

func (h *Handler) downloadFile(w http.ResponseWriter, r *http.Request) {
	stream, err := h.services.FilesService.DownloadFile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeStream(w, r, stream)
}

func (h *Handler) showFile(w http.ResponseWriter, r *http.Request) {
	stream, err := h.services.FilesService.ShowFile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeStream(w, r, stream)
}

// writeStream copies the blob of stream to the client and closes it.
func (h *Handler) writeStream(w http.ResponseWriter, r *http.Request, stream *models.FileStream) {
	defer stream.Content.Close()

	header := w.Header()
	if stream.Attachment {
		header.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": stream.File.Filename}))
	}
	contentType := stream.File.MimeType
	if contentType == "" {
		contentType = octetStream
	}
	header.Set("Content-Type", contentType)
	if stream.File.Size > 0 {
		header.Set("Content-Length", strconv.FormatInt(stream.File.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, stream.Content); err != nil {
		logger.FromRequest(r).Warn().Err(err).Str("file_id", stream.File.ID).Msg("file stream interrupted")
	}
}

func (h *Handler) createFile(w http.ResponseWriter, r *http.Request) {
	upload, cleanup, err := h.receiveFile(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer cleanup()

	if upload == nil {
		h.writeError(w, r, service.Validation(errFileRequired))
		return
	}

	file, err := h.services.FilesService.CreateFile(r.Context(), upload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	_, _ = utils.WriteJSON(w, file, http.StatusCreated)
}

func (h *Handler) listFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.services.FilesService.FindAll(r.Context(), listQuery(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	_, _ = utils.WriteJSON(w, files, http.StatusOK)
}

func (h *Handler) getFile(w http.ResponseWriter, r *http.Request) {
	file, err := h.services.FilesService.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	_, _ = utils.WriteJSON(w, file, http.StatusOK)
}

func (h *Handler) deleteFile(w http.ResponseWriter, r *http.Request) {
	if err := h.services.FilesService.RemoveByID(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// duplicateFile copies a file. The copy failing is reported as a missing
// source; the cause is logged by the files service.
func (h *Handler) duplicateFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	file := h.services.FilesService.DuplicateFile(r.Context(), id)
	if file == nil {
		h.writeError(w, r, service.NotFound("File with ID %s could not be duplicated", id))
		return
	}
	_, _ = utils.WriteJSON(w, file, http.StatusCreated)
}
