// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/MKhiriev/go-intra-api/internal/logger"
	"github.com/MKhiriev/go-intra-api/internal/service"
	"github.com/gabriel-vasile/mimetype"
)

// uploadField is the multipart field carrying the file.
const uploadField = "file"

const octetStream = "application/octet-stream"

// receiveFile spools the "file" part of a multipart request into the
// upload directory. It returns a nil upload when the request carries no
// file. cleanup removes the spool file unless the storage already moved it.
func (h *Handler) receiveFile(w http.ResponseWriter, r *http.Request) (upload service.Upload, cleanup func(), err error) {
	cleanup = func() {}

	if h.options.Files.MaxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.options.Files.MaxUploadSize)
	}

	reader, err := r.MultipartReader()
	if err != nil {
		return nil, cleanup, fmt.Errorf("%w: %w", ErrInvalidMultipart, err)
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, cleanup, nil
		}
		if err != nil {
			return nil, cleanup, uploadError(err)
		}

		if part.FormName() != uploadField || part.FileName() == "" {
			_ = part.Close()
			continue
		}

		return h.spool(r, part.FileName(), part.Header.Get("Content-Type"), part)
	}
}

func (h *Handler) spool(r *http.Request, filename, declaredType string, content io.Reader) (service.Upload, func(), error) {
	log := logger.FromRequest(r)
	noop := func() {}

	tmp, err := os.CreateTemp(h.options.Files.TmpDir, "upload-*")
	if err != nil {
		return nil, noop, fmt.Errorf("creating upload spool file: %w", err)
	}
	cleanup := func() {
		if err := os.Remove(tmp.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", tmp.Name()).Msg("upload spool file wasn't removed")
		}
	}

	size, err := io.Copy(tmp, content)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		cleanup()
		return nil, noop, uploadError(err)
	}

	mimeType := declaredType
	if detected, err := mimetype.DetectFile(tmp.Name()); err == nil && (detected.String() != octetStream || mimeType == "") {
		mimeType = detected.String()
	}

	return service.TempFileUpload{
		Path:     tmp.Name(),
		Filename: filepath.Base(filename),
		MimeType: mimeType,
		Size:     size,
	}, cleanup, nil
}

func uploadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return ErrFileTooLarge
	}
	return fmt.Errorf("%w: %w", ErrInvalidMultipart, err)
}
