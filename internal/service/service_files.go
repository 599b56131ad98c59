// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-intra-api/internal/config"
	"github.com/MKhiriev/go-intra-api/internal/logger"
	"github.com/MKhiriev/go-intra-api/internal/store"
	"github.com/MKhiriev/go-intra-api/internal/utils"
	"github.com/MKhiriev/go-intra-api/models"
	"golang.org/x/sync/errgroup"
)

const defaultFilename = "file"

// Upload is the content handed to [FilesService.CreateFile]: a
// [TempFileUpload], a [MemoryUpload] or a [StoredFileUpload].
type Upload interface {
	upload()
}

// TempFileUpload is a file on local disk, e.g. a spooled multipart part.
// It is moved into the blob storage.
type TempFileUpload struct {
	Path     string
	Filename string
	MimeType string
	Size     int64
}

// MemoryUpload is file content held in memory.
type MemoryUpload struct {
	Data     []byte
	Filename string
	MimeType string
}

// StoredFileUpload registers a blob that is already stored under Key.
type StoredFileUpload struct {
	Key      string
	Filename string
	MimeType string
	Size     int64
}

func (TempFileUpload) upload()   {}
func (MemoryUpload) upload()     {}
func (StoredFileUpload) upload() {}

type filesService struct {
	crud       *CRUDService[models.File]
	files      store.FileRepository
	tombstones store.FileDeletedRepository
	blobs      store.BlobStorage
	names      *utils.UUIDGenerator

	sweepConcurrency int

	logger *logger.Logger
}

// NewFilesService returns the files service storing bytes in blobs and
// metadata in files. Deleted files are reclaimed from tombstones.
func NewFilesService(files store.FileRepository, tombstones store.FileDeletedRepository, blobs store.BlobStorage, cfg config.Files, logger *logger.Logger) FilesService {
	concurrency := cfg.SweepConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &filesService{
		crud:             NewCRUDService[models.File]("File", files, nil),
		files:            files,
		tombstones:       tombstones,
		blobs:            blobs,
		names:            utils.NewUUIDGenerator(),
		sweepConcurrency: concurrency,
		logger:           logger,
	}
}

// Init provisions the trigger writing a tombstone for every deleted file.
func (s *filesService) Init(ctx context.Context) error {
	if err := s.files.EnsureTombstoneTrigger(ctx); err != nil {
		return fmt.Errorf("provisioning files tombstone trigger: %w", err)
	}
	return nil
}

func (s *filesService) CreateFile(ctx context.Context, upload Upload) (*models.File, error) {
	log := logger.FromContext(ctx)

	switch u := upload.(type) {
	case nil:
		return nil, nil

	case TempFileUpload:
		key := s.names.FileName(u.Filename)
		if err := s.blobs.Move(ctx, u.Path, key, u.MimeType); err != nil {
			log.Err(err).Str("func", "*filesService.CreateFile").Str("path", u.Path).Msg("error moving uploaded file into storage")
			return nil, fmt.Errorf("%w: %w", ErrFileNotPersisted, err)
		}
		return s.insert(ctx, key, u.Filename, u.MimeType, u.Size, true)

	case MemoryUpload:
		key := s.names.FileName(u.Filename)
		size := int64(len(u.Data))
		if err := s.blobs.Put(ctx, key, bytes.NewReader(u.Data), size, u.MimeType); err != nil {
			log.Err(err).Str("func", "*filesService.CreateFile").Msg("error writing file into storage")
			return nil, fmt.Errorf("%w: %w", ErrFileNotPersisted, err)
		}
		return s.insert(ctx, key, u.Filename, u.MimeType, size, true)

	case StoredFileUpload:
		return s.insert(ctx, u.Key, u.Filename, u.MimeType, u.Size, false)
	}

	return nil, ErrUnsupportedUpload
}

// insert records a stored blob. With cleanup set, the blob is removed when
// the row cannot be written.
func (s *filesService) insert(ctx context.Context, key, filename, mimeType string, size int64, cleanup bool) (*models.File, error) {
	log := logger.FromContext(ctx)

	if filename == "" {
		filename = defaultFilename
	}

	file, err := s.crud.Create(ctx, map[string]any{
		store.FileColumnFilename: filename,
		store.FileColumnPath:     key,
		store.FileColumnMimeType: mimeType,
		store.FileColumnSize:     size,
	})
	if err != nil {
		if cleanup {
			if removeErr := s.blobs.Remove(ctx, key); removeErr != nil {
				log.Err(removeErr).Str("func", "*filesService.insert").Str("path", key).Msg("error removing orphaned blob")
			}
		}
		return nil, err
	}

	file.FillLinks()
	return file, nil
}

func (s *filesService) FindAll(ctx context.Context, q models.ListQuery) ([]models.File, error) {
	files, err := s.crud.FindAll(ctx, store.Query{Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		return nil, err
	}

	for i := range files {
		files[i].FillLinks()
	}
	return files, nil
}

func (s *filesService) FindByID(ctx context.Context, id string) (*models.File, error) {
	file, err := s.crud.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, NotFound("File with ID %s not found", id)
	}

	file.FillLinks()
	return file, nil
}

func (s *filesService) DownloadFile(ctx context.Context, id string) (*models.FileStream, error) {
	return s.stream(ctx, id, true)
}

func (s *filesService) ShowFile(ctx context.Context, id string) (*models.FileStream, error) {
	return s.stream(ctx, id, false)
}

func (s *filesService) stream(ctx context.Context, id string, attachment bool) (*models.FileStream, error) {
	log := logger.FromContext(ctx)

	file, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	content, err := s.blobs.Open(ctx, file.Path)
	if errors.Is(err, store.ErrBlobNotFound) {
		log.ErrorRecord(err, CodeFileNotFound).
			Str("func", "*filesService.stream").
			Msgf("File not found for item with id: %s, path: %s.", id, file.Path)
		return nil, NotFound("File not found for item with id: %s", id)
	}
	if err != nil {
		return nil, err
	}

	return &models.FileStream{File: *file, Content: content, Attachment: attachment}, nil
}

func (s *filesService) DuplicateFile(ctx context.Context, id string) *models.File {
	log := logger.FromContext(ctx)

	source, err := s.files.FindByID(ctx, id)
	if err != nil {
		log.ErrorRecord(err, CodeFileDuplication).
			Str("func", "*filesService.DuplicateFile").
			Msgf("Error duplicating file for item with id: %s. Skipping file duplication.", id)
		return nil
	}
	if source == nil {
		log.ErrorRecord(ErrNotFound, CodeFileDuplicationNotFound).
			Str("func", "*filesService.DuplicateFile").
			Msgf("File not found for item with id: %s. Skipping file duplication.", id)
		return nil
	}

	key := s.names.FileName(source.Filename)
	if err = s.blobs.Copy(ctx, source.Path, key); err != nil {
		log.ErrorRecord(err, CodeFileDuplication).
			Str("func", "*filesService.DuplicateFile").
			Msgf("Error duplicating file for item with id: %s. Skipping file duplication.", id)
		return nil
	}

	file, err := s.insert(ctx, key, source.Filename, source.MimeType, source.Size, true)
	if err != nil {
		log.ErrorRecord(err, CodeFileDuplication).
			Str("func", "*filesService.DuplicateFile").
			Msgf("Error duplicating file for item with id: %s. Skipping file duplication.", id)
		return nil
	}
	return file
}

// RemoveByID deletes the row of a file. Its blob is removed by the next sweep.
func (s *filesService) RemoveByID(ctx context.Context, id string) error {
	affected, err := s.files.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return NotFound("File with ID %s not found", id)
	}
	return nil
}

// DeleteAllFile removes the blob of every tombstone and then the tombstone.
// A tombstone whose blob is already gone is cleared too; one whose blob
// cannot be removed is kept for the next run.
func (s *filesService) DeleteAllFile(ctx context.Context) error {
	log := logger.FromContext(ctx)

	tombstones, err := s.tombstones.Find(ctx, store.Query{})
	if err != nil {
		log.Err(err).Str("func", "*filesService.DeleteAllFile").Msg("error listing deleted files")
		return err
	}

	var g errgroup.Group
	g.SetLimit(s.sweepConcurrency)

	for _, tombstone := range tombstones {
		g.Go(func() error {
			s.reclaim(ctx, tombstone)
			return nil
		})
	}

	if err = g.Wait(); err != nil {
		return err
	}

	log.Info().Str("func", "*filesService.DeleteAllFile").Int("tombstones", len(tombstones)).Msg("files sweep finished")
	return nil
}

func (s *filesService) reclaim(ctx context.Context, tombstone models.FileDeleted) {
	log := logger.FromContext(ctx)

	err := s.blobs.Remove(ctx, tombstone.Path)
	if err != nil && !errors.Is(err, store.ErrBlobNotFound) {
		log.ErrorRecord(err, CodeFileDelete).
			Str("func", "*filesService.reclaim").
			Msgf("%s wasn't deleted", tombstone.Path)
		return
	}

	if _, err = s.tombstones.DeleteByID(ctx, tombstone.ID); err != nil {
		log.ErrorRecord(err, CodeFileDelete).
			Str("func", "*filesService.reclaim").
			Msgf("tombstone of %s wasn't deleted", tombstone.Path)
	}
}
