// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-intra-api/internal/logger"
	"github.com/MKhiriev/go-intra-api/internal/store"
	"github.com/MKhiriev/go-intra-api/models"
)

// DefaultOrder sorts lists newest first.
var DefaultOrder = []string{"created_at DESC"}

// FileField declares a column of T that references files.id.
//
// Relation is the name callers pass to load the referenced file; Value reads
// the current reference of an entity and Attach stores the loaded file on it.
type FileField[T any] struct {
	Relation string
	Column   string
	Value    func(*T) *string
	Attach   func(*T, *models.File)
}

// FileStore is the part of the files service the CRUD service depends on.
type FileStore interface {
	FindByID(ctx context.Context, id string) (*models.File, error)
	RemoveByID(ctx context.Context, id string) error
}

// CheckFunc inspects the stored entity before it is updated or deleted and
// aborts the operation by returning an error.
type CheckFunc[T any] func(*T) error

// CRUDService implements the generic entity operations on top of a
// [store.Repository], including cleanup of replaced file references.
type CRUDService[T any] struct {
	name       string
	repo       store.Repository[T]
	files      FileStore
	fileFields []FileField[T]
}

// NewCRUDService returns the CRUD service of entity name stored in repo.
// files may be nil when fileFields is empty.
func NewCRUDService[T any](name string, repo store.Repository[T], files FileStore, fileFields ...FileField[T]) *CRUDService[T] {
	return &CRUDService[T]{
		name:       name,
		repo:       repo,
		files:      files,
		fileFields: fileFields,
	}
}

// Init provisions the trigger deleting referenced files together with a row.
func (s *CRUDService[T]) Init(ctx context.Context) error {
	if len(s.fileFields) == 0 {
		return nil
	}

	columns := make([]string, 0, len(s.fileFields))
	for _, field := range s.fileFields {
		columns = append(columns, field.Column)
	}

	if err := s.repo.EnsureFileReferenceTrigger(ctx, models.File{}.TableName(), columns); err != nil {
		return fmt.Errorf("provisioning file reference trigger of %s: %w", s.repo.Table(), err)
	}
	return nil
}

// FindAll lists entities matching q, newest first unless q orders otherwise.
func (s *CRUDService[T]) FindAll(ctx context.Context, q store.Query, relations ...string) ([]T, error) {
	if len(q.OrderBy) == 0 {
		q.OrderBy = DefaultOrder
	}

	items, err := s.repo.Find(ctx, q)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if err = s.loadRelations(ctx, &items[i], relations); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// FindOne returns the first entity matching where, or nil.
func (s *CRUDService[T]) FindOne(ctx context.Context, where sq.Sqlizer, relations ...string) (*T, error) {
	item, err := s.repo.FindOne(ctx, where)
	if err != nil || item == nil {
		return nil, err
	}

	if err = s.loadRelations(ctx, item, relations); err != nil {
		return nil, err
	}
	return item, nil
}

// FindByID returns the entity with id, or nil.
func (s *CRUDService[T]) FindByID(ctx context.Context, id string, relations ...string) (*T, error) {
	return s.FindOne(ctx, sq.Eq{"id": id}, relations...)
}

// Create inserts values and returns the stored entity.
func (s *CRUDService[T]) Create(ctx context.Context, values map[string]any, relations ...string) (*T, error) {
	id, err := s.repo.Insert(ctx, values)
	if err != nil {
		return nil, err
	}

	item, err := s.FindByID(ctx, id, relations...)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, s.notFound(id)
	}
	return item, nil
}

// Update applies values to the entity with id and returns its new state.
//
// A file reference that values clears or points elsewhere has its previous
// file removed. Failing to remove it is logged and does not fail the update.
func (s *CRUDService[T]) Update(ctx context.Context, id string, values map[string]any, check CheckFunc[T], relations ...string) (*T, error) {
	log := logger.FromContext(ctx)

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, s.notFound(id)
	}

	if check != nil {
		if err = check(existing); err != nil {
			return nil, err
		}
	}

	affected, err := s.repo.UpdateByID(ctx, id, values)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, s.notFound(id)
	}

	for _, fileID := range s.replacedFiles(existing, values) {
		if err = s.files.RemoveByID(ctx, fileID); err != nil {
			log.ErrorRecord(err, CodeFileDelete).
				Str("func", "*CRUDService.Update").
				Str("entity", s.name).
				Str("file_id", fileID).
				Msg("replaced file wasn't deleted")
		}
	}

	item, err := s.FindByID(ctx, id, relations...)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, s.notFound(id)
	}
	return item, nil
}

// Delete removes the entity with id. Referenced files are removed by the
// trigger provisioned in Init.
func (s *CRUDService[T]) Delete(ctx context.Context, id string, check CheckFunc[T]) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return s.notFound(id)
	}

	if check != nil {
		if err = check(existing); err != nil {
			return err
		}
	}

	affected, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return s.notFound(id)
	}
	return nil
}

func (s *CRUDService[T]) notFound(id string) error {
	return NotFound("Entity %s with ID %s not found", s.name, id)
}

// replacedFiles returns the ids of files existing references whose columns
// values sets to null or to another file.
func (s *CRUDService[T]) replacedFiles(existing *T, values map[string]any) []string {
	var ids []string
	for _, field := range s.fileFields {
		next, ok := values[field.Column]
		if !ok {
			continue
		}

		current := field.Value(existing)
		if current == nil {
			continue
		}

		nextID, set := referenceValue(next)
		if !set || nextID != *current {
			ids = append(ids, *current)
		}
	}
	return ids
}

func (s *CRUDService[T]) loadRelations(ctx context.Context, item *T, relations []string) error {
	for _, field := range s.fileFields {
		if !slices.Contains(relations, field.Relation) {
			continue
		}

		id := field.Value(item)
		if id == nil {
			continue
		}

		file, err := s.files.FindByID(ctx, *id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		field.Attach(item, file)
	}
	return nil
}

// referenceValue reads a file reference assigned in an update map.
func referenceValue(v any) (string, bool) {
	switch id := v.(type) {
	case string:
		return id, true
	case *string:
		if id == nil {
			return "", false
		}
		return *id, true
	}
	return "", false
}
