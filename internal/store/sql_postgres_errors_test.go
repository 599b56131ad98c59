// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/assert"
)

func TestPostgresError(t *testing.T) {
	assert.Equal(t, pgerrcode.UniqueViolation, postgresError(pgError(pgerrcode.UniqueViolation)))
	assert.Equal(t, pgerrcode.UniqueViolation, postgresError(fmt.Errorf("wrapped: %w", pgError(pgerrcode.UniqueViolation))))
	assert.Empty(t, postgresError(errors.New("plain")))
	assert.Empty(t, postgresError(nil))
}

func TestClassifyPostgresError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "unique", err: pgError(pgerrcode.UniqueViolation), want: ErrUniqueViolation},
		{name: "foreign key", err: pgError(pgerrcode.ForeignKeyViolation), want: ErrForeignKeyViolation},
		{name: "check", err: pgError(pgerrcode.CheckViolation), want: ErrConstraintViolation},
		{name: "bad uuid literal", err: pgError(pgerrcode.InvalidTextRepresentation), want: ErrConstraintViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyPostgresError(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, ErrConstraintViolation)
			assert.ErrorIs(t, got, tt.err, "driver error must stay in the chain")
		})
	}

	t.Run("other errors unchanged", func(t *testing.T) {
		plain := errors.New("connection refused")
		assert.Same(t, plain, classifyPostgresError(plain))
		assert.Nil(t, classifyPostgresError(nil))
	})
}
