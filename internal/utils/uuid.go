// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UUIDGenerator produces time-ordered identifiers.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a UUIDv7, falling back to a random UUIDv4.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

// FileName returns a fresh storage key that keeps the lower-cased extension
// of originalName, e.g. "0190c6e2-....png".
func (g *UUIDGenerator) FileName(originalName string) string {
	return g.Generate() + strings.ToLower(filepath.Ext(originalName))
}
