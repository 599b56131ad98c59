// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every [Error] wraps exactly one of them; the HTTP layer
// maps them onto status codes with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
)

var (
	ErrVersionIsNotSpecified = errors.New("application version is not specified")
	ErrTokenCreationFailed   = errors.New("token creation failed")
	ErrFileNotPersisted      = errors.New("error processing file")
	ErrUnsupportedUpload     = errors.New("unsupported upload type")
)

// Codes of structured error records written for failures that are logged
// and swallowed.
const (
	CodeFileNotFound            = "FILE_NOT_FOUND_ERROR"
	CodeFileDuplicationNotFound = "FILE_DUPLICATION_NOT_FOUND_ERROR"
	CodeFileDuplication         = "FILE_DUPLICATION_ERROR"
	CodeFileDelete              = "FILE_DELETE_ERROR"
	CodeFirstUser               = "FIRST_USER_ERROR"
	CodeUserCacheSet            = "USER_CACHE_SET_ERROR"
	CodeUserCacheDelete         = "USER_CACHE_DELETE_ERROR"
	CodePasswordResetMail       = "PASSWORD_RESET_MAIL_ERROR"
)

// Error is a business error with a client-facing message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns an [ErrNotFound] error with a client-facing message.
func NotFound(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

// Forbidden returns an [ErrForbidden] error with a client-facing message.
func Forbidden(format string, args ...any) error {
	return newError(ErrForbidden, format, args...)
}

// Unauthorized returns an [ErrUnauthorized] error with a client-facing message.
func Unauthorized(format string, args ...any) error {
	return newError(ErrUnauthorized, format, args...)
}

// Validation returns an [ErrValidation] error carrying the validator message.
func Validation(err error) error {
	return &Error{Kind: fmt.Errorf("%w: %w", ErrValidation, err), Message: err.Error()}
}
