// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"io"
	"time"
)

const (
	downloadLinkPrefix = "/files/download/"
	showLinkPrefix     = "/files/show/"
)

// File is a row of the "files" table: metadata of a stored blob.
//
// Path is the storage key of the blob and is never exposed over the API;
// clients address files through DownloadLink and ShowLink instead.
type File struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	Path         string    `json:"-"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	DownloadLink string    `json:"download_link"`
	ShowLink     string    `json:"show_link"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the File model.
func (f File) TableName() string {
	return "files"
}

// FillLinks populates DownloadLink and ShowLink from the file ID.
func (f *File) FillLinks() {
	if f.ID == "" {
		return
	}
	f.DownloadLink = downloadLinkPrefix + f.ID
	f.ShowLink = showLinkPrefix + f.ID
}

// FileDeleted is a tombstone row written by the files AFTER DELETE trigger.
// The sweep removes the blob at Path and then the tombstone itself.
type FileDeleted struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the FileDeleted model.
func (f FileDeleted) TableName() string {
	return "file_deleted"
}

// FileStream is an opened blob together with its metadata.
// The caller owns Content and must close it.
type FileStream struct {
	File    File
	Content io.ReadCloser
	// Attachment is true for downloads and false for inline display.
	Attachment bool
}
