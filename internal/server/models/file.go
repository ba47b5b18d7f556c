// Package models defines server-side data models persisted in the database.
package models

import "time"

// File describes a stored file. Metadata lives in the files table; the
// bytes live in a content store under StorageKey.
type File struct {
	ID int64
	// Owner is the username the file belongs to.
	Owner    string
	Filename string
	// ContentType is the MIME type given at upload.
	ContentType string
	Size        int64
	// StorageKey addresses the bytes in the content store.
	StorageKey string
	// Content is only populated by downloads.
	Content []byte

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FileInfo is the list projection of a File.
type FileInfo struct {
	Filename string
	Size     int64
}

// FileKey selects exactly one file of one owner. Every single-file
// repository method takes a FileKey, never a bare filename.
type FileKey struct {
	Owner    string
	Filename string
}
