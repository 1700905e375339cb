// Package models defines server-side data models persisted in the database.
package models

import "time"

type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentUploaded DocumentStatus = "uploaded"
)

// Document is a stored (or about to be stored) file owned by a user.
type Document struct {
	ID     string
	UserID string
	Name   string
	Corpus string

	// StorageKey locates the content in the configured backend.
	StorageKey string
	Status     DocumentStatus

	// Size and ContentType are known once the content has been received by
	// the server itself; they stay empty for direct-to-S3 uploads.
	Size        int64
	ContentType string

	CreatedAt  time.Time
	UploadedAt *time.Time
}
