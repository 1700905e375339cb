// Package documents persists document records in PostgreSQL.
package documents

import (
	"context"

	"github.com/dmitrijs2005/docupload/internal/server/models"
)

type Repository interface {
	// Create inserts a pending document and fills in CreatedAt.
	Create(ctx context.Context, doc *models.Document) error

	// GetByID returns the document only if it belongs to userID.
	GetByID(ctx context.Context, userID, id string) (*models.Document, error)

	// MarkUploaded records the received content of a pending document.
	MarkUploaded(ctx context.Context, userID, id string, size int64, contentType string) (*models.Document, error)

	// ListByUser returns the newest documents of userID first.
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.Document, error)
}
