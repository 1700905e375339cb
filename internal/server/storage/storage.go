// Package storage decides where document content goes and, for the local
// backend, receives it.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/docupload/internal/server/models"
)

// Parameters are the transfer instructions handed to the client.
type Parameters struct {
	URL    string            `json:"url"`
	Method string            `json:"method"`
	Data   map[string]string `json:"data"`
}

// Backend produces transfer instructions for a pending document.
type Backend interface {
	UploadParameters(ctx context.Context, doc *models.Document) (Parameters, map[string]any, error)
}

// NewKey returns the storage key of a document created at t.
func NewKey(userID, documentID string, t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("users/%s/%04d/%02d/%02d/%s", userID, t.Year(), int(t.Month()), t.Day(), documentID)
}
