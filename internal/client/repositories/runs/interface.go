package runs

import (
	"context"

	"github.com/dmitrijs2005/docupload/internal/client/models"
)

type Repository interface {
	// Save stores the run together with its documents.
	Save(ctx context.Context, run *models.Run) error

	// List returns up to limit runs, newest first, without documents.
	List(ctx context.Context, limit int) ([]*models.Run, error)

	// GetByID returns a run with its documents or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Run, error)
}
