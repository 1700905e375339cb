package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/docupload/internal/common"
	"github.com/dmitrijs2005/docupload/internal/dbx"
	"github.com/dmitrijs2005/docupload/internal/server/models"
)

const columns = `id, user_id, name, corpus, storage_key, status, size, content_type, created_at, uploaded_at`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (id, user_id, name, corpus, storage_key, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	if doc.Status == "" {
		doc.Status = models.DocumentPending
	}
	err := r.db.QueryRowContext(ctx, query,
		doc.ID, doc.UserID, doc.Name, doc.Corpus, doc.StorageKey, doc.Status).Scan(&doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, id string) (*models.Document, error) {
	query := `SELECT ` + columns + ` FROM documents WHERE id=$1 AND user_id=$2`
	return scanDocument(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) MarkUploaded(ctx context.Context, userID, id string, size int64, contentType string) (*models.Document, error) {
	query := `
		UPDATE documents
		SET status=$3, size=$4, content_type=$5, uploaded_at=now()
		WHERE id=$1 AND user_id=$2 AND status=$6
		RETURNING ` + columns

	return scanDocument(r.db.QueryRowContext(ctx, query,
		id, userID, models.DocumentUploaded, size, contentType, models.DocumentPending))
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Document, error) {
	query := `SELECT ` + columns + ` FROM documents WHERE user_id=$1 ORDER BY created_at DESC, id LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select documents: %w", err)
	}
	defer rows.Close()

	var result []*models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (*models.Document, error) {
	var (
		d        models.Document
		uploaded sql.NullTime
	)
	err := s.Scan(&d.ID, &d.UserID, &d.Name, &d.Corpus, &d.StorageKey, &d.Status,
		&d.Size, &d.ContentType, &d.CreatedAt, &uploaded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}
	if uploaded.Valid {
		d.UploadedAt = &uploaded.Time
	}
	return &d, nil
}
