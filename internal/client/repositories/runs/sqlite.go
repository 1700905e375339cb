package runs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/docupload/internal/client/models"
	"github.com/dmitrijs2005/docupload/internal/common"
	"github.com/dmitrijs2005/docupload/internal/dbx"
)

// Timestamps are stored as RFC 3339 text in UTC so that they sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, run *models.Run) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query := `insert into runs (id, started_at, finished_at, policy, requested, uploaded, failed, error)
			values (?, ?, ?, ?, ?, ?, ?, ?)`
		res, err := tx.ExecContext(ctx, query, run.ID,
			run.StartedAt.UTC().Format(timeLayout), run.FinishedAt.UTC().Format(timeLayout),
			run.Policy, run.Requested, run.Uploaded, run.Failed, run.Error)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}
		if err := dbx.ExpectRows(res, 1); err != nil {
			return err
		}

		for _, d := range run.Documents {
			_, err := tx.ExecContext(ctx,
				`insert into run_documents (run_id, document_id, name) values (?, ?, ?)`,
				run.ID, d.DocumentID, d.Name)
			if err != nil {
				return fmt.Errorf("failed to insert run document %s: %w", d.DocumentID, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]*models.Run, error) {
	query := `select id, started_at, finished_at, policy, requested, uploaded, failed, error
		from runs order by started_at desc, id limit ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error selecting runs: %w", err)
	}
	defer rows.Close()

	var result []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Run, error) {
	query := `select id, started_at, finished_at, policy, requested, uploaded, failed, error
		from runs where id = ?`
	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`select run_id, document_id, name from run_documents where run_id = ? order by name, document_id`, id)
	if err != nil {
		return nil, fmt.Errorf("error selecting run documents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d models.RunDocument
		if err := rows.Scan(&d.RunID, &d.DocumentID, &d.Name); err != nil {
			return nil, err
		}
		run.Documents = append(run.Documents, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return run, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*models.Run, error) {
	var (
		run              models.Run
		started, finished string
	)
	err := s.Scan(&run.ID, &started, &finished, &run.Policy, &run.Requested, &run.Uploaded, &run.Failed, &run.Error)
	if err != nil {
		return nil, err
	}

	if run.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return nil, fmt.Errorf("run %s started_at: %w", run.ID, err)
	}
	if run.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
		return nil, fmt.Errorf("run %s finished_at: %w", run.ID, err)
	}
	return &run, nil
}
