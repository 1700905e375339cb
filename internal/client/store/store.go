// Package store opens the client state database and exposes its repositories.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/docupload/internal/client/migrations"
	"github.com/dmitrijs2005/docupload/internal/client/repositories/runs"
	"github.com/dmitrijs2005/docupload/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

type Repositories struct {
	Runs runs.Repository

	db *sql.DB
}

func (r *Repositories) Close() error {
	return r.db.Close()
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// InitDatabase opens (creating if needed) the sqlite file at path, brings its
// schema up to date and returns the repositories built on it.
func InitDatabase(ctx context.Context, path string) (*Repositories, error) {
	if path != MemoryPath {
		p, err := filex.ExpandHome(path)
		if err != nil {
			return nil, err
		}
		if err := filex.EnsureParentDir(p); err != nil {
			return nil, err
		}
		path = p
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer; an in-memory database also lives in one
	// connection only.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{Runs: runs.NewSQLiteRepository(db), db: db}, nil
}
