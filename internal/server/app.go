// Package server assembles and runs the docupload server: configuration,
// the document repository, the storage backend and the HTTP endpoints.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/dmitrijs2005/docupload/internal/common"
	"github.com/dmitrijs2005/docupload/internal/logging"
	"github.com/dmitrijs2005/docupload/internal/server/auth"
	"github.com/dmitrijs2005/docupload/internal/server/config"
	httpserver "github.com/dmitrijs2005/docupload/internal/server/http"
	"github.com/dmitrijs2005/docupload/internal/server/repositories/documents"
	"github.com/dmitrijs2005/docupload/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/docupload/internal/server/services"
	"github.com/dmitrijs2005/docupload/internal/server/storage"
	"github.com/spf13/afero"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpserver.Server
}

// NewApp wires the application from cfg. Logs are written as JSON to w.
func NewApp(ctx context.Context, cfg *config.Config, w io.Writer) (*App, error) {
	logger, err := logging.New(w, cfg.LogLevel, logging.FormatJSON)
	if err != nil {
		return nil, err
	}
	mode, err := common.ParseDescriptorMode(cfg.DescriptorMode)
	if err != nil {
		return nil, err
	}

	app := &App{config: cfg, logger: logger}

	repo, err := app.initRepository(ctx)
	if err != nil {
		return nil, err
	}

	issuer := auth.NewIssuer([]byte(cfg.SecretKey), cfg.AccessTokenValidity, cfg.UploadTokenValidity)

	backend, content, err := app.initStorage(ctx, issuer)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	docs := services.NewDocumentService(repo, backend, content, logger)
	app.server = httpserver.NewServer(cfg.HTTPAddr, logger, docs, issuer, mode)
	return app, nil
}

func (app *App) initRepository(ctx context.Context) (documents.Repository, error) {
	if app.config.DatabaseDSN == "" {
		app.logger.Warn(ctx, "no database configured, documents are kept in memory")
		return documents.NewMemoryRepository(), nil
	}

	db, err := repomanager.Open(ctx, app.config.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	app.db = db
	return rm.Documents(db), nil
}

// initStorage returns the backend that answers negotiations and, for the
// local backend, the store that receives content.
func (app *App) initStorage(ctx context.Context, issuer *auth.Issuer) (storage.Backend, services.ContentStore, error) {
	cfg := app.config
	switch cfg.Storage {
	case config.StorageS3:
		b, err := storage.NewS3Backend(ctx, storage.S3Config{
			Region:       cfg.S3Region,
			User:         cfg.S3RootUser,
			Password:     cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			BaseEndpoint: cfg.S3BaseEndpoint,
			Expires:      cfg.UploadTokenValidity,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("s3 init error: %w", err)
		}
		app.logger.Info(ctx, "using S3 storage", "bucket", cfg.S3Bucket)
		return b, nil, nil
	default:
		b := storage.NewLocalBackend(afero.NewOsFs(), cfg.LocalStorageDir, cfg.LocalUploadURL(), issuer)
		app.logger.Info(ctx, "using local storage", "dir", cfg.LocalStorageDir, "upload_url", cfg.LocalUploadURL())
		return b, b, nil
	}
}

// Run serves until ctx is cancelled.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting app...")
	defer app.logger.Info(ctx, "App stopped")
	return app.server.Run(ctx)
}

func (app *App) Close() error {
	if app.db != nil {
		return app.db.Close()
	}
	return nil
}
