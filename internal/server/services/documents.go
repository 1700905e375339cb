// Package services holds the server-side document workflow shared by the
// HTTP handlers.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/docupload/internal/common"
	"github.com/dmitrijs2005/docupload/internal/logging"
	"github.com/dmitrijs2005/docupload/internal/server/models"
	"github.com/dmitrijs2005/docupload/internal/server/repositories/documents"
	"github.com/dmitrijs2005/docupload/internal/server/storage"
	"github.com/google/uuid"
)

const maxNameLength = 1024

// ContentStore receives document content on the server itself.
type ContentStore interface {
	Store(ctx context.Context, key string, r io.Reader) (int64, string, error)
}

// Negotiation is what the information endpoint answers for one file.
type Negotiation struct {
	Parameters storage.Parameters
	Document   *models.Document
	Metadata   map[string]any
}

type DocumentService struct {
	repo    documents.Repository
	backend storage.Backend
	content ContentStore
	logger  logging.Logger
	now     func() time.Time
}

// NewDocumentService builds the service. content is nil when the backend
// sends clients elsewhere (S3), in which case Receive is unavailable.
func NewDocumentService(repo documents.Repository, backend storage.Backend, content ContentStore, logger logging.Logger) *DocumentService {
	return &DocumentService{
		repo:    repo,
		backend: backend,
		content: content,
		logger:  logger.With("module", "documents"),
		now:     time.Now,
	}
}

// Negotiate registers a pending document and returns where to send it.
func (s *DocumentService) Negotiate(ctx context.Context, userID, name, corpus string) (*Negotiation, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: name is empty", common.ErrorValidation)
	case utf8.RuneCountInString(name) > maxNameLength:
		return nil, fmt.Errorf("%w: name is longer than %d characters", common.ErrorValidation, maxNameLength)
	}

	id := uuid.NewString()
	doc := &models.Document{
		ID:         id,
		UserID:     userID,
		Name:       name,
		Corpus:     corpus,
		StorageKey: storage.NewKey(userID, id, s.now()),
		Status:     models.DocumentPending,
	}
	// Parameters come first so a backend failure leaves no pending row.
	params, meta, err := s.backend.UploadParameters(ctx, doc)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "document negotiated", "user", userID, "document", id, "name", name)
	return &Negotiation{Parameters: params, Document: doc, Metadata: meta}, nil
}

// Receive stores the content of a pending document and marks it uploaded.
func (s *DocumentService) Receive(ctx context.Context, userID, documentID string, r io.Reader) (*models.Document, error) {
	if s.content == nil {
		return nil, fmt.Errorf("%w: content is not accepted by this server", common.ErrorNotFound)
	}

	doc, err := s.repo.GetByID(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != models.DocumentPending {
		return nil, fmt.Errorf("%w: document %s is already uploaded", common.ErrorConflict, documentID)
	}

	size, contentType, err := s.content.Store(ctx, doc.StorageKey, r)
	if err != nil {
		return nil, fmt.Errorf("store %s: %w", documentID, err)
	}

	doc, err = s.repo.MarkUploaded(ctx, userID, documentID, size, contentType)
	if errors.Is(err, common.ErrorNotFound) {
		// A concurrent upload of the same document won the race.
		return nil, fmt.Errorf("%w: document %s is already uploaded", common.ErrorConflict, documentID)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "document stored", "user", userID, "document", documentID, "size", size)
	return doc, nil
}

func (s *DocumentService) List(ctx context.Context, userID string, limit int) ([]*models.Document, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}
