package documents

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/docupload/internal/common"
	"github.com/dmitrijs2005/docupload/internal/server/models"
)

// MemoryRepository keeps documents in process memory. It backs the server
// when no database is configured and is handy in tests.
type MemoryRepository struct {
	mu   sync.Mutex
	docs map[string]models.Document
	now  func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{docs: make(map[string]models.Document), now: time.Now}
}

func (r *MemoryRepository) Create(_ context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[doc.ID]; ok {
		return fmt.Errorf("failed to insert document: %w: id %s", common.ErrorConflict, doc.ID)
	}
	if doc.Status == "" {
		doc.Status = models.DocumentPending
	}
	doc.CreatedAt = r.now().UTC()
	r.docs[doc.ID] = *doc
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, userID, id string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.docs[id]
	if !ok || d.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return &d, nil
}

func (r *MemoryRepository) MarkUploaded(_ context.Context, userID, id string, size int64, contentType string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.docs[id]
	if !ok || d.UserID != userID || d.Status != models.DocumentPending {
		return nil, common.ErrorNotFound
	}
	now := r.now().UTC()
	d.Status = models.DocumentUploaded
	d.Size = size
	d.ContentType = contentType
	d.UploadedAt = &now
	r.docs[id] = d
	return &d, nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID string, limit int) ([]*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*models.Document
	for _, d := range r.docs {
		if d.UserID == userID {
			result = append(result, &d)
		}
	}
	slices.SortFunc(result, func(a, b *models.Document) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
