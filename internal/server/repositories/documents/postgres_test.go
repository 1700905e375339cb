package documents

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/docupload/internal/common"
	"github.com/dmitrijs2005/docupload/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var docColumns = []string{"id", "user_id", "name", "corpus", "storage_key", "status", "size", "content_type", "created_at", "uploaded_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	created := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)^\s*INSERT\s+INTO\s+documents\b.*RETURNING\s+created_at`).
		WithArgs("d1", "u1", "a.pdf", "papers", "users/u1/d1", models.DocumentPending).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	doc := &models.Document{ID: "d1", UserID: "u1", Name: "a.pdf", Corpus: "papers", StorageKey: "users/u1/d1"}
	require.NoError(t, repo.Create(context.Background(), doc))

	assert.Equal(t, created, doc.CreatedAt)
	assert.Equal(t, models.DocumentPending, doc.Status)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+documents`).WillReturnError(errors.New("duplicate key"))

	err := repo.Create(context.Background(), &models.Document{ID: "d1"})
	assert.ErrorContains(t, err, "duplicate key")
}

func TestGetByID(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	created := time.Now().UTC()

	mock.ExpectQuery(`SELECT .* FROM documents WHERE id=\$1 AND user_id=\$2`).
		WithArgs("d1", "u1").
		WillReturnRows(sqlmock.NewRows(docColumns).
			AddRow("d1", "u1", "a.pdf", "", "k", "pending", int64(0), "", created, nil))

	got, err := repo.GetByID(context.Background(), "u1", "d1")
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", got.Name)
	assert.Equal(t, models.DocumentPending, got.Status)
	assert.Nil(t, got.UploadedAt)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM documents WHERE id=\$1 AND user_id=\$2`).
		WithArgs("d1", "intruder").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "intruder", "d1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMarkUploaded(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)UPDATE documents\s+SET status=\$3.*WHERE id=\$1 AND user_id=\$2 AND status=\$6\s+RETURNING`).
		WithArgs("d1", "u1", models.DocumentUploaded, int64(42), "application/pdf", models.DocumentPending).
		WillReturnRows(sqlmock.NewRows(docColumns).
			AddRow("d1", "u1", "a.pdf", "", "k", "uploaded", int64(42), "application/pdf", now, now))

	got, err := repo.MarkUploaded(context.Background(), "u1", "d1", 42, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, models.DocumentUploaded, got.Status)
	assert.Equal(t, int64(42), got.Size)
	require.NotNil(t, got.UploadedAt)
}

func TestMarkUploaded_AlreadyUploaded(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`UPDATE documents`).WillReturnRows(sqlmock.NewRows(docColumns))

	_, err := repo.MarkUploaded(context.Background(), "u1", "d1", 1, "text/plain")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListByUser(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .* FROM documents WHERE user_id=\$1 ORDER BY created_at DESC, id LIMIT \$2`).
		WithArgs("u1", 10).
		WillReturnRows(sqlmock.NewRows(docColumns).
			AddRow("d2", "u1", "b.pdf", "", "k2", "pending", int64(0), "", now, nil).
			AddRow("d1", "u1", "a.pdf", "", "k1", "uploaded", int64(3), "text/plain", now.Add(-time.Hour), now))

	got, err := repo.ListByUser(context.Background(), "u1", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "d2", got[0].ID)
	assert.NotNil(t, got[1].UploadedAt)
}

func TestListByUser_QueryError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM documents WHERE user_id`).WillReturnError(errors.New("conn reset"))

	_, err := repo.ListByUser(context.Background(), "u1", 10)
	assert.Error(t, err)
}
