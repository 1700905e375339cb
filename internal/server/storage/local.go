package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"

	"github.com/dmitrijs2005/docupload/internal/common"
	"github.com/dmitrijs2005/docupload/internal/server/models"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

var ErrInvalidKey = errors.New("invalid storage key")

// UploadTokenIssuer grants a client the right to PUT one document.
type UploadTokenIssuer interface {
	UploadToken(userID, documentID string) (string, error)
}

// LocalBackend makes the server itself the transfer destination and keeps
// content under a root directory of an afero.Fs.
type LocalBackend struct {
	fs        afero.Fs
	root      string
	uploadURL string
	tokens    UploadTokenIssuer
}

func NewLocalBackend(fs afero.Fs, root, uploadURL string, tokens UploadTokenIssuer) *LocalBackend {
	return &LocalBackend{fs: fs, root: root, uploadURL: uploadURL, tokens: tokens}
}

func (b *LocalBackend) UploadParameters(_ context.Context, doc *models.Document) (Parameters, map[string]any, error) {
	token, err := b.tokens.UploadToken(doc.UserID, doc.ID)
	if err != nil {
		return Parameters{}, nil, fmt.Errorf("upload token: %w", err)
	}
	return Parameters{
		URL:    b.uploadURL,
		Method: http.MethodPut,
		Data:   map[string]string{common.UploadTokenFieldName: token},
	}, map[string]any{"key": doc.StorageKey}, nil
}

// Store writes r under key and returns the number of bytes written and the
// detected content type. Content is written to a temporary file first, so a
// failed upload leaves nothing behind under key.
func (b *LocalBackend) Store(_ context.Context, key string, r io.Reader) (int64, string, error) {
	if !filepath.IsLocal(key) {
		return 0, "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	dst := path.Join(b.root, filepath.ToSlash(key))

	if err := b.fs.MkdirAll(path.Dir(dst), 0o750); err != nil {
		return 0, "", fmt.Errorf("mkdir: %w", err)
	}

	tmp := dst + ".part-" + uuid.NewString()
	f, err := b.fs.Create(tmp)
	if err != nil {
		return 0, "", fmt.Errorf("create: %w", err)
	}

	br := bufio.NewReaderSize(r, 3072)
	head, _ := br.Peek(3072)
	contentType := mimetype.Detect(head).String()

	n, err := io.Copy(f, br)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = b.fs.Remove(tmp)
		return 0, "", fmt.Errorf("write: %w", err)
	}

	if err := b.fs.Rename(tmp, dst); err != nil {
		_ = b.fs.Remove(tmp)
		return 0, "", fmt.Errorf("rename: %w", err)
	}
	return n, contentType, nil
}
