package http

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"mime/multipart"
	stdhttp "net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/docupload/internal/common"
	"github.com/dmitrijs2005/docupload/internal/server/models"
	"github.com/dmitrijs2005/docupload/internal/server/storage"
	"github.com/labstack/echo/v4"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
	maxTokenLength   = 4 << 10
)

type negotiateRequest struct {
	Name   string `json:"name"`
	Corpus string `json:"corpus"`
}

type documentResponse struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type negotiateResponse struct {
	Parameters storage.Parameters `json:"parameters"`
	Document   *documentResponse  `json:"document,omitempty"`
}

type listItem struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Corpus      string     `json:"corpus,omitempty"`
	Status      string     `json:"status"`
	Size        int64      `json:"size,omitempty"`
	ContentType string     `json:"content_type,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UploadedAt  *time.Time `json:"uploaded_at,omitempty"`
}

// negotiate answers POST /document with transfer parameters and, in
// negotiation mode, the document descriptor.
func (s *Server) negotiate(c echo.Context) error {
	var req negotiateRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	neg, err := s.documents.Negotiate(c.Request().Context(), userID(c), req.Name, req.Corpus)
	if err != nil {
		return err
	}

	resp := negotiateResponse{Parameters: neg.Parameters}
	if resp.Parameters.Data == nil {
		resp.Parameters.Data = map[string]string{}
	}
	if s.mode != common.DescriptorFromTransfer {
		resp.Document = describe(neg.Document, neg.Metadata)
	}
	return c.JSON(stdhttp.StatusOK, resp)
}

// receive accepts the multipart transfer sent to the local backend. The
// upload token field must precede the file part.
func (s *Server) receive(c echo.Context) error {
	mr, err := c.Request().MultipartReader()
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	var token string
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: no %q part", common.ErrorValidation, common.FileFieldName)
		}
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrorValidation, err)
		}

		switch part.FormName() {
		case common.UploadTokenFieldName:
			token, err = readField(part)
			if err != nil {
				return err
			}
		case common.FileFieldName:
			return s.store(c, token, part)
		}
		_ = part.Close()
	}
}

func (s *Server) store(c echo.Context, token string, part *multipart.Part) error {
	defer part.Close()

	if token == "" {
		return fmt.Errorf("%w: upload token must precede the file", common.ErrorUnauthorized)
	}
	uid, documentID, err := s.tokens.ParseUploadToken(token)
	if err != nil {
		return err
	}

	doc, err := s.documents.Receive(c.Request().Context(), uid, documentID, part)
	if err != nil {
		return err
	}

	return c.JSON(stdhttp.StatusCreated, describe(doc, map[string]any{
		"size":         doc.Size,
		"content_type": doc.ContentType,
	}))
}

func (s *Server) list(c echo.Context) error {
	limit := defaultListLimit
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: bad limit %q", common.ErrorValidation, v)
		}
		limit = min(n, maxListLimit)
	}

	docs, err := s.documents.List(c.Request().Context(), userID(c), limit)
	if err != nil {
		return err
	}

	items := make([]listItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, listItem{
			ID:          d.ID,
			Name:        d.Name,
			Corpus:      d.Corpus,
			Status:      string(d.Status),
			Size:        d.Size,
			ContentType: d.ContentType,
			CreatedAt:   d.CreatedAt,
			UploadedAt:  d.UploadedAt,
		})
	}
	return c.JSON(stdhttp.StatusOK, map[string]any{"documents": items})
}

func describe(doc *models.Document, meta map[string]any) *documentResponse {
	m := map[string]any{}
	maps.Copy(m, meta)
	if doc.Corpus != "" {
		m["corpus"] = doc.Corpus
	}
	return &documentResponse{ID: doc.ID, Name: doc.Name, Metadata: m}
}

func readField(part *multipart.Part) (string, error) {
	b, err := io.ReadAll(io.LimitReader(part, maxTokenLength+1))
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	if len(b) > maxTokenLength {
		return "", fmt.Errorf("%w: %q field is too long", common.ErrorValidation, part.FormName())
	}
	return strings.TrimSpace(string(b)), nil
}
