// Package http exposes the document endpoints over HTTP using echo.
package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"
	"time"

	"github.com/dmitrijs2005/docupload/internal/common"
	"github.com/dmitrijs2005/docupload/internal/logging"
	"github.com/dmitrijs2005/docupload/internal/server/models"
	"github.com/dmitrijs2005/docupload/internal/server/services"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const (
	requestBodyLimit = "1M"
	shutdownTimeout  = 10 * time.Second
)

// DocumentService is the document workflow behind the handlers.
type DocumentService interface {
	Negotiate(ctx context.Context, userID, name, corpus string) (*services.Negotiation, error)
	Receive(ctx context.Context, userID, documentID string, r io.Reader) (*models.Document, error)
	List(ctx context.Context, userID string, limit int) ([]*models.Document, error)
}

// TokenParser verifies access and upload tokens.
type TokenParser interface {
	ParseAccessToken(token string) (string, error)
	ParseUploadToken(token string) (userID, documentID string, err error)
}

type Server struct {
	echo      *echo.Echo
	address   string
	documents DocumentService
	tokens    TokenParser
	mode      common.DescriptorMode
	logger    logging.Logger
}

func NewServer(address string, l logging.Logger, docs DocumentService, tokens TokenParser, mode common.DescriptorMode) *Server {
	s := &Server{
		echo:      echo.New(),
		address:   address,
		documents: docs,
		tokens:    tokens,
		mode:      mode,
		logger:    l.With("module", "http_server"),
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(echomiddleware.RequestID())
	e.Use(s.logRequests)
	e.Use(echomiddleware.Recover())

	e.GET("/healthz", healthCheck)
	e.POST("/document", s.negotiate, echomiddleware.BodyLimit(requestBodyLimit), s.requireUser)
	e.PUT("/document", s.receive)
	e.GET("/documents", s.list, s.requireUser)

	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() stdhttp.Handler {
	return s.echo
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		errCh <- s.echo.Start(s.address)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}

func healthCheck(c echo.Context) error {
	return c.JSON(stdhttp.StatusOK, map[string]string{"status": "ok"})
}
