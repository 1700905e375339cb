package http

import (
	"errors"
	"fmt"
	stdhttp "net/http"

	"github.com/dmitrijs2005/docupload/internal/common"
	"github.com/labstack/echo/v4"
)

// statusOf maps an error to its HTTP status. Messages of 5xx errors are not
// shown to clients.
func statusOf(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message)
	}

	switch {
	case errors.Is(err, common.ErrorValidation):
		return stdhttp.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrTokenExpired):
		return stdhttp.StatusUnauthorized, "token expired"
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return stdhttp.StatusUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrorNotFound):
		return stdhttp.StatusNotFound, "not found"
	case errors.Is(err, common.ErrorConflict):
		return stdhttp.StatusConflict, err.Error()
	}
	return stdhttp.StatusInternalServerError, "internal server error"
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, message := statusOf(err)
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	ctx := c.Request().Context()

	if code >= stdhttp.StatusInternalServerError {
		s.logger.Error(ctx, "internal server error", "request_id", requestID, "error", err)
	} else {
		s.logger.Warn(ctx, "client error", "request_id", requestID, "status", code, "error", err)
	}

	body := map[string]string{"error": message}
	if requestID != "" {
		body["request_id"] = requestID
	}
	if err := c.JSON(code, body); err != nil {
		s.logger.Error(ctx, "write error response", "error", err)
	}
}
