package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/docupload/internal/common"
	"github.com/labstack/echo/v4"
)

const userIDKey = "userID"

// requireUser resolves the bearer access token into a user id.
func (s *Server) requireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(common.AuthorizationHeader)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || strings.TrimSpace(token) == "" {
			return fmt.Errorf("%w: missing bearer token", common.ErrorUnauthorized)
		}

		userID, err := s.tokens.ParseAccessToken(strings.TrimSpace(token))
		if err != nil {
			return err
		}

		c.Set(userIDKey, userID)
		return next(c)
	}
}

func userID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}

func (s *Server) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			// Let the error handler write the status before it is logged.
			c.Error(err)
		}

		req := c.Request()
		s.logger.Info(req.Context(), "request",
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"method", req.Method,
			"path", req.URL.Path,
			"status", c.Response().Status,
			"bytes_in", req.ContentLength,
			"duration", time.Since(start),
		)
		return nil
	}
}
