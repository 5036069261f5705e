package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/legaltech/case-management/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	if code, msg, ok := classify(err); ok {
		return code, msg
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

// classify maps err to the status and client message it renders with.
// ok is false for errors that surface as a generic 500.
func classify(err error) (code int, msg string, ok bool) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), true
	}

	// Known domain error kinds → deterministic HTTP codes. The message of a
	// classified error is safe to show.
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return http.StatusNotFound, err.Error(), true
	case domain.KindConflict:
		return http.StatusConflict, err.Error(), true
	case domain.KindConstraintViolation, domain.KindInvalidArgument:
		return http.StatusBadRequest, err.Error(), true
	case domain.KindForbidden:
		return http.StatusForbidden, err.Error(), true
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized, err.Error(), true
	}
	return http.StatusInternalServerError, "", false
}
