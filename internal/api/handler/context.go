package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/legaltech/case-management/internal/api/middleware"
	"github.com/legaltech/case-management/internal/core/domain"
)

// ctxActor extracts the actor injected by the Auth middleware. A missing
// id or role means the middleware did not run.
func ctxActor(c echo.Context) (domain.Actor, error) {
	id, _ := c.Get(middleware.KeyUserID).(string)
	role, _ := c.Get(middleware.KeyRole).(domain.Role)
	if id == "" || role == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return domain.Actor{ID: id, Role: role}, nil
}

// bind decodes and validates a request body.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
