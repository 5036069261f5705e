package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/ports"
)

// Context keys set by Auth.
const (
	KeyUserID = "user_id"
	KeyRole   = "role"
)

// UserValidator resolves a token subject to a live account.
type UserValidator interface {
	ValidateUser(ctx context.Context, actor domain.Actor) (domain.Actor, error)
}

// Auth validates the access token, confirms its user still exists and
// injects the actor into context. The role stored on the account wins over
// the role in the token.
func Auth(tokens ports.TokenIssuer, users UserValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claimed, err := tokens.VerifyAccess(strings.TrimSpace(parts[1]))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			actor, err := users.ValidateUser(c.Request().Context(), claimed)
			if err != nil {
				return err
			}

			c.Set(KeyUserID, actor.ID)
			c.Set(KeyRole, actor.Role)

			return next(c)
		}
	}
}
