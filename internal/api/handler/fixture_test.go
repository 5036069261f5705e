package handler

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/legaltech/case-management/internal/api/middleware"
	"github.com/legaltech/case-management/internal/core/domain"
)

var (
	lawyer = domain.Actor{ID: "lawyer-1", Role: domain.RoleLawyer}
	admin  = domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
)

// newContext builds an echo context with the validator installed and, when
// actor is non-nil, the claims the Auth middleware would have set.
func newContext(method, target string, body io.Reader, contentType string, actor *domain.Actor) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if actor != nil {
		c.Set(middleware.KeyUserID, actor.ID)
		c.Set(middleware.KeyRole, actor.Role)
	}
	return c, rec
}

func jsonContext(method, target, body string, actor *domain.Actor) (echo.Context, *httptest.ResponseRecorder) {
	return newContext(method, target, strings.NewReader(body), echo.MIMEApplicationJSON, actor)
}

func wantHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError with %d, got %v", code, err)
	}
	if he.Code != code {
		t.Fatalf("expected status %d, got %d (%v)", code, he.Code, he.Message)
	}
}

func wantKind(t *testing.T, err error, kind domain.Kind) {
	t.Helper()
	if got := domain.KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s (%v)", kind, got, err)
	}
}

func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("expected %d, got %d: %s", code, rec.Code, rec.Body.String())
	}
}
