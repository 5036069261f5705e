package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/legaltech/case-management/internal/api/metrics"
	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /auth/register. New accounts are always lawyers.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	observeAuth("register", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toAuthResponse(res))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	observeAuth("login", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAuthResponse(res))
}

// Refresh handles POST /auth/refresh-token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	observeAuth("refresh", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAuthResponse(res))
}

func observeAuth(event string, err error) {
	result := "success"
	if err != nil {
		result = string(domain.KindOf(err))
	}
	metrics.AuthEventsTotal.WithLabelValues(event, result).Inc()
}
