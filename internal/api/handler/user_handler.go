package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/ports"
)

var userSortable = []string{"createdAt", "fullName", "email", "role"}

// UserHandler is the account administration surface.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// CreateAdmin handles POST /users/admins.
func (h *UserHandler) CreateAdmin(c echo.Context) error {
	return h.create(c, h.service.CreateAdmin)
}

// CreateLawyer handles POST /users/lawyers.
func (h *UserHandler) CreateLawyer(c echo.Context) error {
	return h.create(c, h.service.CreateLawyer)
}

func (h *UserHandler) create(c echo.Context, fn func(ctx context.Context, actor domain.Actor, in ports.CreateUserInput) (domain.User, error)) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req createUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	created, err := fn(c.Request().Context(), actor, ports.CreateUserInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(created))
}

// List handles GET /users with optional ?role= and ?email= filters.
func (h *UserHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	l, err := parseListing(c, userSortable, eqFilter("role"), containsFilter("email"))
	if err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), actor, l.spec)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(page, l, toUserResponse))
}

// Get handles GET /users/:id. Lawyers may read their own account.
func (h *UserHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	found, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(found))
}

// Update handles PUT /users/:id.
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	in := ports.UpdateUserInput{FullName: req.FullName, Email: req.Email, Password: req.Password}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		in.Role = &role
	}
	updated, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(updated))
}

// Delete handles DELETE /users/:id.
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if _, err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "user deleted"})
}
