package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/legaltech/case-management/internal/core/ports"
)

var caseSortable = []string{"createdAt", "clientName", "clientEmail", "status"}

// CaseHandler handles HTTP requests for case operations.
type CaseHandler struct {
	service ports.CaseService
}

func NewCaseHandler(service ports.CaseService) *CaseHandler {
	return &CaseHandler{service: service}
}

// Create handles POST /cases.
func (h *CaseHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req createCaseRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), actor, ports.CreateCaseInput{
		LawyerID:    req.LawyerID,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		Notes:       req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCaseResponse(created))
}

// List handles GET /cases with optional ?status= and ?clientName= filters.
// Lawyers only see their own cases.
func (h *CaseHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	l, err := parseListing(c, caseSortable, eqFilter("status"), containsFilter("clientName"))
	if err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), actor, l.spec)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(page, l, toCaseResponse))
}

// Search handles GET /cases/search?q=term.
func (h *CaseHandler) Search(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	l, err := parseListing(c, caseSortable, eqFilter("status"))
	if err != nil {
		return err
	}

	page, err := h.service.Search(c.Request().Context(), actor, c.QueryParam("q"), l.spec)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(page, l, toCaseResponse))
}

// Get handles GET /cases/:id.
func (h *CaseHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	found, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCaseResponse(found))
}

// Update handles PUT /cases/:id.
func (h *CaseHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req updateCaseRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	updated, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), ports.UpdateCaseInput{
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		Notes:       req.Notes,
		LawyerID:    req.LawyerID,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCaseResponse(updated))
}

// ChangeStatus handles PUT /cases/:id/status?status=CLOSED. A JSON body
// {"status": "..."} is accepted as well.
func (h *CaseHandler) ChangeStatus(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	status := c.QueryParam("status")
	if status == "" {
		var req struct {
			Status string `json:"status"`
		}
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		status = req.Status
	}
	if status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "status is required")
	}

	updated, err := h.service.ChangeStatus(c.Request().Context(), actor, c.Param("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCaseResponse(updated))
}

// Delete handles DELETE /cases/:id.
func (h *CaseHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if _, err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// TotalHours handles GET /cases/:id/total-hours.
func (h *CaseHandler) TotalHours(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	summary, err := h.service.TotalBillableHours(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}
