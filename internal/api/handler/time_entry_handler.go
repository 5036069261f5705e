package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/legaltech/case-management/internal/core/ports"
)

var timeEntrySortable = []string{"createdAt", "hours", "description"}

// TimeEntryHandler handles the time entries nested under a case.
type TimeEntryHandler struct {
	service ports.TimeEntryService
}

func NewTimeEntryHandler(service ports.TimeEntryService) *TimeEntryHandler {
	return &TimeEntryHandler{service: service}
}

// Create handles POST /cases/:caseId/time-entries.
func (h *TimeEntryHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req createTimeEntryRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), actor, c.Param("caseId"), ports.CreateTimeEntryInput{
		Hours:       req.Hours,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTimeEntryResponse(created))
}

// List handles GET /cases/:caseId/time-entries with an optional ?hours= filter.
func (h *TimeEntryHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	l, err := parseListing(c, timeEntrySortable, numberFilter("hours"))
	if err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), actor, c.Param("caseId"), l.spec)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(page, l, toTimeEntryResponse))
}

// TotalHours handles GET /cases/:caseId/time-entries/total-hours.
func (h *TimeEntryHandler) TotalHours(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	summary, err := h.service.TotalBillableHours(c.Request().Context(), actor, c.Param("caseId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

// Get handles GET /cases/:caseId/time-entries/:id.
func (h *TimeEntryHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	found, err := h.service.Get(c.Request().Context(), actor, c.Param("caseId"), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTimeEntryResponse(found))
}

// Update handles PUT /cases/:caseId/time-entries/:id.
func (h *TimeEntryHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req updateTimeEntryRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	updated, err := h.service.Update(c.Request().Context(), actor, c.Param("caseId"), c.Param("id"), ports.UpdateTimeEntryInput{
		Hours:       req.Hours,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTimeEntryResponse(updated))
}

// Delete handles DELETE /cases/:caseId/time-entries/:id.
func (h *TimeEntryHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if _, err := h.service.Delete(c.Request().Context(), actor, c.Param("caseId"), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "time entry deleted"})
}
