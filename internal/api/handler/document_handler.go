package handler

import (
	"fmt"
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/legaltech/case-management/internal/api/metrics"
	"github.com/legaltech/case-management/internal/core/ports"
)

var documentSortable = []string{"createdAt", "fileName", "fileSize", "mimeType"}

// DocumentHandler handles document uploads and downloads.
type DocumentHandler struct {
	service ports.DocumentService
}

func NewDocumentHandler(service ports.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// Upload handles POST /cases/:caseId/documents as multipart/form-data with
// a "file" part and an optional "description" field.
func (h *DocumentHandler) Upload(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}
	defer f.Close()

	in := ports.UploadDocumentInput{
		FileName: fh.Filename,
		MimeType: fh.Header.Get(echo.HeaderContentType),
		Size:     fh.Size,
		Content:  f,
	}
	if desc := c.FormValue("description"); desc != "" {
		in.Description = &desc
	}

	created, err := h.service.Upload(c.Request().Context(), actor, c.Param("caseId"), in)
	if err != nil {
		return err
	}
	metrics.DocumentsUploadedTotal.Inc()
	metrics.DocumentUploadBytes.Observe(float64(created.FileSize))
	return c.JSON(http.StatusCreated, toDocumentResponse(created))
}

// List handles GET /cases/:caseId/documents with an optional ?mimeType= filter.
func (h *DocumentHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	l, err := parseListing(c, documentSortable, eqFilter("mimeType"))
	if err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), actor, c.Param("caseId"), l.spec)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(page, l, toDocumentResponse))
}

// Get handles GET /cases/:caseId/documents/:id and returns the metadata.
func (h *DocumentHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	found, err := h.service.Get(c.Request().Context(), actor, c.Param("caseId"), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDocumentResponse(found))
}

// Download handles GET /public/documents/:id and streams the stored file.
func (h *DocumentHandler) Download(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	doc, rc, err := h.service.Open(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	defer rc.Close()

	disposition := mime.FormatMediaType("inline", map[string]string{"filename": doc.FileName})
	if disposition == "" {
		disposition = "inline"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, disposition)
	if doc.FileSize > 0 {
		c.Response().Header().Set(echo.HeaderContentLength, fmt.Sprint(doc.FileSize))
	}
	return c.Stream(http.StatusOK, doc.MimeType, rc)
}

// Delete handles DELETE /cases/:caseId/documents/:id.
func (h *DocumentHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if _, err := h.service.Delete(c.Request().Context(), actor, c.Param("caseId"), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "document deleted"})
}
