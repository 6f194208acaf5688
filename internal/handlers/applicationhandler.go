package handlers

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/dtos"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/services"
)

// ExportRefHeader carries the archive key of a stored zip export.
const ExportRefHeader = "X-Export-Ref"

type ApplicationHandler struct {
	Applications *services.ApplicationService
	Exports      *services.ExportService
}

func NewApplicationHandler(apps *services.ApplicationService, exports *services.ExportService) *ApplicationHandler {
	return &ApplicationHandler{Applications: apps, Exports: exports}
}

func (h *ApplicationHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dtos.ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	app, err := h.Applications.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

// List is GET /applications, optionally filtered by ?status=.
func (h *ApplicationHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	apps, err := h.Applications.List(c.Request.Context(), userID, strings.TrimSpace(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

func (h *ApplicationHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	app, err := h.Applications.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dtos.ApplicationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	app, err := h.Applications.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Applications.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Export is POST /export. The package is returned as an attachment.
func (h *ApplicationHandler) Export(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dtos.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.Exports.Export(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	if out.Ref != "" {
		c.Header(ExportRefHeader, out.Ref)
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	c.Data(http.StatusOK, out.ContentType, out.Data)
}

// Download is GET /exports/*key for a previously stored archive.
func (h *ApplicationHandler) Download(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	key := "exports/" + strings.TrimPrefix(c.Param("key"), "/")
	data, err := h.Exports.Download(c.Request.Context(), userID, key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(key)))
	c.Data(http.StatusOK, "application/zip", data)
}
