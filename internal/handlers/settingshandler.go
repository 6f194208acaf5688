package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/apilog"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/dtos"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/services"
)

type SettingsHandler struct {
	Settings *services.SettingsService
	Audit    *apilog.GormStore
}

func NewSettingsHandler(settings *services.SettingsService, audit *apilog.GormStore) *SettingsHandler {
	return &SettingsHandler{Settings: settings, Audit: audit}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	st, err := h.Settings.Settings(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Settings.Masked(st))
}

// Update is PUT /settings. Omitted fields keep their value; "" clears one.
func (h *SettingsHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dtos.SettingsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	st, err := h.Settings.Update(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Settings.Masked(st))
}

// TestLLM and TestJobSearch answer 200 with {success, message} whatever the upstream says.
func (h *SettingsHandler) TestLLM(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	res, err := h.Settings.TestLLM(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *SettingsHandler) TestJobSearch(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	res, err := h.Settings.TestJobSearch(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Logs is GET /logs?service=&limit=, the caller's outbound call audit.
func (h *SettingsHandler) Logs(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}
	logs, err := h.Audit.List(c.Request.Context(), userID, c.Query("service"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
