package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/dtos"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/llm"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/services"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/textextract"
)

type JobHandler struct {
	Parser         *services.ParserService
	Jobs           *services.JobService
	Search         *services.SearchService
	MaxUploadBytes int64
	Log            *logrus.Logger
}

func NewJobHandler(parser *services.ParserService, jobs *services.JobService, search *services.SearchService,
	maxUpload int64, log *logrus.Logger) *JobHandler {
	return &JobHandler{Parser: parser, Jobs: jobs, Search: search, MaxUploadBytes: maxUpload, Log: log}
}

// AnalyzeJob is POST /jobs/analyze. It returns the structured fields without saving.
func (h *JobHandler) AnalyzeJob(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	call := inbound(c, h.Log, llm.ServiceName)

	var req dtos.JobAnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	parsed, err := h.Parser.Parse(c.Request.Context(), userID, req.Description)
	if err != nil {
		logFailure(h.Log, call, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parsed)
}

// UploadJob is POST /jobs/upload. The multipart "file" field is converted to text and parsed.
func (h *JobHandler) UploadJob(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fh.Size > h.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("file exceeds %d bytes", h.MaxUploadBytes)})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.MaxUploadBytes))
	if err != nil {
		respondError(c, err)
		return
	}

	text, err := textextract.FromFile(fh.Filename, data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	parsed, err := h.Parser.Parse(c.Request.Context(), userID, text)
	if err != nil {
		h.Log.WithFields(logrus.Fields{"user_id": userID, "file": filepath.Base(fh.Filename)}).
			WithError(err).Warn("uploaded job could not be analyzed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"description": text, "parsed": parsed})
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dtos.JobCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	job, err := h.Jobs.CreateJob(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) ListJobs(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	jobs, err := h.Jobs.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *JobHandler) GetJob(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	job, err := h.Jobs.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dtos.JobUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	job, err := h.Jobs.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Jobs.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SearchJobs is GET /jobs/search.
func (h *JobHandler) SearchJobs(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var q dtos.JobSearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.Search.Search(c.Request.Context(), userID, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *JobHandler) JobDetails(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	externalID := strings.TrimSpace(c.Param("externalId"))
	job, err := h.Search.Details(c.Request.Context(), userID, externalID)
	if err != nil {
		respondError(c, err)
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) Categories(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cats, err := h.Search.Categories(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

// ImportJob is POST /jobs/import. 201 when a posting was created, 200 when it was already tracked.
func (h *JobHandler) ImportJob(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dtos.JobImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	job, created, err := h.Search.Import(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, job)
}
