package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/dtos"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/llm"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/services"
)

// MatchHandler serves the two pipeline stages that run on a (resume, job) pair.
type MatchHandler struct {
	Scorer  *services.ScorerService
	Letters *services.CoverLetterService
	Log     *logrus.Logger
}

func NewMatchHandler(scorer *services.ScorerService, letters *services.CoverLetterService, log *logrus.Logger) *MatchHandler {
	return &MatchHandler{Scorer: scorer, Letters: letters, Log: log}
}

// Score is POST /match-scores. Re-scoring a pair overwrites the stored result.
func (h *MatchHandler) Score(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	call := inbound(c, h.Log, llm.ServiceName)

	var req dtos.MatchScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	score, err := h.Scorer.Score(c.Request.Context(), userID, req.ResumeID, req.JobID)
	if err != nil {
		logFailure(h.Log, call, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, score)
}

// GetScore is GET /match-scores?resumeId=&jobId=.
func (h *MatchHandler) GetScore(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	resumeID, err1 := strconv.ParseUint(c.Query("resumeId"), 10, 64)
	jobID, err2 := strconv.ParseUint(c.Query("jobId"), 10, 64)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resumeId and jobId are required"})
		return
	}
	score, err := h.Scorer.Get(c.Request.Context(), userID, uint(resumeID), uint(jobID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, score)
}

// JobScores is GET /jobs/:id/match-scores.
func (h *MatchHandler) JobScores(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	jobID, ok := idParam(c, "id")
	if !ok {
		return
	}
	scores, err := h.Scorer.ListForJob(c.Request.Context(), userID, jobID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, scores)
}

// GenerateLetter is POST /cover-letters.
func (h *MatchHandler) GenerateLetter(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	call := inbound(c, h.Log, llm.ServiceName)

	var req dtos.CoverLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	letter, err := h.Letters.Generate(c.Request.Context(), userID, req.ResumeID, req.JobID, req.Tone, req.Focus)
	if err != nil {
		logFailure(h.Log, call, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.CoverLetterResponse{
		ID:      letter.ID,
		Content: letter.Content,
		Tone:    letter.Tone,
		Focus:   letter.Focus,
	})
}

// ListLetters is GET /cover-letters, optionally filtered by ?jobId=.
func (h *MatchHandler) ListLetters(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var jobID uint64
	if v := c.Query("jobId"); v != "" {
		var err error
		if jobID, err = strconv.ParseUint(v, 10, 64); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid jobId"})
			return
		}
	}
	letters, err := h.Letters.List(c.Request.Context(), userID, uint(jobID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, letters)
}

func (h *MatchHandler) GetLetter(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	letter, err := h.Letters.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, letter)
}

func (h *MatchHandler) UpdateLetter(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dtos.CoverLetterUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	letter, err := h.Letters.UpdateContent(c.Request.Context(), userID, id, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, letter)
}

func (h *MatchHandler) DeleteLetter(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Letters.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
