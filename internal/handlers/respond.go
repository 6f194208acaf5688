package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/apilog"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/identity"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/jobsearch"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/llm"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/services"
)

// HealthCheck is the unauthenticated liveness probe.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// currentUser reads the id placed by identity.Middleware.
func currentUser(c *gin.Context) (uint, bool) {
	id, ok := identity.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
	}
	return id, ok
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
}

// respondError maps service and upstream errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var (
		ve   *services.ValidationError
		ce   *jobsearch.ConnectorError
		ne   *jobsearch.NetworkError
		ae   *services.AnalysisError
		se   *services.ScoringError
		ge   *services.GenerationError
		body = gin.H{"error": err.Error()}
	)

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, llm.ErrNotConfigured), errors.Is(err, jobsearch.ErrNotConfigured):
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, jobsearch.ErrInvalidEmploymentType), errors.Is(err, jobsearch.ErrInvalidPage):
		c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &ce):
		status := http.StatusBadGateway
		if ce.StatusCode == http.StatusTooManyRequests {
			status = http.StatusTooManyRequests
		}
		c.JSON(status, body)
	case errors.As(err, &ne):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": ne.Error(), "detail": ne.Err.Error()})
	case errors.As(err, &ae):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Job analysis failed", "detail": ae.Err.Error()})
	case errors.As(err, &se):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Match scoring failed", "detail": se.Err.Error()})
	case errors.As(err, &ge):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Cover letter generation failed", "detail": ge.Err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, body)
	}
}

// inbound captures the request before binding so a failed pipeline call can be
// logged with what the caller sent.
func inbound(c *gin.Context, log *logrus.Logger, service string) apilog.Call {
	call, err := apilog.CallFromRequest(c, service)
	if err != nil {
		log.WithError(err).Debug("could not capture request body")
	}
	return call
}

func logFailure(log *logrus.Logger, call apilog.Call, err error) {
	entry := log.WithFields(logrus.Fields{
		"service":  call.Service,
		"endpoint": call.Endpoint,
		"method":   call.Method,
	})
	if call.UserID != nil {
		entry = entry.WithField("user_id", *call.UserID)
	}
	if call.RequestData != nil {
		entry = entry.WithField("request", call.RequestData)
	}
	entry.WithError(err).Warn("pipeline call failed")
}
