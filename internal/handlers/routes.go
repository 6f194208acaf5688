package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/identity"
)

type Handlers struct {
	Jobs         *JobHandler
	Resumes      *ResumeHandler
	Match        *MatchHandler
	Applications *ApplicationHandler
	Settings     *SettingsHandler
}

// Register mounts the API under /api/v1. Everything except /health needs a resolved user.
func Register(r *gin.Engine, db *gorm.DB, h Handlers) {
	api := r.Group("/api/v1")
	api.GET("/health", HealthCheck)

	authed := api.Group("", identity.Middleware(db))
	{
		authed.POST("/jobs/analyze", h.Jobs.AnalyzeJob)
		authed.POST("/jobs/upload", h.Jobs.UploadJob)
		authed.GET("/jobs/search", h.Jobs.SearchJobs)
		authed.GET("/jobs/search/:externalId", h.Jobs.JobDetails)
		authed.GET("/jobs/categories", h.Jobs.Categories)
		authed.POST("/jobs/import", h.Jobs.ImportJob)
		authed.POST("/jobs", h.Jobs.CreateJob)
		authed.GET("/jobs", h.Jobs.ListJobs)
		authed.GET("/jobs/:id", h.Jobs.GetJob)
		authed.PUT("/jobs/:id", h.Jobs.UpdateJob)
		authed.DELETE("/jobs/:id", h.Jobs.DeleteJob)
		authed.GET("/jobs/:id/match-scores", h.Match.JobScores)

		authed.POST("/resumes", h.Resumes.Create)
		authed.GET("/resumes", h.Resumes.List)
		authed.GET("/resumes/default", h.Resumes.Default)
		authed.GET("/resumes/:id", h.Resumes.Get)
		authed.PUT("/resumes/:id", h.Resumes.Replace)
		authed.PATCH("/resumes/:id", h.Resumes.Rename)
		authed.POST("/resumes/:id/default", h.Resumes.SetDefault)
		authed.DELETE("/resumes/:id", h.Resumes.Delete)

		authed.POST("/match-scores", h.Match.Score)
		authed.GET("/match-scores", h.Match.GetScore)

		authed.POST("/cover-letters", h.Match.GenerateLetter)
		authed.GET("/cover-letters", h.Match.ListLetters)
		authed.GET("/cover-letters/:id", h.Match.GetLetter)
		authed.PUT("/cover-letters/:id", h.Match.UpdateLetter)
		authed.DELETE("/cover-letters/:id", h.Match.DeleteLetter)

		authed.POST("/applications", h.Applications.Create)
		authed.GET("/applications", h.Applications.List)
		authed.GET("/applications/:id", h.Applications.Get)
		authed.PUT("/applications/:id", h.Applications.Update)
		authed.DELETE("/applications/:id", h.Applications.Delete)

		authed.POST("/export", h.Applications.Export)
		authed.GET("/exports/*key", h.Applications.Download)

		authed.GET("/settings", h.Settings.Get)
		authed.PUT("/settings", h.Settings.Update)
		authed.POST("/settings/test/llm", h.Settings.TestLLM)
		authed.POST("/settings/test/jobsearch", h.Settings.TestJobSearch)
		authed.GET("/logs", h.Settings.Logs)
	}
}
