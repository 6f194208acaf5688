package main

import (
	"context"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/apilog"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/config"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/database"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/export"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/handlers"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/identity"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/jobsearch"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/llm"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/logger"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/services"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	// 2. Database Connection
	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal(err)
	}

	// 3. Outbound calls: every third-party request goes through the audit logger
	auditStore := apilog.NewGormStore(db)
	audit := apilog.New(&http.Client{}, auditStore, log)

	settings := services.NewSettingsService(db, nil, jobsearch.NewFactory(cfg.JobBoard.BaseURL, cfg.JobBoard.Country, audit))
	llmFactory := llm.NewFactory(cfg.LLM, settings, audit)
	settings.LLM = llmFactory

	store, err := export.NewStore(context.Background(), cfg.Export)
	if err != nil {
		log.Fatalf("failed to set up export store: %v", err)
	}
	if store == nil {
		log.Warn("no export store configured, zip exports will not be archived")
	}

	// 4. Core services
	resumes := services.NewResumeService(db)
	jobs := services.NewJobService(db)
	parser := services.NewParserService(llmFactory, log)
	scorer := services.NewScorerService(db, llmFactory, resumes, jobs, log)
	letters := services.NewCoverLetterService(db, llmFactory, resumes, jobs, log)
	search := services.NewSearchService(db, settings, services.NewMatcherService(db))
	apps := services.NewApplicationService(db, resumes, jobs, letters)
	exports := services.NewExportService(db, resumes, jobs, letters, apps, store, log)

	// 5. Router & CORS
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), logger.GinMiddleware(log))

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowOrigins) == 1 && cfg.AllowOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", identity.HeaderName}
	corsCfg.ExposeHeaders = []string{"Content-Disposition", handlers.ExportRefHeader}
	r.Use(cors.New(corsCfg))

	// 6. Routes
	handlers.Register(r, db, handlers.Handlers{
		Jobs:         handlers.NewJobHandler(parser, jobs, search, cfg.MaxUploadBytes, log),
		Resumes:      handlers.NewResumeHandler(resumes),
		Match:        handlers.NewMatchHandler(scorer, letters, log),
		Applications: handlers.NewApplicationHandler(apps, exports),
		Settings:     handlers.NewSettingsHandler(settings, auditStore),
	})

	log.Infof("server starting on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Errorf("server failed to start: %v", err)
		os.Exit(1)
	}
}
