package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/dtos"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/jobsearch"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/models"
)

// SearchService proxies the caller's job board and imports results as postings.
type SearchService struct {
	DB       *gorm.DB
	Settings *SettingsService
	Matcher  *MatcherService
}

func NewSearchService(db *gorm.DB, settings *SettingsService, matcher *MatcherService) *SearchService {
	return &SearchService{DB: db, Settings: settings, Matcher: matcher}
}

func (s *SearchService) Search(ctx context.Context, userID uint, q dtos.JobSearchQuery) (*dtos.JobSearchResponse, error) {
	if q.SalaryMin != nil && q.SalaryMax != nil && *q.SalaryMin > *q.SalaryMax {
		return nil, invalid("salaryMin must not exceed salaryMax")
	}
	if q.EmploymentType != "" {
		if _, ok := jobsearch.NormalizeEmploymentType(q.EmploymentType); !ok {
			return nil, &ValidationError{Message: jobsearch.ErrInvalidEmploymentType.Error()}
		}
	}

	page, perPage := q.Page, q.PerPage
	if page <= 0 {
		page = 1
	}
	if page > jobsearch.MaxPage {
		return nil, invalid("page must not exceed %d", jobsearch.MaxPage)
	}
	if perPage <= 0 {
		perPage = jobsearch.DefaultResultsPerPage
	}
	if perPage > jobsearch.MaxResultsPerPage {
		perPage = jobsearch.MaxResultsPerPage
	}

	conn, err := s.Settings.Connector(ctx, userID)
	if err != nil {
		return nil, err
	}
	res, err := conn.SearchJobs(ctx, userID, jobsearch.SearchParams{
		Query:          q.Query,
		Location:       q.Location,
		SalaryMin:      q.SalaryMin,
		SalaryMax:      q.SalaryMax,
		EmploymentType: q.EmploymentType,
		Page:           page,
		ResultsPerPage: perPage,
	})
	if err != nil {
		return nil, err
	}

	return &dtos.JobSearchResponse{
		Jobs:         res.Jobs,
		TotalResults: res.TotalCount,
		Page:         page,
		PerPage:      perPage,
		HasMore:      int64(page)*int64(perPage) < int64(res.TotalCount),
	}, nil
}

// Details returns nil, nil when the board does not know the id.
func (s *SearchService) Details(ctx context.Context, userID uint, externalID string) (*jobsearch.JobResult, error) {
	conn, err := s.Settings.Connector(ctx, userID)
	if err != nil {
		return nil, err
	}
	return conn.GetJobDetails(ctx, userID, externalID)
}

func (s *SearchService) Categories(ctx context.Context, userID uint) ([]jobsearch.Category, error) {
	conn, err := s.Settings.Connector(ctx, userID)
	if err != nil {
		return nil, err
	}
	return conn.GetCategories(ctx, userID)
}

// Import saves a search result as a posting. An already tracked posting is returned
// as-is with created false. A request carrying only the id is completed from the board.
func (s *SearchService) Import(ctx context.Context, userID uint, req dtos.JobImportRequest) (*models.JobPosting, bool, error) {
	result := jobsearch.JobResult{
		ID:             strings.TrimSpace(req.ExternalID),
		Title:          strings.TrimSpace(req.Title),
		Company:        strings.TrimSpace(req.Company),
		Description:    req.Description,
		Location:       strings.TrimSpace(req.Location),
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
		EmploymentType: strings.TrimSpace(req.EmploymentType),
		DatePosted:     req.DatePosted,
		URL:            strings.TrimSpace(req.URL),
		Source:         req.Source,
	}
	if result.Source == "" {
		result.Source = jobsearch.ServiceName
	}

	if result.Title == "" {
		fetched, err := s.Details(ctx, userID, result.ID)
		if err != nil {
			return nil, false, err
		}
		if fetched == nil {
			return nil, false, ErrNotFound
		}
		result = *fetched
	}

	existing, err := s.Matcher.FindExistingJob(ctx, userID, result)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	job := &models.JobPosting{
		UserID:         userID,
		Title:          result.Title,
		Company:        result.Company,
		Description:    result.Description,
		Location:       result.Location,
		EmploymentType: result.EmploymentType,
		TechStack:      []string{},
		SoftSkills:     []string{},
		Source:         result.Source,
		ExternalID:     result.ID,
		URL:            result.URL,
	}
	if err := s.DB.WithContext(ctx).Create(job).Error; err != nil {
		return nil, false, err
	}
	return job, true, nil
}
