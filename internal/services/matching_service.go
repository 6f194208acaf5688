package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/jobsearch"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/models"
)

// MatcherService decides whether a search result is already tracked as a posting.
type MatcherService struct {
	DB *gorm.DB
}

func NewMatcherService(db *gorm.DB) *MatcherService {
	return &MatcherService{DB: db}
}

// FindExistingJob matches on the board's id first, then on company and title containment.
// A result carrying an id never falls back onto a posting that holds a different id from
// the same board; those are separate listings.
func (s *MatcherService) FindExistingJob(ctx context.Context, userID uint, r jobsearch.JobResult) (*models.JobPosting, error) {
	if r.ID != "" {
		var job models.JobPosting
		err := s.DB.WithContext(ctx).
			Where("user_id = ? AND source = ? AND external_id = ?", userID, r.Source, r.ID).
			Limit(1).Find(&job).Error
		if err != nil {
			return nil, err
		}
		if job.ID != 0 {
			return &job, nil
		}
	}

	resultCompany := strings.ToLower(strings.TrimSpace(r.Company))
	resultTitle := strings.ToLower(strings.TrimSpace(r.Title))
	if len(resultCompany) < 3 || resultTitle == "" {
		return nil, nil
	}

	// TODO: narrow this with a LOWER(company) index once users track thousands of postings
	var jobs []models.JobPosting
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&jobs).Error; err != nil {
		return nil, err
	}
	for i := range jobs {
		if r.ID != "" && jobs[i].ExternalID != "" && jobs[i].Source == r.Source {
			continue
		}
		company := strings.ToLower(strings.TrimSpace(jobs[i].Company))
		// short names like "X" or "Go" would match everything
		if len(company) < 3 {
			continue
		}
		if !strings.Contains(resultCompany, company) && !strings.Contains(company, resultCompany) {
			continue
		}
		title := strings.ToLower(strings.TrimSpace(jobs[i].Title))
		if title == "" {
			continue
		}
		if title == resultTitle || strings.Contains(title, resultTitle) || strings.Contains(resultTitle, title) {
			return &jobs[i], nil
		}
	}
	return nil, nil
}
