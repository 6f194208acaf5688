package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/dtos"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/models"
)

type JobService struct {
	DB *gorm.DB
}

func NewJobService(db *gorm.DB) *JobService {
	return &JobService{
		DB: db,
	}
}

func (s *JobService) CreateJob(ctx context.Context, userID uint, req *dtos.JobCreationRequest) (*models.JobPosting, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalid("job title is required")
	}
	job := &models.JobPosting{
		UserID:          userID,
		Title:           title,
		Company:         strings.TrimSpace(req.Company),
		Description:     req.Description,
		TechStack:       cleanList(req.TechStack),
		SoftSkills:      cleanList(req.SoftSkills),
		ExperienceYears: strings.TrimSpace(req.ExperienceYears),
		Location:        strings.TrimSpace(req.Location),
		EmploymentType:  strings.TrimSpace(req.EmploymentType),
		URL:             strings.TrimSpace(req.URL),
	}
	job.Parsed = hasStructuredFields(job)

	if err := s.DB.WithContext(ctx).Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobService) List(ctx context.Context, userID uint) ([]models.JobPosting, error) {
	var jobs []models.JobPosting
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

func (s *JobService) Get(ctx context.Context, userID, id uint) (*models.JobPosting, error) {
	var job models.JobPosting
	if err := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&job).Error; err != nil {
		return nil, notFound(err)
	}
	return &job, nil
}

// Update applies a manual edit. Structured fields are not checked against the description.
func (s *JobService) Update(ctx context.Context, userID, id uint, req *dtos.JobUpdateRequest) (*models.JobPosting, error) {
	job, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		if t == "" {
			return nil, invalid("job title is required")
		}
		job.Title = t
	}
	apply(&job.Company, req.Company)
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.TechStack != nil {
		job.TechStack = cleanList(*req.TechStack)
	}
	if req.SoftSkills != nil {
		job.SoftSkills = cleanList(*req.SoftSkills)
	}
	apply(&job.ExperienceYears, req.ExperienceYears)
	apply(&job.Location, req.Location)
	apply(&job.EmploymentType, req.EmploymentType)
	apply(&job.URL, req.URL)
	job.Parsed = job.Parsed || hasStructuredFields(job)

	if err := s.DB.WithContext(ctx).Save(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobService) Delete(ctx context.Context, userID, id uint) error {
	res := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.JobPosting{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func hasStructuredFields(j *models.JobPosting) bool {
	return len(j.TechStack) > 0 || len(j.SoftSkills) > 0 ||
		j.ExperienceYears != "" || j.Location != "" || j.EmploymentType != ""
}

func cleanList(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		k := strings.ToLower(s)
		if s == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}
