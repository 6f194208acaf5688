package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/dtos"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/models"
)

type ApplicationService struct {
	DB      *gorm.DB
	Resumes *ResumeService
	Jobs    *JobService
	Letters *CoverLetterService
	Now     func() time.Time
}

func NewApplicationService(db *gorm.DB, resumes *ResumeService, jobs *JobService, letters *CoverLetterService) *ApplicationService {
	return &ApplicationService{DB: db, Resumes: resumes, Jobs: jobs, Letters: letters, Now: time.Now}
}

func (s *ApplicationService) Create(ctx context.Context, userID uint, req dtos.ApplicationRequest) (*models.Application, error) {
	if _, err := s.Resumes.Get(ctx, userID, req.ResumeID); err != nil {
		return nil, err
	}
	if _, err := s.Jobs.Get(ctx, userID, req.JobID); err != nil {
		return nil, err
	}
	if req.CoverLetterID != nil {
		if _, err := s.Letters.Get(ctx, userID, *req.CoverLetterID); err != nil {
			return nil, err
		}
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status == "" {
		status = models.StatusDraft
	}
	if !models.ValidApplicationStatus(status) {
		return nil, invalid("unknown application status %q", req.Status)
	}

	app := &models.Application{
		UserID:        userID,
		ResumeID:      req.ResumeID,
		JobID:         req.JobID,
		CoverLetterID: req.CoverLetterID,
		Status:        status,
		Notes:         req.Notes,
	}
	s.stampApplied(app)
	if err := s.DB.WithContext(ctx).Create(app).Error; err != nil {
		return nil, err
	}
	return app, nil
}

// List returns the caller's applications, newest first, optionally filtered by status.
func (s *ApplicationService) List(ctx context.Context, userID uint, status string) ([]models.Application, error) {
	q := s.DB.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []models.Application
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *ApplicationService) Get(ctx context.Context, userID, id uint) (*models.Application, error) {
	var app models.Application
	if err := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&app).Error; err != nil {
		return nil, notFound(err)
	}
	return &app, nil
}

func (s *ApplicationService) Update(ctx context.Context, userID, id uint, req dtos.ApplicationUpdateRequest) (*models.Application, error) {
	app, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if req.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*req.Status))
		if !models.ValidApplicationStatus(status) {
			return nil, invalid("unknown application status %q", *req.Status)
		}
		app.Status = status
	}
	if req.Notes != nil {
		app.Notes = *req.Notes
	}
	if req.CoverLetterID != nil {
		if _, err := s.Letters.Get(ctx, userID, *req.CoverLetterID); err != nil {
			return nil, err
		}
		app.CoverLetterID = req.CoverLetterID
	}
	s.stampApplied(app)

	if err := s.DB.WithContext(ctx).Save(app).Error; err != nil {
		return nil, err
	}
	return app, nil
}

// SetExportRef records where the exported package was stored.
func (s *ApplicationService) SetExportRef(ctx context.Context, userID, id uint, ref string) error {
	res := s.DB.WithContext(ctx).Model(&models.Application{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("export_ref", ref)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ApplicationService) Delete(ctx context.Context, userID, id uint) error {
	res := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Application{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// stampApplied sets AppliedAt the first time the status becomes applied.
func (s *ApplicationService) stampApplied(app *models.Application) {
	if app.Status == models.StatusApplied && app.AppliedAt == nil {
		now := s.Now()
		app.AppliedAt = &now
	}
}
