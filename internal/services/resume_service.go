package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/dtos"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/export"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/models"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/resume"
)

type ResumeService struct {
	DB *gorm.DB
}

func NewResumeService(db *gorm.DB) *ResumeService {
	return &ResumeService{DB: db}
}

func (s *ResumeService) Create(ctx context.Context, userID uint, req dtos.ResumeRequest) (*models.Resume, error) {
	if err := validateResume(req.Name, req.JSONData); err != nil {
		return nil, err
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Resume{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}

	r := &models.Resume{
		UserID: userID,
		Name:   strings.TrimSpace(req.Name),
		Theme:  theme(req.Theme),
		Data:   datatypes.JSON(req.JSONData),
	}
	if err := s.DB.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}

	// the first resume becomes the default
	if req.IsDefault || count == 0 {
		if err := s.SetDefault(ctx, userID, r.ID); err != nil {
			return nil, err
		}
		r.IsDefault = true
	}
	return r, nil
}

func (s *ResumeService) List(ctx context.Context, userID uint) ([]models.Resume, error) {
	var out []models.Resume
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, updated_at DESC").
		Find(&out).Error
	return out, err
}

func (s *ResumeService) Get(ctx context.Context, userID, id uint) (*models.Resume, error) {
	var r models.Resume
	if err := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&r).Error; err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

// Default returns the caller's default resume.
func (s *ResumeService) Default(ctx context.Context, userID uint) (*models.Resume, error) {
	var r models.Resume
	err := s.DB.WithContext(ctx).Where("user_id = ? AND is_default = ?", userID, true).First(&r).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

// Replace overwrites the whole document. There is no field-level patching.
func (s *ResumeService) Replace(ctx context.Context, userID, id uint, req dtos.ResumeRequest) (*models.Resume, error) {
	if err := validateResume(req.Name, req.JSONData); err != nil {
		return nil, err
	}
	r, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	r.Name = strings.TrimSpace(req.Name)
	r.Theme = theme(req.Theme)
	r.Data = datatypes.JSON(req.JSONData)
	if err := s.DB.WithContext(ctx).Save(r).Error; err != nil {
		return nil, err
	}
	if req.IsDefault && !r.IsDefault {
		if err := s.SetDefault(ctx, userID, r.ID); err != nil {
			return nil, err
		}
		r.IsDefault = true
	}
	return r, nil
}

func (s *ResumeService) Rename(ctx context.Context, userID, id uint, name string) (*models.Resume, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("resume name is required")
	}
	r, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(r).Update("name", name).Error; err != nil {
		return nil, err
	}
	r.Name = name
	return r, nil
}

// SetDefault marks one resume as default and clears the flag on the others.
func (s *ResumeService) SetDefault(ctx context.Context, userID, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Resume{}).Where("id = ? AND user_id = ?", id, userID).Update("is_default", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&models.Resume{}).
			Where("user_id = ? AND id <> ?", userID, id).
			Update("is_default", false).Error
	})
}

func (s *ResumeService) Delete(ctx context.Context, userID, id uint) error {
	res := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Resume{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func validateResume(name string, data []byte) error {
	if strings.TrimSpace(name) == "" {
		return invalid("resume name is required")
	}
	if err := resume.Validate(data); err != nil {
		if errors.Is(err, resume.ErrMissingSections) {
			return &ValidationError{Message: err.Error()}
		}
		return invalid("%v", err)
	}
	// what is saved must be readable by the scorer and the letter generator
	if _, err := resume.Parse(data); err != nil {
		return invalid("%v", err)
	}
	return nil
}

func theme(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if _, ok := export.Themes[t]; !ok {
		return export.DefaultTheme
	}
	return t
}
