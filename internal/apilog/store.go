package apilog

import (
	"context"

	"gorm.io/gorm"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/models"
)

// GormStore writes audit records with plain inserts; records are never updated.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) SaveExternalLog(ctx context.Context, entry *models.ExternalLog) error {
	return s.DB.WithContext(ctx).Create(entry).Error
}

// List returns the newest records issued by userID, optionally filtered by service.
func (s *GormStore) List(ctx context.Context, userID uint, service string, limit int) ([]models.ExternalLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := s.DB.WithContext(ctx).Where("user_id = ?", userID)
	if service != "" {
		q = q.Where("service = ?", service)
	}
	var logs []models.ExternalLog
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
