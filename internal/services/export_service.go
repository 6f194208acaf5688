package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/dtos"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/export"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/models"
)

// ExportResult is a rendered package ready to send to the client.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	// Ref is the archive key when the zip was stored, otherwise empty.
	Ref string
}

type ExportService struct {
	DB           *gorm.DB
	Resumes      *ResumeService
	Jobs         *JobService
	Letters      *CoverLetterService
	Applications *ApplicationService
	Store        export.Store
	Log          *logrus.Logger
	Now          func() time.Time
}

func NewExportService(db *gorm.DB, resumes *ResumeService, jobs *JobService, letters *CoverLetterService,
	apps *ApplicationService, store export.Store, log *logrus.Logger) *ExportService {
	return &ExportService{
		DB:           db,
		Resumes:      resumes,
		Jobs:         jobs,
		Letters:      letters,
		Applications: apps,
		Store:        store,
		Log:          log,
		Now:          time.Now,
	}
}

// Export bundles the resume, job and cover letter. Without an explicit letter id the
// pair's stored letter is used when there is one. Zip archives are also stored when a
// store is configured, and the application's export reference is updated separately.
func (s *ExportService) Export(ctx context.Context, userID uint, req dtos.ExportRequest) (*ExportResult, error) {
	format := req.Format
	if format == "" {
		format = export.FormatZip
	}
	if format != export.FormatZip && format != export.FormatJSON {
		return nil, &ValidationError{Message: export.ErrUnknownFormat.Error()}
	}

	r, err := s.Resumes.Get(ctx, userID, req.ResumeID)
	if err != nil {
		return nil, err
	}
	job, err := s.Jobs.Get(ctx, userID, req.JobID)
	if err != nil {
		return nil, err
	}
	letter, err := s.letter(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	var app *models.Application
	if req.ApplicationID != nil {
		if app, err = s.Applications.Get(ctx, userID, *req.ApplicationID); err != nil {
			return nil, err
		}
	}
	score, err := s.score(ctx, r.ID, job.ID)
	if err != nil {
		return nil, err
	}

	bundle, err := export.Build(r, job, letter, score, s.Now())
	if err != nil {
		return nil, err
	}
	base := fileBase(r.Name, job.Company, job.Title)

	if format == export.FormatJSON {
		data, err := json.MarshalIndent(bundle, "", "  ")
		if err != nil {
			return nil, err
		}
		return &ExportResult{Filename: base + ".json", ContentType: "application/json", Data: data}, nil
	}

	var buf bytes.Buffer
	if err := export.WriteZip(&buf, bundle); err != nil {
		return nil, fmt.Errorf("failed to build archive: %w", err)
	}
	out := &ExportResult{Filename: base + ".zip", ContentType: "application/zip", Data: buf.Bytes()}

	if s.Store != nil {
		key := export.ObjectKey(userID)
		if err := s.Store.Put(ctx, key, out.Data, out.ContentType); err != nil {
			return nil, fmt.Errorf("failed to store export: %w", err)
		}
		out.Ref = key
		if app != nil {
			if err := s.Applications.SetExportRef(ctx, userID, app.ID, key); err != nil {
				s.Log.WithFields(logrus.Fields{"user_id": userID, "application_id": app.ID}).
					Warnf("export stored but application not updated: %v", err)
			}
		}
	}
	return out, nil
}

// Download returns a previously stored archive owned by the caller.
func (s *ExportService) Download(ctx context.Context, userID uint, key string) ([]byte, error) {
	if s.Store == nil {
		return nil, ErrNotFound
	}
	if !export.OwnedBy(key, userID) {
		return nil, ErrNotFound
	}
	data, err := s.Store.Get(ctx, key)
	if errors.Is(err, export.ErrObjectNotFound) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *ExportService) letter(ctx context.Context, userID uint, req dtos.ExportRequest) (*models.CoverLetter, error) {
	if req.CoverLetterID != nil {
		l, err := s.Letters.Get(ctx, userID, *req.CoverLetterID)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
	l, err := s.Letters.ForPair(ctx, userID, req.ResumeID, req.JobID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return l, err
}

func (s *ExportService) score(ctx context.Context, resumeID, jobID uint) (*models.MatchScore, error) {
	var ms models.MatchScore
	err := s.DB.WithContext(ctx).Where("resume_id = ? AND job_id = ?", resumeID, jobID).Limit(1).Find(&ms).Error
	if err != nil {
		return nil, err
	}
	if ms.ID == 0 {
		return nil, nil
	}
	return &ms, nil
}

var unsafeName = regexp.MustCompile(`[^a-z0-9]+`)

func fileBase(parts ...string) string {
	var kept []string
	for _, p := range parts {
		p = strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(p), "-"), "-")
		if p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return "application"
	}
	return strings.Join(kept, "_")
}
