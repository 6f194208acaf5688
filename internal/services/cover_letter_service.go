package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/llm"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/models"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/resume"
)

var (
	Tones   = []string{"professional", "friendly", "enthusiastic", "minimal", "confident", "casual"}
	Focuses = []string{"technical", "leadership", "project", "innovation", "skills", "experience", "achievements", "culture"}
)

var errEmptyLetter = errors.New("model returned an empty letter")

const coverLetterPrompt = `
Write a cover letter for the candidate below applying to %s at %s.

Tone: %s
Focus: emphasise the candidate's %s.

### CANDIDATE:
Name: %s
Headline: %s
Summary: %s
Skills: %s
Experience:
%s

### JOB:
Tech stack: %s
Description:
%s

### RULES:
- Plain text only, no markdown and no placeholders in square brackets.
- Three to five short paragraphs, addressed to the hiring team.
- Only mention experience that appears above.
`

type CoverLetterService struct {
	DB      *gorm.DB
	LLM     llm.Provider
	Resumes *ResumeService
	Jobs    *JobService
	Log     *logrus.Logger
}

func NewCoverLetterService(db *gorm.DB, provider llm.Provider, resumes *ResumeService, jobs *JobService, log *logrus.Logger) *CoverLetterService {
	return &CoverLetterService{DB: db, LLM: provider, Resumes: resumes, Jobs: jobs, Log: log}
}

// Generate writes a letter with one free-text model call and stores it for the pair,
// replacing any earlier letter.
func (s *CoverLetterService) Generate(ctx context.Context, userID, resumeID, jobID uint, tone, focus string) (*models.CoverLetter, error) {
	tone = strings.ToLower(strings.TrimSpace(tone))
	focus = strings.ToLower(strings.TrimSpace(focus))
	if !slices.Contains(Tones, tone) {
		return nil, invalid("tone must be one of: %s", strings.Join(Tones, ", "))
	}
	if !slices.Contains(Focuses, focus) {
		return nil, invalid("focus must be one of: %s", strings.Join(Focuses, ", "))
	}

	r, err := s.Resumes.Get(ctx, userID, resumeID)
	if err != nil {
		return nil, err
	}
	job, err := s.Jobs.Get(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}
	doc, err := resume.Parse(r.Data)
	if err != nil {
		return nil, &ValidationError{Message: "stored resume could not be read: " + err.Error()}
	}

	client, err := s.LLM.ClientFor(ctx, userID)
	if err != nil {
		return nil, &GenerationError{Err: err}
	}
	content, err := client.CompleteText(ctx, s.prompt(doc, job, tone, focus))
	if err != nil {
		s.Log.WithFields(logrus.Fields{"user_id": userID, "job_id": jobID}).Warnf("cover letter call failed: %v", err)
		return nil, &GenerationError{Err: err}
	}
	if strings.TrimSpace(content) == "" {
		return nil, &GenerationError{Err: errEmptyLetter}
	}

	letter := &models.CoverLetter{
		UserID:   userID,
		ResumeID: resumeID,
		JobID:    jobID,
		Tone:     tone,
		Focus:    focus,
		Content:  content,
	}
	err = s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "resume_id"}, {Name: "job_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"tone", "focus", "content", "updated_at"}),
	}).Create(letter).Error
	if err != nil {
		return nil, err
	}
	return s.ForPair(ctx, userID, resumeID, jobID)
}

func (s *CoverLetterService) prompt(doc *resume.Document, job *models.JobPosting, tone, focus string) string {
	var name, label, summary string
	if doc.Basics != nil {
		name, label, summary = doc.Basics.Name, doc.Basics.Label, doc.Basics.Summary
	}
	desc := job.Description
	if r := []rune(desc); len(r) > maxJobTextRunes {
		desc = string(r[:maxJobTextRunes])
	}
	return fmt.Sprintf(coverLetterPrompt,
		job.Title, orNone(job.Company),
		tone, focus,
		orNone(name), orNone(label), orNone(summary),
		orNone(strings.Join(doc.SkillNames(), ", ")),
		orNone(strings.Join(doc.Highlights(), "\n")),
		orNone(strings.Join(job.TechStack, ", ")),
		orNone(desc),
	)
}

func (s *CoverLetterService) ForPair(ctx context.Context, userID, resumeID, jobID uint) (*models.CoverLetter, error) {
	var l models.CoverLetter
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND resume_id = ? AND job_id = ?", userID, resumeID, jobID).
		First(&l).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

// List returns the caller's letters, optionally for a single job.
func (s *CoverLetterService) List(ctx context.Context, userID, jobID uint) ([]models.CoverLetter, error) {
	q := s.DB.WithContext(ctx).Where("user_id = ?", userID)
	if jobID != 0 {
		q = q.Where("job_id = ?", jobID)
	}
	var out []models.CoverLetter
	err := q.Order("updated_at DESC").Find(&out).Error
	return out, err
}

func (s *CoverLetterService) Get(ctx context.Context, userID, id uint) (*models.CoverLetter, error) {
	var l models.CoverLetter
	if err := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&l).Error; err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

// UpdateContent stores a user edit. Generated text is never treated as final.
func (s *CoverLetterService) UpdateContent(ctx context.Context, userID, id uint, content string) (*models.CoverLetter, error) {
	if strings.TrimSpace(content) == "" {
		return nil, invalid("cover letter content is required")
	}
	l, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	l.Content = content
	if err := s.DB.WithContext(ctx).Save(l).Error; err != nil {
		return nil, err
	}
	return l, nil
}

func (s *CoverLetterService) Delete(ctx context.Context, userID, id uint) error {
	res := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.CoverLetter{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
