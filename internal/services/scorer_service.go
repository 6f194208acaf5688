package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/llm"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/models"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/resume"
)

const (
	insufficientResume = "Insufficient data: the resume has no basics, work history or skills to compare."
	insufficientJob    = "Insufficient data: the job posting has no description or tech stack to compare."
)

const matchScorePrompt = `
You are a technical recruiter scoring how well a candidate fits a job.

### CANDIDATE SKILLS:
%s

### CANDIDATE EXPERIENCE:
%s

### CANDIDATE LOCATION:
%s

### JOB:
Title: %s
Company: %s
Tech stack: %s
Soft skills: %s
Experience required: %s
Location: %s
Description:
%s

### INSTRUCTIONS:
Score each dimension independently as an integer from 0 to 100.
If either side has too little information to judge, return 0 for every score and say
"Insufficient data" in the recommendations.
Return a single JSON object only:
{
    "overallScore": 0,
    "technicalScore": 0,
    "experienceScore": 0,
    "softSkillsScore": 0,
    "locationScore": 0,
    "recommendations": ["short, actionable advice for the candidate"]
}
`

type scoreReply struct {
	OverallScore    llm.Number `json:"overallScore"`
	TechnicalScore  llm.Number `json:"technicalScore"`
	ExperienceScore llm.Number `json:"experienceScore"`
	SoftSkillsScore llm.Number `json:"softSkillsScore"`
	LocationScore   llm.Number `json:"locationScore"`
	Recommendations llm.List   `json:"recommendations"`
}

// ScorerService rates a resume against a job posting. One stored score per pair.
type ScorerService struct {
	DB      *gorm.DB
	LLM     llm.Provider
	Resumes *ResumeService
	Jobs    *JobService
	Log     *logrus.Logger
}

func NewScorerService(db *gorm.DB, provider llm.Provider, resumes *ResumeService, jobs *JobService, log *logrus.Logger) *ScorerService {
	return &ScorerService{DB: db, LLM: provider, Resumes: resumes, Jobs: jobs, Log: log}
}

// Score computes and upserts the score for the pair. Empty inputs short-circuit to an
// all-zero score without calling the model.
func (s *ScorerService) Score(ctx context.Context, userID, resumeID, jobID uint) (*models.MatchScore, error) {
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

	score := &models.MatchScore{ResumeID: resumeID, JobID: jobID}
	switch {
	case doc.IsEmpty():
		score.Recommendations = []string{insufficientResume}
	case strings.TrimSpace(job.Description) == "" && len(job.TechStack) == 0:
		score.Recommendations = []string{insufficientJob}
	default:
		if err := s.rate(ctx, userID, doc, job, score); err != nil {
			return nil, err
		}
	}

	if err := s.upsert(ctx, score); err != nil {
		return nil, err
	}
	return s.get(ctx, resumeID, jobID)
}

func (s *ScorerService) rate(ctx context.Context, userID uint, doc *resume.Document, job *models.JobPosting, out *models.MatchScore) error {
	client, err := s.LLM.ClientFor(ctx, userID)
	if err != nil {
		return &ScoringError{Err: err}
	}

	desc := job.Description
	if r := []rune(desc); len(r) > maxJobTextRunes {
		desc = string(r[:maxJobTextRunes])
	}
	prompt := fmt.Sprintf(matchScorePrompt,
		orNone(strings.Join(doc.SkillNames(), ", ")),
		orNone(strings.Join(doc.Highlights(), "\n")),
		orNone(doc.Location()),
		job.Title, orNone(job.Company),
		orNone(strings.Join(job.TechStack, ", ")),
		orNone(strings.Join(job.SoftSkills, ", ")),
		orNone(job.ExperienceYears),
		orNone(job.Location),
		orNone(desc),
	)

	resp, err := client.CompleteJSON(ctx, prompt)
	if err != nil {
		s.Log.WithFields(logrus.Fields{"user_id": userID, "job_id": job.ID}).Warnf("match scoring call failed: %v", err)
		return &ScoringError{Err: err}
	}
	reply, err := llm.DecodeObject[scoreReply](resp)
	if err != nil {
		s.Log.WithFields(logrus.Fields{"user_id": userID, "job_id": job.ID}).Warnf("match scoring reply unparseable: %v", err)
		return &ScoringError{Err: err}
	}

	out.OverallScore = percent(reply.OverallScore)
	out.TechnicalScore = percent(reply.TechnicalScore)
	out.ExperienceScore = percent(reply.ExperienceScore)
	out.SoftSkillsScore = percent(reply.SoftSkillsScore)
	out.LocationScore = percent(reply.LocationScore)
	out.Recommendations = nonNil(reply.Recommendations)
	return nil
}

// upsert overwrites the existing row for the pair. Concurrent writers: last one wins.
func (s *ScorerService) upsert(ctx context.Context, score *models.MatchScore) error {
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "resume_id"}, {Name: "job_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"overall_score", "technical_score", "experience_score",
			"soft_skills_score", "location_score", "recommendations", "updated_at",
		}),
	}).Create(score).Error
}

func (s *ScorerService) get(ctx context.Context, resumeID, jobID uint) (*models.MatchScore, error) {
	var out models.MatchScore
	err := s.DB.WithContext(ctx).Where("resume_id = ? AND job_id = ?", resumeID, jobID).First(&out).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

// Get returns the stored score for a pair the caller owns.
func (s *ScorerService) Get(ctx context.Context, userID, resumeID, jobID uint) (*models.MatchScore, error) {
	if _, err := s.Resumes.Get(ctx, userID, resumeID); err != nil {
		return nil, err
	}
	if _, err := s.Jobs.Get(ctx, userID, jobID); err != nil {
		return nil, err
	}
	return s.get(ctx, resumeID, jobID)
}

// ListForJob returns every stored score for one of the caller's jobs, best first.
func (s *ScorerService) ListForJob(ctx context.Context, userID, jobID uint) ([]models.MatchScore, error) {
	if _, err := s.Jobs.Get(ctx, userID, jobID); err != nil {
		return nil, err
	}
	var out []models.MatchScore
	err := s.DB.WithContext(ctx).Where("job_id = ?", jobID).Order("overall_score DESC").Find(&out).Error
	return out, err
}

// percent rounds and clamps a model-reported score into 0..100.
func percent(n llm.Number) int {
	v := float64(n)
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Max(0, math.Min(100, math.Round(v))))
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}
