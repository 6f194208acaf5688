package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/dtos"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/llm"
)

// maxJobTextRunes bounds the description embedded in the prompt.
const maxJobTextRunes = 20000

const jobExtractionPrompt = `
You are an expert job data extraction agent. Analyze the job posting below and extract structured data.

### INSTRUCTIONS:
1. Identify the core job details.
2. Ignore navigation menus, footers, "similar jobs" lists and advertisements.
3. Return a single JSON object only. Do not wrap it in markdown code blocks.

### OUTPUT SCHEMA:
{
    "title": "Job title (e.g. Senior Backend Engineer)",
    "company": "Company name",
    "techStack": ["technologies", "languages", "frameworks", "tools"],
    "softSkills": ["soft skills", "e.g. communication"],
    "experienceYears": "Required experience exactly as written (e.g. '3+ years')",
    "location": "Job location or 'Remote'",
    "employmentType": "e.g. full-time, part-time, contract"
}

### CONSTRAINT:
If a piece of information is missing use an empty string or an empty array. Do not guess.

### JOB POSTING:
%s
`

type parsedJob struct {
	Title           llm.Text `json:"title"`
	Company         llm.Text `json:"company"`
	TechStack       llm.List `json:"techStack"`
	SoftSkills      llm.List `json:"softSkills"`
	ExperienceYears llm.Text `json:"experienceYears"`
	Location        llm.Text `json:"location"`
	EmploymentType  llm.Text `json:"employmentType"`
}

// ParserService turns free-text job postings into structured fields with one model call.
type ParserService struct {
	LLM llm.Provider
	Log *logrus.Logger
}

func NewParserService(provider llm.Provider, log *logrus.Logger) *ParserService {
	return &ParserService{LLM: provider, Log: log}
}

// Parse never fails because a field is missing; it fails with AnalysisError when the
// call errors or the reply is not a JSON object.
func (s *ParserService) Parse(ctx context.Context, userID uint, raw string) (*dtos.ParsedJob, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, invalid("job description is required")
	}
	if r := []rune(raw); len(r) > maxJobTextRunes {
		raw = string(r[:maxJobTextRunes])
	}

	client, err := s.LLM.ClientFor(ctx, userID)
	if err != nil {
		return nil, &AnalysisError{Err: err}
	}

	resp, err := client.CompleteJSON(ctx, fmt.Sprintf(jobExtractionPrompt, raw))
	if err != nil {
		s.Log.WithFields(logrus.Fields{"user_id": userID}).Warnf("job analysis call failed: %v", err)
		return nil, &AnalysisError{Err: err}
	}

	p, err := llm.DecodeObject[parsedJob](resp)
	if err != nil {
		s.Log.WithFields(logrus.Fields{"user_id": userID}).Warnf("job analysis reply unparseable: %v", err)
		return nil, &AnalysisError{Err: err}
	}

	return &dtos.ParsedJob{
		Title:           string(p.Title),
		Company:         string(p.Company),
		TechStack:       nonNil(p.TechStack),
		SoftSkills:      nonNil(p.SoftSkills),
		ExperienceYears: string(p.ExperienceYears),
		Location:        string(p.Location),
		EmploymentType:  string(p.EmploymentType),
	}, nil
}

func nonNil(l []string) []string {
	if l == nil {
		return []string{}
	}
	return l
}
