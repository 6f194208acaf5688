package dtos

import "github.com/justsurfingit/Resume-Job-Matcher/internal/jobsearch"

type JobAnalyzeRequest struct {
	Description string `json:"description" binding:"required"`
}

// ParsedJob is the structured result of analysing a job description.
// Every field is present; missing values are empty.
type ParsedJob struct {
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	TechStack       []string `json:"techStack"`
	SoftSkills      []string `json:"softSkills"`
	ExperienceYears string   `json:"experienceYears"`
	Location        string   `json:"location"`
	EmploymentType  string   `json:"employmentType"`
}

type JobCreationRequest struct {
	Title       string `json:"title" binding:"required"`
	Company     string `json:"company"`
	Description string `json:"description"`

	// Optional structured fields, usually copied from a ParsedJob.
	TechStack       []string `json:"techStack"`
	SoftSkills      []string `json:"softSkills"`
	ExperienceYears string   `json:"experienceYears"`
	Location        string   `json:"location"`
	EmploymentType  string   `json:"employmentType"`
	URL             string   `json:"url"`
}

// JobUpdateRequest is a manual edit; nil fields are left alone.
type JobUpdateRequest struct {
	Title           *string   `json:"title"`
	Company         *string   `json:"company"`
	Description     *string   `json:"description"`
	TechStack       *[]string `json:"techStack"`
	SoftSkills      *[]string `json:"softSkills"`
	ExperienceYears *string   `json:"experienceYears"`
	Location        *string   `json:"location"`
	EmploymentType  *string   `json:"employmentType"`
	URL             *string   `json:"url"`
}

type JobSearchQuery struct {
	Query          string `form:"query"`
	Location       string `form:"location"`
	SalaryMin      *int   `form:"salaryMin" binding:"omitempty,min=0"`
	SalaryMax      *int   `form:"salaryMax" binding:"omitempty,min=0"`
	EmploymentType string `form:"employmentType"`
	Page           int    `form:"page" binding:"omitempty,min=1,max=1000"`
	PerPage        int    `form:"perPage" binding:"omitempty,min=1,max=50"`
}

type JobSearchResponse struct {
	Jobs         []jobsearch.JobResult `json:"jobs"`
	TotalResults int                   `json:"totalResults"`
	Page         int                   `json:"page"`
	PerPage      int                   `json:"perPage"`
	HasMore      bool                  `json:"hasMore"`
}

// JobImportRequest imports a search result. When only ExternalID is set the
// details are fetched from the job board first.
type JobImportRequest struct {
	ExternalID     string   `json:"id" binding:"required"`
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Description    string   `json:"description"`
	Location       string   `json:"location"`
	SalaryMin      *float64 `json:"salaryMin"`
	SalaryMax      *float64 `json:"salaryMax"`
	EmploymentType string   `json:"employmentType"`
	DatePosted     string   `json:"datePosted"`
	URL            string   `json:"url"`
	Source         string   `json:"source"`
}
