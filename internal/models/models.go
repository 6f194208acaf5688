package models

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Email string `gorm:"uniqueIndex;not null" json:"email"`
}

// UserSettings carries the per-user upstream credentials. Keys are never echoed back
// unmasked by the API.
type UserSettings struct {
	UserID    uint      `gorm:"primaryKey" json:"userId"`
	UpdatedAt time.Time `json:"updatedAt"`

	LLMAPIKey       string `json:"-"`
	LLMBaseURL      string `json:"llmBaseUrl"`
	LLMModel        string `json:"llmModel"`
	JobBoardAppID   string `json:"jobBoardAppId"`
	JobBoardAPIKey  string `json:"-"`
	JobBoardCountry string `json:"jobBoardCountry"`
}

type Resume struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID    uint           `gorm:"index;not null" json:"userId"`
	Name      string         `gorm:"not null" json:"name"`
	Theme     string         `gorm:"default:'classic'" json:"theme"`
	Data      datatypes.JSON `json:"jsonData"`
	IsDefault bool           `gorm:"default:false" json:"isDefault"`
}

type JobPosting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID      uint   `gorm:"index;not null" json:"userId"`
	Title       string `gorm:"not null" json:"title"`
	Company     string `json:"company"`
	Description string `gorm:"type:text" json:"description"`

	// Structured fields. Parsed is false until they came from the parser or a manual edit.
	Parsed          bool                        `json:"parsed"`
	TechStack       datatypes.JSONSlice[string] `json:"techStack"`
	SoftSkills      datatypes.JSONSlice[string] `json:"softSkills"`
	ExperienceYears string                      `json:"experienceYears"`
	Location        string                      `json:"location"`
	EmploymentType  string                      `json:"employmentType"`

	// Set when imported from a job search result.
	Source     string `json:"source,omitempty"`
	ExternalID string `gorm:"index" json:"externalId,omitempty"`
	URL        string `json:"url,omitempty"`
}

// MatchScore holds at most one row per (resume, job) pair; re-analysis overwrites it.
type MatchScore struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ResumeID uint `gorm:"uniqueIndex:idx_match_pair;not null" json:"resumeId"`
	JobID    uint `gorm:"uniqueIndex:idx_match_pair;not null" json:"jobId"`

	OverallScore    int                         `json:"overallScore"`
	TechnicalScore  int                         `json:"technicalScore"`
	ExperienceScore int                         `json:"experienceScore"`
	SoftSkillsScore int                         `json:"softSkillsScore"`
	LocationScore   int                         `json:"locationScore"`
	Recommendations datatypes.JSONSlice[string] `json:"recommendations"`
}

type CoverLetter struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID   uint   `gorm:"index;not null" json:"userId"`
	ResumeID uint   `gorm:"uniqueIndex:idx_letter_pair;not null" json:"resumeId"`
	JobID    uint   `gorm:"uniqueIndex:idx_letter_pair;not null" json:"jobId"`
	Tone     string `json:"tone"`
	Focus    string `json:"focus"`
	Content  string `gorm:"type:text" json:"content"`
}

type Application struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID        uint       `gorm:"index;not null" json:"userId"`
	ResumeID      uint       `gorm:"not null" json:"resumeId"`
	JobID         uint       `gorm:"not null" json:"jobId"`
	CoverLetterID *uint      `json:"coverLetterId"`
	Status        string     `gorm:"default:'draft'" json:"status"`
	Notes         string     `gorm:"type:text" json:"notes"`
	ExportRef     string     `json:"exportRef"`
	AppliedAt     *time.Time `json:"appliedAt"`
}

// ExternalLog is an audit record of one outbound third-party call. Rows are only ever inserted.
type ExternalLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	Service      string         `gorm:"index;not null" json:"service"`
	Endpoint     string         `gorm:"type:text" json:"endpoint"`
	Method       string         `json:"method"`
	RequestData  datatypes.JSON `json:"requestData"`
	ResponseData datatypes.JSON `json:"responseData"`
	StatusCode   int            `json:"statusCode"`
	Success      bool           `json:"success"`
	ErrorMessage *string        `json:"errorMessage"`
	UserID       *uint          `gorm:"index" json:"userId"`
}

// Application statuses.
const (
	StatusDraft        = "draft"
	StatusApplied      = "applied"
	StatusInterviewing = "interviewing"
	StatusOffered      = "offered"
	StatusRejected     = "rejected"
)

func ValidApplicationStatus(s string) bool {
	switch s {
	case StatusDraft, StatusApplied, StatusInterviewing, StatusOffered, StatusRejected:
		return true
	}
	return false
}
