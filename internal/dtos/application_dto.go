package dtos

type ApplicationRequest struct {
	ResumeID      uint   `json:"resumeId" binding:"required"`
	JobID         uint   `json:"jobId" binding:"required"`
	CoverLetterID *uint  `json:"coverLetterId"`
	Status        string `json:"status" binding:"omitempty,oneof=draft applied interviewing offered rejected"`
	Notes         string `json:"notes"`
}

// ApplicationUpdateRequest changes only the fields that are set.
type ApplicationUpdateRequest struct {
	CoverLetterID *uint   `json:"coverLetterId"`
	Status        *string `json:"status" binding:"omitempty,oneof=draft applied interviewing offered rejected"`
	Notes         *string `json:"notes"`
}

type ExportRequest struct {
	ResumeID      uint   `json:"resumeId" binding:"required"`
	JobID         uint   `json:"jobId" binding:"required"`
	CoverLetterID *uint  `json:"coverLetterId"`
	ApplicationID *uint  `json:"applicationId"`
	Format        string `json:"format" binding:"omitempty,oneof=zip json"`
}
