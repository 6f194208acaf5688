package dtos

type MatchScoreRequest struct {
	ResumeID uint `json:"resumeId" binding:"required"`
	JobID    uint `json:"jobId" binding:"required"`
}

type CoverLetterRequest struct {
	ResumeID uint   `json:"resumeId" binding:"required"`
	JobID    uint   `json:"jobId" binding:"required"`
	Tone     string `json:"tone" binding:"required,oneof=professional friendly enthusiastic minimal confident casual"`
	Focus    string `json:"focus" binding:"required,oneof=technical leadership project innovation skills experience achievements culture"`
}

type CoverLetterResponse struct {
	ID      uint   `json:"id"`
	Content string `json:"content"`
	Tone    string `json:"tone"`
	Focus   string `json:"focus"`
}

type CoverLetterUpdateRequest struct {
	Content string `json:"content" binding:"required"`
}
