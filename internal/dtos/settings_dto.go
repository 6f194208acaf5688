package dtos

// SettingsResponse never carries a raw key, only a masked hint.
type SettingsResponse struct {
	LLMAPIKey       string `json:"llmApiKey"`
	LLMBaseURL      string `json:"llmBaseUrl"`
	LLMModel        string `json:"llmModel"`
	JobBoardAppID   string `json:"jobBoardAppId"`
	JobBoardAPIKey  string `json:"jobBoardApiKey"`
	JobBoardCountry string `json:"jobBoardCountry"`
	LLMConfigured   bool   `json:"llmConfigured"`
	SearchEnabled   bool   `json:"searchConfigured"`
}

// SettingsUpdateRequest leaves nil fields unchanged; an empty string clears a value.
type SettingsUpdateRequest struct {
	LLMAPIKey       *string `json:"llmApiKey"`
	LLMBaseURL      *string `json:"llmBaseUrl"`
	LLMModel        *string `json:"llmModel"`
	JobBoardAppID   *string `json:"jobBoardAppId"`
	JobBoardAPIKey  *string `json:"jobBoardApiKey"`
	JobBoardCountry *string `json:"jobBoardCountry"`
}

type ConnectionTestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
