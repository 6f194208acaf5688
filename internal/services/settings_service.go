package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/dtos"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/jobsearch"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/llm"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/models"
)

// LLMClientBuilder builds a client from explicit credentials. *llm.Factory satisfies it.
type LLMClientBuilder interface {
	ClientWith(s *models.UserSettings, userID uint) (*llm.Client, error)
}

type SettingsService struct {
	DB     *gorm.DB
	LLM    LLMClientBuilder
	Boards *jobsearch.Factory
}

func NewSettingsService(db *gorm.DB, llmBuilder LLMClientBuilder, boards *jobsearch.Factory) *SettingsService {
	return &SettingsService{DB: db, LLM: llmBuilder, Boards: boards}
}

// Settings returns the caller's settings, or an empty record when none were saved.
func (s *SettingsService) Settings(ctx context.Context, userID uint) (*models.UserSettings, error) {
	var out models.UserSettings
	err := s.DB.WithContext(ctx).First(&out, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.UserSettings{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SettingsService) Update(ctx context.Context, userID uint, req dtos.SettingsUpdateRequest) (*models.UserSettings, error) {
	cur, err := s.Settings(ctx, userID)
	if err != nil {
		return nil, err
	}
	apply(&cur.LLMAPIKey, req.LLMAPIKey)
	apply(&cur.LLMBaseURL, req.LLMBaseURL)
	apply(&cur.LLMModel, req.LLMModel)
	apply(&cur.JobBoardAppID, req.JobBoardAppID)
	apply(&cur.JobBoardAPIKey, req.JobBoardAPIKey)
	apply(&cur.JobBoardCountry, req.JobBoardCountry)
	cur.JobBoardCountry = strings.ToLower(cur.JobBoardCountry)

	// Save upserts on the primary key
	if err := s.DB.WithContext(ctx).Save(cur).Error; err != nil {
		return nil, err
	}
	return cur, nil
}

func apply(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// Masked renders settings for the API with keys reduced to their last four characters.
func (s *SettingsService) Masked(st *models.UserSettings) dtos.SettingsResponse {
	return dtos.SettingsResponse{
		LLMAPIKey:       mask(st.LLMAPIKey),
		LLMBaseURL:      st.LLMBaseURL,
		LLMModel:        st.LLMModel,
		JobBoardAppID:   st.JobBoardAppID,
		JobBoardAPIKey:  mask(st.JobBoardAPIKey),
		JobBoardCountry: st.JobBoardCountry,
		LLMConfigured:   strings.TrimSpace(st.LLMAPIKey) != "",
		SearchEnabled:   s.connector(st).IsConfigured(),
	}
}

func mask(key string) string {
	if key == "" {
		return ""
	}
	r := []rune(key)
	if len(r) <= 4 {
		return "****"
	}
	return "****" + string(r[len(r)-4:])
}

func (s *SettingsService) connector(st *models.UserSettings) *jobsearch.Connector {
	return s.Boards.Connector(jobsearch.Credentials{
		AppID:   st.JobBoardAppID,
		APIKey:  st.JobBoardAPIKey,
		Country: st.JobBoardCountry,
	})
}

// Connector returns the caller's job board connector. It may be unconfigured.
func (s *SettingsService) Connector(ctx context.Context, userID uint) (*jobsearch.Connector, error) {
	st, err := s.Settings(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.connector(st), nil
}

// TestLLM issues a one-token completion with the saved credentials.
// Upstream failures are reported in the result, never as an error.
func (s *SettingsService) TestLLM(ctx context.Context, userID uint) (dtos.ConnectionTestResult, error) {
	st, err := s.Settings(ctx, userID)
	if err != nil {
		return dtos.ConnectionTestResult{}, err
	}
	client, err := s.LLM.ClientWith(st, userID)
	if err != nil {
		return dtos.ConnectionTestResult{Success: false, Message: err.Error()}, nil
	}
	if err := client.Ping(ctx); err != nil {
		return dtos.ConnectionTestResult{Success: false, Message: "LLM connection failed: " + err.Error()}, nil
	}
	return dtos.ConnectionTestResult{Success: true, Message: "LLM connection successful"}, nil
}

// TestJobSearch fetches the category list with the saved credentials.
func (s *SettingsService) TestJobSearch(ctx context.Context, userID uint) (dtos.ConnectionTestResult, error) {
	conn, err := s.Connector(ctx, userID)
	if err != nil {
		return dtos.ConnectionTestResult{}, err
	}
	if !conn.IsConfigured() {
		return dtos.ConnectionTestResult{Success: false, Message: jobsearch.ErrNotConfigured.Error()}, nil
	}
	if _, err := conn.GetCategories(ctx, userID); err != nil {
		return dtos.ConnectionTestResult{Success: false, Message: err.Error()}, nil
	}
	return dtos.ConnectionTestResult{Success: true, Message: "Job search connection successful"}, nil
}
