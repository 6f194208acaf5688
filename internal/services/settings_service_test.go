package services

import (
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/dtos"
)

func TestSettings_UpdateAndMask(t *testing.T) {
	e, _, s := newSearchEnv(t, func(w http.ResponseWriter, r *http.Request) {})

	empty, err := s.Settings(e.ctx, e.user)
	require.NoError(t, err)
	assert.Equal(t, e.user, empty.UserID)
	assert.False(t, s.Masked(empty).LLMConfigured)

	key, model, country := "sk-abcdef123456", "gemini-2.5-pro", " GB "
	_, err = s.Update(e.ctx, e.user, dtos.SettingsUpdateRequest{LLMAPIKey: &key, LLMModel: &model, JobBoardCountry: &country})
	require.NoError(t, err)

	appID := "app"
	got, err := s.Update(e.ctx, e.user, dtos.SettingsUpdateRequest{JobBoardAppID: &appID})
	require.NoError(t, err)
	assert.Equal(t, key, got.LLMAPIKey, "unset fields are kept")
	assert.Equal(t, "gb", got.JobBoardCountry)

	view := s.Masked(got)
	assert.Equal(t, "****3456", view.LLMAPIKey)
	assert.True(t, view.LLMConfigured)
	assert.False(t, view.SearchEnabled, "app id alone is not enough")

	cleared := ""
	got, err = s.Update(e.ctx, e.user, dtos.SettingsUpdateRequest{LLMAPIKey: &cleared})
	require.NoError(t, err)
	assert.Equal(t, "", got.LLMAPIKey)
	assert.Equal(t, "", s.Masked(got).LLMAPIKey)
}

func TestSettings_TestConnections(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	e, _, s := newSearchEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
		w.Write([]byte(`{"results":[{"tag":"it-jobs","label":"IT Jobs"}]}`))
	})

	res, err := s.TestLLM(e.ctx, e.user)
	require.NoError(t, err)
	assert.False(t, res.Success)

	key := "sk-1"
	_, err = s.Update(e.ctx, e.user, dtos.SettingsUpdateRequest{LLMAPIKey: &key})
	require.NoError(t, err)
	e.model.Responses = []string{"OK"}
	res, err = s.TestLLM(e.ctx, e.user)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 5, e.model.Options[0].MaxTokens)

	e.model.Err = errors.New("401 invalid key")
	res, err = s.TestLLM(e.ctx, e.user)
	require.NoError(t, err, "upstream failure is a result, not an error")
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "401 invalid key")

	res, err = s.TestJobSearch(e.ctx, e.user)
	require.NoError(t, err)
	assert.False(t, res.Success)

	configureBoard(t, e, s)
	res, err = s.TestJobSearch(e.ctx, e.user)
	require.NoError(t, err)
	assert.True(t, res.Success)

	status.Store(http.StatusUnauthorized)
	res, err = s.TestJobSearch(e.ctx, e.user)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Adzuna API error")
}
