package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/dtos"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/models"
)

func newScorer(e *env) *ScorerService {
	return NewScorerService(e.db, e.provider, e.resumes, e.jobs, quietLog())
}

func TestScore_UpsertsOnePerPair(t *testing.T) {
	e := newEnv(t,
		`{"overallScore":72,"technicalScore":80,"experienceScore":60,"softSkillsScore":70,"locationScore":100,"recommendations":["Mention Kafka"]}`,
		`{"overallScore":64.6,"technicalScore":140,"experienceScore":-5,"softSkillsScore":50,"locationScore":90,"recommendations":[]}`,
	)
	s := newScorer(e)
	r := e.resume(t, fullResume)
	j := e.job(t, dtos.JobCreationRequest{Title: "Go Engineer", Company: "Beta", Description: "Go and Kafka", TechStack: []string{"Go", "Kafka"}})

	first, err := s.Score(e.ctx, e.user, r.ID, j.ID)
	require.NoError(t, err)
	assert.Equal(t, 72, first.OverallScore)
	assert.Equal(t, 100, first.LocationScore)
	assert.Equal(t, []string{"Mention Kafka"}, []string(first.Recommendations))

	second, err := s.Score(e.ctx, e.user, r.ID, j.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 65, second.OverallScore)
	assert.Equal(t, 100, second.TechnicalScore, "clamped")
	assert.Equal(t, 0, second.ExperienceScore, "clamped")
	assert.Empty(t, second.Recommendations)

	var count int64
	require.NoError(t, e.db.Model(&models.MatchScore{}).Where("resume_id = ? AND job_id = ?", r.ID, j.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	prompt := e.model.LastPrompt()
	assert.Contains(t, prompt, "Go, PostgreSQL")
	assert.Contains(t, prompt, "Built payment APIs in Go")
	assert.Contains(t, prompt, "Berlin, DE")
}

func TestScore_EmptyResumeSkipsModel(t *testing.T) {
	e := newEnv(t, `{"overallScore":99}`)
	s := newScorer(e)
	r := e.resume(t, `{}`)
	j := e.job(t, dtos.JobCreationRequest{Title: "Go Engineer", Description: "Go"})

	got, err := s.Score(e.ctx, e.user, r.ID, j.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.OverallScore)
	assert.Equal(t, 0, got.TechnicalScore)
	require.Len(t, got.Recommendations, 1)
	assert.Contains(t, got.Recommendations[0], "Insufficient data")
	assert.Equal(t, 0, e.model.Calls())
}

func TestScore_EmptyJobSkipsModel(t *testing.T) {
	e := newEnv(t, `{"overallScore":99}`)
	s := newScorer(e)
	r := e.resume(t, fullResume)
	j := e.job(t, dtos.JobCreationRequest{Title: "Mystery role"})

	got, err := s.Score(e.ctx, e.user, r.ID, j.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.OverallScore)
	assert.Contains(t, got.Recommendations[0], "Insufficient data")
	assert.Equal(t, 0, e.model.Calls())
}

func TestScore_Failures(t *testing.T) {
	e := newEnv(t, `not json`)
	s := newScorer(e)
	r := e.resume(t, fullResume)
	j := e.job(t, dtos.JobCreationRequest{Title: "Go Engineer", Description: "Go"})

	_, err := s.Score(e.ctx, e.user, r.ID, j.ID)
	var se *ScoringError
	require.True(t, errors.As(err, &se))

	e.model.Err = errors.New("upstream 500")
	_, err = s.Score(e.ctx, e.user, r.ID, j.ID)
	assert.True(t, errors.As(err, &se))

	var count int64
	require.NoError(t, e.db.Model(&models.MatchScore{}).Count(&count).Error)
	assert.Zero(t, count, "failed scoring stores nothing")

	_, err = s.Score(e.ctx, e.user, r.ID, 999)
	assert.True(t, errors.Is(err, ErrNotFound))

	other := e.otherUser(t)
	_, err = s.Score(e.ctx, other, r.ID, j.ID)
	assert.True(t, errors.Is(err, ErrNotFound), "pairs are scoped to the owner")
}

func TestScore_GetAndList(t *testing.T) {
	e := newEnv(t, `{"overallScore":50,"technicalScore":50,"experienceScore":50,"softSkillsScore":50,"locationScore":50,"recommendations":["ok"]}`)
	s := newScorer(e)
	r := e.resume(t, fullResume)
	j := e.job(t, dtos.JobCreationRequest{Title: "Go Engineer", Description: "Go"})

	_, err := s.Get(e.ctx, e.user, r.ID, j.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = s.Score(e.ctx, e.user, r.ID, j.ID)
	require.NoError(t, err)

	got, err := s.Get(e.ctx, e.user, r.ID, j.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.OverallScore)

	list, err := s.ListForJob(e.ctx, e.user, j.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, percent(-3))
	assert.Equal(t, 100, percent(101))
	assert.Equal(t, 43, percent(42.5))
}

func TestScore_LooseResumeShapesReachModel(t *testing.T) {
	e := newEnv(t, `{"overallScore":"80","technicalScore":"85%","experienceScore":70,"softSkillsScore":null,"locationScore":"100","recommendations":"Add metrics"}`)
	s := newScorer(e)

	r, err := e.resumes.Create(e.ctx, e.user, dtos.ResumeRequest{
		Name:     "Loose",
		JSONData: raw(`{"basics":{"name":"Ada","location":"Berlin"},"skills":["Go","React"]}`),
	})
	require.NoError(t, err)
	j := e.job(t, dtos.JobCreationRequest{Title: "Go Engineer", Description: "Go and React"})

	got, err := s.Score(e.ctx, e.user, r.ID, j.ID)
	require.NoError(t, err)
	assert.Equal(t, 80, got.OverallScore)
	assert.Equal(t, 85, got.TechnicalScore)
	assert.Equal(t, 0, got.SoftSkillsScore)
	assert.Equal(t, 100, got.LocationScore)
	assert.Equal(t, []string{"Add metrics"}, []string(got.Recommendations))

	require.Equal(t, 1, e.model.Calls())
	prompt := e.model.LastPrompt()
	assert.Contains(t, prompt, "Go, React")
	assert.Contains(t, prompt, "Berlin")
}

func TestScore_UnreadableResumeIsNotInsufficientData(t *testing.T) {
	e := newEnv(t, `{"overallScore":80}`)
	s := newScorer(e)
	// written around the service, as rows saved before stricter checks could be
	r := e.resume(t, `{"skills":[42]}`)
	j := e.job(t, dtos.JobCreationRequest{Title: "Go Engineer", Description: "Go"})

	_, err := s.Score(e.ctx, e.user, r.ID, j.ID)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.NotContains(t, ve.Message, "Insufficient data")
	assert.Zero(t, e.model.Calls())

	_, err = newLetters(e).Generate(e.ctx, e.user, r.ID, j.ID, "friendly", "skills")
	assert.True(t, errors.As(err, &ve))
	assert.Zero(t, e.model.Calls())
}
