package services

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/database"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/dtos"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/llm/llmtest"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/models"
)

const fullResume = `{
	"basics":{"name":"Ada","label":"Backend Engineer","location":{"city":"Berlin","countryCode":"DE"}},
	"work":[{"name":"Acme","position":"Engineer","highlights":["Built payment APIs in Go"]}],
	"skills":[{"name":"Go","keywords":["PostgreSQL"]}]
}`

type env struct {
	ctx      context.Context
	db       *gorm.DB
	model    *llmtest.Model
	provider *llmtest.Provider
	resumes  *ResumeService
	jobs     *JobService
	user     uint
}

func quietLog() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newEnv(t *testing.T, replies ...string) *env {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)

	u := models.User{Email: "ada@example.com"}
	require.NoError(t, db.Create(&u).Error)

	model := llmtest.NewModel(replies...)
	return &env{
		ctx:      context.Background(),
		db:       db,
		model:    model,
		provider: &llmtest.Provider{Model: model},
		resumes:  NewResumeService(db),
		jobs:     NewJobService(db),
		user:     u.ID,
	}
}

func (e *env) resume(t *testing.T, data string) *models.Resume {
	t.Helper()
	r := &models.Resume{UserID: e.user, Name: "CV", Theme: "classic", Data: []byte(data)}
	require.NoError(t, e.db.Create(r).Error)
	return r
}

func (e *env) job(t *testing.T, req dtos.JobCreationRequest) *models.JobPosting {
	t.Helper()
	j, err := e.jobs.CreateJob(e.ctx, e.user, &req)
	require.NoError(t, err)
	return j
}

func (e *env) otherUser(t *testing.T) uint {
	t.Helper()
	u := models.User{Email: "mallory@example.com"}
	require.NoError(t, e.db.Create(&u).Error)
	return u.ID
}

func raw(s string) json.RawMessage { return json.RawMessage(s) }
