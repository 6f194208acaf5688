package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/dtos"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/models"
)

func newApps(e *env) *ApplicationService {
	return NewApplicationService(e.db, e.resumes, e.jobs, newLetters(e))
}

func TestApplication_Lifecycle(t *testing.T) {
	e := newEnv(t)
	s := newApps(e)
	fixed := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	s.Now = func() time.Time { return fixed }

	r := e.resume(t, fullResume)
	j := e.job(t, dtos.JobCreationRequest{Title: "Go Engineer"})

	app, err := s.Create(e.ctx, e.user, dtos.ApplicationRequest{ResumeID: r.ID, JobID: j.ID})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, app.Status)
	assert.Nil(t, app.AppliedAt)

	applied := models.StatusApplied
	app, err = s.Update(e.ctx, e.user, app.ID, dtos.ApplicationUpdateRequest{Status: &applied})
	require.NoError(t, err)
	require.NotNil(t, app.AppliedAt)
	assert.True(t, app.AppliedAt.Equal(fixed))

	s.Now = func() time.Time { return fixed.Add(48 * time.Hour) }
	interviewing, notes := models.StatusInterviewing, "phone screen booked"
	app, err = s.Update(e.ctx, e.user, app.ID, dtos.ApplicationUpdateRequest{Status: &interviewing, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "phone screen booked", app.Notes)
	assert.True(t, app.AppliedAt.Equal(fixed), "first applied time is kept")

	list, err := s.List(e.ctx, e.user, models.StatusInterviewing)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = s.List(e.ctx, e.user, models.StatusRejected)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, s.SetExportRef(e.ctx, e.user, app.ID, "exports/1/x.zip"))
	got, err := s.Get(e.ctx, e.user, app.ID)
	require.NoError(t, err)
	assert.Equal(t, "exports/1/x.zip", got.ExportRef)

	require.NoError(t, s.Delete(e.ctx, e.user, app.ID))
	_, err = s.Get(e.ctx, e.user, app.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestApplication_Validation(t *testing.T) {
	e := newEnv(t)
	s := newApps(e)
	r := e.resume(t, fullResume)
	j := e.job(t, dtos.JobCreationRequest{Title: "Go Engineer"})

	_, err := s.Create(e.ctx, e.user, dtos.ApplicationRequest{ResumeID: r.ID, JobID: j.ID, Status: "ghosted"})
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))

	_, err = s.Create(e.ctx, e.user, dtos.ApplicationRequest{ResumeID: r.ID, JobID: 404})
	assert.True(t, errors.Is(err, ErrNotFound))

	missing := uint(404)
	_, err = s.Create(e.ctx, e.user, dtos.ApplicationRequest{ResumeID: r.ID, JobID: j.ID, CoverLetterID: &missing})
	assert.True(t, errors.Is(err, ErrNotFound))

	app, err := s.Create(e.ctx, e.user, dtos.ApplicationRequest{ResumeID: r.ID, JobID: j.ID, Status: "applied"})
	require.NoError(t, err)
	assert.NotNil(t, app.AppliedAt)
}
