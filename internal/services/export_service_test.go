package services

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/dtos"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/export"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/models"
)

func newExporter(t *testing.T, e *env, store export.Store) *ExportService {
	t.Helper()
	letters := newLetters(e)
	apps := NewApplicationService(e.db, e.resumes, e.jobs, letters)
	s := NewExportService(e.db, e.resumes, e.jobs, letters, apps, store, quietLog())
	s.Now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s
}

func TestExport_ZipStoredAndLinked(t *testing.T) {
	e := newEnv(t, "Dear Acme,")
	store := &export.LocalStore{Dir: t.TempDir()}
	s := newExporter(t, e, store)

	r := e.resume(t, fullResume)
	j := e.job(t, dtos.JobCreationRequest{Title: "Go Engineer", Company: "Acme"})
	_, err := s.Letters.Generate(e.ctx, e.user, r.ID, j.ID, "friendly", "skills")
	require.NoError(t, err)
	app, err := s.Applications.Create(e.ctx, e.user, dtos.ApplicationRequest{ResumeID: r.ID, JobID: j.ID})
	require.NoError(t, err)

	out, err := s.Export(e.ctx, e.user, dtos.ExportRequest{ResumeID: r.ID, JobID: j.ID, ApplicationID: &app.ID})
	require.NoError(t, err)
	assert.Equal(t, "cv_acme_go-engineer.zip", out.Filename)
	assert.Equal(t, "application/zip", out.ContentType)
	require.NotEmpty(t, out.Ref)

	zr, err := zip.NewReader(bytes.NewReader(out.Data), int64(len(out.Data)))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "cover_letter.txt", "the pair's stored letter is picked up")

	updated, err := s.Applications.Get(e.ctx, e.user, app.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Ref, updated.ExportRef)

	data, err := s.Download(e.ctx, e.user, out.Ref)
	require.NoError(t, err)
	assert.Equal(t, out.Data, data)

	other := e.otherUser(t)
	_, err = s.Download(e.ctx, other, out.Ref)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestExport_JSONWithoutStore(t *testing.T) {
	e := newEnv(t)
	s := newExporter(t, e, nil)
	r := e.resume(t, fullResume)
	j := e.job(t, dtos.JobCreationRequest{Title: "Go Engineer"})

	out, err := s.Export(e.ctx, e.user, dtos.ExportRequest{ResumeID: r.ID, JobID: j.ID, Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, "application/json", out.ContentType)
	assert.Empty(t, out.Ref)

	var bundle struct {
		Manifest    export.Manifest     `json:"manifest"`
		Job         models.JobPosting   `json:"job"`
		CoverLetter *models.CoverLetter `json:"coverLetter"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &bundle))
	assert.Equal(t, "Go Engineer", bundle.Job.Title)
	assert.Nil(t, bundle.CoverLetter)

	_, err = s.Export(e.ctx, e.user, dtos.ExportRequest{ResumeID: r.ID, JobID: j.ID, Format: "pdf"})
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))

	missing := uint(77)
	_, err = s.Export(e.ctx, e.user, dtos.ExportRequest{ResumeID: r.ID, JobID: j.ID, CoverLetterID: &missing})
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = s.Download(e.ctx, e.user, "exports/1/x.zip")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFileBase(t *testing.T) {
	assert.Equal(t, "my-cv_acme-inc_sr-go-dev", fileBase("My CV", "Acme, Inc.", "Sr. Go Dev"))
	assert.Equal(t, "application", fileBase("", "!!"))
}
