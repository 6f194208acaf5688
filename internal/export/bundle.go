// Package export packages a resume, a job posting and an optional cover letter
// into a downloadable application bundle.
package export

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/models"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/resume"
)

const (
	FormatZip  = "zip"
	FormatJSON = "json"

	manifestVersion = 1
)

var ErrUnknownFormat = errors.New("export format must be zip or json")

type Manifest struct {
	Version       int       `json:"version"`
	CreatedAt     time.Time `json:"createdAt"`
	ResumeID      uint      `json:"resumeId"`
	ResumeName    string    `json:"resumeName"`
	Theme         string    `json:"theme"`
	JobID         uint      `json:"jobId"`
	JobTitle      string    `json:"jobTitle"`
	Company       string    `json:"company"`
	CoverLetterID *uint     `json:"coverLetterId,omitempty"`
	Files         []string  `json:"files"`
}

// Bundle is the whole package. The JSON format is this struct serialized as-is.
type Bundle struct {
	Manifest    Manifest            `json:"manifest"`
	Resume      json.RawMessage     `json:"resume"`
	ResumeHTML  string              `json:"resumeHtml"`
	Job         *models.JobPosting  `json:"job"`
	CoverLetter *models.CoverLetter `json:"coverLetter,omitempty"`
	MatchScore  *models.MatchScore  `json:"matchScore,omitempty"`
}

// Build assembles a bundle. letter and score may be nil.
func Build(r *models.Resume, job *models.JobPosting, letter *models.CoverLetter, score *models.MatchScore, now time.Time) (*Bundle, error) {
	if r == nil || job == nil {
		return nil, errors.New("export needs both a resume and a job posting")
	}
	doc, err := resume.Parse(r.Data)
	if err != nil {
		return nil, err
	}
	page, err := RenderHTML(doc, r.Theme)
	if err != nil {
		return nil, err
	}

	raw := json.RawMessage(r.Data)
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}

	b := &Bundle{
		Manifest: Manifest{
			Version:    manifestVersion,
			CreatedAt:  now.UTC(),
			ResumeID:   r.ID,
			ResumeName: r.Name,
			Theme:      r.Theme,
			JobID:      job.ID,
			JobTitle:   job.Title,
			Company:    job.Company,
			Files:      []string{"manifest.json", "resume.json", "resume.html", "job.json"},
		},
		Resume:      raw,
		ResumeHTML:  page,
		Job:         job,
		CoverLetter: letter,
		MatchScore:  score,
	}
	if letter != nil {
		id := letter.ID
		b.Manifest.CoverLetterID = &id
		b.Manifest.Files = append(b.Manifest.Files, "cover_letter.txt")
	}
	if score != nil {
		b.Manifest.Files = append(b.Manifest.Files, "match_score.json")
	}
	return b, nil
}

type zipEntry struct {
	name string
	body func() ([]byte, error)
}

// WriteZip writes the bundle as a zip archive, one entry per manifest file.
func WriteZip(w io.Writer, b *Bundle) error {
	zw := zip.NewWriter(w)

	entries := []zipEntry{
		{"manifest.json", func() ([]byte, error) { return json.MarshalIndent(b.Manifest, "", "  ") }},
		{"resume.json", func() ([]byte, error) { return indent(b.Resume) }},
		{"resume.html", func() ([]byte, error) { return []byte(b.ResumeHTML), nil }},
		{"job.json", func() ([]byte, error) { return json.MarshalIndent(b.Job, "", "  ") }},
	}
	if b.CoverLetter != nil {
		entries = append(entries, zipEntry{"cover_letter.txt", func() ([]byte, error) { return []byte(b.CoverLetter.Content), nil }})
	}
	if b.MatchScore != nil {
		entries = append(entries, zipEntry{"match_score.json", func() ([]byte, error) { return json.MarshalIndent(b.MatchScore, "", "  ") }})
	}

	for _, e := range entries {
		data, err := e.body()
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", e.name, err)
		}
		f, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.name,
			Method:   zip.Deflate,
			Modified: b.Manifest.CreatedAt,
		})
		if err != nil {
			return err
		}
		if _, err := f.Write(data); err != nil {
			return err
		}
	}
	return zw.Close()
}

func indent(raw json.RawMessage) ([]byte, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return json.MarshalIndent(v, "", "  ")
}
