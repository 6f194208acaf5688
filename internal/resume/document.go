// Package resume models the JSON Resume document stored with each resume.
package resume

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMissingSections is returned when none of basics, work or skills is present.
var ErrMissingSections = errors.New("resume must contain at least one of: basics, work, skills")

type Document struct {
	Basics    *Basics     `json:"basics,omitempty"`
	Work      []Work      `json:"work,omitempty"`
	Education []Education `json:"education,omitempty"`
	Skills    []Skill     `json:"skills,omitempty"`
	Projects  []Project   `json:"projects,omitempty"`
}

type Basics struct {
	Name     string    `json:"name,omitempty"`
	Label    string    `json:"label,omitempty"`
	Email    string    `json:"email,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	URL      string    `json:"url,omitempty"`
	Summary  string    `json:"summary,omitempty"`
	Location *Location `json:"location,omitempty"`
	Profiles []Profile `json:"profiles,omitempty"`
}

type Location struct {
	Address     string `json:"address,omitempty"`
	PostalCode  string `json:"postalCode,omitempty"`
	City        string `json:"city,omitempty"`
	Region      string `json:"region,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
}

// UnmarshalJSON also accepts a free-form string such as "Berlin, DE", kept as Address.
func (l *Location) UnmarshalJSON(b []byte) error {
	var text string
	if err := json.Unmarshal(b, &text); err == nil {
		*l = Location{Address: strings.TrimSpace(text)}
		return nil
	}
	type plain Location
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*l = Location(p)
	return nil
}

type Profile struct {
	Network  string `json:"network,omitempty"`
	Username string `json:"username,omitempty"`
	URL      string `json:"url,omitempty"`
}

type Work struct {
	Name       string   `json:"name,omitempty"`
	Position   string   `json:"position,omitempty"`
	URL        string   `json:"url,omitempty"`
	StartDate  string   `json:"startDate,omitempty"`
	EndDate    string   `json:"endDate,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
}

type Education struct {
	Institution string   `json:"institution,omitempty"`
	URL         string   `json:"url,omitempty"`
	Area        string   `json:"area,omitempty"`
	StudyType   string   `json:"studyType,omitempty"`
	StartDate   string   `json:"startDate,omitempty"`
	EndDate     string   `json:"endDate,omitempty"`
	Score       string   `json:"score,omitempty"`
	Courses     []string `json:"courses,omitempty"`
}

type Skill struct {
	Name     string   `json:"name,omitempty"`
	Level    string   `json:"level,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// UnmarshalJSON also accepts a bare skill name.
func (sk *Skill) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		*sk = Skill{Name: strings.TrimSpace(name)}
		return nil
	}
	type plain Skill
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*sk = Skill(p)
	return nil
}

type Project struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	StartDate   string   `json:"startDate,omitempty"`
	EndDate     string   `json:"endDate,omitempty"`
	URL         string   `json:"url,omitempty"`
}

// Validate checks raw JSON for a top-level object carrying basics, work or skills.
// It deliberately does not validate the rest of the schema.
func Validate(raw []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return fmt.Errorf("resume is not a valid JSON object: %w", err)
	}
	for _, key := range []string{"basics", "work", "skills"} {
		if _, ok := top[key]; ok {
			return nil
		}
	}
	return ErrMissingSections
}

// Parse decodes a stored document. Empty input yields an empty document.
func Parse(raw []byte) (*Document, error) {
	doc := &Document{}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("failed to decode resume document: %w", err)
	}
	return doc, nil
}

// IsEmpty reports whether there is nothing to score: no basics content, no work, no skills.
func (d *Document) IsEmpty() bool {
	if d == nil {
		return true
	}
	if d.Basics != nil && (d.Basics.Name != "" || d.Basics.Label != "" || d.Basics.Summary != "") {
		return false
	}
	return len(d.Work) == 0 && len(d.Skills) == 0
}

// SkillNames flattens skills and their keywords, dropping duplicates case-insensitively.
func (d *Document) SkillNames() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		k := strings.ToLower(s)
		if s == "" || seen[k] {
			return
		}
		seen[k] = true
		out = append(out, s)
	}
	for _, s := range d.Skills {
		add(s.Name)
		for _, kw := range s.Keywords {
			add(kw)
		}
	}
	return out
}

// Highlights renders work history as prompt-ready lines, most recent first as stored.
func (d *Document) Highlights() []string {
	var out []string
	for _, w := range d.Work {
		head := strings.TrimSpace(strings.Join(nonEmpty(w.Position, w.Name), " at "))
		if dates := strings.Join(nonEmpty(w.StartDate, w.EndDate), " - "); dates != "" {
			head += " (" + dates + ")"
		}
		if head != "" {
			out = append(out, head)
		}
		if w.Summary != "" {
			out = append(out, "  "+w.Summary)
		}
		for _, h := range w.Highlights {
			out = append(out, "  - "+h)
		}
	}
	for _, p := range d.Projects {
		if p.Name == "" {
			continue
		}
		line := "Project: " + p.Name
		if p.Description != "" {
			line += " - " + p.Description
		}
		out = append(out, line)
	}
	return out
}

func (d *Document) Location() string {
	if d.Basics == nil || d.Basics.Location == nil {
		return ""
	}
	l := d.Basics.Location
	if parts := nonEmpty(l.City, l.Region, l.CountryCode); len(parts) > 0 {
		return strings.Join(parts, ", ")
	}
	return strings.TrimSpace(l.Address)
}

func nonEmpty(parts ...string) []string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
