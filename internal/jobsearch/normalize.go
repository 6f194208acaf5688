package jobsearch

import (
	"bytes"
	"encoding/json"
	"strings"
)

// flexString accepts both "123" and 123, the board is inconsistent about ids.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type displayName struct {
	DisplayName string `json:"display_name"`
}

type adzunaJob struct {
	ID           flexString   `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Company      *displayName `json:"company"`
	Location     *displayName `json:"location"`
	SalaryMin    *float64     `json:"salary_min"`
	SalaryMax    *float64     `json:"salary_max"`
	ContractTime string       `json:"contract_time"`
	ContractType string       `json:"contract_type"`
	Created      string       `json:"created"`
	RedirectURL  string       `json:"redirect_url"`
}

func (j adzunaJob) normalize() JobResult {
	out := JobResult{
		ID:          string(j.ID),
		Title:       strings.TrimSpace(j.Title),
		Description: strings.TrimSpace(j.Description),
		SalaryMin:   positive(j.SalaryMin),
		SalaryMax:   positive(j.SalaryMax),
		DatePosted:  j.Created,
		URL:         j.RedirectURL,
		Source:      ServiceName,
	}
	if j.Company != nil {
		out.Company = strings.TrimSpace(j.Company.DisplayName)
	}
	if j.Location != nil {
		out.Location = strings.TrimSpace(j.Location.DisplayName)
	}
	switch {
	case j.ContractTime != "":
		out.EmploymentType = j.ContractTime
	case j.ContractType != "":
		out.EmploymentType = j.ContractType
	}
	return out
}

// positive drops absent and zero salaries so they never read as a real figure.
func positive(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	out := *v
	return &out
}
