// Package jobsearch queries an external job board and maps its listings onto JobResult.
package jobsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/apilog"
)

const (
	ServiceName  = "adzuna"
	providerName = "Adzuna"

	DefaultResultsPerPage = 20
	MaxResultsPerPage     = 50

	// MaxPage bounds deep paging; the board stops returning results long before it.
	MaxPage = 1000
)

// Caller performs and audits one outbound call. *apilog.Logger satisfies it.
type Caller interface {
	LogAPICall(ctx context.Context, call apilog.Call) (*http.Response, error)
}

type Credentials struct {
	AppID   string
	APIKey  string
	Country string
}

type SearchParams struct {
	Query          string
	Location       string
	SalaryMin      *int
	SalaryMax      *int
	EmploymentType string
	Page           int
	ResultsPerPage int
}

// JobResult is the board-independent listing shape. Missing text fields are "",
// missing salaries are nil.
type JobResult struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Description    string   `json:"description"`
	Location       string   `json:"location"`
	SalaryMin      *float64 `json:"salaryMin"`
	SalaryMax      *float64 `json:"salaryMax"`
	EmploymentType string   `json:"employmentType"`
	DatePosted     string   `json:"datePosted"`
	URL            string   `json:"url"`
	Source         string   `json:"source"`
}

type SearchResult struct {
	Jobs       []JobResult `json:"jobs"`
	TotalCount int         `json:"totalCount"`
}

type Category struct {
	Tag   string `json:"tag"`
	Label string `json:"label"`
}

// Connector talks to the Adzuna jobs API.
type Connector struct {
	baseURL string
	creds   Credentials
	caller  Caller
}

func NewAdzuna(baseURL string, creds Credentials, caller Caller) *Connector {
	if creds.Country == "" {
		creds.Country = "us"
	}
	return &Connector{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		caller:  caller,
	}
}

// IsConfigured reports whether both credentials are present. It never touches the network.
func (c *Connector) IsConfigured() bool {
	return strings.TrimSpace(c.creds.AppID) != "" && strings.TrimSpace(c.creds.APIKey) != ""
}

func (c *Connector) SearchJobs(ctx context.Context, userID uint, p SearchParams) (*SearchResult, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	endpoint, err := c.searchURL(p)
	if err != nil {
		return nil, err
	}

	body, status, err := c.get(ctx, userID, endpoint)
	if err != nil {
		return nil, &NetworkError{Message: "Network error while searching jobs", Err: err}
	}
	if status < 200 || status > 299 {
		return nil, c.apiError(status, body)
	}

	var payload struct {
		Count   int             `json:"count"`
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &ConnectorError{Provider: providerName, StatusCode: status, Message: "invalid response body"}
	}

	var raw []adzunaJob
	if len(payload.Results) > 0 {
		// a missing or non-array results field is treated as no results
		if err := json.Unmarshal(payload.Results, &raw); err != nil {
			raw = nil
		}
	}

	out := &SearchResult{Jobs: make([]JobResult, 0, len(raw)), TotalCount: payload.Count}
	for _, j := range raw {
		out.Jobs = append(out.Jobs, j.normalize())
	}
	if out.TotalCount < len(out.Jobs) {
		out.TotalCount = len(out.Jobs)
	}
	return out, nil
}

// GetJobDetails returns nil, nil when the board reports 404.
func (c *Connector) GetJobDetails(ctx context.Context, userID uint, externalID string) (*JobResult, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	endpoint := fmt.Sprintf("%s/jobs/%s/details/%s?%s",
		c.baseURL, url.PathEscape(c.creds.Country), url.PathEscape(externalID), c.authQuery())

	body, status, err := c.get(ctx, userID, endpoint)
	if err != nil {
		return nil, &NetworkError{Message: "Network error while fetching job details", Err: err}
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status < 200 || status > 299 {
		return nil, c.apiError(status, body)
	}

	var j adzunaJob
	if err := json.Unmarshal(body, &j); err != nil {
		return nil, &ConnectorError{Provider: providerName, StatusCode: status, Message: "invalid response body"}
	}
	res := j.normalize()
	if res.ID == "" {
		res.ID = externalID
	}
	return &res, nil
}

func (c *Connector) GetCategories(ctx context.Context, userID uint) ([]Category, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	endpoint := fmt.Sprintf("%s/jobs/%s/categories?%s", c.baseURL, url.PathEscape(c.creds.Country), c.authQuery())

	body, status, err := c.get(ctx, userID, endpoint)
	if err != nil {
		return nil, &NetworkError{Message: "Network error while fetching categories", Err: err}
	}
	if status < 200 || status > 299 {
		return nil, c.apiError(status, body)
	}

	var payload struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &ConnectorError{Provider: providerName, StatusCode: status, Message: "invalid response body"}
	}
	cats := []Category{}
	if len(payload.Results) > 0 {
		if err := json.Unmarshal(payload.Results, &cats); err != nil {
			cats = []Category{}
		}
	}
	return cats, nil
}

func (c *Connector) get(ctx context.Context, userID uint, endpoint string) ([]byte, int, error) {
	uid := userID
	resp, err := c.caller.LogAPICall(ctx, apilog.Call{
		Service:  ServiceName,
		Endpoint: endpoint,
		Method:   http.MethodGet,
		Header:   http.Header{"Accept": []string{"application/json"}},
		UserID:   &uid,
	})
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

func (c *Connector) apiError(status int, body []byte) error {
	msg := upstreamMessage(body)
	if msg == "" {
		msg = http.StatusText(status)
		if msg == "" {
			msg = "status " + strconv.Itoa(status)
		}
	}
	return &ConnectorError{Provider: providerName, StatusCode: status, Message: msg}
}

func upstreamMessage(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		if len(body) > 200 {
			body = body[:200]
		}
		return string(body)
	}
	for _, key := range []string{"display", "message", "exception", "error"} {
		if s, ok := payload[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func (c *Connector) searchURL(p SearchParams) (string, error) {
	page := p.Page
	if page == 0 {
		page = 1
	}
	perPage := p.ResultsPerPage
	if perPage == 0 {
		perPage = DefaultResultsPerPage
	}
	if page < 0 || perPage < 0 {
		return "", ErrInvalidPage
	}
	if perPage > MaxResultsPerPage {
		perPage = MaxResultsPerPage
	}

	q := []string{
		c.authQuery(),
		"results_per_page=" + strconv.Itoa(perPage),
		"page=" + strconv.Itoa(page),
	}
	if s := strings.TrimSpace(p.Query); s != "" {
		q = append(q, "what="+encodeParam(s))
	}
	if s := strings.TrimSpace(p.Location); s != "" {
		q = append(q, "where="+encodeParam(s))
	}
	if p.SalaryMin != nil {
		q = append(q, "salary_min="+strconv.Itoa(*p.SalaryMin))
	}
	if p.SalaryMax != nil {
		q = append(q, "salary_max="+strconv.Itoa(*p.SalaryMax))
	}
	if p.EmploymentType != "" {
		flag, ok := NormalizeEmploymentType(p.EmploymentType)
		if !ok {
			return "", ErrInvalidEmploymentType
		}
		q = append(q, flag+"=1")
	}

	return fmt.Sprintf("%s/jobs/%s/search/%d?%s",
		c.baseURL, url.PathEscape(c.creds.Country), page, strings.Join(q, "&")), nil
}

func (c *Connector) authQuery() string {
	return "app_id=" + encodeParam(c.creds.AppID) + "&app_key=" + encodeParam(c.creds.APIKey)
}

// encodeParam percent-encodes a query value with spaces as %20 rather than '+'.
func encodeParam(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}

// NormalizeEmploymentType maps user input onto one of the board's filter flags.
func NormalizeEmploymentType(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	switch s {
	case "full_time", "part_time", "contract", "permanent":
		return s, true
	}
	return "", false
}

// Factory builds per-user connectors that share one base URL and audit path.
type Factory struct {
	BaseURL string
	Country string
	Caller  Caller
}

func NewFactory(baseURL, defaultCountry string, caller Caller) *Factory {
	return &Factory{BaseURL: baseURL, Country: defaultCountry, Caller: caller}
}

func (f *Factory) Connector(creds Credentials) *Connector {
	if creds.Country == "" {
		creds.Country = f.Country
	}
	return NewAdzuna(f.BaseURL, creds, f.Caller)
}
