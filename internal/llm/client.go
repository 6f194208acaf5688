// Package llm builds per-user LLM clients and handles the untyped text they return.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/apilog"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/config"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/models"
)

// ServiceName tags audit records of LLM traffic.
const ServiceName = "llm"

var ErrNotConfigured = errors.New("LLM API key is not configured")

// Client wraps a langchaingo model with the call options every pipeline request shares.
type Client struct {
	Model       llms.Model
	Temperature float64
}

// CompleteJSON asks for a JSON-object completion.
func (c *Client) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, c.Model, prompt,
		llms.WithJSONMode(),
		llms.WithTemperature(c.Temperature),
	)
}

// CompleteText asks for a free-text completion.
func (c *Client) CompleteText(ctx context.Context, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, c.Model, prompt,
		llms.WithTemperature(c.Temperature),
	)
}

// Ping performs the smallest request that proves the credentials work.
func (c *Client) Ping(ctx context.Context) error {
	_, err := llms.GenerateFromSinglePrompt(ctx, c.Model, "Reply with the single word OK.",
		llms.WithMaxTokens(5),
	)
	return err
}

// Provider hands out a client bound to one caller's credentials.
type Provider interface {
	ClientFor(ctx context.Context, userID uint) (*Client, error)
}

// SettingsSource loads per-user credentials. A missing row is not an error.
type SettingsSource interface {
	Settings(ctx context.Context, userID uint) (*models.UserSettings, error)
}

// Factory creates OpenAI-compatible clients (Gemini's compatibility endpoint by default).
// Every request goes through the audit logger when one is set.
type Factory struct {
	defaults config.LLMConfig
	settings SettingsSource
	audit    *apilog.Logger
}

func NewFactory(defaults config.LLMConfig, settings SettingsSource, audit *apilog.Logger) *Factory {
	return &Factory{defaults: defaults, settings: settings, audit: audit}
}

func (f *Factory) ClientFor(ctx context.Context, userID uint) (*Client, error) {
	s, err := f.settings.Settings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load LLM settings: %w", err)
	}
	return f.build(s, userID)
}

// ClientWith builds a client from explicit settings, used to test credentials before saving.
func (f *Factory) ClientWith(s *models.UserSettings, userID uint) (*Client, error) {
	return f.build(s, userID)
}

func (f *Factory) build(s *models.UserSettings, userID uint) (*Client, error) {
	if s == nil || strings.TrimSpace(s.LLMAPIKey) == "" {
		return nil, ErrNotConfigured
	}
	baseURL := firstNonEmpty(s.LLMBaseURL, f.defaults.BaseURL)
	model := firstNonEmpty(s.LLMModel, f.defaults.Model)

	opts := []openai.Option{
		openai.WithToken(s.LLMAPIKey),
		openai.WithBaseURL(baseURL),
		openai.WithModel(model),
	}
	if f.audit != nil {
		uid := userID
		opts = append(opts, openai.WithHTTPClient(f.audit.Doer(ServiceName, &uid)))
	}

	m, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return &Client{Model: m, Temperature: f.defaults.Temperature}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
