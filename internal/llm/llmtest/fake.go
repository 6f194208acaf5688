// Package llmtest provides an in-memory llms.Model for exercising prompt pipelines.
package llmtest

import (
	"context"
	"sync"

	"github.com/tmc/langchaingo/llms"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/llm"
)

// Model replays canned responses in order; the last one repeats.
type Model struct {
	mu        sync.Mutex
	Responses []string
	Err       error

	Prompts []string
	Options []llms.CallOptions
}

func NewModel(responses ...string) *Model {
	return &Model{Responses: responses}
}

func (m *Model) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var opts llms.CallOptions
	for _, o := range options {
		o(&opts)
	}
	m.Options = append(m.Options, opts)
	m.Prompts = append(m.Prompts, promptText(messages))

	if m.Err != nil {
		return nil, m.Err
	}
	out := ""
	if n := len(m.Responses); n > 0 {
		idx := len(m.Prompts) - 1
		if idx >= n {
			idx = n - 1
		}
		out = m.Responses[idx]
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: out}}}, nil
}

func (m *Model) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

// Calls reports how many completions were requested.
func (m *Model) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

// LastPrompt returns the most recent prompt text, or "".
func (m *Model) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Prompts) == 0 {
		return ""
	}
	return m.Prompts[len(m.Prompts)-1]
}

func promptText(messages []llms.MessageContent) string {
	var text string
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if tc, ok := part.(llms.TextContent); ok {
				text += tc.Text
			}
		}
	}
	return text
}

// Provider returns the same fake model for every caller.
type Provider struct {
	Model *Model
	Err   error
	Users []uint
}

func (p *Provider) ClientFor(_ context.Context, userID uint) (*llm.Client, error) {
	p.Users = append(p.Users, userID)
	if p.Err != nil {
		return nil, p.Err
	}
	return &llm.Client{Model: p.Model}, nil
}
