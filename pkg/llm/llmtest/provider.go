// Package llmtest provides a scripted LLM provider for tests.
package llmtest

import (
	"context"
	"sync"
	"time"

	"ai-admissions-be/pkg/llm"
)

// Provider answers with Respond when set, else Response/Err. Delay simulates
// a slow model and respects the caller's context.
type Provider struct {
	Response string
	Err      error
	Delay    time.Duration
	Respond  func(prompt string, opts *llm.Options) (string, error)

	mu      sync.Mutex
	prompts []string
	options []llm.Options
}

var _ llm.LLMProvider = &Provider{}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	prompt := ""
	if len(history) > 0 {
		prompt = history[len(history)-1].Content
	}
	return p.Generate(ctx, prompt, opts...)
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	o := llm.NewOptions(opts...)

	p.mu.Lock()
	p.prompts = append(p.prompts, prompt)
	p.options = append(p.options, *o)
	p.mu.Unlock()

	if p.Delay > 0 {
		select {
		case <-time.After(p.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if p.Respond != nil {
		return p.Respond(prompt, o)
	}
	return p.Response, p.Err
}

func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.prompts)
}

func (p *Provider) LastPrompt() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.prompts) == 0 {
		return ""
	}
	return p.prompts[len(p.prompts)-1]
}

func (p *Provider) LastOptions() llm.Options {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.options) == 0 {
		return llm.Options{}
	}
	return p.options[len(p.options)-1]
}
