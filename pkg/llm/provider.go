package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

// DefaultTemperature applies when no WithTemperature option is given.
const DefaultTemperature = 0.7

func NewOptions(opts ...Option) *Options {
	o := &Options{Temperature: DefaultTemperature}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider is the text completion service. Short deterministic calls
// (temperature 0, few tokens) and long generative ones go through the same
// contract.
type LLMProvider interface {
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
