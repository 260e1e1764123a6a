package llm

import (
	"context"
)

// Message is a provider-agnostic chat turn. Accepted roles are "system",
// "user" and "assistant"; providers map anything else onto their own wire
// format.
type Message struct {
	Role    string
	Content string
}

// Options carries the per-call generation knobs. Providers start from their
// own defaults, so a zero field means "whatever the provider picked".
type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

type Option func(*Options)

// NewOptions folds the caller's options over the provider defaults.
func NewOptions(defaults Options, opts ...Option) *Options {
	o := defaults
	for _, opt := range opts {
		opt(&o)
	}
	return &o
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(o *Options) {
		o.MaxTokens = maxTokens
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider is the contract every chat backend implements. The price
// extractor only ever calls Generate with a single prompt; Chat exists for
// callers that carry history.
type LLMProvider interface {
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
