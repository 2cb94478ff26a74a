// Package llm talks to hosted text-generation models behind a single
// synchronous completion method.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrMissingCredential is returned by Ready when no API key is configured.
var ErrMissingCredential = errors.New("LLM API key is not set")

// Provider abstracts a hosted model behind a one-shot, non-streaming completion.
type Provider interface {
	// Name identifies the provider in logs, metrics and audits.
	Name() string
	// Ready reports configuration problems without touching the network.
	Ready() error
	// Complete sends a single user message and returns the model's text reply.
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Request describes a single completion request.
type Request struct {
	// Prompt is the user message to send.
	Prompt string
	// Model overrides the provider's configured default when non-empty.
	Model string
	// MaxTokens limits the response length. Zero uses the provider default.
	MaxTokens int
}

// Response holds the result of a completion call.
type Response struct {
	Text  string
	Model string
	Usage Usage
}

// Usage tracks input and output token counts for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// StatusError is returned when the remote service answers with a non-success status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.Code, e.Body)
}
