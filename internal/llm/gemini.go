package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"google.golang.org/genai"
)

// GeminiConfig configures a GeminiClient.
type GeminiConfig struct {
	APIKey     string
	Model      string
	MaxTokens  int
	BaseURL    string
	HTTPClient *http.Client
}

// GeminiClient calls Google's Gemini API through the genai SDK.
type GeminiClient struct {
	client    *genai.Client
	model     string
	maxTokens int
}

var _ Provider = (*GeminiClient)(nil)

// NewGeminiClient creates a client. Without an API key no SDK client is built
// and Ready reports ErrMissingCredential.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	g := &GeminiClient{model: cfg.Model, maxTokens: cfg.MaxTokens}
	if cfg.APIKey == "" {
		return g, nil
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create GenAI client: %w", err)
	}
	g.client = client
	return g, nil
}

// Name implements Provider.
func (g *GeminiClient) Name() string { return "gemini" }

// Ready implements Provider.
func (g *GeminiClient) Ready() error {
	if g.client == nil {
		return ErrMissingCredential
	}
	return nil
}

// Complete sends the prompt as a single user turn.
func (g *GeminiClient) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := g.Ready(); err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = g.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = g.maxTokens
	}

	result, err := g.client.Models.GenerateContent(ctx,
		model,
		genai.Text(req.Prompt),
		&genai.GenerateContentConfig{MaxOutputTokens: tokenBudget(maxTokens)},
	)
	if err != nil {
		if se := statusFromAPIError(err); se != nil {
			return nil, se
		}
		return nil, fmt.Errorf("GenAI generate failed: %w", err)
	}

	out := &Response{Text: result.Text(), Model: model}
	if result.UsageMetadata != nil {
		out.Usage = Usage{
			InputTokens:  int(result.UsageMetadata.PromptTokenCount),
			OutputTokens: int(result.UsageMetadata.CandidatesTokenCount),
		}
	}
	return out, nil
}

// statusFromAPIError maps SDK status failures onto StatusError so both
// providers classify the same way.
func statusFromAPIError(err error) *StatusError {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		return &StatusError{Code: apiErr.Code, Body: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr.Code != 0 {
		return &StatusError{Code: apiErrPtr.Code, Body: apiErrPtr.Message}
	}
	return nil
}

// tokenBudget narrows the budget to the SDK's int32 without wrapping.
func tokenBudget(n int) int32 {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	if n < 0 {
		return 0
	}
	return int32(n)
}
