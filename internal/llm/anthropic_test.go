package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnthropic(url, key string) *AnthropicClient {
	return NewAnthropicClient(AnthropicConfig{
		APIKey:     key,
		BaseURL:    url,
		Version:    "2023-06-01",
		Model:      "claude-3-haiku-20240307",
		MaxTokens:  1000,
		HTTPClient: NewHTTPClient(5 * time.Second),
	})
}

func TestAnthropicClient_Complete(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"claude-3-haiku-20240307","content":[{"type":"text","text":"[{\"accommodation\":"},{"type":"text","text":"\"a\"}]"}],"usage":{"input_tokens":12,"output_tokens":7}}`))
	}))
	defer srv.Close()

	c := newTestAnthropic(srv.URL+"/", "sk-test")
	resp, err := c.Complete(context.Background(), Request{Prompt: "hello"})

	require.NoError(t, err)
	assert.Equal(t, `[{"accommodation":"a"}]`, resp.Text)
	assert.Equal(t, 12, resp.Usage.InputTokens)
	assert.Equal(t, 7, resp.Usage.OutputTokens)

	assert.Equal(t, "claude-3-haiku-20240307", got.Model)
	assert.Equal(t, 1000, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "hello", got.Messages[0].Content)
}

func TestAnthropicClient_RequestOverrides(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	c := newTestAnthropic(srv.URL, "sk-test")
	_, err := c.Complete(context.Background(), Request{Prompt: "p", Model: "other", MaxTokens: 42})

	require.NoError(t, err)
	assert.Equal(t, "other", got.Model)
	assert.Equal(t, 42, got.MaxTokens)
}

func TestAnthropicClient_MissingKey(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	c := newTestAnthropic(srv.URL, "")

	assert.ErrorIs(t, c.Ready(), ErrMissingCredential)
	_, err := c.Complete(context.Background(), Request{Prompt: "p"})
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestAnthropicClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer srv.Close()

	_, err := newTestAnthropic(srv.URL, "sk-test").Complete(context.Background(), Request{Prompt: "p"})

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusTooManyRequests, se.Code)
	assert.Contains(t, se.Body, "slow down")
}

func TestAnthropicClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestAnthropic(url, "sk-test").Complete(context.Background(), Request{Prompt: "p"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestAnthropicClient_APIErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"type":"overloaded_error","message":"overloaded"}}`))
	}))
	defer srv.Close()

	_, err := newTestAnthropic(srv.URL, "sk-test").Complete(context.Background(), Request{Prompt: "p"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "overloaded")
}

func TestAnthropicClient_OversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chunk := make([]byte, 64<<10)
		for i := range chunk {
			chunk[i] = ' '
		}
		for written := 0; written <= maxResponseBytes; written += len(chunk) {
			if _, err := w.Write(chunk); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	_, err := newTestAnthropic(srv.URL, "sk-test").Complete(context.Background(), Request{Prompt: "p"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "response exceeds")
}
