// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "sk-or-test-abcdefghijklmnopqrstuvwxyz0123456789"

const okBody = `{
	"id": "gen-1",
	"model": "test-model",
	"choices": [{
		"message": {"role": "assistant", "content": "Hello"},
		"finish_reason": "stop"
	}],
	"usage": {"prompt_tokens": 10, "completion_tokens": 2, "total_tokens": 12}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(testKey).WithBaseURL(server.URL + "/")
}

func simpleRequest() ChatRequest {
	return ChatRequest{
		Model:    "test-model",
		Messages: []ChatMessage{NewUserMessage("hi")},
	}
}

// =============================================================================
// REQUEST SHAPE TESTS
// =============================================================================

func TestComplete_SendsHeadersAndBody(t *testing.T) {
	var gotHeaders http.Header
	var gotBody map[string]any
	var gotPath string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(okBody))
	}).WithSiteURL("https://pandanexus.dev").WithSiteName("PandaNexus AI Platform")

	req := ChatRequest{
		Model: "qwen/qwen3-coder:free",
		Messages: []ChatMessage{
			NewSystemMessage("be brief"),
			NewImageMessage("user", "what is this", "data:image/png;base64,AAAA"),
		},
		Temperature:      Float(0.3),
		MaxTokens:        2000,
		TopP:             Float(0.9),
		FrequencyPenalty: Float(0.1),
		PresencePenalty:  Float(0.1),
		Stream:           true,
	}

	resp, err := client.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Hello", resp.GetContent())

	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer "+testKey, gotHeaders.Get("Authorization"))
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "https://pandanexus.dev", gotHeaders.Get("HTTP-Referer"))
	assert.Equal(t, "PandaNexus AI Platform", gotHeaders.Get("X-Title"))
	assert.Equal(t, DefaultUserAgent, gotHeaders.Get("User-Agent"))

	assert.Equal(t, "qwen/qwen3-coder:free", gotBody["model"])
	assert.Equal(t, false, gotBody["stream"])
	assert.Equal(t, 0.3, gotBody["temperature"])
	assert.Equal(t, float64(2000), gotBody["max_tokens"])
	assert.Equal(t, 0.9, gotBody["top_p"])
	assert.Equal(t, 0.1, gotBody["frequency_penalty"])
	assert.Equal(t, 0.1, gotBody["presence_penalty"])

	messages := gotBody["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "be brief", messages[0].(map[string]any)["content"])

	parts := messages[1].(map[string]any)["content"].([]any)
	require.Len(t, parts, 2)
	assert.Equal(t, "text", parts[0].(map[string]any)["type"])
	assert.Equal(t, "what is this", parts[0].(map[string]any)["text"])
	image := parts[1].(map[string]any)
	assert.Equal(t, "image_url", image["type"])
	assert.Equal(t, "data:image/png;base64,AAAA", image["image_url"].(map[string]any)["url"])
}

func TestWithUserAgent(t *testing.T) {
	var (
		mu     sync.Mutex
		agents []string
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		agents = append(agents, r.UserAgent())
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/models" {
			_, _ = w.Write([]byte(`{"data":[]}`))
			return
		}
		_, _ = w.Write([]byte(okBody))
	}).WithUserAgent("").WithUserAgent("panda-test/2")

	_, err := client.Complete(context.Background(), simpleRequest())
	require.NoError(t, err)
	_, err = client.ListModels(context.Background())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"panda-test/2", "panda-test/2"}, agents, "empty value keeps the previous agent")
}

func TestChatMessage_UnmarshalVariants(t *testing.T) {
	var m ChatMessage
	require.NoError(t, json.Unmarshal([]byte(`{"role":"assistant","content":"plain"}`), &m))
	assert.Equal(t, "plain", m.Text())

	require.NoError(t, json.Unmarshal([]byte(`{"role":"assistant","content":null}`), &m))
	assert.Equal(t, "", m.Text())

	require.NoError(t, json.Unmarshal([]byte(`{"role":"assistant","content":[{"type":"text","text":"a"},{"type":"text","text":"b"}]}`), &m))
	assert.Equal(t, "a\nb", m.Text())
}

// =============================================================================
// FAILURE TAXONOMY TESTS
// =============================================================================

func TestComplete_NotConfigured(t *testing.T) {
	_, err := NewClient("  ").Complete(context.Background(), simpleRequest())
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, "not_configured", Kind(err))
}

func TestComplete_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		code     string
		temp     bool
	}{
		{"server error", http.StatusInternalServerError, "boom", nil, "", true},
		{"unauthorized", http.StatusUnauthorized, `{"error":{"code":401,"message":"No auth credentials found"}}`, ErrAuthFailed, "401", false},
		{"payment", http.StatusPaymentRequired, `{"error":{"message":"credits"}}`, ErrInsufficientCredits, "", false},
		{"not found", http.StatusNotFound, "", ErrModelNotFound, "", false},
		{"rate limited", http.StatusTooManyRequests, `{"error":{"code":"rate_limit","message":"slow down"}}`, ErrRateLimited, "rate_limit", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var calls atomic.Int32
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := client.Complete(context.Background(), simpleRequest())
			require.Error(t, err)

			var ue *UpstreamError
			require.True(t, errors.As(err, &ue), "want *UpstreamError, got %T", err)
			assert.Equal(t, tc.status, ue.Status)
			assert.Equal(t, tc.code, ue.Code)
			assert.Equal(t, tc.temp, ue.Temporary())
			assert.NotEmpty(t, ue.Message)
			if tc.sentinel != nil {
				assert.ErrorIs(t, err, tc.sentinel)
			}
			assert.Equal(t, "upstream", Kind(err))
			assert.Equal(t, int32(1), calls.Load(), "client must not retry")
		})
	}
}

func TestComplete_EmptyContent(t *testing.T) {
	bodies := []string{
		`{"choices":[]}`,
		`{"choices":[{"message":{"role":"assistant","content":""}}]}`,
		`{"choices":[{"message":{"role":"assistant","content":"   "}}]}`,
		`{"choices":[{"message":{"role":"assistant","content":null}}]}`,
	}
	for _, body := range bodies {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		_, err := client.Complete(context.Background(), simpleRequest())
		assert.ErrorIs(t, err, ErrEmptyContent, "body %s", body)
		assert.Equal(t, "malformed", Kind(err))
	}
}

func TestComplete_MalformedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	})
	_, err := client.Complete(context.Background(), simpleRequest())
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestComplete_Timeout(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Complete(ctx, simpleRequest())
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "transport", Kind(err))
}

func TestComplete_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(testKey).WithBaseURL(url).Complete(context.Background(), simpleRequest())
	assert.ErrorIs(t, err, ErrTransport)
}

func TestComplete_RateLimiterHonoursDeadline(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(okBody))
	}).WithRateLimit(0.001, 1)

	_, err := client.Complete(context.Background(), simpleRequest())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.Complete(ctx, simpleRequest())
	assert.ErrorIs(t, err, ErrTransport)
}

// =============================================================================
// CONCURRENT ACCESS TESTS
// =============================================================================

func TestComplete_Concurrent(t *testing.T) {
	var requestCount atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requestCount.Add(1)
		_, _ = w.Write([]byte(okBody))
	})

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := client.Complete(context.Background(), simpleRequest()); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Complete() error: %v", err)
	}
	assert.Equal(t, int32(50), requestCount.Load())
}

// =============================================================================
// MODELS / KEY TESTS
// =============================================================================

func TestListModels(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[
			{"id":"qwen/qwen3-coder:free","name":"Qwen3 Coder","context_length":262144,"pricing":{"prompt":"0","completion":"0"}},
			{"id":"paid/model","name":"Paid","context_length":8192,"pricing":{"prompt":"0.000001","completion":"0.000002"}}
		]}`))
	})

	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.True(t, models[0].IsFree())
	assert.False(t, models[1].IsFree())
	assert.Equal(t, 262144, models[0].ContextSize)
}

func TestAPIKeyMasked(t *testing.T) {
	c := NewClient(testKey)
	masked := c.APIKeyMasked()
	assert.NotContains(t, masked, "abcdef")
	assert.Contains(t, masked, c.KeyFingerprint())
	assert.Len(t, c.KeyFingerprint(), 8)
	assert.Equal(t, "[not set]", NewClient("").APIKeyMasked())
}

func TestValidateAPIKey(t *testing.T) {
	assert.True(t, ValidateAPIKey(testKey))
	assert.False(t, ValidateAPIKey("sk-or-short"))
	assert.False(t, ValidateAPIKey("sk-or-aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"))
	assert.False(t, ValidateAPIKey("sk-ant-REDACTED"))
}
