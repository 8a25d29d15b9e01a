package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"liquitrace/internal/domain"

	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newGenerator(t *testing.T, handler http.HandlerFunc) *OpenAISummaryGenerator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAISummaryGenerator(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"}, srv.Client())
}

func TestGenerateSummary_Success(t *testing.T) {
	var got capturedRequest
	var gotAuth, gotPath string
	gen := newGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  DEGEN is ripping higher on heavy volume.  "},"finish_reason":"stop"}]}`))
	})

	summary, err := gen.GenerateSummary(context.Background(), domain.SummaryRequest{
		Name: "Degen", Symbol: "DEGEN", PriceChangePct: 42.04, Volume24h: 125000.4,
	})

	require.NoError(t, err)
	require.Equal(t, "DEGEN is ripping higher on heavy volume.", summary)
	require.Equal(t, "/v1/chat/completions", gotPath)
	require.Equal(t, "Bearer test-key", gotAuth)
	require.Equal(t, DefaultModel, got.Model)
	require.Equal(t, DefaultMaxTokens, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	require.Equal(t, "system", got.Messages[0].Role)
	require.Contains(t, got.Messages[0].Content, "ONE sentence")
	require.Equal(t, "user", got.Messages[1].Role)
	require.Equal(t, "Token: Degen (DEGEN)\n24h Price Change: +42.0%\n24h Volume: $125000", got.Messages[1].Content)
}

func TestGenerateSummary_EmptyChoices(t *testing.T) {
	gen := newGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","choices":[]}`))
	})

	summary, err := gen.GenerateSummary(context.Background(), domain.SummaryRequest{Name: "X", Symbol: "X"})

	require.True(t, errors.Is(err, ErrEmptyCompletion))
	require.Empty(t, summary)
}

func TestGenerateSummary_APIError(t *testing.T) {
	gen := newGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
	})

	summary, err := gen.GenerateSummary(context.Background(), domain.SummaryRequest{Name: "X", Symbol: "XX"})

	require.Error(t, err)
	require.Contains(t, err.Error(), `"XX"`)
	require.Empty(t, summary)
}

func TestUserPrompt_NegativeChange(t *testing.T) {
	prompt := UserPrompt(domain.SummaryRequest{Name: "Brett", Symbol: "BRETT", PriceChangePct: -5.26, Volume24h: 999.6})
	require.Equal(t, "Token: Brett (BRETT)\n24h Price Change: -5.3%\n24h Volume: $1000", prompt)
}
