package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"liquitrace/internal/domain"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultModel     = openai.GPT4oMini
	DefaultMaxTokens = 120

	systemPrompt = "You are a concise crypto analyst. Given a token name, symbol, 24h price change %, and 24h volume, " +
		"write ONE sentence describing the token and its current momentum."
)

var ErrEmptyCompletion = errors.New("completion returned no content")

type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

type OpenAISummaryGenerator struct {
	client    *openai.Client
	model     string
	maxTokens int
}

func NewOpenAISummaryGenerator(cfg Config, httpClient *http.Client) *OpenAISummaryGenerator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		clientCfg.HTTPClient = httpClient
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	return &OpenAISummaryGenerator{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     model,
		maxTokens: maxTokens,
	}
}

func (g *OpenAISummaryGenerator) GenerateSummary(ctx context.Context, req domain.SummaryRequest) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: UserPrompt(req)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create completion for %q: %w", req.Symbol, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", ErrEmptyCompletion
	}
	return summary, nil
}

func UserPrompt(req domain.SummaryRequest) string {
	return fmt.Sprintf("Token: %s (%s)\n24h Price Change: %+.1f%%\n24h Volume: $%.0f",
		req.Name, req.Symbol, req.PriceChangePct, req.Volume24h)
}
