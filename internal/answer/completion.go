package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"document-qa/internal/config"
)

var (
	// ErrNoAPIKey means the generative path is not configured at all.
	ErrNoAPIKey = errors.New("no completion API key configured")
	// ErrAllModelsFailed means every candidate model was attempted and
	// none returned a usable completion.
	ErrAllModelsFailed = errors.New("all completion models failed")
)

// CompletionClient calls an OpenAI-style chat-completions endpoint with
// bearer auth, trying an ordered list of candidate models until one
// succeeds. Per-model failures are absorbed, never surfaced.
type CompletionClient struct {
	baseURL     string
	apiKey      string
	models      []string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

func NewCompletionClient(cfg *config.CompletionConfig) *CompletionClient {
	return &CompletionClient{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		models:      cfg.Models,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		httpClient:  &http.Client{Timeout: time.Duration(cfg.TimeoutSecs) * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the system/user pair to each candidate model in order
// and returns the first successful completion.
func (c *CompletionClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	for _, model := range c.models {
		answer, err := c.completeWith(ctx, model, systemPrompt, userPrompt)
		if err != nil {
			log.Warn().Err(err).Str("model", model).Msg("Completion model failed, trying next")
			continue
		}
		log.Debug().Str("model", model).Msg("Completion model succeeded")
		return answer, nil
	}
	return "", ErrAllModelsFailed
}

func (c *CompletionClient) completeWith(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	payload := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimPrefix(c.apiKey, "Bearer "))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("request failed: %d, %s", resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("completion response has no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
