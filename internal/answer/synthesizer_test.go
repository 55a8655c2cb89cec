package answer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"document-qa/internal/config"
	"document-qa/internal/models"
)

func completionServer(t *testing.T, handler func(model string) (int, string)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		status, content := handler(req.Model)
		w.WriteHeader(status)
		if status == http.StatusOK {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]string{"content": content}},
				},
			})
		}
	}))
}

func testClient(baseURL string, models []string) *CompletionClient {
	return NewCompletionClient(&config.CompletionConfig{
		BaseURL:     baseURL,
		APIKey:      "test-key",
		Models:      models,
		Temperature: 0.3,
		MaxTokens:   500,
		TimeoutSecs: 5,
	})
}

func someResults() []models.SearchResult {
	return []models.SearchResult{
		{Text: "Premium payments are covered with a grace period of 30 days", Page: 2, Type: models.ChunkParagraph},
	}
}

func TestCompleteSkipsFailingModels(t *testing.T) {
	ts := completionServer(t, func(model string) (int, string) {
		if model == "flaky" {
			return http.StatusInternalServerError, ""
		}
		return http.StatusOK, "answer from stable model"
	})
	defer ts.Close()

	client := testClient(ts.URL, []string{"flaky", "stable"})
	got, err := client.Complete(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "answer from stable model", got)
}

func TestCompleteAllModelsFail(t *testing.T) {
	ts := completionServer(t, func(string) (int, string) {
		return http.StatusBadGateway, ""
	})
	defer ts.Close()

	client := testClient(ts.URL, []string{"a", "b"})
	_, err := client.Complete(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, ErrAllModelsFailed)
}

func TestCompleteNoAPIKey(t *testing.T) {
	client := NewCompletionClient(&config.CompletionConfig{TimeoutSecs: 1})
	_, err := client.Complete(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestSynthesizerUsesGenerativeAnswer(t *testing.T) {
	ts := completionServer(t, func(string) (int, string) {
		return http.StatusOK, "The grace period is 30 days (Page 2)."
	})
	defer ts.Close()

	s := NewSynthesizer(testClient(ts.URL, []string{"sonar"}))
	got := s.Answer(context.Background(), "What is the grace period?", models.ParsedQuery{}, someResults())
	assert.Equal(t, "The grace period is 30 days (Page 2).", got)
}

func TestSynthesizerFallsBackOnRefusal(t *testing.T) {
	ts := completionServer(t, func(string) (int, string) {
		return http.StatusOK, RefusalAnswer
	})
	defer ts.Close()

	s := NewSynthesizer(testClient(ts.URL, []string{"sonar"}))
	got := s.Answer(context.Background(), "What is the grace period?", models.ParsedQuery{}, someResults())
	// "covered" in the top chunk drives an approved rule decision
	assert.Contains(t, got, "Positive indicators found in document (Page 2)")
}

func TestSynthesizerFallsBackWithoutAPIKey(t *testing.T) {
	s := NewSynthesizer(NewCompletionClient(&config.CompletionConfig{TimeoutSecs: 1}))
	got := s.Answer(context.Background(), "What is the grace period?", models.ParsedQuery{}, someResults())
	assert.Contains(t, got, "Positive indicators found in document (Page 2)")
}

func TestSynthesizerNoChunks(t *testing.T) {
	s := NewSynthesizer(NewCompletionClient(&config.CompletionConfig{APIKey: "k", TimeoutSecs: 1}))
	got := s.Answer(context.Background(), "anything", models.ParsedQuery{}, nil)
	assert.Equal(t, "No relevant information found in the provided documents.", got)
}

func TestSynthesizerFallsBackOnServiceFailure(t *testing.T) {
	ts := completionServer(t, func(string) (int, string) {
		return http.StatusServiceUnavailable, ""
	})
	defer ts.Close()

	s := NewSynthesizer(testClient(ts.URL, []string{"sonar"}))
	got := s.Answer(context.Background(), "What is the grace period?", models.ParsedQuery{}, someResults())
	assert.Contains(t, got, "Positive indicators found in document (Page 2)")
}
