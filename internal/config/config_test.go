package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "https://api.perplexity.ai", cfg.Completion.BaseURL)
	assert.Equal(t, []string{
		"sonar",
		"sonar-pro",
		"llama-3.1-sonar-small-128k-online",
		"llama-3.1-sonar-large-128k-online",
	}, cfg.Completion.Models)
	assert.InDelta(t, 0.3, cfg.Completion.Temperature, 1e-9)
	assert.Equal(t, 500, cfg.Completion.MaxTokens)
	assert.Equal(t, 10, cfg.Retrieval.TopK)
	assert.InDelta(t, 1.5, cfg.Retrieval.DistanceThreshold, 1e-6)
	assert.Equal(t, 3, cfg.Retrieval.MinResults)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
server:
  addr: ":9090"
  auth_token: "tok"
completion:
  api_key: "key-from-file"
  models: ["only-model"]
retrieval:
  top_k: 5
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "tok", cfg.Server.AuthToken)
	assert.Equal(t, "key-from-file", cfg.Completion.APIKey)
	assert.Equal(t, []string{"only-model"}, cfg.Completion.Models)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	// untouched sections still get defaults
	assert.InDelta(t, 1.5, cfg.Retrieval.DistanceThreshold, 1e-6)
	assert.Equal(t, "ollama", cfg.Embedding.Provider)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}
