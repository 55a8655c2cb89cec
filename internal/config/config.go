package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Completion CompletionConfig `yaml:"completion"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	AuthToken   string   `yaml:"auth_token"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type CompletionConfig struct {
	BaseURL     string   `yaml:"base_url"`
	APIKey      string   `yaml:"api_key"`
	Models      []string `yaml:"models"`
	Temperature float64  `yaml:"temperature"`
	MaxTokens   int      `yaml:"max_tokens"`
	TimeoutSecs int      `yaml:"timeout_secs"`
}

type EmbeddingConfig struct {
	Provider string `yaml:"provider"` // "openai" or "ollama"
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
	// DistanceThreshold is squared-L2 and calibrated to the configured
	// embedding model; changing the model means recalibrating this.
	DistanceThreshold float32 `yaml:"distance_threshold"`
	MinResults        int     `yaml:"min_results"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a config usable without a config file; the completion
// API key is read from the environment.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"http://localhost:5173"}
	}
	if c.Completion.BaseURL == "" {
		c.Completion.BaseURL = "https://api.perplexity.ai"
	}
	if c.Completion.APIKey == "" {
		c.Completion.APIKey = os.Getenv("PPLX_API_KEY")
	}
	if len(c.Completion.Models) == 0 {
		c.Completion.Models = []string{
			"sonar",
			"sonar-pro",
			"llama-3.1-sonar-small-128k-online",
			"llama-3.1-sonar-large-128k-online",
		}
	}
	if c.Completion.Temperature == 0 {
		c.Completion.Temperature = 0.3
	}
	if c.Completion.MaxTokens == 0 {
		c.Completion.MaxTokens = 500
	}
	if c.Completion.TimeoutSecs == 0 {
		c.Completion.TimeoutSecs = 60
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "ollama"
	}
	if c.Embedding.BaseURL == "" {
		c.Embedding.BaseURL = "http://localhost:11434"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "nomic-embed-text"
	}
	if c.Retrieval.TopK == 0 {
		c.Retrieval.TopK = 10
	}
	if c.Retrieval.DistanceThreshold == 0 {
		c.Retrieval.DistanceThreshold = 1.5
	}
	if c.Retrieval.MinResults == 0 {
		c.Retrieval.MinResults = 3
	}
}
