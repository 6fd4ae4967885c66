// Package config loads configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Provider selects the text-generation backend.
type Provider string

const (
	// ProviderNone disables external generation; replies come from the
	// template synthesizer.
	ProviderNone Provider = "none"
	// ProviderOpenAI uses an OpenAI-compatible chat completion endpoint.
	ProviderOpenAI Provider = "openai"
)

// Config holds runtime settings.
type Config struct {
	Addr string

	// DatabaseURL empty selects the in-memory store.
	DatabaseURL string

	Provider       Provider
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	LLMModel       string
	BackendTimeout time.Duration
	HistoryLimit   int

	// Memory recall settings; recall stays off without a GoogleAPIKey.
	GoogleAPIKey        string
	EmbeddingModel      string
	TopK                int
	SimilarityThreshold float64
}

// Load reads env vars, applies defaults, and validates the combination.
func Load() (Config, error) {
	cfg := Config{
		Addr:          os.Getenv("ADDR"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		Provider:      Provider(os.Getenv("LLM_PROVIDER")),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		LLMModel:      os.Getenv("LLM_MODEL"),

		GoogleAPIKey:   os.Getenv("GOOGLE_API_KEY"),
		EmbeddingModel: os.Getenv("EMBEDDING_MODEL"),
	}

	cfg.BackendTimeout = getEnvDuration("BACKEND_TIMEOUT", 8*time.Second)
	cfg.HistoryLimit = getEnvInt("HISTORY_LIMIT", 20)
	cfg.TopK = getEnvInt("TOP_K", 5)
	cfg.SimilarityThreshold = getEnvFloat("SIMILARITY_THRESHOLD", 0.7)

	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = "gpt-4o-mini"
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = "text-embedding-004"
	}
	if cfg.Provider == "" {
		if cfg.OpenAIAPIKey != "" {
			cfg.Provider = ProviderOpenAI
		} else {
			cfg.Provider = ProviderNone
		}
	}

	switch cfg.Provider {
	case ProviderNone:
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return Config{}, fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
	default:
		return Config{}, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.Provider)
	}

	return cfg, nil
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}
