// Package config loads the bot's configuration from environment variables
// with defaults and provider-specific validation. The CLI loads a .env file
// before calling Load; nothing in this package touches files.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Supported model providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Config holds all runtime configuration for the bot.
type Config struct {
	// Model provider selection
	ModelProvider string

	// OpenAI settings
	OpenAIAPIKey         string
	OpenAIModel          string
	OpenAIEmbeddingModel string

	// Anthropic settings
	AnthropicAPIKey string
	AnthropicModel  string

	// Ollama settings
	OllamaHost  string
	OllamaModel string

	// Backends
	CommerceAPIBaseURL string
	KnowledgeIndexPath string
	RetrievalK         int

	// HTTP surfaces
	ListenAddr  string
	MockAPIAddr string

	// Engine settings
	HistoryTokenBudget int
	MaxHistoryMessages int

	// Observability
	LogLevel       string
	LogFormat      string
	MetricsEnabled bool
}

// Load reads configuration from environment variables. Callers that need a
// model provider must call Validate; surfaces like the mock API run off the
// defaults alone.
func Load() *Config {
	return &Config{
		ModelProvider:        getEnv("AIBOT_MODEL_PROVIDER", ProviderOpenAI),
		OpenAIAPIKey:         os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:          getEnv("AIBOT_OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIEmbeddingModel: getEnv("AIBOT_EMBEDDING_MODEL", "text-embedding-3-small"),
		AnthropicAPIKey:      os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:       getEnv("AIBOT_ANTHROPIC_MODEL", "claude-3-5-haiku-latest"),
		OllamaHost:           getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:          getEnv("AIBOT_OLLAMA_MODEL", "llama3.2"),
		CommerceAPIBaseURL:   getEnv("AIBOT_COMMERCE_API_URL", ""),
		KnowledgeIndexPath:   getEnv("AIBOT_KNOWLEDGE_INDEX", ""),
		RetrievalK:           getEnvInt("AIBOT_RETRIEVAL_K", 3),
		ListenAddr:           getEnv("AIBOT_LISTEN_ADDR", ":8080"),
		MockAPIAddr:          getEnv("AIBOT_MOCK_API_ADDR", ":8081"),
		HistoryTokenBudget:   getEnvInt("AIBOT_HISTORY_TOKEN_BUDGET", 4096),
		MaxHistoryMessages:   getEnvInt("AIBOT_MAX_HISTORY_MESSAGES", 40),
		LogLevel:             getEnv("AIBOT_LOG_LEVEL", "info"),
		LogFormat:            getEnv("AIBOT_LOG_FORMAT", "text"),
		MetricsEnabled:       getEnvBool("AIBOT_METRICS_ENABLED", true),
	}
}

// Validate enforces provider-specific requirements and sane ranges.
func (c *Config) Validate() error {
	switch c.ModelProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when AIBOT_MODEL_PROVIDER=%s", ProviderOpenAI)
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when AIBOT_MODEL_PROVIDER=%s", ProviderAnthropic)
		}
	case ProviderOllama:
		if c.OllamaHost == "" {
			return fmt.Errorf("OLLAMA_HOST must not be empty when AIBOT_MODEL_PROVIDER=%s", ProviderOllama)
		}
	default:
		return fmt.Errorf("unknown AIBOT_MODEL_PROVIDER %q (expected %s, %s or %s)",
			c.ModelProvider, ProviderOpenAI, ProviderAnthropic, ProviderOllama)
	}
	if c.RetrievalK <= 0 {
		return fmt.Errorf("AIBOT_RETRIEVAL_K must be positive, got %d", c.RetrievalK)
	}
	if c.HistoryTokenBudget < 0 {
		return fmt.Errorf("AIBOT_HISTORY_TOKEN_BUDGET must not be negative, got %d", c.HistoryTokenBudget)
	}
	if c.MaxHistoryMessages < 0 {
		return fmt.Errorf("AIBOT_MAX_HISTORY_MESSAGES must not be negative, got %d", c.MaxHistoryMessages)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
