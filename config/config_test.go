package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ProviderOpenAI, cfg.ModelProvider)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 3, cfg.RetrievalK)
	assert.Equal(t, 4096, cfg.HistoryTokenBudget)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AIBOT_MODEL_PROVIDER", ProviderOllama)
	t.Setenv("OLLAMA_HOST", "http://ollama:11434")
	t.Setenv("AIBOT_OLLAMA_MODEL", "qwen2.5")
	t.Setenv("AIBOT_LISTEN_ADDR", ":9090")
	t.Setenv("AIBOT_METRICS_ENABLED", "false")
	t.Setenv("AIBOT_RETRIEVAL_K", "5")

	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ProviderOllama, cfg.ModelProvider)
	assert.Equal(t, "qwen2.5", cfg.OllamaModel)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, 5, cfg.RetrievalK)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:    "openai requires key",
			mutate:  func(cfg *Config) { cfg.OpenAIAPIKey = "" },
			wantErr: "OPENAI_API_KEY",
		},
		{
			name: "anthropic requires key",
			mutate: func(cfg *Config) {
				cfg.ModelProvider = ProviderAnthropic
				cfg.AnthropicAPIKey = ""
			},
			wantErr: "ANTHROPIC_API_KEY",
		},
		{
			name:    "unknown provider",
			mutate:  func(cfg *Config) { cfg.ModelProvider = "bard" },
			wantErr: "unknown AIBOT_MODEL_PROVIDER",
		},
		{
			name:    "retrieval k positive",
			mutate:  func(cfg *Config) { cfg.RetrievalK = 0 },
			wantErr: "AIBOT_RETRIEVAL_K",
		},
		{
			name:    "token budget not negative",
			mutate:  func(cfg *Config) { cfg.HistoryTokenBudget = -1 },
			wantErr: "AIBOT_HISTORY_TOKEN_BUDGET",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				ModelProvider:      ProviderOpenAI,
				OpenAIAPIKey:       "sk-test",
				RetrievalK:         3,
				HistoryTokenBudget: 1024,
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
