package commands

import (
	"fmt"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/prometheus/client_golang/prometheus"

	aibot "github.com/haroonj/Ai-Bot"
	"github.com/haroonj/Ai-Bot/commerce"
	"github.com/haroonj/Ai-Bot/config"
	"github.com/haroonj/Ai-Bot/engine"
	"github.com/haroonj/Ai-Bot/knowledge"
	"github.com/haroonj/Ai-Bot/logging"
	"github.com/haroonj/Ai-Bot/metrics"
	"github.com/haroonj/Ai-Bot/model"
	"github.com/haroonj/Ai-Bot/model/anthropic"
	"github.com/haroonj/Ai-Bot/model/ollama"
	"github.com/haroonj/Ai-Bot/model/openai"
)

// newLogger builds the process logger from config.
func newLogger(cfg *config.Config) logging.Logger {
	return logging.NewLogger(&logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
	})
}

// newModel builds the chat model for the configured provider.
func newModel(cfg *config.Config) (model.Model, error) {
	switch cfg.ModelProvider {
	case config.ProviderOpenAI:
		return openai.NewModel(func(o *openai.Options) {
			o.Model = cfg.OpenAIModel
		}), nil
	case config.ProviderAnthropic:
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.Model = anthropicsdk.Model(cfg.AnthropicModel)
			o.APIKey = cfg.AnthropicAPIKey
		}), nil
	case config.ProviderOllama:
		return ollama.NewModel(func(o *ollama.Options) {
			o.Host = cfg.OllamaHost
			o.Model = cfg.OllamaModel
		}), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.ModelProvider)
	}
}

// newRetriever opens the knowledge index when one is configured. Retrieval
// needs an embeddings provider; only OpenAI embeddings are wired, so without
// an OpenAI key the knowledge tool degrades gracefully.
func newRetriever(cfg *config.Config, logger logging.Logger) (knowledge.Retriever, func(), error) {
	if cfg.KnowledgeIndexPath == "" {
		return nil, func() {}, nil
	}
	if cfg.OpenAIAPIKey == "" {
		logger.Warn("bootstrap.knowledge.disabled", "reason", "no OPENAI_API_KEY for embeddings")
		return nil, func() {}, nil
	}

	embedder := openai.NewEmbedder(func(o *openai.EmbedderOptions) {
		o.Model = cfg.OpenAIEmbeddingModel
	})
	index, err := knowledge.OpenSQLiteIndex(cfg.KnowledgeIndexPath, embedder)
	if err != nil {
		return nil, nil, fmt.Errorf("open knowledge index %s: %w", cfg.KnowledgeIndexPath, err)
	}
	return index, func() { _ = index.Close() }, nil
}

// buildBot assembles a Bot from config: model, commerce store, retriever,
// metrics, engine settings. The returned cleanup closes the knowledge index.
func buildBot(cfg *config.Config, logger logging.Logger) (*aibot.Bot, func(), error) {
	m, err := newModel(cfg)
	if err != nil {
		return nil, nil, err
	}

	var store commerce.Store
	if cfg.CommerceAPIBaseURL != "" {
		store = commerce.NewClient(cfg.CommerceAPIBaseURL)
	} else {
		logger.Info("bootstrap.commerce.sample_store")
		store = commerce.NewSampleStore()
	}

	retriever, cleanup, err := newRetriever(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.MetricsEnabled {
		recorder = metrics.NewPrometheusRecorder(prometheus.DefaultRegisterer)
	}

	bot, err := aibot.New(m, func(o *aibot.Options) {
		o.Store = store
		o.Retriever = retriever
		o.Logger = logger
		o.Metrics = recorder
		o.RetrievalK = cfg.RetrievalK
		o.EngineOptions = []func(eo *engine.Options){
			engine.WithHistoryTokenBudget(cfg.HistoryTokenBudget),
			engine.WithMaxHistoryMessages(cfg.MaxHistoryMessages),
		}
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return bot, cleanup, nil
}
