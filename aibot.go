// Package aibot wires the dialogue engine to its collaborators: a language
// model, the commerce-backed capability tools, the knowledge retriever and a
// session store. It is the package embedders use; the CLI and the HTTP
// transport are thin shells around Bot.
package aibot

import (
	"context"
	"fmt"

	"github.com/haroonj/Ai-Bot/commerce"
	"github.com/haroonj/Ai-Bot/core"
	"github.com/haroonj/Ai-Bot/engine"
	"github.com/haroonj/Ai-Bot/knowledge"
	"github.com/haroonj/Ai-Bot/logging"
	"github.com/haroonj/Ai-Bot/metrics"
	"github.com/haroonj/Ai-Bot/model"
	"github.com/haroonj/Ai-Bot/session"
	"github.com/haroonj/Ai-Bot/tool"
)

// Options configure a Bot.
type Options struct {
	// Store is the commerce backend. Defaults to the in-memory sample
	// store.
	Store commerce.Store

	// Retriever serves knowledge-base lookups. Nil keeps the tool
	// registered but failing gracefully.
	Retriever knowledge.Retriever

	// Sessions persists conversation histories for Chat. Defaults to an
	// in-memory store.
	Sessions session.Store

	Logger  logging.Logger
	Metrics metrics.Recorder

	// EngineOptions are applied to the underlying engine on top of the
	// logger and metrics above.
	EngineOptions []func(o *engine.Options)

	// RetrievalK is the number of knowledge passages per lookup. Zero
	// uses the package default.
	RetrievalK int
}

// Bot is a ready-to-use support agent: one engine plus a session store.
type Bot struct {
	engine   *engine.Engine
	sessions session.Store
	logger   logging.Logger
}

// New builds a Bot around the given model.
func New(m model.Model, optFns ...func(o *Options)) (*Bot, error) {
	if m == nil {
		return nil, fmt.Errorf("aibot: model must not be nil")
	}

	opts := Options{
		Logger:  logging.NoOpLogger{},
		Metrics: metrics.NoopRecorder{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Store == nil {
		opts.Store = commerce.NewSampleStore()
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewInMemoryStore()
	}

	kbOpts := []func(o *tool.KnowledgeBaseOptions){}
	if opts.RetrievalK > 0 {
		kbOpts = append(kbOpts, func(o *tool.KnowledgeBaseOptions) { o.TopK = opts.RetrievalK })
	}
	registry := tool.NewRegistry([]tool.Tool{
		tool.NewOrderStatusTool(opts.Store),
		tool.NewTrackingInfoTool(opts.Store),
		tool.NewOrderDetailsTool(opts.Store),
		tool.NewInitiateReturnTool(opts.Store),
		tool.NewKnowledgeBaseTool(opts.Retriever, kbOpts...),
	}, func(o *tool.RegistryOptions) { o.Logger = opts.Logger })

	engineOpts := append([]func(o *engine.Options){
		engine.WithLogger(opts.Logger),
		engine.WithMetrics(opts.Metrics),
	}, opts.EngineOptions...)

	return &Bot{
		engine:   engine.New(m, registry, engineOpts...),
		sessions: opts.Sessions,
		logger:   opts.Logger,
	}, nil
}

// ProcessTurn runs one stateless turn. The caller owns history persistence.
func (b *Bot) ProcessTurn(ctx context.Context, history []core.Message, userText string) (*engine.Result, error) {
	return b.engine.ProcessTurn(ctx, history, userText)
}

// Chat runs one turn of a stored conversation. An empty conversationID
// starts a new conversation; the (possibly minted) id is returned alongside
// the reply.
func (b *Bot) Chat(ctx context.Context, conversationID, query string) (reply, id string, err error) {
	if conversationID == "" {
		conversationID = core.NewID()
	}

	history, err := b.sessions.History(ctx, conversationID)
	if err != nil {
		return "", "", fmt.Errorf("load session %s: %w", conversationID, err)
	}

	result, err := b.engine.ProcessTurn(ctx, history, query)
	if err != nil {
		return "", "", err
	}

	if err := b.sessions.Save(ctx, conversationID, result.History); err != nil {
		return "", "", fmt.Errorf("save session %s: %w", conversationID, err)
	}
	return result.Reply, conversationID, nil
}
