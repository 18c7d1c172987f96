package tool

import (
	"context"
	"strings"

	"github.com/haroonj/Ai-Bot/knowledge"
)

// KnowledgeBaseTool retrieves store policy passages relevant to a free-text
// question. The retrieved passages are returned as a single context string
// for downstream answer synthesis.
type KnowledgeBaseTool struct {
	retriever knowledge.Retriever
	topK      int
}

// KnowledgeBaseOptions configure a KnowledgeBaseTool.
type KnowledgeBaseOptions struct {
	// TopK is the number of passages to retrieve per query.
	TopK int
}

// NewKnowledgeBaseTool creates a KnowledgeBaseTool over the given retriever.
// A nil retriever is allowed; calls then fail with an execution error so the
// bot can degrade gracefully.
func NewKnowledgeBaseTool(retriever knowledge.Retriever, optFns ...func(o *KnowledgeBaseOptions)) *KnowledgeBaseTool {
	opts := KnowledgeBaseOptions{TopK: knowledge.DefaultTopK}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &KnowledgeBaseTool{retriever: retriever, topK: opts.TopK}
}

func (t *KnowledgeBaseTool) Name() string { return NameKnowledgeBase }

func (t *KnowledgeBaseTool) Description() string {
	return "Look up store policies and general information, such as return policy, shipping times or payment methods, in the knowledge base."
}

func (t *KnowledgeBaseTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "The customer's question to look up in the knowledge base.",
			},
		},
		"required": []string{"query"},
	}
}

func (t *KnowledgeBaseTool) Call(ctx context.Context, args map[string]any) (map[string]any, error) {
	if t.retriever == nil {
		return nil, NewError(t.Name(), CodeExecution, "knowledge base is currently unavailable")
	}
	query := stringArg(args, "query")

	passages, err := t.retriever.Search(ctx, query, t.topK)
	if err != nil {
		return nil, NewError(t.Name(), CodeExecution, err.Error())
	}

	contents := make([]string, 0, len(passages))
	for _, p := range passages {
		contents = append(contents, p.Content)
	}
	return map[string]any{
		"context": strings.Join(contents, "\n\n"),
	}, nil
}
