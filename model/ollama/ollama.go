// Package ollama provides a model wrapper for a local Ollama runtime.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"

	"github.com/haroonj/Ai-Bot/core"
	"github.com/haroonj/Ai-Bot/model"
)

// Options configures the Ollama model adapter.
type Options struct {
	Host        string
	Model       string
	Temperature float64
	MaxTokens   int
	HTTPClient  *http.Client
}

// Model wraps the Ollama chat API behind the generic model.Model interface.
type Model struct {
	client *api.Client
	opts   Options
}

// NewModel creates a new Ollama model. An invalid host URL falls back to the
// default local endpoint.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{
		Host:        "http://localhost:11434",
		Model:       "llama3.1:8b",
		Temperature: 0,
		MaxTokens:   1024,
		HTTPClient:  http.DefaultClient,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	parsedURL, err := url.Parse(opts.Host)
	if err != nil {
		parsedURL, _ = url.Parse("http://localhost:11434")
	}

	return &Model{
		client: api.NewClient(parsedURL, opts.HTTPClient),
		opts:   opts,
	}
}

// Generate implements one blocking (non-streaming) chat completion.
func (m *Model) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	stream := false
	chatReq := &api.ChatRequest{
		Model:    m.opts.Model,
		Messages: buildMessages(req),
		Stream:   &stream,
		Options: map[string]any{
			"temperature": m.opts.Temperature,
			"num_predict": m.opts.MaxTokens,
		},
	}
	if len(req.Tools) > 0 {
		chatReq.Tools = buildTools(req.Tools)
	}

	var response api.ChatResponse
	err := m.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		response = resp
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama api error: %w", err)
	}

	out := &model.Response{
		Text:         response.Message.Content,
		FinishReason: response.DoneReason,
		Usage: model.Usage{
			PromptTokens:     response.PromptEvalCount,
			CompletionTokens: response.EvalCount,
			TotalTokens:      response.PromptEvalCount + response.EvalCount,
		},
	}
	for i := range response.Message.ToolCalls {
		call := &response.Message.ToolCalls[i]
		id := call.ID
		if id == "" {
			// Ollama does not always mint call ids; synthesize one so the
			// transcript record policy still holds.
			id = core.NewID()
		}
		out.ToolCalls = append(out.ToolCalls, core.ToolCall{
			ID:        id,
			Name:      call.Function.Name,
			Arguments: model.StringifyArguments(map[string]any(call.Function.Arguments)),
		})
	}
	return out, nil
}

// buildMessages converts normalized history to Ollama's message format.
func buildMessages(req model.Request) []api.Message {
	messages := make([]api.Message, 0, len(req.Messages)+1)
	if req.Instructions != "" {
		messages = append(messages, api.Message{Role: "system", Content: req.Instructions})
	}
	for _, msg := range req.Messages {
		ollamaMsg := api.Message{Role: string(msg.Role), Content: msg.Text}
		if msg.Role == core.RoleTool {
			ollamaMsg.ToolCallID = msg.ToolCallID
		}
		if msg.ToolCall != nil {
			args := make(map[string]any, len(msg.ToolCall.Arguments))
			for k, v := range msg.ToolCall.Arguments {
				args[k] = v
			}
			ollamaMsg.ToolCalls = []api.ToolCall{{
				ID: msg.ToolCall.ID,
				Function: api.ToolCallFunction{
					Name:      msg.ToolCall.Name,
					Arguments: api.ToolCallFunctionArguments(args),
				},
			}}
		}
		messages = append(messages, ollamaMsg)
	}
	return messages
}

// buildTools converts tool definitions to Ollama's tool format.
func buildTools(defs []model.ToolDefinition) api.Tools {
	tools := make(api.Tools, len(defs))
	for i, def := range defs {
		params := api.ToolFunctionParameters{Type: "object"}

		if props, ok := def.Function.Parameters["properties"].(map[string]any); ok {
			params.Properties = make(map[string]api.ToolProperty, len(props))
			for name, raw := range props {
				prop := api.ToolProperty{}
				if propMap, ok := raw.(map[string]any); ok {
					if typ, ok := propMap["type"].(string); ok {
						prop.Type = api.PropertyType{typ}
					}
					if desc, ok := propMap["description"].(string); ok {
						prop.Description = desc
					}
				}
				params.Properties[name] = prop
			}
		}
		if required, ok := def.Function.Parameters["required"].([]string); ok {
			params.Required = required
		}

		tools[i] = api.Tool{
			Type: "function",
			Function: api.ToolFunction{
				Name:        def.Function.Name,
				Description: def.Function.Description,
				Parameters:  params,
			},
		}
	}
	return tools
}

// Info returns metadata describing this Ollama model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.opts.Model,
		Provider:      "ollama",
		SupportsTools: true,
	}
}
