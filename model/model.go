// Package model defines the provider-agnostic abstractions for interacting
// with language models.
//
// Core goals:
//   - Normalize tool / function call representation (ToolDefinition, core.ToolCall)
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (OpenAI, Anthropic, Ollama) implement the Model interface from
// this package so the engine remains decoupled from vendor SDKs. Generation
// is a single blocking call: the engine is synchronous run-to-completion per
// turn and has no streaming surface.
package model

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/haroonj/Ai-Bot/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual function (tool) exposed to the
// model. Parameters is a JSON Schema object (minimal subset expected).
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request captures the normalized model input produced by the engine.
type Request struct {
	Instructions string           `json:"instructions"`
	Messages     []core.Message   `json:"messages"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
}

// Usage captures token usage statistics for a response.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the final output of one generation call. A response carries
// free text, tool calls, or both; the engine always acts on the first tool
// call when present.
type Response struct {
	Text         string          `json:"text,omitempty"`
	ToolCalls    []core.ToolCall `json:"tool_calls,omitempty"`
	FinishReason string          `json:"finish_reason,omitempty"`
	Usage        Usage           `json:"usage"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "ollama", ...
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface the engine requires to drive generation.
type Model interface {
	// Generate performs one blocking completion. A request without tools is
	// a plain completion (used for answer synthesis).
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// ParseArguments converts a provider's serialized JSON argument payload into
// the flat string map of core.ToolCall. Non-string values are rendered with
// their default Go formatting so numeric order ids survive as digits.
func ParseArguments(raw []byte) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil
	}
	return StringifyArguments(decoded)
}

// StringifyArguments flattens an already-decoded argument map into the flat
// string map of core.ToolCall.
func StringifyArguments(decoded map[string]any) map[string]string {
	if len(decoded) == 0 {
		return nil
	}
	args := make(map[string]string, len(decoded))
	for k, v := range decoded {
		switch val := v.(type) {
		case nil:
			// Omitted optional argument (e.g. reason: null).
		case string:
			args[k] = val
		case float64:
			args[k] = trimFloat(val)
		default:
			args[k] = fmt.Sprintf("%v", val)
		}
	}
	return args
}

// MarshalArguments renders a flat argument map back into the JSON string
// shape provider SDKs expect when replaying assistant tool calls.
func MarshalArguments(args map[string]string) string {
	if len(args) == 0 {
		return "{}"
	}
	data, err := json.Marshal(args)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%v", f)
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// It maps the latest user utterance to a canned response.
type MockModel struct {
	info      Info
	responses map[string]Response
}

// NewMockModel constructs a MockModel with basic tool support enabled.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info: Info{
			Name:          name,
			Provider:      provider,
			SupportsTools: true,
		},
		responses: make(map[string]Response),
	}
}

// AddTextResponse registers a deterministic free-text completion for an input
// utterance.
func (m *MockModel) AddTextResponse(input, text string) {
	m.responses[input] = Response{Text: text, FinishReason: "stop"}
}

// AddToolCallResponse registers a deterministic tool call for an input
// utterance.
func (m *MockModel) AddToolCallResponse(input string, call core.ToolCall) {
	m.responses[input] = Response{ToolCalls: []core.ToolCall{call}, FinishReason: "tool_calls"}
}

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("no messages provided")
	}
	input := core.LastUserText(req.Messages)
	if resp, ok := m.responses[input]; ok {
		return &resp, nil
	}
	return &Response{Text: fmt.Sprintf("Mock response to: %s", input), FinishReason: "stop"}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
