// Package testutil provides shared helpers for tests, most notably a
// scripted model that replays a fixed queue of responses.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/haroonj/Ai-Bot/core"
	"github.com/haroonj/Ai-Bot/model"
)

// ScriptedModel replays a queue of responses in order, independent of the
// request content. It records every request it receives so tests can assert
// on instructions, message shapes and tool exposure.
type ScriptedModel struct {
	mu        sync.Mutex
	responses []model.Response
	requests  []model.Request
	err       error
}

// NewScriptedModel creates an empty ScriptedModel. Use the Push helpers to
// enqueue responses in the order the code under test will consume them.
func NewScriptedModel() *ScriptedModel {
	return &ScriptedModel{}
}

// PushText enqueues a free-text completion.
func (m *ScriptedModel) PushText(text string) *ScriptedModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, model.Response{Text: text, FinishReason: "stop"})
	return m
}

// PushToolCall enqueues a response invoking a single tool.
func (m *ScriptedModel) PushToolCall(name string, args map[string]string) *ScriptedModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, model.Response{
		ToolCalls:    []core.ToolCall{{ID: core.NewID(), Name: name, Arguments: args}},
		FinishReason: "tool_calls",
	})
	return m
}

// PushResponse enqueues an arbitrary response.
func (m *ScriptedModel) PushResponse(resp model.Response) *ScriptedModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
	return m
}

// FailWith makes the model return err once the queue is exhausted. Without
// it, draining the queue is an error in itself.
func (m *ScriptedModel) FailWith(err error) *ScriptedModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// Generate implements model.Model.
func (m *ScriptedModel) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if len(m.responses) == 0 {
		if m.err != nil {
			return nil, m.err
		}
		return nil, fmt.Errorf("scripted model exhausted after %d calls", len(m.requests))
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return &resp, nil
}

// Info implements model.Model.
func (m *ScriptedModel) Info() model.Info {
	return model.Info{Name: "scripted", Provider: "test", SupportsTools: true}
}

// Requests returns a copy of all requests received so far.
func (m *ScriptedModel) Requests() []model.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// CallCount returns the number of Generate calls received so far.
func (m *ScriptedModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}
