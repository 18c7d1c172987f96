package core

import (
	"github.com/google/uuid"
)

// Role identifies the author of a conversation message.
type Role string

// Conversation roles. RoleTool marks the record appended after a
// model-initiated tool call was executed.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall describes a tool invocation requested by the language model.
// Arguments are flat string key/value pairs; provider adapters are
// responsible for converting their native argument payloads into this shape.
type ToolCall struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Arguments map[string]string `json:"arguments,omitempty"`
}

// Arg returns the named argument or "" when absent.
func (c *ToolCall) Arg(name string) string {
	if c == nil {
		return ""
	}
	return c.Arguments[name]
}

// Message is one entry of the conversation history. An assistant message may
// carry a ToolCall descriptor; a tool message carries the ToolCallID of the
// call it answers.
type Message struct {
	Role       Role      `json:"role"`
	Text       string    `json:"text,omitempty"`
	ToolCall   *ToolCall `json:"tool_call,omitempty"`
	ToolCallID string    `json:"tool_call_id,omitempty"`
}

// UserMessage constructs a user-authored message.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Text: text}
}

// AssistantMessage constructs a plain assistant reply.
func AssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Text: text}
}

// AssistantToolCallMessage constructs the assistant message recording a
// model-initiated tool call.
func AssistantToolCallMessage(call ToolCall) Message {
	return Message{Role: RoleAssistant, ToolCall: &call}
}

// ToolResultMessage constructs the tool-result record for the call with the
// given id. Exactly one such record is appended per model-initiated call.
func ToolResultMessage(callID, text string) Message {
	return Message{Role: RoleTool, Text: text, ToolCallID: callID}
}

// LastUserText returns the text of the most recent user message, or "".
func LastUserText(history []Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == RoleUser {
			return history[i].Text
		}
	}
	return ""
}

// CloneHistory returns a shallow copy of the history slice so callers can
// hold onto it without aliasing the engine's working slice.
func CloneHistory(history []Message) []Message {
	if history == nil {
		return nil
	}
	out := make([]Message, len(history))
	copy(out, history)
	return out
}

// NewID returns a new unique identifier (conversation ids, synthesized
// tool-call ids).
func NewID() string {
	return uuid.NewString()
}
