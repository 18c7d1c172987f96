// Package tool implements the capability subsystem: the Tool interface the
// engine invokes, a registry with schema-validated execution, uniform typed
// errors, and the five concrete store-support capabilities (order status,
// tracking, order details, return submission, knowledge-base lookup).
package tool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/haroonj/Ai-Bot/internal/util"
	"github.com/haroonj/Ai-Bot/logging"
	"github.com/haroonj/Ai-Bot/model"
)

// Canonical tool names, matching the function names exposed to the model.
const (
	NameOrderStatus    = "get_order_status"
	NameTrackingInfo   = "get_tracking_info"
	NameOrderDetails   = "get_order_details"
	NameInitiateReturn = "initiate_return_request"
	NameKnowledgeBase  = "knowledge_base_lookup"
)

// Error codes used across all tools.
const (
	CodeNotFound    = "NOT_FOUND"
	CodeNotEligible = "NOT_ELIGIBLE"
	CodeValidation  = "VALIDATION_ERROR"
	CodeExecution   = "EXECUTION_ERROR"
)

// Tool defines the interface for a single-purpose backend capability.
//
// Tool implementations should:
//   - Provide clear, descriptive names (snake_case) and descriptions
//   - Define proper JSON schema for parameters
//   - Return *Error for failures so codes survive to the engine
//   - Be safe for concurrent use
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns the description provided to the model so it knows
	// when and how to use the tool.
	Description() string

	// Parameters returns a JSON schema describing the expected input format.
	Parameters() map[string]any

	// Call executes the tool with already-validated arguments.
	Call(ctx context.Context, args map[string]any) (map[string]any, error)
}

// Error represents errors that occur during tool execution.
type Error struct {
	Tool    string `json:"tool"`    // Name of the tool that failed
	Code    string `json:"code"`    // Error code for categorization
	Message string `json:"message"` // Error message
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewError creates a new Error with the specified details.
func NewError(tool, code, message string) *Error {
	return &Error{Tool: tool, Code: code, Message: message}
}

// Registry holds the tools exposed to the engine and executes them with
// schema validation and uniform error wrapping.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]Tool
	order  []string
	logger logging.Logger
}

// RegistryOptions configure a Registry.
type RegistryOptions struct {
	Logger logging.Logger
}

// NewRegistry constructs a registry holding the given tools.
func NewRegistry(tools []Tool, optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	r := &Registry{tools: make(map[string]Tool), logger: opts.Logger}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// Register adds (or replaces) a tool.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
}

// Get returns the named tool, or nil.
func (r *Registry) Get(name string) Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// Has reports whether a tool with the given name is registered.
func (r *Registry) Has(name string) bool {
	return r.Get(name) != nil
}

// Definitions returns the model-facing tool definitions in registration
// order.
func (r *Registry) Definitions() []model.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]model.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return defs
}

// Execute validates args against the tool's schema then invokes it.
// Failures are wrapped (or passed through) as *Error for uniform downstream
// handling:
//
//	*Error (returned directly)  -> forwarded unchanged
//	unknown tool name           -> *Error{Code: NOT_FOUND}
//	validation failure          -> *Error{Code: VALIDATION_ERROR}
//	other error                 -> *Error{Code: EXECUTION_ERROR}
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	t := r.Get(name)
	if t == nil {
		return nil, NewError(name, CodeNotFound, fmt.Sprintf("tool '%s' is not available", name))
	}

	start := time.Now()
	r.logger.Debug("tool.call.start", "tool", name)

	if err := util.ValidateParameters(args, t.Parameters()); err != nil {
		r.logger.Warn("tool.call.validation_failed", "tool", name, "error", err.Error())
		return nil, NewError(name, CodeValidation, fmt.Sprintf("parameter validation failed: %v", err))
	}

	result, err := t.Call(ctx, args)
	if err != nil {
		if toolErr, ok := err.(*Error); ok {
			r.logger.Error("tool.call.error", "tool", name, "code", toolErr.Code, "error", toolErr.Message)
			return nil, toolErr
		}
		r.logger.Error("tool.call.error", "tool", name, "error", err.Error())
		return nil, NewError(name, CodeExecution, err.Error())
	}

	r.logger.Info("tool.call.success", "tool", name, "duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

// orderArgsSchema is the shared schema of the order-scoped tools.
func orderArgsSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"order_id": map[string]any{
				"type":        "string",
				"description": "The unique identifier for the customer's order.",
			},
		},
		"required": []string{"order_id"},
	}
}

// stringArg reads a string argument, tolerating absence.
func stringArg(args map[string]any, name string) string {
	if v, ok := args[name].(string); ok {
		return v
	}
	return ""
}
