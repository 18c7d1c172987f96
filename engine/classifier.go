package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/haroonj/Ai-Bot/core"
	"github.com/haroonj/Ai-Bot/model"
)

// Greeting and farewell lexicons, checked before any model call so these two
// intents stay deterministic and cheap. Matching is trimmed, lowercased and
// exact.
var (
	greetingPhrases = map[string]struct{}{"hi": {}, "hello": {}, "hey": {}}
	farewellPhrases = map[string]struct{}{"bye": {}, "goodbye": {}, "thanks bye": {}}
)

// classify decides what this turn is about and which stage handles it. An
// in-flight return workflow (recognized by rehydration) bypasses the model:
// the user's utterance is an answer to a pending prompt and is interpreted
// by the workflow, not here.
func (e *Engine) classify(ctx context.Context, st *core.ConversationState) {
	if st.AwaitingInput {
		e.logger.Debug("engine.classify.workflow_continuation", "order_id", st.OrderID)
		st.SetRoute(core.RouteReturnWorkflow)
		return
	}

	normalized := strings.ToLower(strings.TrimSpace(st.LastUserText()))
	if _, ok := greetingPhrases[normalized]; ok {
		st.Intent = core.IntentGreeting
		st.SetRoute(core.RouteCompose)
		return
	}
	if _, ok := farewellPhrases[normalized]; ok {
		st.Intent = core.IntentGoodbye
		st.SetRoute(core.RouteCompose)
		return
	}

	resp, err := e.generate(ctx, model.Request{
		Instructions: e.instructions,
		Messages:     e.modelHistory(st.History),
		Tools:        e.tools.Definitions(),
	})
	if err != nil {
		st.SetError(fmt.Sprintf("Failed to understand the request: %v", err))
		st.Intent = core.IntentUnsupported
		st.SetRoute(core.RouteCompose)
		return
	}

	if len(resp.ToolCalls) > 0 {
		e.classifyToolCall(st, resp.ToolCalls[0])
		return
	}

	if text := strings.TrimSpace(resp.Text); text != "" {
		// Pre-composed answer; the composer reuses it without a second
		// model call.
		st.Append(core.AssistantMessage(text))
		st.Intent = core.IntentDocumentQuery
		st.SetRoute(core.RouteCompose)
		return
	}

	e.logger.Warn("engine.classify.empty_response")
	st.Intent = core.IntentUnsupported
	st.Capability = &core.CapabilityResult{Data: map[string]any{
		"message": "I had trouble understanding that request.",
	}}
	st.SetRoute(core.RouteCompose)
}

// classifyToolCall maps the model's first tool call to an intent, extracts
// entities from its arguments and records the call in the transcript.
func (e *Engine) classifyToolCall(st *core.ConversationState, call core.ToolCall) {
	e.logger.Info("engine.classify.tool_call", "tool", call.Name)

	intent, route, known := intentForTool(call.Name)
	if !known {
		st.Append(core.AssistantToolCallMessage(call))
		st.Append(core.ToolResultMessage(call.ID, fmt.Sprintf("Error: Tool '%s' is not available.", call.Name)))
		st.Intent = core.IntentUnsupported
		st.Capability = &core.CapabilityResult{Tool: call.Name, Data: map[string]any{
			"message": fmt.Sprintf("I understood you want to use '%s', but I can't handle that specific action.", call.Name),
		}}
		st.SetRoute(core.RouteCompose)
		return
	}

	st.Append(core.AssistantToolCallMessage(call))
	st.Intent = intent

	if orderID := call.Arg("order_id"); orderID != "" {
		st.OrderID = orderID
	}
	if intent == core.IntentReturnInitiate {
		// initiate_return_request may arrive with pre-extracted details;
		// the workflow validates the SKU against the fetched items before
		// trusting it.
		if sku := call.Arg("sku"); sku != "" {
			st.SelectedSKU = sku
		}
		if reason := call.Arg("reason"); reason != "" {
			st.ReturnReason = &reason
		}
	}
	st.SetRoute(route)
}
