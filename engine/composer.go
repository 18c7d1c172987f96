package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/haroonj/Ai-Bot/core"
	"github.com/haroonj/Ai-Bot/model"
	"github.com/haroonj/Ai-Bot/tool"
)

// Fixed composer strings.
const (
	greetingReply = "Hello! How can I assist you with orders, tracking, returns, or general questions today?"
	goodbyeReply  = "Goodbye! Feel free to reach out if you need anything else."

	synthesisFailureReply = "I found some information, but had trouble formulating a final answer. Please ask again or try rephrasing."
	noDocumentMatchReply  = "I looked in our knowledge base, but couldn't find specific information about that topic."
	fallbackReply         = "I'm sorry, I couldn't process that specific request. I can help with checking order status, tracking, initiating returns, or answering questions from our FAQ and policies."
	emptyReply            = "I'm sorry, I encountered an unexpected issue. Could you please try rephrasing?"
)

// compose maps the final turn state to exactly one outbound message, in
// strict priority order with first match winning: pending prompt, error,
// document answer, no-match notice, capability formatting, canned greeting
// or farewell, fallback. The composed text is appended to the history as
// the new assistant message.
func (e *Engine) compose(ctx context.Context, st *core.ConversationState) {
	var text string

	switch {
	case st.AwaitingInput && st.PromptText != "":
		text = st.PromptText

	case st.LastError != "":
		text = errorReply(st.LastError)

	case st.DocumentContext != nil && *st.DocumentContext != "":
		text = e.synthesizeAnswer(ctx, st)

	case st.DocumentContext != nil:
		text = noDocumentMatchReply

	case st.Capability != nil:
		text = capabilityReply(st.Intent, st.Capability)

	case st.Intent == core.IntentGreeting:
		text = greetingReply

	case st.Intent == core.IntentGoodbye:
		text = goodbyeReply

	default:
		// A pre-composed model answer recorded by the classifier is
		// reused instead of the generic fallback, and not appended twice.
		if last := st.LastMessage(); last != nil && last.Role == core.RoleAssistant && last.ToolCall == nil && last.Text != "" {
			return
		}
		text = fallbackReply
	}

	if text == "" {
		e.logger.Error("engine.compose.empty_response", "intent", string(st.Intent))
		text = emptyReply
	}
	st.Append(core.AssistantMessage(text))
}

// errorReply gives recorded failures slightly more natural phrasing for the
// common not-found and eligibility cases.
func errorReply(lastError string) string {
	lower := strings.ToLower(lastError)
	switch {
	case strings.Contains(lower, "not found"):
		return fmt.Sprintf("Sorry, I couldn't find the requested information. Details: %s", lastError)
	case strings.Contains(lower, "not eligible"), strings.Contains(lower, "cannot return"):
		return fmt.Sprintf("It seems there's an issue with eligibility for your request: %s", lastError)
	default:
		return fmt.Sprintf("I encountered an issue processing your request: %s", lastError)
	}
}

// synthesizeAnswer asks the model (no tools bound) to answer strictly from
// the retrieved context and the latest user question. Failures degrade to a
// fixed apology.
func (e *Engine) synthesizeAnswer(ctx context.Context, st *core.ConversationState) string {
	question := st.LastUserText()
	if question == "" {
		question = "your question"
	}

	resp, err := e.generate(ctx, model.Request{
		Messages: []core.Message{core.UserMessage(synthesisPrompt(*st.DocumentContext, question))},
	})
	if err != nil {
		return synthesisFailureReply
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return synthesisFailureReply
	}
	return text
}

// capabilityReply formats the capability payload per intent.
func capabilityReply(intent core.Intent, capability *core.CapabilityResult) string {
	data := capability.Data

	switch {
	case intent == core.IntentStatusLookup:
		return fmt.Sprintf("The status for order %s is: %s.",
			dataString(data, "order_id", "N/A"), dataString(data, "status", "Unknown"))

	case intent == core.IntentTrackingLookup:
		if tracking := dataString(data, "tracking_number", ""); tracking != "" {
			return fmt.Sprintf("Tracking for order %s: Number: %s, Carrier: %s, Status: %s.",
				dataString(data, "order_id", "N/A"),
				tracking,
				dataString(data, "carrier", "N/A"),
				dataString(data, "tracking_status", dataString(data, "status", "N/A")))
		}
		return fmt.Sprintf("Tracking for order %s is not available yet. The current order status is: %s.",
			dataString(data, "order_id", "N/A"), dataString(data, "status", "Unavailable"))

	case intent.InReturnFamily() && capability.Tool == tool.NameInitiateReturn && dataString(data, "return_id", "") != "":
		return fmt.Sprintf("Success! Your return for order %s (SKU: %s) has been initiated. Your return ID is %s.",
			dataString(data, "order_id", "N/A"),
			dataString(data, "sku", "N/A"),
			dataString(data, "return_id", ""))
	}

	if msg := dataString(data, "message", ""); msg != "" {
		return msg
	}
	if status := dataString(data, "status", ""); status != "" {
		return fmt.Sprintf("The current status is: %s", status)
	}
	return "I have processed your request based on the available information."
}

func dataString(data map[string]any, key, fallback string) string {
	if v, ok := data[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
