package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/haroonj/Ai-Bot/core"
	"github.com/haroonj/Ai-Bot/tool"
)

// dispatch executes the model-initiated tool call recorded by the
// classifier: exactly one tool invocation, then exactly one tool-result
// transcript record, success or failure. Internally-triggered calls (the
// return workflow's own detail fetch and submission) go through the helpers
// below and leave no transcript record because no model call id exists for
// them.
func (e *Engine) dispatch(ctx context.Context, st *core.ConversationState) {
	defer st.SetRoute(core.RouteCompose)

	call := pendingToolCall(st)
	if call == nil {
		st.SetError("Attempted to execute a tool, but no tool call was recorded for this turn.")
		return
	}

	if call.Name == tool.NameKnowledgeBase {
		e.dispatchDocumentLookup(ctx, st, call)
		return
	}

	args := toAnyArgs(call.Arguments)
	result, err := e.execTool(ctx, call.Name, args)
	if err != nil {
		st.SetError(toolErrorText(err))
		st.Append(core.ToolResultMessage(call.ID, fmt.Sprintf("Tool execution returned an error: %s", toolErrorText(err))))
		return
	}

	st.Capability = &core.CapabilityResult{Tool: call.Name, Data: result}
	st.Append(core.ToolResultMessage(call.ID, fmt.Sprintf("Successfully called tool %s.", call.Name)))
}

// dispatchDocumentLookup runs the knowledge-base tool and stores the
// concatenated passages. An empty context string is a valid no-match
// outcome, kept distinct from an error.
func (e *Engine) dispatchDocumentLookup(ctx context.Context, st *core.ConversationState, call *core.ToolCall) {
	query := call.Arg("query")
	if query == "" {
		query = st.LastUserText()
	}

	result, err := e.execTool(ctx, tool.NameKnowledgeBase, map[string]any{"query": query})
	if err != nil {
		st.SetError(toolErrorText(err))
		st.Append(core.ToolResultMessage(call.ID, fmt.Sprintf("Tool execution returned an error: %s", toolErrorText(err))))
		return
	}

	documentContext, _ := result["context"].(string)
	st.DocumentContext = &documentContext
	st.Append(core.ToolResultMessage(call.ID, fmt.Sprintf("Successfully looked up the knowledge base for %q.", query)))
}

// fetchReturnableOrder fetches order details for a return and enforces
// eligibility: the order must be delivered and must contain at least one
// item. The returned error text is user-facing via LastError.
func (e *Engine) fetchReturnableOrder(ctx context.Context, orderID string) ([]core.ReturnItem, error) {
	result, err := e.execTool(ctx, tool.NameOrderDetails, map[string]any{"order_id": orderID})
	if err != nil {
		return nil, errors.New(toolErrorText(err))
	}

	delivered, _ := result["delivered"].(bool)
	if !delivered {
		return nil, fmt.Errorf("Order %s is not marked as delivered yet.", orderID)
	}

	rawItems, _ := result["items"].([]map[string]any)
	items := make([]core.ReturnItem, 0, len(rawItems))
	for _, raw := range rawItems {
		sku, _ := raw["sku"].(string)
		name, _ := raw["name"].(string)
		if sku != "" {
			items = append(items, core.ReturnItem{SKU: sku, Name: name})
		}
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("No returnable items found for order %s.", orderID)
	}
	return items, nil
}

// submitReturn posts the gathered return request. On success the
// return-session fields are cleared and the submission payload becomes the
// capability result; on failure they stay intact so the caller could retry.
func (e *Engine) submitReturn(ctx context.Context, st *core.ConversationState) {
	args := map[string]any{
		"order_id": st.OrderID,
		"sku":      st.SelectedSKU,
	}
	if st.ReturnReason != nil {
		args["reason"] = *st.ReturnReason
	}

	result, err := e.execTool(ctx, tool.NameInitiateReturn, args)
	if err != nil {
		st.SetError(toolErrorText(err))
		return
	}

	e.logger.Info("engine.return.submitted",
		"order_id", st.OrderID,
		"sku", st.SelectedSKU,
		"return_id", result["return_id"])
	st.Capability = &core.CapabilityResult{Tool: tool.NameInitiateReturn, Data: result}
	st.ClearReturnSession()
}

// pendingToolCall finds the tool call of the trailing assistant message.
func pendingToolCall(st *core.ConversationState) *core.ToolCall {
	last := st.LastMessage()
	if last == nil || last.Role != core.RoleAssistant || last.ToolCall == nil {
		return nil
	}
	return last.ToolCall
}

// toolErrorText prefers the message of a typed tool error over its full
// formatting, since LastError is surfaced to the user.
func toolErrorText(err error) string {
	var toolErr *tool.Error
	if errors.As(err, &toolErr) {
		return toolErr.Message
	}
	return err.Error()
}

func toAnyArgs(args map[string]string) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}
	return out
}
