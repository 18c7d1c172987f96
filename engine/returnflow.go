package engine

import (
	"context"
	"strings"

	"github.com/haroonj/Ai-Bot/core"
)

// workflowFallbackError is the defensive message for a workflow step entered
// without its preconditions.
const workflowFallbackError = "Something went wrong during the return process. Please try again."

// runReturnWorkflow advances the multi-turn return conversation by exactly
// one step per turn: fetch the order and ask for a SKU, validate the SKU and
// ask for a reason, or capture the reason and submit. Step selection is
// precondition-based; a step whose preconditions do not hold falls through
// to a defensive error instead of looping.
func (e *Engine) runReturnWorkflow(ctx context.Context, st *core.ConversationState) {
	defer st.SetRoute(core.RouteCompose)

	switch {
	case st.Intent == core.IntentReturnInitiate && st.PendingItems == nil:
		e.stepFetchDetails(ctx, st)

	case st.AwaitingInput && st.PendingItems != nil && st.SelectedSKU == "":
		e.stepValidateSKU(st)

	case st.AwaitingInput && st.SelectedSKU != "" && st.OrderID != "":
		e.stepCaptureReason(ctx, st)

	default:
		e.logger.Warn("engine.return.unexpected_state",
			"intent", string(st.Intent),
			"order_id", st.OrderID,
			"awaiting_input", st.AwaitingInput)
		if st.LastError == "" {
			st.SetError(workflowFallbackError)
		}
		st.ClearPrompt()
	}
}

// stepFetchDetails enters a fresh return session: fetch the order, enforce
// eligibility, then either ask for a SKU or, when the classifier already
// extracted a valid one, shortcut ahead.
func (e *Engine) stepFetchDetails(ctx context.Context, st *core.ConversationState) {
	if st.OrderID == "" {
		st.SetError("I need an order ID to start a return. Which order is this about?")
		return
	}

	items, err := e.fetchReturnableOrder(ctx, st.OrderID)
	if err != nil {
		e.logger.Warn("engine.return.not_eligible", "order_id", st.OrderID, "error", err.Error())
		st.SetError(err.Error())
		st.ClearPrompt()
		return
	}
	st.PendingItems = items
	st.Intent = core.IntentReturnInitiate

	// A pre-extracted SKU is only trusted after it matches the fetched
	// items; eligibility is never skipped.
	if st.SelectedSKU != "" {
		if item := matchItem(items, st.SelectedSKU); item != nil {
			st.SelectedSKU = item.SKU
			if st.ReturnReason != nil {
				st.ClearPrompt()
				e.submitReturn(ctx, st)
				return
			}
			st.SetPrompt(reasonPrompt(item.Name, item.SKU, st.OrderID))
			return
		}
		st.SelectedSKU = ""
	}

	st.SetPrompt(skuPrompt(st.OrderID, items))
}

// stepValidateSKU matches the user's answer against the pending items. A
// match advances to the reason question; a mismatch re-prompts with stable
// text and leaves the selection unset.
func (e *Engine) stepValidateSKU(st *core.ConversationState) {
	input := strings.TrimSpace(st.LastUserText())

	item := matchItem(st.PendingItems, input)
	if item == nil {
		e.logger.Debug("engine.return.sku_mismatch", "order_id", st.OrderID, "input", input)
		st.SetPrompt(skuRetryPrompt(input, st.OrderID, st.PendingItems))
		return
	}

	st.SelectedSKU = item.SKU
	st.Intent = core.IntentReturnItemSelected
	st.SetPrompt(reasonPrompt(item.Name, item.SKU, st.OrderID))
}

// stepCaptureReason records the user's reason ("skip" or empty means none)
// and submits the return in the same turn.
func (e *Engine) stepCaptureReason(ctx context.Context, st *core.ConversationState) {
	input := strings.TrimSpace(st.LastUserText())
	if !strings.EqualFold(input, "skip") && input != "" {
		reason := input
		st.ReturnReason = &reason
	}
	st.Intent = core.IntentReturnReasonSupplied

	// The prompt is cleared before submission so a failure surfaces the
	// submission error, never a stale question.
	st.ClearPrompt()
	e.submitReturn(ctx, st)
}

// matchItem finds the pending item whose SKU equals input, case-normalized.
func matchItem(items []core.ReturnItem, input string) *core.ReturnItem {
	for i := range items {
		if strings.EqualFold(items[i].SKU, strings.TrimSpace(input)) {
			return &items[i]
		}
	}
	return nil
}
