package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/haroonj/Ai-Bot/core"
	"github.com/haroonj/Ai-Bot/tool"
)

// classifierInstructions is the default system prompt for the tool-calling
// classification call.
const classifierInstructions = `You are a customer support assistant for an online store. ` +
	`You help customers check order status, look up shipment tracking, initiate returns for delivered orders, ` +
	`and answer general questions about store policies.

Use the provided tools whenever the customer's request maps to one of them. ` +
	`Use get_order_details when the customer wants to return something, so the returnable items can be listed. ` +
	`Use knowledge_base_lookup for policy and FAQ questions. ` +
	`If no tool applies and you can answer directly, answer concisely. Do not invent order data.`

// synthesisPrompt builds the strict-context instruction for answering a
// question from retrieved knowledge-base passages. The model must not go
// beyond the provided context.
func synthesisPrompt(documentContext, question string) string {
	return fmt.Sprintf(`Based *only* on the following information from our knowledge base:
--- Knowledge Base Context ---
%s
--- End Context ---

Answer the user's question: %q

Provide a concise and helpful answer based *strictly* on the provided context.
If the context doesn't contain the answer, state that you couldn't find the specific detail in the knowledge base. Do not make up information.
If the user's query is very general and the context provides relevant info (like return policy), summarize the key points from the context.`, documentContext, question)
}

// Workflow prompts embed the order id (and, for the reason prompt, the SKU)
// so rehydration can re-derive workflow continuity from the transcript
// alone. Construction and parsing live side by side in this file; changing
// one without the other breaks the round-trip tests.

func itemLines(items []core.ReturnItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("- %s (SKU: %s)", item.Name, item.SKU))
	}
	return strings.Join(lines, "\n")
}

// skuPrompt asks the user to pick an item to return.
func skuPrompt(orderID string, items []core.ReturnItem) string {
	return fmt.Sprintf("Okay, I found order %s which is delivered and eligible for returns.\n"+
		"Which item would you like to return? Please provide the SKU:\n%s",
		orderID, itemLines(items))
}

// skuRetryPrompt re-asks after a non-matching SKU. The text is a pure
// function of the inputs so repeated invalid input reproduces it exactly.
func skuRetryPrompt(input, orderID string, items []core.ReturnItem) string {
	return fmt.Sprintf("Sorry, '%s' doesn't match any SKU in order %s.\n"+
		"Please provide one of the following SKUs:\n%s",
		input, orderID, itemLines(items))
}

// reasonPrompt asks for an optional return reason.
func reasonPrompt(itemName, sku, orderID string) string {
	return fmt.Sprintf("Got it, you want to return '%s' (SKU: %s) from order %s.\n"+
		"Could you briefly tell me why you're returning it? You can say 'skip' to continue without a reason.",
		itemName, sku, orderID)
}

var (
	skuPromptRe      = regexp.MustCompile(`(?m)^Okay, I found order (\S+) which is delivered and eligible for returns\.$`)
	skuRetryPromptRe = regexp.MustCompile(`(?m)doesn't match any SKU in order (\S+)\.$`)
	itemLineRe       = regexp.MustCompile(`(?m)^- (.+) \(SKU: ([^)]+)\)$`)
	reasonPromptRe   = regexp.MustCompile(`(?m)^Got it, you want to return '(.*)' \(SKU: ([^)]+)\) from order (\S+)\.$`)
)

// parseSKUPrompt recognizes the AskSKU prompt and its retry variant,
// returning the order id and the enumerated items.
func parseSKUPrompt(text string) (orderID string, items []core.ReturnItem, ok bool) {
	m := skuPromptRe.FindStringSubmatch(text)
	if m == nil {
		m = skuRetryPromptRe.FindStringSubmatch(text)
	}
	if m == nil {
		return "", nil, false
	}
	orderID = m[1]
	for _, line := range itemLineRe.FindAllStringSubmatch(text, -1) {
		items = append(items, core.ReturnItem{Name: line[1], SKU: line[2]})
	}
	if len(items) == 0 {
		return "", nil, false
	}
	return orderID, items, true
}

// parseReasonPrompt recognizes the AskReason prompt, returning the order id
// and the selected SKU.
func parseReasonPrompt(text string) (orderID, sku string, ok bool) {
	m := reasonPromptRe.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return m[3], m[2], true
}

// rehydrate re-derives return-workflow continuity from the history at turn
// start. Callers persist only the transcript, so an in-flight workflow is
// recognized by parsing the assistant message immediately preceding the
// fresh user message.
func rehydrate(st *core.ConversationState) {
	if len(st.History) < 2 {
		return
	}
	prev := st.History[len(st.History)-2]
	if prev.Role != core.RoleAssistant || prev.ToolCall != nil || prev.Text == "" {
		return
	}

	if orderID, sku, ok := parseReasonPrompt(prev.Text); ok {
		st.Intent = core.IntentReturnReasonSupplied
		st.OrderID = orderID
		st.SelectedSKU = sku
		st.SetPrompt(prev.Text)
		return
	}
	if orderID, items, ok := parseSKUPrompt(prev.Text); ok {
		st.Intent = core.IntentReturnItemSelected
		st.OrderID = orderID
		st.PendingItems = items
		st.SetPrompt(prev.Text)
	}
}

// intentForTool maps a model-suggested tool name to the intent it implies.
func intentForTool(name string) (core.Intent, core.RouteSignal, bool) {
	switch name {
	case tool.NameOrderStatus:
		return core.IntentStatusLookup, core.RouteDispatch, true
	case tool.NameTrackingInfo:
		return core.IntentTrackingLookup, core.RouteDispatch, true
	case tool.NameKnowledgeBase:
		return core.IntentDocumentQuery, core.RouteDispatch, true
	case tool.NameOrderDetails, tool.NameInitiateReturn:
		return core.IntentReturnInitiate, core.RouteReturnWorkflow, true
	}
	return core.IntentUnsupported, core.RouteCompose, false
}
