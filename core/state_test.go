package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConversationState(t *testing.T) {
	history := []Message{
		UserMessage("hi"),
		AssistantMessage("Hello!"),
	}
	st := NewConversationState(history, "status for 789?")

	assert.Len(t, st.History, 3)
	assert.Equal(t, RoleUser, st.History[2].Role)
	assert.Equal(t, "status for 789?", st.LastUserText())
	assert.Equal(t, IntentNone, st.Intent)

	// The input slice must not alias the working history.
	st.Append(AssistantMessage("..."))
	assert.Len(t, history, 2)
}

func TestPromptInvariant(t *testing.T) {
	st := NewConversationState(nil, "hello")

	assert.False(t, st.AwaitingInput)
	assert.Empty(t, st.PromptText)

	st.SetPrompt("Which item would you like to return?")
	assert.True(t, st.AwaitingInput)
	assert.NotEmpty(t, st.PromptText)

	// Empty text must not produce an awaiting state with no prompt.
	st.ClearPrompt()
	st.SetPrompt("")
	assert.False(t, st.AwaitingInput)
	assert.Empty(t, st.PromptText)
}

func TestConsumeRoute(t *testing.T) {
	st := NewConversationState(nil, "hello")

	st.SetRoute(RouteDispatch)
	assert.Equal(t, RouteDispatch, st.ConsumeRoute())
	// Consumed signals never survive a second read.
	assert.Equal(t, RouteNone, st.ConsumeRoute())
}

func TestClearReturnSession(t *testing.T) {
	reason := "broken"
	st := NewConversationState(nil, "skip")
	st.OrderID = "789"
	st.SelectedSKU = "ITEM004"
	st.ReturnReason = &reason
	st.PendingItems = []ReturnItem{{SKU: "ITEM004", Name: "Monitor"}}

	st.ClearReturnSession()

	assert.Empty(t, st.OrderID)
	assert.Empty(t, st.SelectedSKU)
	assert.Nil(t, st.ReturnReason)
	assert.Nil(t, st.PendingItems)
}

func TestInReturnFamily(t *testing.T) {
	tests := []struct {
		intent Intent
		want   bool
	}{
		{IntentReturnInitiate, true},
		{IntentReturnItemSelected, true},
		{IntentReturnReasonSupplied, true},
		{IntentStatusLookup, false},
		{IntentGreeting, false},
		{IntentNone, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.intent.InReturnFamily(), string(tt.intent))
	}
}

func TestLastUserText(t *testing.T) {
	history := []Message{
		UserMessage("first"),
		AssistantMessage("reply"),
		UserMessage("second"),
		AssistantToolCallMessage(ToolCall{ID: "c1", Name: "get_order_status"}),
	}
	assert.Equal(t, "second", LastUserText(history))
	assert.Equal(t, "", LastUserText(nil))
}

func TestToolCallArg(t *testing.T) {
	call := &ToolCall{Name: "get_order_status", Arguments: map[string]string{"order_id": "789"}}
	assert.Equal(t, "789", call.Arg("order_id"))
	assert.Equal(t, "", call.Arg("sku"))

	var nilCall *ToolCall
	assert.Equal(t, "", nilCall.Arg("order_id"))
}
