package core

// Intent is the closed set of classifications the engine can assign to a
// user turn.
type Intent string

// Recognized intents. The return-workflow family is IntentReturnInitiate,
// IntentReturnItemSelected and IntentReturnReasonSupplied.
const (
	IntentNone                 Intent = "none"
	IntentGreeting             Intent = "greeting"
	IntentGoodbye              Intent = "goodbye"
	IntentStatusLookup         Intent = "status_lookup"
	IntentTrackingLookup       Intent = "tracking_lookup"
	IntentDocumentQuery        Intent = "document_query"
	IntentReturnInitiate       Intent = "return_initiate"
	IntentReturnItemSelected   Intent = "return_item_selected"
	IntentReturnReasonSupplied Intent = "return_reason_supplied"
	IntentUnsupported          Intent = "unsupported"
)

// InReturnFamily reports whether the intent belongs to the multi-turn
// return workflow.
func (i Intent) InReturnFamily() bool {
	switch i {
	case IntentReturnInitiate, IntentReturnItemSelected, IntentReturnReasonSupplied:
		return true
	}
	return false
}

// RouteSignal is the turn-local control value written by one stage and
// consumed by the orchestrator to pick the next stage. It never survives a
// transition.
type RouteSignal string

// Route signals understood by the orchestrator.
const (
	RouteNone           RouteSignal = ""
	RouteDispatch       RouteSignal = "dispatch"
	RouteReturnWorkflow RouteSignal = "return_workflow"
	RouteCompose        RouteSignal = "compose"
)

// ReturnItem is one order item eligible for return.
type ReturnItem struct {
	SKU  string `json:"sku"`
	Name string `json:"name"`
}

// CapabilityResult is the normalized success (or diagnostic) payload of the
// last capability call of the turn.
type CapabilityResult struct {
	Tool string         `json:"tool"`
	Data map[string]any `json:"data"`
}

// ConversationState is the working record of one turn. It is constructed
// fresh from the caller-supplied history, mutated in place by the engine
// stages, and discarded at the end of the turn; only History survives.
//
// Invariants (enforced through the setters below):
//   - AwaitingInput is true exactly while PromptText is non-empty.
//   - route is consumed on read and never persists past one transition.
//   - At most one of DocumentContext and Capability is populated when the
//     composer runs.
type ConversationState struct {
	History []Message

	Intent Intent

	// Return-workflow fields, populated incrementally and cleared together
	// on successful submission. ReturnReason == nil means "not captured";
	// a captured "skip" keeps it nil and proceeds without a reason.
	OrderID      string
	SelectedSKU  string
	ReturnReason *string
	PendingItems []ReturnItem

	AwaitingInput bool
	PromptText    string

	// Capability holds the last capability payload; DocumentContext holds
	// retrieved passages. A non-nil pointer to "" means retrieval ran and
	// found nothing, which is a valid non-error outcome.
	Capability      *CapabilityResult
	DocumentContext *string

	LastError string

	route RouteSignal
}

// NewConversationState builds the turn state from the caller's history plus
// the fresh user message, which is appended so the last history element
// entering the turn is always the new user utterance.
func NewConversationState(history []Message, userText string) *ConversationState {
	st := &ConversationState{History: CloneHistory(history), Intent: IntentNone}
	st.Append(UserMessage(userText))
	return st
}

// Append adds a message to the history.
func (s *ConversationState) Append(msg Message) {
	s.History = append(s.History, msg)
}

// LastUserText returns the trailing user utterance of the turn.
func (s *ConversationState) LastUserText() string {
	return LastUserText(s.History)
}

// LastMessage returns the final history entry, or nil for empty history.
func (s *ConversationState) LastMessage() *Message {
	if len(s.History) == 0 {
		return nil
	}
	return &s.History[len(s.History)-1]
}

// SetPrompt records a pending question for the user and flips the state into
// awaiting-input mode. Empty text is rejected so the AwaitingInput/PromptText
// invariant cannot be broken from outside.
func (s *ConversationState) SetPrompt(text string) {
	if text == "" {
		return
	}
	s.PromptText = text
	s.AwaitingInput = true
}

// ClearPrompt leaves awaiting-input mode.
func (s *ConversationState) ClearPrompt() {
	s.PromptText = ""
	s.AwaitingInput = false
}

// SetRoute records the signal the orchestrator will consume on the next
// transition.
func (s *ConversationState) SetRoute(r RouteSignal) {
	s.route = r
}

// ConsumeRoute returns the pending route signal and clears it, so a signal
// can never leak past one transition.
func (s *ConversationState) ConsumeRoute() RouteSignal {
	r := s.route
	s.route = RouteNone
	return r
}

// SetError records a failure description for the composer. Stages convert
// failures into this field instead of returning errors across stage
// boundaries.
func (s *ConversationState) SetError(msg string) {
	s.LastError = msg
}

// ClearReturnSession drops every return-workflow field after a successful
// submission.
func (s *ConversationState) ClearReturnSession() {
	s.OrderID = ""
	s.SelectedSKU = ""
	s.ReturnReason = nil
	s.PendingItems = nil
}
