// Package core provides the foundational domain types for the support bot:
//
//   - Messages (role-based conversation history with tool-call descriptors)
//   - ConversationState (the per-turn working record mutated by engine stages)
//   - Intents and route signals (the closed control vocabulary of the engine)
//
// The package intentionally keeps implementation concerns (model providers,
// tool execution, orchestration) out of scope. Everything here is plain data
// plus the small set of setters that enforce the state invariants.
package core
