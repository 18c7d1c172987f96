// Package session stores conversation transcripts between turns. The engine
// itself is stateless; the server loads a conversation's history from a
// session store, processes the turn and saves the updated history back.
package session

import (
	"context"

	"github.com/haroonj/Ai-Bot/core"
)

// Store persists conversation histories keyed by conversation id.
// Implementations must be safe for concurrent use.
type Store interface {
	// History returns the stored history for the conversation, or an empty
	// slice when the conversation is unknown.
	History(ctx context.Context, conversationID string) ([]core.Message, error)

	// Save replaces the stored history for the conversation.
	Save(ctx context.Context, conversationID string, history []core.Message) error

	// Delete removes the conversation. Deleting an unknown conversation is
	// not an error.
	Delete(ctx context.Context, conversationID string) error
}
