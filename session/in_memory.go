package session

import (
	"context"
	"sync"

	"github.com/haroonj/Ai-Bot/core"
)

// InMemoryStore is a Store backed by a mutex-guarded map. Histories are
// cloned on the way in and out so callers cannot alias internal state.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]core.Message
}

// NewInMemoryStore creates an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string][]core.Message)}
}

// History implements Store.
func (s *InMemoryStore) History(ctx context.Context, conversationID string) ([]core.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.CloneHistory(s.sessions[conversationID]), nil
}

// Save implements Store.
func (s *InMemoryStore) Save(ctx context.Context, conversationID string, history []core.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[conversationID] = core.CloneHistory(history)
	return nil
}

// Delete implements Store.
func (s *InMemoryStore) Delete(ctx context.Context, conversationID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, conversationID)
	return nil
}

// Len returns the number of stored conversations.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
