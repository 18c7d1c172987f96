package knowledge

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// InMemoryIndex is a volatile Retriever holding passages and their vectors in
// a process-local slice. Safe for concurrent use.
type InMemoryIndex struct {
	mu       sync.RWMutex
	embedder Embedder
	passages []indexedPassage
}

type indexedPassage struct {
	id        string
	content   string
	embedding []float64
}

// NewInMemoryIndex constructs an empty in-memory index.
func NewInMemoryIndex(embedder Embedder) *InMemoryIndex {
	return &InMemoryIndex{embedder: embedder}
}

// Add embeds and stores one passage.
func (x *InMemoryIndex) Add(ctx context.Context, id, content string) error {
	vec, err := x.embedder.Embed(ctx, content)
	if err != nil {
		return fmt.Errorf("embed passage %s: %w", id, err)
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.passages = append(x.passages, indexedPassage{id: id, content: content, embedding: vec})
	return nil
}

// Search implements Retriever.
func (x *InMemoryIndex) Search(ctx context.Context, query string, k int) ([]Passage, error) {
	if k <= 0 {
		k = DefaultTopK
	}
	queryVec, err := x.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	x.mu.RLock()
	results := make([]Passage, 0, len(x.passages))
	for _, p := range x.passages {
		results = append(results, Passage{
			ID:      p.id,
			Content: p.content,
			Score:   cosineSimilarity(queryVec, p.embedding),
		})
	}
	x.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}
