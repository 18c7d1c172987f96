package knowledge

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wordEmbedder maps text onto a fixed vocabulary vector so similarity is
// deterministic: shared words raise the cosine score.
type wordEmbedder struct {
	vocab []string
}

func newWordEmbedder() *wordEmbedder {
	return &wordEmbedder{vocab: []string{
		"return", "policy", "days", "shipping", "free", "orders", "warranty", "refund",
	}}
}

func (e *wordEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	vec := make([]float64, len(e.vocab))
	lower := strings.ToLower(text)
	for i, word := range e.vocab {
		if strings.Contains(lower, word) {
			vec[i] = 1
		}
	}
	return vec, nil
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float64{1, 0, 1}, []float64{1, 0, 1}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float64{1, 0}, []float64{1, 0, 1}))
	assert.Equal(t, 0.0, cosineSimilarity([]float64{0, 0}, []float64{1, 0}))
	assert.Equal(t, 0.0, cosineSimilarity(nil, nil))
}

func seedIndex(t *testing.T, add func(ctx context.Context, id, content string) error) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, add(ctx, "p1", "Our return policy allows returns within 30 days of delivery."))
	require.NoError(t, add(ctx, "p2", "Shipping is free on orders over $50."))
	require.NoError(t, add(ctx, "p3", "All hardware carries a one year warranty."))
}

func TestInMemoryIndex_Search(t *testing.T) {
	idx := NewInMemoryIndex(newWordEmbedder())
	seedIndex(t, idx.Add)

	results, err := idx.Search(context.Background(), "what is your return policy?", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "p1", results[0].ID)
	assert.Greater(t, results[0].Score, results[1].Score)

	// k <= 0 falls back to the default.
	results, err = idx.Search(context.Background(), "shipping", 0)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSQLiteIndex_Search(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.db")
	idx, err := OpenSQLiteIndex(path, newWordEmbedder())
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	seedIndex(t, idx.Add)

	results, err := idx.Search(context.Background(), "do you offer free shipping?", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "p2", results[0].ID)

	// Upsert replaces content for an existing id.
	require.NoError(t, idx.Add(context.Background(), "p2", "Shipping is free on all orders."))
	results, err = idx.Search(context.Background(), "free shipping orders", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Shipping is free on all orders.", results[0].Content)
}

func TestSQLiteIndex_EmptySearch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.db")
	idx, err := OpenSQLiteIndex(path, newWordEmbedder())
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	// An empty index is a valid no-match outcome, not an error.
	results, err := idx.Search(context.Background(), "return policy", 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}
