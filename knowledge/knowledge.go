// Package knowledge provides similarity search over a pre-built passage
// index for the document-query capability. Two Retriever implementations are
// included: an in-memory index for tests and seeding, and a sqlite-backed
// index holding JSON-encoded embedding vectors ranked by brute-force cosine
// similarity. Ingestion pipelines are out of scope; the small Add surface
// exists for seeding and tests only.
package knowledge

import (
	"context"
	"math"
)

// DefaultTopK is the default number of passages returned by a search.
const DefaultTopK = 3

// Passage is one retrievable chunk of the knowledge base.
type Passage struct {
	ID      string  `json:"id"`
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"`
}

// Retriever performs similarity search over the knowledge index.
type Retriever interface {
	// Search returns up to k passages ranked by similarity to the query.
	// An empty result is a valid non-error outcome.
	Search(ctx context.Context, query string, k int) ([]Passage, error)
}

// Embedder turns text into an embedding vector. Implemented by the OpenAI
// embeddings client and by deterministic fakes in tests.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// cosineSimilarity computes the cosine similarity between two vectors.
// Mismatched or zero-magnitude vectors score 0.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
