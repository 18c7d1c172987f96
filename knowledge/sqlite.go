package knowledge

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	_ "modernc.org/sqlite" // pure-Go sqlite driver
)

const passageSchema = `
CREATE TABLE IF NOT EXISTS passages (
	id        TEXT PRIMARY KEY,
	content   TEXT NOT NULL,
	embedding BLOB NOT NULL
);
`

// SQLiteIndex is a Retriever over a sqlite passage table with JSON-encoded
// embedding vectors, ranked by brute-force cosine similarity. The index is
// expected to be pre-built; Add exists for seeding and tests.
type SQLiteIndex struct {
	db       *sql.DB
	embedder Embedder
}

// OpenSQLiteIndex opens (creating the schema if needed) the passage index at
// path.
func OpenSQLiteIndex(path string, embedder Embedder) (*SQLiteIndex, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("open knowledge index: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping knowledge index: %w", err)
	}
	if _, err := db.Exec(passageSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize knowledge schema: %w", err)
	}
	// Single writer; sqlite serializes writes anyway.
	db.SetMaxOpenConns(1)

	return &SQLiteIndex{db: db, embedder: embedder}, nil
}

// Close releases the underlying database handle.
func (x *SQLiteIndex) Close() error {
	return x.db.Close()
}

// Add embeds and upserts one passage.
func (x *SQLiteIndex) Add(ctx context.Context, id, content string) error {
	vec, err := x.embedder.Embed(ctx, content)
	if err != nil {
		return fmt.Errorf("embed passage %s: %w", id, err)
	}
	blob, err := json.Marshal(vec)
	if err != nil {
		return fmt.Errorf("encode embedding: %w", err)
	}
	_, err = x.db.ExecContext(ctx,
		`INSERT INTO passages (id, content, embedding) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET content = excluded.content, embedding = excluded.embedding`,
		id, content, blob,
	)
	if err != nil {
		return fmt.Errorf("upsert passage %s: %w", id, err)
	}
	return nil
}

// Search implements Retriever with a full scan over the passage table.
func (x *SQLiteIndex) Search(ctx context.Context, query string, k int) ([]Passage, error) {
	if k <= 0 {
		k = DefaultTopK
	}
	queryVec, err := x.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := x.db.QueryContext(ctx, `SELECT id, content, embedding FROM passages`)
	if err != nil {
		return nil, fmt.Errorf("scan passages: %w", err)
	}
	defer rows.Close()

	var results []Passage
	for rows.Next() {
		var (
			id      string
			content string
			blob    []byte
		)
		if err := rows.Scan(&id, &content, &blob); err != nil {
			return nil, fmt.Errorf("scan passage row: %w", err)
		}
		var vec []float64
		if err := json.Unmarshal(blob, &vec); err != nil {
			continue // Skip undecodable vectors.
		}
		results = append(results, Passage{
			ID:      id,
			Content: content,
			Score:   cosineSimilarity(queryVec, vec),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate passages: %w", err)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}
