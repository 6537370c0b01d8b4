// Package entities contains core business entities.
// These are the enterprise business rules - pure domain objects with no external dependencies.
package entities

import "time"

// Chunk is one retrievable unit of corpus text at paragraph granularity.
// Chunks are produced once at index-build time and never mutated; the
// ordinal (position in the persisted chunk sequence) is the sole
// cross-reference key between the vector index and the chunk text.
type Chunk struct {
	Ordinal int
	Text    string
}

// Hit is a raw nearest-neighbor match from the vector index.
type Hit struct {
	Ordinal int
	Score   float32
}

// ScoredChunk is a retrieved chunk with its relevance score, best-first.
// In semantic mode the score is cosine similarity; in keyword-fallback
// mode every chunk carries a uniform score of 1.0. The two scales are
// not comparable and are never mixed within one retrieval.
type ScoredChunk struct {
	Text  string
	Score float32
}

// Page is one crawled website page with its extracted visible text.
type Page struct {
	URL       string
	Text      string
	FetchedAt time.Time
}
