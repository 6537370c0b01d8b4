// Package ports defines interfaces for external dependencies.
// Clean Architecture: These are the boundaries - usecases depend on these abstractions,
// not concrete implementations. Adapters implement these interfaces.
package ports

import (
	"context"

	"github.com/campusrag/campusrag-go/internal/domain/entities"
)

// EmbeddingService generates vector embeddings for text. The same model
// must be used at index-build time and at query time; a dimension
// mismatch between the two is rejected by the retriever.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces an answer from a fully rendered prompt.
// Interface Segregation: one method, so a hosted model, a local model
// and a deterministic stub are interchangeable from the pipeline's view.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// VectorSearcher is a read-only flat vector index supporting k-nearest
// neighbor search by inner product. Safe for concurrent readers.
type VectorSearcher interface {
	// Search returns up to topK hits for the query vector, best-first.
	Search(query []float32, topK int) ([]entities.Hit, error)

	// Dimension returns the fixed embedding dimension of the index.
	Dimension() int

	// Size returns the number of stored vectors.
	Size() int
}

// IndexWriter persists the vector index together with its parallel chunk
// sequence as one logical unit. Implementations must publish atomically:
// a reader never observes a half-written artifact pair.
type IndexWriter interface {
	Save(vectors [][]float32, chunks []entities.Chunk) error
}

// CorpusWatcher monitors the corpus file and signals when it changes.
type CorpusWatcher interface {
	// Watch starts monitoring the file and emits a signal per change.
	Watch(ctx context.Context, path string) (<-chan struct{}, error)

	// Stop stops the watcher.
	Stop() error
}

// FactSource answers very common questions from a curated lookup,
// bypassing retrieval entirely. Returns false when no intent matches.
type FactSource interface {
	Answer(question string) (string, bool)
}
