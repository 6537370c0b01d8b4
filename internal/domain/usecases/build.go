package usecases

import (
	"context"
	"fmt"

	"github.com/campusrag/campusrag-go/internal/domain/entities"
	"github.com/campusrag/campusrag-go/internal/domain/ports"
)

// IndexBuilder turns a raw corpus into a persisted vector index plus its
// parallel chunk sequence. Building is an infrequent, exclusive step;
// queries against previously published artifacts stay valid while it runs.
type IndexBuilder struct {
	embedder      ports.EmbeddingService
	writer        ports.IndexWriter
	minAlphaRatio float64
}

// NewIndexBuilder creates an IndexBuilder with injected dependencies.
func NewIndexBuilder(embedder ports.EmbeddingService, writer ports.IndexWriter, minAlphaRatio float64) *IndexBuilder {
	if minAlphaRatio <= 0 {
		minAlphaRatio = DefaultMinAlphaRatio
	}
	return &IndexBuilder{
		embedder:      embedder,
		writer:        writer,
		minAlphaRatio: minAlphaRatio,
	}
}

// Build chunks the corpus, embeds every chunk, L2-normalizes the vectors
// and persists index and chunks together. Returns the chunk count.
// A corpus with no usable chunks fails with entities.ErrEmptyCorpus.
func (b *IndexBuilder) Build(ctx context.Context, raw string) (int, error) {
	chunks, err := SplitCorpus(raw, b.minAlphaRatio)
	if err != nil {
		return 0, err
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := b.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding corpus: %w", err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	// All vectors must come from one model, so one dimension.
	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return 0, fmt.Errorf("chunk %d has %d dimensions, expected %d: %w",
				i, len(v), dim, entities.ErrDimensionMismatch)
		}
		normalizeL2(vectors[i])
	}

	if err := b.writer.Save(vectors, chunks); err != nil {
		return 0, fmt.Errorf("persisting index: %w", err)
	}
	return len(chunks), nil
}
