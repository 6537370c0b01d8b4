// Package vectordb provides the flat inner-product vector index and its
// on-disk store. Clean Architecture: Adapter implementing ports.VectorSearcher
// and ports.IndexWriter.
package vectordb

import (
	"fmt"
	"sort"

	"github.com/campusrag/campusrag-go/internal/domain/entities"
)

// FlatIndex is an exhaustive inner-product index. No approximate
// structure: corpora are small (tens to low thousands of chunks), so
// exactness wins over scale. Append-only during build, read-only for the
// lifetime of a retrieval session; concurrent readers need no locking.
type FlatIndex struct {
	dim     int
	vectors [][]float32
}

// NewFlatIndex creates an empty index with a fixed embedding dimension.
func NewFlatIndex(dim int) (*FlatIndex, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("invalid index dimension %d", dim)
	}
	return &FlatIndex{dim: dim}, nil
}

// Add appends vectors to the index. Callers are expected to pass
// L2-normalized vectors so that inner product equals cosine similarity.
func (ix *FlatIndex) Add(vectors ...[]float32) error {
	for _, v := range vectors {
		if len(v) != ix.dim {
			return fmt.Errorf("vector has %d dimensions, index has %d: %w",
				len(v), ix.dim, entities.ErrDimensionMismatch)
		}
		ix.vectors = append(ix.vectors, v)
	}
	return nil
}

// Search returns up to topK hits by inner product, best-first. With
// fewer than topK stored vectors it simply returns fewer hits - no
// sentinel padding.
func (ix *FlatIndex) Search(query []float32, topK int) ([]entities.Hit, error) {
	if len(query) != ix.dim {
		return nil, fmt.Errorf("query has %d dimensions, index has %d: %w",
			len(query), ix.dim, entities.ErrDimensionMismatch)
	}
	if topK <= 0 {
		return nil, nil
	}

	hits := make([]entities.Hit, len(ix.vectors))
	for i, v := range ix.vectors {
		var dot float32
		for j := range v {
			dot += query[j] * v[j]
		}
		hits[i] = entities.Hit{Ordinal: i, Score: dot}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Dimension returns the fixed embedding dimension.
func (ix *FlatIndex) Dimension() int {
	return ix.dim
}

// Size returns the number of stored vectors.
func (ix *FlatIndex) Size() int {
	return len(ix.vectors)
}
