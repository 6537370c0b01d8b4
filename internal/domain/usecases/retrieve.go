package usecases

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/campusrag/campusrag-go/internal/domain/entities"
	"github.com/campusrag/campusrag-go/internal/domain/ports"
)

// Heuristic retrieval constants, carried over from observed behavior.
// They are defaults, not calibrated truths - both are configurable.
const (
	// DefaultTopK is how many chunks a retrieval returns at most.
	DefaultTopK = 3

	// DefaultFallbackThreshold is the cosine similarity below which
	// semantic results are considered weak and discarded.
	DefaultFallbackThreshold = 0.15

	// DefaultMinKeywordLength is the minimum word length for a query
	// term to participate in keyword-fallback scoring. Short stopword-like
	// tokens are excluded by construction.
	DefaultMinKeywordLength = 4
)

// Retriever answers queries against a read-only vector index using
// semantic search first and a lexical term-frequency scan as fallback.
// Safe for concurrent use: the index and chunk sequence are never
// mutated after construction.
type Retriever struct {
	embedder   ports.EmbeddingService
	index      ports.VectorSearcher
	chunks     []entities.Chunk
	threshold  float32
	minTermLen int
}

// NewRetriever creates a Retriever over an already-loaded index and its
// parallel chunk sequence. Zero-valued tuning parameters get defaults.
func NewRetriever(
	embedder ports.EmbeddingService,
	index ports.VectorSearcher,
	chunks []entities.Chunk,
	threshold float64,
	minTermLen int,
) *Retriever {
	if threshold <= 0 {
		threshold = DefaultFallbackThreshold
	}
	if minTermLen <= 0 {
		minTermLen = DefaultMinKeywordLength
	}
	return &Retriever{
		embedder:   embedder,
		index:      index,
		chunks:     chunks,
		threshold:  float32(threshold),
		minTermLen: minTermLen,
	}
}

// Retrieve returns up to topK supporting chunks for the query, best-first.
// Semantic results are returned when the best similarity reaches the
// fallback threshold; otherwise they are discarded wholesale and the
// keyword scan runs instead. An empty result is normal data, not an
// error: the caller treats it as "no information available".
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]entities.ScoredChunk, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vec) != r.index.Dimension() {
		return nil, fmt.Errorf("query has %d dimensions, index has %d: %w",
			len(vec), r.index.Dimension(), entities.ErrDimensionMismatch)
	}
	normalizeL2(vec)

	hits, err := r.index.Search(vec, topK)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	var results []entities.ScoredChunk
	for _, h := range hits {
		// Exhausted-index sentinels and anything out of range are dropped.
		if h.Ordinal < 0 || h.Ordinal >= len(r.chunks) {
			continue
		}
		results = append(results, entities.ScoredChunk{
			Text:  r.chunks[h.Ordinal].Text,
			Score: h.Score,
		})
	}

	if len(results) == 0 || results[0].Score < r.threshold {
		return r.keywordRetrieve(query, topK), nil
	}
	return results, nil
}

// keywordRetrieve is the lexical fallback: chunks are scored by summed
// case-insensitive occurrence counts of the query terms. Results carry a
// uniform score of 1.0, which only exists so callers have a numeric
// field - it must never be compared against semantic similarities.
func (r *Retriever) keywordRetrieve(query string, max int) []entities.ScoredChunk {
	terms := keywordTerms(query, r.minTermLen)
	if len(terms) == 0 {
		return nil
	}

	type scored struct {
		ordinal int
		count   int
	}
	var matches []scored
	for _, c := range r.chunks {
		lower := strings.ToLower(c.Text)
		count := 0
		for _, term := range terms {
			count += strings.Count(lower, term)
		}
		if count > 0 {
			matches = append(matches, scored{ordinal: c.Ordinal, count: count})
		}
	}
	if len(matches) == 0 {
		return nil
	}

	// Stable sort keeps original corpus order on ties.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].count > matches[j].count
	})
	if len(matches) > max {
		matches = matches[:max]
	}

	results := make([]entities.ScoredChunk, len(matches))
	for i, m := range matches {
		results[i] = entities.ScoredChunk{Text: r.chunks[m.ordinal].Text, Score: 1.0}
	}
	return results
}

// keywordTerms tokenizes a query for the fallback scan: lowercased words
// of at least minLen runes consisting only of letters.
func keywordTerms(query string, minLen int) []string {
	var terms []string
	for _, word := range strings.Fields(query) {
		runes := []rune(strings.ToLower(word))
		if len(runes) < minLen {
			continue
		}
		allLetters := true
		for _, r := range runes {
			if !unicode.IsLetter(r) {
				allLetters = false
				break
			}
		}
		if !allLetters {
			continue
		}
		terms = append(terms, string(runes))
	}
	return terms
}
