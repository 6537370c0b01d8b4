// Package usecases contains application business rules.
// Clean Architecture: Usecases orchestrate entities and depend on port interfaces.
// They contain NO framework code, NO external dependencies - just pure business logic.
package usecases

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/campusrag/campusrag-go/internal/domain/entities"
)

// DefaultMinAlphaRatio is the letter/total ratio below which a block is
// treated as noise (separator lines, symbol tables, navigation debris).
const DefaultMinAlphaRatio = 0.10

// SplitCorpus turns raw scraped text into an ordered chunk sequence.
// Blocks are separated by blank lines; blocks whose letter ratio falls
// below minAlphaRatio are dropped. Ordinals are assigned from 0 over the
// surviving blocks in original order. The split is deterministic: the
// same input always yields the same sequence.
func SplitCorpus(raw string, minAlphaRatio float64) ([]entities.Chunk, error) {
	if minAlphaRatio <= 0 {
		minAlphaRatio = DefaultMinAlphaRatio
	}

	var chunks []entities.Chunk
	for _, block := range strings.Split(raw, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if alphaRatio(block) < minAlphaRatio {
			continue
		}
		chunks = append(chunks, entities.Chunk{
			Ordinal: len(chunks),
			Text:    block,
		})
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("splitting corpus: %w", entities.ErrEmptyCorpus)
	}
	return chunks, nil
}

// alphaRatio returns the fraction of runes that are letters.
func alphaRatio(s string) float64 {
	runes := []rune(s)
	if len(runes) == 0 {
		return 0
	}
	letters := 0
	for _, r := range runes {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return float64(letters) / float64(len(runes))
}
