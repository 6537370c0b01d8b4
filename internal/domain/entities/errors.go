package entities

import "errors"

// Structural errors of the retrieval core. "No relevant information
// found" is modeled as an empty result, not as one of these.
var (
	// ErrEmptyCorpus means zero chunks survived corpus filtering; an
	// index must never be built from an empty chunk sequence.
	ErrEmptyCorpus = errors.New("no usable chunks in corpus")

	// ErrStoreNotFound means one or both persisted index artifacts are
	// missing at load time.
	ErrStoreNotFound = errors.New("vector store artifacts not found")

	// ErrStoreCorrupt means the persisted vector index and chunk
	// sequence disagree (artifacts not regenerated together).
	ErrStoreCorrupt = errors.New("vector store artifacts are inconsistent")

	// ErrDimensionMismatch means an embedding's dimension disagrees with
	// the index, typically a stale index built with a different model.
	ErrDimensionMismatch = errors.New("embedding dimension does not match index")
)
