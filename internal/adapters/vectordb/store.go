package vectordb

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/campusrag/campusrag-go/internal/domain/entities"
)

// GobStore persists the vector index and the parallel chunk sequence as
// two co-located gob files. The pair is one logical unit: both files are
// written to temporary paths and renamed into place only when complete,
// so concurrent readers keep seeing the previous pair during a rebuild.
type GobStore struct {
	indexPath  string
	chunksPath string
}

// indexFile is the on-disk layout of the vector artifact.
type indexFile struct {
	Dimension int
	Vectors   [][]float32
}

// NewGobStore creates a store over the two artifact paths.
func NewGobStore(indexPath, chunksPath string) *GobStore {
	return &GobStore{indexPath: indexPath, chunksPath: chunksPath}
}

// Save writes both artifacts and publishes them atomically.
func (s *GobStore) Save(vectors [][]float32, chunks []entities.Chunk) error {
	if len(vectors) != len(chunks) {
		return fmt.Errorf("refusing to persist %d vectors with %d chunks: %w",
			len(vectors), len(chunks), entities.ErrStoreCorrupt)
	}
	if len(vectors) == 0 {
		return fmt.Errorf("refusing to persist an empty index: %w", entities.ErrEmptyCorpus)
	}

	dim := len(vectors[0])
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	for _, dir := range []string{filepath.Dir(s.indexPath), filepath.Dir(s.chunksPath)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating artifact directory: %w", err)
		}
	}

	tmpIndex, err := writeGob(s.indexPath, indexFile{Dimension: dim, Vectors: vectors})
	if err != nil {
		return fmt.Errorf("writing vector artifact: %w", err)
	}
	tmpChunks, err := writeGob(s.chunksPath, texts)
	if err != nil {
		os.Remove(tmpIndex)
		return fmt.Errorf("writing chunk artifact: %w", err)
	}

	// Publish only once both temp files are complete on disk.
	if err := os.Rename(tmpIndex, s.indexPath); err != nil {
		os.Remove(tmpIndex)
		os.Remove(tmpChunks)
		return fmt.Errorf("publishing vector artifact: %w", err)
	}
	if err := os.Rename(tmpChunks, s.chunksPath); err != nil {
		os.Remove(tmpChunks)
		return fmt.Errorf("publishing chunk artifact: %w", err)
	}
	return nil
}

// Load reads both artifacts and rebuilds the index. Either file missing
// fails with ErrStoreNotFound; a count or dimension disagreement between
// the two fails with ErrStoreCorrupt.
func (s *GobStore) Load() (*FlatIndex, []entities.Chunk, error) {
	var idx indexFile
	if err := readGob(s.indexPath, &idx); err != nil {
		return nil, nil, err
	}
	var texts []string
	if err := readGob(s.chunksPath, &texts); err != nil {
		return nil, nil, err
	}

	if len(idx.Vectors) != len(texts) {
		return nil, nil, fmt.Errorf("%d vectors vs %d chunks: %w",
			len(idx.Vectors), len(texts), entities.ErrStoreCorrupt)
	}
	if idx.Dimension <= 0 {
		return nil, nil, fmt.Errorf("stored dimension %d: %w", idx.Dimension, entities.ErrStoreCorrupt)
	}

	index, err := NewFlatIndex(idx.Dimension)
	if err != nil {
		return nil, nil, err
	}
	for i, v := range idx.Vectors {
		if len(v) != idx.Dimension {
			return nil, nil, fmt.Errorf("vector %d has %d dimensions, expected %d: %w",
				i, len(v), idx.Dimension, entities.ErrStoreCorrupt)
		}
	}
	if err := index.Add(idx.Vectors...); err != nil {
		return nil, nil, err
	}

	chunks := make([]entities.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = entities.Chunk{Ordinal: i, Text: text}
	}
	return index, chunks, nil
}

// writeGob encodes v into a temp file next to path and returns the temp
// file's name. The caller renames it into place.
func writeGob(path string, v interface{}) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", err
	}
	if err := gob.NewEncoder(f).Encode(v); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func readGob(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", path, entities.ErrStoreNotFound)
		}
		return err
	}
	defer f.Close()

	if err := gob.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, entities.ErrStoreCorrupt)
	}
	return nil
}
