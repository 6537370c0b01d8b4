// Package corpus reads the scraped website text the crawler produces.
// The file is plain UTF-8 with paragraphs separated by blank lines and a
// page separator line of 80 '=' characters between pages; the separator
// needs no special handling here, the corpus splitter filters it out.
package corpus

import (
	"fmt"
	"os"
)

// FileLoader reads the raw corpus file from disk.
type FileLoader struct{}

// NewFileLoader creates a corpus file loader.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load reads the corpus file and returns its raw text.
func (l *FileLoader) Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("corpus file not found at %s, run the crawler first: %w", path, err)
		}
		return "", fmt.Errorf("reading corpus: %w", err)
	}
	return string(data), nil
}
