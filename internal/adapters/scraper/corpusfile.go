package scraper

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/campusrag/campusrag-go/internal/domain/entities"
)

// pageSeparator is the crawler's output contract: page texts are joined
// by a line of 80 '=' characters flanked by blank lines. Downstream the
// corpus splitter drops the separator via its alpha-ratio filter.
var pageSeparator = "\n\n" + strings.Repeat("=", 80) + "\n\n"

// WriteCorpus writes all page texts into one corpus file. The file is
// written to a temp path and renamed, so a concurrent index build never
// reads a half-written corpus.
func WriteCorpus(path string, pages []entities.Page) error {
	if len(pages) == 0 {
		return fmt.Errorf("no pages to write")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.Text
	}
	content := strings.Join(texts, pageSeparator)

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp corpus: %w", err)
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing corpus: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp corpus: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("publishing corpus: %w", err)
	}
	return nil
}
