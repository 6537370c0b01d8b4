package scraper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/campusrag/campusrag-go/internal/domain/entities"
)

// PageCache records crawled pages in SQLite so the corpus can be
// re-exported, or a crawl inspected, without hitting the website again.
type PageCache struct {
	db *sql.DB
}

// OpenPageCache opens (or creates) the cache database at path.
func OpenPageCache(path string) (*PageCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	cache := &PageCache{db: db}
	if err := cache.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return cache, nil
}

// initSchema creates the necessary tables.
func (c *PageCache) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pages (
		url TEXT PRIMARY KEY,
		fetched_at DATETIME NOT NULL,
		text TEXT NOT NULL
	);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Put records a crawled page, replacing any previous fetch of the URL.
func (c *PageCache) Put(ctx context.Context, page entities.Page) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO pages (url, fetched_at, text)
		VALUES (?, ?, ?)
	`, page.URL, page.FetchedAt, page.Text)
	if err != nil {
		return fmt.Errorf("inserting page: %w", err)
	}
	return nil
}

// Get returns the cached page for a URL, if present.
func (c *PageCache) Get(ctx context.Context, pageURL string) (entities.Page, bool, error) {
	var page entities.Page
	row := c.db.QueryRowContext(ctx,
		`SELECT url, fetched_at, text FROM pages WHERE url = ?`, pageURL)
	if err := row.Scan(&page.URL, &page.FetchedAt, &page.Text); err != nil {
		if err == sql.ErrNoRows {
			return entities.Page{}, false, nil
		}
		return entities.Page{}, false, fmt.Errorf("querying page: %w", err)
	}
	return page, true, nil
}

// All returns every cached page in insertion order.
func (c *PageCache) All(ctx context.Context) ([]entities.Page, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT url, fetched_at, text FROM pages ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying pages: %w", err)
	}
	defer rows.Close()

	var pages []entities.Page
	for rows.Next() {
		var page entities.Page
		if err := rows.Scan(&page.URL, &page.FetchedAt, &page.Text); err != nil {
			return nil, fmt.Errorf("scanning page: %w", err)
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

// Count returns the number of cached pages.
func (c *PageCache) Count(ctx context.Context) (int, error) {
	var count int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages`).Scan(&count)
	return count, err
}

// Close closes the underlying database.
func (c *PageCache) Close() error {
	return c.db.Close()
}
