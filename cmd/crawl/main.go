package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/campusrag/campusrag-go/internal/adapters/scraper"
	"github.com/campusrag/campusrag-go/internal/config"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	baseURL := flag.String("base-url", "", "root URL to crawl (required unless -export-only)")
	maxPages := flag.Int("max-pages", 0, "page limit, overrides config")
	output := flag.String("output", "", "corpus file path, overrides config")
	exportOnly := flag.Bool("export-only", false, "write the corpus from cached pages without crawling")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[ERROR] loading config: %v", err)
	}
	if *maxPages > 0 {
		cfg.Scraper.MaxPages = *maxPages
	}
	if *output != "" {
		cfg.Corpus.Path = *output
	}
	if *baseURL == "" && !*exportOnly {
		fmt.Fprintln(os.Stderr, "Usage: crawl -base-url <url> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache, err := scraper.OpenPageCache(cfg.Scraper.CachePath)
	if err != nil {
		log.Fatalf("[ERROR] opening page cache: %v", err)
	}
	defer cache.Close()

	if !*exportOnly {
		crawler := scraper.NewCrawler(cfg.Scraper.MaxPages, cache)
		pages, err := crawler.Crawl(ctx, *baseURL)
		if err != nil {
			log.Fatalf("[ERROR] crawling %s: %v", *baseURL, err)
		}
		log.Printf("[INFO] crawled %d pages from %s", len(pages), *baseURL)
	}

	// Export the full cache, not just this run, so interrupted crawls
	// still yield a usable corpus.
	pages, err := cache.All(ctx)
	if err != nil {
		log.Fatalf("[ERROR] reading page cache: %v", err)
	}
	if len(pages) == 0 {
		log.Fatalf("[ERROR] page cache is empty, nothing to export")
	}
	if err := scraper.WriteCorpus(cfg.Corpus.Path, pages); err != nil {
		log.Fatalf("[ERROR] writing corpus: %v", err)
	}
	log.Printf("[INFO] wrote %d pages to %s", len(pages), cfg.Corpus.Path)
}
