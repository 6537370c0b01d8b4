package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/campusrag/campusrag-go/internal/adapters/corpus"
	"github.com/campusrag/campusrag-go/internal/adapters/embedding"
	"github.com/campusrag/campusrag-go/internal/adapters/vectordb"
	"github.com/campusrag/campusrag-go/internal/config"
	"github.com/campusrag/campusrag-go/internal/domain/ports"
	"github.com/campusrag/campusrag-go/internal/domain/usecases"
)

func main() {
	// Load .env file if it exists (for API keys)
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to config file")
	corpusPath := flag.String("corpus", "", "corpus file path, overrides config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[ERROR] loading config: %v", err)
	}
	if *corpusPath != "" {
		cfg.Corpus.Path = *corpusPath
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		log.Fatalf("[ERROR] initializing embedder: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	raw, err := corpus.NewFileLoader().Load(cfg.Corpus.Path)
	if err != nil {
		log.Fatalf("[ERROR] loading corpus: %v", err)
	}

	store := vectordb.NewGobStore(cfg.Index.VectorsPath, cfg.Index.ChunksPath)
	builder := usecases.NewIndexBuilder(embedder, store, cfg.Corpus.MinAlphaRatio)
	count, err := builder.Build(ctx, raw)
	if err != nil {
		log.Fatalf("[ERROR] building index: %v", err)
	}
	log.Printf("[INFO] indexed %d chunks into %s", count, cfg.Index.VectorsPath)
}

func newEmbedder(cfg *config.AppConfig) (ports.EmbeddingService, error) {
	switch cfg.Embedder.Type {
	case "ollama":
		return embedding.NewOllamaAdapter(cfg.Embedder.Ollama.BaseURL, cfg.Embedder.Ollama.Model), nil
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			return nil, fmt.Errorf("embedder type openai requires an openai section")
		}
		return embedding.NewOpenAIAdapter(os.Getenv(cfg.Embedder.OpenAI.APIKeyEnv), cfg.Embedder.OpenAI.Model)
	default:
		return nil, fmt.Errorf("unknown embedder type %q", cfg.Embedder.Type)
	}
}
