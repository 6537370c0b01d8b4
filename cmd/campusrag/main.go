package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/campusrag/campusrag-go/internal/adapters/corpus"
	"github.com/campusrag/campusrag-go/internal/adapters/embedding"
	"github.com/campusrag/campusrag-go/internal/adapters/facts"
	"github.com/campusrag/campusrag-go/internal/adapters/filewatcher"
	"github.com/campusrag/campusrag-go/internal/adapters/generator"
	"github.com/campusrag/campusrag-go/internal/adapters/vectordb"
	"github.com/campusrag/campusrag-go/internal/config"
	"github.com/campusrag/campusrag-go/internal/domain/entities"
	"github.com/campusrag/campusrag-go/internal/domain/ports"
	"github.com/campusrag/campusrag-go/internal/domain/usecases"
	httpserver "github.com/campusrag/campusrag-go/internal/infrastructure/http"
)

func main() {
	// Load .env file if it exists (for API keys)
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[ERROR] loading config: %v", err)
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		log.Fatalf("[ERROR] initializing embedder: %v", err)
	}
	gen := newGenerator(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline, err := loadPipeline(cfg, embedder, gen)
	if errors.Is(err, entities.ErrStoreNotFound) {
		log.Printf("[INFO] no index found, building from %s", cfg.Corpus.Path)
		if err = rebuildIndex(ctx, cfg, embedder); err == nil {
			pipeline, err = loadPipeline(cfg, embedder, gen)
		}
	}
	if err != nil {
		log.Fatalf("[ERROR] preparing answer pipeline: %v", err)
	}

	rebuild := func(ctx context.Context) (httpserver.AskService, error) {
		if err := rebuildIndex(ctx, cfg, embedder); err != nil {
			return nil, err
		}
		return loadPipeline(cfg, embedder, gen)
	}

	server := httpserver.NewServer(
		pipeline,
		facts.NewStore(),
		rebuild,
		cfg.Server.Addr,
		time.Duration(cfg.Server.CacheTTLSecs)*time.Second,
	)

	go watchCorpus(ctx, cfg.Corpus.Path, server)

	if err := server.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("[ERROR] server: %v", err)
	}
	log.Println("[INFO] server stopped")
}

// newEmbedder builds the embedding adapter the config selects.
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

// newGenerator builds the answer generator. When the Groq key is absent
// the service stays up with a context-echo generator so retrieval can
// still be exercised.
func newGenerator(cfg *config.AppConfig) ports.Generator {
	switch cfg.Generator.Type {
	case "groq":
		apiKey := os.Getenv(cfg.Generator.Groq.APIKeyEnv)
		gen, err := generator.NewGroqAdapter(apiKey, cfg.Generator.Groq.Model, cfg.Generator.Groq.MaxPromptChars)
		if err != nil {
			log.Printf("[WARN] groq unavailable (%v), answers will echo retrieved context", err)
			return generator.NewContextEcho()
		}
		return gen
	case "ollama":
		return generator.NewOllamaAdapter(cfg.Generator.Ollama.BaseURL, cfg.Generator.Ollama.Model)
	default:
		return generator.NewContextEcho()
	}
}

// loadPipeline assembles the answer pipeline over the persisted index.
func loadPipeline(cfg *config.AppConfig, embedder ports.EmbeddingService, gen ports.Generator) (httpserver.AskService, error) {
	store := vectordb.NewGobStore(cfg.Index.VectorsPath, cfg.Index.ChunksPath)
	index, chunks, err := store.Load()
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] loaded index: %d chunks, dimension %d", index.Size(), index.Dimension())
	retriever := usecases.NewRetriever(embedder, index, chunks,
		cfg.Retrieval.FallbackThreshold, cfg.Retrieval.MinKeywordLength)
	return usecases.NewAnswerPipeline(retriever, gen, cfg.Retrieval.TopK), nil
}

// rebuildIndex regenerates the index artifacts from the corpus file.
func rebuildIndex(ctx context.Context, cfg *config.AppConfig, embedder ports.EmbeddingService) error {
	raw, err := corpus.NewFileLoader().Load(cfg.Corpus.Path)
	if err != nil {
		return err
	}
	store := vectordb.NewGobStore(cfg.Index.VectorsPath, cfg.Index.ChunksPath)
	builder := usecases.NewIndexBuilder(embedder, store, cfg.Corpus.MinAlphaRatio)
	count, err := builder.Build(ctx, raw)
	if err != nil {
		return err
	}
	log.Printf("[INFO] indexed %d chunks", count)
	return nil
}

// watchCorpus rebuilds the index whenever the corpus file is rewritten.
func watchCorpus(ctx context.Context, path string, server *httpserver.Server) {
	watcher, err := filewatcher.NewFSNotifyWatcher()
	if err != nil {
		log.Printf("[WARN] corpus watcher disabled: %v", err)
		return
	}
	defer watcher.Stop()

	events, err := watcher.Watch(ctx, path)
	if err != nil {
		log.Printf("[WARN] corpus watcher disabled: %v", err)
		return
	}
	log.Printf("[INFO] watching %s for changes", path)

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			log.Printf("[INFO] corpus changed, rebuilding index")
			if err := server.Rebuild(ctx); err != nil {
				log.Printf("[ERROR] rebuild after corpus change: %v", err)
			}
		}
	}
}
