package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("unexpected default addr: %s", cfg.Server.Addr)
	}
	if cfg.Retrieval.TopK != 3 || cfg.Retrieval.FallbackThreshold != 0.15 || cfg.Retrieval.MinKeywordLength != 4 {
		t.Errorf("unexpected retrieval defaults: %+v", cfg.Retrieval)
	}
	if cfg.Generator.Groq == nil || cfg.Generator.Groq.APIKeyEnv != "GROQ_API_KEY" {
		t.Errorf("unexpected generator defaults: %+v", cfg.Generator)
	}
}

func TestLoad_OverridesFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":9000"
retrieval:
  top_k: 5
  fallback_threshold: 0.25
embedder:
  type: openai
  openai:
    model: text-embedding-3-small
generator:
  type: echo
`
	os.WriteFile(path, []byte(content), 0o644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("addr override lost: %s", cfg.Server.Addr)
	}
	if cfg.Retrieval.TopK != 5 || cfg.Retrieval.FallbackThreshold != 0.25 {
		t.Errorf("retrieval overrides lost: %+v", cfg.Retrieval)
	}
	if cfg.Embedder.Type != "openai" || cfg.Embedder.OpenAI.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("embedder defaults not applied: %+v", cfg.Embedder)
	}
	if cfg.Generator.Type != "echo" {
		t.Errorf("generator override lost: %s", cfg.Generator.Type)
	}
	// Untouched sections still get defaults.
	if cfg.Corpus.Path != "data/website_text.txt" {
		t.Errorf("corpus default missing: %s", cfg.Corpus.Path)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("server: [not: a map"), 0o644)

	if _, err := Load(path); err == nil {
		t.Error("malformed YAML should fail")
	}
}
