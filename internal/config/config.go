// Package config loads the application configuration from YAML.
// Retrieval tunables (top-k, fallback threshold, keyword length, alpha
// ratio) are deliberately configuration, not constants: they are
// heuristics carried over from observed behavior, not calibrated truths.
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig configures the HTTP serving surface.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	CacheTTLSecs int    `yaml:"cache_ttl_secs"`
}

// CorpusConfig locates the scraped corpus and its filtering rule.
type CorpusConfig struct {
	Path          string  `yaml:"path"`
	MinAlphaRatio float64 `yaml:"min_alpha_ratio"`
}

// IndexConfig locates the two persisted index artifacts. They are one
// logical unit and must always be regenerated together.
type IndexConfig struct {
	VectorsPath string `yaml:"vectors_path"`
	ChunksPath  string `yaml:"chunks_path"`
}

// RetrievalConfig holds the retrieval heuristics.
type RetrievalConfig struct {
	TopK              int     `yaml:"top_k"`
	FallbackThreshold float64 `yaml:"fallback_threshold"`
	MinKeywordLength  int     `yaml:"min_keyword_length"`
}

// OllamaConfig holds connection details for a local Ollama instance.
type OllamaConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// OpenAIEmbedderConfig configures the hosted embedding model.
type OpenAIEmbedderConfig struct {
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// EmbedderConfig selects and configures the embedding adapter.
type EmbedderConfig struct {
	Type   string                `yaml:"type"` // "ollama" or "openai"
	Ollama *OllamaConfig         `yaml:"ollama,omitempty"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// GroqConfig configures the hosted Groq generator.
type GroqConfig struct {
	Model          string `yaml:"model"`
	APIKeyEnv      string `yaml:"api_key_env"`
	MaxPromptChars int    `yaml:"max_prompt_chars"`
}

// GeneratorConfig selects and configures the answer generator.
type GeneratorConfig struct {
	Type   string        `yaml:"type"` // "groq", "ollama" or "echo"
	Ollama *OllamaConfig `yaml:"ollama,omitempty"`
	Groq   *GroqConfig   `yaml:"groq,omitempty"`
}

// ScraperConfig configures the website crawler.
type ScraperConfig struct {
	MaxPages  int    `yaml:"max_pages"`
	CachePath string `yaml:"cache_path"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Index     IndexConfig     `yaml:"index"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Generator GeneratorConfig `yaml:"generator"`
	Scraper   ScraperConfig   `yaml:"scraper"`
}

// Load reads a config from path. A missing file yields the defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.CacheTTLSecs == 0 {
		cfg.Server.CacheTTLSecs = 300
	}
	if cfg.Corpus.Path == "" {
		cfg.Corpus.Path = "data/website_text.txt"
	}
	if cfg.Corpus.MinAlphaRatio == 0 {
		cfg.Corpus.MinAlphaRatio = 0.10
	}
	if cfg.Index.VectorsPath == "" {
		cfg.Index.VectorsPath = "data/index/vectors.gob"
	}
	if cfg.Index.ChunksPath == "" {
		cfg.Index.ChunksPath = "data/index/chunks.gob"
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 3
	}
	if cfg.Retrieval.FallbackThreshold == 0 {
		cfg.Retrieval.FallbackThreshold = 0.15
	}
	if cfg.Retrieval.MinKeywordLength == 0 {
		cfg.Retrieval.MinKeywordLength = 4
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "ollama"
	}
	if cfg.Embedder.Type == "ollama" && cfg.Embedder.Ollama == nil {
		cfg.Embedder.Ollama = &OllamaConfig{}
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
	}
	if cfg.Generator.Type == "" {
		cfg.Generator.Type = "groq"
	}
	if cfg.Generator.Type == "groq" {
		if cfg.Generator.Groq == nil {
			cfg.Generator.Groq = &GroqConfig{}
		}
		if cfg.Generator.Groq.APIKeyEnv == "" {
			cfg.Generator.Groq.APIKeyEnv = "GROQ_API_KEY"
		}
	}
	if cfg.Generator.Type == "ollama" && cfg.Generator.Ollama == nil {
		cfg.Generator.Ollama = &OllamaConfig{}
	}
	if cfg.Scraper.MaxPages == 0 {
		cfg.Scraper.MaxPages = 50
	}
	if cfg.Scraper.CachePath == "" {
		cfg.Scraper.CachePath = "data/pages.db"
	}
}
