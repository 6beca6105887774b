package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variables that override values from the config file.
const (
	EnvEmbeddingModel  = "EMBEDDING_MODEL"
	EnvEmbeddingAPIKey = "EMBEDDING_API_KEY"
	EnvLLMAPIKey       = "LLM_API_KEY"
)

type Config struct {
	Documents DocumentsConfig `yaml:"documents"`
	RAG       RAGConfig       `yaml:"rag"`
	EmbedLLM  LLMConfig       `yaml:"embed_llm"`
	ChatLLM   LLMConfig       `yaml:"chat_llm"`
	VectorDB  VectorDBConfig  `yaml:"vector_db"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DocumentsConfig locates the source documents for ingestion.
type DocumentsConfig struct {
	Dir     string `yaml:"dir"`
	Pattern string `yaml:"pattern"` // doublestar glob relative to Dir
}

// RAGConfig holds chunking, retrieval and answer shaping knobs.
type RAGConfig struct {
	ChunkSize         int    `yaml:"chunk_size"`    // characters
	ChunkOverlap      int    `yaml:"chunk_overlap"` // characters
	TopK              int    `yaml:"top_k"`
	DefaultWordBudget int    `yaml:"default_word_budget"`
	Topic             string `yaml:"topic"`
}

// LLMConfig describes one model endpoint, used for both embeddings and chat.
type LLMConfig struct {
	Provider    string  `yaml:"provider"` // "ollama" or "openai"
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Key         string  `yaml:"key"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	Normalize   bool    `yaml:"normalize"`
	BatchSize   int     `yaml:"batch_size"`
}

type VectorDBConfig struct {
	Path          string `yaml:"path"`
	Collection    string `yaml:"collection"`
	Compress      bool   `yaml:"compress"`
	ExportFile    string `yaml:"export_file"`
	EncryptionKey string `yaml:"encryption_key"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"

	MinWordBudget = 10
)

func DefaultConfig() *Config {
	return &Config{
		Documents: DocumentsConfig{
			Dir:     "./data",
			Pattern: "*.pdf",
		},
		RAG: RAGConfig{
			ChunkSize:         128,
			ChunkOverlap:      20,
			TopK:              3,
			DefaultWordBudget: 80,
			Topic:             "Python",
		},
		EmbedLLM: LLMConfig{
			Provider:  ProviderOllama,
			BaseURL:   "http://localhost:11434",
			Model:     "nomic-embed-text",
			Normalize: true,
			BatchSize: 32,
		},
		ChatLLM: LLMConfig{
			Provider:    ProviderOllama,
			BaseURL:     "http://localhost:11434",
			Model:       "phi3:3.8b",
			Temperature: 0.0,
			MaxTokens:   128,
		},
		VectorDB: VectorDBConfig{
			Path:       "./storage/chromemdb",
			Collection: "tutor_collection",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads the YAML file at path over the defaults. A missing file
// yields the defaults. Environment overrides are applied last.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvEmbeddingModel); v != "" {
		c.EmbedLLM.Model = v
	}
	if v := os.Getenv(EnvEmbeddingAPIKey); v != "" {
		c.EmbedLLM.Key = v
	}
	if v := os.Getenv(EnvLLMAPIKey); v != "" {
		c.ChatLLM.Key = v
	}
}

// Validate rejects settings the pipelines cannot run with.
func (c *Config) Validate() error {
	if c.RAG.ChunkSize <= 0 {
		return fmt.Errorf("rag.chunk_size must be positive, got %d", c.RAG.ChunkSize)
	}
	if c.RAG.ChunkOverlap < 0 || c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		return fmt.Errorf("rag.chunk_overlap must be in [0, %d), got %d", c.RAG.ChunkSize, c.RAG.ChunkOverlap)
	}
	if c.RAG.TopK <= 0 {
		return fmt.Errorf("rag.top_k must be positive, got %d", c.RAG.TopK)
	}
	if c.RAG.DefaultWordBudget < MinWordBudget {
		return fmt.Errorf("rag.default_word_budget must be at least %d, got %d", MinWordBudget, c.RAG.DefaultWordBudget)
	}
	if c.ChatLLM.Temperature < 0 {
		return fmt.Errorf("chat_llm.temperature must not be negative, got %v", c.ChatLLM.Temperature)
	}
	if c.ChatLLM.MaxTokens <= 0 {
		return fmt.Errorf("chat_llm.max_tokens must be positive, got %d", c.ChatLLM.MaxTokens)
	}
	for name, llm := range map[string]LLMConfig{"embed_llm": c.EmbedLLM, "chat_llm": c.ChatLLM} {
		if llm.Provider != ProviderOllama && llm.Provider != ProviderOpenAI {
			return fmt.Errorf("%s.provider must be %q or %q, got %q", name, ProviderOllama, ProviderOpenAI, llm.Provider)
		}
		if llm.Model == "" {
			return fmt.Errorf("%s.model is required", name)
		}
	}
	if c.VectorDB.Path == "" || c.VectorDB.Collection == "" {
		return errors.New("vector_db.path and vector_db.collection are required")
	}
	return nil
}
