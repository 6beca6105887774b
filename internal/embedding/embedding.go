package embedding

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"document-tutor/internal/config"
)

// NewEmbedder builds an embedder for the configured provider. Vectors are
// scaled to unit length when cfg.Normalize is set.
func NewEmbedder(cfg *config.LLMConfig) (embeddings.Embedder, error) {
	log.Debug().Interface("config", map[string]any{
		"provider":  cfg.Provider,
		"base_url":  cfg.BaseURL,
		"model":     cfg.Model,
		"normalize": cfg.Normalize,
	}).Msg("Creating embedder")

	var client embeddings.EmbedderClient
	switch cfg.Provider {
	case config.ProviderOllama:
		llm, err := ollama.New(
			ollama.WithServerURL(cfg.BaseURL),
			ollama.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("init ollama embedding client: %w", err)
		}
		client = llm
	case config.ProviderOpenAI:
		opts := []openai.Option{
			openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
			openai.WithEmbeddingModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("init openai embedding client: %w", err)
		}
		client = llm
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}

	var opts []embeddings.Option
	if cfg.BatchSize > 0 {
		opts = append(opts, embeddings.WithBatchSize(cfg.BatchSize))
	}
	embedder, err := embeddings.NewEmbedder(client, opts...)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	if cfg.Normalize {
		return Normalized(embedder), nil
	}
	return embedder, nil
}

type normalizedEmbedder struct {
	next embeddings.Embedder
}

// Normalized wraps e so that every vector it returns has unit length.
func Normalized(e embeddings.Embedder) embeddings.Embedder {
	return normalizedEmbedder{next: e}
}

func (n normalizedEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := n.next.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, err
	}
	for i := range vectors {
		vectors[i] = Normalize(vectors[i])
	}
	return vectors, nil
}

func (n normalizedEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vector, err := n.next.EmbedQuery(ctx, text)
	if err != nil {
		return nil, err
	}
	return Normalize(vector), nil
}

// Normalize returns v scaled to unit length. A zero vector is returned as is.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

// EmbeddingFunc adapts an embedder to chromem-go.
func EmbeddingFunc(e embeddings.Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return e.EmbedQuery(ctx, text)
	}
}
