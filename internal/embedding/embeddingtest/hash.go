// Package embeddingtest provides a deterministic embedder for tests.
package embeddingtest

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"
)

// HashEmbedder maps each lower-cased word to a bucket and counts words per
// bucket. Identical texts always produce identical vectors.
type HashEmbedder struct {
	Dim int
	Err error

	mu    sync.Mutex
	Calls int
}

func (h *HashEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := h.EmbedQuery(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (h *HashEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	h.mu.Lock()
	h.Calls++
	h.mu.Unlock()
	if h.Err != nil {
		return nil, h.Err
	}

	dim := h.Dim
	if dim <= 0 {
		dim = 64
	}
	v := make([]float32, dim)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		f := fnv.New32a()
		_, _ = f.Write([]byte(word))
		v[f.Sum32()%uint32(dim)]++
	}
	return v, nil
}
