package rag

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"

	"document-tutor/internal/chromemdb"
	"document-tutor/internal/models"
)

// Retriever returns the chunks most relevant to a question.
type Retriever interface {
	Retrieve(ctx context.Context, question string) ([]models.RetrievedItem, error)
}

// VectorRetriever embeds the question and searches the persisted index.
type VectorRetriever struct {
	db       *chromemdb.VectorDBManager
	embedder embeddings.Embedder
	k        int
}

// NewVectorRetriever searches db for the k chunks nearest to each question.
func NewVectorRetriever(db *chromemdb.VectorDBManager, embedder embeddings.Embedder, k int) *VectorRetriever {
	return &VectorRetriever{db: db, embedder: embedder, k: k}
}

func (r *VectorRetriever) Retrieve(ctx context.Context, question string) ([]models.RetrievedItem, error) {
	queryEmbedding, err := r.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	results, err := r.db.QueryEmbedding(ctx, queryEmbedding, r.k)
	if err != nil {
		return nil, err
	}

	items := make([]models.RetrievedItem, 0, len(results))
	for _, res := range results {
		items = append(items, models.RetrievedItem{
			Content:    res.Content,
			Provenance: chromemdb.DecodeProvenance(res.Metadata),
			Similarity: res.Similarity,
		})
	}
	return items, nil
}
