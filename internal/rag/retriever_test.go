package rag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"document-tutor/internal/chromemdb"
	"document-tutor/internal/embedding/embeddingtest"
	"document-tutor/internal/indexer"
	"document-tutor/internal/models"
	"document-tutor/internal/parser"
)

func TestVectorRetriever_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	embedder := &embeddingtest.HashEmbedder{Dim: 128}

	pages := []models.Page{
		{SourceName: "dsa.pdf", PageIndex0: 0, Text: "A list is a mutable ordered sequence of elements."},
		{SourceName: "dsa.pdf", PageIndex0: 1, Text: "A tuple is an immutable sequence that cannot change."},
		{SourceName: "dsa.pdf", PageIndex0: 2, Text: "Dictionaries map hashable keys onto arbitrary values."},
		{SourceName: "algo.pdf", PageIndex0: 0, Text: "Binary search halves the interval on every step."},
	}
	splitter, err := parser.NewSplitter(128, 20)
	require.NoError(t, err)
	chunks, err := splitter.Split(pages)
	require.NoError(t, err)
	require.Len(t, chunks, 4)

	db, err := chromemdb.NewVectorDBManager(dir, "tutor", false, "")
	require.NoError(t, err)
	require.NoError(t, indexer.NewBuilder(db, embedder).Build(ctx, chunks))

	queryDB, err := chromemdb.NewVectorDBManager(dir, "tutor", false, "")
	require.NoError(t, err)
	require.NoError(t, queryDB.OpenCollection(nil))
	r := NewVectorRetriever(queryDB, embedder, 3)

	for _, want := range chunks {
		items, err := r.Retrieve(ctx, want.Content)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, want.Content, items[0].Content)
		assert.Equal(t, want.Provenance, items[0].Provenance)
	}
}

func TestVectorRetriever_KLargerThanIndex(t *testing.T) {
	ctx := context.Background()
	embedder := &embeddingtest.HashEmbedder{}
	db, err := chromemdb.NewVectorDBManager(t.TempDir(), "tutor", false, "")
	require.NoError(t, err)
	require.NoError(t, indexer.NewBuilder(db, embedder).Build(ctx, nil))

	items, err := NewVectorRetriever(db, embedder, 3).Retrieve(ctx, "anything")
	require.NoError(t, err)
	assert.Empty(t, items)
}
