package chromemdb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
)

// ErrIndexNotFound is returned when the collection has not been built yet.
var ErrIndexNotFound = errors.New("vector index not found")

// VectorDBManager encapsulates the chromem-go database operations
type VectorDBManager struct {
	db             *chromem.DB
	collection     *chromem.Collection
	dbPath         string
	collectionName string
	compress       bool
	encryptionKey  string
}

// NewVectorDBManager opens (or creates, including parents) the persistent
// database directory at dbPath.
func NewVectorDBManager(dbPath, collectionName string, compress bool, encryptionKey string) (*VectorDBManager, error) {
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database folder: %w", err)
	}

	db, err := chromem.NewPersistentDB(dbPath, compress)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	return &VectorDBManager{
		db:             db,
		dbPath:         dbPath,
		collectionName: collectionName,
		compress:       compress,
		encryptionKey:  encryptionKey,
	}, nil
}

// ResetCollection drops any existing collection and creates an empty one.
func (m *VectorDBManager) ResetCollection(ef chromem.EmbeddingFunc) error {
	if err := m.db.DeleteCollection(m.collectionName); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	c, err := m.db.CreateCollection(m.collectionName, nil, ef)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	m.collection = c
	return nil
}

// OpenCollection loads an existing collection for querying.
func (m *VectorDBManager) OpenCollection(ef chromem.EmbeddingFunc) error {
	c := m.db.GetCollection(m.collectionName, ef)
	if c == nil {
		return fmt.Errorf("%w: collection %q in %s", ErrIndexNotFound, m.collectionName, m.dbPath)
	}
	m.collection = c
	return nil
}

// CreateDocs adds documents that already carry their embeddings.
func (m *VectorDBManager) CreateDocs(ctx context.Context, documents []chromem.Document) error {
	if m.collection == nil {
		return errors.New("collection is not open")
	}
	if err := m.collection.AddDocuments(ctx, documents, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	return nil
}

func (m *VectorDBManager) Count() int {
	if m.collection == nil {
		return 0
	}
	return m.collection.Count()
}

// QueryEmbedding returns up to n nearest documents, most similar first. An
// empty collection yields no results.
func (m *VectorDBManager) QueryEmbedding(ctx context.Context, embedding []float32, n int) ([]chromem.Result, error) {
	if m.collection == nil {
		return nil, errors.New("collection is not open")
	}
	if len(embedding) == 0 {
		return nil, errors.New("query embedding must be provided")
	}

	n = min(n, m.collection.Count())
	if n <= 0 {
		return nil, nil
	}

	results, err := m.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: embedding,
		NResults:       n,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}
	return results, nil
}

// Export writes the collection to a single file, encrypted when a key is set.
func (m *VectorDBManager) Export(filePath string) error {
	if m.collection == nil {
		return errors.New("collection is required")
	}
	if filePath == "" {
		return errors.New("export file path is required")
	}

	log.Debug().
		Str("collection", m.collection.Name).
		Str("file", filePath).
		Bool("compress", m.compress).
		Bool("encrypted", m.encryptionKey != "").
		Msg("Exporting collection")

	if err := m.db.ExportToFile(filePath, m.compress, m.encryptionKey, m.collection.Name); err != nil {
		return fmt.Errorf("failed to export database: %w", err)
	}
	return nil
}
