package indexer

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"document-tutor/internal/chromemdb"
	"document-tutor/internal/embedding"
	"document-tutor/internal/models"
)

// ErrDuplicateChunkID is returned when two chunks share an ID; the vector
// store would otherwise keep only one of them.
var ErrDuplicateChunkID = errors.New("duplicate chunk id")

// Progress receives the number of chunks embedded so far.
// *progressbar.ProgressBar satisfies it.
type Progress interface {
	Add(n int) error
}

// Builder embeds chunks and writes them into a freshly reset collection.
type Builder struct {
	db         *chromemdb.VectorDBManager
	embedder   embeddings.Embedder
	batchSize  int
	exportFile string
	progress   Progress
}

// Option configures a Builder.
type Option func(*Builder)

// WithBatchSize sets how many chunks are embedded per call.
func WithBatchSize(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.batchSize = n
		}
	}
}

// WithExportFile also writes the collection to a single file after the build.
func WithExportFile(path string) Option {
	return func(b *Builder) { b.exportFile = path }
}

// WithProgress reports embedding progress to p.
func WithProgress(p Progress) Option {
	return func(b *Builder) { b.progress = p }
}

// NewBuilder writes into db using embedder; the batch size defaults to 32.
func NewBuilder(db *chromemdb.VectorDBManager, embedder embeddings.Embedder, opts ...Option) *Builder {
	b := &Builder{
		db:        db,
		embedder:  embedder,
		batchSize: 32,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build replaces the whole index with chunks. All embeddings are computed
// before the collection is touched, so an embedding failure leaves the
// previous index in place.
func (b *Builder) Build(ctx context.Context, chunks []models.Chunk) error {
	seen := make(map[string]bool, len(chunks))
	for _, c := range chunks {
		if seen[c.ID] {
			return fmt.Errorf("%w: %q (%s page %s)", ErrDuplicateChunkID, c.ID, c.Provenance.SourceName, pageOf(c.Provenance))
		}
		seen[c.ID] = true
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for start := 0; start < len(chunks); start += b.batchSize {
		end := min(start+b.batchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}
		vectors, err := b.embedder.EmbedDocuments(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed chunks %d-%d: %w", start, end-1, err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embed chunks %d-%d: got %d vectors for %d texts", start, end-1, len(vectors), len(batch))
		}

		for i, c := range batch {
			docs = append(docs, chromem.Document{
				ID:        c.ID,
				Content:   c.Content,
				Metadata:  chromemdb.EncodeMetadata(c),
				Embedding: vectors[i],
			})
		}
		if b.progress != nil {
			_ = b.progress.Add(len(batch))
		}
	}

	if err := b.db.ResetCollection(embedding.EmbeddingFunc(b.embedder)); err != nil {
		return err
	}

	log.Info().Msgf("Adding %d documents to vector database", len(docs))
	if len(docs) > 0 {
		if err := b.db.CreateDocs(ctx, docs); err != nil {
			return err
		}
	}

	if b.exportFile != "" {
		if err := b.db.Export(b.exportFile); err != nil {
			return err
		}
		log.Info().Str("file", b.exportFile).Msg("Exported collection")
	}
	return nil
}

func pageOf(p models.Provenance) string {
	if p.PageIndex0 == nil {
		return "?"
	}
	return strconv.Itoa(*p.PageIndex0)
}
