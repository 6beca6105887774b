package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"document-tutor/internal/chromemdb"
	"document-tutor/internal/embedding"
	"document-tutor/internal/helper"
	"document-tutor/internal/indexer"
	"document-tutor/internal/parser"
)

var (
	dryRun  bool
	docsDir string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Rebuild the vector index from the document directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if docsDir != "" {
			cfg.Documents.Dir = docsDir
		}

		log.Info().Str("dir", cfg.Documents.Dir).Str("pattern", cfg.Documents.Pattern).Msg("Loading documents")
		pages, err := parser.LoadDirectory(parser.PDFLoader{}, cfg.Documents.Dir, cfg.Documents.Pattern)
		if err != nil {
			return err
		}

		splitter, err := parser.NewSplitter(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
		if err != nil {
			return err
		}
		chunks, err := splitter.Split(pages)
		if err != nil {
			return err
		}
		log.Info().Int("pages", len(pages)).Int("chunks", len(chunks)).Msg("Split documents")

		if dryRun {
			helper.PrettyPrint(cmd.OutOrStdout(), chunks)
			return nil
		}

		embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
		if err != nil {
			return err
		}
		log.Info().Str("model", cfg.EmbedLLM.Model).Msg("Using embeddings")

		db, err := chromemdb.NewVectorDBManager(cfg.VectorDB.Path, cfg.VectorDB.Collection, cfg.VectorDB.Compress, cfg.VectorDB.EncryptionKey)
		if err != nil {
			return err
		}

		bar := progressbar.NewOptions(len(chunks),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Embedding chunks"),
			progressbar.OptionShowCount(),
		)
		builder := indexer.NewBuilder(db, embedder,
			indexer.WithBatchSize(cfg.EmbedLLM.BatchSize),
			indexer.WithExportFile(cfg.VectorDB.ExportFile),
			indexer.WithProgress(bar),
		)
		if err := builder.Build(ctx, chunks); err != nil {
			return fmt.Errorf("build index: %w", err)
		}
		_ = bar.Finish()

		log.Info().Str("path", cfg.VectorDB.Path).Int("documents", db.Count()).Msg("Saved index")
		return nil
	},
}

func init() {
	ingestCmd.Flags().BoolVar(&dryRun, "dry-run", false, "split and print chunks without embedding or saving")
	ingestCmd.Flags().StringVar(&docsDir, "docs", "", "document directory (overrides documents.dir)")
}
