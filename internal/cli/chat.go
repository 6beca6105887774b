package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"document-tutor/internal/chromemdb"
	"document-tutor/internal/embedding"
	"document-tutor/internal/llmservice"
	"document-tutor/internal/models"
	"document-tutor/internal/rag"
)

const speakerLabel = "Tutor> "

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions about the indexed documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
		if err != nil {
			return err
		}

		db, err := chromemdb.NewVectorDBManager(cfg.VectorDB.Path, cfg.VectorDB.Collection, cfg.VectorDB.Compress, cfg.VectorDB.EncryptionKey)
		if err != nil {
			return err
		}
		if err := db.OpenCollection(embedding.EmbeddingFunc(embedder)); err != nil {
			return fmt.Errorf("%w (run `tutor ingest` first)", err)
		}
		log.Debug().Int("documents", db.Count()).Msg("Opened index")

		llm, err := llmservice.NewChatModel(&cfg.ChatLLM)
		if err != nil {
			return err
		}

		tutor := rag.NewRAG(rag.NewVectorRetriever(db, embedder, cfg.RAG.TopK), llm, rag.Options{
			Topic:             cfg.RAG.Topic,
			DefaultWordBudget: cfg.RAG.DefaultWordBudget,
			Temperature:       cfg.ChatLLM.Temperature,
			MaxTokens:         cfg.ChatLLM.MaxTokens,
		})
		return runConversation(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), tutor, cfg.RAG.Topic)
	},
}

type answerer interface {
	Query(ctx context.Context, query string) (*models.PromptResponse, error)
}

// runConversation reads one question per line until exit, quit or EOF. A
// failed turn is logged and the loop moves on to the next question.
func runConversation(ctx context.Context, in io.Reader, out io.Writer, tutor answerer, topic string) error {
	fmt.Fprintln(out, strings.Repeat("=", 54))
	fmt.Fprintf(out, "Hello! I am a %s tutor, how can I help you today?\n", topic)
	fmt.Fprintln(out, `Ask a question (or "exit")`)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "You> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		q := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(q) {
		case "exit", "quit":
			return nil
		case "":
			continue
		}

		res, err := tutor.Query(ctx, q)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error().Err(err).Str("question", q).Msg("Error querying")
			continue
		}
		if res.Source != "" {
			log.Debug().Str("source", res.Source).Int("word_budget", res.WordBudget).Msg("Answered")
		}
		fmt.Fprintf(out, "%s%s\n\n", speakerLabel, res.Content)
	}
}
