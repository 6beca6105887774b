package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"

	"document-tutor/internal/models"
)

// Generator is the part of a langchaingo model the tutor calls.
type Generator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// Options are the per-turn answer settings taken from config.
type Options struct {
	Topic             string
	DefaultWordBudget int
	Temperature       float64
	MaxTokens         int
}

// RAG answers one question per call. It holds no per-turn state and may be
// reused across turns.
type RAG struct {
	retriever Retriever
	llm       Generator
	opts      Options
}

// NewRAG wires a retriever and a chat model into a tutor.
func NewRAG(retriever Retriever, llm Generator, opts Options) *RAG {
	return &RAG{retriever: retriever, llm: llm, opts: opts}
}

// Greeting is the canned reply to a bare greeting.
func (r *RAG) Greeting() string {
	return fmt.Sprintf(models.GreetingReplyTemplate, r.opts.Topic)
}

// Query answers one user turn. Greetings skip retrieval and the model.
func (r *RAG) Query(ctx context.Context, query string) (*models.PromptResponse, error) {
	if IsGreeting(query) {
		return &models.PromptResponse{Query: query, Content: r.Greeting(), Greeting: true}, nil
	}

	budget := ParseWordLimit(query, r.opts.DefaultWordBudget)

	items, err := r.retriever.Retrieve(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	log.Debug().Int("retrieved", len(items)).Int("word_budget", budget).Msg("Retrieved context")

	prompt := BuildPrompt(r.opts.Topic, FormatContext(items), query, budget)

	res, err := r.llm.GenerateContent(ctx, prompt.Messages,
		llms.WithTemperature(r.opts.Temperature),
		llms.WithMaxTokens(r.opts.MaxTokens),
	)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	if len(res.Choices) == 0 {
		return nil, fmt.Errorf("generate: model returned no choices")
	}

	return &models.PromptResponse{
		Query:      query,
		Source:     strings.Join(Sources(items), " "),
		Content:    ShapeAnswer(StripThinking(res.Choices[0].Content), budget),
		WordBudget: budget,
	}, nil
}
