package llmservice

import (
	"fmt"
	"strings"

	"document-tutor/internal/config"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// NewChatModel creates the chat model for the configured provider.
func NewChatModel(llmConfig *config.LLMConfig) (llms.Model, error) {
	log.Debug().
		Str("provider", llmConfig.Provider).
		Str("base_url", llmConfig.BaseURL).
		Str("model", llmConfig.Model).
		Msg("Creating chat model")

	switch llmConfig.Provider {
	case config.ProviderOllama:
		llm, err := ollama.New(
			ollama.WithServerURL(llmConfig.BaseURL),
			ollama.WithModel(llmConfig.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("init ollama chat model: %w", err)
		}
		return llm, nil
	case config.ProviderOpenAI:
		opts := []openai.Option{
			openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
			openai.WithModel(llmConfig.Model),
		}
		if llmConfig.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(llmConfig.BaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("init openai chat model: %w", err)
		}
		return llm, nil
	default:
		return nil, fmt.Errorf("unsupported chat provider: %s", llmConfig.Provider)
	}
}
