package rag

import (
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"document-tutor/internal/models"
)

// Prompt is the message sequence sent to the chat model for one turn.
type Prompt struct {
	Policy     string
	Context    string
	Question   string
	WordBudget int
	Messages   []llms.MessageContent
}

// BuildPrompt fills the system policy, the reference context and the user
// turn. An empty context is replaced by the no-snippets marker.
func BuildPrompt(topic, context, question string, wordBudget int) Prompt {
	if context == "" {
		context = models.NoSnippetsMarker
	}
	policy := fmt.Sprintf(models.SystemPolicyTemplate, topic)

	return Prompt{
		Policy:     policy,
		Context:    context,
		Question:   question,
		WordBudget: wordBudget,
		Messages: []llms.MessageContent{
			llms.TextParts(schema.ChatMessageTypeSystem, policy),
			llms.TextParts(schema.ChatMessageTypeSystem, fmt.Sprintf(models.ContextPromptTemplate, context)),
			llms.TextParts(schema.ChatMessageTypeHuman, fmt.Sprintf(models.QuestionPromptTemplate, question, wordBudget)),
		},
	}
}
