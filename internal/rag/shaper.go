package rag

import (
	"regexp"
	"strings"

	"document-tutor/internal/models"
)

// sentenceSlack is how many words past the budget a sentence may run to finish.
const sentenceSlack = 15

var thinkRe = regexp.MustCompile(models.ThinkTag)

// StripThinking removes <think> blocks some local models emit.
func StripThinking(text string) string {
	return strings.TrimSpace(thinkRe.ReplaceAllString(text, ""))
}

// ShapeAnswer trims text to about budget words, cutting after the last
// sentence terminator within budget+sentenceSlack words. Without a terminator
// in that window the text is cut at exactly budget words.
func ShapeAnswer(text string, budget int) string {
	words := strings.Fields(text)
	if len(words) <= budget {
		return strings.TrimSpace(text)
	}

	window := strings.Join(words[:min(len(words), budget+sentenceSlack)], " ") + " "
	cut := -1
	for _, term := range []string{". ", "! ", "? "} {
		cut = max(cut, strings.LastIndex(window, term))
	}
	if cut != -1 {
		return strings.TrimSpace(window[:cut+1])
	}
	return strings.Join(words[:budget], " ")
}
