package models

const (
	ContextSeparator = "\n\n---\n\n"
	ThinkTag         = `(?s)<think>.*?</think>`
	NoSnippetsMarker = "(no relevant snippets found)"
	RefusalMessage   = "I don't have enough information in the provided documents."

	// Metadata keys stored alongside each chunk in the vector index.
	MetaSourceName = "source_name"
	MetaPageIndex0 = "page_index0"
	MetaPage       = "page"
	MetaPageLabel  = "page_label"
	MetaChunkID    = "chunk_id"
)

var (
	SystemPolicyTemplate = `You are a concise %[1]s tutor. Be on-topic. ` +
		`Do NOT rely on prior knowledge or external training. ` +
		`If the question cannot be answered, respond exactly with: '` + RefusalMessage + `' ` +
		`Never discuss topics outside %[1]s or the given context. ` +
		`Do NOT repeat or restate the user's question or any text prompt. ` +
		`Cite briefly like [doc, pX] when possible, or [doc] when the page is unknown. ` +
		`No prefaces like 'AI:', 'User:'. ` +
		`Prefer clarity over brevity; if the word limit is tight, complete the thought in full sentences. ` +
		`Do not guess. ` +
		`If context is empty or irrelevant, just use the refusal message.`

	ContextPromptTemplate = "Reference material (do not quote labels):\n%s"

	QuestionPromptTemplate = "%s\n\nWrite the answer in <= %d words."

	GreetingReplyTemplate = "Hi! What %s topic should we discuss?"
)
