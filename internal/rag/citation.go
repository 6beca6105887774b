package rag

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"document-tutor/internal/models"
)

// UnknownPage is shown when no page number can be resolved.
const UnknownPage = "?"

// DisplayPage picks the page shown to the reader: the page label, then the
// zero-based index plus one, then the raw page field plus one.
func DisplayPage(p models.Provenance) string {
	if p.PageLabel != "" {
		return p.PageLabel
	}
	if p.PageIndex0 != nil {
		return strconv.Itoa(*p.PageIndex0 + 1)
	}
	if p.Page != nil {
		return strconv.Itoa(*p.Page + 1)
	}
	return UnknownPage
}

// Cite renders "[source, pN]", or "[source]" when the page is unknown.
func Cite(p models.Provenance) string {
	source := models.UnknownSource
	if p.SourceName != "" {
		source = filepath.Base(p.SourceName)
	}
	if page := DisplayPage(p); page != UnknownPage {
		return fmt.Sprintf("[%s, p%s]", source, page)
	}
	return fmt.Sprintf("[%s]", source)
}

// FormatContext joins retrieved items and their citations in rank order.
func FormatContext(items []models.RetrievedItem) string {
	blocks := make([]string, 0, len(items))
	for _, item := range items {
		blocks = append(blocks, item.Content+"\n"+Cite(item.Provenance))
	}
	return strings.Join(blocks, models.ContextSeparator)
}

// Sources lists the distinct citations of items, in rank order.
func Sources(items []models.RetrievedItem) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		c := Cite(item.Provenance)
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
