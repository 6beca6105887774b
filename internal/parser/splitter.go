package parser

import (
	"fmt"
	"strings"

	"document-tutor/internal/models"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"
)

// Separators are tried in order; the empty string is a hard character cut.
var Separators = []string{"\n\n", "\n", " ", ""}

// Splitter cuts pages into overlapping chunks no longer than the chunk size
// (in runes) and copies each page's provenance onto its chunks.
type Splitter struct {
	splitter  textsplitter.RecursiveCharacter
	chunkSize int
}

func NewSplitter(chunkSize, chunkOverlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", chunkSize, chunkOverlap)
	}

	return &Splitter{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators(Separators),
		),
		chunkSize: chunkSize,
	}, nil
}

// Split returns the chunks of every page in input order. Pages without text
// produce no chunks.
func (s *Splitter) Split(pages []models.Page) ([]models.Chunk, error) {
	var chunks []models.Chunk
	for _, page := range pages {
		pageChunks, err := s.splitPage(page)
		if err != nil {
			return nil, fmt.Errorf("split %s page %d: %w", page.SourceName, page.PageIndex0, err)
		}
		chunks = append(chunks, pageChunks...)
	}
	return chunks, nil
}

func (s *Splitter) splitPage(page models.Page) ([]models.Chunk, error) {
	if strings.TrimSpace(page.Text) == "" {
		return nil, nil
	}

	texts, err := s.splitter.SplitText(page.Text)
	if err != nil {
		return nil, err
	}

	var pieces []string
	for _, text := range texts {
		pieces = append(pieces, s.fit(text)...)
	}

	var chunks []models.Chunk
	for _, text := range pieces {
		chunkID := len(chunks) + 1
		prov := PageProvenance(page)
		chunks = append(chunks, models.Chunk{
			ID:         chunkKey(page, chunkID),
			Content:    text,
			ChunkID:    chunkID,
			Provenance: prov,
		})
	}
	return chunks, nil
}

// fit cuts text into pieces of at most chunkSize runes. The merge step of the
// recursive splitter can overshoot by a separator when a page mixes paragraph,
// line and space breaks; such pieces are cut at the coarsest separator inside
// the limit, or hard-cut when there is none.
func (s *Splitter) fit(text string) []string {
	var out []string
	for {
		text = strings.TrimSpace(text)
		runes := []rune(text)
		if len(runes) <= s.chunkSize {
			if text != "" {
				out = append(out, text)
			}
			return out
		}

		head := string(runes[:s.chunkSize])
		cut := len(head)
		for _, sep := range Separators {
			if sep == "" {
				break
			}
			if i := strings.LastIndex(head, sep); i > 0 {
				cut = i
				break
			}
		}
		if piece := strings.TrimSpace(head[:cut]); piece != "" {
			out = append(out, piece)
		}
		text = text[cut:]
	}
}

// PageProvenance copies a page's metadata into a fresh record. The raw page
// field falls back to the physical index when the loader did not set one.
func PageProvenance(page models.Page) models.Provenance {
	source := page.SourceName
	if source == "" {
		source = models.UnknownSource
	}
	rawPage := page.PageIndex0
	if page.Page != nil {
		rawPage = *page.Page
	}
	return models.Provenance{
		SourceName: source,
		PageIndex0: models.IntPtr(page.PageIndex0),
		Page:       models.IntPtr(rawPage),
		PageLabel:  page.PageLabel,
	}
}

// chunkKey identifies a chunk by document path, page and position. Two files
// with the same basename in different folders get different keys.
func chunkKey(page models.Page, chunkID int) string {
	source := page.SourcePath
	if source == "" {
		source = page.SourceName
	}
	if source == "" {
		source = models.UnknownSource
	}
	name := fmt.Sprintf("%s#%d#%d", source, page.PageIndex0, chunkID)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
