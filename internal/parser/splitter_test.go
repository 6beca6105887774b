package parser

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"document-tutor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%03d", i)
	}
	return strings.Join(words, " ")
}

// reconstructWords stitches chunk word lists back together, dropping the
// longest prefix of each chunk that repeats the tail of what came before.
func reconstructWords(chunks []models.Chunk) []string {
	var out []string
	for _, c := range chunks {
		words := strings.Fields(c.Content)
		overlap := 0
		for k := min(len(words), len(out)); k > 0; k-- {
			if strings.Join(out[len(out)-k:], " ") == strings.Join(words[:k], " ") {
				overlap = k
				break
			}
		}
		out = append(out, words[overlap:]...)
	}
	return out
}

func TestNewSplitter_InvalidSizes(t *testing.T) {
	_, err := NewSplitter(0, 0)
	assert.Error(t, err)
	_, err = NewSplitter(20, 20)
	assert.Error(t, err)
	_, err = NewSplitter(20, -1)
	assert.Error(t, err)
}

func TestSplit_SizeAndReconstruction(t *testing.T) {
	s, err := NewSplitter(40, 10)
	require.NoError(t, err)

	text := numberedWords(60)
	chunks, err := s.Split([]models.Page{{SourceName: "book.pdf", PageIndex0: 4, Text: text}})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c.Content), 40, "chunk %d too long", i)
		assert.Contains(t, text, c.Content)
		assert.Equal(t, i+1, c.ChunkID)
	}
	assert.Equal(t, strings.Fields(text), reconstructWords(chunks))
}

func TestSplit_AdjacentChunksOverlap(t *testing.T) {
	s, err := NewSplitter(40, 10)
	require.NoError(t, err)

	chunks, err := s.Split([]models.Page{{SourceName: "book.pdf", Text: numberedWords(30)}})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev := strings.Fields(chunks[i-1].Content)
		next := strings.Fields(chunks[i].Content)
		assert.Contains(t, prev, next[0], "chunks %d and %d should share a word", i-1, i)
	}
}

func TestSplit_PrefersParagraphBreaks(t *testing.T) {
	s, err := NewSplitter(40, 10)
	require.NoError(t, err)

	p1 := "lists are ordered mutable sequences"
	p2 := "tuples are ordered immutable ones"
	chunks, err := s.Split([]models.Page{{SourceName: "book.pdf", Text: p1 + "\n\n" + p2}})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, p1, chunks[0].Content)
	assert.Equal(t, p2, chunks[1].Content)
}

func TestSplit_HardCutForLongToken(t *testing.T) {
	s, err := NewSplitter(16, 4)
	require.NoError(t, err)

	token := strings.Repeat("x", 100)
	chunks, err := s.Split([]models.Page{{SourceName: "book.pdf", Text: token}})
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c.Content), 16)
	}
}

func TestSplit_Provenance(t *testing.T) {
	s, err := NewSplitter(40, 10)
	require.NoError(t, err)

	pages := []models.Page{
		{SourceName: "book.pdf", PageIndex0: 2, Text: numberedWords(20)},
		{SourceName: "book.pdf", PageIndex0: 3, Page: models.IntPtr(7), PageLabel: "iv", Text: numberedWords(20)},
		{PageIndex0: 0, Text: "orphan page text"},
	}
	chunks, err := s.Split(pages)
	require.NoError(t, err)

	seen := map[int]bool{}
	for _, c := range chunks {
		require.NotNil(t, c.Provenance.PageIndex0)
		require.NotNil(t, c.Provenance.Page)
		idx := *c.Provenance.PageIndex0
		seen[idx] = true

		switch idx {
		case 2:
			assert.Equal(t, "book.pdf", c.Provenance.SourceName)
			assert.Equal(t, 2, *c.Provenance.Page)
			assert.Empty(t, c.Provenance.PageLabel)
		case 3:
			assert.Equal(t, "book.pdf", c.Provenance.SourceName)
			assert.Equal(t, 7, *c.Provenance.Page)
			assert.Equal(t, "iv", c.Provenance.PageLabel)
		case 0:
			assert.Equal(t, models.UnknownSource, c.Provenance.SourceName)
			assert.Equal(t, 0, *c.Provenance.Page)
		}
	}
	assert.Equal(t, map[int]bool{0: true, 2: true, 3: true}, seen)
}

func TestSplit_ChunksDoNotSharePageState(t *testing.T) {
	s, err := NewSplitter(40, 10)
	require.NoError(t, err)

	raw := 5
	page := models.Page{SourceName: "book.pdf", PageIndex0: 1, Page: &raw, Text: numberedWords(20)}
	chunks, err := s.Split([]models.Page{page})
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	raw = 99
	*chunks[0].Provenance.PageIndex0 = 42
	assert.Equal(t, 5, *chunks[0].Provenance.Page)
	if len(chunks) > 1 {
		assert.Equal(t, 1, *chunks[1].Provenance.PageIndex0)
	}
}

func TestSplit_EmptyPage(t *testing.T) {
	s, err := NewSplitter(40, 10)
	require.NoError(t, err)

	chunks, err := s.Split([]models.Page{{SourceName: "book.pdf", Text: ""}, {SourceName: "book.pdf", Text: " \n\n "}})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSplit_DeterministicIDs(t *testing.T) {
	s, err := NewSplitter(40, 10)
	require.NoError(t, err)

	pages := []models.Page{{SourceName: "book.pdf", PageIndex0: 1, Text: numberedWords(30)}}
	first, err := s.Split(pages)
	require.NoError(t, err)
	second, err := s.Split(pages)
	require.NoError(t, err)

	ids := map[string]bool{}
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		ids[first[i].ID] = true
	}
	assert.Len(t, ids, len(first))
}

func randomPage(rng *rand.Rand, words int) string {
	separators := []string{" ", "\n", "\n\n", "  "}
	var b strings.Builder
	for i := 0; i < words; i++ {
		if i > 0 {
			b.WriteString(separators[rng.Intn(len(separators))])
		}
		b.WriteString(strings.Repeat(string(rune('a'+rng.Intn(26))), 1+rng.Intn(12)))
	}
	return b.String()
}

func TestSplit_MixedSeparatorsStayWithinSize(t *testing.T) {
	s, err := NewSplitter(128, 20)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	for p := 0; p < 300; p++ {
		text := randomPage(rng, 200)
		flat := strings.Join(strings.Fields(text), " ")
		chunks, err := s.Split([]models.Page{{SourceName: "mixed.pdf", PageIndex0: p, Text: text}})
		require.NoError(t, err)
		require.NotEmpty(t, chunks)

		for _, c := range chunks {
			assert.LessOrEqual(t, utf8.RuneCountInString(c.Content), 128, "page %d: %q", p, c.Content)
			assert.Contains(t, flat, strings.Join(strings.Fields(c.Content), " "))
		}
	}
}

func TestFit(t *testing.T) {
	s, err := NewSplitter(20, 4)
	require.NoError(t, err)

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"fits", "short text", []string{"short text"}},
		{"paragraph first", "aaaa\n\nbbbb cccc dddd eeee", []string{"aaaa", "bbbb cccc dddd eeee"}},
		{"line before space", "aaaa bbbb\ncccc dddd eeee", []string{"aaaa bbbb", "cccc dddd eeee"}},
		{"space", "aaaa bbbb cccc dddd eeee", []string{"aaaa bbbb cccc dddd", "eeee"}},
		{"hard cut", strings.Repeat("x", 45), []string{strings.Repeat("x", 20), strings.Repeat("x", 20), strings.Repeat("x", 5)}},
		{"runes not bytes", strings.Repeat("é", 25), []string{strings.Repeat("é", 20), strings.Repeat("é", 5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.fit(tt.in))
		})
	}
}

func TestSplit_SameBasenameDifferentFolders(t *testing.T) {
	s, err := NewSplitter(40, 10)
	require.NoError(t, err)

	chunks, err := s.Split([]models.Page{
		{SourceName: "notes.pdf", SourcePath: "a/notes.pdf", PageIndex0: 0, Text: "stacks are last in first out"},
		{SourceName: "notes.pdf", SourcePath: "b/notes.pdf", PageIndex0: 0, Text: "queues are first in first out"},
	})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.NotEqual(t, chunks[0].ID, chunks[1].ID)
	assert.Equal(t, "notes.pdf", chunks[0].Provenance.SourceName)
	assert.Equal(t, "notes.pdf", chunks[1].Provenance.SourceName)
}
