package models

// UnknownSource names chunks whose origin document was not recorded.
const UnknownSource = "unknown.pdf"

// Page is one physical page of a source document as produced by a loader.
type Page struct {
	SourceName string // basename, used in citations
	SourcePath string // path relative to the document root, unique per file
	PageIndex0 int  // zero-based physical page
	Page       *int // raw loader page field, if the loader provides one
	PageLabel  string
	Text       string
}

// Provenance records where a chunk came from. Optional fields are nil or
// empty when unknown.
type Provenance struct {
	SourceName string
	PageIndex0 *int
	Page       *int
	PageLabel  string
}

// Chunk represents a parsed chunk with metadata
type Chunk struct {
	ID         string
	Content    string
	ChunkID    int
	Provenance Provenance
}

// RetrievedItem is a chunk returned for one query, in rank order.
type RetrievedItem struct {
	Content    string
	Provenance Provenance
	Similarity float32
}

type PromptResponse struct {
	Query      string
	Source     string
	Content    string
	WordBudget int
	Greeting   bool
}

// IntPtr returns a pointer to a copy of v.
func IntPtr(v int) *int {
	return &v
}
