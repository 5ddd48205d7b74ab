package domain

import "time"

// Document represents the extracted text of one fetched page.
// It is the canonical representation after normalisation.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// URI is the source URL of the page.
	URI string

	// Title is the human-readable title.
	Title string

	// Content is the full text content after normalisation.
	// This is the complete document text before chunking.
	Content string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// FetchedAt is when the page was downloaded.
	FetchedAt time.Time
}

// Chunk represents a retrievable unit within a document.
// Documents are split into overlapping chunks for granular retrieval.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// SourceURL is the URL of the parent Document.
	SourceURL string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Offset is the character (rune) offset of Content within the document.
	Offset int

	// Embedding is the vector representation for semantic retrieval.
	Embedding []float32

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// Length returns the length of the chunk content in characters.
func (c Chunk) Length() int {
	return len([]rune(c.Content))
}

// End returns the character offset one past the last character of the chunk.
func (c Chunk) End() int {
	return c.Offset + c.Length()
}

// IsIndexed returns true if the chunk carries an embedding.
func (c Chunk) IsIndexed() bool {
	return len(c.Embedding) > 0
}
