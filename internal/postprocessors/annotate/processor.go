// Package annotate provides a processor that stamps page metadata onto chunks.
package annotate

import (
	"context"

	"github.com/custodia-labs/pagechat/internal/core/domain"
)

// Name is the registry name of the annotator.
const Name = "annotate"

// Chunk metadata keys written by the annotator.
const (
	KeyTitle     = "title"
	KeySourceURL = "source_url"
	KeyTotal     = "chunk_total"
)

// Processor copies the document title and source onto every chunk so the
// answer context can cite pages without looking documents up again.
type Processor struct{}

// New creates an annotator.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// Process annotates the chunks produced by earlier processors in place.
func (p *Processor) Process(_ context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	for i := range chunks {
		if chunks[i].Metadata == nil {
			chunks[i].Metadata = make(map[string]any)
		}
		if doc.Title != "" {
			chunks[i].Metadata[KeyTitle] = doc.Title
		}
		if chunks[i].SourceURL == "" {
			chunks[i].SourceURL = doc.URI
		}
		chunks[i].Metadata[KeySourceURL] = chunks[i].SourceURL
		chunks[i].Metadata[KeyTotal] = len(chunks)
	}
	return chunks, nil
}
