// Package chunker provides a sliding window text chunking processor.
package chunker

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	"github.com/custodia-labs/pagechat/internal/core/domain"
)

// Name is the registry name of the chunker.
const Name = "chunker"

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// chunkNamespace scopes chunk IDs so they never collide with document IDs.
var chunkNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("pagechat:chunk"))

// Processor splits document content into fixed-size overlapping windows.
// Sizes are measured in characters (runes), not bytes.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't reach chunk size, or the window never advances
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// ChunkSize returns the window length in characters.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the number of characters shared by consecutive chunks.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
//
// Each window starts chunkSize-overlap characters after the previous one.
// The window that reaches the end of the content is the last, so a document
// no longer than chunkSize yields exactly one chunk holding the whole text.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc.Content == "" {
		// Empty content produces no chunks
		return nil, nil
	}

	runes := []rune(doc.Content)
	contentLen := len(runes)
	step := p.chunkSize - p.overlap

	estimatedChunks := (contentLen / step) + 1
	chunks := make([]domain.Chunk, 0, estimatedChunks)

	for start, position := 0, 0; ; start, position = start+step, position+1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + p.chunkSize
		if end > contentLen {
			end = contentLen
		}

		content := string(runes[start:end])
		chunks = append(chunks, domain.Chunk{
			ID:         chunkID(doc.URI, position, content),
			DocumentID: doc.ID,
			SourceURL:  doc.URI,
			Content:    content,
			Position:   position,
			Offset:     start,
			Metadata:   make(map[string]any),
		})

		if end == contentLen {
			break
		}
	}

	return chunks, nil
}

// chunkID derives a stable identifier from the chunk's source, position and text.
func chunkID(sourceURL string, position int, content string) string {
	name := sourceURL + "\x00" + strconv.Itoa(position) + "\x00" + content
	return uuid.NewSHA1(chunkNamespace, []byte(name)).String()
}
