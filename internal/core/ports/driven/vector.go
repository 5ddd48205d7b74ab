package driven

import (
	"context"

	"github.com/custodia-labs/pagechat/internal/core/domain"
)

// VectorStore holds the (embedding, chunk) entries of the index and
// answers similarity queries over them.
type VectorStore interface {
	// Replace discards every stored entry and writes the given chunks and
	// manifest in one step. Every chunk must carry an embedding of the
	// manifest's dimensionality.
	Replace(ctx context.Context, chunks []domain.Chunk, manifest domain.IndexManifest) error

	// Search returns up to opts.TopK entries closest to the query vector,
	// best first. An empty store yields an empty result.
	Search(ctx context.Context, query []float32, opts domain.RetrievalOptions) ([]domain.RetrievedChunk, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Manifest returns the manifest written by the last Replace.
	// Returns domain.ErrNotFound if the store has never been populated.
	Manifest(ctx context.Context) (*domain.IndexManifest, error)

	// Sources lists the pages with stored chunks in the order they were indexed.
	Sources(ctx context.Context) ([]domain.IndexedSource, error)

	// Clear removes all entries and the manifest.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}
