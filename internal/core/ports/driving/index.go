package driving

import (
	"context"

	"github.com/custodia-labs/pagechat/internal/core/domain"
)

// IndexService builds the vector index from loaded documents.
type IndexService interface {
	// Ensure makes the index reflect docs, reusing the persisted index when
	// its fingerprint matches and rebuilding otherwise.
	Ensure(ctx context.Context, docs []domain.Document) (*domain.IndexStats, error)

	// Build rebuilds the index from docs unconditionally.
	Build(ctx context.Context, docs []domain.Document) (*domain.IndexStats, error)

	// Sources lists the indexed pages in indexing order.
	Sources(ctx context.Context) ([]domain.IndexedSource, error)
}
