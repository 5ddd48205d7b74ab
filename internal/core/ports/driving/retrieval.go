package driving

import (
	"context"

	"github.com/custodia-labs/pagechat/internal/core/domain"
)

// RetrievalService finds the chunks most similar to a query.
type RetrievalService interface {
	// Retrieve returns up to k chunks ranked by similarity, best first.
	// An empty query or an empty index yields an empty result.
	Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievedChunk, error)
}
