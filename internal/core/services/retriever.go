package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/pagechat/internal/core/domain"
	"github.com/custodia-labs/pagechat/internal/core/ports/driven"
	"github.com/custodia-labs/pagechat/internal/core/ports/driving"
)

// Ensure Retriever implements the interface.
var _ driving.RetrievalService = (*Retriever)(nil)

// Retriever embeds a query and looks up its nearest chunks.
type Retriever struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
	settings domain.RetrievalSettings
}

// NewRetriever creates a new retriever. A non-positive TopK falls back
// to the default.
func NewRetriever(embedder driven.EmbeddingService, store driven.VectorStore, settings domain.RetrievalSettings) *Retriever {
	if settings.TopK <= 0 {
		settings.TopK = domain.DefaultTopK
	}
	if settings.Metric == "" {
		settings.Metric = domain.MetricCosine
	}
	return &Retriever{
		embedder: embedder,
		store:    store,
		settings: settings,
	}
}

// Retrieve returns up to k chunks ranked by similarity to query.
// k <= 0 uses the configured top_k.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievedChunk, error) {
	if strings.TrimSpace(query) == "" {
		return []domain.RetrievedChunk{}, nil
	}
	if k <= 0 {
		k = r.settings.TopK
	}

	// An empty index needs no query embedding.
	count, err := r.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count index: %w", err)
	}
	if count == 0 {
		return []domain.RetrievedChunk{}, nil
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := r.store.Search(ctx, vec, domain.RetrievalOptions{TopK: k, Metric: r.settings.Metric})
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	return results, nil
}
