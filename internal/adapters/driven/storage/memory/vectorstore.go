package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/pagechat/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/pagechat/internal/core/domain"
	"github.com/custodia-labs/pagechat/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore.
// It is used when index persistence is disabled; its content lives only
// for the process.
type VectorStore struct {
	mu       sync.RWMutex
	chunks   []domain.Chunk
	manifest *domain.IndexManifest
}

// NewVectorStore creates a new empty in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{}
}

// Replace discards the stored entries and keeps the given ones.
func (s *VectorStore) Replace(ctx context.Context, chunks []domain.Chunk, manifest domain.IndexManifest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, c := range chunks {
		if len(c.Embedding) != manifest.Dimensions {
			return fmt.Errorf("%w: chunk %s has %d dimensions, manifest has %d",
				domain.ErrDimensionMismatch, c.ID, len(c.Embedding), manifest.Dimensions)
		}
	}

	stored := make([]domain.Chunk, len(chunks))
	for i, c := range chunks {
		c.Embedding = append([]float32(nil), c.Embedding...)
		stored[i] = c
	}
	manifest.ChunkCount = len(stored)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = stored
	s.manifest = &manifest
	return nil
}

// Search scans every entry and returns the best opts.TopK.
func (s *VectorStore) Search(ctx context.Context, query []float32, opts domain.RetrievalOptions) ([]domain.RetrievedChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	dims := 0
	if s.manifest != nil && len(s.chunks) > 0 {
		dims = s.manifest.Dimensions
	}
	if err := similarity.CheckQuery(query, dims, opts); err != nil {
		return nil, err
	}

	return similarity.Rank(query, s.chunks, opts), nil
}

// Count returns the number of stored entries.
func (s *VectorStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

// Manifest returns the manifest written by the last Replace.
func (s *VectorStore) Manifest(_ context.Context) (*domain.IndexManifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.manifest == nil {
		return nil, domain.ErrNotFound
	}
	m := *s.manifest
	return &m, nil
}

// Sources lists the pages with stored chunks in indexing order.
func (s *VectorStore) Sources(_ context.Context) ([]domain.IndexedSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sources []domain.IndexedSource
	seen := make(map[string]int)
	for _, c := range s.chunks {
		i, ok := seen[c.SourceURL]
		if !ok {
			title, _ := c.Metadata["title"].(string)
			i = len(sources)
			seen[c.SourceURL] = i
			sources = append(sources, domain.IndexedSource{URL: c.SourceURL, Title: title})
		}
		sources[i].ChunkCount++
	}
	return sources, nil
}

// Clear removes all entries and the manifest.
func (s *VectorStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = nil
	s.manifest = nil
	return nil
}

// Close releases resources.
func (s *VectorStore) Close() error {
	return nil
}
