package services

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/pagechat/internal/core/domain"
	"github.com/custodia-labs/pagechat/internal/core/ports/driven"
	"github.com/custodia-labs/pagechat/internal/core/ports/driving"
	"github.com/custodia-labs/pagechat/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexConfig holds the indexing parameters that shape the stored vectors.
type IndexConfig struct {
	// Chunking is recorded in the fingerprint.
	Chunking domain.ChunkingSettings

	// BatchSize is the number of chunks per embedding request.
	BatchSize int

	// RequestsPerSecond throttles embedding requests. Zero disables throttling.
	RequestsPerSecond float64
}

// IndexService turns documents into an (embedding, chunk) index.
type IndexService struct {
	pipeline driven.PostProcessorPipeline
	embedder driven.EmbeddingService
	store    driven.VectorStore
	cfg      IndexConfig
	limiter  *rate.Limiter
}

// NewIndexService creates a new index service.
func NewIndexService(
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	cfg IndexConfig,
) *IndexService {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = domain.DefaultEmbeddingBatchSize
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &IndexService{
		pipeline: pipeline,
		embedder: embedder,
		store:    store,
		cfg:      cfg,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// Ensure reuses the stored index when it was built from the same chunks
// with the same model, and rebuilds it otherwise.
func (s *IndexService) Ensure(ctx context.Context, docs []domain.Document) (*domain.IndexStats, error) {
	start := time.Now()

	chunks, docCount, err := s.chunk(ctx, docs)
	if err != nil {
		return nil, err
	}
	fingerprint := Fingerprint(s.embedder.ModelName(), s.cfg.Chunking, chunks)

	manifest, err := s.store.Manifest(ctx)
	switch {
	case err == nil:
		if s.reusable(ctx, manifest, fingerprint) {
			logger.Debug("reusing index %s (%d chunks)", short(fingerprint), manifest.ChunkCount)
			return &domain.IndexStats{Manifest: *manifest, Reused: true, Duration: time.Since(start)}, nil
		}
		logger.Debug("index fingerprint changed (%s -> %s), rebuilding", short(manifest.Fingerprint), short(fingerprint))
	case errors.Is(err, domain.ErrNotFound):
		logger.Debug("no stored index, building")
	default:
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return s.build(ctx, chunks, docCount, fingerprint, start)
}

// Build rebuilds the index unconditionally.
func (s *IndexService) Build(ctx context.Context, docs []domain.Document) (*domain.IndexStats, error) {
	start := time.Now()

	chunks, docCount, err := s.chunk(ctx, docs)
	if err != nil {
		return nil, err
	}
	fingerprint := Fingerprint(s.embedder.ModelName(), s.cfg.Chunking, chunks)

	return s.build(ctx, chunks, docCount, fingerprint, start)
}

// Sources lists the pages in the stored index.
func (s *IndexService) Sources(ctx context.Context) ([]domain.IndexedSource, error) {
	sources, err := s.store.Sources(ctx)
	if err != nil {
		return nil, fmt.Errorf("list indexed sources: %w", err)
	}
	return sources, nil
}

// reusable checks the manifest against the fingerprint and the stored row count.
func (s *IndexService) reusable(ctx context.Context, manifest *domain.IndexManifest, fingerprint string) bool {
	if manifest.Fingerprint != fingerprint || manifest.EmbeddingModel != s.embedder.ModelName() {
		return false
	}
	count, err := s.store.Count(ctx)
	if err != nil {
		logger.Warn("count index entries: %v", err)
		return false
	}
	return count == manifest.ChunkCount
}

// chunk runs every document through the pipeline. The second result is
// the number of documents that produced at least one chunk.
func (s *IndexService) chunk(ctx context.Context, docs []domain.Document) ([]domain.Chunk, int, error) {
	var chunks []domain.Chunk
	docCount := 0

	for i := range docs {
		docChunks, err := s.pipeline.Process(ctx, &docs[i])
		if err != nil {
			return nil, 0, fmt.Errorf("chunk %s: %w", docs[i].URI, err)
		}
		if len(docChunks) > 0 {
			docCount++
		}
		chunks = append(chunks, docChunks...)
	}

	return chunks, docCount, nil
}

// build embeds the chunks in throttled batches and replaces the stored index.
func (s *IndexService) build(
	ctx context.Context,
	chunks []domain.Chunk,
	docCount int,
	fingerprint string,
	start time.Time,
) (*domain.IndexStats, error) {
	logger.Section("Building index")
	logger.Debug("embedding %d chunks from %d documents with %s", len(chunks), docCount, s.embedder.ModelName())

	dims, err := s.embed(ctx, chunks)
	if err != nil {
		return nil, err
	}

	manifest := domain.IndexManifest{
		Fingerprint:    fingerprint,
		EmbeddingModel: s.embedder.ModelName(),
		Dimensions:     dims,
		DocumentCount:  docCount,
		ChunkCount:     len(chunks),
		BuiltAt:        time.Now(),
	}
	if err := s.store.Replace(ctx, chunks, manifest); err != nil {
		return nil, fmt.Errorf("store index: %w", err)
	}

	logger.Debug("index built: %d chunks, %d dimensions", len(chunks), dims)
	return &domain.IndexStats{Manifest: manifest, Duration: time.Since(start)}, nil
}

// embed fills in every chunk's embedding and returns the vector size.
func (s *IndexService) embed(ctx context.Context, chunks []domain.Chunk) (int, error) {
	dims := 0

	for lo := 0; lo < len(chunks); lo += s.cfg.BatchSize {
		hi := min(lo+s.cfg.BatchSize, len(chunks))

		if err := s.limiter.Wait(ctx); err != nil {
			return 0, err
		}

		texts := make([]string, hi-lo)
		for i := range texts {
			texts[i] = chunks[lo+i].Content
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return 0, fmt.Errorf("embed chunks %d-%d: %w", lo, hi-1, err)
		}
		if len(vectors) != len(texts) {
			return 0, fmt.Errorf("embed chunks %d-%d: got %d vectors", lo, hi-1, len(vectors))
		}

		for i, vec := range vectors {
			if dims == 0 {
				dims = len(vec)
			}
			if len(vec) != dims || dims == 0 {
				return 0, fmt.Errorf("%w: chunk %d has %d dimensions, expected %d",
					domain.ErrDimensionMismatch, lo+i, len(vec), dims)
			}
			chunks[lo+i].Embedding = vec
		}
		logger.Debug("embedded %d/%d chunks", hi, len(chunks))
	}

	return dims, nil
}

// Fingerprint identifies an index by the embedding model, the chunking
// parameters and the source URL and content of every chunk in order.
func Fingerprint(model string, chunking domain.ChunkingSettings, chunks []domain.Chunk) string {
	h := sha256.New()
	writeField(h, model)
	writeInt(h, chunking.Size)
	writeInt(h, chunking.Overlap)
	writeInt(h, len(chunks))
	for _, c := range chunks {
		writeField(h, c.SourceURL)
		writeField(h, c.Content)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// writeField length-prefixes s so adjacent fields cannot run together.
func writeField(h hash.Hash, s string) {
	writeInt(h, len(s))
	h.Write([]byte(s))
}

func writeInt(h hash.Hash, n int) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(n))
	h.Write(buf[:])
}

func short(fingerprint string) string {
	if len(fingerprint) > 12 {
		return fingerprint[:12]
	}
	return fingerprint
}
