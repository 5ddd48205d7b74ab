package domain

import "time"

// SimilarityMetric selects how query and chunk embeddings are compared.
type SimilarityMetric string

// Available similarity metrics.
const (
	// MetricCosine ranks by cosine similarity (higher is closer).
	MetricCosine SimilarityMetric = "cosine"

	// MetricDot ranks by raw dot product (higher is closer).
	MetricDot SimilarityMetric = "dot"

	// MetricEuclidean ranks by negated L2 distance (higher is closer).
	MetricEuclidean SimilarityMetric = "euclidean"
)

// IsValid returns true if the metric is recognised.
func (m SimilarityMetric) IsValid() bool {
	switch m {
	case MetricCosine, MetricDot, MetricEuclidean:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m SimilarityMetric) String() string {
	return string(m)
}

// RetrievalOptions configures a retrieval query.
type RetrievalOptions struct {
	// TopK is the maximum number of chunks returned.
	TopK int

	// Metric is the similarity metric.
	Metric SimilarityMetric
}

// RetrievedChunk is a chunk returned by the retriever with its score.
type RetrievedChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the similarity score under the query metric.
	Score float64
}

// IndexManifest describes the content of a persisted vector index.
type IndexManifest struct {
	// Fingerprint identifies the chunk set and embedding model the index was built from.
	Fingerprint string

	// EmbeddingModel is the model that produced the vectors.
	EmbeddingModel string

	// Dimensions is the vector size.
	Dimensions int

	// DocumentCount is the number of documents that contributed chunks.
	DocumentCount int

	// ChunkCount is the number of stored entries.
	ChunkCount int

	// BuiltAt is when the index was written.
	BuiltAt time.Time
}

// IndexStats summarises an index build or reuse.
type IndexStats struct {
	// Manifest is the manifest of the index now in use.
	Manifest IndexManifest

	// Reused is true when the persisted index matched and no embedding call was made.
	Reused bool

	// Duration is how long Ensure or Build took.
	Duration time.Duration
}

// IndexedSource summarises the chunks stored for one page.
type IndexedSource struct {
	// URL is the page the chunks came from.
	URL string

	// Title is the page title recorded at index time.
	Title string

	// ChunkCount is the number of stored chunks for the page.
	ChunkCount int
}
