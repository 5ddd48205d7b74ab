// Package similarity scores and ranks embeddings for the vector stores.
package similarity

import (
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/pagechat/internal/core/domain"
)

// Score compares a query vector with a stored vector. Higher is closer for
// every metric. Vectors must have equal length.
func Score(metric domain.SimilarityMetric, query, stored []float32) float64 {
	switch metric {
	case domain.MetricDot:
		return dot(query, stored)
	case domain.MetricEuclidean:
		var sum float64
		for i := range query {
			d := float64(query[i]) - float64(stored[i])
			sum += d * d
		}
		return -math.Sqrt(sum)
	default:
		return cosine(query, stored)
	}
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// cosine returns 0 when either vector has zero magnitude.
func cosine(a, b []float32) float64 {
	var d, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		d += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return d / (math.Sqrt(na) * math.Sqrt(nb))
}

// CheckQuery validates a query against the index dimensionality and options.
// A dims of zero means the index is empty and any query length is accepted.
func CheckQuery(query []float32, dims int, opts domain.RetrievalOptions) error {
	if opts.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive, got %d", domain.ErrInvalidInput, opts.TopK)
	}
	if opts.Metric != "" && !opts.Metric.IsValid() {
		return fmt.Errorf("%w: unknown metric %q", domain.ErrInvalidInput, opts.Metric)
	}
	if dims > 0 && len(query) != dims {
		return fmt.Errorf("%w: query has %d dimensions, index has %d", domain.ErrDimensionMismatch, len(query), dims)
	}
	return nil
}

// Rank scores every chunk against the query and returns the best k,
// highest score first. Ties keep the input order.
func Rank(query []float32, chunks []domain.Chunk, opts domain.RetrievalOptions) []domain.RetrievedChunk {
	metric := opts.Metric
	if metric == "" {
		metric = domain.MetricCosine
	}

	results := make([]domain.RetrievedChunk, 0, len(chunks))
	for _, c := range chunks {
		if len(c.Embedding) != len(query) {
			continue
		}
		results = append(results, domain.RetrievedChunk{
			Chunk: c,
			Score: Score(metric, query, c.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if opts.TopK < len(results) {
		results = results[:opts.TopK]
	}
	return results
}
