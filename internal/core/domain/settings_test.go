package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, DefaultSourceURLs, s.Sources.URLs)
	assert.Equal(t, 1000, s.Chunking.Size)
	assert.Equal(t, 200, s.Chunking.Overlap)
	assert.Equal(t, "gpt-3.5-turbo", s.LLM.Model)
	assert.InDelta(t, 0.3, s.LLM.Temperature, 1e-9)
	assert.Equal(t, 4, s.Retrieval.TopK)
	assert.Equal(t, MetricCosine, s.Retrieval.Metric)
	assert.True(t, s.Index.Persist)
	require.NoError(t, s.Validate())
}

func TestDefaultAppSettings_URLsAreCopied(t *testing.T) {
	s := DefaultAppSettings()
	s.Sources.URLs[0] = "https://example.com"
	assert.NotEqual(t, "https://example.com", DefaultSourceURLs[0])
}

func TestAppSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppSettings)
	}{
		{"relative url", func(s *AppSettings) { s.Sources.URLs = []string{"/admissions"} }},
		{"ftp url", func(s *AppSettings) { s.Sources.URLs = []string{"ftp://example.com/a"} }},
		{"zero chunk size", func(s *AppSettings) { s.Chunking.Size = 0 }},
		{"overlap equals size", func(s *AppSettings) { s.Chunking.Overlap = s.Chunking.Size }},
		{"negative overlap", func(s *AppSettings) { s.Chunking.Overlap = -1 }},
		{"zero top k", func(s *AppSettings) { s.Retrieval.TopK = 0 }},
		{"unknown metric", func(s *AppSettings) { s.Retrieval.Metric = "manhattan" }},
		{"zero batch", func(s *AppSettings) { s.Embedding.BatchSize = 0 }},
		{"temperature too high", func(s *AppSettings) { s.LLM.Temperature = 3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultAppSettings()
			tt.mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}

func TestAppSettings_EmptyURLListIsValid(t *testing.T) {
	s := DefaultAppSettings()
	s.Sources.URLs = nil
	assert.NoError(t, s.Validate())
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	assert.False(t, EmbeddingSettings{Model: "m"}.IsConfigured())
	assert.True(t, EmbeddingSettings{Model: "m", APIKey: "k"}.IsConfigured())
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	assert.False(t, LLMSettings{APIKey: "k"}.IsConfigured())
	assert.True(t, LLMSettings{Model: "m", APIKey: "k"}.IsConfigured())
}

func TestRetrievalSettings_Options(t *testing.T) {
	r := RetrievalSettings{TopK: 6, Metric: MetricDot}
	assert.Equal(t, RetrievalOptions{TopK: 6, Metric: MetricDot}, r.Options())
}
