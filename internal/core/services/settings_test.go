package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagechat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pagechat/internal/core/domain"
)

func envFrom(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestSettingsService_GetDefaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore(), nil).WithEnv(envFrom(nil))

	settings, err := svc.Get()
	require.NoError(t, err)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults, *settings)
	assert.Equal(t, defaults, svc.GetDefaults())
	assert.NoError(t, svc.Validate())
}

func TestSettingsService_GetFromStoreAndEnv(t *testing.T) {
	store := memory.NewConfigStoreFrom(map[string]any{
		keySourceURLs:     []any{"https://a.example/one", "https://a.example/two"},
		keyChunkSize:      int64(500),
		keyChunkOverlap:   int64(50),
		keyEmbedModel:     "text-embedding-3-large",
		keyEmbedRPS:       2.5,
		keyLLMModel:       "gpt-4o-mini",
		keyLLMTemperature: 0.0,
		keyTopK:           int64(6),
		keyMetric:         "dot",
		keyIndexPersist:   false,
		keyFetchTimeout:   "5s",
		keyUITitle:        "Campus Helper",
	})
	svc := NewSettingsService(store, nil).WithEnv(envFrom(map[string]string{
		EnvAPIKey:  "sk-test",
		EnvBaseURL: "http://localhost:8080/v1",
	}))

	settings, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example/one", "https://a.example/two"}, settings.Sources.URLs)
	assert.Equal(t, domain.ChunkingSettings{Size: 500, Overlap: 50}, settings.Chunking)
	assert.Equal(t, "text-embedding-3-large", settings.Embedding.Model)
	assert.InDelta(t, 2.5, settings.Embedding.RequestsPerSecond, 1e-9)
	assert.Equal(t, domain.DefaultEmbeddingBatchSize, settings.Embedding.BatchSize)
	assert.Equal(t, "gpt-4o-mini", settings.LLM.Model)
	assert.Zero(t, settings.LLM.Temperature, "an explicit zero is kept")
	assert.Equal(t, 6, settings.Retrieval.TopK)
	assert.Equal(t, domain.MetricDot, settings.Retrieval.Metric)
	assert.False(t, settings.Index.Persist)
	assert.Equal(t, 5*time.Second, settings.Fetch.Timeout)
	assert.Equal(t, "Campus Helper", settings.UI.Title)
	assert.Equal(t, domain.DefaultIntro, settings.UI.Intro)

	assert.Equal(t, "sk-test", settings.Embedding.APIKey)
	assert.Equal(t, "sk-test", settings.LLM.APIKey)
	assert.Equal(t, "http://localhost:8080/v1", settings.Embedding.BaseURL)
	assert.Equal(t, "http://localhost:8080/v1", settings.LLM.BaseURL)
	assert.True(t, settings.Embedding.IsConfigured())
}

func TestSettingsService_StoreBaseURLWinsOverEnv(t *testing.T) {
	store := memory.NewConfigStoreFrom(map[string]any{keyLLMBaseURL: "http://llm.internal/v1"})
	svc := NewSettingsService(store, nil).WithEnv(envFrom(map[string]string{EnvBaseURL: "http://env/v1"}))

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "http://llm.internal/v1", settings.LLM.BaseURL)
	assert.Equal(t, "http://env/v1", settings.Embedding.BaseURL)
}

func TestSettingsService_InvalidDuration(t *testing.T) {
	store := memory.NewConfigStoreFrom(map[string]any{keyFetchTimeout: "soon"})
	svc := NewSettingsService(store, nil).WithEnv(envFrom(nil))

	_, err := svc.Get()
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Validate(), domain.ErrInvalidInput)
}

func TestSettingsService_ValidateRejectsBadValues(t *testing.T) {
	store := memory.NewConfigStoreFrom(map[string]any{keyChunkOverlap: int64(1000)})
	svc := NewSettingsService(store, nil).WithEnv(envFrom(nil))

	assert.ErrorIs(t, svc.Validate(), domain.ErrInvalidInput)
}

func TestSettingsService_Save(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store, nil).WithEnv(envFrom(nil))

	settings := domain.DefaultAppSettings()
	settings.Sources.URLs = []string{"https://a.example"}
	settings.Retrieval.TopK = 8
	settings.Fetch.Timeout = 10 * time.Second
	settings.Embedding.APIKey = "sk-secret"
	settings.LLM.APIKey = "sk-secret"
	require.NoError(t, svc.Save(&settings))

	for _, key := range []string{"embedding.api_key", "llm.api_key"} {
		_, ok := store.Get(key)
		assert.False(t, ok, key)
	}

	loaded, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example"}, loaded.Sources.URLs)
	assert.Equal(t, 8, loaded.Retrieval.TopK)
	assert.Equal(t, 10*time.Second, loaded.Fetch.Timeout)
	assert.Empty(t, loaded.LLM.APIKey)
}

func TestSettingsService_ValidateProviders(t *testing.T) {
	t.Run("no validator", func(t *testing.T) {
		svc := NewSettingsService(memory.NewConfigStore(), nil).WithEnv(envFrom(nil))
		assert.NoError(t, svc.ValidateEmbeddingConfig())
		assert.NoError(t, svc.ValidateLLMConfig())
	})

	t.Run("passes env key", func(t *testing.T) {
		validator := &mockAIValidator{llmErr: domain.ErrAuthRequired}
		svc := NewSettingsService(memory.NewConfigStore(), validator).
			WithEnv(envFrom(map[string]string{EnvAPIKey: "sk-abc"}))

		require.NoError(t, svc.ValidateEmbeddingConfig())
		assert.Equal(t, "sk-abc", validator.lastAPIKey)

		err := svc.ValidateLLMConfig()
		assert.True(t, errors.Is(err, domain.ErrAuthRequired))
	})
}
