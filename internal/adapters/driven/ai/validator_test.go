package ai

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagechat/internal/core/domain"
	"github.com/custodia-labs/pagechat/internal/core/ports/driven"
)

func TestNewConfigValidator(t *testing.T) {
	validator := NewConfigValidator()

	require.NotNil(t, validator)
}

func TestConfigValidator_ImplementsInterface(t *testing.T) {
	var _ driven.AIConfigValidator = (*ConfigValidator)(nil)
}

func TestConfigValidator_ValidateEmbedding_NilConfig(t *testing.T) {
	validator := NewConfigValidator()

	err := validator.ValidateEmbedding(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestConfigValidator_ValidateLLM_NilConfig(t *testing.T) {
	validator := NewConfigValidator()

	err := validator.ValidateLLM(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestConfigValidator_ValidateBoth(t *testing.T) {
	srv := modelsServer(http.StatusOK)
	defer srv.Close()

	validator := NewConfigValidator()
	ctx := context.Background()

	assert.NoError(t, validator.ValidateEmbedding(ctx, &domain.EmbeddingSettings{
		APIKey: "k", Model: "text-embedding-3-small", BaseURL: srv.URL,
	}))
	assert.NoError(t, validator.ValidateLLM(ctx, &domain.LLMSettings{
		APIKey: "k", Model: "gpt-3.5-turbo", BaseURL: srv.URL,
	}))
}
