// Package openaiapi holds the pieces shared by the OpenAI embedding and
// chat adapters: client construction and error classification.
package openaiapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/pagechat/internal/core/domain"
)

// DefaultBaseURL is the public OpenAI endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// ClientConfig holds connection settings for an OpenAI-compatible API.
type ClientConfig struct {
	// APIKey is the bearer credential (required).
	APIKey string

	// BaseURL is the API base URL. Empty uses DefaultBaseURL.
	BaseURL string

	// Timeout bounds a single request. Zero means no client-side timeout.
	Timeout time.Duration
}

// NewClient builds a go-openai client.
// Returns domain.ErrAuthRequired if no API key is configured.
func NewClient(cfg ClientConfig) (*openai.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required (set OPENAI_API_KEY): %w", domain.ErrAuthRequired)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return openai.NewClientWithConfig(clientCfg), nil
}

// ClassifyError maps API failures onto domain errors while keeping the
// provider's message. 401 and 403 become domain.ErrAuthRequired, 429
// becomes domain.ErrRateLimited. Other errors are wrapped unchanged.
func ClassifyError(op string, err error) error {
	if err == nil {
		return nil
	}

	status, message := 0, ""

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status, message = apiErr.HTTPStatusCode, apiErr.Message
	case errors.As(err, &reqErr):
		status, message = reqErr.HTTPStatusCode, string(reqErr.Body)
	default:
		return fmt.Errorf("openai %s: %w", op, err)
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("openai %s: %d %s: %w", op, status, message, domain.ErrAuthRequired)
	case http.StatusTooManyRequests:
		return fmt.Errorf("openai %s: %d %s: %w", op, status, message, domain.ErrRateLimited)
	default:
		return fmt.Errorf("openai %s: %d %s: %w", op, status, message, err)
	}
}
