// Package bootstrap builds the pagechat services from settings.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/custodia-labs/pagechat/internal/adapters/driven/ai"
	"github.com/custodia-labs/pagechat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pagechat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pagechat/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pagechat/internal/adapters/driven/web"
	"github.com/custodia-labs/pagechat/internal/adapters/driving/cli"
	"github.com/custodia-labs/pagechat/internal/core/ports/driven"
	"github.com/custodia-labs/pagechat/internal/core/ports/driving"
	"github.com/custodia-labs/pagechat/internal/core/services"
	"github.com/custodia-labs/pagechat/internal/logger"
	"github.com/custodia-labs/pagechat/internal/normalisers"
	"github.com/custodia-labs/pagechat/internal/postprocessors"
)

// Directory names inside the home directory.
const (
	DataDir   = "data"
	PromptDir = "prompts"
)

// Ensure Factory implements the interface.
var _ cli.Factory = (*Factory)(nil)

// Factory builds services for a home directory.
type Factory struct {
	// Getenv overrides the environment lookup. Nil uses the process environment.
	Getenv func(string) string

	// Transport overrides the page fetch transport. Nil uses the default.
	Transport http.RoundTripper
}

// New creates a factory reading the process environment.
func New() *Factory {
	return &Factory{}
}

// Settings returns the settings service for home.
func (f *Factory) Settings(home string) (driving.SettingsService, error) {
	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	svc := services.NewSettingsService(configStore, ai.NewConfigValidator())
	if f.Getenv != nil {
		svc.WithEnv(f.Getenv)
	}
	return svc, nil
}

// Pipeline builds the loader, index and session for home.
// Missing credentials fail here, before any page is fetched.
func (f *Factory) Pipeline(_ context.Context, home string) (*cli.Pipeline, error) {
	settingsService, err := f.Settings(home)
	if err != nil {
		return nil, err
	}
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	aiServices, err := ai.CreateServices(settings)
	if err != nil {
		return nil, err
	}

	store, err := openVectorStore(home, settings.Index.Persist)
	if err != nil {
		aiServices.Close()
		return nil, err
	}

	pipeline, err := postprocessors.NewIndexPipeline(settings.Chunking)
	if err != nil {
		aiServices.Close()
		store.Close()
		return nil, fmt.Errorf("create chunker: %w", err)
	}

	prompts, err := file.NewPromptStore(filepath.Join(home, PromptDir))
	if err != nil {
		aiServices.Close()
		store.Close()
		return nil, fmt.Errorf("open prompts: %w", err)
	}

	fetcher := web.NewFetcher(web.Config{
		Timeout:   settings.Fetch.Timeout,
		UserAgent: settings.Fetch.UserAgent,
		Transport: f.Transport,
	})
	loader := services.NewLoaderService(fetcher, normalisers.NewDefaultRegistry())

	index := services.NewIndexService(pipeline, aiServices.Embedding, store, services.IndexConfig{
		Chunking:          settings.Chunking,
		BatchSize:         settings.Embedding.BatchSize,
		RequestsPerSecond: settings.Embedding.RequestsPerSecond,
	})

	retriever := services.NewRetriever(aiServices.Embedding, store, settings.Retrieval)
	answerer := services.NewAnswerer(retriever, aiServices.LLM, services.AnswerConfig{
		TopK:        settings.Retrieval.TopK,
		Temperature: settings.LLM.Temperature,
		MaxTokens:   settings.LLM.MaxTokens,
	})
	answerer.SetPromptStore(prompts)

	logger.Debug("pipeline ready: embedding=%s llm=%s persist=%t",
		settings.Embedding.Model, settings.LLM.Model, settings.Index.Persist)

	return &cli.Pipeline{
		Settings: settings,
		Loader:   loader,
		Index:    index,
		Session:  services.NewSession(answerer),
		Prompts:  prompts,
		Close: func() error {
			return errors.Join(store.Close(), aiServices.Close())
		},
	}, nil
}

// openVectorStore opens the on-disk index, or an in-memory one when
// persistence is off.
func openVectorStore(home string, persist bool) (driven.VectorStore, error) {
	if !persist {
		return memory.NewVectorStore(), nil
	}
	store, err := sqlite.NewStore(filepath.Join(home, DataDir))
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	return store, nil
}
