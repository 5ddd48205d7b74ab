package domain

import (
	"fmt"
	"net/url"
	"time"
)

// DefaultSourceURLs are the pages indexed when no URL list is configured.
// Tuition pages come first since most questions are about cost.
var DefaultSourceURLs = []string{
	"https://www.montgomerycollege.edu/paying-for-college/tuition/index.html",
	"https://www.montgomerycollege.edu/paying-for-college/tuition/current-rates.html",
	"https://www.montgomerycollege.edu/admissions",
	"https://www.montgomerycollege.edu/academics/index.html",
	"https://www.montgomerycollege.edu/admissions-registration/registration/index.html",
	"https://www.montgomerycollege.edu/admissions-registration/financial-aid-scholarships.html",
	"https://www.montgomerycollege.edu/counseling-and-advising/index.html",
}

// SourceSettings lists the pages to index.
type SourceSettings struct {
	// URLs is the fixed list of pages. Order is preserved.
	URLs []string
}

// ChunkingSettings configures the sliding window chunker.
type ChunkingSettings struct {
	// Size is the window length in characters.
	Size int

	// Overlap is the number of characters shared by consecutive windows.
	Overlap int
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint. Empty means the provider default.
	BaseURL string

	// APIKey is the API credential.
	APIKey string

	// BatchSize is the number of chunks sent per embedding request.
	BatchSize int

	// RequestsPerSecond throttles embedding requests during an index build.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	return e.APIKey != "" && e.Model != ""
}

// LLMSettings holds chat model configuration.
type LLMSettings struct {
	// Model is the chat model name.
	Model string

	// BaseURL is the API endpoint. Empty means the provider default.
	BaseURL string

	// APIKey is the API credential.
	APIKey string

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// MaxTokens caps the answer length. Zero leaves it to the model.
	MaxTokens int
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	return l.APIKey != "" && l.Model != ""
}

// RetrievalSettings configures the retriever.
type RetrievalSettings struct {
	// TopK is the number of chunks passed to the model as context.
	TopK int

	// Metric is the similarity metric.
	Metric SimilarityMetric
}

// Options converts the settings into per-query retrieval options.
func (r RetrievalSettings) Options() RetrievalOptions {
	return RetrievalOptions{TopK: r.TopK, Metric: r.Metric}
}

// IndexSettings configures vector index persistence.
type IndexSettings struct {
	// Persist stores the index on disk so later runs can reuse it.
	Persist bool
}

// FetchSettings configures page downloads.
type FetchSettings struct {
	// Timeout bounds a single page request.
	Timeout time.Duration

	// UserAgent is sent with every page request.
	UserAgent string
}

// UISettings holds the text shown above the transcript.
type UISettings struct {
	// Title is the header line.
	Title string

	// Intro is the line shown under the title.
	Intro string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Sources   SourceSettings
	Chunking  ChunkingSettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Retrieval RetrievalSettings
	Index     IndexSettings
	Fetch     FetchSettings
	UI        UISettings
}

// Default setting values.
const (
	DefaultChunkSize          = 1000
	DefaultChunkOverlap       = 200
	DefaultEmbeddingModel     = "text-embedding-3-small"
	DefaultEmbeddingBatchSize = 64
	DefaultEmbeddingRPS       = 5.0
	DefaultLLMModel           = "gpt-3.5-turbo"
	DefaultLLMTemperature     = 0.3
	DefaultTopK               = 4
	DefaultFetchTimeout       = 30 * time.Second
	DefaultUserAgent          = "pagechat/1.0 (+https://github.com/custodia-labs/pagechat)"
	DefaultTitle              = "MC Admissions Chatbot"
	DefaultIntro              = "Ask me anything about Montgomery College admissions, tuition, or financial aid!"
)

// DefaultAppSettings returns settings with sensible defaults.
// API keys are left empty; they come from the environment.
func DefaultAppSettings() AppSettings {
	urls := make([]string, len(DefaultSourceURLs))
	copy(urls, DefaultSourceURLs)

	return AppSettings{
		Sources: SourceSettings{URLs: urls},
		Chunking: ChunkingSettings{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		Embedding: EmbeddingSettings{
			Model:             DefaultEmbeddingModel,
			BatchSize:         DefaultEmbeddingBatchSize,
			RequestsPerSecond: DefaultEmbeddingRPS,
		},
		LLM: LLMSettings{
			Model:       DefaultLLMModel,
			Temperature: DefaultLLMTemperature,
		},
		Retrieval: RetrievalSettings{
			TopK:   DefaultTopK,
			Metric: MetricCosine,
		},
		Index: IndexSettings{Persist: true},
		Fetch: FetchSettings{
			Timeout:   DefaultFetchTimeout,
			UserAgent: DefaultUserAgent,
		},
		UI: UISettings{
			Title: DefaultTitle,
			Intro: DefaultIntro,
		},
	}
}

// Validate checks the settings for values the pipeline cannot run with.
// Missing API keys are not reported here; adapters fail on construction.
func (s AppSettings) Validate() error {
	for _, raw := range s.Sources.URLs {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: source url %q must be an absolute http(s) URL", ErrInvalidInput, raw)
		}
	}
	if s.Chunking.Size <= 0 {
		return fmt.Errorf("%w: chunking size must be positive", ErrInvalidInput)
	}
	if s.Chunking.Overlap < 0 || s.Chunking.Overlap >= s.Chunking.Size {
		return fmt.Errorf("%w: chunking overlap must be in [0, size)", ErrInvalidInput)
	}
	if s.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: retrieval top_k must be positive", ErrInvalidInput)
	}
	if !s.Retrieval.Metric.IsValid() {
		return fmt.Errorf("%w: unknown retrieval metric %q", ErrInvalidInput, s.Retrieval.Metric)
	}
	if s.Embedding.BatchSize <= 0 {
		return fmt.Errorf("%w: embedding batch_size must be positive", ErrInvalidInput)
	}
	if s.LLM.Temperature < 0 || s.LLM.Temperature > 2 {
		return fmt.Errorf("%w: llm temperature must be in [0, 2]", ErrInvalidInput)
	}
	return nil
}
