package services

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/custodia-labs/pagechat/internal/core/domain"
	"github.com/custodia-labs/pagechat/internal/core/ports/driven"
)

// --- Mock implementations ---

// bagOfWordsEmbedder implements driven.EmbeddingService with a
// deterministic hashed word-count vector, so texts sharing words are close.
type bagOfWordsEmbedder struct {
	mu       sync.Mutex
	dims     int
	model    string
	calls    int
	batches  []int
	embedErr error
}

func newBagOfWordsEmbedder() *bagOfWordsEmbedder {
	return &bagOfWordsEmbedder{dims: 64, model: "fake-embed"}
}

func (m *bagOfWordsEmbedder) vector(text string) []float32 {
	vec := make([]float32, m.dims)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '$'
	})
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[h.Sum32()%uint32(m.dims)]++
	}
	return vec
}

func (m *bagOfWordsEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(text), nil
}

func (m *bagOfWordsEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.batches = append(m.batches, len(texts))
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vector(t)
	}
	return out, nil
}

func (m *bagOfWordsEmbedder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *bagOfWordsEmbedder) Dimensions() int { return m.dims }
func (m *bagOfWordsEmbedder) ModelName() string { return m.model }
func (m *bagOfWordsEmbedder) Ping(context.Context) error { return nil }
func (m *bagOfWordsEmbedder) Close() error { return nil }

// mockLLMService implements driven.LLMService. It records every request
// and answers through reply, or with a fixed response.
type mockLLMService struct {
	mu       sync.Mutex
	requests [][]driven.ChatMessage
	opts     []driven.ChatOptions
	reply    func(messages []driven.ChatMessage) (string, error)
	block    chan struct{}
}

func (m *mockLLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, append([]driven.ChatMessage(nil), messages...))
	m.opts = append(m.opts, opts)
	block, reply := m.block, m.reply
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if reply == nil {
		return "ok", nil
	}
	return reply(messages)
}

func (m *mockLLMService) Requests() [][]driven.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]driven.ChatMessage(nil), m.requests...)
}

func (m *mockLLMService) ModelName() string { return "fake-chat" }
func (m *mockLLMService) Ping(context.Context) error { return nil }
func (m *mockLLMService) Close() error { return nil }

// mockFetcher implements driven.PageFetcher from a fixed set of pages.
type mockFetcher struct {
	pages   map[string]string
	mime    map[string]string
	errs    map[string]error
	final   map[string]string
	fetched []string
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) (*domain.RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.fetched = append(m.fetched, url)
	if err, ok := m.errs[url]; ok {
		return nil, err
	}
	body, ok := m.pages[url]
	if !ok {
		return nil, domain.ErrFetchFailed
	}
	mime := "text/html"
	if t, ok := m.mime[url]; ok {
		mime = t
	}
	uri := url
	if to, ok := m.final[url]; ok {
		uri = to
	}
	return &domain.RawDocument{
		URI:       uri,
		MIMEType:  mime,
		Content:   []byte(body),
		FetchedAt: time.Now(),
	}, nil
}

// mockPromptStore implements driven.PromptStore from a map.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// mockAIValidator implements driven.AIConfigValidator.
type mockAIValidator struct {
	embeddingErr error
	llmErr       error
	lastAPIKey   string
}

func (m *mockAIValidator) ValidateEmbedding(_ context.Context, cfg *domain.EmbeddingSettings) error {
	m.lastAPIKey = cfg.APIKey
	return m.embeddingErr
}

func (m *mockAIValidator) ValidateLLM(_ context.Context, cfg *domain.LLMSettings) error {
	m.lastAPIKey = cfg.APIKey
	return m.llmErr
}

// mockAnswerService implements driving.AnswerService.
type mockAnswerService struct {
	mu       sync.Mutex
	memories []domain.Memory
	answer   func(question string, memory domain.Memory) (*domain.Answer, error)
	started  chan struct{}
	release  chan struct{}
}

func (m *mockAnswerService) Answer(_ context.Context, question string, memory domain.Memory) (*domain.Answer, error) {
	m.mu.Lock()
	m.memories = append(m.memories, memory)
	m.mu.Unlock()

	if m.started != nil {
		close(m.started)
	}
	if m.release != nil {
		<-m.release
	}
	if m.answer == nil {
		return &domain.Answer{Text: "answer to " + question, StandaloneQuestion: question}, nil
	}
	return m.answer(question, memory)
}
