package postprocessors

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagechat/internal/core/domain"
)

// mockProcessor is a test processor that returns predefined chunks.
type mockProcessor struct {
	name   string
	chunks []domain.Chunk
	err    error
	seen   []domain.Chunk
}

func (m *mockProcessor) Name() string {
	return m.name
}

func (m *mockProcessor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	m.seen = chunks
	if m.err != nil {
		return nil, m.err
	}
	if m.chunks != nil {
		return m.chunks, nil
	}
	return chunks, nil
}

func TestNewPipeline(t *testing.T) {
	p := NewPipeline()
	require.NotNil(t, p)
	assert.Equal(t, 0, p.Len())
}

func TestPipeline_Add(t *testing.T) {
	p := NewPipeline()
	p.Add(&mockProcessor{name: "test"})

	assert.Equal(t, 1, p.Len())
	assert.Equal(t, []string{"test"}, p.Names())
}

func TestPipeline_Process_NilDocument(t *testing.T) {
	_, err := NewPipeline().Process(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPipeline_Process_EmptyPipeline(t *testing.T) {
	chunks, err := NewPipeline().Process(context.Background(), &domain.Document{Content: "x"})
	require.NoError(t, err)
	assert.Nil(t, chunks)
}

func TestPipeline_Process_ChainsInOrder(t *testing.T) {
	first := &mockProcessor{name: "first", chunks: []domain.Chunk{{Content: "one"}}}
	second := &mockProcessor{name: "second"}

	chunks, err := NewPipeline(first, second).Process(context.Background(), &domain.Document{})
	require.NoError(t, err)

	assert.Nil(t, first.seen)
	assert.Equal(t, []domain.Chunk{{Content: "one"}}, second.seen)
	assert.Equal(t, []domain.Chunk{{Content: "one"}}, chunks)
}

func TestPipeline_Process_ProcessorError(t *testing.T) {
	boom := errors.New("boom")
	p := NewPipeline(&mockProcessor{name: "broken", err: boom})

	_, err := p.Process(context.Background(), &domain.Document{URI: "https://x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "broken")
	assert.Contains(t, err.Error(), "https://x")
}

func TestNewIndexPipeline(t *testing.T) {
	p, err := NewIndexPipeline(domain.ChunkingSettings{Size: 1000, Overlap: 200})
	require.NoError(t, err)
	assert.Equal(t, []string{"chunker", "annotate"}, p.Names())

	doc := &domain.Document{
		ID:      "doc",
		URI:     "https://example.edu/a",
		Title:   "A",
		Content: strings.Repeat("x", 2500),
	}
	chunks, err := p.Process(context.Background(), doc)
	require.NoError(t, err)

	require.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.Equal(t, "https://example.edu/a", c.SourceURL)
		assert.Equal(t, "A", c.Metadata["title"])
	}
}

func TestNewIndexPipeline_EmptyDocument(t *testing.T) {
	p, err := NewIndexPipeline(domain.ChunkingSettings{Size: 1000, Overlap: 200})
	require.NoError(t, err)

	chunks, err := p.Process(context.Background(), &domain.Document{URI: "https://x"})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
