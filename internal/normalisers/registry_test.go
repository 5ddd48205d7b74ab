package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagechat/internal/core/domain"
	"github.com/custodia-labs/pagechat/internal/core/ports/driven"
)

type stubNormaliser struct {
	name     string
	types    []string
	priority int
}

func (s *stubNormaliser) SupportedMIMETypes() []string { return s.types }
func (s *stubNormaliser) Priority() int                { return s.priority }
func (s *stubNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	return &driven.NormaliseResult{Document: domain.Document{URI: raw.URI, Title: s.name}}, nil
}

func normaliseWith(t *testing.T, r *Registry, mimeType string) string {
	t.Helper()
	result, err := r.Normalise(context.Background(), &domain.RawDocument{URI: "https://x", MIMEType: mimeType})
	require.NoError(t, err)
	return result.Document.Title
}

func TestRegistry_ExactMatchBeatsWildcard(t *testing.T) {
	r := NewRegistry(
		&stubNormaliser{name: "fallback", types: []string{"text/*"}, priority: 5},
		&stubNormaliser{name: "html", types: []string{"text/html"}, priority: 50},
	)

	assert.Equal(t, "html", normaliseWith(t, r, "text/html"))
	assert.Equal(t, "fallback", normaliseWith(t, r, "text/x-unknown"))
}

func TestRegistry_HigherPriorityWins(t *testing.T) {
	r := NewRegistry(
		&stubNormaliser{name: "low", types: []string{"text/html"}, priority: 10},
		&stubNormaliser{name: "high", types: []string{"text/html"}, priority: 90},
	)
	assert.Equal(t, "high", normaliseWith(t, r, "text/html"))
}

func TestRegistry_StripsParameters(t *testing.T) {
	r := NewRegistry(&stubNormaliser{name: "html", types: []string{"text/html"}, priority: 50})
	assert.Equal(t, "html", normaliseWith(t, r, "Text/HTML; charset=UTF-8"))
}

func TestRegistry_Unsupported(t *testing.T) {
	r := NewDefaultRegistry()

	_, err := r.Normalise(context.Background(), &domain.RawDocument{MIMEType: "image/png"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, err = r.Normalise(context.Background(), &domain.RawDocument{MIMEType: ""})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestRegistry_NilDocument(t *testing.T) {
	_, err := NewDefaultRegistry().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry()

	types := r.SupportedMIMETypes()
	assert.Contains(t, types, "text/html")
	assert.Contains(t, types, "application/pdf")
	assert.Contains(t, types, "text/plain")
	assert.Contains(t, types, "text/markdown")

	result, err := r.Normalise(context.Background(), &domain.RawDocument{
		URI:      "https://x.example/a",
		MIMEType: "text/html; charset=utf-8",
		Content:  []byte("<title>T</title><p>Hello</p>"),
	})
	require.NoError(t, err)
	assert.Equal(t, "html", result.Document.Metadata["format"])
	assert.Equal(t, "Hello", result.Document.Content)
}

func TestNewDefaultRegistry_Markdown(t *testing.T) {
	result, err := NewDefaultRegistry().Normalise(context.Background(), &domain.RawDocument{
		URI:      "https://x.example/readme.md",
		MIMEType: "text/markdown; charset=utf-8",
		Content:  []byte("# Readme\n\nSome **bold** text."),
	})
	require.NoError(t, err)
	assert.Equal(t, "markdown", result.Document.Metadata["format"])
	assert.Equal(t, "Readme", result.Document.Title)
	assert.Equal(t, "Readme\n\nSome bold text.", result.Document.Content)
}
