package pdf

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagechat/internal/core/domain"
	"github.com/custodia-labs/pagechat/internal/core/ports/driven"
)

func stubExtractor(text string, err error) Extractor {
	return func(_ []byte) (string, error) {
		return text, err
	}
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}

func TestSupportedMIMETypes(t *testing.T) {
	assert.Equal(t, []string{"application/pdf"}, New().SupportedMIMETypes())
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 50, New().Priority())
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_WithStubExtractor(t *testing.T) {
	n := NewWithExtractor(stubExtractor("  Fee Schedule \n\n  Lab fee: $40\n", nil))

	result, err := n.Normalise(context.Background(), &domain.RawDocument{
		URI:      "https://x.example/fees.pdf",
		MIMEType: "application/pdf",
		Content:  []byte("%PDF-1.4"),
	})
	require.NoError(t, err)

	doc := result.Document
	assert.Equal(t, "Fee Schedule", doc.Title)
	assert.Equal(t, "Fee Schedule\nLab fee: $40", doc.Content)
	assert.Equal(t, "pdf", doc.Metadata["format"])
	assert.Equal(t, "application/pdf", doc.Metadata["mime_type"])
	assert.NotEmpty(t, doc.ID)
}

func TestNormalise_ExtractorError(t *testing.T) {
	n := NewWithExtractor(stubExtractor("", errors.New("corrupt xref")))

	result, err := n.Normalise(context.Background(), &domain.RawDocument{URI: "https://x.example/a.pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt xref")
	assert.Nil(t, result)
}

func TestExtractText_Empty(t *testing.T) {
	text, err := ExtractText(nil)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractText_NotAPDF(t *testing.T) {
	_, err := ExtractText([]byte("definitely not a pdf"))
	assert.Error(t, err)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		uri      string
		expected string
	}{
		{"first line as title", "Document Title\nSome content here.", "https://x/doc.pdf", "Document Title"},
		{"fallback to filename", "", "https://x/path/to/my_document.pdf", "my document"},
		{"skip very long first line", strings.Repeat("a", 250) + "\nShort Title", "https://x/doc.pdf", "Short Title"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, extractTitle(tc.content, tc.uri))
		})
	}
}
