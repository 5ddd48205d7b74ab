package normalisers

import (
	"github.com/custodia-labs/pagechat/internal/normalisers/html"
	"github.com/custodia-labs/pagechat/internal/normalisers/markdown"
	"github.com/custodia-labs/pagechat/internal/normalisers/pdf"
	"github.com/custodia-labs/pagechat/internal/normalisers/plaintext"
)

// NewDefaultRegistry returns a registry with the built-in normalisers:
// HTML, PDF, Markdown and the plain text fallback.
func NewDefaultRegistry() *Registry {
	return NewRegistry(
		html.New(),
		pdf.New(),
		markdown.New(),
		plaintext.New(),
	)
}
