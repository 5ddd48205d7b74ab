// Package markdown provides a Normaliser for pages served as raw Markdown.
package markdown

import (
	"context"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/pagechat/internal/core/domain"
	"github.com/custodia-labs/pagechat/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

var (
	codeFence     = regexp.MustCompile("(?s)```.*?```")
	inlineCode    = regexp.MustCompile("`([^`]+)`")
	image         = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	link          = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	heading       = regexp.MustCompile(`(?m)^#{1,6}[ \t]+`)
	emphasis      = regexp.MustCompile(`(\*\*|__|\*|_)([^*_\n]+)(\*\*|__|\*|_)`)
	blockquote    = regexp.MustCompile(`(?m)^>\s?`)
	rule          = regexp.MustCompile(`(?m)^[ \t]*([-*_][ \t]*){3,}$`)
	bullet        = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+`)
	numbered      = regexp.MustCompile(`(?m)^[ \t]*\d+[.)][ \t]+`)
	blankRuns     = regexp.MustCompile(`\n{3,}`)
	firstHeading  = regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t]*#*[ \t]*$`)
	setextHeading = regexp.MustCompile(`(?m)^(\S.*)\n=+[ \t]*$`)
)

// Normaliser handles Markdown pages.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise strips Markdown syntax and keeps the readable text.
// Fenced code blocks are dropped; link text is kept without its target.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	source := strings.ReplaceAll(string(raw.Content), "\r\n", "\n")

	metadata := make(map[string]any, len(raw.Metadata)+2)
	for k, v := range raw.Metadata {
		metadata[k] = v
	}
	metadata["mime_type"] = raw.MIMEType
	metadata["format"] = "markdown"

	return &driven.NormaliseResult{
		Document: domain.Document{
			ID:        uuid.NewSHA1(uuid.NameSpaceURL, []byte(raw.URI)).String(),
			URI:       raw.URI,
			Title:     title(source, raw),
			Content:   plainText(source),
			Metadata:  metadata,
			FetchedAt: raw.FetchedAt,
		},
	}, nil
}

// title returns the first level one heading, then a fetcher supplied
// title, then the last path segment of the URL.
func title(source string, raw *domain.RawDocument) string {
	if m := firstHeading.FindStringSubmatch(source); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := setextHeading.FindStringSubmatch(source); m != nil {
		return strings.TrimSpace(m[1])
	}
	if t, ok := raw.Metadata["title"].(string); ok && t != "" {
		return t
	}

	name := raw.URI
	if u, err := url.Parse(raw.URI); err == nil && u.Path != "" {
		name = u.Path
	}
	name = path.Base(name)
	name = strings.TrimSuffix(name, path.Ext(name))
	return strings.NewReplacer("_", " ", "-", " ").Replace(name)
}

// plainText removes Markdown syntax from source.
func plainText(source string) string {
	s := codeFence.ReplaceAllString(source, "")
	s = image.ReplaceAllString(s, "")
	s = link.ReplaceAllString(s, "$1")
	s = inlineCode.ReplaceAllString(s, "$1")
	s = rule.ReplaceAllString(s, "")
	s = heading.ReplaceAllString(s, "")
	s = blockquote.ReplaceAllString(s, "")
	s = bullet.ReplaceAllString(s, "")
	s = numbered.ReplaceAllString(s, "")
	s = emphasis.ReplaceAllString(s, "$2")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
