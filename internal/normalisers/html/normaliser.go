package html

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/custodia-labs/pagechat/internal/core/domain"
	"github.com/custodia-labs/pagechat/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// removedSelectors are elements that never carry page content.
const removedSelectors = "script, style, noscript, template, svg, iframe, nav, header, footer, aside, form, " +
	"[role='navigation'], [role='banner'], [role='contentinfo'], [aria-hidden='true']"

// blockElements start a new line in the extracted text.
var blockElements = map[string]bool{
	"address": true, "article": true, "blockquote": true, "br": true, "dd": true,
	"div": true, "dl": true, "dt": true, "fieldset": true, "figcaption": true,
	"figure": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "hr": true, "li": true, "main": true, "ol": true, "p": true,
	"pre": true, "section": true, "table": true, "td": true, "th": true,
	"tr": true, "ul": true,
}

var multiSpaces = regexp.MustCompile(`[ \t\x{00a0}]+`)

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser, higher than plaintext
}

// Normalise converts an HTML page to a normalised document.
// The Content field contains the readable text with markup stripped.
// Chunking is handled by the PostProcessor pipeline.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	page, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("parse html %s: %w", raw.URI, err)
	}

	title := extractTitle(page, raw.URI)
	description, _ := page.Find("meta[name='description']").Attr("content")

	page.Find(removedSelectors).Remove()

	root := page.Find("main").First()
	if root.Length() == 0 || strings.TrimSpace(root.Text()) == "" {
		root = page.Find("body")
	}
	if root.Length() == 0 {
		root = page.Selection
	}

	doc := domain.Document{
		ID:        uuid.NewSHA1(uuid.NameSpaceURL, []byte(raw.URI)).String(),
		URI:       raw.URI,
		Title:     title,
		Content:   extractText(root),
		Metadata:  copyMetadata(raw.Metadata),
		FetchedAt: raw.FetchedAt,
	}

	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["format"] = "html"
	if description = strings.TrimSpace(description); description != "" {
		doc.Metadata["description"] = description
	}

	return &driven.NormaliseResult{
		Document: doc,
	}, nil
}

// extractTitle prefers <title>, then og:title, then the first heading,
// then the last URL path segment.
func extractTitle(page *goquery.Document, uri string) string {
	if title := cleanLine(page.Find("title").First().Text()); title != "" {
		return title
	}
	if og, ok := page.Find("meta[property='og:title']").Attr("content"); ok {
		if title := cleanLine(og); title != "" {
			return title
		}
	}
	if title := cleanLine(page.Find("h1").First().Text()); title != "" {
		return title
	}
	return titleFromURI(uri)
}

// extractText walks the selection and returns its text with one line per
// block element and blank lines removed.
func extractText(root *goquery.Selection) string {
	var b strings.Builder
	var walk func(*goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, node *goquery.Selection) {
			name := goquery.NodeName(node)
			switch {
			case name == "#text":
				b.WriteString(node.Text())
			case name == "#comment":
			case blockElements[name]:
				b.WriteByte('\n')
				walk(node)
				b.WriteByte('\n')
			default:
				walk(node)
			}
		})
	}
	walk(root)

	lines := strings.Split(b.String(), "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = cleanLine(line); line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}

// cleanLine collapses runs of spaces and trims the line.
func cleanLine(s string) string {
	return strings.TrimSpace(multiSpaces.ReplaceAllString(s, " "))
}

// titleFromURI derives a readable title from the last URL path segment.
func titleFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	name := path.Base(strings.TrimSuffix(u.Path, "/"))
	if name == "." || name == "/" || name == "" || name == "index.html" {
		return u.Host
	}
	name = strings.TrimSuffix(name, path.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return name
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
