package html

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagechat/internal/core/domain"
	"github.com/custodia-labs/pagechat/internal/core/ports/driven"
)

const tuitionPage = `<!DOCTYPE html>
<html>
<head>
  <title>Tuition | Montgomery College</title>
  <meta name="description" content="Tuition and fees">
  <style>body { color: red; }</style>
  <script>var tracking = "ignored";</script>
</head>
<body>
  <header><a href="/">Home</a></header>
  <nav><ul><li>Admissions</li><li>Academics</li></ul></nav>
  <main>
    <h1>Tuition Rates</h1>
    <p>In-county tuition is <strong>$500</strong> per credit hour.</p>
    <table><tr><td>Out-of-state</td><td>$900</td></tr></table>
    <!-- comment -->
  </main>
  <footer>Copyright</footer>
</body>
</html>`

func normalise(t *testing.T, uri, content string) domain.Document {
	t.Helper()
	result, err := New().Normalise(context.Background(), &domain.RawDocument{
		URI:       uri,
		MIMEType:  "text/html",
		Content:   []byte(content),
		FetchedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	return result.Document
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}

func TestSupportedMIMETypes(t *testing.T) {
	mimeTypes := New().SupportedMIMETypes()
	assert.ElementsMatch(t, []string{"text/html", "application/xhtml+xml"}, mimeTypes)
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 50, New().Priority())
}

func TestNormalise_ExtractsReadableText(t *testing.T) {
	doc := normalise(t, "https://www.montgomerycollege.edu/tuition", tuitionPage)

	assert.Equal(t, "Tuition | Montgomery College", doc.Title)
	assert.Equal(t, "Tuition Rates\nIn-county tuition is $500 per credit hour.\nOut-of-state\n$900", doc.Content)
	assert.Equal(t, "https://www.montgomerycollege.edu/tuition", doc.URI)
	assert.Equal(t, "html", doc.Metadata["format"])
	assert.Equal(t, "text/html", doc.Metadata["mime_type"])
	assert.Equal(t, "Tuition and fees", doc.Metadata["description"])
	assert.Equal(t, 2026, doc.FetchedAt.Year())
}

func TestNormalise_DropsPageChrome(t *testing.T) {
	doc := normalise(t, "https://x.example/a", tuitionPage)

	assert.NotContains(t, doc.Content, "tracking")
	assert.NotContains(t, doc.Content, "color: red")
	assert.NotContains(t, doc.Content, "Admissions")
	assert.NotContains(t, doc.Content, "Copyright")
	assert.NotContains(t, doc.Content, "comment")
}

func TestNormalise_FallsBackToBodyWithoutMain(t *testing.T) {
	doc := normalise(t, "https://x.example/a", `<html><body><div>First</div><div>Second &amp; third</div></body></html>`)
	assert.Equal(t, "First\nSecond & third", doc.Content)
}

func TestNormalise_DeterministicID(t *testing.T) {
	a := normalise(t, "https://x.example/a", "<p>one</p>")
	b := normalise(t, "https://x.example/a", "<p>two</p>")
	c := normalise(t, "https://x.example/b", "<p>one</p>")

	assert.Equal(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestNormalise_EmptyContent(t *testing.T) {
	doc := normalise(t, "https://x.example/a", "")
	assert.Empty(t, doc.Content)
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_PreservesRawMetadata(t *testing.T) {
	result, err := New().Normalise(context.Background(), &domain.RawDocument{
		URI:      "https://x.example/a",
		Content:  []byte("<p>x</p>"),
		Metadata: map[string]any{"status_code": 200},
	})
	require.NoError(t, err)
	assert.Equal(t, 200, result.Document.Metadata["status_code"])
}

func TestExtractTitle_Fallbacks(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		content string
		want    string
	}{
		{"og title", "https://x/a", `<meta property="og:title" content="OG Title"><p>x</p>`, "OG Title"},
		{"first heading", "https://x/a", `<h1> Heading  One </h1>`, "Heading One"},
		{"url segment", "https://x/paying-for-college/current_rates.html", `<p>x</p>`, "current rates"},
		{"url host", "https://x.example/", `<p>x</p>`, "x.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalise(t, tt.uri, tt.content).Title)
		})
	}
}

func TestCopyMetadata(t *testing.T) {
	assert.Nil(t, copyMetadata(nil))

	src := map[string]any{"a": 1}
	dst := copyMetadata(src)
	dst["a"] = 2
	assert.Equal(t, 1, src["a"])
}
