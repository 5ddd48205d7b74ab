package web

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	colly "github.com/gocolly/colly/v2"

	"github.com/custodia-labs/pagechat/internal/core/domain"
	"github.com/custodia-labs/pagechat/internal/core/ports/driven"
	"github.com/custodia-labs/pagechat/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.PageFetcher = (*Fetcher)(nil)

// acceptHeader prefers documents the normalisers understand.
const acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,application/pdf;q=0.8,text/plain;q=0.7,*/*;q=0.5"

// Config holds fetcher settings.
type Config struct {
	// Timeout bounds a single request. Zero uses domain.DefaultFetchTimeout.
	Timeout time.Duration

	// UserAgent is sent with every request. Empty uses domain.DefaultUserAgent.
	UserAgent string

	// Transport overrides the HTTP transport. Nil uses colly's default.
	Transport http.RoundTripper
}

// Fetcher downloads single pages.
type Fetcher struct {
	timeout   time.Duration
	userAgent string
	transport http.RoundTripper
}

// NewFetcher creates a page fetcher.
func NewFetcher(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultFetchTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = domain.DefaultUserAgent
	}
	return &Fetcher{
		timeout:   cfg.Timeout,
		userAgent: cfg.UserAgent,
		transport: cfg.Transport,
	}
}

// Fetch retrieves the page at url. Non-2xx responses, network errors and
// undecodable bodies are returned wrapped in domain.ErrFetchFailed.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*domain.RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := f.newCollector(ctx)

	var (
		raw      *domain.RawDocument
		fetchErr error
		status   int
	)

	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body, err := decodeBody(r.Body, r.Headers.Get("Content-Encoding"))
		if err != nil {
			fetchErr = err
			return
		}
		raw = &domain.RawDocument{
			URI:       r.Request.URL.String(),
			MIMEType:  mediaType(r.Headers.Get("Content-Type"), body),
			Content:   body,
			FetchedAt: time.Now(),
			Metadata: map[string]any{
				"status_code":  r.StatusCode,
				"content_type": r.Headers.Get("Content-Type"),
				"requested":    url,
			},
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = err
	})

	logger.Debug("fetch: GET %s", url)
	visitErr := c.Visit(url)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if fetchErr == nil {
		fetchErr = visitErr
	}
	if fetchErr != nil {
		if status != 0 {
			return nil, fmt.Errorf("%w: %s: status %d: %w", domain.ErrFetchFailed, url, status, fetchErr)
		}
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrFetchFailed, url, fetchErr)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: %s: no response", domain.ErrFetchFailed, url)
	}

	logger.Debug("fetch: %s -> %d %s (%d bytes)", url, status, raw.MIMEType, len(raw.Content))
	return raw, nil
}

// newCollector builds a single-page collector bound to ctx.
func (f *Fetcher) newCollector(ctx context.Context) *colly.Collector {
	c := colly.NewCollector(
		colly.MaxDepth(1),
		colly.UserAgent(f.userAgent),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(f.timeout)
	if f.transport != nil {
		c.WithTransport(f.transport)
	}

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", acceptHeader)
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
		r.Headers.Set("Accept-Encoding", "br, gzip")
	})

	return c
}

// decodeBody undoes brotli content encoding. Gzip is already decoded by colly.
func decodeBody(body []byte, contentEncoding string) ([]byte, error) {
	if !strings.Contains(strings.ToLower(contentEncoding), "br") {
		return body, nil
	}
	decoded, err := io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
	if err != nil {
		return nil, fmt.Errorf("decode brotli body: %w", err)
	}
	return decoded, nil
}

// mediaType returns the response media type without parameters,
// sniffing the body when the server sent none.
func mediaType(contentType string, body []byte) string {
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt, _, _ = strings.Cut(contentType, ";")
	}
	return strings.ToLower(strings.TrimSpace(mt))
}
