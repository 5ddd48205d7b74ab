package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/pagechat/internal/core/domain"
	"github.com/custodia-labs/pagechat/internal/core/ports/driven"
	"github.com/custodia-labs/pagechat/internal/core/ports/driving"
	"github.com/custodia-labs/pagechat/internal/logger"
)

// MetadataFinalURL records where a redirected page was actually served from.
const MetadataFinalURL = "final_url"

// Ensure LoaderService implements the interface.
var _ driving.LoaderService = (*LoaderService)(nil)

// LoaderService fetches the configured pages and extracts their text.
type LoaderService struct {
	fetcher  driven.PageFetcher
	registry driven.NormaliserRegistry
}

// NewLoaderService creates a new loader service.
func NewLoaderService(fetcher driven.PageFetcher, registry driven.NormaliserRegistry) *LoaderService {
	return &LoaderService{
		fetcher:  fetcher,
		registry: registry,
	}
}

// Load fetches and normalises every URL in order, one at a time.
// A page that cannot be fetched, has an unsupported type or yields no text
// is skipped with a warning. Repeated URLs are loaded once.
// Only context cancellation aborts the load.
func (s *LoaderService) Load(ctx context.Context, urls []string) (*domain.LoadReport, error) {
	start := time.Now()
	report := &domain.LoadReport{Documents: make([]domain.Document, 0, len(urls))}

	seen := make(map[string]struct{}, len(urls))
	for _, url := range urls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, dup := seen[url]; dup {
			logger.Warn("skipping %s: listed more than once", url)
			continue
		}
		seen[url] = struct{}{}

		doc, err := s.loadOne(ctx, url)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Warn("skipping %s: %v", url, err)
			report.Failures = append(report.Failures, domain.PageFailure{URL: url, Err: err})
			continue
		}

		logger.Debug("loaded %s (%q, %d chars)", url, doc.Title, len([]rune(doc.Content)))
		report.Documents = append(report.Documents, *doc)
	}

	logger.Debug("loaded %d/%d pages in %s", len(report.Documents), report.Total(), time.Since(start).Round(time.Millisecond))
	return report, nil
}

// loadOne fetches and normalises a single page.
func (s *LoaderService) loadOne(ctx context.Context, url string) (*domain.Document, error) {
	raw, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	result, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise: %w", err)
	}

	doc := result.Document
	if strings.TrimSpace(doc.Content) == "" {
		return nil, fmt.Errorf("%w: no text extracted", domain.ErrEmptyContent)
	}

	// The configured URL is the page's identity even when the server
	// redirected elsewhere, so two sources never share chunk IDs.
	if doc.URI != "" && doc.URI != url {
		if doc.Metadata == nil {
			doc.Metadata = make(map[string]any)
		}
		doc.Metadata[MetadataFinalURL] = doc.URI
	}
	doc.URI = url
	doc.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte(url)).String()

	return &doc, nil
}
