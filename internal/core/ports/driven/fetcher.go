package driven

import (
	"context"

	"github.com/custodia-labs/pagechat/internal/core/domain"
)

// PageFetcher downloads a single web page.
type PageFetcher interface {
	// Fetch retrieves the page at url.
	// Returns an error wrapping domain.ErrFetchFailed when the page cannot be
	// downloaded or the server answers with an error status.
	Fetch(ctx context.Context, url string) (*domain.RawDocument, error)
}
