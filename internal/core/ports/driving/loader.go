package driving

import (
	"context"

	"github.com/custodia-labs/pagechat/internal/core/domain"
)

// LoaderService turns configured URLs into documents.
type LoaderService interface {
	// Load fetches and normalises every URL in order. Pages that fail are
	// skipped and reported; only context cancellation returns an error.
	Load(ctx context.Context, urls []string) (*domain.LoadReport, error)
}
