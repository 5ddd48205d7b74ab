package domain

// PageFailure records a configured URL that contributed no document.
type PageFailure struct {
	// URL is the configured page.
	URL string

	// Err is why the page was skipped.
	Err error
}

// LoadReport is the outcome of loading the configured pages.
type LoadReport struct {
	// Documents holds one document per page that loaded, in configuration order.
	Documents []Document

	// Failures holds the skipped pages, in configuration order.
	Failures []PageFailure
}

// Total returns the number of pages that were attempted.
func (r LoadReport) Total() int {
	return len(r.Documents) + len(r.Failures)
}
