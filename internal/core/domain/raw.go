package domain

import "time"

// RawDocument represents opaque bytes fetched from a configured URL.
// It is the fetcher's output before normalisation.
type RawDocument struct {
	// URI is the URL the content was fetched from.
	URI string

	// MIMEType is the content type without parameters (e.g., "text/html").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// FetchedAt is when the response was received.
	FetchedAt time.Time

	// Metadata contains fetcher-specific key-value pairs.
	Metadata map[string]any
}
