// Package normalisers provides implementations of the Normaliser interface
// for the content types a page URL can serve. Each normaliser knows how to
// extract text content from a specific MIME type.
//
// Normalisers are registered with the Registry at startup; see
// NewDefaultRegistry.
package normalisers
