// Package domain defines the core business entities for pagechat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawDocument: Opaque bytes fetched from a configured URL
//   - Document: The normalised text of one page
//   - Chunk: A window of document text, the unit of retrieval
//   - Turn, Memory: The conversation as seen by the language model
//   - Message: The transcript as seen by the user
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
