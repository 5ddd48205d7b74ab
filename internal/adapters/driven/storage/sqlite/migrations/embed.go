// Package migrations holds the schema of the persisted vector index: the
// chunks table and the single-row index manifest that decides whether a
// stored index can be reused.
package migrations

import "embed"

// FS holds the numbered scripts. The store applies each .up.sql on open.
//
//go:embed *.sql
var FS embed.FS
