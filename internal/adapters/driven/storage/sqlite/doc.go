// Package sqlite provides the persistent vector index.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements driven.VectorStore:
// chunks are stored with their embedding as a little-endian float32 blob, and
// queries are answered by an exact scan over every row.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.pagechat/data/index.db
//
// # Thread Safety
//
// All operations are thread-safe. Replace runs in a single transaction, so
// a reader sees either the previous index or the new one.
package sqlite
