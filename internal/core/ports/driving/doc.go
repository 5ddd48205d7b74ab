// Package driving holds the operations the pagechat commands call: loading
// the configured pages, building or reusing the vector index, retrieving
// chunks for a question and holding a chat session. The cobra commands and
// the chat TUI depend only on these interfaces.
//
// internal/core/services implements them.
package driving
