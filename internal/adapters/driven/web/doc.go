// Package web provides the PageFetcher adapter that downloads configured
// pages over HTTP(S) with gocolly/colly.
//
// One collector is built per fetch: depth 1, no link following, the
// configured user agent and timeout, and the caller's context for
// cancellation. Brotli response bodies are decoded here since the
// transport only handles gzip.
package web
