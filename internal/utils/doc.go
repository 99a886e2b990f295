// Package utils contains shared plumbing used by the provider adapters and the
// request engine: JSON-over-HTTP POST helpers, an SSE scanner for streaming
// responses, and small string/pointer conveniences.
//
// The HTTP helpers deliberately do not interpret non-2xx responses. They hand
// the status code and raw body back to the caller so the provider-specific
// error classifier can decide what the failure means.
package utils
