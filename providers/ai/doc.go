// Package ai defines the provider-neutral core of the chat system: canonical
// message and response types, the Adapter contract every provider implements,
// a validated configuration layer driven by per-provider parameter schemas,
// the closed error taxonomy, and the shared request engine that turns an
// Adapter's pure transforms into synchronous and streaming HTTP calls.
//
// Provider packages (anthropic, openai, groq, perplexity, gemini) contain no
// transport code. They only describe their wire format: how to build a request
// body, how to parse a response, how to decode one SSE payload into stream
// events, and how to classify an error status. Everything else, including
// retransmission of headers, SSE framing and stream aggregation, lives here
// and in internal/utils.
package ai
