package ai

// Header is one HTTP header to attach to an outbound wire request.
type Header struct {
	Key   string
	Value string
}

// WireRequest is a fully prepared provider request: where to send it, which
// headers authenticate and version it, and the JSON-marshalable body. Building
// one performs no I/O.
type WireRequest struct {
	URL     string
	Headers []Header
	Body    any
}

// Profile describes a provider's static identity: its display name, the
// environment variable holding its credential, the models it serves grouped
// by category, and whether it supports streaming at all.
type Profile struct {
	Name          string
	CredentialEnv string
	Categories    []ModelCategory
	Streaming     bool
}

// Models flattens the category groups into the full list of model IDs, in
// declaration order.
func (p Profile) Models() []string {
	var ids []string
	for _, category := range p.Categories {
		ids = append(ids, category.Models...)
	}
	return ids
}

// HasModel reports whether id is one of the profile's model IDs.
func (p Profile) HasModel(id string) bool {
	for _, category := range p.Categories {
		for _, model := range category.Models {
			if model == id {
				return true
			}
		}
	}
	return false
}

// Adapter is the contract every provider package implements. All methods are
// pure transforms between canonical types and the provider's wire format; the
// shared engine in this package owns every HTTP and SSE concern.
type Adapter interface {
	// Profile returns the provider's static identity.
	Profile() Profile

	// Schema declares the provider's tunable parameters, their types,
	// bounds and defaults. NewConfig consumes it to seed a validated
	// configuration.
	Schema() Schema

	// BuildRequest converts the conversation history and current
	// configuration into a wire request. The stream flag selects the
	// provider's streaming variant of the request when it has one.
	BuildRequest(messages []Message, config *Config, stream bool) (*WireRequest, error)

	// ParseResponse decodes a successful non-streaming response body into
	// the canonical form.
	ParseResponse(body []byte) (*ChatResponse, error)

	// ParseStreamEvent decodes one SSE data payload into zero or more
	// stream events. A nil slice with a nil error means the payload carried
	// nothing of interest (heartbeats, bookkeeping events) and is skipped.
	ParseStreamEvent(payload []byte) ([]StreamEvent, error)

	// ClassifyError maps a non-2xx status and raw error body onto the
	// error taxonomy.
	ClassifyError(status int, body []byte) *Error
}
