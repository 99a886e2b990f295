package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/lfpereira/converse/internal/utils"
)

// Kind is the closed set of failure categories. Every error surfaced by this
// package and the provider adapters carries exactly one Kind, so callers can
// react to the category without parsing message text.
type Kind string

const (
	KindCredentialMissing Kind = "credential_missing"
	KindConfigInvalid     Kind = "config_invalid"
	KindModelUnavailable  Kind = "model_unavailable"
	KindNetwork           Kind = "network"
	KindProviderRejected  Kind = "provider_rejected"
	KindMalformedResponse Kind = "malformed_response"
	KindStreamTruncated   Kind = "stream_truncated"
	KindSessionBusy       Kind = "session_busy"
)

// Error is the single error type crossing package boundaries. Provider holds
// the adapter's display name where one is involved; HTTPStatus is set only
// when the provider answered with a non-2xx status; Key and Reason are set
// for config_invalid errors; Raw preserves the offending body for debugging.
type Error struct {
	Provider   string
	Kind       Kind
	HTTPStatus int
	Key        string
	Reason     string
	Message    string
	Raw        []byte
	Cause      error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Provider != "" {
		b.WriteString(e.Provider)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Kind))
	if e.Key != "" {
		fmt.Fprintf(&b, ": key %q", e.Key)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.HTTPStatus != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.HTTPStatus)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable reports whether retrying the same request could plausibly
// succeed. Only transient transport failures and truncated streams qualify;
// everything else needs a config, credential or code change first.
func (e *Error) Retryable() bool {
	return e.Kind == KindNetwork || e.Kind == KindStreamTruncated
}

// AsError unwraps err to the taxonomy type when possible.
func AsError(err error) (*Error, bool) {
	var classified *Error
	if errors.As(err, &classified) {
		return classified, true
	}
	return nil, false
}

// NewCredentialMissing reports that a provider's credential environment
// variable is unset or blank.
func NewCredentialMissing(provider, envVar string) *Error {
	return &Error{
		Provider: provider,
		Kind:     KindCredentialMissing,
		Message:  fmt.Sprintf("environment variable %s is not set", envVar),
	}
}

// NewConfigInvalid reports a rejected configuration value for key.
func NewConfigInvalid(key, reason string) *Error {
	return &Error{
		Kind:    KindConfigInvalid,
		Key:     key,
		Reason:  reason,
		Message: reason,
	}
}

// NewModelUnavailable reports that model is not served by provider, listing
// what is.
func NewModelUnavailable(provider, model string, available []string) *Error {
	return &Error{
		Provider: provider,
		Kind:     KindModelUnavailable,
		Key:      "model",
		Message:  fmt.Sprintf("model %q is not available; choose one of: %s", model, strings.Join(available, ", ")),
	}
}

// NewNetworkError wraps a transport-level failure, including context
// cancellation and deadline expiry.
func NewNetworkError(provider string, cause error) *Error {
	return &Error{
		Provider: provider,
		Kind:     KindNetwork,
		Message:  cause.Error(),
		Cause:    cause,
	}
}

// NewMalformedResponse reports a 2xx body that could not be decoded.
func NewMalformedResponse(provider, reason string, raw []byte) *Error {
	return &Error{
		Provider: provider,
		Kind:     KindMalformedResponse,
		Message:  reason,
		Raw:      raw,
	}
}

// NewStreamTruncated reports a stream that ended without its terminal event.
func NewStreamTruncated(provider string) *Error {
	return &Error{
		Provider: provider,
		Kind:     KindStreamTruncated,
		Message:  "stream ended before completion event",
	}
}

// NewSessionBusy reports a send attempted while another is in flight.
func NewSessionBusy() *Error {
	return &Error{
		Kind:    KindSessionBusy,
		Message: "a request is already in flight for this session",
	}
}

// wireError covers the error body shapes of every provider we speak to.
// OpenAI-compatible APIs nest an object under "error" with message/type/code;
// Anthropic uses error.type/error.message; Gemini uses error.status; a few
// gateways return a bare top-level "message".
type wireError struct {
	Error struct {
		Message string          `json:"message"`
		Type    string          `json:"type"`
		Code    json.RawMessage `json:"code"`
		Status  string          `json:"status"`
	} `json:"error"`
	Message string `json:"message"`
}

// DecodeErrorBody extracts a human-readable message and a machine code from a
// provider error body. Bodies that are not valid JSON get one repair attempt
// before falling back to the raw text, truncated.
func DecodeErrorBody(body []byte) (message, code string) {
	var wire wireError
	if err := json.Unmarshal(body, &wire); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(string(body))
		if repairErr != nil || json.Unmarshal([]byte(repaired), &wire) != nil {
			return utils.TruncateString(strings.TrimSpace(string(body)), 200), ""
		}
	}

	switch {
	case wire.Error.Message != "":
		message = wire.Error.Message
	case wire.Message != "":
		message = wire.Message
	default:
		message = utils.TruncateString(strings.TrimSpace(string(body)), 200)
	}

	switch {
	case len(wire.Error.Code) > 0:
		code = strings.Trim(string(wire.Error.Code), `"`)
	case wire.Error.Type != "":
		code = wire.Error.Type
	case wire.Error.Status != "":
		code = wire.Error.Status
	}
	return message, code
}

// modelErrorCodes are machine codes that identify a model lookup failure
// regardless of the HTTP status that carried them.
var modelErrorCodes = map[string]bool{
	"model_not_found": true,
	"not_found_error": true,
	"NOT_FOUND":       true,
}

// ClassifyStatus is the default mapping from a non-2xx status to the error
// taxonomy, shared by adapters whose providers need nothing more specific. A
// 404 or a model-lookup code means the model is unavailable; everything else
// the provider explicitly rejected.
func ClassifyStatus(provider string, status int, body []byte) *Error {
	message, code := DecodeErrorBody(body)
	if message == "" {
		message = http.StatusText(status)
	}

	kind := KindProviderRejected
	if status == http.StatusNotFound || modelErrorCodes[code] {
		kind = KindModelUnavailable
	}

	return &Error{
		Provider:   provider,
		Kind:       kind,
		HTTPStatus: status,
		Message:    message,
		Raw:        body,
	}
}
