package ai

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeErrorBodyShapes(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
		wantCode    string
	}{
		{
			name:        "openai style",
			body:        `{"error": {"message": "invalid api key", "type": "invalid_request_error", "code": "invalid_api_key"}}`,
			wantMessage: "invalid api key",
			wantCode:    "invalid_api_key",
		},
		{
			name:        "anthropic style",
			body:        `{"error": {"type": "not_found_error", "message": "model not found"}}`,
			wantMessage: "model not found",
			wantCode:    "not_found_error",
		},
		{
			name:        "gemini style",
			body:        `{"error": {"message": "quota exceeded", "status": "RESOURCE_EXHAUSTED"}}`,
			wantMessage: "quota exceeded",
			wantCode:    "RESOURCE_EXHAUSTED",
		},
		{
			name:        "numeric code",
			body:        `{"error": {"message": "rate limited", "code": 429}}`,
			wantMessage: "rate limited",
			wantCode:    "429",
		},
		{
			name:        "bare message",
			body:        `{"message": "gateway timeout"}`,
			wantMessage: "gateway timeout",
			wantCode:    "",
		},
		{
			name:        "truncated json gets repaired",
			body:        `{"error": {"message": "server exploded", "type": "internal"`,
			wantMessage: "server exploded",
			wantCode:    "internal",
		},
		{
			name:        "plain text falls through",
			body:        "upstream connect error",
			wantMessage: "upstream connect error",
			wantCode:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message, code := DecodeErrorBody([]byte(tt.body))
			assert.Equal(t, tt.wantMessage, message)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	notFound := ClassifyStatus("testprov", 404, []byte(`{"error": {"message": "no such model"}}`))
	assert.Equal(t, KindModelUnavailable, notFound.Kind)
	assert.Equal(t, 404, notFound.HTTPStatus)
	assert.Equal(t, "no such model", notFound.Message)

	byCode := ClassifyStatus("testprov", 400, []byte(`{"error": {"message": "unknown model x", "code": "model_not_found"}}`))
	assert.Equal(t, KindModelUnavailable, byCode.Kind)

	unauthorized := ClassifyStatus("testprov", 401, []byte(`{"error": {"message": "bad key"}}`))
	assert.Equal(t, KindProviderRejected, unauthorized.Kind)
	assert.Equal(t, "testprov", unauthorized.Provider)

	overloaded := ClassifyStatus("testprov", 529, nil)
	assert.Equal(t, KindProviderRejected, overloaded.Kind)
	assert.NotEmpty(t, overloaded.Error())
}

func TestErrorStringIncludesContext(t *testing.T) {
	err := &Error{Provider: "anthropic", Kind: KindProviderRejected, HTTPStatus: 429, Message: "rate limited"}
	message := err.Error()
	assert.Contains(t, message, "anthropic")
	assert.Contains(t, message, "provider_rejected")
	assert.Contains(t, message, "429")

	invalid := NewConfigInvalid("temperature", "value 3.5 is out of range [0, 2]")
	assert.Contains(t, invalid.Error(), `"temperature"`)
}

func TestRetryable(t *testing.T) {
	assert.True(t, NewNetworkError("p", fmt.Errorf("reset")).Retryable())
	assert.True(t, NewStreamTruncated("p").Retryable())
	assert.False(t, NewSessionBusy().Retryable())
	assert.False(t, NewCredentialMissing("p", "P_API_KEY").Retryable())
}

func TestAsErrorThroughWrapping(t *testing.T) {
	original := NewModelUnavailable("openai", "gpt-9", []string{"gpt-4o"})
	wrapped := fmt.Errorf("send failed: %w", original)

	classified, ok := AsError(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindModelUnavailable, classified.Kind)
	assert.Contains(t, classified.Message, "gpt-4o")
}
