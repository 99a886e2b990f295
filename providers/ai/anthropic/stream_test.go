package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lfpereira/converse/providers/ai"
)

func writeSSE(t *testing.T, w http.ResponseWriter, payloads ...string) {
	t.Helper()
	flusher, ok := w.(http.Flusher)
	require.True(t, ok)
	for _, payload := range payloads {
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	}
}

func TestStreamLifecycle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(t, w,
			`{"type": "message_start", "message": {"usage": {"input_tokens": 10, "output_tokens": 0}}}`,
			`{"type": "content_block_start", "index": 0}`,
			`{"type": "ping"}`,
			`{"type": "content_block_delta", "delta": {"type": "text_delta", "text": "Hi"}}`,
			`{"type": "content_block_delta", "delta": {"type": "text_delta", "text": " there"}}`,
			`{"type": "content_block_stop", "index": 0}`,
			`{"type": "message_delta", "delta": {"stop_reason": "end_turn"}, "usage": {"output_tokens": 5}}`,
			`{"type": "message_stop"}`,
		)
	}))
	defer server.Close()

	adapter, err := New("sk-test", WithURL(server.URL))
	require.NoError(t, err)
	client := ai.NewClient(adapter, ai.WithHTTPClient(server.Client()))
	config := ai.NewConfig(adapter.Schema())

	stream, err := client.Stream(context.Background(), []ai.Message{{Role: ai.RoleUser, Content: "hello"}}, config)
	require.NoError(t, err)

	var deltas []string
	response, err := stream.Drain(func(delta string) { deltas = append(deltas, delta) })

	require.NoError(t, err)
	assert.Equal(t, "Hi there", response.Content)
	assert.Equal(t, []string{"Hi", " there"}, deltas)
	assert.Equal(t, "end_turn", response.FinishReason)
	require.NotNil(t, response.Usage)
	assert.Equal(t, 10, response.Usage.InputTokens)
	assert.Equal(t, 5, response.Usage.OutputTokens)
	assert.Equal(t, 15, response.Usage.TotalTokens)
}

func TestStreamErrorEvent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(t, w,
			`{"type": "content_block_delta", "delta": {"type": "text_delta", "text": "partial"}}`,
			`{"type": "error", "error": {"type": "overloaded_error", "message": "Overloaded"}}`,
		)
	}))
	defer server.Close()

	adapter, err := New("sk-test", WithURL(server.URL))
	require.NoError(t, err)
	client := ai.NewClient(adapter, ai.WithHTTPClient(server.Client()))

	stream, err := client.Stream(context.Background(), nil, ai.NewConfig(adapter.Schema()))
	require.NoError(t, err)

	_, err = stream.Drain(nil)

	classified, ok := ai.AsError(err)
	require.True(t, ok)
	assert.Equal(t, ai.KindProviderRejected, classified.Kind)
	assert.Equal(t, "Overloaded", classified.Message)
}

func TestStreamWithoutMessageStopIsTruncated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(t, w,
			`{"type": "content_block_delta", "delta": {"type": "text_delta", "text": "partial"}}`,
		)
	}))
	defer server.Close()

	adapter, err := New("sk-test", WithURL(server.URL))
	require.NoError(t, err)
	client := ai.NewClient(adapter, ai.WithHTTPClient(server.Client()))

	stream, err := client.Stream(context.Background(), nil, ai.NewConfig(adapter.Schema()))
	require.NoError(t, err)

	_, err = stream.Drain(nil)

	classified, ok := ai.AsError(err)
	require.True(t, ok)
	assert.Equal(t, ai.KindStreamTruncated, classified.Kind)
}
