package ai

import (
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventsFrom(events ...StreamEvent) iter.Seq2[StreamEvent, error] {
	return func(yield func(StreamEvent, error) bool) {
		for _, event := range events {
			if !yield(event, nil) {
				return
			}
		}
	}
}

func TestDrainAggregatesDeltasInOrder(t *testing.T) {
	stream := NewChatStream("testprov", eventsFrom(
		StreamEvent{Type: StreamDelta, Delta: "Hi"},
		StreamEvent{Type: StreamDelta, Delta: " there"},
		StreamEvent{Type: StreamDone, FinishReason: "stop"},
	))

	var forwarded []string
	response, err := stream.Drain(func(delta string) {
		forwarded = append(forwarded, delta)
	})

	require.NoError(t, err)
	assert.Equal(t, "Hi there", response.Content)
	assert.Equal(t, "stop", response.FinishReason)
	assert.Equal(t, []string{"Hi", " there"}, forwarded, "each delta reaches the sink once, in order")
}

func TestDrainWithoutDoneIsTruncated(t *testing.T) {
	stream := NewChatStream("testprov", eventsFrom(
		StreamEvent{Type: StreamDelta, Delta: "partial"},
	))

	response, err := stream.Drain(nil)

	require.Nil(t, response)
	classified, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindStreamTruncated, classified.Kind)
	assert.Equal(t, "testprov", classified.Provider)
}

func TestDrainStopsAtFailedEvent(t *testing.T) {
	providerErr := &Error{Provider: "testprov", Kind: KindProviderRejected, Message: "overloaded"}
	stream := NewChatStream("testprov", eventsFrom(
		StreamEvent{Type: StreamDelta, Delta: "Hi"},
		StreamEvent{Type: StreamFailed, Err: providerErr},
	))

	response, err := stream.Drain(nil)

	require.Nil(t, response)
	classified, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindProviderRejected, classified.Kind)
	assert.Equal(t, "overloaded", classified.Message)
}

func TestDrainCollectsUsageAndCitations(t *testing.T) {
	stream := NewChatStream("testprov", eventsFrom(
		StreamEvent{Type: StreamDelta, Delta: "answer"},
		StreamEvent{Type: StreamUsage, Usage: &Usage{InputTokens: 12, OutputTokens: 3, TotalTokens: 15}},
		StreamEvent{Type: StreamDone, FinishReason: "stop", Citations: []string{"https://example.com/a"}},
	))

	response, err := stream.Drain(nil)

	require.NoError(t, err)
	require.NotNil(t, response.Usage)
	assert.Equal(t, 15, response.Usage.TotalTokens)
	assert.Equal(t, []string{"https://example.com/a"}, response.Citations)
}

func TestDrainFinishReasonBeforeDone(t *testing.T) {
	// Some providers report the finish reason on a bookkeeping event that
	// precedes the terminal one.
	stream := NewChatStream("testprov", eventsFrom(
		StreamEvent{Type: StreamDelta, Delta: "done soon"},
		StreamEvent{Type: StreamUsage, FinishReason: "max_tokens", Usage: &Usage{OutputTokens: 2}},
		StreamEvent{Type: StreamDone},
	))

	response, err := stream.Drain(nil)

	require.NoError(t, err)
	assert.Equal(t, "max_tokens", response.FinishReason)
}

func TestDrainWrapsIteratorErrors(t *testing.T) {
	cause := errors.New("connection reset")
	stream := NewChatStream("testprov", func(yield func(StreamEvent, error) bool) {
		if !yield(StreamEvent{Type: StreamDelta, Delta: "Hi"}, nil) {
			return
		}
		yield(StreamEvent{}, cause)
	})

	_, err := stream.Drain(nil)

	classified, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindNetwork, classified.Kind)
	assert.ErrorIs(t, classified, cause)
}
