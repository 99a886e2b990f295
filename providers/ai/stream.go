package ai

import (
	"iter"
	"strings"
)

// StreamEventType tags one event of a streamed response.
type StreamEventType string

const (
	// StreamDelta carries an incremental slice of assistant text.
	StreamDelta StreamEventType = "delta"
	// StreamUsage carries token accounting, usually near the end.
	StreamUsage StreamEventType = "usage"
	// StreamDone marks orderly completion. A stream that ends without one
	// is truncated.
	StreamDone StreamEventType = "done"
	// StreamFailed carries an in-band provider error event.
	StreamFailed StreamEventType = "failed"
)

// StreamEvent is one canonical event of a streamed response. FinishReason may
// ride on any event type because some providers report it before their
// terminal event.
type StreamEvent struct {
	Type         StreamEventType
	Delta        string
	FinishReason string
	Citations    []string
	Usage        *Usage
	Err          *Error
}

// Sink receives each text delta as it arrives, in order, exactly once.
type Sink func(delta string)

// ChatStream is a lazily evaluated streamed response. Iteration drives the
// underlying HTTP body; the body is closed when iteration finishes, whether
// by completion, error or early break.
type ChatStream struct {
	provider string
	events   iter.Seq2[StreamEvent, error]
}

// NewChatStream wraps an event iterator for the named provider.
func NewChatStream(provider string, events iter.Seq2[StreamEvent, error]) *ChatStream {
	return &ChatStream{provider: provider, events: events}
}

// Events exposes the raw event iterator for callers that want to render
// events themselves instead of using Drain.
func (s *ChatStream) Events() iter.Seq2[StreamEvent, error] {
	return s.events
}

// Drain consumes the stream to completion, forwarding each text delta to sink
// as it arrives, and returns the aggregated response. The concatenation of
// deltas passed to sink equals the returned Content. A stream that ends
// without a done event fails as truncated and contributes nothing to the
// caller's state; a nil sink just aggregates.
func (s *ChatStream) Drain(sink Sink) (*ChatResponse, error) {
	var content strings.Builder
	response := &ChatResponse{}
	done := false

	for event, err := range s.events {
		if err != nil {
			if classified, ok := AsError(err); ok {
				return nil, classified
			}
			return nil, NewNetworkError(s.provider, err)
		}

		if event.FinishReason != "" {
			response.FinishReason = event.FinishReason
		}
		if len(event.Citations) > 0 {
			response.Citations = event.Citations
		}
		if event.Usage != nil {
			response.Usage = mergeUsage(response.Usage, event.Usage)
		}

		switch event.Type {
		case StreamDelta:
			if event.Delta != "" {
				content.WriteString(event.Delta)
				if sink != nil {
					sink(event.Delta)
				}
			}
		case StreamDone:
			done = true
		case StreamFailed:
			if event.Err != nil {
				return nil, event.Err
			}
			return nil, &Error{Provider: s.provider, Kind: KindProviderRejected, Message: "provider reported a stream failure"}
		}

		if done {
			break
		}
	}

	if !done {
		return nil, NewStreamTruncated(s.provider)
	}

	response.Content = content.String()
	return response, nil
}

// mergeUsage folds a partial usage block into the accumulated one. Providers
// that split accounting across events (input tokens early, output tokens
// late) report nonzero fields incrementally; later nonzero values win.
func mergeUsage(accumulated, incoming *Usage) *Usage {
	if accumulated == nil {
		merged := *incoming
		if merged.TotalTokens == 0 {
			merged.TotalTokens = merged.InputTokens + merged.OutputTokens
		}
		return &merged
	}
	if incoming.InputTokens > 0 {
		accumulated.InputTokens = incoming.InputTokens
	}
	if incoming.OutputTokens > 0 {
		accumulated.OutputTokens = incoming.OutputTokens
	}
	if incoming.TotalTokens > 0 {
		accumulated.TotalTokens = incoming.TotalTokens
	} else {
		accumulated.TotalTokens = accumulated.InputTokens + accumulated.OutputTokens
	}
	return accumulated
}
