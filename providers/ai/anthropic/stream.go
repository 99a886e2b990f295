package anthropic

import (
	"encoding/json"
	"fmt"

	"github.com/lfpereira/converse/providers/ai"
)

// ParseStreamEvent maps one Messages API SSE payload onto canonical events.
//
// The SSE lifecycle is:
//
//	message_start → content_block_start → content_block_delta(s) →
//	content_block_stop → message_delta → message_stop
//
// Input tokens arrive on message_start, output tokens and the stop reason on
// message_delta, and message_stop is the terminal event. Each payload maps
// independently; the aggregator merges the partial usage blocks.
func (a *Adapter) ParseStreamEvent(payload []byte) ([]ai.StreamEvent, error) {
	var event streamEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, ai.NewMalformedResponse(providerName, fmt.Sprintf("decoding stream event: %v", err), payload)
	}

	switch event.Type {
	case "message_start":
		if event.Message == nil {
			return nil, nil
		}
		return []ai.StreamEvent{{
			Type:  ai.StreamUsage,
			Usage: &ai.Usage{InputTokens: event.Message.Usage.InputTokens},
		}}, nil

	case "content_block_delta":
		if event.Delta == nil || event.Delta.Type != "text_delta" {
			return nil, nil
		}
		return []ai.StreamEvent{{Type: ai.StreamDelta, Delta: event.Delta.Text}}, nil

	case "message_delta":
		streamUsage := ai.StreamEvent{Type: ai.StreamUsage}
		if event.Delta != nil {
			streamUsage.FinishReason = event.Delta.StopReason
		}
		if event.Usage != nil {
			streamUsage.Usage = &ai.Usage{OutputTokens: event.Usage.OutputTokens}
		}
		return []ai.StreamEvent{streamUsage}, nil

	case "message_stop":
		return []ai.StreamEvent{{Type: ai.StreamDone}}, nil

	case "error":
		failure := &ai.Error{Provider: providerName, Kind: ai.KindProviderRejected, Message: "stream error"}
		if event.Error != nil {
			failure.Message = event.Error.Message
		}
		return []ai.StreamEvent{{Type: ai.StreamFailed, Err: failure}}, nil
	}

	// ping, content_block_start, content_block_stop and future event types
	// carry nothing the aggregator needs.
	return nil, nil
}
