package gemini

import (
	"encoding/json"
	"fmt"

	"github.com/lfpereira/converse/providers/ai"
)

// ParseStreamEvent maps one streamGenerateContent SSE payload onto canonical
// events. Chunks reuse the response shape; the final chunk carries a
// finishReason on its candidate, which marks orderly completion because the
// SSE stream has no sentinel of its own.
func (a *Adapter) ParseStreamEvent(payload []byte) ([]ai.StreamEvent, error) {
	var chunk geminiResponse
	if err := json.Unmarshal(payload, &chunk); err != nil {
		return nil, ai.NewMalformedResponse(providerName, fmt.Sprintf("decoding stream chunk: %v", err), payload)
	}

	var events []ai.StreamEvent
	for _, candidate := range chunk.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				events = append(events, ai.StreamEvent{Type: ai.StreamDelta, Delta: part.Text})
			}
		}
		if candidate.FinishReason != "" {
			done := ai.StreamEvent{Type: ai.StreamDone, FinishReason: candidate.FinishReason}
			if chunk.UsageMetadata != nil {
				done.Usage = chunk.UsageMetadata.canonical()
			}
			events = append(events, done)
		}
	}

	if len(events) == 0 && chunk.UsageMetadata != nil {
		events = append(events, ai.StreamEvent{Type: ai.StreamUsage, Usage: chunk.UsageMetadata.canonical()})
	}
	return events, nil
}
