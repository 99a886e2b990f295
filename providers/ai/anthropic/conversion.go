package anthropic

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lfpereira/converse/internal/utils"
	"github.com/lfpereira/converse/providers/ai"
)

// buildRequest converts the conversation and configuration into a Messages
// API request. The system prompt travels in the top-level system field, never
// as a message; a configured system override wins over the language prompt,
// and max_tokens is always set because the API requires it.
func buildRequest(messages []ai.Message, config *ai.Config, stream bool) anthropicRequest {
	system := config.Text("system")
	if system == "" {
		system = ai.SystemPrompt(config.Language())
	}

	request := anthropicRequest{
		Model:     config.Model(),
		System:    system,
		Messages:  buildMessages(messages),
		MaxTokens: defaultMaxTokens,
		Stream:    stream,
	}

	if temperature, ok := config.Float("temperature"); ok {
		request.Temperature = utils.Ptr(temperature)
	}
	if topP, ok := config.Float("top_p"); ok {
		request.TopP = utils.Ptr(topP)
	}
	if maxTokens, ok := config.Int("max_tokens"); ok {
		request.MaxTokens = maxTokens
	}
	return request
}

// buildMessages converts canonical messages into wire messages. The Messages
// API only accepts user and assistant roles here; a system message in the
// history would be a programming error upstream and is skipped.
func buildMessages(messages []ai.Message) []anthropicMessage {
	out := make([]anthropicMessage, 0, len(messages))
	for _, message := range messages {
		if message.Role == ai.RoleSystem {
			continue
		}
		out = append(out, anthropicMessage{
			Role:    string(message.Role),
			Content: message.Content,
		})
	}
	return out
}

// ParseResponse decodes a non-streaming Messages API response. Text content
// blocks are concatenated; Anthropic usually sends exactly one.
func (a *Adapter) ParseResponse(body []byte) (*ai.ChatResponse, error) {
	var wire anthropicResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, ai.NewMalformedResponse(providerName, fmt.Sprintf("decoding message: %v", err), body)
	}
	if len(wire.Content) == 0 {
		return nil, ai.NewMalformedResponse(providerName, "response contains no content blocks", body)
	}

	var text strings.Builder
	for _, block := range wire.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &ai.ChatResponse{
		Content:      text.String(),
		FinishReason: wire.StopReason,
		Usage: &ai.Usage{
			InputTokens:  wire.Usage.InputTokens,
			OutputTokens: wire.Usage.OutputTokens,
			TotalTokens:  wire.Usage.InputTokens + wire.Usage.OutputTokens,
		},
	}, nil
}
