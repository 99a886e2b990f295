// Package openaicompat holds the wire format shared by every provider that
// speaks the OpenAI chat completions dialect (OpenAI itself, Groq,
// Perplexity). Provider packages embed or reuse these structs and add their
// own extensions on top.
package openaicompat

import (
	"encoding/json"
	"fmt"

	"github.com/lfpereira/converse/internal/utils"
	"github.com/lfpereira/converse/providers/ai"
)

// Message is one chat message on the wire.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the common request body. Optional sampling parameters are
// pointers so that an unset parameter is omitted entirely and the provider's
// own default applies.
type Request struct {
	Model            string    `json:"model"`
	Messages         []Message `json:"messages"`
	Temperature      *float64  `json:"temperature,omitempty"`
	TopP             *float64  `json:"top_p,omitempty"`
	TopK             *int      `json:"top_k,omitempty"`
	MaxTokens        *int      `json:"max_tokens,omitempty"`
	PresencePenalty  *float64  `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64  `json:"frequency_penalty,omitempty"`
	Stream           bool      `json:"stream"`
}

// Usage is the token accounting block.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Canonical converts wire usage into the canonical form.
func (u *Usage) Canonical() *ai.Usage {
	if u == nil {
		return nil
	}
	return &ai.Usage{
		InputTokens:  u.PromptTokens,
		OutputTokens: u.CompletionTokens,
		TotalTokens:  u.TotalTokens,
	}
}

// Choice is one completion alternative in a non-streaming response.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Response is the non-streaming response body. Citations is a Perplexity
// extension; other providers simply never set it.
type Response struct {
	ID        string   `json:"id"`
	Model     string   `json:"model"`
	Choices   []Choice `json:"choices"`
	Usage     *Usage   `json:"usage"`
	Citations []string `json:"citations"`
}

// ChunkDelta is the incremental content of one streamed choice.
type ChunkDelta struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChunkChoice is one streamed choice. FinishReason is null until the final
// chunk of the choice.
type ChunkChoice struct {
	Index        int        `json:"index"`
	Delta        ChunkDelta `json:"delta"`
	FinishReason string     `json:"finish_reason"`
}

// Chunk is one streamed SSE payload.
type Chunk struct {
	ID        string        `json:"id"`
	Model     string        `json:"model"`
	Choices   []ChunkChoice `json:"choices"`
	Usage     *Usage        `json:"usage"`
	Citations []string      `json:"citations"`
}

// BuildMessages converts canonical messages into wire messages, prepending
// the system prompt when one is given. The history itself never contains a
// system message; it is injected here, at request build time.
func BuildMessages(messages []ai.Message, systemPrompt string) []Message {
	out := make([]Message, 0, len(messages)+1)
	if systemPrompt != "" {
		out = append(out, Message{Role: string(ai.RoleSystem), Content: systemPrompt})
	}
	for _, message := range messages {
		out = append(out, Message{Role: string(message.Role), Content: message.Content})
	}
	return out
}

// BuildRequest assembles the common request from the configuration. Providers
// with extra knobs extend the result afterwards.
func BuildRequest(messages []ai.Message, config *ai.Config, stream bool) Request {
	request := Request{
		Model:    config.Model(),
		Messages: BuildMessages(messages, ai.SystemPrompt(config.Language())),
		Stream:   stream,
	}
	if temperature, ok := config.Float("temperature"); ok {
		request.Temperature = utils.Ptr(temperature)
	}
	if topP, ok := config.Float("top_p"); ok {
		request.TopP = utils.Ptr(topP)
	}
	if topK, ok := config.Int("top_k"); ok {
		request.TopK = utils.Ptr(topK)
	}
	if maxTokens, ok := config.Int("max_tokens"); ok {
		request.MaxTokens = utils.Ptr(maxTokens)
	}
	if penalty, ok := config.Float("presence_penalty"); ok {
		request.PresencePenalty = utils.Ptr(penalty)
	}
	if penalty, ok := config.Float("frequency_penalty"); ok {
		request.FrequencyPenalty = utils.Ptr(penalty)
	}
	return request
}

// ParseResponse decodes a non-streaming response body into canonical form.
func ParseResponse(provider string, body []byte) (*ai.ChatResponse, error) {
	var wire Response
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, ai.NewMalformedResponse(provider, fmt.Sprintf("decoding chat completion: %v", err), body)
	}
	if len(wire.Choices) == 0 {
		return nil, ai.NewMalformedResponse(provider, "response contains no choices", body)
	}

	choice := wire.Choices[0]
	return &ai.ChatResponse{
		Content:      choice.Message.Content,
		Citations:    wire.Citations,
		FinishReason: choice.FinishReason,
		Usage:        wire.Usage.Canonical(),
	}, nil
}

// ParseStreamEvent decodes one SSE chunk into canonical stream events. A
// non-empty finish_reason marks orderly completion; the trailing [DONE]
// sentinel is consumed by the SSE scanner and never reaches this function.
func ParseStreamEvent(provider string, payload []byte) ([]ai.StreamEvent, error) {
	var chunk Chunk
	if err := json.Unmarshal(payload, &chunk); err != nil {
		return nil, ai.NewMalformedResponse(provider, fmt.Sprintf("decoding stream chunk: %v", err), payload)
	}

	var events []ai.StreamEvent
	for _, choice := range chunk.Choices {
		if choice.Delta.Content != "" {
			events = append(events, ai.StreamEvent{Type: ai.StreamDelta, Delta: choice.Delta.Content})
		}
		if choice.FinishReason != "" {
			done := ai.StreamEvent{
				Type:         ai.StreamDone,
				FinishReason: choice.FinishReason,
				Citations:    chunk.Citations,
			}
			if chunk.Usage != nil {
				done.Usage = chunk.Usage.Canonical()
			}
			events = append(events, done)
		}
	}

	// A chunk with no choices may still carry a usage block.
	if len(events) == 0 && chunk.Usage != nil {
		events = append(events, ai.StreamEvent{Type: ai.StreamUsage, Usage: chunk.Usage.Canonical()})
	}
	return events, nil
}
