package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lfpereira/converse/internal/utils"
	"github.com/lfpereira/converse/providers/ai"
)

// buildRequest converts the conversation and configuration into a
// generateContent request. The assistant role becomes "model" and the system
// prompt travels as systemInstruction.
func buildRequest(messages []ai.Message, config *ai.Config) geminiRequest {
	request := geminiRequest{
		Contents: buildContents(messages),
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: ai.SystemPrompt(config.Language())}},
		},
	}

	generation := &geminiGenerationConfig{}
	if temperature, ok := config.Float("temperature"); ok {
		generation.Temperature = utils.Ptr(temperature)
	}
	if topK, ok := config.Int("top_k"); ok {
		generation.TopK = utils.Ptr(topK)
	}
	if topP, ok := config.Float("top_p"); ok {
		generation.TopP = utils.Ptr(topP)
	}
	if maxTokens, ok := config.Int("max_tokens"); ok {
		generation.MaxOutputTokens = utils.Ptr(maxTokens)
	}
	if *generation != (geminiGenerationConfig{}) {
		request.GenerationConfig = generation
	}
	return request
}

func buildContents(messages []ai.Message) []geminiContent {
	out := make([]geminiContent, 0, len(messages))
	for _, message := range messages {
		role := "user"
		if message.Role == ai.RoleAssistant {
			role = "model"
		}
		out = append(out, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: message.Content}},
		})
	}
	return out
}

// ParseResponse decodes a non-streaming generateContent response, joining
// the text parts of the first candidate.
func (a *Adapter) ParseResponse(body []byte) (*ai.ChatResponse, error) {
	var wire geminiResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, ai.NewMalformedResponse(providerName, fmt.Sprintf("decoding response: %v", err), body)
	}
	if len(wire.Candidates) == 0 {
		return nil, ai.NewMalformedResponse(providerName, "response contains no candidates", body)
	}

	candidate := wire.Candidates[0]
	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		text.WriteString(part.Text)
	}

	response := &ai.ChatResponse{
		Content:      text.String(),
		FinishReason: candidate.FinishReason,
	}
	if wire.UsageMetadata != nil {
		response.Usage = wire.UsageMetadata.canonical()
	}
	return response, nil
}

func (u *geminiUsage) canonical() *ai.Usage {
	return &ai.Usage{
		InputTokens:  u.PromptTokenCount,
		OutputTokens: u.CandidatesTokenCount,
		TotalTokens:  u.TotalTokenCount,
	}
}
