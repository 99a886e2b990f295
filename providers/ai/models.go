package ai

// MessageRole identifies the author of a conversation message.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is one turn of a conversation in canonical form. Adapters translate
// slices of Message into their provider's wire shape; the conversation history
// itself never contains provider-specific structures.
type Message struct {
	Role    MessageRole
	Content string
	// Citations holds source URLs attached to an assistant message by
	// providers that ground answers in search results. Empty for everyone
	// else.
	Citations []string
}

// Usage reports token accounting for a single exchange. Providers that do not
// return usage leave the response's Usage nil.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// ChatResponse is the canonical result of one completed exchange, whether it
// arrived in a single body or was aggregated from a stream.
type ChatResponse struct {
	Content      string
	Citations    []string
	FinishReason string
	Usage        *Usage
}

// ModelCategory groups a provider's model IDs under a display heading, in the
// order the provider package declares them.
type ModelCategory struct {
	Name   string
	Models []string
}

// Language selects the language of the system prompt injected at request
// build time. The prompt is part of the outbound request only; it is never
// stored in the conversation history.
type Language string

const (
	LanguagePTBR Language = "pt-br"
	LanguageEN   Language = "en"
)

var systemPrompts = map[Language]string{
	LanguagePTBR: "Você é um assistente prestativo. Responda sempre em português do Brasil, de forma clara e natural.",
	LanguageEN:   "You are a helpful assistant. Always answer in English, clearly and naturally.",
}

// SystemPrompt returns the system prompt for lang, falling back to English
// for anything unrecognized.
func SystemPrompt(lang Language) string {
	if prompt, ok := systemPrompts[lang]; ok {
		return prompt
	}
	return systemPrompts[LanguageEN]
}

// Languages lists the supported system prompt languages.
func Languages() []string {
	return []string{string(LanguagePTBR), string(LanguageEN)}
}
