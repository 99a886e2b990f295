// Package groq adapts Groq's OpenAI-compatible chat completions API.
package groq

import (
	"github.com/lfpereira/converse/providers/ai"
	"github.com/lfpereira/converse/providers/ai/openaicompat"
)

const (
	providerName  = "groq"
	credentialEnv = "GROQ_API_KEY"
	defaultURL    = "https://api.groq.com/openai/v1/chat/completions"
	defaultModel  = "mixtral-8x7b-32768"
)

// Adapter implements ai.Adapter for Groq.
type Adapter struct {
	apiKey string
	url    string
}

// Option customizes the adapter.
type Option func(*Adapter)

// WithURL overrides the chat completions endpoint, mainly for tests.
func WithURL(url string) Option {
	return func(a *Adapter) {
		a.url = url
	}
}

// New creates a Groq adapter.
func New(apiKey string, opts ...Option) (*Adapter, error) {
	if apiKey == "" {
		return nil, ai.NewCredentialMissing(providerName, credentialEnv)
	}
	adapter := &Adapter{apiKey: apiKey, url: defaultURL}
	for _, opt := range opts {
		opt(adapter)
	}
	return adapter, nil
}

func (a *Adapter) Profile() ai.Profile {
	return ai.Profile{
		Name:          providerName,
		CredentialEnv: credentialEnv,
		Categories: []ai.ModelCategory{
			{Name: "Gemma", Models: []string{"gemma-7b-it", "gemma2-9b-it"}},
			{Name: "LLaMA Tool Use", Models: []string{"llama3-groq-70b-8192-tool-use-preview", "llama3-groq-8b-8192-tool-use-preview"}},
			{Name: "LLaMA 3.1", Models: []string{"llama-3.1-70b-versatile", "llama-3.1-8b-instant"}},
			{Name: "LLaMA 3.2 Preview", Models: []string{"llama-3.2-1b-preview", "llama-3.2-3b-preview", "llama-3.2-11b-vision-preview", "llama-3.2-90b-vision-preview"}},
			{Name: "Mixtral", Models: []string{"mixtral-8x7b-32768"}},
		},
		Streaming: true,
	}
}

func (a *Adapter) Schema() ai.Schema {
	return ai.NewSchema(
		ai.ParamSpec{Name: ai.ParamModel, Kind: ai.ParamChoice, Choices: a.Profile().Models(), Default: defaultModel, Help: "model ID to use"},
		ai.ParamSpec{Name: "temperature", Kind: ai.ParamNumber, Min: 0, Max: 2, Default: 0.7, Help: "sampling temperature"},
		ai.ParamSpec{Name: "top_p", Kind: ai.ParamNumber, Min: 0, Max: 1, Default: 1.0, Help: "nucleus sampling cutoff"},
		ai.ParamSpec{Name: "max_tokens", Kind: ai.ParamOptionalInt, Min: 1, Help: "completion token limit, or none"},
		ai.ParamSpec{Name: ai.ParamStream, Kind: ai.ParamBool, Default: true, Help: "stream the response"},
		ai.ParamSpec{Name: ai.ParamLanguage, Kind: ai.ParamChoice, Choices: ai.Languages(), Default: string(ai.LanguagePTBR), Help: "system prompt language"},
	)
}

func (a *Adapter) BuildRequest(messages []ai.Message, config *ai.Config, stream bool) (*ai.WireRequest, error) {
	return &ai.WireRequest{
		URL: a.url,
		Headers: []ai.Header{
			{Key: "Authorization", Value: "Bearer " + a.apiKey},
		},
		Body: openaicompat.BuildRequest(messages, config, stream),
	}, nil
}

func (a *Adapter) ParseResponse(body []byte) (*ai.ChatResponse, error) {
	return openaicompat.ParseResponse(providerName, body)
}

func (a *Adapter) ParseStreamEvent(payload []byte) ([]ai.StreamEvent, error) {
	return openaicompat.ParseStreamEvent(providerName, payload)
}

func (a *Adapter) ClassifyError(status int, body []byte) *ai.Error {
	return ai.ClassifyStatus(providerName, status, body)
}
