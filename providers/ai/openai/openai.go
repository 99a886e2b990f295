// Package openai adapts OpenAI's chat completions API.
package openai

import (
	"github.com/lfpereira/converse/providers/ai"
	"github.com/lfpereira/converse/providers/ai/openaicompat"
)

const (
	providerName  = "openai"
	credentialEnv = "OPENAI_API_KEY"
	defaultURL    = "https://api.openai.com/v1/chat/completions"
	defaultModel  = "gpt-3.5-turbo"
)

// Adapter implements ai.Adapter for OpenAI.
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

// New creates an OpenAI adapter. The key must be non-empty; the caller reads
// it from the environment.
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
			{Name: "GPT-4o", Models: []string{"gpt-4o", "gpt-4o-mini"}},
			{Name: "GPT-4", Models: []string{"gpt-4-turbo", "gpt-4"}},
			{Name: "GPT-3.5", Models: []string{"gpt-3.5-turbo"}},
			{Name: "o1", Models: []string{"o1-preview", "o1-mini"}},
		},
		Streaming: true,
	}
}

func (a *Adapter) Schema() ai.Schema {
	return ai.NewSchema(
		ai.ParamSpec{Name: ai.ParamModel, Kind: ai.ParamChoice, Choices: a.Profile().Models(), Default: defaultModel, Help: "model ID to use"},
		ai.ParamSpec{Name: "temperature", Kind: ai.ParamNumber, Min: 0, Max: 2, Default: 0.7, Help: "sampling temperature"},
		ai.ParamSpec{Name: "top_p", Kind: ai.ParamNumber, Min: 0, Max: 1, Default: 1.0, Help: "nucleus sampling cutoff"},
		ai.ParamSpec{Name: "presence_penalty", Kind: ai.ParamNumber, Min: -2, Max: 2, Default: 0.0, Help: "penalize repeated topics"},
		ai.ParamSpec{Name: "frequency_penalty", Kind: ai.ParamNumber, Min: -2, Max: 2, Default: 0.0, Help: "penalize repeated tokens"},
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
