// Package gemini adapts Google's Gemini generateContent API. Gemini differs
// from the other providers on almost every axis: the model is part of the
// URL path, roles are "user" and "model", the system prompt is a separate
// systemInstruction field, and streaming uses the SSE variant of the same
// endpoint instead of a stream flag in the body.
package gemini

import (
	"fmt"

	"github.com/lfpereira/converse/providers/ai"
)

const (
	providerName  = "gemini"
	credentialEnv = "GEMINI_API_KEY"
	defaultBase   = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel  = "gemini-1.5-flash"
)

// Adapter implements ai.Adapter for Gemini.
type Adapter struct {
	apiKey  string
	baseURL string
}

// Option customizes the adapter.
type Option func(*Adapter)

// WithBaseURL overrides the API base, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(a *Adapter) {
		a.baseURL = baseURL
	}
}

// New creates a Gemini adapter.
func New(apiKey string, opts ...Option) (*Adapter, error) {
	if apiKey == "" {
		return nil, ai.NewCredentialMissing(providerName, credentialEnv)
	}
	adapter := &Adapter{apiKey: apiKey, baseURL: defaultBase}
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
			{Name: "Gemini 1.5", Models: []string{"gemini-1.5-pro", "gemini-1.5-flash", "gemini-1.5-flash-8b"}},
		},
		Streaming: true,
	}
}

func (a *Adapter) Schema() ai.Schema {
	return ai.NewSchema(
		ai.ParamSpec{Name: ai.ParamModel, Kind: ai.ParamChoice, Choices: a.Profile().Models(), Default: defaultModel, Help: "model ID to use"},
		ai.ParamSpec{Name: "temperature", Kind: ai.ParamNumber, Min: 0, Max: 1, Default: 0.7, Help: "sampling temperature"},
		ai.ParamSpec{Name: "top_k", Kind: ai.ParamOptionalInt, Min: 1, Default: 40, Help: "top-k filtering"},
		ai.ParamSpec{Name: "top_p", Kind: ai.ParamNumber, Min: 0, Max: 1, Default: 0.95, Help: "nucleus sampling cutoff"},
		ai.ParamSpec{Name: "max_tokens", Kind: ai.ParamOptionalInt, Min: 1, Default: 2048, Help: "output token limit, or none"},
		ai.ParamSpec{Name: ai.ParamStream, Kind: ai.ParamBool, Default: true, Help: "stream the response"},
		ai.ParamSpec{Name: ai.ParamLanguage, Kind: ai.ParamChoice, Choices: ai.Languages(), Default: string(ai.LanguagePTBR), Help: "system prompt language"},
	)
}

func (a *Adapter) BuildRequest(messages []ai.Message, config *ai.Config, stream bool) (*ai.WireRequest, error) {
	method := "generateContent"
	if stream {
		method = "streamGenerateContent?alt=sse"
	}

	return &ai.WireRequest{
		URL: fmt.Sprintf("%s/models/%s:%s", a.baseURL, config.Model(), method),
		Headers: []ai.Header{
			{Key: "x-goog-api-key", Value: a.apiKey},
		},
		Body: buildRequest(messages, config),
	}, nil
}

func (a *Adapter) ClassifyError(status int, body []byte) *ai.Error {
	return ai.ClassifyStatus(providerName, status, body)
}
