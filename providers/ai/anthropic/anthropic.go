// Package anthropic adapts Anthropic's Messages API. Unlike the
// OpenAI-compatible providers, Anthropic takes the system prompt as a
// top-level field, requires max_tokens on every request, and bounds the
// temperature at 1.
package anthropic

import (
	"github.com/lfpereira/converse/providers/ai"
)

const (
	providerName  = "anthropic"
	credentialEnv = "ANTHROPIC_API_KEY"
	defaultURL    = "https://api.anthropic.com/v1/messages"
	defaultModel  = "claude-3-5-sonnet-20241022"

	// apiVersion is pinned; Anthropic rejects requests without it.
	apiVersion = "2023-06-01"

	// defaultMaxTokens applies when the user unsets max_tokens, because
	// the Messages API refuses requests without a limit.
	defaultMaxTokens = 1000
)

// Adapter implements ai.Adapter for Anthropic.
type Adapter struct {
	apiKey string
	url    string
}

// Option customizes the adapter.
type Option func(*Adapter)

// WithURL overrides the messages endpoint, mainly for tests.
func WithURL(url string) Option {
	return func(a *Adapter) {
		a.url = url
	}
}

// New creates an Anthropic adapter.
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
			{Name: "Claude 3.5 Sonnet", Models: []string{"claude-3-5-sonnet-20241022", "claude-3-5-sonnet-20240620"}},
			{Name: "Claude 3.5 Haiku", Models: []string{"claude-3-5-haiku-20241022"}},
		},
		Streaming: true,
	}
}

func (a *Adapter) Schema() ai.Schema {
	return ai.NewSchema(
		ai.ParamSpec{Name: ai.ParamModel, Kind: ai.ParamChoice, Choices: a.Profile().Models(), Default: defaultModel, Help: "model ID to use"},
		ai.ParamSpec{Name: "temperature", Kind: ai.ParamNumber, Min: 0, Max: 1, Default: 0.7, Help: "sampling temperature"},
		ai.ParamSpec{Name: "top_p", Kind: ai.ParamNumber, Min: 0, Max: 1, Help: "nucleus sampling cutoff"},
		ai.ParamSpec{Name: "max_tokens", Kind: ai.ParamOptionalInt, Min: 1, Default: defaultMaxTokens, Help: "completion token limit"},
		ai.ParamSpec{Name: ai.ParamStream, Kind: ai.ParamBool, Default: true, Help: "stream the response"},
		ai.ParamSpec{Name: ai.ParamLanguage, Kind: ai.ParamChoice, Choices: ai.Languages(), Default: string(ai.LanguagePTBR), Help: "system prompt language"},
		ai.ParamSpec{Name: "system", Kind: ai.ParamText, Help: "system prompt override; empty uses the language prompt"},
	)
}

func (a *Adapter) BuildRequest(messages []ai.Message, config *ai.Config, stream bool) (*ai.WireRequest, error) {
	return &ai.WireRequest{
		URL: a.url,
		Headers: []ai.Header{
			{Key: "x-api-key", Value: a.apiKey},
			{Key: "anthropic-version", Value: apiVersion},
		},
		Body: buildRequest(messages, config, stream),
	}, nil
}

func (a *Adapter) ClassifyError(status int, body []byte) *ai.Error {
	return ai.ClassifyStatus(providerName, status, body)
}
