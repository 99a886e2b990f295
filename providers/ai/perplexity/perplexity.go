// Package perplexity adapts Perplexity's search-grounded chat completions
// API. The wire format is OpenAI-compatible with extensions for citations and
// search recency filtering.
package perplexity

import (
	"github.com/lfpereira/converse/providers/ai"
	"github.com/lfpereira/converse/providers/ai/openaicompat"
)

const (
	providerName  = "perplexity"
	credentialEnv = "PERPLEXITY_API_KEY"
	defaultURL    = "https://api.perplexity.ai/chat/completions"
	defaultModel  = "llama-3.1-sonar-large-128k-online"

	// recencyOff is the sentinel choice that omits the recency filter
	// from the request entirely.
	recencyOff = "none"
)

// request extends the shared wire request with Perplexity's search fields.
type request struct {
	openaicompat.Request
	ReturnCitations        bool   `json:"return_citations"`
	ReturnRelatedQuestions bool   `json:"return_related_questions"`
	SearchRecencyFilter    string `json:"search_recency_filter,omitempty"`
}

// Adapter implements ai.Adapter for Perplexity.
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

// New creates a Perplexity adapter.
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
			{Name: "Sonar Online", Models: []string{
				"llama-3.1-sonar-small-128k-online",
				"llama-3.1-sonar-large-128k-online",
				"llama-3.1-sonar-huge-128k-online",
			}},
		},
		Streaming: true,
	}
}

func (a *Adapter) Schema() ai.Schema {
	return ai.NewSchema(
		ai.ParamSpec{Name: ai.ParamModel, Kind: ai.ParamChoice, Choices: a.Profile().Models(), Default: defaultModel, Help: "model ID to use"},
		ai.ParamSpec{Name: "temperature", Kind: ai.ParamNumber, Min: 0, Max: 2, Default: 0.2, Help: "sampling temperature"},
		ai.ParamSpec{Name: "top_p", Kind: ai.ParamNumber, Min: 0, Max: 1, Default: 0.9, Help: "nucleus sampling cutoff"},
		ai.ParamSpec{Name: "top_k", Kind: ai.ParamOptionalInt, Min: 0, Default: 0, Help: "top-k filtering, 0 disables"},
		ai.ParamSpec{Name: "presence_penalty", Kind: ai.ParamNumber, Min: -2, Max: 2, Default: 0.0, Help: "penalize repeated topics"},
		ai.ParamSpec{Name: "frequency_penalty", Kind: ai.ParamNumber, Min: -2, Max: 2, Default: 1.0, Help: "penalize repeated tokens"},
		ai.ParamSpec{Name: "max_tokens", Kind: ai.ParamOptionalInt, Min: 1, Help: "completion token limit, or none"},
		ai.ParamSpec{Name: "search_recency_filter", Kind: ai.ParamChoice, Choices: []string{"month", "week", "day", "hour", recencyOff}, Default: recencyOff, Help: "restrict search results by age"},
		ai.ParamSpec{Name: "return_citations", Kind: ai.ParamBool, Default: true, Help: "attach source URLs to answers"},
		ai.ParamSpec{Name: "return_related_questions", Kind: ai.ParamBool, Default: false, Help: "suggest follow-up questions"},
		ai.ParamSpec{Name: ai.ParamStream, Kind: ai.ParamBool, Default: true, Help: "stream the response"},
		ai.ParamSpec{Name: ai.ParamLanguage, Kind: ai.ParamChoice, Choices: ai.Languages(), Default: string(ai.LanguagePTBR), Help: "system prompt language"},
	)
}

func (a *Adapter) BuildRequest(messages []ai.Message, config *ai.Config, stream bool) (*ai.WireRequest, error) {
	body := request{
		Request:                openaicompat.BuildRequest(messages, config, stream),
		ReturnCitations:        config.Bool("return_citations"),
		ReturnRelatedQuestions: config.Bool("return_related_questions"),
	}
	if recency := config.Text("search_recency_filter"); recency != "" && recency != recencyOff {
		body.SearchRecencyFilter = recency
	}

	return &ai.WireRequest{
		URL: a.url,
		Headers: []ai.Header{
			{Key: "Authorization", Value: "Bearer " + a.apiKey},
		},
		Body: body,
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
