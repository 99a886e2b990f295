package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/lfpereira/converse/providers/ai"
	"github.com/lfpereira/converse/providers/ai/anthropic"
	"github.com/lfpereira/converse/providers/ai/gemini"
	"github.com/lfpereira/converse/providers/ai/groq"
	"github.com/lfpereira/converse/providers/ai/openai"
	"github.com/lfpereira/converse/providers/ai/perplexity"
)

// providerNames lists the selectable providers in display order.
var providerNames = []string{"anthropic", "groq", "perplexity", "openai", "gemini"}

// Providers returns the names accepted by NewAdapter.
func Providers() []string {
	out := make([]string, len(providerNames))
	copy(out, providerNames)
	return out
}

// NewAdapter builds the adapter for name, reading its credential from the
// environment. This is the only place credentials are read; adapters receive
// them as plain arguments.
func NewAdapter(name string) (ai.Adapter, error) {
	switch name {
	case "anthropic":
		return anthropic.New(os.Getenv("ANTHROPIC_API_KEY"))
	case "groq":
		return groq.New(os.Getenv("GROQ_API_KEY"))
	case "perplexity":
		return perplexity.New(os.Getenv("PERPLEXITY_API_KEY"))
	case "openai":
		return openai.New(os.Getenv("OPENAI_API_KEY"))
	case "gemini":
		return gemini.New(os.Getenv("GEMINI_API_KEY"))
	}
	return nil, &ai.Error{
		Kind:    ai.KindConfigInvalid,
		Key:     "provider",
		Message: fmt.Sprintf("unknown provider %q; choose one of: %s", name, strings.Join(providerNames, ", ")),
	}
}
