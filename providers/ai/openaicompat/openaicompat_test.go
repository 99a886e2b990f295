package openaicompat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lfpereira/converse/providers/ai"
)

func compatSchema() ai.Schema {
	return ai.NewSchema(
		ai.ParamSpec{Name: ai.ParamModel, Kind: ai.ParamChoice, Choices: []string{"test-model"}, Default: "test-model"},
		ai.ParamSpec{Name: "temperature", Kind: ai.ParamNumber, Min: 0, Max: 2, Default: 0.7},
		ai.ParamSpec{Name: "max_tokens", Kind: ai.ParamOptionalInt, Min: 1},
		ai.ParamSpec{Name: ai.ParamLanguage, Kind: ai.ParamChoice, Choices: ai.Languages(), Default: string(ai.LanguageEN)},
	)
}

func TestBuildMessagesInjectsSystemFirst(t *testing.T) {
	history := []ai.Message{
		{Role: ai.RoleUser, Content: "hello"},
		{Role: ai.RoleAssistant, Content: "hi"},
	}

	messages := BuildMessages(history, "be brief")

	require.Len(t, messages, 3)
	assert.Equal(t, Message{Role: "system", Content: "be brief"}, messages[0])
	assert.Equal(t, "user", messages[1].Role)
	assert.Equal(t, "assistant", messages[2].Role)
}

func TestBuildRequestOmitsUnsetParameters(t *testing.T) {
	config := ai.NewConfig(compatSchema())

	request := BuildRequest(nil, config, false)
	wire, err := json.Marshal(request)
	require.NoError(t, err)

	assert.NotContains(t, string(wire), "max_tokens", "unset optional parameters stay off the wire")
	assert.Contains(t, string(wire), `"temperature":0.7`)
	assert.Contains(t, string(wire), `"stream":false`)
}

func TestBuildRequestSetsMaxTokensWhenConfigured(t *testing.T) {
	config := ai.NewConfig(compatSchema())
	require.True(t, config.Update(map[string]string{"max_tokens": "256"}).OK())

	request := BuildRequest(nil, config, true)

	require.NotNil(t, request.MaxTokens)
	assert.Equal(t, 256, *request.MaxTokens)
	assert.True(t, request.Stream)
}

func TestParseResponse(t *testing.T) {
	body := `{
		"id": "cmpl-1",
		"model": "test-model",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "hello back"}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 9, "completion_tokens": 2, "total_tokens": 11},
		"citations": ["https://example.com/source"]
	}`

	response, err := ParseResponse("testprov", []byte(body))

	require.NoError(t, err)
	assert.Equal(t, "hello back", response.Content)
	assert.Equal(t, "stop", response.FinishReason)
	assert.Equal(t, []string{"https://example.com/source"}, response.Citations)
	require.NotNil(t, response.Usage)
	assert.Equal(t, 11, response.Usage.TotalTokens)
}

func TestParseResponseNoChoices(t *testing.T) {
	_, err := ParseResponse("testprov", []byte(`{"choices": []}`))

	classified, ok := ai.AsError(err)
	require.True(t, ok)
	assert.Equal(t, ai.KindMalformedResponse, classified.Kind)
}

func TestParseStreamEvent(t *testing.T) {
	delta, err := ParseStreamEvent("testprov", []byte(`{"choices": [{"delta": {"content": "Hi"}, "finish_reason": null}]}`))
	require.NoError(t, err)
	require.Len(t, delta, 1)
	assert.Equal(t, ai.StreamDelta, delta[0].Type)
	assert.Equal(t, "Hi", delta[0].Delta)

	final, err := ParseStreamEvent("testprov", []byte(`{"choices": [{"delta": {}, "finish_reason": "stop"}], "citations": ["https://example.com/a"]}`))
	require.NoError(t, err)
	require.Len(t, final, 1)
	assert.Equal(t, ai.StreamDone, final[0].Type)
	assert.Equal(t, "stop", final[0].FinishReason)
	assert.Equal(t, []string{"https://example.com/a"}, final[0].Citations)

	usageOnly, err := ParseStreamEvent("testprov", []byte(`{"choices": [], "usage": {"prompt_tokens": 4, "completion_tokens": 8, "total_tokens": 12}}`))
	require.NoError(t, err)
	require.Len(t, usageOnly, 1)
	assert.Equal(t, ai.StreamUsage, usageOnly[0].Type)
	assert.Equal(t, 12, usageOnly[0].Usage.TotalTokens)
}

func TestParseStreamEventMalformed(t *testing.T) {
	_, err := ParseStreamEvent("testprov", []byte(`{"choices": [`))

	classified, ok := ai.AsError(err)
	require.True(t, ok)
	assert.Equal(t, ai.KindMalformedResponse, classified.Kind)
}
