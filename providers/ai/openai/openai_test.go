package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lfpereira/converse/providers/ai"
	"github.com/lfpereira/converse/providers/ai/openaicompat"
)

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New("")

	classified, ok := ai.AsError(err)
	require.True(t, ok)
	assert.Equal(t, ai.KindCredentialMissing, classified.Kind)
	assert.Contains(t, classified.Message, "OPENAI_API_KEY")
}

func TestBuildRequest(t *testing.T) {
	adapter, err := New("sk-test")
	require.NoError(t, err)
	config := ai.NewConfig(adapter.Schema())

	wire, err := adapter.BuildRequest([]ai.Message{{Role: ai.RoleUser, Content: "hello"}}, config, true)
	require.NoError(t, err)

	assert.Equal(t, "https://api.openai.com/v1/chat/completions", wire.URL)
	assert.Contains(t, wire.Headers, ai.Header{Key: "Authorization", Value: "Bearer sk-test"})

	body, ok := wire.Body.(openaicompat.Request)
	require.True(t, ok)
	assert.Equal(t, "gpt-3.5-turbo", body.Model)
	assert.True(t, body.Stream)
	require.Len(t, body.Messages, 2, "system prompt plus the user turn")
	assert.Equal(t, "system", body.Messages[0].Role)
}

func TestSamplingParametersReachTheWire(t *testing.T) {
	adapter, err := New("sk-test")
	require.NoError(t, err)
	config := ai.NewConfig(adapter.Schema())
	require.True(t, config.Update(map[string]string{
		"top_p":             "0.8",
		"presence_penalty":  "0.5",
		"frequency_penalty": "-0.5",
	}).OK())

	wire, err := adapter.BuildRequest(nil, config, false)
	require.NoError(t, err)

	body := wire.Body.(openaicompat.Request)
	require.NotNil(t, body.TopP)
	assert.Equal(t, 0.8, *body.TopP)
	require.NotNil(t, body.PresencePenalty)
	assert.Equal(t, 0.5, *body.PresencePenalty)
	require.NotNil(t, body.FrequencyPenalty)
	assert.Equal(t, -0.5, *body.FrequencyPenalty)
}

func TestProfileModels(t *testing.T) {
	adapter, err := New("sk-test")
	require.NoError(t, err)

	profile := adapter.Profile()

	assert.True(t, profile.HasModel("gpt-4o"))
	assert.True(t, profile.HasModel("o1-mini"))
	assert.False(t, profile.HasModel("gpt-9"))
	assert.True(t, profile.Streaming)
}

func TestClassifyModelNotFound(t *testing.T) {
	adapter, err := New("sk-test")
	require.NoError(t, err)

	classified := adapter.ClassifyError(404, []byte(`{"error": {"message": "The model does not exist", "code": "model_not_found"}}`))

	assert.Equal(t, ai.KindModelUnavailable, classified.Kind)
	assert.Equal(t, 404, classified.HTTPStatus)
}
