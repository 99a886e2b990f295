package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() Schema {
	return NewSchema(
		ParamSpec{Name: ParamModel, Kind: ParamChoice, Choices: []string{"alpha-large", "alpha-small"}, Default: "alpha-small"},
		ParamSpec{Name: "temperature", Kind: ParamNumber, Min: 0, Max: 2, Default: 0.7},
		ParamSpec{Name: "max_tokens", Kind: ParamOptionalInt, Min: 1, Default: nil},
		ParamSpec{Name: ParamStream, Kind: ParamBool, Default: true},
		ParamSpec{Name: ParamLanguage, Kind: ParamChoice, Choices: Languages(), Default: string(LanguagePTBR)},
	)
}

func TestNewConfigSeedsDefaults(t *testing.T) {
	cfg := NewConfig(testSchema())

	assert.Equal(t, "alpha-small", cfg.Model())
	temperature, ok := cfg.Float("temperature")
	require.True(t, ok)
	assert.Equal(t, 0.7, temperature)
	assert.True(t, cfg.Stream())
	assert.Equal(t, LanguagePTBR, cfg.Language())

	_, ok = cfg.Int("max_tokens")
	assert.False(t, ok, "nil default must start unset")
}

func TestUpdateAcceptsValidValues(t *testing.T) {
	cfg := NewConfig(testSchema())

	result := cfg.Update(map[string]string{
		"temperature": "1.5",
		"max_tokens":  "256",
		ParamModel:    "alpha-large",
		ParamStream:   "false",
	})

	require.True(t, result.OK())
	assert.Len(t, result.Applied, 4)
	assert.Empty(t, result.Ignored)

	temperature, _ := cfg.Float("temperature")
	assert.Equal(t, 1.5, temperature)
	maxTokens, ok := cfg.Int("max_tokens")
	require.True(t, ok)
	assert.Equal(t, 256, maxTokens)
	assert.Equal(t, "alpha-large", cfg.Model())
	assert.False(t, cfg.Stream())
}

func TestUpdateRejectsOutOfRangeNumber(t *testing.T) {
	cfg := NewConfig(testSchema())

	result := cfg.Update(map[string]string{"temperature": "3.5"})

	require.Len(t, result.Rejected, 1)
	rejected := result.Rejected[0]
	assert.Equal(t, KindConfigInvalid, rejected.Kind)
	assert.Equal(t, "temperature", rejected.Key)
	assert.Contains(t, rejected.Message, "[0, 2]")

	// Rejected values never touch the stored config.
	temperature, _ := cfg.Float("temperature")
	assert.Equal(t, 0.7, temperature)
}

func TestUpdateRejectsUnknownModelAsModelUnavailable(t *testing.T) {
	cfg := NewConfig(testSchema())

	result := cfg.Update(map[string]string{ParamModel: "omega-9000"})

	require.Len(t, result.Rejected, 1)
	assert.Equal(t, KindModelUnavailable, result.Rejected[0].Kind)
	assert.Contains(t, result.Rejected[0].Message, "alpha-large")
	assert.Equal(t, "alpha-small", cfg.Model())
}

func TestUpdateKeysAreIndependent(t *testing.T) {
	cfg := NewConfig(testSchema())

	result := cfg.Update(map[string]string{
		"temperature": "1.2",
		"max_tokens":  "not-a-number",
		"flux":        "9",
	})

	assert.Contains(t, result.Applied, "temperature")
	assert.Equal(t, []string{"flux"}, result.Ignored)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, "max_tokens", result.Rejected[0].Key)

	temperature, _ := cfg.Float("temperature")
	assert.Equal(t, 1.2, temperature, "valid keys apply even when siblings fail")
}

func TestUpdateNoneUnsetsOptionalInt(t *testing.T) {
	cfg := NewConfig(testSchema())
	cfg.Update(map[string]string{"max_tokens": "128"})

	result := cfg.Update(map[string]string{"max_tokens": "none"})

	require.True(t, result.OK())
	_, ok := cfg.Int("max_tokens")
	assert.False(t, ok)
}

func TestUpdateRejectsOptionalIntBelowMinimum(t *testing.T) {
	cfg := NewConfig(testSchema())

	result := cfg.Update(map[string]string{"max_tokens": "0"})

	require.Len(t, result.Rejected, 1)
	assert.Equal(t, KindConfigInvalid, result.Rejected[0].Kind)
}

func TestPairsFollowSchemaOrder(t *testing.T) {
	cfg := NewConfig(testSchema())

	pairs := cfg.Pairs()

	require.Len(t, pairs, 5)
	assert.Equal(t, ParamModel, pairs[0].Name)
	assert.Equal(t, "temperature", pairs[1].Name)
	assert.Equal(t, "max_tokens", pairs[2].Name)
	assert.Nil(t, pairs[2].Value)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "none", FormatValue(nil))
	assert.Equal(t, "0.7", FormatValue(0.7))
	assert.Equal(t, "1", FormatValue(1.0))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "128", FormatValue(128))
	assert.Equal(t, "alpha-small", FormatValue("alpha-small"))
}
