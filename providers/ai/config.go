package ai

import (
	"fmt"
	"strconv"
	"strings"
)

// Reserved parameter names the core layers read directly. Every provider
// schema declares "model"; "language" and "stream" are declared by providers
// that expose them and read with safe fallbacks otherwise.
const (
	ParamModel    = "model"
	ParamLanguage = "language"
	ParamStream   = "stream"
)

// Config holds the validated current values for one provider's schema. Values
// only enter through Update or the schema defaults, so a Config can always be
// serialized into a request without re-validation.
type Config struct {
	schema Schema
	values map[string]any
}

// NewConfig seeds a config with the schema's defaults. Parameters with a nil
// default start unset.
func NewConfig(schema Schema) *Config {
	values := make(map[string]any, schema.Len())
	for _, spec := range schema.Params() {
		if spec.Default != nil {
			values[spec.Name] = spec.Default
		}
	}
	return &Config{schema: schema, values: values}
}

// UpdateResult reports the outcome of a batch update, key by key.
type UpdateResult struct {
	Applied  map[string]any
	Ignored  []string
	Rejected []*Error
}

// OK reports whether every recognized key was accepted.
func (r UpdateResult) OK() bool {
	return len(r.Rejected) == 0
}

// Update applies a batch of raw string values. Keys are independent: an
// unknown key is recorded as ignored, an invalid value is recorded as
// rejected, and neither prevents the other keys from being applied. The
// config is never left in a partially invalid state because each value is
// validated before it is stored.
func (c *Config) Update(updates map[string]string) UpdateResult {
	result := UpdateResult{Applied: make(map[string]any)}

	for key, raw := range updates {
		spec, ok := c.schema.Lookup(key)
		if !ok {
			result.Ignored = append(result.Ignored, key)
			continue
		}

		value, reason := coerceParam(spec, raw)
		if reason != "" {
			if key == ParamModel {
				result.Rejected = append(result.Rejected, &Error{
					Kind:    KindModelUnavailable,
					Key:     key,
					Reason:  reason,
					Message: reason,
				})
			} else {
				result.Rejected = append(result.Rejected, NewConfigInvalid(key, reason))
			}
			continue
		}

		if value == nil {
			delete(c.values, key)
		} else {
			c.values[key] = value
		}
		result.Applied[key] = value
	}
	return result
}

// coerceParam validates raw against spec and returns the typed value, or a
// non-empty rejection reason. A nil value with an empty reason means the
// parameter was explicitly unset.
func coerceParam(spec ParamSpec, raw string) (any, string) {
	raw = strings.TrimSpace(raw)

	switch spec.Kind {
	case ParamNumber:
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Sprintf("%q is not a number", raw)
		}
		if value < spec.Min || value > spec.Max {
			return nil, fmt.Sprintf("value %g is out of range [%g, %g]", value, spec.Min, spec.Max)
		}
		return value, ""

	case ParamChoice:
		for _, choice := range spec.Choices {
			if raw == choice {
				return raw, ""
			}
		}
		return nil, fmt.Sprintf("%q is not available; choose one of: %s", raw, strings.Join(spec.Choices, ", "))

	case ParamOptionalInt:
		if strings.EqualFold(raw, "none") {
			return nil, ""
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Sprintf("%q is not an integer (or \"none\" to unset)", raw)
		}
		if float64(value) < spec.Min {
			return nil, fmt.Sprintf("value %d must be at least %d", value, int(spec.Min))
		}
		return value, ""

	case ParamBool:
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Sprintf("%q is not a boolean", raw)
		}
		return value, ""

	case ParamText:
		return raw, ""
	}

	return nil, fmt.Sprintf("unsupported parameter kind %q", spec.Kind)
}

// Value returns the current typed value for name, if set.
func (c *Config) Value(name string) (any, bool) {
	value, ok := c.values[name]
	return value, ok
}

// Text returns the string value for name, or empty when unset.
func (c *Config) Text(name string) string {
	if value, ok := c.values[name].(string); ok {
		return value
	}
	return ""
}

// Float returns the numeric value for name.
func (c *Config) Float(name string) (float64, bool) {
	value, ok := c.values[name].(float64)
	return value, ok
}

// Int returns the integer value for name. Unset optional integers report
// false.
func (c *Config) Int(name string) (int, bool) {
	value, ok := c.values[name].(int)
	return value, ok
}

// Bool returns the boolean value for name, defaulting to false when unset.
func (c *Config) Bool(name string) bool {
	value, _ := c.values[name].(bool)
	return value
}

// Model returns the currently selected model ID.
func (c *Config) Model() string {
	return c.Text(ParamModel)
}

// Language returns the configured system prompt language, defaulting to
// pt-br when the schema does not expose one.
func (c *Config) Language() Language {
	if value := c.Text(ParamLanguage); value != "" {
		return Language(value)
	}
	return LanguagePTBR
}

// Stream reports whether streaming is requested. Providers without a stream
// parameter report false and the session falls back to synchronous sends.
func (c *Config) Stream() bool {
	return c.Bool(ParamStream)
}

// Pair is one configured parameter for display, in schema order.
type Pair struct {
	Name  string
	Value any
}

// Pairs lists every declared parameter with its current value, in schema
// order. Unset parameters carry a nil value.
func (c *Config) Pairs() []Pair {
	pairs := make([]Pair, 0, c.schema.Len())
	for _, spec := range c.schema.Params() {
		value, ok := c.values[spec.Name]
		if !ok {
			value = nil
		}
		pairs = append(pairs, Pair{Name: spec.Name, Value: value})
	}
	return pairs
}

// Schema returns the schema this config validates against.
func (c *Config) Schema() Schema {
	return c.schema
}

// FormatValue renders a config value the way listings and transcripts show
// it: unset as "none", floats without trailing zeros.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "none"
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
