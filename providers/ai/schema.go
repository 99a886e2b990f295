package ai

// ParamKind tells the config layer how to coerce and validate a raw string
// value for a parameter.
type ParamKind string

const (
	// ParamNumber is a float bounded by Min and Max inclusive.
	ParamNumber ParamKind = "number"
	// ParamChoice is one value out of Choices.
	ParamChoice ParamKind = "choice"
	// ParamOptionalInt is an integer with Min as lower bound, or the
	// literal "none" to unset it.
	ParamOptionalInt ParamKind = "optional-int"
	// ParamBool is true or false.
	ParamBool ParamKind = "bool"
	// ParamText is free-form text, accepted as-is.
	ParamText ParamKind = "text"
)

// ParamSpec declares one tunable parameter: its name, how to validate it, and
// the default it starts at. A nil Default leaves the parameter unset until the
// user provides a value.
type ParamSpec struct {
	Name    string
	Kind    ParamKind
	Min     float64
	Max     float64
	Choices []string
	Default any
	Help    string
}

// Schema is an ordered set of parameter specs. Order is preserved so config
// listings and transcripts show parameters the way the provider declares them.
type Schema struct {
	params []ParamSpec
	index  map[string]int
}

// NewSchema builds a schema from specs, keeping their order.
func NewSchema(params ...ParamSpec) Schema {
	index := make(map[string]int, len(params))
	for i, spec := range params {
		index[spec.Name] = i
	}
	return Schema{params: params, index: index}
}

// Params returns the specs in declaration order. The slice is a copy.
func (s Schema) Params() []ParamSpec {
	out := make([]ParamSpec, len(s.params))
	copy(out, s.params)
	return out
}

// Lookup finds the spec named name.
func (s Schema) Lookup(name string) (ParamSpec, bool) {
	i, ok := s.index[name]
	if !ok {
		return ParamSpec{}, false
	}
	return s.params[i], true
}

// Len reports the number of declared parameters.
func (s Schema) Len() int {
	return len(s.params)
}
