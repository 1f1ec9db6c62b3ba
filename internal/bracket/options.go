package bracket

// OptionKind discriminates the tagged sum carried by an OptionValue.
type OptionKind uint8

const (
	OptionBool   OptionKind = 0
	OptionUint64 OptionKind = 1
	OptionInt64  OptionKind = 2
	OptionString OptionKind = 3
)

// OptionValue is a tagged sum over bool | u64 | i64 | string, matching
// spec §3's System.options value type.
type OptionValue struct {
	Kind OptionKind
	B    bool
	U    uint64
	I    int64
	S    string
}

func BoolOption(v bool) OptionValue     { return OptionValue{Kind: OptionBool, B: v} }
func Uint64Option(v uint64) OptionValue { return OptionValue{Kind: OptionUint64, U: v} }
func Int64Option(v int64) OptionValue   { return OptionValue{Kind: OptionInt64, I: v} }
func StringOption(v string) OptionValue { return OptionValue{Kind: OptionString, S: v} }

// Options is a bracket instance's override map over a System's default
// option values.
type Options map[string]OptionValue

// OptionSpec describes one entry of a System's option schema: its
// default value and a human-readable description.
type OptionSpec struct {
	Name        string
	Description string
	Default     OptionValue
}

// OptionSchema is the ordered list of options a SystemAdapter accepts.
type OptionSchema []OptionSpec

// Resolve returns the effective value for name: the override in opts if
// present, otherwise the schema default. The second return is false if
// name is not part of the schema at all.
func (s OptionSchema) Resolve(opts Options, name string) (OptionValue, bool) {
	for _, spec := range s {
		if spec.Name == name {
			if v, ok := opts[name]; ok {
				return v, true
			}
			return spec.Default, true
		}
	}
	return OptionValue{}, false
}
