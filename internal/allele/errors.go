package allele

import "fmt"

// DecodeError reports a property value that does not have the expected shape.
type DecodeError struct {
	Key      string // property key, e.g. "KG" or "CLINVAR"
	Field    string // nested field within the key's payload, empty for scalars
	Expected string
	Actual   string
}

func (e *DecodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("decode %s.%s: expected %s, got %s", e.Key, e.Field, e.Expected, e.Actual)
	}
	return fmt.Sprintf("decode %s: expected %s, got %s", e.Key, e.Expected, e.Actual)
}

func describe(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("string %q", v)
	default:
		return fmt.Sprintf("%T", v)
	}
}
