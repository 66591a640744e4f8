package render

import (
	"fmt"
	"strconv"
)

// Props are the attributes of a component tag. String attributes hold a
// string, brace attributes hold whatever the expression decoded to, and
// bare attributes hold true.
type Props map[string]any

// String returns the prop as text, or "" when absent.
func (p Props) String(name string) string {
	switch v := p[name].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the prop as an integer, or def when absent or not numeric.
func (p Props) Int(name string, def int) int {
	switch v := p[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// List returns a prop holding a list of objects. Entries that are not
// objects are skipped.
func (p Props) List(name string) []Props {
	raw, ok := p[name].([]any)
	if !ok {
		return nil
	}
	out := make([]Props, 0, len(raw))
	for _, e := range raw {
		switch m := e.(type) {
		case map[string]any:
			out = append(out, Props(m))
		case map[any]any:
			conv := Props{}
			for k, v := range m {
				conv[fmt.Sprint(k)] = v
			}
			out = append(out, conv)
		}
	}
	return out
}

// Has reports whether the prop was given.
func (p Props) Has(name string) bool {
	_, ok := p[name]
	return ok
}
