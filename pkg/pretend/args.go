package pretend

import (
	"fmt"
	"reflect"
	"strconv"
)

// Args are the arguments of one call keyed by parameter name.
type Args map[string]any

// Strings renders every argument for template substitution.
func (a Args) Strings() map[string]string {
	out := make(map[string]string, len(a))
	for k, v := range a {
		out[k] = FormatArg(v)
	}
	return out
}

// FormatArg renders a single argument the way it appears in paths and headers.
func FormatArg(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		return FormatArg(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}
