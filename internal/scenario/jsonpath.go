package scenario

import (
	"fmt"
	"strconv"
	"strings"
)

// lookup evaluates a dot-notation path such as result.list[0].uuid against a
// decoded JSON document.
func lookup(doc any, p string) (any, error) {
	current := doc
	for _, seg := range strings.Split(p, ".") {
		if seg == "" {
			return nil, fmt.Errorf("empty segment in path %q", p)
		}

		field, index, hasIndex := strings.Cut(seg, "[")
		if field != "" {
			m, ok := current.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%s: cannot access field %q on %T", p, field, current)
			}
			val, ok := m[field]
			if !ok {
				return nil, fmt.Errorf("%s: field %q not found", p, field)
			}
			current = val
		}
		if !hasIndex {
			continue
		}

		i, err := strconv.Atoi(strings.TrimSuffix(index, "]"))
		if err != nil {
			return nil, fmt.Errorf("%s: invalid array index in %q", p, seg)
		}
		arr, ok := current.([]any)
		if !ok || i < 0 || i >= len(arr) {
			return nil, fmt.Errorf("%s: index %d out of range", p, i)
		}
		current = arr[i]
	}
	return current, nil
}

// render formats a decoded JSON value the way expectations are written.
func render(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
