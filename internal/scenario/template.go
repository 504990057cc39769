package scenario

import (
	"fmt"
	"strings"

	"github.com/wondertwin-ai/twin-vesync/internal/store"
	"github.com/wondertwin-ai/twin-vesync/internal/vesync"
)

// ExpandTemplates replaces {{session.account_id}}, {{session.token}},
// {{login.email}}, {{login.password}} and {{device.<model>}} placeholders
// with the twin's fixed values.
func ExpandTemplates(s string) (string, error) {
	result := s
	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			return "", fmt.Errorf("unterminated template expression at position %d", start)
		}
		end += start + 2

		value, err := resolveExpr(strings.TrimSpace(result[start+2 : end-2]))
		if err != nil {
			return "", err
		}
		result = result[:start] + value + result[end:]
	}
	return result, nil
}

func resolveExpr(expr string) (string, error) {
	switch expr {
	case "session.account_id":
		return vesync.MockAccountID, nil
	case "session.token":
		return vesync.MockToken, nil
	case "login.email":
		return vesync.ValidEmail, nil
	case "login.password":
		return vesync.ValidPassword, nil
	}
	if model, ok := strings.CutPrefix(expr, "device."); ok && model != "" {
		return store.DeviceID(model), nil
	}
	return "", fmt.Errorf("unknown template expression %q", expr)
}

// expandValue expands templates in every string inside a decoded body.
func expandValue(v any) (any, error) {
	switch t := v.(type) {
	case string:
		return ExpandTemplates(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			ev, err := expandValue(val)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = ev
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			ev, err := expandValue(val)
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil
	default:
		return v, nil
	}
}
