package catalog

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Field is one declared header or body field with its sample value.
type Field struct {
	Name  string
	Value any
}

// Fields is an ordered field declaration. It decodes from a YAML mapping and
// keeps the mapping's key order.
type Fields []Field

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *Fields) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of field names", node.Line)
	}
	out := make(Fields, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		var v any
		if err := val.Decode(&v); err != nil {
			return fmt.Errorf("field %q: %w", key.Value, err)
		}
		out = append(out, Field{Name: key.Value, Value: v})
	}
	*f = out
	return nil
}

// Names returns the declared field names in declaration order.
func (f Fields) Names() []string {
	names := make([]string, len(f))
	for i, field := range f {
		names[i] = field.Name
	}
	return names
}

// Has reports whether name is declared.
func (f Fields) Has(name string) bool {
	_, ok := f.Lookup(name)
	return ok
}

// Lookup returns the sample value of a declared field.
func (f Fields) Lookup(name string) (any, bool) {
	for _, field := range f {
		if field.Name == name {
			return field.Value, true
		}
	}
	return nil, false
}

// Map returns the declaration as a plain map of sample values.
func (f Fields) Map() map[string]any {
	m := make(map[string]any, len(f))
	for _, field := range f {
		m[field.Name] = field.Value
	}
	return m
}

// OperationSpec declares one API operation of a model.
type OperationSpec struct {
	Name    string `yaml:"-"`
	URL     string `yaml:"url"`
	Method  string `yaml:"method"`
	Headers Fields `yaml:"headers"`
	Body    Fields `yaml:"json_object"`
}

var allowedMethods = map[string]bool{"GET": true, "POST": true, "PUT": true}

func (op *OperationSpec) normalize() error {
	if op.URL == "" {
		return fmt.Errorf("operation %s: missing url", op.Name)
	}
	op.Method = strings.ToUpper(strings.TrimSpace(op.Method))
	if op.Method == "" {
		return fmt.Errorf("operation %s: missing method", op.Name)
	}
	if !allowedMethods[op.Method] {
		return fmt.Errorf("operation %s: unsupported method %q", op.Name, op.Method)
	}
	return nil
}

// DeclaresBody reports whether the operation declares a json_object at all.
// Operations without one accept any body.
func (op *OperationSpec) DeclaresBody() bool {
	return op.Body != nil
}

// Matches reports whether the operation's URL template and method match a
// request. Template segments written as {name} match any single segment.
func (op *OperationSpec) Matches(path, method string) bool {
	if !strings.EqualFold(op.Method, method) {
		return false
	}
	return matchTemplate(op.URL, path)
}

func matchTemplate(tmpl, path string) bool {
	want := strings.Split(strings.Trim(tmpl, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")
	if len(want) != len(got) {
		return false
	}
	for i, seg := range want {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			if got[i] == "" {
				return false
			}
			continue
		}
		if seg != got[i] {
			return false
		}
	}
	return true
}

// Command returns the device command a bypass body carries: payload.method for
// bypassV2 bodies, the jsonCmd key for bypass v1 bodies, or "".
func Command(body map[string]any) string {
	if payload, ok := body["payload"].(map[string]any); ok {
		if m, ok := payload["method"].(string); ok {
			return m
		}
	}
	if cmd, ok := body["jsonCmd"].(map[string]any); ok {
		keys := make([]string, 0, len(cmd))
		for k := range cmd {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if len(keys) > 0 {
			return keys[0]
		}
	}
	return ""
}

// SampleBody returns a deep copy of the declared body with its sample values.
func (op *OperationSpec) SampleBody() map[string]any {
	if op.Body == nil {
		return nil
	}
	return deepCopy(op.Body.Map()).(map[string]any)
}

// SampleHeaders returns the declared headers with their sample values
// rendered as strings.
func (op *OperationSpec) SampleHeaders() map[string]string {
	h := make(map[string]string, len(op.Headers))
	for _, f := range op.Headers {
		h[f.Name] = fmt.Sprint(f.Value)
	}
	return h
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = deepCopy(val)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, val := range t {
			s[i] = deepCopy(val)
		}
		return s
	default:
		return v
	}
}

// ModelSpec is everything the catalog knows about one model.
type ModelSpec struct {
	Model        string
	Dir          string
	Family       Family
	ConfigModule string
	Operations   []*OperationSpec
}

// Operation returns the named operation.
func (m *ModelSpec) Operation(name string) (*OperationSpec, bool) {
	for _, op := range m.Operations {
		if op.Name == name {
			return op, true
		}
	}
	return nil, false
}

// Match returns every operation matching path and method, in file order.
func (m *ModelSpec) Match(path, method string) []*OperationSpec {
	var out []*OperationSpec
	for _, op := range m.Operations {
		if op.Matches(path, method) {
			out = append(out, op)
		}
	}
	return out
}

// Select picks the operation a request targets. Bypass endpoints are shared by
// several operations of the same model, so when more than one operation
// matches, the one declaring the same device command as the body wins;
// otherwise the first match is returned. Nil means no operation matches.
func (m *ModelSpec) Select(path, method string, body map[string]any) *OperationSpec {
	candidates := m.Match(path, method)
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) > 1 {
		if cmd := Command(body); cmd != "" {
			for _, op := range candidates {
				if Command(op.Body.Map()) == cmd {
					return op
				}
			}
		}
	}
	return candidates[0]
}
