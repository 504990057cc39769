// Package validate checks inbound requests against their operation spec and
// the fixed mock session.
package validate

import (
	"net/http"
	"sort"

	"github.com/wondertwin-ai/twin-vesync/internal/catalog"
	"github.com/wondertwin-ai/twin-vesync/internal/vesync"
)

// Headers checks the headers every client sends, then the headers op declares.
// op may be nil.
func Headers(h http.Header, op *catalog.OperationSpec) error {
	for _, name := range vesync.CommonHeaders {
		if len(h.Values(name)) == 0 {
			return vesync.MissingHeader(name)
		}
	}
	if op == nil {
		return nil
	}
	for _, name := range op.Headers.Names() {
		if len(h.Values(name)) == 0 {
			return vesync.MissingHeader(name)
		}
	}
	return nil
}

// Fields rejects body keys op does not declare. Operations that declare no
// body accept any.
func Fields(body map[string]any, op *catalog.OperationSpec) error {
	if op == nil || !op.DeclaresBody() {
		return nil
	}
	var undefined []string
	for k := range body {
		if !op.Body.Has(k) {
			undefined = append(undefined, k)
		}
	}
	if len(undefined) == 0 {
		return nil
	}
	sort.Strings(undefined)
	return vesync.UndefinedFields(undefined)
}

// RequiredFields checks every field op declares is present, in declaration
// order. With requireString each must also be a string.
func RequiredFields(body map[string]any, op *catalog.OperationSpec, requireString bool) error {
	for _, name := range op.Body.Names() {
		v, ok := body[name]
		if !ok {
			return vesync.MissingField(name)
		}
		if _, isString := v.(string); requireString && !isString {
			return vesync.WrongType(name)
		}
	}
	return nil
}
