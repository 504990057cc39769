// Package respond shapes the canned VeSync replies: the response envelope and
// one responder per device family.
package respond

import (
	"encoding/json"

	"github.com/wondertwin-ai/twin-vesync/internal/vesync"
)

// Envelope is the {code, msg, result} body every endpoint returns. Inline
// fields are written at the root next to code and msg, for the legacy devices
// that read their detail from there.
type Envelope struct {
	Code   int
	Msg    string
	Result any
	Inline map[string]any
}

// Success wraps a result.
func Success(result any) Envelope {
	return Envelope{Code: vesync.CodeSuccess, Msg: vesync.MsgSuccess, Result: result}
}

// Flat is a success whose fields sit at the root of the body.
func Flat(fields map[string]any) Envelope {
	return Envelope{Code: vesync.CodeSuccess, Msg: vesync.MsgSuccess, Inline: fields}
}

// Failure renders a request error.
func Failure(err *vesync.Error) Envelope {
	return Envelope{Code: err.Code, Msg: err.Msg}
}

// MarshalJSON implements json.Marshaler. code, msg and result always win over
// inline fields of the same name.
func (e Envelope) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(e.Inline)+3)
	for k, v := range e.Inline {
		m[k] = v
	}
	m["code"] = e.Code
	m["msg"] = e.Msg
	m["result"] = e.Result
	return json.Marshal(m)
}
