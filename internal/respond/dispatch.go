package respond

import (
	"net/http"
	"strings"

	"github.com/wondertwin-ai/twin-vesync/internal/catalog"
	"github.com/wondertwin-ai/twin-vesync/internal/vesync"
)

// Request is everything a responder needs about one resolved request.
type Request struct {
	DeviceID     string
	Model        string
	ConfigModule string
	Family       catalog.Family
	Path         string
	Method       string
	Body         map[string]any
}

func (r Request) isPut() bool {
	return strings.EqualFold(r.Method, http.MethodPut)
}

// bodyString returns a string body field, or "".
func (r Request) bodyString(key string) string {
	s, _ := r.Body[key].(string)
	return s
}

// Dispatch hands a request to its family's responder. Responders are pure:
// the same request always gets the same reply, apart from values echoed from
// the body.
func Dispatch(req Request) (Envelope, error) {
	switch req.Family {
	case catalog.FamilyOutlet:
		return outlet(req)
	case catalog.FamilySwitch:
		return wallSwitch(req)
	case catalog.FamilyBulb:
		return bulb(req)
	case catalog.FamilyFan:
		return fan(req)
	default:
		return Envelope{}, vesync.NoHandler(req.Model)
	}
}
