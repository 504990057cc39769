// Package resolve maps an inbound request to the device it targets: first an
// identifier taken from the URL or body, then the registered model.
package resolve

import (
	"regexp"
	"strings"

	"github.com/wondertwin-ai/twin-vesync/internal/vesync"
)

// Registry is the lookup side of the device registry.
type Registry interface {
	Lookup(id string) (model string, ok bool)
}

// Request is a resolved inbound request. It lives for one request only.
type Request struct {
	DeviceID string
	Model    string
	Path     string
	Method   string
	Body     map[string]any
}

var uuidPattern = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// legacySwitchSegment precedes the device id in the 7A outlet's status URLs.
const legacySwitchSegment = "wifi-switch-1.3"

// idFields are the accepted spellings of a body-carried device id, in order.
var idFields = []string{"cid", "uuid", "deviceid"}

// DeviceID extracts the device identifier of a request. It tries, in order, the
// route's path parameter, a UUID anywhere in the URL, the segment after
// wifi-switch-1.3, the body's root id fields and then payload.data's id fields.
// The first rule that finds a key decides.
func DeviceID(rawURL, pathParam string, body map[string]any) (string, bool) {
	if pathParam != "" {
		return pathParam, true
	}
	if m := uuidPattern.FindString(rawURL); m != "" {
		return m, true
	}
	if id, ok := afterSegment(rawURL, legacySwitchSegment); ok {
		return id, true
	}
	if id, found := bodyID(body); found {
		return id, id != ""
	}
	if payload, ok := body["payload"].(map[string]any); ok {
		if data, ok := payload["data"].(map[string]any); ok {
			if id, found := bodyID(data); found {
				return id, id != ""
			}
		}
	}
	return "", false
}

func afterSegment(rawURL, segment string) (string, bool) {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		rawURL = rawURL[:i]
	}
	parts := strings.Split(rawURL, "/")
	for i, p := range parts {
		if p == segment && i+1 < len(parts) && parts[i+1] != "" {
			return parts[i+1], true
		}
	}
	return "", false
}

// bodyID reports the first id field present in m. A present field that is not
// a non-empty string yields "" with found set.
func bodyID(m map[string]any) (id string, found bool) {
	for _, key := range idFields {
		v, ok := m[key]
		if !ok {
			continue
		}
		s, _ := v.(string)
		return s, true
	}
	return "", false
}

// Fallback models for bypassV2 requests whose id is not registered. These are
// approximations: any device of the firmware family resolves to one model.
var moduleFallbacks = []struct {
	module string
	model  string
}{
	{"VeSyncAirBypass", "Core200S"},
	{"VeSyncHumid200300S", "Classic300S"},
}

// Model resolves a device identifier to its model through the registry, with a
// configModule fallback for bypassV2 bodies.
func Model(reg Registry, id string, body map[string]any) (string, bool) {
	if model, ok := reg.Lookup(id); ok {
		return model, true
	}
	if method, _ := body["method"].(string); method != "bypassV2" {
		return "", false
	}
	module, _ := body["configModule"].(string)
	for _, f := range moduleFallbacks {
		if strings.Contains(module, f.module) {
			return f.model, true
		}
	}
	return "", false
}

// Resolve composes DeviceID and Model. rawURL is the request URI (path plus
// query), path the route path.
func Resolve(reg Registry, rawURL, path, method, pathParam string, body map[string]any) (Request, error) {
	id, ok := DeviceID(rawURL, pathParam, body)
	if !ok {
		return Request{}, vesync.MissingDeviceID()
	}
	model, ok := Model(reg, id, body)
	if !ok {
		return Request{}, vesync.DeviceNotFound(id)
	}
	return Request{
		DeviceID: id,
		Model:    model,
		Path:     path,
		Method:   method,
		Body:     body,
	}, nil
}
