package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wondertwin-ai/twin-vesync/internal/catalog"
	"github.com/wondertwin-ai/twin-vesync/internal/resolve"
	"github.com/wondertwin-ai/twin-vesync/internal/respond"
	"github.com/wondertwin-ai/twin-vesync/internal/validate"
	"github.com/wondertwin-ai/twin-vesync/internal/vesync"
)

// Device handles every device operation: resolve the device, validate the
// request against the operation it targets, then dispatch to the family
// responder.
func (h *Handler) Device(w http.ResponseWriter, r *http.Request) {
	defer h.metrics.Timing(time.Now(), "device")

	body, err := decodeBody(r)
	if err != nil {
		h.fail(w, r, catalog.FamilyUnknown.String(), err)
		return
	}

	env, family, err := h.device(r, body)
	if err != nil {
		h.fail(w, r, family.String(), err)
		return
	}
	h.reply(w, family.String(), env)
}

func (h *Handler) device(r *http.Request, body map[string]any) (respond.Envelope, catalog.Family, error) {
	resolved, err := resolve.Resolve(h.store, r.URL.RequestURI(), r.URL.Path, r.Method, chi.URLParam(r, "device_id"), body)
	if err != nil {
		return respond.Envelope{}, catalog.FamilyUnknown, err
	}

	spec, ok := h.catalog.Model(resolved.Model)
	if !ok {
		return respond.Envelope{}, catalog.FamilyUnknown, vesync.NoSpec(resolved.Model)
	}

	// Routes the model's spec does not describe still get the common header
	// check and a canned reply.
	op := spec.Select(r.URL.Path, r.Method, body)
	if op == nil {
		h.logger.Debug("no operation spec for request",
			"model", spec.Model,
			"method", r.Method,
			"path", r.URL.Path,
		)
	}

	if err := validate.Headers(r.Header, op); err != nil {
		return respond.Envelope{}, spec.Family, err
	}
	if err := validate.Auth(r.Header, body, op); err != nil {
		return respond.Envelope{}, spec.Family, err
	}
	if err := validate.Fields(body, op); err != nil {
		return respond.Envelope{}, spec.Family, err
	}

	env, err := respond.Dispatch(respond.Request{
		DeviceID:     resolved.DeviceID,
		Model:        resolved.Model,
		ConfigModule: spec.ConfigModule,
		Family:       spec.Family,
		Path:         resolved.Path,
		Method:       resolved.Method,
		Body:         resolved.Body,
	})
	return env, spec.Family, err
}
