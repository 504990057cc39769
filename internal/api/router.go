// Package api implements the VeSync-compatible HTTP API handlers for the twin.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wondertwin-ai/twin-vesync/internal/catalog"
	"github.com/wondertwin-ai/twin-vesync/internal/respond"
	"github.com/wondertwin-ai/twin-vesync/internal/store"
	"github.com/wondertwin-ai/twin-vesync/internal/vesync"
	"github.com/wondertwin-ai/twin-vesync/pkg/twincore"
)

// Handler holds all API handler state.
type Handler struct {
	catalog *catalog.Catalog
	store   *store.MemoryStore
	mw      *twincore.Middleware
	logger  *slog.Logger
	metrics *Metrics
}

// NewHandler creates a new API handler. A nil logger discards output.
func NewHandler(c *catalog.Catalog, s *store.MemoryStore, mw *twincore.Middleware, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		catalog: c,
		store:   s,
		mw:      mw,
		logger:  logger,
		metrics: NewMetrics("twin_vesync"),
	}
}

// legacyRoutes are the per-product-line device APIs. Every operation accepts
// both POST and PUT, as the vendor's does.
var legacyRoutes = []struct {
	prefix string
	ops    []string
}{
	{"/10a/v1/device", []string{"devicedetail", "devicestatus", "energyday", "energyweek", "energymonth", "energyyear"}},
	{"/15a/v1/device", []string{"devicedetail", "devicestatus", "energyday", "energyweek", "energymonth", "energyyear", "nightlightstatus"}},
	{"/outdoorsocket15a/v1/device", []string{"devicedetail", "devicestatus", "energyday", "energyweek", "energymonth", "energyyear"}},
	{"/SmartBulb/v1/device", []string{"devicedetail", "devicestatus", "updateBrightness", "devicergbstatus"}},
	{"/dimmer/v1/device", []string{"devicedetail", "devicestatus", "updatebrightness", "devicergbstatus", "indicatorlightstatus"}},
	{"/inwallswitch/v1/device", []string{"devicedetail", "devicestatus"}},
	{"/131airPurifier/v1/device", []string{"deviceDetail", "deviceStatus", "updateMode", "updateSpeed"}},
}

// Routes mounts the VeSync API routes plus /health and /metrics.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	r.Group(func(r chi.Router) {
		// Fault injection for API routes (not admin)
		r.Use(h.mw.FaultInjection)

		// Account
		r.Post("/cloud/v1/user/login", h.Login)
		r.Post("/cloud/v1/deviceManaged/devices", h.ListDevices)
		r.Post("/cloud/v2/deviceManaged/devices", h.ListDevices)

		// Shared bypass endpoints, device and command in the body
		r.Post(catalog.BypassV1Path, h.Device)
		r.Post(catalog.BypassV2Path, h.Device)
		r.Post("/cloud/v2/deviceManaged/configurationsV2", h.Device)

		// Product-line APIs, device in the body
		for _, line := range legacyRoutes {
			r.Route(line.prefix, func(r chi.Router) {
				for _, op := range line.ops {
					r.Post("/"+op, h.Device)
					r.Put("/"+op, h.Device)
				}
			})
		}

		// 7A outlet, device in the path
		r.Get("/v1/device/{device_id}/detail", h.Device)
		r.Get("/v1/device/{device_id}/energy/{period:day|week|month|year}", h.Device)
		r.Put("/v1/wifi-switch-1.3/{device_id}/status/on", h.Device)
		r.Put("/v1/wifi-switch-1.3/{device_id}/status/off", h.Device)
	})
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	twincore.JSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// decodeBody reads a JSON object body. An empty body decodes to an empty map.
func decodeBody(r *http.Request) (map[string]any, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, vesync.InvalidBody()
	}
	body := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return body, nil
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, vesync.InvalidBody()
	}
	if body == nil {
		body = map[string]any{}
	}
	return body, nil
}

// reply writes a successful envelope. The vendor answers every envelope with
// HTTP 200, failures included.
func (h *Handler) reply(w http.ResponseWriter, family string, env respond.Envelope) {
	h.metrics.Count(family, outcomeSuccess)
	twincore.JSON(w, http.StatusOK, env)
}

// fail writes a request error as an envelope.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, family string, err error) {
	var verr *vesync.Error
	if !errors.As(err, &verr) {
		verr = &vesync.Error{Kind: vesync.KindValidation, Code: vesync.CodeValidation, Msg: err.Error()}
	}

	if verr.Kind == vesync.KindDispatch {
		h.logger.Error("no handler configured",
			"path", r.URL.Path,
			"msg", verr.Msg,
		)
	} else {
		h.logger.Debug("request rejected",
			"path", r.URL.Path,
			"kind", verr.Kind.String(),
			"code", verr.Code,
			"msg", verr.Msg,
		)
	}

	h.metrics.Count(family, verr.Kind.String())
	twincore.JSON(w, http.StatusOK, respond.Failure(verr))
}
