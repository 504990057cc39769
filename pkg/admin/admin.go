// Package admin provides the /admin/* control plane used for state inspection,
// fault injection, and request inspection while a client test suite runs.
package admin

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wondertwin-ai/twin-vesync/pkg/twincore"
)

// StateStore is the interface a twin implements to expose its state.
type StateStore interface {
	// Snapshot returns the full state as a JSON-serializable value.
	Snapshot() any
	// Reset rebuilds the state from its static source.
	Reset()
}

// ConfigProvider is optionally implemented by the twin to expose runtime config.
type ConfigProvider interface {
	GetConfig() map[string]any
	UpdateConfig(updates map[string]any) error
}

// Handler provides the admin endpoints.
type Handler struct {
	state  StateStore
	config ConfigProvider
	mw     *twincore.Middleware
}

// NewHandler creates a new admin handler.
func NewHandler(state StateStore, mw *twincore.Middleware) *Handler {
	return &Handler{
		state: state,
		mw:    mw,
	}
}

// SetConfigProvider sets the runtime config provider (optional).
func (h *Handler) SetConfigProvider(c ConfigProvider) {
	h.config = c
}

// Routes mounts the admin endpoints on the given router.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Post("/reset", h.handleReset)
		r.Get("/state", h.handleGetState)
		r.Post("/fault/*", h.handleInjectFault)
		r.Delete("/fault/*", h.handleRemoveFault)
		r.Get("/faults", h.handleListFaults)
		r.Get("/requests", h.handleGetRequests)
		r.Get("/config", h.handleGetConfig)
		r.Put("/config", h.handleUpdateConfig)
		r.Get("/health", h.handleHealth)
	})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	h.state.Reset()
	h.mw.ReqLog.Clear()
	h.mw.Faults.Reset()
	twincore.JSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) handleGetState(w http.ResponseWriter, r *http.Request) {
	twincore.JSON(w, http.StatusOK, h.state.Snapshot())
}

// faultPath returns the API path a fault endpoint refers to. VeSync paths are
// several segments deep, so the whole wildcard tail is the key.
func faultPath(r *http.Request) string {
	return "/" + chi.URLParam(r, "*")
}

func (h *Handler) handleInjectFault(w http.ResponseWriter, r *http.Request) {
	endpoint := faultPath(r)

	var fault twincore.FaultConfig
	if err := json.NewDecoder(r.Body).Decode(&fault); err != nil {
		twincore.Error(w, http.StatusBadRequest, "invalid fault config: "+err.Error())
		return
	}
	h.mw.Faults.Set(endpoint, fault)
	twincore.JSON(w, http.StatusOK, map[string]any{
		"status":   "injected",
		"endpoint": endpoint,
		"fault":    fault,
	})
}

func (h *Handler) handleRemoveFault(w http.ResponseWriter, r *http.Request) {
	endpoint := faultPath(r)
	if h.mw.Faults.Remove(endpoint) {
		twincore.JSON(w, http.StatusOK, map[string]any{"status": "removed", "endpoint": endpoint})
	} else {
		twincore.Error(w, http.StatusNotFound, "no fault registered for "+endpoint)
	}
}

func (h *Handler) handleListFaults(w http.ResponseWriter, r *http.Request) {
	twincore.JSON(w, http.StatusOK, h.mw.Faults.All())
}

func (h *Handler) handleGetRequests(w http.ResponseWriter, r *http.Request) {
	twincore.JSON(w, http.StatusOK, h.mw.ReqLog.Entries())
}

func (h *Handler) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	if h.config == nil {
		twincore.Error(w, http.StatusNotFound, "runtime config not available")
		return
	}
	twincore.JSON(w, http.StatusOK, h.config.GetConfig())
}

func (h *Handler) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	if h.config == nil {
		twincore.Error(w, http.StatusNotFound, "runtime config not available")
		return
	}
	var updates map[string]any
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		twincore.Error(w, http.StatusBadRequest, "invalid config: "+err.Error())
		return
	}
	if err := h.config.UpdateConfig(updates); err != nil {
		twincore.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	twincore.JSON(w, http.StatusOK, h.config.GetConfig())
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	twincore.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
