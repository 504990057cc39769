package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// ---------------------------------------------------------------------------
// Helper: create a test server with VeSync-shaped endpoints
// ---------------------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func newTestServer() *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	mux.HandleFunc("POST /cloud/v1/user/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "test@example.com" {
			writeJSON(w, http.StatusOK, map[string]any{"code": -11202022, "msg": "the account does not exist", "result": nil})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"code":   0,
			"msg":    "request success",
			"result": map[string]any{"accountID": "mock_account_id"},
		})
	})

	mux.HandleFunc("PUT /10a/v1/device/devicestatus", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusOK, map[string]any{
			"code":   0,
			"msg":    "request success",
			"result": map[string]any{"status": "ok", "deviceStatus": body["status"]},
		})
	})

	mux.HandleFunc("DELETE /items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /no-result", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"code": 0, "msg": "request success", "result": nil})
	})

	mux.HandleFunc("GET /echo-headers", func(w http.ResponseWriter, r *http.Request) {
		headers := map[string]string{}
		for k := range r.Header {
			headers[k] = r.Header.Get(k)
		}
		writeJSON(w, http.StatusOK, headers)
	})

	// Admin-like endpoints
	mux.HandleFunc("GET /admin/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /admin/reset", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
	})

	mux.HandleFunc("GET /admin/state", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"devices": []string{"a", "b"}})
	})

	mux.HandleFunc("POST /admin/fault/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "injected", "path": r.URL.Path})
	})

	mux.HandleFunc("DELETE /admin/fault/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "removed", "path": r.URL.Path})
	})

	mux.HandleFunc("GET /admin/requests", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]string{{"method": "POST", "path": "/cloud/v1/user/login"}})
	})

	mux.HandleFunc("GET /admin/config", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"name": "twin-vesync", "fail_rate": 0.0})
	})

	mux.HandleFunc("PUT /admin/config", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusOK, body)
	})

	return httptest.NewServer(mux)
}

// ---------------------------------------------------------------------------
// TwinClient tests
// ---------------------------------------------------------------------------

func TestNewTwinClient(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	tc := NewTwinClient(t, srv)
	if tc.BaseURL != srv.URL {
		t.Errorf("expected BaseURL=%s, got %s", srv.URL, tc.BaseURL)
	}
}

func TestNewTwinClientURL(t *testing.T) {
	tc := NewTwinClientURL(t, "http://localhost:8000/")
	if tc.BaseURL != "http://localhost:8000" {
		t.Errorf("expected trailing slash trimmed, got %s", tc.BaseURL)
	}
}

func TestTwinClientGet(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	tc := NewTwinClient(t, srv)
	resp := tc.Get("/health")

	resp.AssertStatus(http.StatusOK)
	if m := resp.JSONMap(); m["status"] != "healthy" {
		t.Errorf("expected status=healthy, got %v", m["status"])
	}
}

func TestTwinClientPost(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	tc := NewTwinClient(t, srv)
	resp := tc.Post("/cloud/v1/user/login", map[string]string{"email": "test@example.com"})

	resp.AssertStatus(http.StatusOK).AssertCode(0)
	if resp.Result()["accountID"] != "mock_account_id" {
		t.Errorf("expected accountID=mock_account_id, got %v", resp.Result()["accountID"])
	}
}

func TestTwinClientPut(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	tc := NewTwinClient(t, srv)
	resp := tc.Put("/10a/v1/device/devicestatus", map[string]string{"status": "off"})

	resp.AssertStatus(http.StatusOK)
	if got := resp.Result()["deviceStatus"]; got != "off" {
		t.Errorf("expected deviceStatus=off, got %v", got)
	}
}

func TestTwinClientDelete(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	tc := NewTwinClient(t, srv)
	resp := tc.Delete("/items/42")

	resp.AssertStatus(http.StatusNoContent)
}

func TestTwinClientDoWithHeaders(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	tc := NewTwinClient(t, srv)
	resp := tc.DoWithHeaders("GET", "/echo-headers", nil, map[string]string{
		"X-Custom": "header-value",
	})

	resp.AssertStatus(http.StatusOK)
	m := resp.JSONMap()
	if m["X-Custom"] != "header-value" {
		t.Errorf("expected X-Custom=header-value, got %v", m["X-Custom"])
	}
}

func TestTwinClientVeSyncSetsAppHeaders(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	tc := NewTwinClient(t, srv)
	resp := tc.VeSync("GET", "/echo-headers", nil, map[string]string{"tk": "mock_token"})

	m := resp.JSONMap()
	if m["Content-Type"] != ContentType {
		t.Errorf("expected Content-Type=%s, got %v", ContentType, m["Content-Type"])
	}
	if m["User-Agent"] != UserAgent {
		t.Errorf("expected User-Agent=%s, got %v", UserAgent, m["User-Agent"])
	}
	if m["Tk"] != "mock_token" {
		t.Errorf("expected Tk=mock_token, got %v", m["Tk"])
	}
}

func TestTwinClientVeSyncExtraOverridesDefaults(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	tc := NewTwinClient(t, srv)
	resp := tc.VeSync("GET", "/echo-headers", nil, map[string]string{"User-Agent": "pyvesync"})

	if m := resp.JSONMap(); m["User-Agent"] != "pyvesync" {
		t.Errorf("expected User-Agent=pyvesync, got %v", m["User-Agent"])
	}
}

func TestAppHeadersReturnsCopy(t *testing.T) {
	h := AppHeaders()
	h["Content-Type"] = "text/plain"

	if AppHeaders()["Content-Type"] != ContentType {
		t.Error("expected AppHeaders to return a fresh map on every call")
	}
}

// ---------------------------------------------------------------------------
// Response helpers
// ---------------------------------------------------------------------------

func TestResponseCode(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	tc := NewTwinClient(t, srv)
	resp := tc.Post("/cloud/v1/user/login", map[string]string{"email": "wrong@example.com"})

	if got := resp.Code(); got != -11202022 {
		t.Errorf("expected code=-11202022, got %d", got)
	}
}

func TestResponseAssertCodeChaining(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	tc := NewTwinClient(t, srv)
	resp := tc.Get("/no-result")

	chained := resp.AssertCode(0)
	if chained != resp {
		t.Error("expected AssertCode to return the same Response for chaining")
	}
}

func TestResponseAssertStatusChaining(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	tc := NewTwinClient(t, srv)
	resp := tc.Get("/health")

	chained := resp.AssertStatus(http.StatusOK)
	if chained != resp {
		t.Error("expected AssertStatus to return the same Response for chaining")
	}
}

func TestResponseAssertBodyContains(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	tc := NewTwinClient(t, srv)
	resp := tc.Get("/health")

	chained := resp.AssertBodyContains(`"healthy"`)
	if chained != resp {
		t.Error("expected AssertBodyContains to return the same Response for chaining")
	}
}

// ---------------------------------------------------------------------------
// AdminClient tests
// ---------------------------------------------------------------------------

func TestAdminClientHealth(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	ac := NewAdminClient(NewTwinClient(t, srv))

	resp := ac.Health()
	resp.AssertStatus(http.StatusOK)
	if m := resp.JSONMap(); m["status"] != "ok" {
		t.Errorf("expected status=ok, got %v", m["status"])
	}
}

func TestAdminClientReset(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	ac := NewAdminClient(NewTwinClient(t, srv))
	ac.Reset().AssertStatus(http.StatusOK).AssertBodyContains("reset")
}

func TestAdminClientGetState(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	ac := NewAdminClient(NewTwinClient(t, srv))
	ac.GetState().AssertStatus(http.StatusOK).AssertBodyContains("devices")
}

func TestAdminClientInjectFaultStripsLeadingSlash(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	ac := NewAdminClient(NewTwinClient(t, srv))

	resp := ac.InjectFault("/10a/v1/device/devicedetail", map[string]any{"status_code": 503})
	resp.AssertStatus(http.StatusOK)
	if m := resp.JSONMap(); m["path"] != "/admin/fault/10a/v1/device/devicedetail" {
		t.Errorf("unexpected fault path %v", m["path"])
	}
}

func TestAdminClientRemoveFault(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	ac := NewAdminClient(NewTwinClient(t, srv))
	ac.RemoveFault("/10a/v1/device/devicedetail").AssertStatus(http.StatusOK).AssertBodyContains("removed")
}

func TestAdminClientGetRequests(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	ac := NewAdminClient(NewTwinClient(t, srv))
	ac.GetRequests().AssertStatus(http.StatusOK).AssertBodyContains("/cloud/v1/user/login")
}

func TestAdminClientConfig(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	ac := NewAdminClient(NewTwinClient(t, srv))
	ac.GetConfig().AssertStatus(http.StatusOK).AssertBodyContains("twin-vesync")

	resp := ac.UpdateConfig(map[string]any{"fail_rate": 0.5})
	resp.AssertStatus(http.StatusOK)
	if m := resp.JSONMap(); m["fail_rate"] != 0.5 {
		t.Errorf("expected fail_rate=0.5, got %v", m["fail_rate"])
	}
}
