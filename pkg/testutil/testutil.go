// Package testutil provides the HTTP twin client, admin client, and assertion
// helpers used by the VeSync twin's tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// Header values the VeSync mobile app sends on every call.
const (
	ContentType = "application/json; charset=UTF-8"
	UserAgent   = "okhttp/3.12.1"
)

// TwinClient is an HTTP client for interacting with the twin in tests.
type TwinClient struct {
	BaseURL    string
	HTTPClient *http.Client
	t          *testing.T
}

// NewTwinClient creates a client pointed at a test server.
func NewTwinClient(t *testing.T, server *httptest.Server) *TwinClient {
	return &TwinClient{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
		t:          t,
	}
}

// NewTwinClientURL creates a client pointed at a specific URL.
func NewTwinClientURL(t *testing.T, baseURL string) *TwinClient {
	return &TwinClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
		t:          t,
	}
}

// Response wraps an HTTP response with helper methods.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
	t          *testing.T
}

// JSON unmarshals the response body into v.
func (r *Response) JSON(v any) {
	r.t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		r.t.Fatalf("failed to unmarshal response: %v\nbody: %s", err, string(r.Body))
	}
}

// JSONMap returns the response body as a map.
func (r *Response) JSONMap() map[string]any {
	r.t.Helper()
	var m map[string]any
	r.JSON(&m)
	return m
}

// Code returns the envelope code of a VeSync response. JSON numbers decode as
// float64, so it is converted back to int here.
func (r *Response) Code() int {
	r.t.Helper()
	code, ok := r.JSONMap()["code"].(float64)
	if !ok {
		r.t.Fatalf("response has no numeric code: %s", string(r.Body))
	}
	return int(code)
}

// Result returns the envelope result as a map, failing the test when it is
// absent or not an object.
func (r *Response) Result() map[string]any {
	r.t.Helper()
	result, ok := r.JSONMap()["result"].(map[string]any)
	if !ok {
		r.t.Fatalf("response has no result object: %s", string(r.Body))
	}
	return result
}

// AssertStatus asserts the response has the expected status code.
func (r *Response) AssertStatus(expected int) *Response {
	r.t.Helper()
	if r.StatusCode != expected {
		r.t.Errorf("expected status %d, got %d\nbody: %s", expected, r.StatusCode, string(r.Body))
	}
	return r
}

// AssertCode asserts the VeSync envelope carries the expected code.
func (r *Response) AssertCode(expected int) *Response {
	r.t.Helper()
	if got := r.Code(); got != expected {
		r.t.Errorf("expected code %d, got %d\nbody: %s", expected, got, string(r.Body))
	}
	return r
}

// AssertBodyContains asserts the response body contains the given substring.
func (r *Response) AssertBodyContains(substr string) *Response {
	r.t.Helper()
	if !strings.Contains(string(r.Body), substr) {
		r.t.Errorf("expected body to contain %q, got: %s", substr, string(r.Body))
	}
	return r
}

// Get performs a GET request.
func (c *TwinClient) Get(path string) *Response {
	c.t.Helper()
	return c.do("GET", path, nil, nil)
}

// Post performs a POST request with a JSON body.
func (c *TwinClient) Post(path string, body any) *Response {
	c.t.Helper()
	return c.do("POST", path, body, nil)
}

// Put performs a PUT request with a JSON body.
func (c *TwinClient) Put(path string, body any) *Response {
	c.t.Helper()
	return c.do("PUT", path, body, nil)
}

// Delete performs a DELETE request.
func (c *TwinClient) Delete(path string) *Response {
	c.t.Helper()
	return c.do("DELETE", path, nil, nil)
}

// DoWithHeaders performs a request with custom headers.
func (c *TwinClient) DoWithHeaders(method, path string, body any, headers map[string]string) *Response {
	c.t.Helper()
	return c.do(method, path, body, headers)
}

// VeSync performs a request the way the mobile app does: the common headers
// are always set, and extra headers are layered on top of them.
func (c *TwinClient) VeSync(method, path string, body any, extra map[string]string) *Response {
	c.t.Helper()
	headers := AppHeaders()
	for k, v := range extra {
		headers[k] = v
	}
	return c.do(method, path, body, headers)
}

// AppHeaders returns a fresh copy of the headers every app request carries.
func AppHeaders() map[string]string {
	return map[string]string{
		"Content-Type": ContentType,
		"User-Agent":   UserAgent,
	}
}

func (c *TwinClient) do(method, path string, body any, headers map[string]string) *Response {
	c.t.Helper()

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bodyReader)
	if err != nil {
		c.t.Fatalf("failed to create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.doReq(req)
}

func (c *TwinClient) doReq(req *http.Request) *Response {
	c.t.Helper()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatalf("failed to read response: %v", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       respBody,
		Headers:    resp.Header,
		t:          c.t,
	}
}

// AdminClient provides convenience methods for the /admin/* control plane.
type AdminClient struct {
	*TwinClient
}

// NewAdminClient creates an admin client from a twin client.
func NewAdminClient(tc *TwinClient) *AdminClient {
	return &AdminClient{tc}
}

// Reset calls POST /admin/reset.
func (ac *AdminClient) Reset() *Response {
	ac.t.Helper()
	return ac.Post("/admin/reset", nil)
}

// GetState calls GET /admin/state.
func (ac *AdminClient) GetState() *Response {
	ac.t.Helper()
	return ac.Get("/admin/state")
}

// InjectFault calls POST /admin/fault/{endpoint}.
func (ac *AdminClient) InjectFault(endpoint string, fault any) *Response {
	ac.t.Helper()
	return ac.Post("/admin/fault/"+strings.TrimPrefix(endpoint, "/"), fault)
}

// RemoveFault calls DELETE /admin/fault/{endpoint}.
func (ac *AdminClient) RemoveFault(endpoint string) *Response {
	ac.t.Helper()
	return ac.Delete("/admin/fault/" + strings.TrimPrefix(endpoint, "/"))
}

// GetRequests calls GET /admin/requests.
func (ac *AdminClient) GetRequests() *Response {
	ac.t.Helper()
	return ac.Get("/admin/requests")
}

// GetConfig calls GET /admin/config.
func (ac *AdminClient) GetConfig() *Response {
	ac.t.Helper()
	return ac.Get("/admin/config")
}

// UpdateConfig calls PUT /admin/config.
func (ac *AdminClient) UpdateConfig(updates map[string]any) *Response {
	ac.t.Helper()
	return ac.Put("/admin/config", updates)
}

// Health calls GET /admin/health.
func (ac *AdminClient) Health() *Response {
	ac.t.Helper()
	return ac.Get("/admin/health")
}
