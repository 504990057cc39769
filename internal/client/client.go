// Package client provides an HTTP client for the twin's admin endpoints.
package client

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AdminClient talks to a twin's /admin/* endpoints.
type AdminClient struct {
	baseURL string
	http    *http.Client
}

// New creates an AdminClient for the twin at baseURL with a 5-second timeout.
func New(baseURL string) *AdminClient {
	return &AdminClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Health checks GET /admin/health. Returns (ok, response body or error message).
func (c *AdminClient) Health() (bool, string) {
	resp, err := c.http.Get(c.baseURL + "/admin/health")
	if err != nil {
		return false, err.Error()
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusOK {
		return true, strings.TrimSpace(string(body))
	}
	return false, fmt.Sprintf("status %d: %s", resp.StatusCode, body)
}

// Reset calls POST /admin/reset, re-registering every mock device and
// clearing faults and the request log.
func (c *AdminClient) Reset() (string, error) {
	resp, err := c.http.Post(c.baseURL+"/admin/reset", "application/json", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reset returned status %d: %s", resp.StatusCode, body)
	}
	return strings.TrimSpace(string(body)), nil
}
