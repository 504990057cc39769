package scenario

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wondertwin-ai/twin-vesync/internal/client"
)

// Headers the VeSync mobile app sends on every call.
var appHeaders = map[string]string{
	"Content-Type": "application/json; charset=UTF-8",
	"User-Agent":   "okhttp/3.12.1",
}

// StepResult records the outcome of a single step.
type StepResult struct {
	Name     string
	Passed   bool
	Duration time.Duration
	Error    string // empty when passed
}

// Result records the outcome of an entire scenario.
type Result struct {
	ScenarioName string
	Passed       bool
	Steps        []StepResult
	Duration     time.Duration
}

// Runner replays scenarios against a running twin.
type Runner struct {
	baseURL string
	http    *http.Client
	admin   *client.AdminClient
}

// NewRunner creates a Runner for the twin at baseURL.
func NewRunner(baseURL string) *Runner {
	baseURL = strings.TrimRight(baseURL, "/")
	return &Runner{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		admin:   client.New(baseURL),
	}
}

// Ready reports whether the twin answers its admin health check.
func (r *Runner) Ready() (bool, string) {
	return r.admin.Health()
}

// Run executes a single scenario and returns its result.
func (r *Runner) Run(s *Scenario) (*Result, error) {
	start := time.Now()
	result := &Result{
		ScenarioName: s.Name,
		Passed:       true,
	}

	if s.Reset {
		if _, err := r.admin.Reset(); err != nil {
			return nil, fmt.Errorf("setup failed: %w", err)
		}
	}

	for i := range s.Steps {
		sr := r.runStep(&s.Steps[i])
		result.Steps = append(result.Steps, sr)
		if !sr.Passed {
			result.Passed = false
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

// runStep executes a single scenario step and returns its result.
func (r *Runner) runStep(step *Step) StepResult {
	start := time.Now()
	sr := StepResult{Name: step.Name}
	if err := r.execute(step); err != nil {
		sr.Error = err.Error()
	} else {
		sr.Passed = true
	}
	sr.Duration = time.Since(start)
	return sr
}

func (r *Runner) execute(step *Step) error {
	req, err := r.build(&step.Request)
	if err != nil {
		return err
	}
	exp, err := expandExpect(step.Expect)
	if err != nil {
		return err
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	return check(&exp, resp.StatusCode, respBody)
}

func expandExpect(exp Expect) (Expect, error) {
	var err error
	if exp.BodyContains, err = ExpandTemplates(exp.BodyContains); err != nil {
		return exp, fmt.Errorf("template expansion in body_contains: %w", err)
	}
	if len(exp.JSON) == 0 {
		return exp, nil
	}
	values := make(map[string]string, len(exp.JSON))
	for p, v := range exp.JSON {
		if values[p], err = ExpandTemplates(v); err != nil {
			return exp, fmt.Errorf("template expansion in json %s: %w", p, err)
		}
	}
	exp.JSON = values
	return exp, nil
}

func (r *Runner) build(sr *Request) (*http.Request, error) {
	p, err := ExpandTemplates(sr.Path)
	if err != nil {
		return nil, fmt.Errorf("template expansion: %w", err)
	}

	var reqBody io.Reader
	if sr.Body != nil {
		body, err := expandValue(sr.Body)
		if err != nil {
			return nil, fmt.Errorf("template expansion in body: %w", err)
		}
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(strings.ToUpper(sr.Method), r.baseURL+p, reqBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	headers := make(map[string]string, len(appHeaders)+len(sr.Headers))
	for k, v := range appHeaders {
		headers[k] = v
	}
	for k, v := range sr.Headers {
		headers[k] = v
	}
	for k, v := range headers {
		v, err := ExpandTemplates(v)
		if err != nil {
			return nil, fmt.Errorf("template expansion in header %s: %w", k, err)
		}
		// An empty value also keeps net/http from adding its default User-Agent.
		req.Header.Set(k, v)
	}
	return req, nil
}

func check(exp *Expect, status int, body []byte) error {
	want := exp.Status
	if want == 0 {
		want = http.StatusOK
	}
	if status != want {
		return fmt.Errorf("expected status %d, got %d", want, status)
	}

	if exp.BodyContains != "" && !bytes.Contains(body, []byte(exp.BodyContains)) {
		return fmt.Errorf("body does not contain %q", exp.BodyContains)
	}

	if exp.Code == nil && len(exp.JSON) == 0 {
		return nil
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("body is not valid JSON: %w", err)
	}

	if exp.Code != nil {
		got, err := lookup(doc, "code")
		if err != nil {
			return err
		}
		if render(got) != fmt.Sprint(*exp.Code) {
			msg, _ := lookup(doc, "msg")
			return fmt.Errorf("expected code %d, got %s (%s)", *exp.Code, render(got), render(msg))
		}
	}

	for p, expected := range exp.JSON {
		got, err := lookup(doc, p)
		if err != nil {
			return err
		}
		if render(got) != expected {
			return fmt.Errorf("json %s: expected %q, got %q", p, expected, render(got))
		}
	}
	return nil
}
