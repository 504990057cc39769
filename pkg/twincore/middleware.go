package twincore

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogEntry captures details of an incoming request for admin inspection.
type RequestLogEntry struct {
	Timestamp  time.Time         `json:"timestamp"`
	Method     string            `json:"method"`
	Path       string            `json:"path"`
	Headers    map[string]string `json:"headers,omitempty"`
	StatusCode int               `json:"status_code"`
	Code       *int              `json:"code,omitempty"` // envelope code; VeSync reports failures with HTTP 200
	Duration   time.Duration     `json:"duration_ms"`
	RequestID  string            `json:"request_id,omitempty"`
}

// RequestLog is a thread-safe ring buffer of recent requests.
type RequestLog struct {
	mu      sync.RWMutex
	entries []RequestLogEntry
	maxSize int
}

// NewRequestLog creates a request log with the given max size.
func NewRequestLog(maxSize int) *RequestLog {
	return &RequestLog{
		entries: make([]RequestLogEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

// Add appends an entry, evicting the oldest if at capacity.
func (rl *RequestLog) Add(entry RequestLogEntry) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if len(rl.entries) >= rl.maxSize {
		rl.entries = rl.entries[1:]
	}
	rl.entries = append(rl.entries, entry)
}

// Entries returns a copy of all log entries.
func (rl *RequestLog) Entries() []RequestLogEntry {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	out := make([]RequestLogEntry, len(rl.entries))
	copy(out, rl.entries)
	return out
}

// Clear removes all entries.
func (rl *RequestLog) Clear() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.entries = rl.entries[:0]
}

// FaultConfig defines a fault injection for a specific endpoint path.
//
// A fault with a Code answers with a VeSync envelope carrying that code, the
// way the cloud reports expired tokens and similar errors. StatusCode then
// defaults to 200. A fault without a Code answers with StatusCode and Body.
type FaultConfig struct {
	StatusCode int           `json:"status_code"`
	Code       int           `json:"code,omitempty"`
	Msg        string        `json:"msg,omitempty"`
	Body       string        `json:"body,omitempty"`
	Delay      time.Duration `json:"delay_ms,omitempty"`
	Rate       float64       `json:"rate"` // 0.0-1.0, probability of fault triggering
}

// fires reports whether the fault replaces the response rather than only
// delaying it.
func (f *FaultConfig) fires() bool {
	return f.StatusCode > 0 || f.Code != 0
}

func (f *FaultConfig) write(w http.ResponseWriter) {
	status := f.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	if f.Body != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(f.Body))
		return
	}

	code, msg := f.Code, f.Msg
	if code == 0 {
		code = status
	}
	if msg == "" {
		msg = "injected fault"
	}
	JSON(w, status, map[string]any{"code": code, "msg": msg, "result": nil})
}

// FaultRegistry manages injected faults keyed by request path.
type FaultRegistry struct {
	mu     sync.RWMutex
	faults map[string]FaultConfig
}

// NewFaultRegistry creates a new fault registry.
func NewFaultRegistry() *FaultRegistry {
	return &FaultRegistry{
		faults: make(map[string]FaultConfig),
	}
}

// Set injects a fault for the given path.
func (fr *FaultRegistry) Set(path string, fault FaultConfig) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if fault.Rate == 0 {
		fault.Rate = 1.0
	}
	fr.faults[path] = fault
}

// Remove removes the fault for the given path.
func (fr *FaultRegistry) Remove(path string) bool {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	_, existed := fr.faults[path]
	delete(fr.faults, path)
	return existed
}

// Check returns the fault for path if one is registered and fires, or nil.
func (fr *FaultRegistry) Check(path string) *FaultConfig {
	fr.mu.RLock()
	defer fr.mu.RUnlock()
	if f, ok := fr.faults[path]; ok {
		if f.Rate >= 1.0 || rand.Float64() < f.Rate {
			return &f
		}
	}
	return nil
}

// All returns all registered faults.
func (fr *FaultRegistry) All() map[string]FaultConfig {
	fr.mu.RLock()
	defer fr.mu.RUnlock()
	out := make(map[string]FaultConfig, len(fr.faults))
	for k, v := range fr.faults {
		out[k] = v
	}
	return out
}

// Reset clears all faults.
func (fr *FaultRegistry) Reset() {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	fr.faults = make(map[string]FaultConfig)
}

// Middleware provides the common middleware functions.
type Middleware struct {
	cfg    *Config
	logger *slog.Logger
	ReqLog *RequestLog
	Faults *FaultRegistry
}

// NewMiddleware creates a new Middleware instance. A nil logger discards output.
func NewMiddleware(cfg *Config, logger *slog.Logger) *Middleware {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Middleware{
		cfg:    cfg,
		logger: logger,
		ReqLog: NewRequestLog(1000),
		Faults: NewFaultRegistry(),
	}
}

// CORS adds permissive CORS headers, including the VeSync auth headers.
func (m *Middleware) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Accept-Language, Content-Type, accountId, appVersion, tk, tz")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// maxCapturedBody bounds how much of a response the request log keeps in
// order to read the envelope code.
const maxCapturedBody = 64 << 10

// responseRecorder captures the status code and the head of the body written
// by downstream handlers.
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
	truncated  bool
}

func (rr *responseRecorder) WriteHeader(code int) {
	rr.statusCode = code
	rr.ResponseWriter.WriteHeader(code)
}

func (rr *responseRecorder) Write(p []byte) (int, error) {
	if !rr.truncated {
		if rr.body.Len()+len(p) > maxCapturedBody {
			rr.truncated = true
			rr.body.Reset()
		} else {
			rr.body.Write(p)
		}
	}
	return rr.ResponseWriter.Write(p)
}

// envelopeCode returns the code of a captured VeSync envelope, or nil when
// the body is not one.
func (rr *responseRecorder) envelopeCode() *int {
	if rr.truncated || rr.body.Len() == 0 {
		return nil
	}
	var env struct {
		Code *int `json:"code"`
	}
	if err := json.Unmarshal(rr.body.Bytes(), &env); err != nil {
		return nil
	}
	return env.Code
}

// RequestLog middleware captures request details into the ring buffer.
func (m *Middleware) RequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, statusCode: 200}

		next.ServeHTTP(rec, r)

		entry := RequestLogEntry{
			Timestamp:  start,
			Method:     r.Method,
			Path:       r.URL.Path,
			StatusCode: rec.statusCode,
			Code:       rec.envelopeCode(),
			Duration:   time.Since(start),
			RequestID:  chimw.GetReqID(r.Context()),
		}
		if m.cfg.Verbose {
			entry.Headers = make(map[string]string)
			for k := range r.Header {
				entry.Headers[k] = r.Header.Get(k)
			}
		}
		m.ReqLog.Add(entry)

		if m.cfg.Verbose {
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.statusCode,
				"duration", time.Since(start),
			}
			if entry.Code != nil {
				attrs = append(attrs, "code", *entry.Code)
			}
			m.logger.Debug("request", attrs...)
		}
	})
}

// LatencyInjection adds configurable latency to every request.
func (m *Middleware) LatencyInjection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.cfg.Latency > 0 {
			// 80-120% of configured latency
			jitter := 0.8 + rand.Float64()*0.4
			delay := time.Duration(float64(m.cfg.Latency) * jitter)
			time.Sleep(delay)
		}
		next.ServeHTTP(w, r)
	})
}

// RandomFailure randomly returns 500 errors based on the configured fail rate.
func (m *Middleware) RandomFailure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.cfg.FailRate > 0 && rand.Float64() < m.cfg.FailRate {
			Error(w, http.StatusInternalServerError, "simulated random failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// FaultInjection checks the fault registry and applies any matching faults.
// Mount it inside the API route groups, not globally, so admin endpoints are
// never affected.
func (m *Middleware) FaultInjection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fault := m.Faults.Check(r.URL.Path); fault != nil {
			if fault.Delay > 0 {
				time.Sleep(fault.Delay)
			}
			if fault.fires() {
				fault.write(w)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
