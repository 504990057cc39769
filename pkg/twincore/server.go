// Package twincore provides the base HTTP server, CLI flags, middleware chain,
// and response helpers for the VeSync twin.
package twincore

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Config holds the twin configuration, parsed from CLI flags.
type Config struct {
	Port     int
	Latency  time.Duration
	FailRate float64
	SpecDir  string // overrides the embedded spec tree when set
	Verbose  bool
	Name     string // twin name for logging
}

// ParseFlags parses CLI flags and returns a Config.
// The twinName is used for logging and identification.
func ParseFlags(twinName string) *Config {
	return ParseFlagSet(twinName, flag.CommandLine, os.Args[1:])
}

// ParseFlagSet is ParseFlags against an explicit flag set and argument list.
func ParseFlagSet(twinName string, fs *flag.FlagSet, args []string) *Config {
	cfg := &Config{Name: twinName}
	fs.IntVar(&cfg.Port, "port", 0, "HTTP listen port (default: $PORT, then the twin default)")
	fs.DurationVar(&cfg.Latency, "latency", 0, "Base simulated latency")
	fs.Float64Var(&cfg.FailRate, "fail-rate", 0.0, "Random failure rate 0.0-1.0")
	fs.StringVar(&cfg.SpecDir, "spec-dir", "", "Directory of device operation specs (default: embedded)")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Enable request/response logging")
	fs.Parse(args)

	if cfg.Port == 0 {
		if p := os.Getenv("PORT"); p != "" {
			fmt.Sscanf(p, "%d", &cfg.Port)
		}
	}

	return cfg
}

// Twin is the base server. It wraps a chi router with common middleware and
// provides lifecycle management.
type Twin struct {
	Config *Config
	Router *chi.Mux
	Logger *slog.Logger
	mw     *Middleware
	mu     sync.RWMutex // protects Config fields during runtime updates
}

// New creates a new Twin with the given config.
func New(cfg *Config) *Twin {
	logger := NewLogger(cfg.Verbose)

	r := chi.NewRouter()
	mw := NewMiddleware(cfg, logger)

	// Latency and failure middleware are always mounted so runtime config
	// updates take effect immediately; both check the config before acting.
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.CORS)
	r.Use(mw.RequestLog)
	r.Use(mw.LatencyInjection)
	r.Use(mw.RandomFailure)

	return &Twin{
		Config: cfg,
		Router: r,
		Logger: logger,
		mw:     mw,
	}
}

// NewLogger returns the JSON stdout logger every twin component shares.
func NewLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}

// Middleware returns the middleware instance for external access (e.g., fault injection).
func (t *Twin) Middleware() *Middleware {
	return t.mw
}

// GetConfig returns the current runtime configuration as a map.
// This implements the admin.ConfigProvider interface.
func (t *Twin) GetConfig() map[string]any {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return map[string]any{
		"name":      t.Config.Name,
		"port":      t.Config.Port,
		"latency":   t.Config.Latency.String(),
		"fail_rate": t.Config.FailRate,
		"spec_dir":  t.Config.SpecDir,
		"verbose":   t.Config.Verbose,
	}
}

// UpdateConfig updates runtime configuration fields from a map.
// This implements the admin.ConfigProvider interface.
// Only latency, fail_rate and verbose can be updated at runtime.
// All fields are validated before any are applied.
func (t *Twin) UpdateConfig(updates map[string]any) error {
	type configUpdate struct {
		latency  *time.Duration
		failRate *float64
		verbose  *bool
	}
	var cu configUpdate

	for k, v := range updates {
		switch k {
		case "latency":
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("latency must be a duration string")
			}
			d, err := time.ParseDuration(s)
			if err != nil {
				return fmt.Errorf("invalid latency duration: %w", err)
			}
			if d < 0 {
				return fmt.Errorf("latency must not be negative")
			}
			cu.latency = &d
		case "fail_rate":
			f, ok := v.(float64)
			if !ok {
				return fmt.Errorf("fail_rate must be a number")
			}
			if f < 0 || f > 1 {
				return fmt.Errorf("fail_rate must be between 0.0 and 1.0")
			}
			cu.failRate = &f
		case "verbose":
			b, ok := v.(bool)
			if !ok {
				return fmt.Errorf("verbose must be a boolean")
			}
			cu.verbose = &b
		case "name", "port", "spec_dir":
			return fmt.Errorf("%s cannot be changed at runtime", k)
		default:
			return fmt.Errorf("unknown config key: %s", k)
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if cu.latency != nil {
		t.Config.Latency = *cu.latency
	}
	if cu.failRate != nil {
		t.Config.FailRate = *cu.failRate
	}
	if cu.verbose != nil {
		t.Config.Verbose = *cu.verbose
	}
	return nil
}

// Serve starts the HTTP server and blocks until shutdown signal.
func (t *Twin) Serve() error {
	addr := fmt.Sprintf(":%d", t.Config.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      t.Router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		t.Logger.Info("starting twin", "name", t.Config.Name, "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	<-done
	t.Logger.Info("shutting down twin", "name", t.Config.Name)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// ServeHTTP implements http.Handler so Twin can be used directly in tests.
func (t *Twin) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	t.Router.ServeHTTP(w, r)
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// Error writes an error in the VeSync envelope shape, using the HTTP status as
// the code. Used for transport-level failures (admin errors, injected faults);
// API-level failures carry vendor codes and are written by the api package.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]any{
		"code":   status,
		"msg":    message,
		"result": nil,
	})
}
