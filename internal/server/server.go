// Package server provides the local HTTP companion API: the autofill trigger
// protocol, job metadata extraction and the application tracker.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/jonathan/hired-always/internal/autofill"
	"github.com/jonathan/hired-always/internal/jobinfo"
	"github.com/jonathan/hired-always/internal/platform"
	"github.com/jonathan/hired-always/internal/server/middleware"
	"github.com/jonathan/hired-always/internal/server/ratelimit"
	"github.com/jonathan/hired-always/internal/tracker"
)

// maxBody bounds request bodies, which may carry a whole page of markup.
const maxBody = 10 << 20

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	filler      *autofill.Filler
	extractor   *jobinfo.Extractor
	registry    *platform.Registry
	tracker     *tracker.Tracker
	rateLimiter *ratelimit.Limiter
	logger      *slog.Logger

	// pageMu serializes every use of page; the fill pass assumes it is the
	// only writer.
	pageMu sync.Mutex
	page   autofill.Page
}

// Config holds server configuration. Page and Tracker are optional; routes
// that need a missing one answer 503.
type Config struct {
	Port      int
	Token     string
	Filler    *autofill.Filler
	Extractor *jobinfo.Extractor
	Registry  *platform.Registry
	Tracker   *tracker.Tracker
	Page      autofill.Page
	RateLimit *ratelimit.Config
	Logger    *slog.Logger
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Filler == nil {
		return nil, fmt.Errorf("server: filler is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Registry == nil {
		cfg.Registry = platform.Default()
	}
	if cfg.Extractor == nil {
		cfg.Extractor = jobinfo.New(cfg.Registry, cfg.Logger)
	}

	s := &Server{
		filler:      cfg.Filler,
		extractor:   cfg.Extractor,
		registry:    cfg.Registry,
		tracker:     cfg.Tracker,
		page:        cfg.Page,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		logger:      cfg.Logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /message", s.handleMessage)
	mux.HandleFunc("POST /extract", s.handleExtract)

	mux.HandleFunc("GET /applications", s.handleListApplications)
	mux.HandleFunc("POST /applications", s.handleCreateApplication)
	mux.HandleFunc("GET /applications/stats", s.handleApplicationStats)
	mux.HandleFunc("GET /applications/export", s.handleExportApplications)
	mux.HandleFunc("POST /applications/import", s.handleImportApplications)
	mux.HandleFunc("GET /applications/{id}", s.handleGetApplication)
	mux.HandleFunc("PUT /applications/{id}", s.handleUpdateApplication)
	mux.HandleFunc("DELETE /applications/{id}", s.handleDeleteApplication)
	mux.HandleFunc("POST /applications/{id}/status", s.handleSetStatus)

	auth := middleware.RequireToken(cfg.Token, "/health")
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(auth(mux)))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // AI fill passes can be slow
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Handler returns the full middleware chain and routes.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	defer s.rateLimiter.Stop()

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server: listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err, ok := <-errc:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server: stopped")
	return nil
}

// withCORS adds CORS headers so the browser extension can call the server
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
		}
		if !allowed {
			retry := int(info.RetryAfter.Round(time.Second).Seconds())
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			s.logger.Warn("server: rate limit exceeded", "path", r.URL.Path, "client", clientID(r))
			s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
				"error":       "rate_limit_exceeded",
				"retry_after": retry,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("server: request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

// clientID extracts the client IP from RemoteAddr ("IP:port").
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"tab":     s.page != nil,
		"tracker": s.tracker != nil,
	})
}

// handleMessage runs one trigger message against the attached tab.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var msg autofill.Message
	if err := decode(r, &msg); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if s.page == nil {
		s.jsonResponse(w, http.StatusServiceUnavailable, autofill.Response{
			Error: (&ErrUnavailable{Resource: "browser tab"}).Error(),
		})
		return
	}

	s.pageMu.Lock()
	resp := s.filler.HandleMessage(r.Context(), s.page, msg)
	s.pageMu.Unlock()

	if !resp.OK {
		s.logger.Warn("server: message failed", "type", msg.Type, "error", resp.Error)
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("server: encode response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// fail writes err with the status HTTPStatus assigns it.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		s.logger.Error("server: request failed", "error", err)
	}
	s.errorResponse(w, status, err.Error())
}

// decode reads a JSON request body into v.
func decode(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}
