// Package server exposes the knapsack solvers over HTTP.
//
// Routes:
//
//	POST /api/v1/solve  solve a JSON instance, answers carry X-Cache: HIT|MISS
//	GET  /healthz       liveness check
//	GET  /metrics       Prometheus exposition
//
// Optimal answers are cached by the SHA-256 of the normalized request.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/katalvlaran/knapsack/config"
	"github.com/katalvlaran/knapsack/knapsack"
	"github.com/katalvlaran/knapsack/metrics"
)

// Server serves solve requests. Build it with New.
type Server struct {
	cfg      config.Server
	base     knapsack.Options
	log      logr.Logger
	recorder *metrics.Recorder
	gatherer prometheus.Gatherer
	cache    *responseCache
	http     *http.Server
}

// New builds a Server from cfg. Metrics are registered with reg, which also
// backs /metrics; a nil reg gets a private registry.
func New(cfg config.Config, log logr.Logger, reg *prometheus.Registry) (*Server, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base, err := cfg.SolveOptions(log.WithName("solver"))
	if err != nil {
		return nil, err
	}
	rec, err := metrics.NewRecorder(reg)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg.Server,
		base:     base,
		log:      log,
		recorder: rec,
		gatherer: reg,
		cache:    newResponseCache(cfg.Server.CacheSize, cfg.Server.CacheTTL),
	}
	s.http = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s, nil
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.healthHandler)
	mux.HandleFunc("/api/v1/solve", s.solveHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	return s.logRequests(mux)
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return nil
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) solveHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req SolveRequest
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	p, opts, err := normalize(&req, s.base, s.cfg.RequestTimeLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key, keyErr := cacheKey(&req)
	if keyErr == nil {
		if cached, ok := s.cache.get(key); ok {
			s.recorder.CacheHit()
			w.Header().Set("X-Cache", "HIT")
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}
	s.recorder.CacheMiss()

	rep, err := knapsack.Solve(p, opts)
	s.recorder.ObserveReport(rep, err)
	switch {
	case err == nil:
	case knapsack.IsBudgetError(err) && opts.Algo == knapsack.BranchAndBound:
		// incumbent is still a feasible answer
	case knapsack.IsBudgetError(err):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	default:
		s.log.Error(err, "solve failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := newSolveResponse(req.Document, p, rep)
	if rep.Optimal && keyErr == nil {
		s.cache.put(key, resp)
	}
	w.Header().Set("X-Cache", "MISS")
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: http.StatusText(status), Message: msg})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.log.V(1).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start))
	})
}
