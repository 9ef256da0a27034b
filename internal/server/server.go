// Package server exposes the planning components as a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/iwvelando/finance-planner/internal/coach"
	"github.com/iwvelando/finance-planner/internal/domain"
	"github.com/iwvelando/finance-planner/internal/fire"
	"github.com/iwvelando/finance-planner/internal/forecast"
	"github.com/iwvelando/finance-planner/internal/optimizer"
	"github.com/iwvelando/finance-planner/internal/trend"
	"github.com/iwvelando/finance-planner/pkg/constants"
	"go.uber.org/zap"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	projector     *forecast.Projector
	solver        *optimizer.Solver
	fire          *fire.Calculator
	forecaster    *trend.Forecaster
	coach         *coach.Engine
}

// NewHandler constructs the HTTP handler that serves the planning API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		projector:     forecast.NewProjector(logger),
		solver:        optimizer.NewSolver(logger, optimizer.DefaultOptions()),
		fire:          fire.NewCalculator(logger),
		forecaster:    trend.NewForecaster(logger),
		coach:         coach.NewEngine(logger),
	}

	r := mux.NewRouter()
	r.Use(h.requestID)

	r.HandleFunc("/api/scenarios/calculate", h.handleCalculate).Methods(http.MethodPost)
	r.HandleFunc("/api/scenarios/reverse", h.handleReverse).Methods(http.MethodPost)
	r.HandleFunc("/api/scenarios/fire", h.handleFire).Methods(http.MethodPost)
	r.HandleFunc("/api/scenarios/forecast", h.handleForecast).Methods(http.MethodPost)
	r.HandleFunc("/api/coach/analyze", h.handleCoach).Methods(http.MethodPost)
	r.HandleFunc("/api/version", h.handleVersion).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)

	r.MethodNotAllowedHandler = h.requestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.respondErrorWithOp(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed), "server.router")
	}))
	r.NotFoundHandler = h.requestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.respondErrorWithOp(w, http.StatusNotFound, http.StatusText(http.StatusNotFound), "server.router")
	}))

	return r
}

// requestID tags every request with an id, reusing the caller's when present.
func (h *handler) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(constants.RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(constants.RequestIDHeader, id)

		start := time.Now()
		next.ServeHTTP(w, r)
		h.logger.Debug("request served",
			zap.String("op", "server.requestID"),
			zap.String("requestId", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// decode reads a JSON body into dst, answering 413 or 400 itself on failure.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxUploadSize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err), op)
		return false
	}
	return true
}

func (h *handler) respondComputeError(w http.ResponseWriter, err error, op string) {
	status := http.StatusInternalServerError
	if domain.IsInvalidParameter(err) {
		status = http.StatusBadRequest
	}
	h.respondErrorWithOp(w, status, err.Error(), op)
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"
	var req forecast.ProjectionRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	result, err := h.projector.Project(req)
	if err != nil {
		h.respondComputeError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleReverse(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReverse"
	var req optimizer.ReverseRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	result, err := h.solver.Solve(req)
	if err != nil {
		h.respondComputeError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleFire(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleFire"
	var req fire.Request
	if !h.decode(w, r, &req, op) {
		return
	}
	result, err := h.fire.Calculate(req)
	if err != nil {
		h.respondComputeError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleForecast"
	var req trend.Request
	if !h.decode(w, r, &req, op) {
		return
	}
	result, err := h.forecaster.Forecast(req)
	if err != nil {
		h.respondComputeError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleCoach(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCoach"
	var req coach.Request
	if !h.decode(w, r, &req, op) {
		return
	}
	nudges, err := h.coach.Analyze(req)
	if err != nil {
		h.respondComputeError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, nudges)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("planning request failed",
		zap.String("op", op),
		zap.String("requestId", w.Header().Get(constants.RequestIDHeader)),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

// Run serves handler on cfg.Address until ctx is cancelled, then shuts down
// gracefully within the configured shutdown timeout.
func Run(ctx context.Context, cfg *Config, handler http.Handler, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	read, write, shutdown := cfg.Timeouts()
	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  read,
		WriteTimeout: write,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server",
			zap.String("op", "server.Run"),
			zap.String("address", cfg.Address),
			zap.Int64("maxUploadSize", cfg.UploadSizeBytes()),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server", zap.String("op", "server.Run"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdown)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
