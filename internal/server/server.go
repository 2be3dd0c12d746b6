// Package server exposes the optimization engine as an asynchronous job
// service over REST and JSON-RPC 2.0.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/evolvekit/evoq/internal/benchmarks"
	"github.com/evolvekit/evoq/internal/config"
	"github.com/evolvekit/evoq/internal/logging"
	"github.com/evolvekit/evoq/internal/metrics"
	"github.com/evolvekit/evoq/internal/optimization"
	"github.com/evolvekit/evoq/internal/optimization/ep"
	"github.com/evolvekit/evoq/internal/optimization/es"
)

// Logger is the logging surface the server needs; any logger with leveled,
// field-structured methods fits.
type Logger interface {
	Debug(msg string, fields ...map[string]interface{})
	Info(msg string, fields ...map[string]interface{})
	Warn(msg string, fields ...map[string]interface{})
	Error(msg string, fields ...map[string]interface{})
	WithFields(fields map[string]interface{}) *logging.Logger
}

// RunState tracks one optimization job. Guarded by the server's mutex.
type RunState struct {
	ID          string
	Status      string // "pending", "running", "completed", "failed", "cancelled"
	Algorithm   string
	Objective   string
	Budget      int
	StartTime   time.Time
	EndTime     *time.Time
	LastUpdated time.Time

	Engine   *optimization.Engine
	Cancel   context.CancelFunc
	Results  *optimization.Results
	Polished *optimization.Solution
	Error    string
}

// Server manages optimization runs and serves their lifecycle endpoints.
type Server struct {
	cfg     *config.Config
	logger  Logger
	metrics *metrics.Metrics

	runs   map[string]*RunState
	runsMu sync.RWMutex

	// bounds the number of concurrently executing runs
	slots chan struct{}
}

// NewServer creates a server. metrics may be nil to disable instrumentation;
// a nil logger is replaced with a discarding one.
func NewServer(cfg *config.Config, logger Logger, m *metrics.Metrics) *Server {
	if logger == nil {
		logger = logging.New(logging.ErrorLevel, io.Discard)
	}
	concurrent := cfg.Optimization.MaxConcurrent
	if concurrent <= 0 {
		concurrent = 1
	}
	return &Server{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		runs:    make(map[string]*RunState),
		slots:   make(chan struct{}, concurrent),
	}
}

// RegisterRoutes mounts the REST and JSON-RPC endpoints.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/optimize", s.handleOptimize)
		r.Get("/status/{id}", s.handleStatus)
		r.Delete("/optimization/{id}", s.handleCancel)
		r.Get("/objectives", s.handleObjectives)
	})
	r.Post("/rpc", s.handleJSONRPC)
}

// StartRequest is the payload starting a run.
type StartRequest struct {
	Objective              string      `json:"objective"`
	Algorithm              string      `json:"algorithm"`
	Bounds                 [][]float64 `json:"bounds"`
	MaxFunctionEvaluations int         `json:"max_function_evaluations"`
	Seed                   uint64      `json:"seed"`
	Sigma                  float64     `json:"sigma"`
	Mean                   []float64   `json:"mean,omitempty"`
	NIndividuals           int         `json:"n_individuals,omitempty"`
	RecordFitness          bool        `json:"record_fitness"`
	Polish                 bool        `json:"polish"`
}

func newStrategy(name string) (optimization.Strategy, error) {
	switch name {
	case "", "r1es":
		return es.NewRankOne(), nil
	case "fep":
		return ep.NewFast(), nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q", name)
	}
}

// start validates the request, builds an engine and launches the run in its
// own goroutine. Returns the run's id.
func (s *Server) start(req StartRequest) (string, error) {
	objective, ok := benchmarks.Lookup(req.Objective)
	if !ok {
		return "", fmt.Errorf("unknown objective %q, known: %v", req.Objective, benchmarks.Names())
	}
	if len(req.Bounds) == 0 {
		return "", fmt.Errorf("bounds are required")
	}
	if req.Seed == 0 {
		return "", fmt.Errorf("seed is required and must be non-zero")
	}

	dim := len(req.Bounds)
	lower := make([]float64, dim)
	upper := make([]float64, dim)
	for i, b := range req.Bounds {
		if len(b) != 2 {
			return "", fmt.Errorf("invalid bounds format, expected [[min1, max1], ...]")
		}
		lower[i], upper[i] = b[0], b[1]
	}

	strategy, err := newStrategy(req.Algorithm)
	if err != nil {
		return "", err
	}

	budget := req.MaxFunctionEvaluations
	if budget <= 0 {
		budget = s.cfg.Optimization.DefaultBudget
	}
	sigma := req.Sigma
	if sigma <= 0 {
		sigma = s.cfg.Optimization.DefaultSigma
	}

	problem := optimization.Problem{
		Objective: objective,
		Dim:       dim,
		Lower:     lower,
		Upper:     upper,
	}
	opts := optimization.Options{
		MaxFunctionEvaluations: budget,
		MaxRuntime:             s.cfg.Optimization.MaxRuntime,
		Seed:                   req.Seed,
		Sigma:                  sigma,
		Mean:                   req.Mean,
		NIndividuals:           req.NIndividuals,
		RecordFitness:          req.RecordFitness,
	}

	engineLogger := s.logger.WithFields(map[string]interface{}{
		"algorithm": strategy.Name(),
		"objective": req.Objective,
	})
	engine, err := optimization.NewEngine(problem, strategy, opts, engineLogger)
	if err != nil {
		return "", err
	}

	id := fmt.Sprintf("run_%d", time.Now().UnixNano())
	ctx, cancel := context.WithCancel(context.Background())
	state := &RunState{
		ID:          id,
		Status:      "pending",
		Algorithm:   strategy.Name(),
		Objective:   req.Objective,
		Budget:      budget,
		StartTime:   time.Now(),
		LastUpdated: time.Now(),
		Engine:      engine,
		Cancel:      cancel,
	}

	s.runsMu.Lock()
	s.runs[id] = state
	s.runsMu.Unlock()

	if s.metrics != nil {
		s.metrics.RunsStarted.WithLabelValues(strategy.Name()).Inc()
	}
	go s.execute(ctx, state, problem, req.Polish)

	return id, nil
}

// execute runs the engine to completion and folds the outcome back into the
// run table.
func (s *Server) execute(ctx context.Context, state *RunState, problem optimization.Problem, polish bool) {
	s.slots <- struct{}{}
	defer func() { <-s.slots }()

	s.setStatus(state, "running")
	if s.metrics != nil {
		s.metrics.ActiveRuns.Inc()
		defer s.metrics.ActiveRuns.Dec()
	}

	results, err := state.Engine.Run(ctx)

	var polished *optimization.Solution
	if err == nil && polish && results.Termination != optimization.Cancelled.String() {
		refined, spent, perr := optimization.Polish(problem,
			&optimization.Solution{X: results.BestX, Y: results.BestY}, 0)
		if perr == nil {
			polished = refined
			s.logger.Debug("polish finished", map[string]interface{}{
				"run_id":             state.ID,
				"polish_evaluations": spent,
				"polished_y":         refined.Y,
			})
		}
	}

	s.runsMu.Lock()
	defer s.runsMu.Unlock()

	now := time.Now()
	state.EndTime = &now
	state.LastUpdated = now

	switch {
	case err != nil:
		state.Status = "failed"
		state.Error = err.Error()
		s.logger.Error("optimization failed", map[string]interface{}{
			"run_id": state.ID,
			"error":  err.Error(),
		})
		if s.metrics != nil {
			s.metrics.RunsFinished.WithLabelValues(state.Algorithm, "failed").Inc()
		}
	case results.Termination == optimization.Cancelled.String():
		state.Status = "cancelled"
		state.Results = results
		if s.metrics != nil {
			s.metrics.ObserveResults(results, "cancelled")
		}
	default:
		state.Status = "completed"
		state.Results = results
		state.Polished = polished
		s.logger.Info("optimization completed", map[string]interface{}{
			"run_id":        state.ID,
			"best_so_far_y": results.BestY,
			"n_evaluations": results.NFunctionEvaluations,
			"n_restarts":    results.NRestarts,
		})
		if s.metrics != nil {
			s.metrics.ObserveResults(results, "completed")
		}
	}
}

func (s *Server) setStatus(state *RunState, status string) {
	s.runsMu.Lock()
	state.Status = status
	state.LastUpdated = time.Now()
	s.runsMu.Unlock()
}

// status assembles the externally visible view of a run.
func (s *Server) status(id string) (map[string]interface{}, error) {
	s.runsMu.RLock()
	defer s.runsMu.RUnlock()

	state, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("run not found")
	}

	resp := map[string]interface{}{
		"run_id":      state.ID,
		"status":      state.Status,
		"algorithm":   state.Algorithm,
		"objective":   state.Objective,
		"start_time":  state.StartTime.Format(time.RFC3339),
		"last_update": state.LastUpdated.Format(time.RFC3339),
	}
	if state.EndTime != nil {
		resp["end_time"] = state.EndTime.Format(time.RFC3339)
	}
	if state.Error != "" {
		resp["error"] = state.Error
	}

	evaluations := state.Engine.Evaluations()
	resp["n_function_evaluations"] = evaluations
	if state.Budget > 0 {
		resp["progress"] = float64(evaluations) / float64(state.Budget)
	}
	if best := state.Engine.Best(); best != nil && len(best.X) > 0 {
		resp["current_best"] = best
	}
	if state.Results != nil {
		resp["results"] = state.Results
	}
	if state.Polished != nil {
		resp["polished_best"] = state.Polished
	}
	return resp, nil
}

// cancel requests cancellation of a running job.
func (s *Server) cancel(id string) error {
	s.runsMu.Lock()
	defer s.runsMu.Unlock()

	state, ok := s.runs[id]
	if !ok {
		return fmt.Errorf("run not found")
	}
	switch state.Status {
	case "completed", "failed", "cancelled":
		return fmt.Errorf("cannot cancel run with status: %s", state.Status)
	}
	if state.Cancel != nil {
		state.Cancel()
	}
	state.LastUpdated = time.Now()
	s.logger.Info("run cancellation requested", map[string]interface{}{"run_id": id})
	return nil
}

// Close cancels every in-flight run.
func (s *Server) Close() error {
	s.runsMu.Lock()
	defer s.runsMu.Unlock()
	for _, state := range s.runs {
		if state.Cancel != nil {
			state.Cancel()
		}
	}
	return nil
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	id, err := s.start(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"run_id": id,
		"status": "pending",
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	resp, err := s.status(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.cancel(id); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancellation requested"})
}

func (s *Server) handleObjectives(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"objectives": benchmarks.Names(),
		"algorithms": []string{"r1es", "fep"},
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
