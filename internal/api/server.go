package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/fadedpez/blackjackev/internal/logging"
	"github.com/fadedpez/blackjackev/internal/types"
	"github.com/fadedpez/blackjackev/pkg/entities"
	"github.com/fadedpez/blackjackev/pkg/repositories/chart"
	"github.com/fadedpez/blackjackev/pkg/scheduler"
	"github.com/fadedpez/blackjackev/pkg/services/ev"
	"github.com/fadedpez/blackjackev/pkg/services/strategy"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

const (
	// Finished jobs stay visible at /api/jobs/{id} this long
	jobRetention = 10 * time.Minute
	// The calculator cache is emptied once it holds more rule sets than this
	maxCachedCalculators = 16
)

// historian is implemented by repositories that index entries across charts
type historian interface {
	EntryHistory(ctx context.Context, playerHand, dealerUpcard string, limit int) ([]chart.EntryDocument, error)
}

// Server exposes the calculator and the chart repository over HTTP
type Server struct {
	rules     entities.Rules
	repo      chart.Repository
	generator *strategy.Generator
	history   historian
	hub       *Hub
	scheduler *scheduler.Scheduler
	clock     quartz.Clock
	logger    *logging.Logger
	origins   []string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.Mutex
	calcs map[entities.Rules]*ev.Calculator
	jobs  map[string]*job
}

// Options configures a Server
type Options struct {
	// Rules fill in any rule a request leaves out
	Rules          entities.Rules
	Repository     chart.Repository
	Generator      *strategy.Generator
	AllowedOrigins []string
	Logger         *logging.Logger
	// Clock drives housekeeping and job timestamps
	Clock quartz.Clock
}

// NewServer creates a server and starts its websocket hub and housekeeping.
// Close stops both and cancels running generations.
func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logging.Default
	}
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.Generator == nil {
		opts.Generator = strategy.NewGenerator(strategy.WithRepository(opts.Repository), strategy.WithLogger(opts.Logger))
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		rules:     opts.Rules,
		repo:      opts.Repository,
		generator: opts.Generator,
		hub:       NewHub(opts.AllowedOrigins, opts.Logger),
		scheduler: scheduler.NewScheduler(opts.Clock, opts.Logger),
		clock:     opts.Clock,
		logger:    opts.Logger,
		origins:   opts.AllowedOrigins,
		ctx:       ctx,
		cancel:    cancel,
		calcs:     make(map[entities.Rules]*ev.Calculator),
		jobs:      make(map[string]*job),
	}
	if h, ok := opts.Repository.(historian); ok {
		s.history = h
	}

	s.scheduler.AddTask("prune-jobs", time.Minute, func(context.Context) error {
		if n := s.pruneJobs(jobRetention); n > 0 {
			s.logger.Debug("Pruned %d finished jobs", n)
		}
		return nil
	})
	s.scheduler.AddTask("trim-calculators", 5*time.Minute, func(context.Context) error {
		s.trimCalculators(maxCachedCalculators)
		return nil
	})

	go s.hub.Run(ctx)
	s.scheduler.Start(ctx)
	return s
}

// Close cancels running generations and waits for them to finish
func (s *Server) Close() {
	s.cancel()
	s.scheduler.Stop()
	s.wg.Wait()
}

// pruneJobs forgets jobs that finished more than maxAge ago
func (s *Server) pruneJobs(maxAge time.Duration) int {
	cutoff := s.clock.Now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	pruned := 0
	for id, j := range s.jobs {
		st := j.snapshot()
		if st.FinishedAt != nil && st.FinishedAt.Before(cutoff) {
			delete(s.jobs, id)
			pruned++
		}
	}
	return pruned
}

// trimCalculators drops every cached Calculator once there are more than max.
// Their memo tables are the server's largest allocation.
func (s *Server) trimCalculators(max int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.calcs) <= max {
		return
	}
	s.logger.Info("Dropping %d cached calculators", len(s.calcs))
	s.calcs = make(map[entities.Rules]*ev.Calculator)
}

// RegisterRoutes registers all API routes
func (s *Server) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/ev", s.GetEV).Methods("GET")
	r.HandleFunc("/api/dealer", s.GetDealer).Methods("GET")

	r.HandleFunc("/api/charts", s.ListCharts).Methods("GET")
	r.HandleFunc("/api/charts", s.GenerateChart).Methods("POST")
	r.HandleFunc("/api/charts/{id}", s.GetChart).Methods("GET")
	r.HandleFunc("/api/charts/{id}", s.DeleteChart).Methods("DELETE")
	r.HandleFunc("/api/charts/{id}/csv", s.ExportChart).Methods("GET")
	r.HandleFunc("/api/jobs/{id}", s.GetJob).Methods("GET")
	r.HandleFunc("/api/history", s.GetHistory).Methods("GET")

	r.HandleFunc("/ws", s.hub.WebSocketHandler)
}

// Handler returns the routed API wrapped in request logging and CORS
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	s.RegisterRoutes(r)

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			s.logger.Debug("%s %s %s", r.Method, r.RequestURI, time.Since(start))
		})
	})

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(r)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.Close()
	return srv.Shutdown(shutdownCtx)
}

// calculator returns the shared Calculator for rules, creating it on first use
func (s *Server) calculator(rules entities.Rules) (*ev.Calculator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if calc, ok := s.calcs[rules]; ok {
		return calc, nil
	}
	calc, err := ev.New(rules, ev.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	s.calcs[rules] = calc
	return calc, nil
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// response helper function to send JSON responses
func response(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

type errorBody struct {
	Error string          `json:"error"`
	Code  types.ErrorCode `json:"code"`
}

// errorResponse maps err onto a status code and logs server-side failures
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	gameErr := Classify(err)

	status := http.StatusInternalServerError
	switch gameErr.Code {
	case types.ErrInvalidArgument, types.ErrInvalidRules, types.ErrInvalidComposition:
		status = http.StatusBadRequest
	case types.ErrChartNotFound:
		status = http.StatusNotFound
	default:
		s.logger.LogError(gameErr)
	}

	response(w, status, errorBody{Error: gameErr.Error(), Code: gameErr.Code})
}

// Classify wraps err in a GameError carrying the code its cause implies
func Classify(err error) *types.GameError {
	var gameErr *types.GameError
	if types.As(err, &gameErr) {
		return gameErr
	}

	switch {
	case errors.Is(err, entities.ErrInvalidRules):
		return types.WrapError(types.ErrInvalidRules, "invalid rules", err)
	case errors.Is(err, entities.ErrRankExhausted):
		return types.WrapError(types.ErrInvalidComposition, "impossible cards", err)
	case errors.Is(err, entities.ErrInvalidRank),
		errors.Is(err, ev.ErrNoPlayerCards),
		errors.Is(err, strategy.ErrInvalidHand):
		return types.WrapError(types.ErrInvalidArgument, "invalid cards", err)
	case errors.Is(err, chart.ErrChartNotFound):
		return types.WrapError(types.ErrChartNotFound, "chart not found", err)
	case errors.Is(err, context.Canceled):
		return types.WrapError(types.ErrCancelled, "cancelled", err)
	}
	return types.WrapError(types.ErrInternalError, "internal error", err)
}
