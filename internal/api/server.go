package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/MJE43/montyhall-replay-go/internal/config"
	"github.com/MJE43/montyhall-replay-go/internal/montyhall"
	"github.com/MJE43/montyhall-replay-go/internal/sim"
)

// Server handles HTTP requests
type Server struct {
	cfg          config.Config
	runner       *sim.Runner
	errorHandler *ErrorHandler
	logger       zerolog.Logger
	startTime    time.Time
}

// NewServer creates a new API server
func NewServer(cfg config.Config, logger zerolog.Logger) *Server {
	logger = logger.With().Str("component", "api").Logger()

	server := &Server{
		cfg:          cfg,
		runner:       sim.NewRunner(cfg.Workers, logger),
		errorHandler: NewErrorHandler(logger),
		logger:       logger,
		startTime:    time.Now(),
	}

	logger.Info().
		Int("strategies", len(montyhall.Strategies())).
		Int("workers", server.runner.Workers()).
		Int("max_trials", cfg.MaxTrials).
		Str("engine_version", EngineVersion).
		Msg("system_startup")

	return server
}

// Routes sets up the HTTP routes with proper middleware
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.RequestLoggingMiddleware)
	r.Use(s.errorHandler.RecoveryHandler)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	r.Use(s.CORSMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/strategies", s.handleListStrategies)
		r.Post("/simulate", s.handleSimulate)
		r.Post("/verify", s.handleVerify)
		r.Post("/seed/hash", s.handleSeedHash)
	})

	return r
}

// writeJSON writes a JSON response with proper headers
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Engine-Version", EngineVersion)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}
