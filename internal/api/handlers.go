package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/MJE43/montyhall-replay-go/internal/engine"
	"github.com/MJE43/montyhall-replay-go/internal/montyhall"
	"github.com/MJE43/montyhall-replay-go/internal/sim"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	version := GetVersionInfo()
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "healthy",
		EngineVersion: version.EngineVersion,
		GitCommit:     version.GitCommit,
		Uptime:        time.Since(s.startTime).Round(time.Second).String(),
		Workers:       s.runner.Workers(),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleListStrategies(w http.ResponseWriter, r *http.Request) {
	strategies := montyhall.Strategies()
	infos := make([]StrategyInfo, 0, len(strategies))
	for _, st := range strategies {
		infos = append(infos, StrategyInfo{
			ID:              st,
			Name:            st.Label(),
			ExpectedWinRate: st.ExpectedWinRate().Round(6),
		})
	}

	s.writeJSON(w, http.StatusOK, StrategiesResponse{
		Strategies:    infos,
		DoorCount:     montyhall.DoorCount,
		EngineVersion: EngineVersion,
	})
}

// handleSimulate runs a batch of trials on the worker pool.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if !s.decode(w, r, &req) {
		return
	}

	strategy, err := ValidateSimulateRequest(&req, s.cfg.MaxTrials)
	if err != nil {
		s.handleInvalid(w, r, err)
		return
	}

	s.logger.Info().
		Str("strategy", strategy.String()).
		Str("server_hash", hashPrefix(req.Seeds.Server)).
		Str("client_hash", hashPrefix(req.Seeds.Client)).
		Int("trials", req.Trials).
		Uint64("nonce_start", req.NonceStart).
		Int("timeout_ms", req.TimeoutMs).
		Msg("simulate_request")

	result, err := s.runner.Run(r.Context(), sim.Request{
		Strategy:   strategy,
		Seeds:      req.Seeds,
		Trials:     req.Trials,
		NonceStart: req.NonceStart,
		TimeoutMs:  req.TimeoutMs,
	})
	if err != nil {
		s.handleInvalid(w, r, err)
		return
	}

	s.logger.Info().
		Str("run_id", result.RunID).
		Uint64("evaluated", result.Evaluated).
		Uint64("wins", result.Wins).
		Bool("timed_out", result.TimedOut).
		Dur("elapsed", result.Elapsed).
		Msg("simulate_completed")

	s.writeJSON(w, http.StatusOK, SimulateResponse{
		Result:        result,
		EngineVersion: EngineVersion,
	})
}

// handleVerify replays a single trial for a nonce.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if !s.decode(w, r, &req) {
		return
	}

	strategy, err := ValidateVerifyRequest(&req)
	if err != nil {
		s.handleInvalid(w, r, err)
		return
	}

	s.logger.Info().
		Str("strategy", strategy.String()).
		Str("server_hash", hashPrefix(req.Seeds.Server)).
		Str("client_hash", hashPrefix(req.Seeds.Client)).
		Uint64("nonce", req.Nonce).
		Msg("verify_request")

	rec, err := sim.Verify(req.Seeds, req.Nonce, strategy)
	if err != nil {
		s.handleInvalid(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, VerifyResponse{
		Nonce:          req.Nonce,
		ServerSeedHash: req.Seeds.ServerHash(),
		ClientSeed:     req.Seeds.Client,
		Record:         rec,
		EngineVersion:  EngineVersion,
	})
}

func (s *Server) handleSeedHash(w http.ResponseWriter, r *http.Request) {
	var req SeedHashRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.ServerSeed == "" {
		s.errorHandler.HandleValidationError(w, r, ErrTypeInvalidSeed, "server_seed", errors.New("server seed is required"))
		return
	}

	s.writeJSON(w, http.StatusOK, SeedHashResponse{
		Hash:          engine.HashSeed(req.ServerSeed),
		EngineVersion: EngineVersion,
	})
}

// decode reads a JSON body into dst, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.errorHandler.HandleValidationError(w, r, ErrTypeValidation, "body", err)
		return false
	}
	return true
}

// handleInvalid maps validation and domain errors onto 400s; anything else is a 500.
func (s *Server) handleInvalid(w http.ResponseWriter, r *http.Request, err error) {
	var fe *fieldError
	switch {
	case errors.As(err, &fe):
		s.errorHandler.HandleValidationError(w, r, fe.errType, fe.field, fe.err)
	case errors.Is(err, montyhall.ErrInvalidStrategy):
		s.errorHandler.HandleValidationError(w, r, ErrTypeInvalidStrategy, "strategy", err)
	case errors.Is(err, sim.ErrInvalidTrialCount):
		s.errorHandler.HandleValidationError(w, r, ErrTypeInvalidTrials, "trials", err)
	case errors.Is(err, sim.ErrEmptySeed):
		s.errorHandler.HandleValidationError(w, r, ErrTypeInvalidSeed, "seeds.server", err)
	case errors.Is(err, sim.ErrNonceRange):
		s.errorHandler.HandleValidationError(w, r, ErrTypeValidation, "nonce_start", err)
	default:
		s.errorHandler.HandleError(w, r, err)
	}
}

// hashPrefix shortens a seed hash for logs.
func hashPrefix(seed string) string {
	h := engine.HashSeed(seed)
	if h == "" {
		return "empty"
	}
	return h[:16]
}
