package api

import (
	"github.com/shopspring/decimal"

	"github.com/MJE43/montyhall-replay-go/internal/engine"
	"github.com/MJE43/montyhall-replay-go/internal/montyhall"
	"github.com/MJE43/montyhall-replay-go/internal/sim"
)

// EngineError represents a structured error response with context
type EngineError struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
}

// Error implements the error interface
func (e EngineError) Error() string {
	return e.Message
}

const (
	// Input validation errors
	ErrTypeInvalidSeed     = "invalid_seed"
	ErrTypeInvalidStrategy = "invalid_strategy"
	ErrTypeInvalidTrials   = "invalid_trial_count"
	ErrTypeValidation      = "validation_error"

	// Trial errors
	ErrTypeInvariant = "invariant_violation"

	// System errors
	ErrTypeTimeout  = "timeout"
	ErrTypeInternal = "internal_error"
)

// ErrorCategory groups error types for logging.
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryGame       ErrorCategory = "game"
	CategorySystem     ErrorCategory = "system"
	CategoryTimeout    ErrorCategory = "timeout"
)

// GetErrorCategory returns the category for an error type
func GetErrorCategory(errType string) ErrorCategory {
	switch errType {
	case ErrTypeInvalidSeed, ErrTypeInvalidStrategy, ErrTypeInvalidTrials, ErrTypeValidation:
		return CategoryValidation
	case ErrTypeInvariant:
		return CategoryGame
	case ErrTypeTimeout:
		return CategoryTimeout
	default:
		return CategorySystem
	}
}

// VersionInfo contains engine version information
type VersionInfo struct {
	EngineVersion string `json:"engine_version"`
	GitCommit     string `json:"git_commit,omitempty"`
	BuildTime     string `json:"build_time,omitempty"`
}

// SimulateRequest is the body of POST /api/v1/simulate. Strategy is kept as
// text so an unknown value is reported as a validation error.
type SimulateRequest struct {
	Strategy   string       `json:"strategy"`
	Seeds      engine.Seeds `json:"seeds"`
	Trials     int          `json:"trials"`
	NonceStart uint64       `json:"nonce_start,omitempty"`
	TimeoutMs  int          `json:"timeout_ms,omitempty"`
}

// SimulateResponse wraps a run result.
type SimulateResponse struct {
	Result        *sim.Result `json:"result"`
	EngineVersion string      `json:"engine_version"`
}

// VerifyRequest replays one trial.
type VerifyRequest struct {
	Strategy string       `json:"strategy"`
	Seeds    engine.Seeds `json:"seeds"`
	Nonce    uint64       `json:"nonce"`
}

// VerifyResponse is the replayed trial.
type VerifyResponse struct {
	Nonce          uint64           `json:"nonce"`
	ServerSeedHash string           `json:"server_seed_hash"`
	ClientSeed     string           `json:"client_seed"`
	Record         montyhall.Record `json:"record"`
	EngineVersion  string           `json:"engine_version"`
}

// StrategyInfo describes one strategy.
type StrategyInfo struct {
	ID              montyhall.Strategy `json:"id"`
	Name            string             `json:"name"`
	ExpectedWinRate decimal.Decimal    `json:"expected_win_rate"`
}

// StrategiesResponse lists the strategies.
type StrategiesResponse struct {
	Strategies    []StrategyInfo `json:"strategies"`
	DoorCount     int            `json:"door_count"`
	EngineVersion string         `json:"engine_version"`
}

// SeedHashRequest represents a seed hashing request
type SeedHashRequest struct {
	ServerSeed string `json:"server_seed"`
}

// SeedHashResponse represents a seed hashing response
type SeedHashResponse struct {
	Hash          string `json:"hash"`
	EngineVersion string `json:"engine_version"`
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status        string `json:"status"`
	EngineVersion string `json:"engine_version"`
	GitCommit     string `json:"git_commit,omitempty"`
	Uptime        string `json:"uptime"`
	Workers       int    `json:"workers"`
	Timestamp     string `json:"timestamp"`
}
