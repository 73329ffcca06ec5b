package api

import (
	"errors"
	"fmt"

	"github.com/MJE43/montyhall-replay-go/internal/montyhall"
	"github.com/MJE43/montyhall-replay-go/internal/sim"
)

// fieldError names the request field a validation error belongs to.
type fieldError struct {
	errType string
	field   string
	err     error
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.field, e.err)
}

func (e *fieldError) Unwrap() error {
	return e.err
}

func invalid(errType, field string, err error) *fieldError {
	return &fieldError{errType: errType, field: field, err: err}
}

// ValidateSimulateRequest checks req and returns the parsed strategy.
func ValidateSimulateRequest(req *SimulateRequest, maxTrials int) (montyhall.Strategy, error) {
	strategy, err := montyhall.ParseStrategy(req.Strategy)
	if err != nil {
		return 0, invalid(ErrTypeInvalidStrategy, "strategy", err)
	}
	if req.Seeds.Server == "" {
		return 0, invalid(ErrTypeInvalidSeed, "seeds.server", errors.New("server seed is required"))
	}
	if req.Trials <= 0 {
		return 0, invalid(ErrTypeInvalidTrials, "trials", fmt.Errorf("must be positive, got %d", req.Trials))
	}
	if req.Trials > maxTrials {
		return 0, invalid(ErrTypeInvalidTrials, "trials", fmt.Errorf("too large (max %d)", maxTrials))
	}
	if req.NonceStart > 0 {
		if err := sim.ValidateNonceRange(req.NonceStart, req.Trials); err != nil {
			return 0, invalid(ErrTypeValidation, "nonce_start", err)
		}
	}
	if req.TimeoutMs < 0 {
		return 0, invalid(ErrTypeValidation, "timeout_ms", errors.New("must be >= 0"))
	}
	return strategy, nil
}

// ValidateVerifyRequest checks req and returns the parsed strategy.
func ValidateVerifyRequest(req *VerifyRequest) (montyhall.Strategy, error) {
	strategy, err := montyhall.ParseStrategy(req.Strategy)
	if err != nil {
		return 0, invalid(ErrTypeInvalidStrategy, "strategy", err)
	}
	if req.Seeds.Server == "" {
		return 0, invalid(ErrTypeInvalidSeed, "seeds.server", errors.New("server seed is required"))
	}
	return strategy, nil
}
