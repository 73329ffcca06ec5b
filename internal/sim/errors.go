package sim

import "errors"

var (
	ErrInvalidTrialCount = errors.New("trial count must be positive")
	ErrEmptySeed         = errors.New("server seed is empty")
	ErrNonceRange        = errors.New("nonce range overflows uint64")
)
