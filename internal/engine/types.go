package engine

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// Seeds key every random draw of a run.
type Seeds struct {
	Server string `json:"server"` // ASCII; do NOT hex-decode
	Client string `json:"client"`
}

// NewSeeds returns a fresh random seed pair.
func NewSeeds() Seeds {
	return Seeds{
		Server: uuid.NewString(),
		Client: uuid.NewString(),
	}
}

// ServerHash returns the SHA-256 hex digest of the server seed, the only
// form of it that may be logged or echoed.
func (s Seeds) ServerHash() string {
	return HashSeed(s.Server)
}

// HashSeed returns the SHA-256 hex digest of seed, or "" for an empty seed.
func HashSeed(seed string) string {
	if seed == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(hash[:])
}
