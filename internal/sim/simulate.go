package sim

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/MJE43/montyhall-replay-go/internal/engine"
	"github.com/MJE43/montyhall-replay-go/internal/montyhall"
)

// SourceFactory returns the random source for the trial with the given nonce.
// Each call must return an independent source.
type SourceFactory func(nonce uint64) montyhall.Source

// SeededSources draws every trial from its own HMAC stream keyed by nonce.
func SeededSources(seeds engine.Seeds) SourceFactory {
	return func(nonce uint64) montyhall.Source {
		return engine.NewStream(seeds, nonce)
	}
}

// Simulate plays trials games with nonces 1..trials and returns the fraction won.
func Simulate(strategy montyhall.Strategy, trials int, seeds engine.Seeds) (float64, error) {
	if seeds.Server == "" {
		return 0, ErrEmptySeed
	}
	return SimulateWith(strategy, trials, SeededSources(seeds))
}

// SimulateWith is Simulate over an arbitrary source factory.
func SimulateWith(strategy montyhall.Strategy, trials int, sources SourceFactory) (float64, error) {
	if err := validate(strategy, trials); err != nil {
		return 0, err
	}
	wins := countWins(strategy, 1, uint64(trials), sources)
	return float64(wins) / float64(trials), nil
}

// Verify replays the single trial played with nonce.
func Verify(seeds engine.Seeds, nonce uint64, strategy montyhall.Strategy) (montyhall.Record, error) {
	if seeds.Server == "" {
		return montyhall.Record{}, ErrEmptySeed
	}
	if err := strategy.Validate(); err != nil {
		return montyhall.Record{}, err
	}
	return play(strategy, engine.NewStream(seeds, nonce)), nil
}

// validate rejects bad input before any trial runs.
func validate(strategy montyhall.Strategy, trials int) error {
	if err := strategy.Validate(); err != nil {
		return err
	}
	if trials <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTrialCount, trials)
	}
	return nil
}

// ValidateNonceRange rejects a run whose last nonce would pass math.MaxUint64.
// trials must already be positive.
func ValidateNonceRange(start uint64, trials int) error {
	if start > math.MaxUint64-uint64(trials)+1 {
		return fmt.Errorf("%w: start %d with %d trials", ErrNonceRange, start, trials)
	}
	return nil
}

// countWins plays nonces [start, start+trials) sequentially.
func countWins(strategy montyhall.Strategy, start, trials uint64, sources SourceFactory) uint64 {
	var wins uint64
	for i := uint64(0); i < trials; i++ {
		if play(strategy, sources(start+i)).Outcome == montyhall.Win {
			wins++
		}
	}
	return wins
}

// play runs one trial. strategy must already be validated.
func play(strategy montyhall.Strategy, src montyhall.Source) montyhall.Record {
	game, err := montyhall.NewGame(strategy, src)
	if err != nil {
		panic(err)
	}
	return game.Play()
}

// ExactRate returns wins/trials as a decimal; zero when trials is zero.
func ExactRate(wins, trials uint64) decimal.Decimal {
	if trials == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(wins)).Div(decimal.NewFromInt(int64(trials)))
}
