package sim

import (
	"fmt"
	"io"

	"github.com/MJE43/montyhall-replay-go/internal/config"
	"github.com/MJE43/montyhall-replay-go/internal/engine"
	"github.com/MJE43/montyhall-replay-go/internal/montyhall"
)

// Report runs every batch of plan for each strategy and writes:
//
//	Winning Percentage by Strategy (1000 games):
//	Stay:   0.329
//	Random: 0.507
//	Switch: 0.671
//
// Nonces advance across all simulations, so no two trials share a stream.
func Report(w io.Writer, plan config.Plan, seeds engine.Seeds) error {
	if seeds.Server == "" {
		return ErrEmptySeed
	}
	for i, trials := range plan.BatchSizes {
		if trials <= 0 {
			return fmt.Errorf("batch %d: %w: got %d", i, ErrInvalidTrialCount, trials)
		}
	}

	sources := SeededSources(seeds)
	next := uint64(1)

	for i, trials := range plan.BatchSizes {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "Winning Percentage by Strategy (%d games):\n", trials); err != nil {
			return err
		}

		for _, strategy := range montyhall.Strategies() {
			wins := countWins(strategy, next, uint64(trials), sources)
			next += uint64(trials)

			rate := ExactRate(wins, uint64(trials))
			if _, err := fmt.Fprintf(w, "%-7s %s\n", strategy.Label()+":", rate.String()); err != nil {
				return err
			}
		}
	}
	return nil
}
