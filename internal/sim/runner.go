package sim

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/MJE43/montyhall-replay-go/internal/engine"
	"github.com/MJE43/montyhall-replay-go/internal/montyhall"
)

// batchSize is the number of nonces handed to a worker at a time.
const batchSize = 8192

// Request describes one simulation run.
type Request struct {
	Strategy   montyhall.Strategy `json:"strategy"`
	Seeds      engine.Seeds       `json:"seeds"`
	Trials     int                `json:"trials"`
	NonceStart uint64             `json:"nonce_start,omitempty"` // defaults to 1
	TimeoutMs  int                `json:"timeout_ms,omitempty"`
}

// Result is the aggregate of a run. On timeout it covers the trials that
// finished before the deadline.
type Result struct {
	RunID          string             `json:"run_id"`
	Strategy       montyhall.Strategy `json:"strategy"`
	ServerSeedHash string             `json:"server_seed_hash"`
	ClientSeed     string             `json:"client_seed"`
	NonceStart     uint64             `json:"nonce_start"`
	NonceEnd       uint64             `json:"nonce_end"`
	Trials         int                `json:"trials"`
	Evaluated      uint64             `json:"evaluated"`
	Wins           uint64             `json:"wins"`
	Losses         uint64             `json:"losses"`
	WinRate        float64            `json:"win_rate"`
	WinRateExact   decimal.Decimal    `json:"win_rate_exact"`
	Expected       decimal.Decimal    `json:"expected_win_rate"`
	TimedOut       bool               `json:"timed_out,omitempty"`
	Elapsed        time.Duration      `json:"elapsed_ns"`
}

// job is a nonce range, inclusive on both ends.
type job struct {
	start uint64
	end   uint64
}

// Runner plays trials on a pool of workers. Every trial draws from its own
// nonce-keyed stream, so results do not depend on the worker count.
type Runner struct {
	workerCount int
	logger      zerolog.Logger
}

// NewRunner creates a runner with workers goroutines; workers <= 0 means GOMAXPROCS.
func NewRunner(workers int, logger zerolog.Logger) *Runner {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Runner{
		workerCount: workers,
		logger:      logger.With().Str("component", "runner").Logger(),
	}
}

// Workers returns the size of the worker pool.
func (r *Runner) Workers() int {
	return r.workerCount
}

// Run executes req. A panic inside any trial (an invariant violation) is
// re-raised on the calling goroutine once the workers have stopped.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Seeds.Server == "" {
		return nil, ErrEmptySeed
	}
	if err := validate(req.Strategy, req.Trials); err != nil {
		return nil, err
	}
	if req.NonceStart == 0 {
		req.NonceStart = 1
	}
	if err := ValidateNonceRange(req.NonceStart, req.Trials); err != nil {
		return nil, err
	}

	if req.TimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(req.TimeoutMs)*time.Millisecond)
		defer cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	res := &Result{
		RunID:          uuid.NewString(),
		Strategy:       req.Strategy,
		ServerSeedHash: req.Seeds.ServerHash(),
		ClientSeed:     req.Seeds.Client,
		NonceStart:     req.NonceStart,
		NonceEnd:       req.NonceStart + uint64(req.Trials) - 1,
		Trials:         req.Trials,
		Expected:       req.Strategy.ExpectedWinRate(),
	}

	log := r.logger.With().Str("run_id", res.RunID).Str("strategy", req.Strategy.String()).Logger()
	log.Debug().
		Str("server_hash", res.ServerSeedHash).
		Uint64("nonce_start", res.NonceStart).
		Uint64("nonce_end", res.NonceEnd).
		Int("workers", r.workerCount).
		Msg("simulation_started")

	start := time.Now()
	jobs := make(chan job, r.workerCount*2)
	sources := SeededSources(req.Seeds)

	var (
		evaluated uint64
		wins      uint64
		wg        sync.WaitGroup
		panicOnce sync.Once
		panicVal  any
	)

	for i := 0; i < r.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if p := recover(); p != nil {
					panicOnce.Do(func() { panicVal = p })
					cancel()
				}
			}()

			for {
				select {
				case j, ok := <-jobs:
					if !ok {
						return
					}
					n, w := processJob(ctx, req.Strategy, j, sources)
					atomic.AddUint64(&evaluated, n)
					atomic.AddUint64(&wins, w)
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go generateJobs(ctx, jobs, res.NonceStart, res.NonceEnd)
	wg.Wait()

	if panicVal != nil {
		log.Error().Interface("panic", panicVal).Msg("simulation_aborted")
		panic(panicVal)
	}

	res.Elapsed = time.Since(start)
	res.Evaluated = atomic.LoadUint64(&evaluated)
	res.Wins = atomic.LoadUint64(&wins)
	res.Losses = res.Evaluated - res.Wins
	res.TimedOut = res.Evaluated < uint64(req.Trials)
	res.WinRateExact = ExactRate(res.Wins, res.Evaluated)
	res.WinRate = res.WinRateExact.InexactFloat64()

	log.Debug().
		Uint64("evaluated", res.Evaluated).
		Uint64("wins", res.Wins).
		Str("win_rate", res.WinRateExact.StringFixed(4)).
		Bool("timed_out", res.TimedOut).
		Dur("elapsed", res.Elapsed).
		Msg("simulation_completed")

	return res, nil
}

// processJob plays every nonce in j, stopping early if ctx is done.
// j.end may be math.MaxUint64, so the loop exits on equality, not on overflow.
func processJob(ctx context.Context, strategy montyhall.Strategy, j job, sources SourceFactory) (evaluated, wins uint64) {
	for nonce := j.start; ; nonce++ {
		select {
		case <-ctx.Done():
			return evaluated, wins
		default:
		}

		if play(strategy, sources(nonce)).Outcome == montyhall.Win {
			wins++
		}
		evaluated++

		if nonce == j.end {
			return evaluated, wins
		}
	}
}

// generateJobs cuts [start, end] into batches. start must not exceed end.
func generateJobs(ctx context.Context, jobs chan<- job, start, end uint64) {
	defer close(jobs)

	for current := start; ; {
		batchEnd := end
		if end-current >= batchSize {
			batchEnd = current + batchSize - 1
		}

		select {
		case jobs <- job{start: current, end: batchEnd}:
		case <-ctx.Done():
			return
		}

		if batchEnd == end {
			return
		}
		current = batchEnd + 1
	}
}
