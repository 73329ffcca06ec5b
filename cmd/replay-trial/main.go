package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/MJE43/montyhall-replay-go/internal/engine"
	"github.com/MJE43/montyhall-replay-go/internal/montyhall"
	"github.com/MJE43/montyhall-replay-go/internal/sim"
)

// At most one float per draw: shuffle 2, pick 1, reveal 1, revise 1.
const maxDraws = 5

func main() {
	serverSeed := flag.String("server", "", "server seed (required)")
	clientSeed := flag.String("client", "", "client seed")
	nonce := flag.Uint64("nonce", 1, "trial nonce")
	strategyName := flag.String("strategy", "switch", "stay, random or switch")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	strategy, err := montyhall.ParseStrategy(*strategyName)
	if err != nil {
		logger.Fatal().Err(err).Msg("bad -strategy")
	}
	seeds := engine.Seeds{Server: *serverSeed, Client: *clientSeed}

	rec, err := sim.Verify(seeds, *nonce, strategy)
	if err != nil {
		logger.Fatal().Err(err).Msg("replay failed")
	}

	fmt.Printf("Server seed hash: %s\n", seeds.ServerHash())
	fmt.Printf("Client seed:      %s\n", seeds.Client)
	fmt.Printf("Nonce:            %d\n", *nonce)
	fmt.Printf("Strategy:         %s\n", strategy.Label())

	fmt.Println("\nRaw floats:")
	for i, f := range engine.Floats(seeds.Server, seeds.Client, *nonce, 0, maxDraws) {
		fmt.Printf("  %d: %.16f\n", i, f)
	}

	fmt.Println("\nPhases:")
	for _, snap := range rec.Phases {
		fmt.Printf("  %-13s %s\n", snap.Phase, snap.Doors)
	}

	fmt.Printf("\nCar %d, picked %d, host opened %d, final %d: %s\n",
		rec.CarIndex, rec.InitialPick, rec.Revealed, rec.FinalPick, rec.Outcome)
}
