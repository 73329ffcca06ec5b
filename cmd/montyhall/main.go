package main

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/MJE43/montyhall-replay-go/internal/config"
	"github.com/MJE43/montyhall-replay-go/internal/engine"
	"github.com/MJE43/montyhall-replay-go/internal/sim"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.WarnLevel).
		With().Timestamp().Logger()

	seeds := engine.NewSeeds()
	if err := sim.Report(os.Stdout, config.DefaultPlan(), seeds); err != nil {
		logger.Error().Err(err).Str("server_hash", seeds.ServerHash()).Msg("report failed")
		os.Exit(1)
	}
}
