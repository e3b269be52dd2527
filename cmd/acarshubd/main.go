// Command acarshubd is the reference binary wiring the core packages
// together: load config, open storage, build the orchestrator, run
// until a shutdown signal arrives.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sdr-enthusiasts/acarshub-core/internal/alerts"
	"github.com/sdr-enthusiasts/acarshub-core/internal/config"
	"github.com/sdr-enthusiasts/acarshub-core/internal/orchestrator"
	"github.com/sdr-enthusiasts/acarshub-core/internal/processor"
	"github.com/sdr-enthusiasts/acarshub-core/internal/sink"
	"github.com/sdr-enthusiasts/acarshub-core/internal/storage"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var overrides config.Overrides
	var showVersion bool
	flag.StringVar(&overrides.EnvFile, "env-file", "", "Path to .env file (default: .env)")
	flag.StringVar(&overrides.DBPath, "db-path", "", "SQLite database path (overrides DB_PATH)")
	flag.StringVar(&overrides.LogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("%s (commit=%s)\n", version, commit)
		os.Exit(0)
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		early := zerolog.New(os.Stderr).With().Timestamp().Logger()
		early.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		early := zerolog.New(os.Stderr).With().Timestamp().Logger()
		early.Fatal().Err(err).Msg("invalid config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).With().Timestamp().Logger().Level(level)
	log.Info().Str("version", version).Str("commit", commit).Str("log_level", level.String()).Msg("acarshubd starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache := alerts.NewCache()

	engine, err := storage.Open(ctx, cfg.DBPath, cache, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	defer engine.Close()

	// Alert terms are populated through alerts.Service by an embedding
	// caller's own admin surface; the cache starts empty here.
	enricher := processor.NewEnricher(nil, nil)
	broadcaster := sink.NewFanout()

	orch := orchestrator.New(cfg, engine, enricher, broadcaster, log)
	if err := orch.Initialize(); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize orchestrator")
	}

	startTime := time.Now()
	if err := orch.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start orchestrator")
	}

	log.Info().Dur("startup_ms", time.Since(startTime)).Msg("acarshubd ready")

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")
	orch.Stop()
	log.Info().Msg("acarshubd stopped")
}
