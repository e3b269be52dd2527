// Package storage implements the embedded relational store: schema
// migrations, the full-text search contract, the per-message insert
// pipeline (frequency/level counters, save decision, alert matching),
// pruning, and optimization, per spec §4.6.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/sdr-enthusiasts/acarshub-core/internal/alerts"
	"github.com/sdr-enthusiasts/acarshub-core/internal/config"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Engine is the embedded relational store. It implements
// alerts.Store and alerts.MessageSource so the alerts service can
// persist through it without this package depending on alerts' cache
// internals.
type Engine struct {
	db    *sqlx.DB
	cache *alerts.Cache
	log   zerolog.Logger
}

// Open connects to (and creates, if absent) the SQLite database at path,
// applies pending migrations, and returns a ready Engine. cache is the
// in-memory alert-term cache consulted during AddMessage.
func Open(ctx context.Context, path string, cache *alerts.Cache, log zerolog.Logger) (*Engine, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", path)
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite3 driver is not safe for concurrent writers

	if err := migrateUp(db.DB); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	e := &Engine{
		db:    db,
		cache: cache,
		log:   log.With().Str("component", "storage").Logger(),
	}
	e.log.Info().Str("path", path).Msg("storage engine ready")
	return e, nil
}

func migrateUp(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return err
	}
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

// HealthCheck pings the underlying database within a short timeout.
func (e *Engine) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return e.db.PingContext(ctx)
}

// Close closes the database handle.
func (e *Engine) Close() error {
	e.log.Info().Msg("closing storage engine")
	return e.db.Close()
}

// freqTable and levelTable map a decoder kind to its per-kind counter
// table name (spec §4.6: `freqs_<kind>` / `level_<kind>`).
func freqTable(kind config.Kind) string {
	return "freqs_" + kindSuffix(kind)
}

func levelTable(kind config.Kind) string {
	return "level_" + kindSuffix(kind)
}

func kindSuffix(kind config.Kind) string {
	switch kind {
	case config.KindACARS:
		return "acars"
	case config.KindVDLM2:
		return "vdlm2"
	case config.KindHFDL:
		return "hfdl"
	case config.KindIMSL:
		return "imsl"
	case config.KindIRDM:
		return "irdm"
	default:
		return "unknown"
	}
}
