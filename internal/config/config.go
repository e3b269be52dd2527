package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the typed configuration record the core is built from. In
// production the embedding application loads this (see spec §1 — config
// loading from the environment is out of the core's scope); the Load
// helper here exists so the reference binary and tests can build one.
type Config struct {
	ACARSConnections string `env:"ACARS_CONNECTIONS"`
	VDLMConnections  string `env:"VDLM_CONNECTIONS"`
	HFDLConnections  string `env:"HFDL_CONNECTIONS"`
	IMSLConnections  string `env:"IMSL_CONNECTIONS"`
	IRDMConnections  string `env:"IRDM_CONNECTIONS"`

	QueueCapacity   int  `env:"QUEUE_CAPACITY" envDefault:"15"`
	SaveAllMessages bool `env:"SAVE_ALL_MESSAGES" envDefault:"false"`

	DBPath string `env:"DB_PATH" envDefault:"./acarshub.db"`

	MessageRetentionDays int `env:"MESSAGE_RETENTION_DAYS" envDefault:"7"`
	AlertRetentionDays   int `env:"ALERT_RETENTION_DAYS" envDefault:"7"`

	TimeseriesRetention1MinHours int `env:"TIMESERIES_RETENTION_1MIN_HOURS" envDefault:"24"`
	TimeseriesRetention5MinHours int `env:"TIMESERIES_RETENTION_5MIN_HOURS" envDefault:"168"`
	TimeseriesRetention1HourDays int `env:"TIMESERIES_RETENTION_1HOUR_DAYS" envDefault:"30"`
	TimeseriesRetention6HourDays int `env:"TIMESERIES_RETENTION_6HOUR_DAYS" envDefault:"365"`

	ADSBEnabled      bool          `env:"ADSB_ENABLED" envDefault:"false"`
	ADSBURL          string        `env:"ADSB_URL"`
	ADSBPollInterval time.Duration `env:"ADSB_POLL_INTERVAL" envDefault:"5s"`
	ADSBTimeout      time.Duration `env:"ADSB_TIMEOUT" envDefault:"5s"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Overrides holds CLI flag values that take priority over env vars.
type Overrides struct {
	EnvFile  string
	DBPath   string
	LogLevel string
}

// Load reads configuration from a .env file, environment variables, and
// CLI overrides. Priority: CLI flags > environment variables > .env file
// > struct defaults — mirrors the teacher's config.Load.
func Load(overrides Overrides) (*Config, error) {
	envFile := overrides.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if overrides.DBPath != "" {
		cfg.DBPath = overrides.DBPath
	}
	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}
	return cfg, nil
}

// Validate checks that at least one decoder kind has a non-empty
// connection string, mirroring the teacher's "at least one ingest
// source" check.
func (c *Config) Validate() error {
	if c.ACARSConnections == "" && c.VDLMConnections == "" && c.HFDLConnections == "" &&
		c.IMSLConnections == "" && c.IRDMConnections == "" {
		return fmt.Errorf("at least one of ACARS_CONNECTIONS, VDLM_CONNECTIONS, HFDL_CONNECTIONS, IMSL_CONNECTIONS, IRDM_CONNECTIONS must be set")
	}
	return nil
}

// ConnectionsFor returns the raw connection string configured for kind.
func (c *Config) ConnectionsFor(kind Kind) string {
	switch kind {
	case KindACARS:
		return c.ACARSConnections
	case KindVDLM2:
		return c.VDLMConnections
	case KindHFDL:
		return c.HFDLConnections
	case KindIMSL:
		return c.IMSLConnections
	case KindIRDM:
		return c.IRDMConnections
	default:
		return ""
	}
}
