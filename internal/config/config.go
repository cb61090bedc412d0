package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	StoreBackendSheets   = "sheets"
	StoreBackendPostgres = "postgres"
)

// SheetRange names a tab and the A1 range read from it.
type SheetRange struct {
	Name  string `toml:"name"`
	Range string `toml:"range"`
}

type Sheets struct {
	Activities SheetRange `toml:"activities"`
	Users      SheetRange `toml:"users"`
	Quotes     SheetRange `toml:"quotes"`
	Regime     SheetRange `toml:"regime"`
	Weights    SheetRange `toml:"weights"`
	Targets    SheetRange `toml:"targets"`
}

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// store
	StoreBackend  string `toml:"store_backend"`
	SpreadsheetID string `toml:"spreadsheet_id"`
	Sheets        Sheets `toml:"sheets"`

	// dashboard
	AnchorDate string `toml:"anchor_date"`
	Timezone   string `toml:"timezone"`

	// entry forms
	EntryRateLimitPerMin int `toml:"entry_rate_limit_per_min"`

	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// backup
	DriveBackupFolder string `toml:"drive_backup_folder"`
	BackupLogsPath    string `toml:"backup_logs_path"`
}

// DefaultSheets mirrors the tabs of the wellness spreadsheet.
func DefaultSheets() Sheets {
	return Sheets{
		Activities: SheetRange{Name: "Raw_Form_Responses", Range: "A1:R1000"},
		Users:      SheetRange{Name: "App_Users", Range: "A1:B1000"},
		Quotes:     SheetRange{Name: "Inspirational_Quotes", Range: "A1:C100"},
		Regime:     SheetRange{Name: "Regime", Range: "A1:D100"},
		Weights:    SheetRange{Name: "Weight_Tracker", Range: "A1:D1000"},
		Targets:    SheetRange{Name: "Weight_Targets", Range: "A1:D1000"},
	}
}

func (c *Config) applyDefaults() {
	def := DefaultSheets()
	fill := func(sr *SheetRange, d SheetRange) {
		if sr.Name == "" {
			sr.Name = d.Name
		}
		if sr.Range == "" {
			sr.Range = d.Range
		}
	}
	fill(&c.Sheets.Activities, def.Activities)
	fill(&c.Sheets.Users, def.Users)
	fill(&c.Sheets.Quotes, def.Quotes)
	fill(&c.Sheets.Regime, def.Regime)
	fill(&c.Sheets.Weights, def.Weights)
	fill(&c.Sheets.Targets, def.Targets)

	if c.StoreBackend == "" {
		c.StoreBackend = StoreBackendSheets
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.EntryRateLimitPerMin <= 0 {
		c.EntryRateLimitPerMin = 10
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 {
		errs = append(errs, fmt.Errorf("invalid port: %d", c.Port))
	}
	switch c.StoreBackend {
	case StoreBackendSheets:
		if c.SpreadsheetID == "" {
			errs = append(errs, errors.New("spreadsheet_id is required for the sheets backend"))
		}
	case StoreBackendPostgres:
		if c.PostgresHost == "" || c.PostgresDBName == "" {
			errs = append(errs, errors.New("postgres_host and postgres_db_name are required for the postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store backend: %s", c.StoreBackend))
	}
	if _, err := c.Anchor(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Anchor is the first day of the activity calendar, at UTC midnight.
func (c *Config) Anchor() (time.Time, error) {
	if c.AnchorDate == "" {
		return time.Time{}, errors.New("anchor_date not set")
	}
	t, err := time.Parse(time.DateOnly, c.AnchorDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse anchor_date: %w", err)
	}
	return t, nil
}

// Location is where "today" is taken from.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] missing", env)
	}

	cfg.applyDefaults()
	if cfg.Environment == "" {
		cfg.Environment = strings.ToLower(env)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
