package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Bobot/internal/scoring"
	"github.com/MikeSquared-Agency/Bobot/internal/store"
	"github.com/MikeSquared-Agency/Bobot/internal/weights"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Hermes   HermesConfig   `yaml:"hermes"`
	Seeding  SeedingConfig  `yaml:"seeding"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port               int    `yaml:"port"`
	MetricsPort        int    `yaml:"metrics_port"`
	AdminToken         string `yaml:"admin_token"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

type SeedingConfig struct {
	// FactorCounts is the number of factors generated per category.
	FactorCounts map[store.Category]int `yaml:"factor_counts"`
	Rating       scoring.RatingRange    `yaml:"rating"`
	MaxShare     int                    `yaml:"max_share"`
	// UnitDelayMs paces SeedAll between units.
	UnitDelayMs int    `yaml:"unit_delay_ms"`
	Source      string `yaml:"source"`
}

type CatalogConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) UnitDelay() time.Duration {
	return time.Duration(c.Seeding.UnitDelayMs) * time.Millisecond
}

// SlogLevel maps the configured level name to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.Logging.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger from the logging section.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Logging.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               8700,
			MetricsPort:        8701,
			RateLimitPerMinute: 120,
		},
		Hermes: HermesConfig{
			URL: "nats://localhost:4222",
		},
		Seeding: SeedingConfig{
			FactorCounts: map[store.Category]int{
				store.CategoryStrength:    6,
				store.CategoryWeakness:    5,
				store.CategoryOpportunity: 6,
				store.CategoryThreat:      5,
			},
			Rating:      scoring.DefaultRatingRange(),
			MaxShare:    weights.DefaultMaxShare,
			UnitDelayMs: 500,
			Source:      "seed",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the seeding section; servers and URLs are checked when they are used.
func (c *Config) Validate() error {
	for _, cat := range store.Categories {
		n, ok := c.Seeding.FactorCounts[cat]
		if !ok {
			return fmt.Errorf("seeding: missing factor count for %s", cat)
		}
		if n < 1 || n > weights.Total {
			return fmt.Errorf("seeding: factor count for %s must be in [1, %d], got %d", cat, weights.Total, n)
		}
	}
	for cat := range c.Seeding.FactorCounts {
		if !cat.Valid() {
			return fmt.Errorf("seeding: unknown category %q", cat)
		}
	}
	if err := c.Seeding.Rating.Validate(); err != nil {
		return fmt.Errorf("seeding: %w", err)
	}
	if c.Seeding.MaxShare < 1 || c.Seeding.MaxShare > weights.Total {
		return fmt.Errorf("seeding: max_share must be in [1, %d], got %d", weights.Total, c.Seeding.MaxShare)
	}
	if c.Seeding.UnitDelayMs < 0 {
		return fmt.Errorf("seeding: unit_delay_ms must not be negative")
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("BOBOT_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("BOBOT_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("BOBOT_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("BOBOT_RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateLimitPerMinute = n
		}
	}
	if v := os.Getenv("BOBOT_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("BOBOT_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("BOBOT_CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("BOBOT_UNIT_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Seeding.UnitDelayMs = n
		}
	}
	if v := os.Getenv("BOBOT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("BOBOT_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
