// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/dashboard and cmd/ingest.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Defaults: the club, league and seasons the shot map was built around
// --------------------------------------------------------------------------

const (
	DefaultClub          = "Tottenham"
	DefaultLeague        = "EPL"
	DefaultCurrentSeason = "2024"
	DefaultMatchesFile   = "spurs_matches.csv"
	DefaultShotsPattern  = "tottenham_shots_%s.csv"
	DefaultUnderstatURL  = "https://understat.com"
)

// DefaultSeasons are fetched by a full run when nothing else is configured.
var DefaultSeasons = []string{"2023", "2024"}

// Table names for the optional Postgres mirror.
const (
	MatchesTable = "matches"
	ShotsTable   = "shots"

	// ShotsChannel carries a ShotsEvent whenever a season is mirrored.
	ShotsChannel = "shots_updated"
)

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Scope
	Club          string
	League        string
	Seasons       []string
	CurrentSeason string

	// Flat files
	DataDir      string
	MatchesFile  string
	ShotsPattern string // fmt pattern taking the season

	// Provider
	UnderstatBaseURL      string
	UnderstatRequestsPerM int
	UnderstatTimeout      time.Duration

	// Dashboard server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool
	LogLevel    slog.Level

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool

	// Maintenance; zero disables a task.
	RefreshInterval time.Duration
	SweepInterval   time.Duration

	// Optional Postgres mirror; empty disables it.
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Club:          envOr("SHOTMAP_CLUB", DefaultClub),
		League:        envOr("SHOTMAP_LEAGUE", DefaultLeague),
		Seasons:       envList("SHOTMAP_SEASONS", DefaultSeasons),
		CurrentSeason: envOr("SHOTMAP_CURRENT_SEASON", DefaultCurrentSeason),

		DataDir:      envOr("SHOTMAP_DATA_DIR", "."),
		MatchesFile:  envOr("SHOTMAP_MATCHES_FILE", DefaultMatchesFile),
		ShotsPattern: envOr("SHOTMAP_SHOTS_PATTERN", DefaultShotsPattern),

		UnderstatBaseURL:      strings.TrimRight(envOr("UNDERSTAT_BASE_URL", DefaultUnderstatURL), "/"),
		UnderstatRequestsPerM: envInt("UNDERSTAT_REQUESTS_PER_MINUTE", 60),
		UnderstatTimeout:      time.Duration(envInt("UNDERSTAT_TIMEOUT_SECONDS", 30)) * time.Second,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8501)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),
		LogLevel:    envLevel("LOG_LEVEL", slog.LevelInfo),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost:8501",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),

		RefreshInterval: time.Duration(envInt("SHOTMAP_REFRESH_INTERVAL_MINUTES", 0)) * time.Minute,
		SweepInterval:   time.Duration(envInt("SHOTMAP_SWEEP_INTERVAL_MINUTES", 60)) * time.Minute,

		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 4),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the rest of the program relies on.
func (c *Config) Validate() error {
	if c.Club == "" {
		return fmt.Errorf("SHOTMAP_CLUB must not be empty")
	}
	if len(c.Seasons) == 0 {
		return fmt.Errorf("SHOTMAP_SEASONS must list at least one season")
	}
	if c.CurrentSeason == "" {
		return fmt.Errorf("SHOTMAP_CURRENT_SEASON must not be empty")
	}
	if strings.Count(c.ShotsPattern, "%s") != 1 {
		return fmt.Errorf("SHOTMAP_SHOTS_PATTERN must contain exactly one %%s, got %q", c.ShotsPattern)
	}
	if c.RefreshInterval < 0 || c.SweepInterval < 0 {
		return fmt.Errorf("maintenance intervals must not be negative")
	}
	if c.UnderstatRequestsPerM <= 0 {
		return fmt.Errorf("UNDERSTAT_REQUESTS_PER_MINUTE must be positive")
	}
	return nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// MirrorEnabled reports whether fetched data is also written to Postgres.
func (c *Config) MirrorEnabled() bool {
	return c.DatabaseURL != ""
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err == nil {
			return lvl
		}
	}
	return fallback
}
