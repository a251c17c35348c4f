// Package config provides centralized configuration loaded from environment
// variables. Shared by every fpl-report subcommand.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Season structure
// --------------------------------------------------------------------------

const (
	// DefaultLeagueID is the mini-league the report was built for.
	DefaultLeagueID = 542663

	FirstGameweek        = 1
	DefaultLastGameweek  = 38
	DefaultWildcardSplit = 20
)

// Config is populated from environment variables; CLI flags may override it.
type Config struct {
	// Upstream FPL API
	LeagueID          int
	BaseURL           string
	UserAgent         string
	RequestsPerMinute int
	HTTPTimeout       time.Duration

	// Report
	ReportFile         string
	LastGameweek       int
	WildcardSplitGW    int
	PicksFile          string
	PicksFinalisedOnly bool

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool
	CacheTTL     time.Duration

	// Scheduled refresh (serve mode only); empty disables
	RefreshCron string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		LeagueID:          envInt("FPL_LEAGUE_ID", DefaultLeagueID),
		BaseURL:           strings.TrimRight(envOr("FPL_BASE_URL", "https://fantasy.premierleague.com/api"), "/"),
		UserAgent:         envOr("FPL_USER_AGENT", "fpl-league-report/1.0"),
		RequestsPerMinute: envInt("FPL_REQUESTS_PER_MINUTE", 170),
		HTTPTimeout:       time.Duration(envInt("FPL_HTTP_TIMEOUT_SECONDS", 20)) * time.Second,

		ReportFile:         envOr("REPORT_FILE", "WWHALigaData.xlsx"),
		LastGameweek:       envInt("REPORT_LAST_GAMEWEEK", DefaultLastGameweek),
		WildcardSplitGW:    envInt("REPORT_WILDCARD_SPLIT_GW", DefaultWildcardSplit),
		PicksFile:          envOr("PICKS_FILE", ""),
		PicksFinalisedOnly: envBool("PICKS_FINALISED_ONLY", true),

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 30),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),
		CacheTTL:     time.Duration(envInt("CACHE_TTL_MINUTES", 60)) * time.Minute,

		RefreshCron: envOr("REPORT_REFRESH_CRON", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks invariants that flag overrides can also break.
func (c *Config) Validate() error {
	if c.LeagueID <= 0 {
		return fmt.Errorf("league id must be positive, got %d", c.LeagueID)
	}
	if c.LastGameweek < FirstGameweek || c.LastGameweek > DefaultLastGameweek {
		return fmt.Errorf("last gameweek must be within %d..%d, got %d", FirstGameweek, DefaultLastGameweek, c.LastGameweek)
	}
	if c.RequestsPerMinute <= 0 {
		return fmt.Errorf("FPL_REQUESTS_PER_MINUTE must be positive, got %d", c.RequestsPerMinute)
	}
	return nil
}

// PicksPath returns the CSV path for the wide picks export of a league.
func (c *Config) PicksPath(leagueID int) string {
	if c.PicksFile != "" {
		return c.PicksFile
	}
	return fmt.Sprintf("fpl_league_%d_picks_wide.csv", leagueID)
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
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
