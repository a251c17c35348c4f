package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultLeagueID, cfg.LeagueID)
	assert.Equal(t, "https://fantasy.premierleague.com/api", cfg.BaseURL)
	assert.Equal(t, "WWHALigaData.xlsx", cfg.ReportFile)
	assert.Equal(t, 38, cfg.LastGameweek)
	assert.Equal(t, 20, cfg.WildcardSplitGW)
	assert.Equal(t, 20*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.PicksFinalisedOnly)
	assert.Empty(t, cfg.RefreshCron)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FPL_LEAGUE_ID", "1234")
	t.Setenv("FPL_BASE_URL", "http://localhost:9999/api/")
	t.Setenv("REPORT_LAST_GAMEWEEK", "10")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("CACHE_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1234, cfg.LeagueID)
	assert.Equal(t, "http://localhost:9999/api", cfg.BaseURL)
	assert.Equal(t, 10, cfg.LastGameweek)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
	assert.False(t, cfg.CacheEnabled)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("FPL_REQUESTS_PER_MINUTE", "lots")
	t.Setenv("RATE_LIMIT_ENABLED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 170, cfg.RequestsPerMinute)
	assert.True(t, cfg.RateLimitEnabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero league", func(c *Config) { c.LeagueID = 0 }, true},
		{"gameweek past season", func(c *Config) { c.LastGameweek = 39 }, true},
		{"gameweek zero", func(c *Config) { c.LastGameweek = 0 }, true},
		{"no request budget", func(c *Config) { c.RequestsPerMinute = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestPicksPath(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, "fpl_league_77_picks_wide.csv", cfg.PicksPath(77))

	cfg.PicksFile = "out/picks.csv"
	assert.Equal(t, "out/picks.csv", cfg.PicksPath(77))
}

func TestIsProduction(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.IsProduction())

	t.Setenv("ENVIRONMENT", "production")
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
