package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/fpl-league-report/internal/aggregate"
	"github.com/albapepper/fpl-league-report/internal/api/handler"
	"github.com/albapepper/fpl-league-report/internal/cache"
	"github.com/albapepper/fpl-league-report/internal/config"
	"github.com/albapepper/fpl-league-report/internal/pipeline"
	"github.com/albapepper/fpl-league-report/internal/provider/fpl"
	"github.com/albapepper/fpl-league-report/internal/provider/fpl/fpltest"

	_ "github.com/albapepper/fpl-league-report/docs"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func testConfig() *config.Config {
	return &config.Config{
		LeagueID:          fpltest.LeagueID,
		ReportFile:        "out/WWHALigaData.xlsx",
		CORSAllowOrigins:  []string{"*"},
		RateLimitEnabled:  false,
		RateLimitRequests: 30,
		RateLimitWindow:   time.Minute,
		CacheEnabled:      true,
		CacheTTL:          time.Hour,
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) (*chi.Mux, *fpltest.Server) {
	t.Helper()
	srv := fpltest.NewServer(t)
	client := fpl.NewClient(srv.URL, "fpl-report-test", 60000, 5*time.Second, discard)
	appCache := cache.New(cfg.CacheEnabled, cfg.CacheTTL)
	gen := pipeline.New(client, aggregate.Options{WildcardSplitGW: 20, LastGameweek: 3}, appCache, discard)
	return NewRouter(gen, appCache, cfg, discard), srv
}

func get(t *testing.T, h http.Handler, target string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRootAndHealth(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	rec := get(t, r, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, handler.Version, body["version"])
	assert.EqualValues(t, fpltest.LeagueID, body["default_league"])
	assert.NotEmpty(t, rec.Header().Get("X-Process-Time"))

	rec = get(t, r, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)

	rec = get(t, r, "/health/cache", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"active_keys"`)
}

func TestReportDownloadAndETag(t *testing.T) {
	r, srv := newTestRouter(t, testConfig())

	rec := get(t, r, "/api/v1/report", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, handler.XLSXContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="WWHALigaData.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.NotZero(t, rec.Body.Len())
	calls := srv.Requests()

	rec = get(t, r, "/api/v1/report?league=42", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, etag, rec.Header().Get("ETag"))

	rec = get(t, r, "/api/v1/report", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Zero(t, rec.Body.Len())
	assert.Equal(t, calls, srv.Requests())
}

func TestReportRefreshRebuilds(t *testing.T) {
	r, srv := newTestRouter(t, testConfig())

	rec := get(t, r, "/api/v1/report/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	calls := srv.Requests()

	rec = get(t, r, "/api/v1/report/summary", nil)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))

	rec = get(t, r, "/api/v1/report/summary?refresh=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Greater(t, srv.Requests(), calls, "a refresh goes back upstream")

	// the rebuild refilled the workbook as well
	rec = get(t, r, "/api/v1/report", nil)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
}

func TestReportSummary(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	rec := get(t, r, "/api/v1/report/summary?league=42", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var s pipeline.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	require.Len(t, s.Sheets, 3)
	assert.Len(t, s.Sheets[0].Rows, 2)
}

func TestReportErrors(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	for _, tc := range []struct {
		target string
		status int
		code   string
	}{
		{"/api/v1/report?league=abc", http.StatusBadRequest, "INVALID_LEAGUE"},
		{"/api/v1/report?league=-3", http.StatusBadRequest, "INVALID_LEAGUE"},
		{"/api/v1/report?league=43", http.StatusBadGateway, "UPSTREAM_UNAVAILABLE"},
		{"/api/v1/report/summary?league=43", http.StatusBadGateway, "UPSTREAM_UNAVAILABLE"},
		{"/api/v1/report?league=7", http.StatusNotFound, "LEAGUE_EMPTY"},
		{"/api/v1/report/summary?league=7", http.StatusNotFound, "LEAGUE_EMPTY"},
	} {
		t.Run(tc.target, func(t *testing.T) {
			rec := get(t, r, tc.target, nil)
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.code)
		})
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitRequests = 2
	r, _ := newTestRouter(t, cfg)

	assert.Equal(t, http.StatusOK, get(t, r, "/health", nil).Code)
	rec := get(t, r, "/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestCORS(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())
	rec := get(t, r, "/health", map[string]string{"Origin": "https://example.com"})
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSwaggerDoc(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())
	rec := get(t, r, "/docs/doc.json", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "FPL League Report API")
	assert.Contains(t, rec.Body.String(), "/report/summary")
}
