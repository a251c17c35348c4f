// Package pipeline runs a full report build for one league: reference load,
// aggregation, then rendering. The CLI and the HTTP server both go through
// it; the server additionally serves renderings from the cache.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/albapepper/fpl-league-report/internal/aggregate"
	"github.com/albapepper/fpl-league-report/internal/cache"
	"github.com/albapepper/fpl-league-report/internal/league"
	"github.com/albapepper/fpl-league-report/internal/report"
)

// Source is everything a build reads from the FPL API.
type Source interface {
	league.Source
	aggregate.Source
}

// Generator builds reports. Builds are serialised: they share one upstream
// rate limit, and a concurrent miss on the same league should wait for the
// build in flight rather than start another.
type Generator struct {
	src    Source
	opts   aggregate.Options
	cache  *cache.Cache
	logger *slog.Logger

	mu sync.Mutex
}

// New creates a Generator. c may be nil when nothing is cached (CLI runs).
func New(src Source, opts aggregate.Options, c *cache.Cache, logger *slog.Logger) *Generator {
	if c == nil {
		c = cache.New(false, 0)
	}
	return &Generator{src: src, opts: opts, cache: c, logger: logger}
}

// Tables loads reference data and runs every aggregation step. Only a
// reference-load failure is returned as an error; per-entry failures are
// reported in the Result.
// A league without entries yields empty tables, not an error.
func (g *Generator) Tables(ctx context.Context, leagueID int) (*aggregate.Tables, aggregate.Result, error) {
	_, tables, result, err := g.build(ctx, leagueID)
	return tables, result, err
}

func (g *Generator) build(ctx context.Context, leagueID int) (*league.Reference, *aggregate.Tables, aggregate.Result, error) {
	ref, err := league.Load(ctx, g.src, leagueID, g.logger)
	if err != nil {
		return nil, nil, aggregate.Result{}, err
	}
	tables, result := aggregate.Run(ctx, g.src, ref, g.opts, g.logger)
	if err := ctx.Err(); err != nil {
		return nil, nil, result, fmt.Errorf("build interrupted: %w", err)
	}
	return ref, tables, result, nil
}

// WriteFile builds the report and writes the workbook to path.
func (g *Generator) WriteFile(ctx context.Context, leagueID int, path string) (aggregate.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	tables, result, err := g.Tables(ctx, leagueID)
	if err != nil {
		return result, err
	}
	if err := report.WriteFile(path, tables); err != nil {
		return result, err
	}
	g.logger.Info("Report written", "path", path, "summary", result.Summary())
	return result, nil
}

// Picks builds the wide picks table over the bootstrap's gameweeks.
func (g *Generator) Picks(ctx context.Context, leagueID int, finalisedOnly bool) (*aggregate.PicksTable, aggregate.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ref, err := league.Load(ctx, g.src, leagueID, g.logger)
	if err != nil {
		return nil, aggregate.Result{}, err
	}
	gameweeks := ref.Catalog.Gameweeks(finalisedOnly)
	table, result := aggregate.WidePicks(ctx, g.src, ref, gameweeks, g.logger)
	if err := ctx.Err(); err != nil {
		return nil, result, fmt.Errorf("picks export interrupted: %w", err)
	}
	return table, result, nil
}

// --------------------------------------------------------------------------
// Cached renderings
// --------------------------------------------------------------------------

// Summary is the JSON rendering of a report.
type Summary struct {
	LeagueID    int            `json:"league_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Sheets      []SummarySheet `json:"sheets"`
	Stats       SummaryStats   `json:"stats"`
}

// SummarySheet is one workbook sheet as JSON records.
type SummarySheet struct {
	Name    string                   `json:"name"`
	Columns []string                 `json:"columns"`
	Rows    []map[string]interface{} `json:"rows"`
}

// SummaryStats mirrors aggregate.Result.
type SummaryStats struct {
	EntriesProcessed int      `json:"entries_processed"`
	EntriesSkipped   int      `json:"entries_skipped"`
	GameweeksSkipped int      `json:"gameweeks_skipped"`
	Records          int      `json:"records"`
	Errors           []string `json:"errors"`
}

// Workbook returns the xlsx rendering for leagueID, building it on a miss.
// The bool reports a cache hit.
func (g *Generator) Workbook(ctx context.Context, leagueID int) (cache.Entry, bool, error) {
	return g.cached(ctx, cache.Key(cache.KindWorkbook, leagueID), leagueID)
}

// SummaryJSON returns the JSON rendering for leagueID, building on a miss.
func (g *Generator) SummaryJSON(ctx context.Context, leagueID int) (cache.Entry, bool, error) {
	return g.cached(ctx, cache.Key(cache.KindSummary, leagueID), leagueID)
}

func (g *Generator) cached(ctx context.Context, key string, leagueID int) (cache.Entry, bool, error) {
	if e, ok := g.cache.Get(key); ok {
		return e, true, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	// Another request may have filled the entry while we waited.
	if e, ok := g.cache.Get(key); ok {
		return e, true, nil
	}

	entries, err := g.refresh(ctx, leagueID)
	if err != nil {
		return cache.Entry{}, false, err
	}
	return entries[key], false, nil
}

// Refresh rebuilds both renderings for leagueID and stores them.
func (g *Generator) Refresh(ctx context.Context, leagueID int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, err := g.refresh(ctx, leagueID)
	return err
}

// refresh must be called with mu held. Unlike the CLI, the cached renderings
// refuse a league with no entries so a mistyped id is not served as a report.
func (g *Generator) refresh(ctx context.Context, leagueID int) (map[string]cache.Entry, error) {
	start := time.Now()
	ref, tables, result, err := g.build(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if len(ref.Entries) == 0 {
		return nil, fmt.Errorf("league %d: %w", leagueID, league.ErrNoEntries)
	}

	book, err := report.Render(tables)
	if err != nil {
		return nil, err
	}
	summary, err := json.Marshal(buildSummary(tables, result, start.UTC()))
	if err != nil {
		return nil, fmt.Errorf("encode summary: %w", err)
	}

	bookKey := cache.Key(cache.KindWorkbook, leagueID)
	summaryKey := cache.Key(cache.KindSummary, leagueID)
	entries := map[string]cache.Entry{
		bookKey:    {Data: book, ETag: g.cache.Set(bookKey, book), GeneratedAt: start},
		summaryKey: {Data: summary, ETag: g.cache.Set(summaryKey, summary), GeneratedAt: start},
	}

	g.logger.Info("Report refreshed",
		"league_id", leagueID,
		"bytes", len(book),
		"duration", time.Since(start).Round(time.Millisecond),
		"summary", result.Summary())
	return entries, nil
}

func buildSummary(t *aggregate.Tables, r aggregate.Result, at time.Time) Summary {
	sheets := report.Sheets(t)
	out := Summary{
		LeagueID:    t.LeagueID,
		GeneratedAt: at,
		Sheets:      make([]SummarySheet, 0, len(sheets)),
		Stats: SummaryStats{
			EntriesProcessed: r.EntriesProcessed,
			EntriesSkipped:   r.EntriesSkipped,
			GameweeksSkipped: r.GameweeksSkipped,
			Records:          r.Records,
			Errors:           r.Errors,
		},
	}
	if out.Stats.Errors == nil {
		out.Stats.Errors = []string{}
	}
	for _, s := range sheets {
		out.Sheets = append(out.Sheets, SummarySheet{Name: s.Name, Columns: s.Header, Rows: s.Records()})
	}
	return out
}
