package aggregate

import (
	"context"
	"log/slog"

	"github.com/albapepper/fpl-league-report/internal/league"
)

// CaptaincyRecord is one entry's captain choice for one gameweek.
type CaptaincyRecord struct {
	Entry             league.Entry
	Gameweek          int
	Captain           *string
	CaptainPoints     *int
	TripleCaptainUsed bool
}

// Captaincy scans gameweeks 1..opts.LastGameweek. Live scores are fetched
// once per gameweek and shared by every entry; a gameweek without live
// scores is skipped entirely, an entry without picks (or without a captain)
// is skipped for that gameweek only.
func Captaincy(ctx context.Context, src Source, ref *league.Reference, weeks ChipWeeks, opts Options, logger *slog.Logger) ([]CaptaincyRecord, Result) {
	opts = opts.withDefaults()
	var result Result
	var records []CaptaincyRecord

	for gw := 1; gw <= opts.LastGameweek; gw++ {
		if err := ctx.Err(); err != nil {
			result.AddErrorf("captaincy aborted: %v", err)
			break
		}

		logger.Info("Fetching captain data...", "gameweek", gw)
		live, err := src.Live(ctx, gw)
		if err != nil {
			logger.Warn("Skipping gameweek - live data unavailable", "gameweek", gw, "error", err)
			result.AddErrorf("live GW%d: %v", gw, err)
			result.GameweeksSkipped++
			continue
		}
		points := live.PointsByElement()

		for _, entry := range ref.Entries {
			picks, err := src.Picks(ctx, entry.ID, gw)
			if err != nil {
				logger.Debug("Skipping entry - no picks", "entry", entry.ID, "gameweek", gw, "error", err)
				result.EntriesSkipped++
				continue
			}
			captainID, ok := picks.Captain()
			if !ok {
				logger.Debug("Skipping entry - no captain", "entry", entry.ID, "gameweek", gw)
				result.EntriesSkipped++
				continue
			}

			rec := CaptaincyRecord{
				Entry:             entry,
				Gameweek:          gw,
				TripleCaptainUsed: weeks.TripleCaptainActive(entry.ID, gw),
			}
			if p, ok := ref.Catalog.Player(captainID); ok {
				rec.Captain = strPtr(p.Name)
			}
			if pts, ok := points[captainID]; ok {
				rec.CaptainPoints = intPtr(pts)
			}
			records = append(records, rec)
			result.EntriesProcessed++
		}
	}

	result.Records = len(records)
	logger.Info("Captain data done", "summary", result.Summary())
	return records, result
}
