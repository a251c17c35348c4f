package aggregate

import (
	"context"
	"log/slog"
	"time"

	"github.com/albapepper/fpl-league-report/internal/league"
)

// Tables holds the three report tables for one league.
type Tables struct {
	LeagueID  int
	Transfers []TransferRecord
	Chips     []ChipRecord
	Captaincy []CaptaincyRecord
}

// Run executes the aggregation steps in dependency order: chips first (its
// gameweek tables feed the other two), then captaincy, then transfers.
func Run(ctx context.Context, src Source, ref *league.Reference, opts Options, logger *slog.Logger) (*Tables, Result) {
	start := time.Now()
	var total Result

	chips, weeks, r := Chips(ctx, src, ref, opts, logger)
	total.Add(r)

	captaincy, r := Captaincy(ctx, src, ref, weeks, opts, logger)
	total.Add(r)

	transfers, r := Transfers(ctx, src, ref, weeks, logger)
	total.Add(r)

	logger.Info("Aggregation complete",
		"league_id", ref.LeagueID,
		"duration", time.Since(start).Round(time.Second),
		"summary", total.Summary())

	return &Tables{
		LeagueID:  ref.LeagueID,
		Transfers: transfers,
		Chips:     chips,
		Captaincy: captaincy,
	}, total
}
