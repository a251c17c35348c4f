package aggregate

import (
	"context"
	"log/slog"
	"sort"

	"github.com/albapepper/fpl-league-report/internal/league"
)

// TransferRecord is a single transfer with both players resolved.
type TransferRecord struct {
	Entry         league.Entry
	Gameweek      int
	PlayerOut     league.Player
	PlayerIn      league.Player
	FreeHitActive bool
}

// Transfers collects every entry's transfer log, dropping transfers that
// reference a player missing from the catalog, and orders the result by
// gameweek then manager name.
func Transfers(ctx context.Context, src Source, ref *league.Reference, weeks ChipWeeks, logger *slog.Logger) ([]TransferRecord, Result) {
	var result Result
	var records []TransferRecord
	dropped := 0

	logger.Info("Fetching transfer data...", "entries", len(ref.Entries))
	for _, entry := range ref.Entries {
		if err := ctx.Err(); err != nil {
			result.AddErrorf("transfers aborted: %v", err)
			break
		}

		transfers, err := src.Transfers(ctx, entry.ID)
		if err != nil {
			logger.Warn("Transfer log unavailable", "entry", entry.ID, "error", err)
			result.AddErrorf("transfers for entry %d: %v", entry.ID, err)
			result.EntriesSkipped++
			continue
		}

		for _, t := range transfers {
			in, okIn := ref.Catalog.Player(t.ElementIn)
			out, okOut := ref.Catalog.Player(t.ElementOut)
			if !okIn || !okOut {
				dropped++
				continue
			}
			records = append(records, TransferRecord{
				Entry:         entry,
				Gameweek:      t.Event,
				PlayerOut:     out,
				PlayerIn:      in,
				FreeHitActive: weeks.FreeHitActive(entry.ID, t.Event),
			})
		}
		result.EntriesProcessed++
	}

	SortTransfers(records)

	result.Records = len(records)
	logger.Info("Transfer data done", "summary", result.Summary(), "dropped_uncatalogued", dropped)
	return records, result
}

// SortTransfers orders records by gameweek, then manager name. The sort is
// stable so an entry's own transfers keep their log order within a gameweek.
func SortTransfers(records []TransferRecord) {
	if len(records) == 0 {
		return
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Gameweek != records[j].Gameweek {
			return records[i].Gameweek < records[j].Gameweek
		}
		return records[i].Entry.ManagerName < records[j].Entry.ManagerName
	})
}
