package aggregate

import (
	"context"
	"log/slog"

	"github.com/albapepper/fpl-league-report/internal/league"
	"github.com/albapepper/fpl-league-report/internal/provider/fpl"
)

// ChipRecord is one entry's chip usage for the season. Nil fields mean the
// chip was not played (or could not be resolved).
type ChipRecord struct {
	Entry               league.Entry
	Wildcard1           *int
	Wildcard2           *int
	FreeHit             *int
	BenchBoost          *int
	TripleCaptain       *int
	TripleCaptainPlayer *string
	TripleCaptainPoints *int
}

// ChipWeeks maps entry id to the gameweek a chip was played in. Only the
// last play of each chip is kept, so an entry that played the same chip
// twice in a season only has its later gameweek flagged.
type ChipWeeks struct {
	FreeHit       map[int]int
	TripleCaptain map[int]int
}

func newChipWeeks() ChipWeeks {
	return ChipWeeks{FreeHit: map[int]int{}, TripleCaptain: map[int]int{}}
}

// FreeHitActive reports whether entryID played free hit in gameweek.
func (w ChipWeeks) FreeHitActive(entryID, gameweek int) bool {
	gw, ok := w.FreeHit[entryID]
	return ok && gw == gameweek
}

// TripleCaptainActive reports whether entryID played triple captain in gameweek.
func (w ChipWeeks) TripleCaptainActive(entryID, gameweek int) bool {
	gw, ok := w.TripleCaptain[entryID]
	return ok && gw == gameweek
}

// Chips builds one ChipRecord per league entry, in standings order, plus the
// free-hit and triple-captain gameweek tables the other aggregators need.
func Chips(ctx context.Context, src Source, ref *league.Reference, opts Options, logger *slog.Logger) ([]ChipRecord, ChipWeeks, Result) {
	opts = opts.withDefaults()
	var result Result
	weeks := newChipWeeks()
	records := make([]ChipRecord, 0, len(ref.Entries))

	logger.Info("Fetching chip data...", "entries", len(ref.Entries))
	for _, entry := range ref.Entries {
		if err := ctx.Err(); err != nil {
			result.AddErrorf("chips aborted: %v", err)
			break
		}

		rec := ChipRecord{Entry: entry}
		history, err := src.History(ctx, entry.ID)
		if err != nil {
			logger.Warn("Chip history unavailable", "entry", entry.ID, "error", err)
			result.AddErrorf("history for entry %d: %v", entry.ID, err)
			result.EntriesSkipped++
			records = append(records, rec)
			continue
		}

		applyChips(&rec, history.Chips, opts.WildcardSplitGW)
		if rec.FreeHit != nil {
			weeks.FreeHit[entry.ID] = *rec.FreeHit
		}
		if rec.TripleCaptain != nil {
			weeks.TripleCaptain[entry.ID] = *rec.TripleCaptain
			resolveTripleCaptain(ctx, src, ref.Catalog, &rec, &result, logger)
		}

		records = append(records, rec)
		result.EntriesProcessed++
	}

	result.Records = len(records)
	logger.Info("Chip data done", "summary", result.Summary())
	return records, weeks, result
}

// applyChips classifies chip plays onto rec. Later plays of the same chip
// overwrite earlier ones.
func applyChips(rec *ChipRecord, plays []fpl.ChipPlay, wildcardSplit int) {
	for _, chip := range plays {
		gw := chip.Event
		switch chip.Name {
		case fpl.ChipWildcard:
			if gw <= wildcardSplit {
				rec.Wildcard1 = intPtr(gw)
			} else {
				rec.Wildcard2 = intPtr(gw)
			}
		case fpl.ChipFreeHit:
			rec.FreeHit = intPtr(gw)
		case fpl.ChipTripleCaptain:
			rec.TripleCaptain = intPtr(gw)
		case fpl.ChipBenchBoost:
			rec.BenchBoost = intPtr(gw)
		}
	}
}

// resolveTripleCaptain fills in who was triple captained and what they
// scored. Any failure leaves both fields nil.
func resolveTripleCaptain(ctx context.Context, src Source, catalog *league.Catalog, rec *ChipRecord, result *Result, logger *slog.Logger) {
	gw := *rec.TripleCaptain
	entryID := rec.Entry.ID

	picks, picksErr := src.Picks(ctx, entryID, gw)
	live, liveErr := src.Live(ctx, gw)
	if picksErr != nil || liveErr != nil {
		logger.Warn("Triple captain lookup unavailable",
			"entry", entryID, "gameweek", gw, "picks_error", picksErr, "live_error", liveErr)
		result.AddErrorf("triple captain for entry %d GW%d: picks=%v live=%v", entryID, gw, picksErr, liveErr)
		return
	}

	captainID, ok := picks.Captain()
	if !ok {
		return
	}
	if p, ok := catalog.Player(captainID); ok {
		rec.TripleCaptainPlayer = strPtr(p.Name)
	}
	if pts, ok := live.PointsByElement()[captainID]; ok {
		rec.TripleCaptainPoints = intPtr(pts)
	}
}
