package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/albapepper/fpl-league-report/internal/league"
)

// RosterSize is the number of picks (starting XI + bench) per entry.
const RosterSize = 15

// PickCell is who occupied a roster slot in one gameweek.
type PickCell struct {
	Player   string
	Team     string
	Position string
}

// PicksRow is one (entry, roster slot) row of the wide picks table.
type PicksRow struct {
	Entry league.Entry
	Slot  int // 1..RosterSize, FPL pick position
	Cells map[int]PickCell
}

// PicksTable has one row per entry and roster slot, with a cell per
// included gameweek. Missing picks simply have no cell.
type PicksTable struct {
	LeagueID  int
	Gameweeks []int
	Rows      []PicksRow
}

// WidePicks fetches every entry's picks for each gameweek and lays them out
// by roster slot. Rows are ordered by team name, manager name, then slot.
func WidePicks(ctx context.Context, src Source, ref *league.Reference, gameweeks []int, logger *slog.Logger) (*PicksTable, Result) {
	var result Result
	table := &PicksTable{
		LeagueID:  ref.LeagueID,
		Gameweeks: append([]int(nil), gameweeks...),
		Rows:      make([]PicksRow, 0, len(ref.Entries)*RosterSize),
	}

	index := make(map[[2]int]int, len(ref.Entries)*RosterSize)
	for _, entry := range ref.Entries {
		for slot := 1; slot <= RosterSize; slot++ {
			index[[2]int{entry.ID, slot}] = len(table.Rows)
			table.Rows = append(table.Rows, PicksRow{Entry: entry, Slot: slot, Cells: map[int]PickCell{}})
		}
	}

	logger.Info("Fetching picks",
		"entries", len(ref.Entries), "gameweeks", len(gameweeks),
		"calls", len(ref.Entries)*len(gameweeks))

	for _, gw := range gameweeks {
		if err := ctx.Err(); err != nil {
			result.AddErrorf("picks aborted: %v", err)
			break
		}
		logger.Info("Fetching picks...", "gameweek", gw)

		for _, entry := range ref.Entries {
			picks, err := src.Picks(ctx, entry.ID, gw)
			if err != nil || picks == nil {
				result.EntriesSkipped++
				continue
			}
			for _, pick := range picks.Picks {
				i, ok := index[[2]int{entry.ID, pick.Position}]
				if !ok {
					continue
				}
				table.Rows[i].Cells[gw] = pickCell(ref.Catalog, pick.Element)
			}
			result.EntriesProcessed++
		}
	}

	sort.SliceStable(table.Rows, func(i, j int) bool {
		a, b := table.Rows[i], table.Rows[j]
		if a.Entry.TeamName != b.Entry.TeamName {
			return a.Entry.TeamName < b.Entry.TeamName
		}
		if a.Entry.ManagerName != b.Entry.ManagerName {
			return a.Entry.ManagerName < b.Entry.ManagerName
		}
		return a.Slot < b.Slot
	})

	result.Records = len(table.Rows)
	logger.Info("Picks done", "summary", result.Summary())
	return table, result
}

func pickCell(catalog *league.Catalog, elementID int) PickCell {
	p, ok := catalog.Player(elementID)
	if !ok {
		return PickCell{Player: fmt.Sprintf("Element %d", elementID)}
	}
	return PickCell{Player: p.FullName, Team: p.TeamShort, Position: p.PositionShort}
}
