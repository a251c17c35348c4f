package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/albapepper/fpl-league-report/internal/aggregate"
)

// PicksHeader returns the CSV header for the wide picks table: identifiers,
// then a Player/Team/Position triplet per gameweek.
func PicksHeader(gameweeks []int) []string {
	header := []string{"league_id", "entry_id", "entry_name", "manager_name", "roster_slot"}
	for _, gw := range gameweeks {
		header = append(header,
			fmt.Sprintf("GW%d_Player", gw),
			fmt.Sprintf("GW%d_Team", gw),
			fmt.Sprintf("GW%d_Position", gw),
		)
	}
	return header
}

// WritePicksCSV writes the wide picks table. Missing picks are blank cells.
func WritePicksCSV(w io.Writer, table *aggregate.PicksTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(PicksHeader(table.Gameweeks)); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}

	league := strconv.Itoa(table.LeagueID)
	for _, row := range table.Rows {
		rec := []string{
			league,
			strconv.Itoa(row.Entry.ID),
			row.Entry.TeamName,
			row.Entry.ManagerName,
			strconv.Itoa(row.Slot),
		}
		for _, gw := range table.Gameweeks {
			cell := row.Cells[gw]
			rec = append(rec, cell.Player, cell.Team, cell.Position)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("csv write: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv flush: %w", err)
	}
	return nil
}
