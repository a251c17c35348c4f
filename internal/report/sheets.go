// Package report renders aggregated tables as a workbook (and the wide picks
// table as CSV). This is the only layer that knows about display sentinels:
// absent values become "-" and booleans become "Yes"/"No" here.
package report

import (
	"github.com/albapepper/fpl-league-report/internal/aggregate"
)

// Sheet names, in workbook order.
const (
	SheetTransfers = "Transfers"
	SheetChips     = "Chip Usage"
	SheetCaptaincy = "Captaincy"
)

const (
	// Sentinel stands in for an absent value.
	Sentinel = "-"
	Yes      = "Yes"
	No       = "No"
)

var (
	TransferColumns = []string{
		"Manager Name", "Team Name", "Gameweek",
		"Player Out", "Out - Team", "Out - Position",
		"Player In", "In - Team", "In - Position",
		"Free Hit Active",
	}
	ChipColumns = []string{
		"Manager Name", "Team Name",
		"Wildcard 1", "Wildcard 2", "Free Hit", "Bench Boost",
		"Triple Captain", "Triple Captain Player", "TC Points",
	}
	CaptaincyColumns = []string{
		"Manager Name", "Team Name", "Gameweek",
		"Captain", "Captain Points", "Triple Captain Used",
	}
)

// Sheet is a rendered table: header plus display-ready rows.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]interface{}
}

// Records pairs every row with the header, for JSON output.
func (s Sheet) Records() []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(s.Rows))
	for _, row := range s.Rows {
		rec := make(map[string]interface{}, len(s.Header))
		for i, col := range s.Header {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		out = append(out, rec)
	}
	return out
}

// Sheets renders the tables in workbook order.
func Sheets(t *aggregate.Tables) []Sheet {
	return []Sheet{
		{Name: SheetTransfers, Header: TransferColumns, Rows: TransferRows(t.Transfers)},
		{Name: SheetChips, Header: ChipColumns, Rows: ChipRows(t.Chips)},
		{Name: SheetCaptaincy, Header: CaptaincyColumns, Rows: CaptaincyRows(t.Captaincy)},
	}
}

func TransferRows(records []aggregate.TransferRecord) [][]interface{} {
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{
			r.Entry.ManagerName, r.Entry.TeamName, r.Gameweek,
			r.PlayerOut.Name, r.PlayerOut.Team, r.PlayerOut.Position,
			r.PlayerIn.Name, r.PlayerIn.Team, r.PlayerIn.Position,
			yesNo(r.FreeHitActive),
		})
	}
	return rows
}

func ChipRows(records []aggregate.ChipRecord) [][]interface{} {
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{
			r.Entry.ManagerName, r.Entry.TeamName,
			intOr(r.Wildcard1), intOr(r.Wildcard2), intOr(r.FreeHit), intOr(r.BenchBoost),
			intOr(r.TripleCaptain), strOr(r.TripleCaptainPlayer), intOr(r.TripleCaptainPoints),
		})
	}
	return rows
}

func CaptaincyRows(records []aggregate.CaptaincyRecord) [][]interface{} {
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{
			r.Entry.ManagerName, r.Entry.TeamName, r.Gameweek,
			strOr(r.Captain), intOr(r.CaptainPoints), yesNo(r.TripleCaptainUsed),
		})
	}
	return rows
}

func intOr(v *int) interface{} {
	if v == nil {
		return Sentinel
	}
	return *v
}

func strOr(v *string) interface{} {
	if v == nil {
		return Sentinel
	}
	return *v
}

func yesNo(b bool) string {
	if b {
		return Yes
	}
	return No
}
