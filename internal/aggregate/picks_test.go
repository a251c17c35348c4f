package aggregate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/fpl-league-report/internal/provider/fpl"
)

func TestWidePicksLayout(t *testing.T) {
	src := newFakeSource()
	src.picks[[2]int{100, 1}] = &fpl.Picks{Picks: []fpl.Pick{
		{Element: 1, Position: 1},
		{Element: 7, Position: 2, IsCaptain: true},
		{Element: 888, Position: 3},
		{Element: 9, Position: 16}, // out of roster range, ignored
	}}
	src.picks[[2]int{200, 2}] = &fpl.Picks{Picks: []fpl.Pick{{Element: 9, Position: 15}}}

	table, result := WidePicks(context.Background(), src, testReference(), []int{1, 2}, discard)

	assert.Equal(t, 42, table.LeagueID)
	assert.Equal(t, []int{1, 2}, table.Gameweeks)
	require.Len(t, table.Rows, 3*RosterSize)
	assert.Equal(t, 2, result.EntriesProcessed)
	assert.Equal(t, 4, result.EntriesSkipped)

	// sorted by team name: Alpha FC (200), Mid Table (300), Zeta XI (100)
	assert.Equal(t, 200, table.Rows[0].Entry.ID)
	assert.Equal(t, 1, table.Rows[0].Slot)
	assert.Equal(t, 300, table.Rows[RosterSize].Entry.ID)
	assert.Equal(t, 100, table.Rows[2*RosterSize].Entry.ID)

	adamBench := table.Rows[RosterSize-1]
	assert.Equal(t, 15, adamBench.Slot)
	assert.Equal(t, PickCell{Player: "Erling Haaland", Team: "MCI", Position: "FWD"}, adamBench.Cells[2])
	_, ok := adamBench.Cells[1]
	assert.False(t, ok)

	zoe := table.Rows[2*RosterSize : 3*RosterSize]
	assert.Equal(t, PickCell{Player: "David Raya", Team: "ARS", Position: "GKP"}, zoe[0].Cells[1])
	assert.Equal(t, PickCell{Player: "Mohamed Salah", Team: "LIV", Position: "MID"}, zoe[1].Cells[1])
	assert.Equal(t, PickCell{Player: "Element 888"}, zoe[2].Cells[1])
	assert.Empty(t, zoe[3].Cells)
}

func TestWidePicksNoGameweeks(t *testing.T) {
	src := newFakeSource()
	table, _ := WidePicks(context.Background(), src, testReference(), nil, discard)
	assert.Len(t, table.Rows, 3*RosterSize)
	assert.Equal(t, 0, src.picksCalls)
}
