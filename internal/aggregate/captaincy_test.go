package aggregate

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/fpl-league-report/internal/provider/fpl"
)

func TestCaptaincyFetchesLiveOncePerGameweek(t *testing.T) {
	src := newFakeSource()
	for gw := 1; gw <= 3; gw++ {
		src.setLive(gw, map[int]int{7: gw, 9: 10 + gw})
		src.setCaptain(100, gw, 7)
		src.setCaptain(200, gw, 9)
		src.setCaptain(300, gw, 7)
	}

	records, result := Captaincy(context.Background(), src, testReference(), ChipWeeks{}, Options{LastGameweek: 3}, discard)

	assert.Equal(t, map[int]int{1: 1, 2: 1, 3: 1}, src.liveCalls)
	assert.Equal(t, 9, src.picksCalls)
	require.Len(t, records, 9)
	assert.Equal(t, 9, result.Records)

	// gameweek-major, standings-minor ordering
	assert.Equal(t, 1, records[0].Gameweek)
	assert.Equal(t, 100, records[0].Entry.ID)
	assert.Equal(t, 200, records[1].Entry.ID)
	assert.Equal(t, 3, records[8].Gameweek)

	assert.Equal(t, "Haaland", *records[1].Captain)
	assert.Equal(t, 11, *records[1].CaptainPoints)
}

func TestCaptaincyScansFullSeasonByDefault(t *testing.T) {
	src := newFakeSource()
	_, result := Captaincy(context.Background(), src, testReference(), ChipWeeks{}, Options{}, discard)

	assert.Len(t, src.liveCalls, 38)
	assert.Equal(t, 38, result.GameweeksSkipped)
	assert.Equal(t, 0, src.picksCalls, "no picks are requested for a skipped gameweek")
}

func TestCaptaincySkipsMissingDataWithoutAborting(t *testing.T) {
	src := newFakeSource()
	src.setLive(1, map[int]int{7: 5})
	// GW2 live unavailable: whole gameweek skipped even though picks exist
	src.setCaptain(100, 2, 7)
	src.setLive(3, map[int]int{7: 6})

	src.setCaptain(100, 1, 7)
	// entry 200 GW1 picks unavailable
	// entry 300 GW1 has no captain flagged
	src.picks[[2]int{300, 1}] = &fpl.Picks{Picks: []fpl.Pick{{Element: 7, Position: 1}}}
	// entry 200 GW3 captain is missing from the live map
	src.setCaptain(200, 3, 1)

	records, result := Captaincy(context.Background(), src, testReference(), ChipWeeks{}, Options{LastGameweek: 3}, discard)

	require.Len(t, records, 2)
	assert.Equal(t, 100, records[0].Entry.ID)
	assert.Equal(t, 1, records[0].Gameweek)

	assert.Equal(t, 200, records[1].Entry.ID)
	assert.Equal(t, 3, records[1].Gameweek)
	require.NotNil(t, records[1].Captain)
	assert.Equal(t, "Raya", *records[1].Captain)
	assert.Nil(t, records[1].CaptainPoints, "player absent from live map")

	assert.Equal(t, 1, result.GameweeksSkipped)
	assert.Len(t, result.Errors, 1, "only the gameweek skip is an error")
}

func TestCaptaincyLogsSkippedEntries(t *testing.T) {
	src := newFakeSource()
	src.setLive(1, map[int]int{7: 5})
	src.setCaptain(100, 1, 7)
	src.picks[[2]int{300, 1}] = &fpl.Picks{Picks: []fpl.Pick{{Element: 7, Position: 1}}}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	records, result := Captaincy(context.Background(), src, testReference(), ChipWeeks{}, Options{LastGameweek: 1}, logger)

	require.Len(t, records, 1)
	assert.Equal(t, 2, result.EntriesSkipped)
	assert.Contains(t, buf.String(), `msg="Skipping entry - no picks" entry=200 gameweek=1`)
	assert.Contains(t, buf.String(), `msg="Skipping entry - no captain" entry=300 gameweek=1`)
}

func TestCaptaincyTripleCaptainFlag(t *testing.T) {
	src := newFakeSource()
	for gw := 1; gw <= 38; gw++ {
		src.setLive(gw, map[int]int{7: 2})
		src.setCaptain(100, gw, 7)
		src.setCaptain(200, gw, 7)
	}
	weeks := ChipWeeks{TripleCaptain: map[int]int{100: 15}, FreeHit: map[int]int{}}

	records, _ := Captaincy(context.Background(), src, testReference(), weeks, DefaultOptions(), discard)
	require.Len(t, records, 76)

	for _, rec := range records {
		want := rec.Entry.ID == 100 && rec.Gameweek == 15
		assert.Equal(t, want, rec.TripleCaptainUsed, "entry %d GW%d", rec.Entry.ID, rec.Gameweek)
	}
}

func TestCaptaincyUnknownCaptainHasNoName(t *testing.T) {
	src := newFakeSource()
	src.setLive(1, map[int]int{999: 4})
	src.setCaptain(100, 1, 999)

	records, _ := Captaincy(context.Background(), src, testReference(), ChipWeeks{}, Options{LastGameweek: 1}, discard)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Captain)
	require.NotNil(t, records[0].CaptainPoints)
	assert.Equal(t, 4, *records[0].CaptainPoints)
}
