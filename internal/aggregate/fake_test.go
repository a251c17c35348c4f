package aggregate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/albapepper/fpl-league-report/internal/league"
	"github.com/albapepper/fpl-league-report/internal/provider/fpl"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeSource serves canned responses; anything not registered is a 404.
type fakeSource struct {
	histories map[int]*fpl.History
	picks     map[[2]int]*fpl.Picks
	live      map[int]*fpl.Live
	transfers map[int][]fpl.Transfer

	liveCalls  map[int]int
	picksCalls int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		histories: map[int]*fpl.History{},
		picks:     map[[2]int]*fpl.Picks{},
		live:      map[int]*fpl.Live{},
		transfers: map[int][]fpl.Transfer{},
		liveCalls: map[int]int{},
	}
}

func notFound(path string) error {
	return &fpl.StatusError{Path: path, StatusCode: http.StatusNotFound, Body: "Not found."}
}

func (f *fakeSource) History(_ context.Context, entryID int) (*fpl.History, error) {
	if h, ok := f.histories[entryID]; ok {
		return h, nil
	}
	return nil, notFound(fmt.Sprintf("/entry/%d/history/", entryID))
}

func (f *fakeSource) Picks(_ context.Context, entryID, gameweek int) (*fpl.Picks, error) {
	f.picksCalls++
	if p, ok := f.picks[[2]int{entryID, gameweek}]; ok {
		return p, nil
	}
	return nil, notFound(fmt.Sprintf("/entry/%d/event/%d/picks/", entryID, gameweek))
}

func (f *fakeSource) Live(_ context.Context, gameweek int) (*fpl.Live, error) {
	f.liveCalls[gameweek]++
	if l, ok := f.live[gameweek]; ok {
		return l, nil
	}
	return nil, notFound(fmt.Sprintf("/event/%d/live/", gameweek))
}

func (f *fakeSource) Transfers(_ context.Context, entryID int) ([]fpl.Transfer, error) {
	if t, ok := f.transfers[entryID]; ok {
		return t, nil
	}
	return nil, notFound(fmt.Sprintf("/entry/%d/transfers/", entryID))
}

func (f *fakeSource) setCaptain(entryID, gameweek, element int) {
	f.picks[[2]int{entryID, gameweek}] = &fpl.Picks{Picks: []fpl.Pick{
		{Element: 1, Position: 1},
		{Element: element, Position: 2, IsCaptain: true, Multiplier: 2},
	}}
}

func (f *fakeSource) setLive(gameweek int, points map[int]int) {
	l := &fpl.Live{}
	for id, pts := range points {
		e := fpl.LiveElement{ID: id}
		e.Stats.TotalPoints = pts
		l.Elements = append(l.Elements, e)
	}
	f.live[gameweek] = l
}

func testReference() *league.Reference {
	rows := []fpl.StandingRow{
		{Entry: 100, PlayerName: "Zoe", EntryName: "Zeta XI"},
		{Entry: 200, PlayerName: "Adam", EntryName: "Alpha FC"},
		{Entry: 300, PlayerName: "Mia", EntryName: "Mid Table"},
	}
	bootstrap := &fpl.Bootstrap{
		Elements: []fpl.Element{
			{ID: 1, WebName: "Raya", FirstName: "David", SecondName: "Raya", Team: 1, ElementType: 1},
			{ID: 7, WebName: "Salah", FirstName: "Mohamed", SecondName: "Salah", Team: 2, ElementType: 3},
			{ID: 9, WebName: "Haaland", FirstName: "Erling", SecondName: "Haaland", Team: 3, ElementType: 4},
			{ID: 12, WebName: "Saka", FirstName: "Bukayo", SecondName: "Saka", Team: 1, ElementType: 3},
		},
		Teams: []fpl.Team{
			{ID: 1, Name: "Arsenal", ShortName: "ARS"},
			{ID: 2, Name: "Liverpool", ShortName: "LIV"},
			{ID: 3, Name: "Man City", ShortName: "MCI"},
		},
		ElementTypes: []fpl.ElementType{
			{ID: 1, SingularName: "Goalkeeper", SingularNameShort: "GKP"},
			{ID: 3, SingularName: "Midfielder", SingularNameShort: "MID"},
			{ID: 4, SingularName: "Forward", SingularNameShort: "FWD"},
		},
	}
	return league.NewReference(42, rows, bootstrap)
}
