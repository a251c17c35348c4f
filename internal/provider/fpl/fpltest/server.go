// Package fpltest serves a small, fixed FPL season over HTTP for tests that
// drive the real client end to end.
//
// League 42 has two entries:
//
//	100  Zoe   "Zeta XI"   triple captain GW2, wildcard GW3, captains Salah
//	200  Adam  "Alpha FC"  free hit GW2, captains Saka
//
// Live scores exist for GW1 and GW2 only; GW3 answers 404 like a gameweek
// that has not been played. League 7 exists but has no entries.
package fpltest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

const (
	// LeagueID is the league with entries and a season of fixtures.
	LeagueID = 42
	// EmptyLeagueID answers with an empty standings page.
	EmptyLeagueID = 7
)

// Server is a running stub with a request counter.
type Server struct {
	*httptest.Server
	requests atomic.Int64
}

// Requests returns how many requests the server has answered.
func (s *Server) Requests() int64 { return s.requests.Load() }

// NewServer starts the stub and closes it when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{}
	mux := http.NewServeMux()
	for path, body := range fixtures {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, body)
		})
	}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		if r.URL.Path == fmt.Sprintf("/leagues-classic/%d/standings/", LeagueID) &&
			r.URL.Query().Get("page_standings") != "1" {
			fmt.Fprint(w, `{"standings":{"has_next":false,"results":[]}}`)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

var fixtures = map[string]string{
	fmt.Sprintf("/leagues-classic/%d/standings/", LeagueID): `{"standings":{"has_next":false,"page":1,"results":[
		{"entry":100,"entry_name":"Zeta XI","player_name":"Zoe","rank":1,"total":120},
		{"entry":200,"entry_name":"Alpha FC","player_name":"Adam","rank":2,"total":98}]}}`,

	fmt.Sprintf("/leagues-classic/%d/standings/", EmptyLeagueID): `{"standings":{"has_next":false,"page":1,"results":[]}}`,

	"/bootstrap-static/": `{
		"elements":[
			{"id":1,"web_name":"Raya","first_name":"David","second_name":"Raya","team":1,"element_type":1},
			{"id":7,"web_name":"Salah","first_name":"Mohamed","second_name":"Salah","team":12,"element_type":3},
			{"id":12,"web_name":"Saka","first_name":"Bukayo","second_name":"Saka","team":1,"element_type":3}],
		"teams":[
			{"id":1,"name":"Arsenal","short_name":"ARS"},
			{"id":12,"name":"Liverpool","short_name":"LIV"}],
		"element_types":[
			{"id":1,"singular_name":"Goalkeeper","singular_name_short":"GKP"},
			{"id":3,"singular_name":"Midfielder","singular_name_short":"MID"}],
		"events":[
			{"id":1,"finished":true,"data_checked":true},
			{"id":2,"finished":true,"data_checked":true},
			{"id":3,"finished":false,"data_checked":false}]}`,

	"/entry/100/history/": `{"chips":[
		{"name":"3xc","time":"2024-08-24T10:00:00Z","event":2},
		{"name":"wildcard","time":"2024-08-31T10:00:00Z","event":3}]}`,
	"/entry/200/history/": `{"chips":[{"name":"freehit","time":"2024-08-24T10:00:00Z","event":2}]}`,

	"/entry/100/event/1/picks/": picks(7),
	"/entry/100/event/2/picks/": picks(7),
	"/entry/100/event/3/picks/": picks(7),
	"/entry/200/event/1/picks/": picks(12),
	"/entry/200/event/2/picks/": picks(12),
	"/entry/200/event/3/picks/": picks(12),

	"/event/1/live/": live(5, 2),
	"/event/2/live/": live(18, 6),

	"/entry/100/transfers/": `[{"element_in":12,"element_out":7,"entry":100,"event":3,"time":"2024-08-30T09:00:00Z"}]`,
	"/entry/200/transfers/": `[
		{"element_in":7,"element_out":12,"entry":200,"event":2,"time":"2024-08-23T09:00:00Z"},
		{"element_in":999,"element_out":12,"entry":200,"event":3,"time":"2024-08-30T09:00:00Z"}]`,
}

func picks(captain int) string {
	return fmt.Sprintf(`{"active_chip":null,"picks":[
		{"element":1,"position":1,"multiplier":1,"is_captain":false,"is_vice_captain":false},
		{"element":%d,"position":2,"multiplier":2,"is_captain":true,"is_vice_captain":false}]}`, captain)
}

func live(salah, saka int) string {
	return fmt.Sprintf(`{"elements":[
		{"id":1,"stats":{"total_points":1}},
		{"id":7,"stats":{"total_points":%d}},
		{"id":12,"stats":{"total_points":%d}}]}`, salah, saka)
}
