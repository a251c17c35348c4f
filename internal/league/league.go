// Package league loads the reference data every aggregation step reads:
// the mini-league roster and the global player catalog.
//
// Both are fetched once per run and never mutated afterwards. A failure here
// is fatal for the run since nothing downstream can resolve identifiers.
package league

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/albapepper/fpl-league-report/internal/provider/fpl"
)

// ErrNoEntries means the standings came back empty, usually a wrong id or a
// private league. Load itself accepts an empty league; callers that cannot
// serve one (the report API) return this.
var ErrNoEntries = errors.New("league has no entries")

// Source is the subset of the FPL client the loader calls.
type Source interface {
	Standings(ctx context.Context, leagueID int) ([]fpl.StandingRow, error)
	Bootstrap(ctx context.Context) (*fpl.Bootstrap, error)
}

// Entry is a participant's team in the league.
type Entry struct {
	ID          int
	ManagerName string
	TeamName    string
}

// Player is a catalog player with team and position already resolved.
type Player struct {
	ID            int
	Name          string // web_name, used in the report
	FullName      string // "First Second", used in the picks export
	Team          string
	TeamShort     string
	Position      string // Goalkeeper, Defender, ...
	PositionShort string // GKP, DEF, MID, FWD
}

// Reference bundles the roster and catalog for a single league.
type Reference struct {
	LeagueID int
	Entries  []Entry // standings order
	Catalog  *Catalog
}

// Load fetches standings and the bootstrap catalog for leagueID.
func Load(ctx context.Context, src Source, leagueID int, logger *slog.Logger) (*Reference, error) {
	logger.Info("Loading league standings...", "league_id", leagueID)
	rows, err := src.Standings(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("load standings: %w", err)
	}
	if len(rows) == 0 {
		logger.Warn("League has no entries; tables will be empty", "league_id", leagueID)
	}

	logger.Info("Loading player catalog...")
	bootstrap, err := src.Bootstrap(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	ref := NewReference(leagueID, rows, bootstrap)
	logger.Info("Reference data loaded",
		"league_id", leagueID, "entries", len(ref.Entries), "players", ref.Catalog.Len())
	return ref, nil
}

// NewReference builds reference data from already-fetched responses.
// Duplicate standings rows (pages shifting mid-fetch) keep the first occurrence.
func NewReference(leagueID int, rows []fpl.StandingRow, bootstrap *fpl.Bootstrap) *Reference {
	ref := &Reference{
		LeagueID: leagueID,
		Entries:  make([]Entry, 0, len(rows)),
		Catalog:  NewCatalog(bootstrap),
	}
	seen := make(map[int]bool, len(rows))
	for _, row := range rows {
		if seen[row.Entry] {
			continue
		}
		seen[row.Entry] = true
		ref.Entries = append(ref.Entries, Entry{ID: row.Entry, ManagerName: row.PlayerName, TeamName: row.EntryName})
	}
	return ref
}

// --------------------------------------------------------------------------
// Catalog
// --------------------------------------------------------------------------

// Catalog is an id-indexed view of /bootstrap-static/.
type Catalog struct {
	players map[int]Player
	events  []fpl.Event
}

// NewCatalog indexes players by id, resolving team and position names.
func NewCatalog(b *fpl.Bootstrap) *Catalog {
	c := &Catalog{players: map[int]Player{}}
	if b == nil {
		return c
	}

	teams := make(map[int]fpl.Team, len(b.Teams))
	for _, t := range b.Teams {
		teams[t.ID] = t
	}
	positions := make(map[int]fpl.ElementType, len(b.ElementTypes))
	for _, p := range b.ElementTypes {
		positions[p.ID] = p
	}

	for _, e := range b.Elements {
		team := teams[e.Team]
		pos := positions[e.ElementType]
		c.players[e.ID] = Player{
			ID:            e.ID,
			Name:          e.WebName,
			FullName:      fullName(e.FirstName, e.SecondName),
			Team:          team.Name,
			TeamShort:     team.ShortName,
			Position:      pos.SingularName,
			PositionShort: pos.SingularNameShort,
		}
	}
	c.events = append(c.events, b.Events...)
	return c
}

// Player looks up a player by id.
func (c *Catalog) Player(id int) (Player, bool) {
	p, ok := c.players[id]
	return p, ok
}

// Len returns the number of catalogued players.
func (c *Catalog) Len() int {
	return len(c.players)
}

// Gameweeks returns catalogued event ids in ascending order. With
// finalisedOnly set, only events whose data has been checked are returned.
func (c *Catalog) Gameweeks(finalisedOnly bool) []int {
	ids := make([]int, 0, len(c.events))
	for _, e := range c.events {
		if finalisedOnly && !e.DataChecked {
			continue
		}
		ids = append(ids, e.ID)
	}
	sort.Ints(ids)
	return ids
}

func fullName(first, second string) string {
	switch {
	case first == "":
		return second
	case second == "":
		return first
	default:
		return first + " " + second
	}
}
