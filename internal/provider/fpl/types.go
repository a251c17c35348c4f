package fpl

// Chip names as reported in an entry's season history.
const (
	ChipWildcard      = "wildcard"
	ChipFreeHit       = "freehit"
	ChipTripleCaptain = "3xc"
	ChipBenchBoost    = "bboost"
)

// --------------------------------------------------------------------------
// League standings
// --------------------------------------------------------------------------

type standingsPage struct {
	Standings *struct {
		HasNext bool          `json:"has_next"`
		Page    int           `json:"page"`
		Results []StandingRow `json:"results"`
	} `json:"standings"`
}

// StandingRow is one entry in a classic league table.
type StandingRow struct {
	Entry      int    `json:"entry"`
	EntryName  string `json:"entry_name"`
	PlayerName string `json:"player_name"`
	Rank       int    `json:"rank"`
	Total      int    `json:"total"`
}

// --------------------------------------------------------------------------
// Bootstrap (global catalog)
// --------------------------------------------------------------------------

// Bootstrap is the subset of /bootstrap-static/ the report needs.
type Bootstrap struct {
	Elements     []Element     `json:"elements"`
	Teams        []Team        `json:"teams"`
	ElementTypes []ElementType `json:"element_types"`
	Events       []Event       `json:"events"`
}

// Element is a player in the global catalog.
type Element struct {
	ID          int    `json:"id"`
	WebName     string `json:"web_name"`
	FirstName   string `json:"first_name"`
	SecondName  string `json:"second_name"`
	Team        int    `json:"team"`
	ElementType int    `json:"element_type"`
}

// Team is a Premier League club.
type Team struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

// ElementType is a playing position (Goalkeeper, Defender, ...).
type ElementType struct {
	ID                int    `json:"id"`
	SingularName      string `json:"singular_name"`
	SingularNameShort string `json:"singular_name_short"`
}

// Event is a gameweek.
type Event struct {
	ID          int  `json:"id"`
	Finished    bool `json:"finished"`
	DataChecked bool `json:"data_checked"`
}

// --------------------------------------------------------------------------
// Per-entry resources
// --------------------------------------------------------------------------

// History is the subset of /entry/{id}/history/ the report needs.
type History struct {
	Chips []ChipPlay `json:"chips"`
}

// ChipPlay is a single chip activation.
type ChipPlay struct {
	Name  string `json:"name"`
	Time  string `json:"time"`
	Event int    `json:"event"`
}

// Picks is an entry's squad for one gameweek.
type Picks struct {
	ActiveChip *string `json:"active_chip"`
	Picks      []Pick  `json:"picks"`
}

// Pick is one roster slot.
type Pick struct {
	Element       int  `json:"element"`
	Position      int  `json:"position"`
	Multiplier    int  `json:"multiplier"`
	IsCaptain     bool `json:"is_captain"`
	IsViceCaptain bool `json:"is_vice_captain"`
}

// Captain returns the element flagged as captain, if any.
func (p *Picks) Captain() (int, bool) {
	if p == nil {
		return 0, false
	}
	for _, pick := range p.Picks {
		if pick.IsCaptain {
			return pick.Element, true
		}
	}
	return 0, false
}

// Transfer is one row of /entry/{id}/transfers/.
type Transfer struct {
	ElementIn  int    `json:"element_in"`
	ElementOut int    `json:"element_out"`
	Entry      int    `json:"entry"`
	Event      int    `json:"event"`
	Time       string `json:"time"`
}

// --------------------------------------------------------------------------
// Live gameweek scores
// --------------------------------------------------------------------------

// Live is the subset of /event/{gw}/live/ the report needs.
type Live struct {
	Elements []LiveElement `json:"elements"`
}

// LiveElement carries a player's realized stats for the gameweek.
type LiveElement struct {
	ID    int `json:"id"`
	Stats struct {
		TotalPoints int `json:"total_points"`
	} `json:"stats"`
}

// PointsByElement indexes total points by player id.
func (l *Live) PointsByElement() map[int]int {
	if l == nil {
		return map[int]int{}
	}
	points := make(map[int]int, len(l.Elements))
	for _, e := range l.Elements {
		points[e.ID] = e.Stats.TotalPoints
	}
	return points
}
