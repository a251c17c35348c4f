package fpl

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// maxStandingsPages bounds pagination in case has_next never clears.
const maxStandingsPages = 200

// --------------------------------------------------------------------------
// League
// --------------------------------------------------------------------------

// Standings returns every entry of a classic league, following page_standings
// until has_next is false or a page comes back empty.
func (c *Client) Standings(ctx context.Context, leagueID int) ([]StandingRow, error) {
	path := fmt.Sprintf("/leagues-classic/%d/standings/", leagueID)

	var all []StandingRow
	for page := 1; page <= maxStandingsPages; page++ {
		params := url.Values{"page_standings": {strconv.Itoa(page)}}

		var resp standingsPage
		if err := c.get(ctx, path, params, &resp); err != nil {
			return nil, fmt.Errorf("fetch league %d standings page %d: %w", leagueID, page, err)
		}
		if resp.Standings == nil {
			if page == 1 {
				return nil, fmt.Errorf("league %d: standings missing from response", leagueID)
			}
			break
		}
		if len(resp.Standings.Results) == 0 {
			break
		}

		all = append(all, resp.Standings.Results...)
		c.logger.Debug("Standings page fetched", "league_id", leagueID, "page", page, "rows", len(resp.Standings.Results))

		if !resp.Standings.HasNext {
			break
		}
	}
	return all, nil
}

// --------------------------------------------------------------------------
// Global catalog
// --------------------------------------------------------------------------

// Bootstrap fetches the player/team/position/event catalog.
func (c *Client) Bootstrap(ctx context.Context) (*Bootstrap, error) {
	var b Bootstrap
	if err := c.get(ctx, "/bootstrap-static/", nil, &b); err != nil {
		return nil, fmt.Errorf("fetch bootstrap: %w", err)
	}
	return &b, nil
}

// Live fetches realized scores for every player in a gameweek.
func (c *Client) Live(ctx context.Context, gameweek int) (*Live, error) {
	var l Live
	if err := c.get(ctx, fmt.Sprintf("/event/%d/live/", gameweek), nil, &l); err != nil {
		return nil, fmt.Errorf("fetch GW%d live: %w", gameweek, err)
	}
	return &l, nil
}

// --------------------------------------------------------------------------
// Entry
// --------------------------------------------------------------------------

// History fetches an entry's season history (chip plays).
func (c *Client) History(ctx context.Context, entryID int) (*History, error) {
	var h History
	if err := c.get(ctx, fmt.Sprintf("/entry/%d/history/", entryID), nil, &h); err != nil {
		return nil, fmt.Errorf("fetch entry %d history: %w", entryID, err)
	}
	return &h, nil
}

// Picks fetches an entry's squad for a gameweek.
func (c *Client) Picks(ctx context.Context, entryID, gameweek int) (*Picks, error) {
	var p Picks
	if err := c.get(ctx, fmt.Sprintf("/entry/%d/event/%d/picks/", entryID, gameweek), nil, &p); err != nil {
		return nil, fmt.Errorf("fetch entry %d GW%d picks: %w", entryID, gameweek, err)
	}
	return &p, nil
}

// Transfers fetches an entry's full transfer log.
func (c *Client) Transfers(ctx context.Context, entryID int) ([]Transfer, error) {
	var t []Transfer
	if err := c.get(ctx, fmt.Sprintf("/entry/%d/transfers/", entryID), nil, &t); err != nil {
		return nil, fmt.Errorf("fetch entry %d transfers: %w", entryID, err)
	}
	return t, nil
}
