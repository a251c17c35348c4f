// Package aggregate joins per-entry and per-gameweek FPL resources into the
// three report tables: chip usage, captaincy and transfers.
//
// Every aggregator degrades instead of aborting: a failed fetch for one entry
// (or one gameweek) drops or blanks that contribution, records the error in
// the Result, and moves on.
package aggregate

import (
	"context"
	"fmt"

	"github.com/albapepper/fpl-league-report/internal/provider/fpl"
)

// Source is the subset of the FPL client the aggregators call.
type Source interface {
	History(ctx context.Context, entryID int) (*fpl.History, error)
	Picks(ctx context.Context, entryID, gameweek int) (*fpl.Picks, error)
	Live(ctx context.Context, gameweek int) (*fpl.Live, error)
	Transfers(ctx context.Context, entryID int) ([]fpl.Transfer, error)
}

// Options tunes season-structure assumptions.
type Options struct {
	// WildcardSplitGW is the last gameweek that counts as the first wildcard.
	WildcardSplitGW int
	// LastGameweek bounds the captaincy scan (1..LastGameweek).
	LastGameweek int
}

// DefaultOptions matches a standard 38-gameweek season.
func DefaultOptions() Options {
	return Options{WildcardSplitGW: 20, LastGameweek: 38}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.WildcardSplitGW <= 0 {
		o.WildcardSplitGW = d.WildcardSplitGW
	}
	if o.LastGameweek <= 0 {
		o.LastGameweek = d.LastGameweek
	}
	return o
}

// Result tracks counts and errors from an aggregation step.
type Result struct {
	EntriesProcessed int
	EntriesSkipped   int
	GameweeksSkipped int
	Records          int
	Errors           []string
}

// Add merges another Result into this one.
func (r *Result) Add(other Result) {
	r.EntriesProcessed += other.EntriesProcessed
	r.EntriesSkipped += other.EntriesSkipped
	r.GameweeksSkipped += other.GameweeksSkipped
	r.Records += other.Records
	r.Errors = append(r.Errors, other.Errors...)
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the step.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"entries=%d skipped_entries=%d skipped_gws=%d records=%d errors=%d",
		r.EntriesProcessed, r.EntriesSkipped, r.GameweeksSkipped,
		r.Records, len(r.Errors),
	)
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
