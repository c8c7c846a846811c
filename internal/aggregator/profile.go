// Package aggregator folds a team's date-sorted MatchRecords into its
// tactical profile: player rotation, formation performance and substitution
// impact. Every fold is a pure function of its input.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/pable/go-tactics/internal/document"
	"github.com/pable/go-tactics/internal/extract"
	"github.com/pable/go-tactics/internal/model"
)

// ErrNoData is returned when there are no matches to profile.
var ErrNoData = errors.New("no match data")

// Record is a win/draw/loss line.
type Record struct {
	Wins, Draws, Losses int
}

// Played returns the number of matches in the record.
func (r Record) Played() int { return r.Wins + r.Draws + r.Losses }

func (r *Record) add(res model.Result) {
	switch res {
	case model.Win:
		r.Wins++
	case model.Draw:
		r.Draws++
	default:
		r.Losses++
	}
}

// String renders "3W - 1D - 2L".
func (r Record) String() string {
	return fmt.Sprintf("%dW - %dD - %dL", r.Wins, r.Draws, r.Losses)
}

// Overall is the team's headline record.
type Overall struct {
	Matches      int
	Record       Record
	Home         Record
	Away         Record
	GoalsFor     int
	GoalsAgainst int
}

// WinRate is wins over matches, 0 without matches.
func (o Overall) WinRate() float64 {
	if o.Matches == 0 {
		return 0
	}
	return float64(o.Record.Wins) / float64(o.Matches)
}

func buildOverall(recs []model.MatchRecord) Overall {
	var o Overall
	for _, m := range recs {
		o.Matches++
		o.Record.add(m.Result)
		if m.IsHome {
			o.Home.add(m.Result)
		} else {
			o.Away.add(m.Result)
		}
		o.GoalsFor += m.TeamGoals
		o.GoalsAgainst += m.OpponentGoals
	}
	return o
}

// TacticalProfile is the complete derived view of one team.
type TacticalProfile struct {
	Team    string
	Matches []model.MatchRecord

	// Formations counts matches per non-empty formation label.
	Formations  Tally
	Players     *PlayerPool
	Performance *FormationTable
	Substitutes *SubstituteTable
	Overall     Overall
}

// BuildTacticalProfile runs the three folds over recs. Records are processed
// in ascending date order; input that is already sorted is used as is.
func BuildTacticalProfile(recs []model.MatchRecord) (*TacticalProfile, error) {
	if len(recs) == 0 {
		return nil, ErrNoData
	}
	sorted := make([]model.MatchRecord, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	p := &TacticalProfile{
		Team:        sorted[0].Team,
		Matches:     sorted,
		Players:     BuildPlayerPool(sorted),
		Performance: BuildFormationTable(sorted),
		Substitutes: BuildSubstituteTable(sorted),
		Overall:     buildOverall(sorted),
	}
	for _, m := range sorted {
		if m.Formation != "" {
			p.Formations.Add(m.Formation)
		}
	}
	return p, nil
}

// ProfileTeam extracts team's matches from docs with ext and profiles them.
func ProfileTeam(ext *extract.Extractor, docs []document.Document, team string) (*TacticalProfile, error) {
	recs := ext.TeamMatches(docs, team)
	if len(recs) == 0 {
		return nil, fmt.Errorf("profile %q: %w", team, ErrNoData)
	}
	return BuildTacticalProfile(recs)
}

// BuildProfiles profiles several teams concurrently, at most workers at a
// time. Each team's computation owns its aggregates; nothing is shared
// between workers except the read-only documents. Teams without data are
// left out of the result.
func BuildProfiles(ctx context.Context, ext *extract.Extractor, docs []document.Document, teams []string, workers int) (map[string]*TacticalProfile, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]*TacticalProfile, len(teams))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, team := range teams {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := ProfileTeam(ext, docs, team)
			if errors.Is(err, ErrNoData) {
				return nil
			}
			if err != nil {
				return err
			}
			results[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*TacticalProfile, len(teams))
	for i, p := range results {
		if p != nil {
			out[teams[i]] = p
		}
	}
	return out, nil
}
