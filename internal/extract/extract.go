// Package extract converts raw provider documents into normalized
// MatchRecords for a single team. Schema differences are resolved here, once,
// so the aggregators never see them.
package extract

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/pable/go-tactics/internal/document"
	"github.com/pable/go-tactics/internal/model"
)

const unknownPosition = "Unknown"

// Reasons a document yields no record for a team.
var (
	ErrUnknownLayout  = errors.New("unrecognized document layout")
	ErrTeamNotInMatch = errors.New("team is neither side of the match")
	ErrNoScore        = errors.New("score data absent")
)

// Extractor turns documents into MatchRecords. The zero value is not usable;
// construct with New.
type Extractor struct {
	log zerolog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger makes the extractor emit a debug event for every skipped document.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Extractor) { e.log = l }
}

// New returns an Extractor. Without options it does not log.
func New(opts ...Option) *Extractor {
	e := &Extractor{log: zerolog.Nop()}
	for _, o := range opts {
		o(e)
	}
	return e
}

var defaultExtractor = New()

// ExtractTeamMatches is TeamMatches on a non-logging extractor.
func ExtractTeamMatches(docs []document.Document, team string) []model.MatchRecord {
	return defaultExtractor.TeamMatches(docs, team)
}

// Extract normalizes one document from team's perspective.
func (e *Extractor) Extract(doc document.Document, team string) (model.MatchRecord, error) {
	layout := Detect(doc)
	dec := newDecoder(doc, layout)
	if dec == nil {
		return model.MatchRecord{}, ErrUnknownLayout
	}

	home, away := dec.sides()
	if team == "" || (team != home && team != away) {
		return model.MatchRecord{}, ErrTeamNotInMatch
	}
	// A team named like both sides can only come from corrupt data; home wins.
	isHome := team == home

	homeGoals, awayGoals, ok := dec.scores()
	if !ok {
		return model.MatchRecord{}, ErrNoScore
	}

	rec := model.MatchRecord{
		Team:   team,
		IsHome: isHome,
	}
	dec.header(&rec)
	if isHome {
		rec.Opponent = away
		rec.TeamGoals, rec.OpponentGoals = homeGoals, awayGoals
	} else {
		rec.Opponent = home
		rec.TeamGoals, rec.OpponentGoals = awayGoals, homeGoals
	}
	rec.Result = model.ResultOf(rec.TeamGoals, rec.OpponentGoals)

	s := dec.lineup(isHome)
	rec.Formation = s.formation
	rec.Starters = s.starters
	rec.Substitutes = s.subs
	rec.Substitutions = s.substitutions
	rec.Stats = dec.stats(isHome)
	return rec, nil
}

// TeamMatches extracts every applicable document for team and returns the
// records sorted ascending by date. Inapplicable or malformed documents are
// skipped. When the same non-empty match identifier occurs more than once,
// only the first occurrence is kept.
func (e *Extractor) TeamMatches(docs []document.Document, team string) []model.MatchRecord {
	var (
		out  []model.MatchRecord
		seen = make(map[string]struct{})
	)
	for i, doc := range docs {
		rec, err := e.Extract(doc, team)
		if err != nil {
			if !errors.Is(err, ErrTeamNotInMatch) {
				e.log.Debug().Err(err).Int("index", i).Str("hash", short(doc.Hash())).Str("team", team).Msg("skip document")
			}
			continue
		}
		if rec.MatchID != "" {
			if _, dup := seen[rec.MatchID]; dup {
				e.log.Debug().Str("match_id", rec.MatchID).Msg("skip duplicate match")
				continue
			}
			seen[rec.MatchID] = struct{}{}
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// TeamNames returns the sorted set of side names across docs.
func TeamNames(docs []document.Document) []string {
	set := make(map[string]struct{})
	for _, doc := range docs {
		dec := newDecoder(doc, Detect(doc))
		if dec == nil {
			continue
		}
		home, away := dec.sides()
		for _, n := range []string{home, away} {
			if n != "" {
				set[n] = struct{}{}
			}
		}
	}
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Describe summarizes a document for listings: layout, sides, score, date.
func Describe(doc document.Document) (Summary, error) {
	layout := Detect(doc)
	dec := newDecoder(doc, layout)
	if dec == nil {
		return Summary{}, ErrUnknownLayout
	}
	var s Summary
	s.Layout = layout
	s.HomeTeam, s.AwayTeam = dec.sides()
	var rec model.MatchRecord
	dec.header(&rec)
	s.MatchID, s.Date, s.League = rec.MatchID, rec.Date, rec.League
	if h, a, ok := dec.scores(); ok {
		s.HomeScore, s.AwayScore, s.HasScore = h, a, true
	}
	return s, nil
}

// Summary is the side-neutral header of a document.
type Summary struct {
	Layout             Layout
	MatchID            string
	Date               string
	League             string
	HomeTeam, AwayTeam string
	HomeScore          int
	AwayScore          int
	HasScore           bool
}

// ScoreLine renders "home-away" or "-" without score data.
func (s Summary) ScoreLine() string {
	if !s.HasScore {
		return "-"
	}
	return fmt.Sprintf("%d-%d", s.HomeScore, s.AwayScore)
}

func firstString(v gjson.Result, paths ...string) string {
	for _, p := range paths {
		if s := document.String(v, p, ""); s != "" {
			return s
		}
	}
	return ""
}

func firstFloat(v gjson.Result, paths ...string) float64 {
	for _, p := range paths {
		if r := document.Resolve(v, p); r.Exists() && r.Type != gjson.Null {
			return document.Number(r)
		}
	}
	return 0
}

func short(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
