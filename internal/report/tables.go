package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pable/go-tactics/internal/aggregator"
	"github.com/pable/go-tactics/internal/model"
)

// PrintMatchTable prints one row per match from the team's perspective.
func PrintMatchTable(w io.Writer, recs []model.MatchRecord) {
	table := newTable(w)
	table.Header("DATE", "VENUE", "OPPONENT", "SCORE", "RES", "FORMATION", "POSS%", "SHOTS", "xG", "LEAGUE", "ROUND")
	for i := range recs {
		m := &recs[i]
		table.Append(
			m.Date,
			m.Venue(),
			m.Opponent,
			m.Score(),
			string(m.Result),
			orNone(m.Formation),
			opt1(m.Stat(model.StatPossession)),
			opt1(m.Stat(model.StatShots)),
			opt(m.Stat(model.StatExpectedGoals)),
			orNone(m.League),
			orNone(m.Round),
		)
	}
	table.Render()
}

// PrintPlayerCard prints a player's profile followed by a per-match log of
// every match they were named in.
func PrintPlayerCard(w io.Writer, p *aggregator.TacticalProfile, pl *aggregator.PlayerProfile) {
	fmt.Fprintf(w, "\n=== %s (%s) ===\n\n", pl.Name, pl.ID)
	fmt.Fprintf(w, "  Role          : %s\n", pl.Role)
	fmt.Fprintf(w, "  Position      : %s\n", orNone(pl.PrimaryPosition))
	fmt.Fprintf(w, "  Formation     : %s\n", orNone(pl.PrimaryFormation))
	fmt.Fprintf(w, "  Starts        : %d of %d (%s)\n", pl.Starts, p.Players.TotalMatches, pct(pl.StartRate))
	fmt.Fprintf(w, "  Off the bench : %d\n", pl.SubAppearances)
	fmt.Fprintf(w, "  Avg rating    : %s  (form %s)\n", opt(pl.AvgRating()), opt(pl.Form()))
	fmt.Fprintf(w, "  G / A / xG    : %d / %d / %.2f\n", pl.Goals, pl.Assists, pl.ExpectedGoals)
	if s, ok := p.Substitutes.Get(pl.ID); ok {
		fmt.Fprintf(w, "  As substitute : %d apps, entry %s, rating %s\n",
			s.Appearances, minute(s.AvgEntryMinute()), opt(s.AvgRating()))
	}
	fmt.Fprintln(w)

	table := newTable(w)
	table.Header("DATE", "OPPONENT", "RES", "ROLE", "POS", "IN", "MIN", "RATING", "G", "A")
	for i := range p.Matches {
		m := &p.Matches[i]
		a, role, ok := findAppearance(m, pl.ID)
		if !ok {
			continue
		}
		entry := ""
		if ev, ok := m.SubstitutionFor(pl.ID); ok && role == "sub" {
			entry = ev.Minute
		}
		rating := none
		if a.HasRating() {
			rating = fmt.Sprintf("%.1f", a.Rating)
		}
		table.Append(
			m.Date,
			m.Opponent,
			string(m.Result),
			role,
			orNone(a.Position),
			orNone(entry),
			strconv.Itoa(a.Minutes),
			rating,
			strconv.Itoa(a.Goals),
			strconv.Itoa(a.Assists),
		)
	}
	table.Render()
}

// findAppearance locates id in a match: "start", "sub" when they came on, or
// "bench" when named but unused.
func findAppearance(m *model.MatchRecord, id string) (model.PlayerAppearance, string, bool) {
	for _, a := range m.Starters {
		if a.ID == id {
			return a, "start", true
		}
	}
	for _, a := range m.Substitutes {
		if a.ID != id {
			continue
		}
		if _, ok := m.SubstitutionFor(id); ok {
			return a, "sub", true
		}
		return a, "bench", true
	}
	return model.PlayerAppearance{}, "", false
}

// PrintDocumentList prints stored documents in the order given.
func PrintDocumentList(w io.Writer, docs []model.DocumentMeta) {
	table := newTable(w)
	table.Header("HASH", "DATE", "HOME", "SCORE", "AWAY", "LEAGUE", "LAYOUT", "SOURCE")
	for _, d := range docs {
		table.Append(
			d.ShortHash(),
			orNone(d.MatchDate),
			d.HomeTeam,
			d.Score,
			d.AwayTeam,
			orNone(d.League),
			d.Layout,
			orNone(d.Source),
		)
	}
	table.Render()
}

// PrintTeamList prints team names with the number of documents each appears in.
func PrintTeamList(w io.Writer, names []string, counts map[string]int) {
	table := newTable(w)
	table.Header("TEAM", "MATCHES")
	for _, n := range names {
		table.Append(n, strconv.Itoa(counts[n]))
	}
	table.Render()
}
