// Package export writes team profiles to CSV, XLSX and JSON.
package export

import (
	"github.com/pable/go-tactics/internal/aggregator"
	"github.com/pable/go-tactics/internal/model"
	"github.com/pable/go-tactics/internal/report"
)

// View is a flat, serializable projection of a TacticalProfile. Slices are
// in report order. Optional means are nil when no sample was recorded.
type View struct {
	Team         string          `json:"team"`
	Matches      int             `json:"matches"`
	Record       RecordView      `json:"record"`
	Home         RecordView      `json:"home"`
	Away         RecordView      `json:"away"`
	GoalsFor     int             `json:"goals_for"`
	GoalsAgainst int             `json:"goals_against"`
	Players      []PlayerRow     `json:"players"`
	Formations   []FormationRow  `json:"formations"`
	Substitutes  []SubstituteRow `json:"substitutes"`
	MatchList    []MatchRow      `json:"match_list"`
	Insights     InsightsView    `json:"insights"`
}

type RecordView struct {
	Wins    int     `json:"wins"`
	Draws   int     `json:"draws"`
	Losses  int     `json:"losses"`
	WinRate float64 `json:"win_rate"`
}

type PlayerRow struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Role           string   `json:"role"`
	Position       string   `json:"position"`
	Formation      string   `json:"formation,omitempty"`
	Starts         int      `json:"starts"`
	SubAppearances int      `json:"sub_appearances"`
	StartRate      float64  `json:"start_rate"`
	AvgRating      *float64 `json:"avg_rating"`
	Form           *float64 `json:"form"`
	Goals          int      `json:"goals"`
	Assists        int      `json:"assists"`
	ExpectedGoals  float64  `json:"expected_goals"`
	Minutes        int      `json:"minutes"`
}

type FormationRow struct {
	Formation           string             `json:"formation"`
	Uses                int                `json:"uses"`
	UsageShare          float64            `json:"usage_share"`
	Wins                int                `json:"wins"`
	Draws               int                `json:"draws"`
	Losses              int                `json:"losses"`
	WinRate             float64            `json:"win_rate"`
	PointsPerGame       float64            `json:"points_per_game"`
	GoalsForPerGame     float64            `json:"goals_for_per_game"`
	GoalsAgainstPerGame float64            `json:"goals_against_per_game"`
	Style               string             `json:"style"`
	Stats               map[string]float64 `json:"stats"`
}

type SubstituteRow struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Appearances    int      `json:"appearances"`
	AvgEntryMinute *float64 `json:"avg_entry_minute"`
	Goals          int      `json:"goals"`
	Assists        int      `json:"assists"`
	ExpectedGoals  float64  `json:"expected_goals"`
	AvgRating      *float64 `json:"avg_rating"`
	Wins           int      `json:"wins"`
	Draws          int      `json:"draws"`
	Losses         int      `json:"losses"`
}

type MatchRow struct {
	Date      string `json:"date"`
	MatchID   string `json:"match_id,omitempty"`
	Opponent  string `json:"opponent"`
	Venue     string `json:"venue"`
	Score     string `json:"score"`
	Result    string `json:"result"`
	Formation string `json:"formation,omitempty"`
	League    string `json:"league,omitempty"`
	Round     string `json:"round,omitempty"`
}

type InsightsView struct {
	BestFormation string `json:"best_formation,omitempty"`
	TopStarter    string `json:"top_starter,omitempty"`
	TopSubstitute string `json:"top_substitute,omitempty"`
}

func ptr(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &v
}

func recordView(r aggregator.Record) RecordView {
	v := RecordView{Wins: r.Wins, Draws: r.Draws, Losses: r.Losses}
	if n := r.Played(); n > 0 {
		v.WinRate = float64(r.Wins) / float64(n)
	}
	return v
}

// Project builds the serializable view of p.
func Project(p *aggregator.TacticalProfile) View {
	o := p.Overall
	v := View{
		Team:         p.Team,
		Matches:      o.Matches,
		Record:       recordView(o.Record),
		Home:         recordView(o.Home),
		Away:         recordView(o.Away),
		GoalsFor:     o.GoalsFor,
		GoalsAgainst: o.GoalsAgainst,
		Players:      []PlayerRow{},
		Formations:   []FormationRow{},
		Substitutes:  []SubstituteRow{},
		MatchList:    []MatchRow{},
	}

	for _, pl := range report.PlayersByRole(p) {
		v.Players = append(v.Players, PlayerRow{
			ID:             pl.ID,
			Name:           pl.Name,
			Role:           string(pl.Role),
			Position:       pl.PrimaryPosition,
			Formation:      pl.PrimaryFormation,
			Starts:         pl.Starts,
			SubAppearances: pl.SubAppearances,
			StartRate:      pl.StartRate,
			AvgRating:      ptr(pl.AvgRating()),
			Form:           ptr(pl.Form()),
			Goals:          pl.Goals,
			Assists:        pl.Assists,
			ExpectedGoals:  pl.ExpectedGoals,
			Minutes:        pl.Minutes,
		})
	}

	for _, f := range report.FormationsByUsage(p) {
		stats := make(map[string]float64)
		for _, name := range model.AdvancedStats {
			if avg, ok := f.AvgStat(name); ok {
				stats[name] = avg
			}
		}
		v.Formations = append(v.Formations, FormationRow{
			Formation:           f.Formation,
			Uses:                f.Uses,
			UsageShare:          f.UsageShare(o.Matches),
			Wins:                f.Wins,
			Draws:               f.Draws,
			Losses:              f.Losses,
			WinRate:             f.WinRate,
			PointsPerGame:       f.PointsPerGame,
			GoalsForPerGame:     f.GoalsForPerGame,
			GoalsAgainstPerGame: f.GoalsAgainstPerGame,
			Style:               string(f.Style),
			Stats:               stats,
		})
	}

	for _, s := range report.SubstitutesByAppearances(p) {
		v.Substitutes = append(v.Substitutes, SubstituteRow{
			ID:             s.ID,
			Name:           s.Name,
			Appearances:    s.Appearances,
			AvgEntryMinute: ptr(s.AvgEntryMinute()),
			Goals:          s.Goals,
			Assists:        s.Assists,
			ExpectedGoals:  s.ExpectedGoals,
			AvgRating:      ptr(s.AvgRating()),
			Wins:           s.Wins,
			Draws:          s.Draws,
			Losses:         s.Losses,
		})
	}

	for i := range p.Matches {
		m := &p.Matches[i]
		v.MatchList = append(v.MatchList, MatchRow{
			Date:      m.Date,
			MatchID:   m.MatchID,
			Opponent:  m.Opponent,
			Venue:     m.Venue(),
			Score:     m.Score(),
			Result:    string(m.Result),
			Formation: m.Formation,
			League:    m.League,
			Round:     m.Round,
		})
	}

	in := report.SelectInsights(p)
	if in.BestFormation != nil {
		v.Insights.BestFormation = in.BestFormation.Formation
	}
	if in.TopStarter != nil {
		v.Insights.TopStarter = in.TopStarter.Name
	}
	if in.TopSubstitute != nil {
		v.Insights.TopSubstitute = in.TopSubstitute.Name
	}
	return v
}
