package aggregator

import (
	"gonum.org/v1/gonum/stat"

	"github.com/pable/go-tactics/internal/model"
)

// Style is a qualitative label derived from a formation's averages.
type Style string

const (
	StylePossessionAttack  Style = "possession attack"
	StylePossessionControl Style = "possession control"
	StyleDirectAttack      Style = "direct attack"
	StyleDefensiveSolid    Style = "defensive solid"
	StyleBalanced          Style = "balanced"
)

// ClassifyStyle applies the fixed decision tree; the first matching branch wins.
func ClassifyStyle(possession, goalsForPerGame, shotsPerGame, goalsAgainstPerGame float64) Style {
	switch {
	case possession > 55 && goalsForPerGame > 1.5:
		return StylePossessionAttack
	case possession > 55:
		return StylePossessionControl
	case shotsPerGame > 13:
		return StyleDirectAttack
	case goalsAgainstPerGame < 1.0:
		return StyleDefensiveSolid
	default:
		return StyleBalanced
	}
}

// FormationProfile summarizes results when the team lined up in one formation.
type FormationProfile struct {
	Formation string

	Uses         int
	Wins         int
	Draws        int
	Losses       int
	GoalsFor     int
	GoalsAgainst int

	// samples holds, per advanced statistic, one value for every match in
	// this formation that recorded it.
	samples map[string][]float64

	// Derived after the fold.
	WinRate             float64
	PointsPerGame       float64
	GoalsForPerGame     float64
	GoalsAgainstPerGame float64
	Style               Style
}

// Decided is the number of matches with a result; it always equals Uses.
func (f *FormationProfile) Decided() int { return f.Wins + f.Draws + f.Losses }

// AvgStat returns the mean of stat over the matches that recorded it.
func (f *FormationProfile) AvgStat(name string) (float64, bool) {
	s := f.samples[name]
	if len(s) == 0 {
		return 0, false
	}
	return stat.Mean(s, nil), true
}

// StatSamples returns how many matches contributed to stat's mean.
func (f *FormationProfile) StatSamples(name string) int { return len(f.samples[name]) }

// UsageShare is the fraction of the team's matches played in this formation.
func (f *FormationProfile) UsageShare(totalMatches int) float64 {
	if totalMatches == 0 {
		return 0
	}
	return float64(f.Uses) / float64(totalMatches)
}

func (f *FormationProfile) derive() {
	decided := f.Decided()
	if decided == 0 {
		return
	}
	n := float64(decided)
	f.WinRate = float64(f.Wins) / n
	f.PointsPerGame = float64(3*f.Wins+f.Draws) / n
	f.GoalsForPerGame = float64(f.GoalsFor) / n
	f.GoalsAgainstPerGame = float64(f.GoalsAgainst) / n

	possession, _ := f.AvgStat(model.StatPossession)
	shots, _ := f.AvgStat(model.StatShots)
	f.Style = ClassifyStyle(possession, f.GoalsForPerGame, shots, f.GoalsAgainstPerGame)
}

// FormationTable holds formation profiles in first-use order.
type FormationTable struct {
	order  []string
	byName map[string]*FormationProfile
}

// Get returns the profile for formation.
func (ft *FormationTable) Get(formation string) (*FormationProfile, bool) {
	f, ok := ft.byName[formation]
	return f, ok
}

// All returns profiles in first-use order.
func (ft *FormationTable) All() []*FormationProfile {
	out := make([]*FormationProfile, 0, len(ft.order))
	for _, name := range ft.order {
		out = append(out, ft.byName[name])
	}
	return out
}

// Len returns the number of formations used.
func (ft *FormationTable) Len() int { return len(ft.order) }

// TotalUses sums usage across formations.
func (ft *FormationTable) TotalUses() int {
	n := 0
	for _, f := range ft.byName {
		n += f.Uses
	}
	return n
}

// BuildFormationTable folds records with a formation into per-formation
// outcomes, then averages the advanced statistics per formation.
func BuildFormationTable(recs []model.MatchRecord) *FormationTable {
	ft := &FormationTable{byName: make(map[string]*FormationProfile)}
	for _, m := range recs {
		if m.Formation == "" {
			continue
		}
		f, ok := ft.byName[m.Formation]
		if !ok {
			f = &FormationProfile{Formation: m.Formation, samples: make(map[string][]float64)}
			ft.byName[m.Formation] = f
			ft.order = append(ft.order, m.Formation)
		}
		f.Uses++
		switch m.Result {
		case model.Win:
			f.Wins++
		case model.Draw:
			f.Draws++
		default:
			f.Losses++
		}
		f.GoalsFor += m.TeamGoals
		f.GoalsAgainst += m.OpponentGoals
	}

	for _, m := range recs {
		f, ok := ft.byName[m.Formation]
		if !ok {
			continue
		}
		for _, name := range model.AdvancedStats {
			if v, ok := m.Stat(name); ok {
				f.samples[name] = append(f.samples[name], v)
			}
		}
	}

	for _, f := range ft.byName {
		f.derive()
	}
	return ft
}
