package report

import "github.com/pable/go-tactics/internal/aggregator"

// Thresholds for the insights section.
const (
	MinFormationUses  = 3
	FrequentStartRate = 0.5
	MinSubAppearances = 2
)

// Insights are the headline picks of a profile. Nil fields mean no candidate
// qualified.
type Insights struct {
	BestFormation *aggregator.FormationProfile
	TopStarter    *aggregator.PlayerProfile
	TopSubstitute *aggregator.SubstituteProfile
}

// SelectInsights picks, each by strict maximum with ties going to the
// earliest entry of the aggregate:
//   - the highest win rate among formations used at least MinFormationUses times
//   - the highest average rating among players starting more than
//     FrequentStartRate of matches
//   - the most goals as a substitute among players with at least
//     MinSubAppearances substitute appearances and at least one goal
func SelectInsights(p *aggregator.TacticalProfile) Insights {
	var in Insights
	if p == nil {
		return in
	}

	for _, f := range p.Performance.All() {
		if f.Uses < MinFormationUses {
			continue
		}
		if in.BestFormation == nil || f.WinRate > in.BestFormation.WinRate {
			in.BestFormation = f
		}
	}

	bestRating := 0.0
	for _, pl := range p.Players.All() {
		if pl.StartRate <= FrequentStartRate {
			continue
		}
		avg, ok := pl.AvgRating()
		if !ok {
			continue
		}
		if in.TopStarter == nil || avg > bestRating {
			in.TopStarter, bestRating = pl, avg
		}
	}

	bestGoals := 0
	for _, s := range p.Substitutes.All() {
		if s.Appearances < MinSubAppearances {
			continue
		}
		if s.Goals > bestGoals {
			in.TopSubstitute, bestGoals = s, s.Goals
		}
	}
	return in
}
