package report

import (
	"sort"

	"github.com/pable/go-tactics/internal/aggregator"
)

// PlayersByRole returns players grouped by role in aggregator.Roles order,
// highest start rate first within a role. Equal rates keep first-seen order.
func PlayersByRole(p *aggregator.TacticalProfile) []*aggregator.PlayerProfile {
	rank := make(map[aggregator.Role]int, len(aggregator.Roles))
	for i, r := range aggregator.Roles {
		rank[r] = i
	}
	players := p.Players.All()
	sort.SliceStable(players, func(i, j int) bool {
		ri, rj := rank[players[i].Role], rank[players[j].Role]
		if ri != rj {
			return ri < rj
		}
		return players[i].StartRate > players[j].StartRate
	})
	return players
}

// FormationsByUsage returns formations most used first. Equal usage keeps
// first-use order.
func FormationsByUsage(p *aggregator.TacticalProfile) []*aggregator.FormationProfile {
	forms := p.Performance.All()
	sort.SliceStable(forms, func(i, j int) bool { return forms[i].Uses > forms[j].Uses })
	return forms
}

// SubstitutesByAppearances returns substitutes with the most appearances
// first. Equal counts keep first-entry order.
func SubstitutesByAppearances(p *aggregator.TacticalProfile) []*aggregator.SubstituteProfile {
	subs := p.Substitutes.All()
	sort.SliceStable(subs, func(i, j int) bool { return subs[i].Appearances > subs[j].Appearances })
	return subs
}
