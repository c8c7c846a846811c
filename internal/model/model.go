// Package model defines the normalized, schema-independent view of a match
// from one team's perspective.
package model

import "strconv"

// Result is a match outcome from the profiled team's side.
type Result string

const (
	Win  Result = "W"
	Draw Result = "D"
	Loss Result = "L"
)

// ResultOf classifies a scoreline. Equal scores are always a draw.
func ResultOf(teamGoals, oppGoals int) Result {
	switch {
	case teamGoals > oppGoals:
		return Win
	case teamGoals == oppGoals:
		return Draw
	default:
		return Loss
	}
}

// Points returns league points for the result (3 / 1 / 0).
func (r Result) Points() int {
	switch r {
	case Win:
		return 3
	case Draw:
		return 1
	default:
		return 0
	}
}

// Canonical team statistic names. Provider keys are mapped onto these by the
// extractor; any other statistic keeps its normalized provider key.
const (
	StatExpectedGoals  = "expected_goals"
	StatPossession     = "possession"
	StatShots          = "shots"
	StatShotsOnTarget  = "shots_on_target"
	StatBigChances     = "big_chances"
	StatAccuratePasses = "accurate_passes"
	StatFouls          = "fouls"
	StatCorners        = "corners"
)

// AdvancedStats lists the statistics averaged per formation, in report order.
var AdvancedStats = []string{
	StatExpectedGoals,
	StatPossession,
	StatShots,
	StatShotsOnTarget,
	StatBigChances,
	StatAccuratePasses,
	StatFouls,
	StatCorners,
}

// OpponentStat returns the key under which the opponent's value of stat is stored.
func OpponentStat(stat string) string { return "opponent_" + stat }

// PlayerAppearance is one player's line in one match.
type PlayerAppearance struct {
	ID          string
	Name        string
	Position    string
	ShirtNumber int
	Age         *int // nil when the provider omits it

	// Rating 0 means no rating was recorded.
	Rating        float64
	Minutes       int
	Goals         int
	Assists       int
	ExpectedGoals float64
}

// HasRating reports whether a real rating was recorded.
func (p PlayerAppearance) HasRating() bool { return p.Rating > 0 }

// SubstitutionEvent records a substitute entering play.
type SubstitutionEvent struct {
	PlayerID   string
	PlayerName string
	Minute     string // may carry stoppage time, e.g. "90+2"
	FromRole   string
	ToRole     string
}

// Roles used in SubstitutionEvent transitions.
const (
	RoleBench = "bench"
	RolePitch = "pitch"
)

// MatchRecord is one match normalized from one team's perspective. It is
// created once by the extractor and treated as read-only afterwards.
type MatchRecord struct {
	Date     string // sortable, ISO-8601 where the provider supplies it
	MatchID  string
	League   string
	Round    string
	Team     string
	IsHome   bool
	Opponent string

	// Formation is empty when the provider recorded none.
	Formation string

	Starters      []PlayerAppearance
	Substitutes   []PlayerAppearance
	Substitutions []SubstitutionEvent

	TeamGoals     int
	OpponentGoals int
	Result        Result

	// Stats maps statistic name to the team's value, with a parallel
	// "opponent_<name>" entry for each.
	Stats map[string]float64
}

// Score renders the scoreline from the team's side, e.g. "2-1".
func (m *MatchRecord) Score() string {
	return strconv.Itoa(m.TeamGoals) + "-" + strconv.Itoa(m.OpponentGoals)
}

// Venue returns "Home" or "Away".
func (m *MatchRecord) Venue() string {
	if m.IsHome {
		return "Home"
	}
	return "Away"
}

// Stat returns the team's value for name and whether it was recorded.
func (m *MatchRecord) Stat(name string) (float64, bool) {
	v, ok := m.Stats[name]
	return v, ok
}

// SubstitutionFor returns the substitution event that brought playerID on.
func (m *MatchRecord) SubstitutionFor(playerID string) (SubstitutionEvent, bool) {
	for _, s := range m.Substitutions {
		if s.PlayerID == playerID {
			return s, true
		}
	}
	return SubstitutionEvent{}, false
}
