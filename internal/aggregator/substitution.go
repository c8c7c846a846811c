package aggregator

import (
	"gonum.org/v1/gonum/stat"

	"github.com/pable/go-tactics/internal/document"
	"github.com/pable/go-tactics/internal/model"
)

// SubstituteProfile describes what a player did when coming off the bench.
type SubstituteProfile struct {
	ID   string
	Name string

	Appearances   int
	Goals         int
	Assists       int
	ExpectedGoals float64

	// EntryMinutes holds the parsed base minute of each entry; entries with
	// an unparsable minute are absent.
	EntryMinutes []int

	ratings []float64

	// Team results in matches where the player came on.
	Wins   int
	Draws  int
	Losses int
}

// AvgEntryMinute is the mean entry minute over valid samples.
func (s *SubstituteProfile) AvgEntryMinute() (float64, bool) {
	if len(s.EntryMinutes) == 0 {
		return 0, false
	}
	xs := make([]float64, len(s.EntryMinutes))
	for i, m := range s.EntryMinutes {
		xs[i] = float64(m)
	}
	return stat.Mean(xs, nil), true
}

// AvgRating is the mean rating as a substitute; false when none was recorded.
func (s *SubstituteProfile) AvgRating() (float64, bool) {
	if len(s.ratings) == 0 {
		return 0, false
	}
	return stat.Mean(s.ratings, nil), true
}

// RatingSamples returns the number of rated substitute appearances.
func (s *SubstituteProfile) RatingSamples() int { return len(s.ratings) }

// GoalContributions is goals plus assists as a substitute.
func (s *SubstituteProfile) GoalContributions() int { return s.Goals + s.Assists }

// SubstituteTable holds substitute profiles in first-entry order.
type SubstituteTable struct {
	order []string
	byID  map[string]*SubstituteProfile
}

// Get returns the profile for a player id.
func (st *SubstituteTable) Get(id string) (*SubstituteProfile, bool) {
	s, ok := st.byID[id]
	return s, ok
}

// All returns profiles in first-entry order.
func (st *SubstituteTable) All() []*SubstituteProfile {
	out := make([]*SubstituteProfile, 0, len(st.order))
	for _, id := range st.order {
		out = append(out, st.byID[id])
	}
	return out
}

// Len returns the number of players who came on at least once.
func (st *SubstituteTable) Len() int { return len(st.order) }

// BuildSubstituteTable folds substitute appearances that actually entered play.
func BuildSubstituteTable(recs []model.MatchRecord) *SubstituteTable {
	st := &SubstituteTable{byID: make(map[string]*SubstituteProfile)}
	for _, m := range recs {
		seen := make(map[string]struct{}, len(m.Starters)+len(m.Substitutes))
		for _, a := range m.Starters {
			seen[a.ID] = struct{}{}
		}
		for _, a := range m.Substitutes {
			if a.ID == "" {
				continue
			}
			if _, dup := seen[a.ID]; dup {
				continue
			}
			ev, entered := m.SubstitutionFor(a.ID)
			if !entered {
				continue
			}
			seen[a.ID] = struct{}{}

			s, ok := st.byID[a.ID]
			if !ok {
				s = &SubstituteProfile{ID: a.ID, Name: a.Name}
				st.byID[a.ID] = s
				st.order = append(st.order, a.ID)
			}
			s.Appearances++
			s.Goals += a.Goals
			s.Assists += a.Assists
			s.ExpectedGoals += a.ExpectedGoals
			if minute, ok := document.ParseMinute(ev.Minute); ok {
				s.EntryMinutes = append(s.EntryMinutes, minute)
			}
			if a.HasRating() {
				s.ratings = append(s.ratings, a.Rating)
			}
			switch m.Result {
			case model.Win:
				s.Wins++
			case model.Draw:
				s.Draws++
			default:
				s.Losses++
			}
		}
	}
	return st
}
