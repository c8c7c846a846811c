package aggregator

import (
	"gonum.org/v1/gonum/stat"

	"github.com/pable/go-tactics/internal/model"
)

// FormWindow is how many recent rated appearances make up a player's form.
const FormWindow = 5

// Role buckets players by how often they start.
type Role string

const (
	RoleKey        Role = "key"
	RoleRegular    Role = "regular"
	RoleRotation   Role = "rotation"
	RoleFringe     Role = "fringe"
	RoleNonPlaying Role = "non-playing"
)

// Roles lists every role in report order.
var Roles = []Role{RoleKey, RoleRegular, RoleRotation, RoleFringe, RoleNonPlaying}

// RoleFor maps a start rate to a role. Boundaries fall into the lower bucket.
// A player who never appeared is non-playing regardless of rate.
func RoleFor(startRate float64, appearances int) Role {
	switch {
	case appearances == 0:
		return RoleNonPlaying
	case startRate > 0.8:
		return RoleKey
	case startRate > 0.5:
		return RoleRegular
	case startRate > 0.2:
		return RoleRotation
	default:
		return RoleFringe
	}
}

// PlayerProfile accumulates one player's appearances for a team.
type PlayerProfile struct {
	ID   string
	Name string

	Starts         int
	SubAppearances int

	// Formations and Positions count starting appearances only.
	Formations Tally
	Positions  Tally

	Goals         int
	Assists       int
	ExpectedGoals float64
	Minutes       int

	RatingSum   float64
	RatingCount int

	recentRatings window[float64]
	recentStarts  window[int]
	rosterPos     string

	// Derived after the fold.
	StartRate        float64
	Role             Role
	PrimaryPosition  string
	PrimaryFormation string
}

// Appearances is starts plus substitute appearances.
func (p *PlayerProfile) Appearances() int { return p.Starts + p.SubAppearances }

// AvgRating is the mean of recorded (non-zero) ratings.
func (p *PlayerProfile) AvgRating() (float64, bool) {
	if p.RatingCount == 0 {
		return 0, false
	}
	return p.RatingSum / float64(p.RatingCount), true
}

// Form is the mean of the last FormWindow recorded ratings.
func (p *PlayerProfile) Form() (float64, bool) {
	r := p.recentRatings.values()
	if len(r) == 0 {
		return 0, false
	}
	return stat.Mean(r, nil), true
}

// RecentRatings returns up to FormWindow recorded ratings, oldest first.
func (p *PlayerProfile) RecentRatings() []float64 { return p.recentRatings.values() }

// RecentStarts returns the match indices of up to the last FormWindow starts.
func (p *PlayerProfile) RecentStarts() []int { return p.recentStarts.values() }

func (p *PlayerProfile) fold(a model.PlayerAppearance) {
	p.Goals += a.Goals
	p.Assists += a.Assists
	p.ExpectedGoals += a.ExpectedGoals
	p.Minutes += a.Minutes
	if a.HasRating() {
		p.RatingSum += a.Rating
		p.RatingCount++
		p.recentRatings.push(a.Rating)
	}
}

// PlayerPool holds every player seen in a team's matches, in first-seen order.
type PlayerPool struct {
	TotalMatches int

	order []string
	byID  map[string]*PlayerProfile
}

// Get returns the profile for id.
func (pp *PlayerPool) Get(id string) (*PlayerProfile, bool) {
	p, ok := pp.byID[id]
	return p, ok
}

// All returns profiles in first-seen order.
func (pp *PlayerPool) All() []*PlayerProfile {
	out := make([]*PlayerProfile, 0, len(pp.order))
	for _, id := range pp.order {
		out = append(out, pp.byID[id])
	}
	return out
}

// Len returns the number of players.
func (pp *PlayerPool) Len() int { return len(pp.order) }

func (pp *PlayerPool) profile(a model.PlayerAppearance) *PlayerProfile {
	p, ok := pp.byID[a.ID]
	if !ok {
		p = &PlayerProfile{
			ID:            a.ID,
			recentRatings: newWindow[float64](FormWindow),
			recentStarts:  newWindow[int](FormWindow),
		}
		pp.byID[a.ID] = p
		pp.order = append(pp.order, a.ID)
	}
	if p.Name == "" {
		p.Name = a.Name
	}
	if a.Position != "" {
		p.rosterPos = a.Position
	}
	return p
}

// BuildPlayerPool folds date-sorted records into per-player profiles.
// Bench players who never came on get a profile but no appearance.
func BuildPlayerPool(recs []model.MatchRecord) *PlayerPool {
	pp := &PlayerPool{
		TotalMatches: len(recs),
		byID:         make(map[string]*PlayerProfile),
	}
	for idx, m := range recs {
		// A player listed twice in one match counts once.
		seen := make(map[string]struct{}, len(m.Starters)+len(m.Substitutes))
		for _, a := range m.Starters {
			if _, dup := seen[a.ID]; dup || a.ID == "" {
				continue
			}
			seen[a.ID] = struct{}{}
			p := pp.profile(a)
			p.Starts++
			if m.Formation != "" {
				p.Formations.Add(m.Formation)
			}
			p.Positions.Add(a.Position)
			p.recentStarts.push(idx)
			p.fold(a)
		}
		for _, a := range m.Substitutes {
			if _, dup := seen[a.ID]; dup || a.ID == "" {
				continue
			}
			p := pp.profile(a)
			if _, entered := m.SubstitutionFor(a.ID); !entered {
				continue
			}
			seen[a.ID] = struct{}{}
			p.SubAppearances++
			p.fold(a)
		}
	}

	for _, id := range pp.order {
		p := pp.byID[id]
		if pp.TotalMatches > 0 {
			p.StartRate = float64(p.Starts) / float64(pp.TotalMatches)
		}
		p.Role = RoleFor(p.StartRate, p.Appearances())
		p.PrimaryPosition, _ = p.Positions.Mode()
		if p.PrimaryPosition == "" {
			p.PrimaryPosition = p.rosterPos
		}
		p.PrimaryFormation, _ = p.Formations.Mode()
	}
	return pp
}
