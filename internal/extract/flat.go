package extract

import (
	"math"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/pable/go-tactics/internal/document"
	"github.com/pable/go-tactics/internal/model"
)

// flatDecoder reads the optimized layout with top-level keys: home_team,
// away_team, home_score, away_score, {home,away}_formation,
// {home,away}_lineup, {home,away}_subs, substitutions, and a stats object
// keyed home_<stat> / away_<stat>.
type flatDecoder struct {
	doc document.Document
}

func (d flatDecoder) sides() (string, string) {
	return d.doc.String("home_team", ""), d.doc.String("away_team", "")
}

func (d flatDecoder) scores() (int, int, bool) {
	home, ok := document.LookupNumber(d.doc.Get("home_score"))
	if !ok {
		return 0, 0, false
	}
	away, ok := document.LookupNumber(d.doc.Get("away_score"))
	if !ok {
		return 0, 0, false
	}
	return int(math.Round(home)), int(math.Round(away)), true
}

func (d flatDecoder) header(rec *model.MatchRecord) {
	root := d.doc.Root()
	rec.Date = firstString(root, "date", "match_date", "utc_date")
	rec.MatchID = firstString(root, "match_id", "id")
	rec.League = firstString(root, "league", "league_name")
	rec.Round = firstString(root, "round", "match_round")
}

func (d flatDecoder) lineup(isHome bool) side {
	prefix := "away_"
	if isHome {
		prefix = "home_"
	}
	s := side{formation: d.doc.String(prefix+"formation", "")}
	for _, p := range d.doc.Array(prefix + "lineup") {
		s.starters = append(s.starters, flatAppearance(p))
	}
	roster := make(map[string]struct{})
	for _, p := range d.doc.Array(prefix + "subs") {
		app := flatAppearance(p)
		s.subs = append(s.subs, app)
		if app.ID != "" {
			roster[app.ID] = struct{}{}
		}
	}

	wantSide := strings.TrimSuffix(prefix, "_")
	seen := make(map[string]int)
	for _, ev := range d.doc.Array("substitutions") {
		id := firstString(ev, "player_id", "player_in_id")
		if id == "" {
			continue
		}
		if team := strings.ToLower(firstString(ev, "team", "side")); team != "" {
			if team != wantSide {
				continue
			}
		} else if _, onBench := roster[id]; !onBench {
			continue
		}
		sub := model.SubstitutionEvent{
			PlayerID:   id,
			PlayerName: firstString(ev, "player_name", "player_in"),
			Minute:     firstString(ev, "minute", "time"),
			FromRole:   model.RoleBench,
			ToRole:     model.RolePitch,
		}
		if i, dup := seen[id]; dup {
			if earlier(sub.Minute, s.substitutions[i].Minute) {
				s.substitutions[i] = sub
			}
			continue
		}
		seen[id] = len(s.substitutions)
		s.substitutions = append(s.substitutions, sub)
	}
	return s
}

func (d flatDecoder) stats(isHome bool) map[string]float64 {
	ownPrefix, oppPrefix := "away_", "home_"
	if isHome {
		ownPrefix, oppPrefix = "home_", "away_"
	}
	stats := d.doc.Get("stats")
	out := make(map[string]float64)
	stats.ForEach(func(k, v gjson.Result) bool {
		key := k.String()
		if !strings.HasPrefix(key, ownPrefix) {
			return true
		}
		name := strings.TrimPrefix(key, ownPrefix)
		opp := document.Resolve(stats, oppPrefix+name)
		putStat(out, canonicalStat(name), document.Number(v), document.Number(opp))
		return true
	})
	return out
}

func flatAppearance(p gjson.Result) model.PlayerAppearance {
	app := model.PlayerAppearance{
		ID:            document.String(p, "id", ""),
		Name:          document.String(p, "name", ""),
		Position:      document.String(p, "position", unknownPosition),
		ShirtNumber:   int(document.Float(p, "shirt_number", 0)),
		Rating:        document.Float(p, "rating", 0),
		Minutes:       int(firstFloat(p, "minutes_played", "minutes")),
		Goals:         int(document.Float(p, "goals", 0)),
		Assists:       int(document.Float(p, "assists", 0)),
		ExpectedGoals: firstFloat(p, "expected_goals", "xg"),
	}
	if age := document.Resolve(p, "age"); age.Type != gjson.Null {
		if v, ok := document.LookupNumber(age); ok {
			n := int(v)
			app.Age = &n
		}
	}
	return app
}

// earlier compares two minute strings; unparsable minutes sort last.
func earlier(a, b string) bool {
	ma, okA := document.ParseMinute(a)
	mb, okB := document.ParseMinute(b)
	switch {
	case okA && okB:
		return ma < mb
	default:
		return okA && !okB
	}
}
