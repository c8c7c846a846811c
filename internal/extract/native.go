package extract

import (
	"math"

	"github.com/tidwall/gjson"

	"github.com/pable/go-tactics/internal/document"
	"github.com/pable/go-tactics/internal/model"
)

// nativeDecoder reads the provider's nested layout:
//
//	general.{homeTeam,awayTeam}.name, general.matchId, general.matchTimeUTCDate
//	header.teams[0|1].score
//	content.lineup.{homeTeam,awayTeam}.{formation,starters,subs}
//	content.playerStats.<id>.stats[].stats.<title>.stat.value
//	content.stats.Periods.All.stats[].stats[] = {key,title,stats:[home,away]}
type nativeDecoder struct {
	doc document.Document
}

func (d nativeDecoder) sides() (string, string) {
	home := d.doc.String("general.homeTeam.name", "")
	if home == "" {
		home = d.doc.String("header.teams.0.name", "")
	}
	away := d.doc.String("general.awayTeam.name", "")
	if away == "" {
		away = d.doc.String("header.teams.1.name", "")
	}
	return home, away
}

func (d nativeDecoder) scores() (int, int, bool) {
	teams := d.doc.Array("header.teams")
	if len(teams) < 2 {
		return 0, 0, false
	}
	home, ok := document.LookupNumber(document.Resolve(teams[0], "score"))
	if !ok {
		return 0, 0, false
	}
	away, ok := document.LookupNumber(document.Resolve(teams[1], "score"))
	if !ok {
		return 0, 0, false
	}
	return int(math.Round(home)), int(math.Round(away)), true
}

func (d nativeDecoder) header(rec *model.MatchRecord) {
	rec.Date = firstString(d.doc.Root(), "general.matchTimeUTCDate", "general.matchTimeUTC", "header.status.utcTime")
	rec.MatchID = firstString(d.doc.Root(), "general.matchId", "header.matchId")
	rec.League = firstString(d.doc.Root(), "general.leagueName", "general.parentLeagueName")
	rec.Round = firstString(d.doc.Root(), "general.matchRound", "general.leagueRoundName")
}

func (d nativeDecoder) lineup(isHome bool) side {
	key := "awayTeam"
	if isHome {
		key = "homeTeam"
	}
	lu := d.doc.Get("content.lineup." + key)
	s := side{formation: document.String(lu, "formation", "")}

	for _, p := range document.Array(lu, "starters") {
		s.starters = append(s.starters, d.appearance(p))
	}
	for _, p := range document.Array(lu, "subs") {
		app := d.appearance(p)
		s.subs = append(s.subs, app)
		if minute, ok := earliestSubIn(p); ok && app.ID != "" {
			s.substitutions = append(s.substitutions, model.SubstitutionEvent{
				PlayerID:   app.ID,
				PlayerName: app.Name,
				Minute:     minute,
				FromRole:   model.RoleBench,
				ToRole:     model.RolePitch,
			})
		}
	}
	return s
}

func (d nativeDecoder) appearance(p gjson.Result) model.PlayerAppearance {
	app := model.PlayerAppearance{
		ID:          document.String(p, "id", ""),
		Name:        playerName(p),
		Position:    firstString(p, "positionLabel.label", "position", "role"),
		ShirtNumber: int(document.Float(p, "shirtNumber", 0)),
	}
	if app.Position == "" {
		app.Position = unknownPosition
	}
	if age := document.Resolve(p, "age"); age.Exists() && age.Type != gjson.Null {
		if v, ok := document.LookupNumber(age); ok {
			n := int(v)
			app.Age = &n
		}
	}

	perf := playerStatTable(d.doc, app.ID)
	app.Rating = perfValue(perf, p, "fotmob_rating", "performance.rating")
	app.Minutes = int(perfValue(perf, p, "minutes_played", "performance.minutesPlayed"))
	app.Goals = int(perfValue(perf, p, "goals", "performance.goals"))
	app.Assists = int(perfValue(perf, p, "assists", "performance.assists"))
	app.ExpectedGoals = perfValue(perf, p, "expected_goals_xg", "performance.expectedGoals")
	return app
}

func (d nativeDecoder) stats(isHome bool) map[string]float64 {
	own, opp := 1, 0
	if isHome {
		own, opp = 0, 1
	}
	out := make(map[string]float64)
	for _, group := range d.doc.Array("content.stats.Periods.All.stats") {
		for _, item := range document.Array(group, "stats") {
			pair := document.Array(item, "stats")
			if len(pair) < 2 {
				continue
			}
			name := document.String(item, "key", "")
			if name == "" {
				name = document.String(item, "title", "")
			}
			putStat(out, canonicalStat(name), document.Number(pair[own]), document.Number(pair[opp]))
		}
	}
	return out
}

// playerStatTable flattens content.playerStats.<id> into normalized title -> value.
func playerStatTable(doc document.Document, id string) map[string]float64 {
	if id == "" {
		return nil
	}
	entry := document.Resolve(doc.Get("content.playerStats"), id)
	if !entry.IsObject() {
		return nil
	}
	out := make(map[string]float64)
	for _, group := range document.Array(entry, "stats") {
		document.Resolve(group, "stats").ForEach(func(title, v gjson.Result) bool {
			k := normalizeKey(title.String())
			if _, dup := out[k]; !dup {
				out[k] = document.Float(v, "stat.value", 0)
			}
			return true
		})
	}
	return out
}

// perfValue prefers the side table and falls back to the lineup entry.
func perfValue(table map[string]float64, p gjson.Result, tableKey, path string) float64 {
	if v, ok := table[tableKey]; ok {
		return v
	}
	return document.Float(p, path, 0)
}

// earliestSubIn scans the player's own performance record for sub-in
// transitions and returns the earliest one in "base+added" form.
func earliestSubIn(p gjson.Result) (string, bool) {
	var (
		found     bool
		bestBase  int
		bestAdded int
	)
	consider := func(ev gjson.Result) {
		if document.String(ev, "type", "") != "subIn" {
			return
		}
		base, ok := minuteOf(document.Resolve(ev, "time"))
		if !ok {
			return
		}
		added := int(document.Float(ev, "addedTime", 0))
		if !found || base < bestBase || (base == bestBase && added < bestAdded) {
			found, bestBase, bestAdded = true, base, added
		}
	}
	for _, ev := range document.Array(p, "performance.substitutionEvents") {
		consider(ev)
	}
	for _, ev := range document.Array(p, "performance.events") {
		consider(ev)
	}
	if !found {
		return "", false
	}
	return document.FormatMinute(bestBase, bestAdded), true
}

func minuteOf(v gjson.Result) (int, bool) {
	switch v.Type {
	case gjson.Number:
		if v.Num < 0 {
			return 0, false
		}
		return int(v.Num), true
	case gjson.String:
		return document.ParseMinute(v.Str)
	default:
		return 0, false
	}
}

func playerName(p gjson.Result) string {
	n := document.Resolve(p, "name")
	if n.IsObject() {
		return firstString(n, "fullName", "lastName")
	}
	return document.String(p, "name", "")
}
