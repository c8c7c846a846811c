package extract

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-tactics/internal/document"
	"github.com/pable/go-tactics/internal/model"
)

// nativeDoc builds a minimal provider-native document.
func nativeDoc(id, date, home, away string, homeScore, awayScore int) document.Document {
	return document.MustParse(fmt.Sprintf(`{
	"general": {
		"matchId": %q, "matchTimeUTCDate": %q, "leagueName": "Premier Division", "matchRound": "7",
		"homeTeam": {"name": %q}, "awayTeam": {"name": %q}
	},
	"header": {"teams": [{"name": %q, "score": %d}, {"name": %q, "score": %d}]},
	"content": {
		"lineup": {
			"homeTeam": {
				"formation": "4-3-3",
				"starters": [
					{"id": 11, "name": "Home Keeper", "shirtNumber": 1, "age": 31, "positionLabel": {"label": "GK"}},
					{"id": 12, "name": {"fullName": "Home Striker"}, "shirtNumber": "9", "positionLabel": {"label": "ST"},
					 "performance": {"rating": 6.1}}
				],
				"subs": [
					{"id": 13, "name": "Home Winger", "positionLabel": {"label": "RW"},
					 "performance": {"rating": 7.0, "substitutionEvents": [
						{"type": "subIn", "time": 70},
						{"type": "subIn", "time": 65, "addedTime": 1},
						{"type": "subOut", "time": 10}
					 ]}},
					{"id": 14, "name": "Unused Keeper", "positionLabel": {"label": "GK"}}
				]
			},
			"awayTeam": {
				"formation": "3-5-2",
				"starters": [{"id": 21, "name": "Away Back", "positionLabel": {"label": "CB"}}],
				"subs": [
					{"id": 22, "name": "Away Sub", "performance": {"events": [{"type": "subIn", "time": "88'"}]}}
				]
			}
		},
		"playerStats": {
			"11": {"stats": [{"title": "Top stats", "stats": {
				"FotMob rating": {"stat": {"value": 7.4}},
				"Minutes played": {"stat": {"value": 90}},
				"Goals": {"stat": {"value": 0}},
				"Expected goals (xG)": {"stat": {"value": 0.0}}
			}}]},
			"12": {"stats": [{"title": "Top stats", "stats": {
				"FotMob rating": {"stat": {"value": 8.2}},
				"Minutes played": {"stat": {"value": 65}},
				"Goals": {"stat": {"value": 2}},
				"Assists": {"stat": {"value": 1}},
				"Expected goals (xG)": {"stat": {"value": 1.35}}
			}}]}
		},
		"stats": {"Periods": {"All": {"stats": [
			{"title": "Top stats", "stats": [
				{"title": "Ball possession", "key": "BallPossesion", "stats": [57, 43]},
				{"title": "Expected goals (xG)", "key": "expected_goals", "stats": ["1.82", "0.64"]},
				{"title": "Total shots", "key": "total_shots", "stats": [15, 7]},
				{"title": "Accurate passes", "key": "accurate_passes", "stats": ["412 (85%%)", "301 (78%%)"]}
			]},
			{"title": "Shots", "stats": [
				{"title": "Shots on target", "key": "ShotsOnTarget", "stats": [6, 2]},
				{"title": "Ball possession", "key": "BallPossesion", "stats": [99, 1]},
				{"title": "Header only", "stats": []}
			]}
		]}}}
	}
}`, id, date, home, away, home, homeScore, away, awayScore))
}

func flatDoc(id, date, home, away string, homeScore, awayScore int) document.Document {
	return document.MustParse(fmt.Sprintf(`{
	"match_id": %q, "date": %q, "league": "Cup", "round": "QF",
	"home_team": %q, "away_team": %q, "home_score": %d, "away_score": "%d",
	"home_formation": "4-2-3-1", "away_formation": "4-4-2",
	"home_lineup": [{"id": "h1", "name": "H One", "position": "CM", "rating": "7.1", "minutes_played": 90, "goals": 1, "expected_goals": 0.4}],
	"home_subs": [{"id": "h2", "name": "H Two", "position": "ST", "rating": 6.5, "goals": 1}, {"id": "h3", "name": "H Three"}],
	"away_lineup": [{"id": "a1", "name": "A One", "position": "CB", "age": 24}],
	"away_subs": [{"id": "a2", "name": "A Two"}],
	"substitutions": [
		{"player_id": "h2", "player_name": "H Two", "minute": "75'", "team": "home"},
		{"player_id": "h2", "player_name": "H Two", "minute": "60'", "team": "home"},
		{"player_id": "a2", "player_name": "A Two", "minute": "90+2'"}
	],
	"stats": {"home_possession": "61%%", "away_possession": "39%%", "home_shots": "14 (5 on target)", "away_shots": 8, "home_corners": 4}
}`, id, date, home, away, homeScore, awayScore))
}

func TestExtract_NativeHome(t *testing.T) {
	rec, err := New().Extract(nativeDoc("m1", "2024-08-10T14:00:00Z", "Alpha", "Beta", 2, 1), "Alpha")
	require.NoError(t, err)

	assert.True(t, rec.IsHome)
	assert.Equal(t, "Beta", rec.Opponent)
	assert.Equal(t, "m1", rec.MatchID)
	assert.Equal(t, "Premier Division", rec.League)
	assert.Equal(t, "7", rec.Round)
	assert.Equal(t, 2, rec.TeamGoals)
	assert.Equal(t, 1, rec.OpponentGoals)
	assert.Equal(t, model.Win, rec.Result)
	assert.Equal(t, "4-3-3", rec.Formation)

	require.Len(t, rec.Starters, 2)
	keeper := rec.Starters[0]
	assert.Equal(t, "11", keeper.ID)
	assert.Equal(t, "GK", keeper.Position)
	assert.Equal(t, 7.4, keeper.Rating)
	assert.Equal(t, 90, keeper.Minutes)
	require.NotNil(t, keeper.Age)
	assert.Equal(t, 31, *keeper.Age)

	striker := rec.Starters[1]
	assert.Equal(t, "Home Striker", striker.Name)
	assert.Equal(t, 9, striker.ShirtNumber)
	assert.Equal(t, 8.2, striker.Rating, "side table wins over lineup performance")
	assert.Equal(t, 2, striker.Goals)
	assert.Equal(t, 1, striker.Assists)
	assert.Equal(t, 1.35, striker.ExpectedGoals)
	assert.Nil(t, striker.Age)

	require.Len(t, rec.Substitutes, 2)
	assert.Equal(t, 7.0, rec.Substitutes[0].Rating)
	require.Len(t, rec.Substitutions, 1, "unused substitute has no sub-in event")
	assert.Equal(t, "13", rec.Substitutions[0].PlayerID)
	assert.Equal(t, "65+1", rec.Substitutions[0].Minute, "earliest sub-in wins")
	assert.Equal(t, model.RoleBench, rec.Substitutions[0].FromRole)
	assert.Equal(t, model.RolePitch, rec.Substitutions[0].ToRole)

	assert.Equal(t, 57.0, rec.Stats[model.StatPossession], "first occurrence of a repeated stat wins")
	assert.Equal(t, 43.0, rec.Stats[model.OpponentStat(model.StatPossession)])
	assert.Equal(t, 1.82, rec.Stats[model.StatExpectedGoals])
	assert.Equal(t, 15.0, rec.Stats[model.StatShots])
	assert.Equal(t, 6.0, rec.Stats[model.StatShotsOnTarget])
	assert.Equal(t, 412.0, rec.Stats[model.StatAccuratePasses])
	_, hasCorners := rec.Stat(model.StatCorners)
	assert.False(t, hasCorners)
}

func TestExtract_NativeAwayMirrorsSides(t *testing.T) {
	rec, err := New().Extract(nativeDoc("m1", "2024-08-10", "Alpha", "Beta", 2, 1), "Beta")
	require.NoError(t, err)

	assert.False(t, rec.IsHome)
	assert.Equal(t, "Alpha", rec.Opponent)
	assert.Equal(t, 1, rec.TeamGoals)
	assert.Equal(t, 2, rec.OpponentGoals)
	assert.Equal(t, model.Loss, rec.Result)
	assert.Equal(t, "3-5-2", rec.Formation)
	assert.Equal(t, 43.0, rec.Stats[model.StatPossession])
	assert.Equal(t, 57.0, rec.Stats[model.OpponentStat(model.StatPossession)])
	require.Len(t, rec.Substitutions, 1)
	assert.Equal(t, "88", rec.Substitutions[0].Minute)
	assert.Equal(t, unknownPosition, rec.Substitutes[0].Position)
}

func TestExtract_Flat(t *testing.T) {
	rec, err := New().Extract(flatDoc("f1", "2024-09-01", "Alpha", "Gamma", 1, 1), "Alpha")
	require.NoError(t, err)

	assert.Equal(t, model.Draw, rec.Result)
	assert.Equal(t, "f1", rec.MatchID)
	assert.Equal(t, "4-2-3-1", rec.Formation)
	require.Len(t, rec.Starters, 1)
	assert.Equal(t, 7.1, rec.Starters[0].Rating)
	assert.Equal(t, 0.4, rec.Starters[0].ExpectedGoals)

	require.Len(t, rec.Substitutions, 1)
	assert.Equal(t, "h2", rec.Substitutions[0].PlayerID)
	assert.Equal(t, "60'", rec.Substitutions[0].Minute, "earliest duplicate event kept")

	assert.Equal(t, 61.0, rec.Stats[model.StatPossession])
	assert.Equal(t, 39.0, rec.Stats[model.OpponentStat(model.StatPossession)])
	assert.Equal(t, 14.0, rec.Stats[model.StatShots])
	assert.Equal(t, 8.0, rec.Stats[model.OpponentStat(model.StatShots)])
	assert.Equal(t, 4.0, rec.Stats[model.StatCorners])
	assert.Equal(t, 0.0, rec.Stats[model.OpponentStat(model.StatCorners)])
}

func TestExtract_FlatAwayUsesRosterWhenSideMissing(t *testing.T) {
	rec, err := New().Extract(flatDoc("f1", "2024-09-01", "Alpha", "Gamma", 0, 3), "Gamma")
	require.NoError(t, err)

	assert.Equal(t, model.Win, rec.Result)
	require.Len(t, rec.Substitutions, 1)
	assert.Equal(t, "a2", rec.Substitutions[0].PlayerID)
	assert.Equal(t, "90+2'", rec.Substitutions[0].Minute)
	require.Len(t, rec.Starters, 1)
	require.NotNil(t, rec.Starters[0].Age)
	assert.Equal(t, 24, *rec.Starters[0].Age)
	assert.Equal(t, 39.0, rec.Stats[model.StatPossession])
}

func TestExtract_NotApplicable(t *testing.T) {
	e := New()

	_, err := e.Extract(nativeDoc("m1", "2024-01-01", "Alpha", "Beta", 1, 0), "Delta")
	assert.ErrorIs(t, err, ErrTeamNotInMatch)

	_, err = e.Extract(nativeDoc("m1", "2024-01-01", "Alpha", "Beta", 1, 0), "")
	assert.ErrorIs(t, err, ErrTeamNotInMatch)

	oneSide := document.MustParse(`{"general": {"homeTeam": {"name": "Alpha"}, "awayTeam": {"name": "Beta"}},
		"header": {"teams": [{"score": 1}]}}`)
	_, err = e.Extract(oneSide, "Alpha")
	assert.ErrorIs(t, err, ErrNoScore)

	noScore := document.MustParse(`{"general": {"homeTeam": {"name": "Alpha"}, "awayTeam": {"name": "Beta"}},
		"header": {"teams": [{"name": "Alpha"}, {"name": "Beta", "score": 2}]}}`)
	_, err = e.Extract(noScore, "Alpha")
	assert.ErrorIs(t, err, ErrNoScore)

	flatNoScore := document.MustParse(`{"home_team": "Alpha", "away_team": "Beta", "home_score": 1}`)
	_, err = e.Extract(flatNoScore, "Beta")
	assert.ErrorIs(t, err, ErrNoScore)

	_, err = e.Extract(document.MustParse(`[1, 2, 3]`), "Alpha")
	assert.ErrorIs(t, err, ErrUnknownLayout)
}

func TestExtract_SameNameBothSidesPicksHome(t *testing.T) {
	rec, err := New().Extract(nativeDoc("m1", "2024-01-01", "Mirror", "Mirror", 3, 0), "Mirror")
	require.NoError(t, err)
	assert.True(t, rec.IsHome)
	assert.Equal(t, model.Win, rec.Result)
}

func TestExtractTeamMatches_FiltersSortsAndDedups(t *testing.T) {
	docs := []document.Document{
		nativeDoc("m3", "2024-10-01", "Alpha", "Beta", 0, 0),
		nativeDoc("m9", "2024-09-01", "Delta", "Beta", 4, 4),
		flatDoc("f1", "2024-08-01", "Gamma", "Alpha", 2, 0),
		document.MustParse(`{"general": {"homeTeam": {"name": "Alpha"}}}`),
		nativeDoc("m3", "2024-10-01", "Alpha", "Beta", 5, 5),
		document.MustParse(`"just a string"`),
	}

	recs := ExtractTeamMatches(docs, "Alpha")
	require.Len(t, recs, 2)
	assert.Equal(t, "f1", recs[0].MatchID)
	assert.Equal(t, "m3", recs[1].MatchID)
	assert.Equal(t, 0, recs[1].TeamGoals, "first copy of a duplicated match kept")

	assert.Empty(t, ExtractTeamMatches(docs, "Nobody"))
}

func TestExtractTeamMatches_ResultMatchesScores(t *testing.T) {
	var docs []document.Document
	for h := 0; h < 4; h++ {
		for a := 0; a < 4; a++ {
			docs = append(docs, nativeDoc(fmt.Sprintf("m%d%d", h, a), "2024-01-01", "Alpha", "Beta", h, a))
		}
	}
	for _, team := range []string{"Alpha", "Beta"} {
		for _, r := range ExtractTeamMatches(docs, team) {
			switch {
			case r.TeamGoals > r.OpponentGoals:
				assert.Equal(t, model.Win, r.Result)
			case r.TeamGoals == r.OpponentGoals:
				assert.Equal(t, model.Draw, r.Result)
			default:
				assert.Equal(t, model.Loss, r.Result)
			}
		}
	}
}

func TestTeamNames(t *testing.T) {
	docs := []document.Document{
		nativeDoc("m1", "2024-01-01", "Beta", "Alpha", 0, 0),
		flatDoc("f1", "2024-01-02", "Gamma", "Alpha", 1, 0),
		document.MustParse(`{"unrelated": true}`),
	}
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, TeamNames(docs))
}

func TestDetect(t *testing.T) {
	assert.Equal(t, LayoutNative, Detect(nativeDoc("m", "d", "a", "b", 0, 0)))
	assert.Equal(t, LayoutFlat, Detect(flatDoc("m", "d", "a", "b", 0, 0)))
	assert.Equal(t, LayoutUnknown, Detect(document.MustParse(`{}`)))
	assert.Equal(t, "flat", LayoutFlat.String())
}

func TestDescribe(t *testing.T) {
	s, err := Describe(flatDoc("f1", "2024-09-01", "Alpha", "Gamma", 2, 1))
	require.NoError(t, err)
	assert.Equal(t, "Alpha", s.HomeTeam)
	assert.Equal(t, "2-1", s.ScoreLine())
	assert.Equal(t, LayoutFlat, s.Layout)

	_, err = Describe(document.MustParse(`{}`))
	assert.ErrorIs(t, err, ErrUnknownLayout)
}

func TestCanonicalStat(t *testing.T) {
	assert.Equal(t, model.StatPossession, canonicalStat("BallPossesion"))
	assert.Equal(t, model.StatPossession, canonicalStat("Ball possession"))
	assert.Equal(t, model.StatExpectedGoals, canonicalStat("Expected goals (xG)"))
	assert.Equal(t, "passes_into_final_third", canonicalStat("Passes into final third"))
}
