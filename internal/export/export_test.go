package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pable/go-tactics/internal/aggregator"
	"github.com/pable/go-tactics/internal/model"
)

func profile(t *testing.T, team string, scores ...[2]int) *aggregator.TacticalProfile {
	t.Helper()
	var recs []model.MatchRecord
	for i, s := range scores {
		m := model.MatchRecord{
			Date:          "2024-03-0" + string(rune('1'+i)),
			Team:          team,
			IsHome:        i == 0,
			Opponent:      "Opp",
			Formation:     "4-2-3-1",
			TeamGoals:     s[0],
			OpponentGoals: s[1],
			Result:        model.ResultOf(s[0], s[1]),
			Stats:         map[string]float64{model.StatPossession: 58},
			Starters:      []model.PlayerAppearance{{ID: "7", Name: "Seven", Position: "LW", Rating: 7.2}},
			Substitutes:   []model.PlayerAppearance{{ID: "19", Name: "Nineteen", Position: "ST"}},
			Substitutions: []model.SubstitutionEvent{{PlayerID: "19", Minute: "70"}},
		}
		recs = append(recs, m)
	}
	p, err := aggregator.BuildTacticalProfile(recs)
	require.NoError(t, err)
	return p
}

func TestWriteCSV(t *testing.T) {
	profiles := []*aggregator.TacticalProfile{
		profile(t, "Alpha", [2]int{2, 1}, [2]int{0, 0}, [2]int{0, 3}),
		{Team: "Empty"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, profiles))
	assert.Equal(t,
		"Team,Total_Matches,Wins,Draws,Losses,Win_Rate\n"+
			"Alpha,3,1,1,1,33.3%\n"+
			"Empty,0,0,0,0,0%\n",
		buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, []*aggregator.TacticalProfile{profile(t, "Alpha", [2]int{2, 1}, [2]int{1, 1})}))

	var views []View
	require.NoError(t, json.Unmarshal(buf.Bytes(), &views))
	require.Len(t, views, 1)
	v := views[0]
	assert.Equal(t, "Alpha", v.Team)
	assert.Equal(t, 2, v.Matches)
	assert.Equal(t, RecordView{Wins: 1, Draws: 1, WinRate: 0.5}, v.Record)
	assert.Equal(t, RecordView{Wins: 1, WinRate: 1}, v.Home)

	require.Len(t, v.Players, 2)
	assert.Equal(t, "7", v.Players[0].ID, "key players first")
	require.NotNil(t, v.Players[0].AvgRating)
	assert.InDelta(t, 7.2, *v.Players[0].AvgRating, 1e-9)
	assert.Nil(t, v.Players[1].AvgRating, "no rating is null, not zero")

	require.Len(t, v.Formations, 1)
	assert.Equal(t, 58.0, v.Formations[0].Stats[model.StatPossession])
	assert.NotContains(t, v.Formations[0].Stats, model.StatShots)

	require.Len(t, v.Substitutes, 1)
	require.NotNil(t, v.Substitutes[0].AvgEntryMinute)
	assert.Equal(t, 70.0, *v.Substitutes[0].AvgEntryMinute)

	require.Len(t, v.MatchList, 2)
	assert.Equal(t, "Home", v.MatchList[0].Venue)
	assert.Equal(t, "1-1", v.MatchList[1].Score)

	assert.True(t, strings.Contains(buf.String(), `"avg_rating": null`))
}

func TestWriteXLSX(t *testing.T) {
	profiles := []*aggregator.TacticalProfile{
		profile(t, "Alpha", [2]int{2, 1}),
		profile(t, "Beta", [2]int{0, 1}, [2]int{1, 0}),
	}
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, profiles))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetPlayers, SheetFormations, SheetSubstitutes, SheetMatches}, f.GetSheetList())

	matches, err := f.GetRows(SheetMatches)
	require.NoError(t, err)
	require.Len(t, matches, 4, "header plus three matches")
	assert.Equal(t, "Team", matches[0][0])
	assert.Equal(t, "Alpha", matches[1][0])
	assert.Equal(t, "Beta", matches[3][0])

	players, err := f.GetRows(SheetPlayers)
	require.NoError(t, err)
	assert.Len(t, players, 5)
	assert.Equal(t, "Seven", players[1][2])

	subs, err := f.GetRows(SheetSubstitutes)
	require.NoError(t, err)
	assert.Len(t, subs, 3)
}

func TestWrite_Dispatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, nil))
	assert.Equal(t, "Team,Total_Matches,Wins,Draws,Losses,Win_Rate\n", buf.String())

	err := Write(&buf, "pdf", nil)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
