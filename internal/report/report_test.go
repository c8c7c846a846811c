package report

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-tactics/internal/aggregator"
	"github.com/pable/go-tactics/internal/model"
)

type fixture struct {
	formation string
	goals     int
	conceded  int
	subGoals  int
}

// alphaSeason: 4-3-3 three times (W, W, L), 3-5-2 twice (W, D). P1 and P2
// start every match, S1 comes on every match and S2 once.
func alphaSeason(t *testing.T) *aggregator.TacticalProfile {
	t.Helper()
	fixtures := []fixture{
		{"4-3-3", 2, 0, 1},
		{"4-3-3", 1, 0, 1},
		{"4-3-3", 0, 1, 0},
		{"3-5-2", 3, 0, 0},
		{"3-5-2", 1, 1, 0},
	}
	var recs []model.MatchRecord
	for i, f := range fixtures {
		m := model.MatchRecord{
			Date:          fmt.Sprintf("2024-08-%02d", i+1),
			MatchID:       fmt.Sprintf("m%d", i),
			Team:          "Alpha",
			IsHome:        i%2 == 0,
			Opponent:      fmt.Sprintf("Opp %d", i),
			Formation:     f.formation,
			TeamGoals:     f.goals,
			OpponentGoals: f.conceded,
			Result:        model.ResultOf(f.goals, f.conceded),
			Stats:         map[string]float64{model.StatPossession: 52, model.StatShots: 11},
			Starters: []model.PlayerAppearance{
				{ID: "P1", Name: "Player P1", Position: "CM", Rating: 7.5, Minutes: 90},
				{ID: "P2", Name: "Player P2", Position: "CB", Rating: 6.8, Minutes: 90},
			},
			Substitutes: []model.PlayerAppearance{
				{ID: "S1", Name: "Super Sub", Position: "ST", Rating: 7.0, Minutes: 25, Goals: f.subGoals},
				{ID: "B1", Name: "Bench Keeper", Position: "GK"},
			},
			Substitutions: []model.SubstitutionEvent{
				{PlayerID: "S1", PlayerName: "Super Sub", Minute: "65'", FromRole: model.RoleBench, ToRole: model.RolePitch},
			},
		}
		if i == 4 {
			m.Substitutes = append(m.Substitutes, model.PlayerAppearance{ID: "S2", Name: "One Off", Goals: 3})
			m.Substitutions = append(m.Substitutions, model.SubstitutionEvent{PlayerID: "S2", Minute: "80"})
		}
		recs = append(recs, m)
	}
	p, err := aggregator.BuildTacticalProfile(recs)
	require.NoError(t, err)
	return p
}

func section(out, title string) string {
	i := strings.Index(out, "--- "+title+" ---")
	if i < 0 {
		return ""
	}
	rest := out[i+len(title)+8:]
	if j := strings.Index(rest, "\n--- "); j >= 0 {
		return rest[:j]
	}
	return rest
}

func TestRenderReport_Deterministic(t *testing.T) {
	p := alphaSeason(t)
	a := RenderReport(p)
	b := RenderReport(p)
	assert.Equal(t, a, b)
	assert.Equal(t, a, RenderReport(alphaSeason(t)))
}

func TestRenderReport_Sections(t *testing.T) {
	out := RenderReport(alphaSeason(t))

	assert.Contains(t, out, "=== Tactical Profile: Alpha ===")
	assert.Contains(t, out, "2024-08-01 → 2024-08-05")
	for _, title := range []string{"Squad Rotation", "Formation Performance", "Substitution Impact", "Overall", "Insights"} {
		assert.NotEmpty(t, section(out, title), title)
	}

	rot := section(out, "Squad Rotation")
	assert.Contains(t, rot, "Key players (2)")
	assert.Contains(t, rot, "Fringe (2)")
	assert.Contains(t, rot, "Not played (1)")
	assert.Less(t, strings.Index(rot, "Key players"), strings.Index(rot, "Fringe"))

	forms := section(out, "Formation Performance")
	assert.Less(t, strings.Index(forms, "4-3-3"), strings.Index(forms, "3-5-2"), "sorted by usage")
	assert.Contains(t, forms, "67%")

	subs := section(out, "Substitution Impact")
	assert.Less(t, strings.Index(subs, "Super Sub"), strings.Index(subs, "One Off"), "sorted by appearances")
	assert.Contains(t, subs, "65'")

	overall := section(out, "Overall")
	assert.Contains(t, overall, "3W - 1D - 1L")
	assert.Contains(t, overall, "7 scored, 2 conceded")

	ins := section(out, "Insights")
	assert.Contains(t, ins, "Best formation     : 4-3-3")
	assert.Contains(t, ins, "Top starter        : Player P1")
	assert.Contains(t, ins, "Impact substitute  : Super Sub, 2 goals in 5 appearances")
}

func TestRenderReport_NoData(t *testing.T) {
	assert.Equal(t, "No match data.\n", RenderReport(nil))
	assert.Equal(t, "No match data.\n", RenderReport(&aggregator.TacticalProfile{}))
}

func TestRenderReport_MissingAggregates(t *testing.T) {
	p, err := aggregator.BuildTacticalProfile([]model.MatchRecord{{
		Date: "2024-01-01", Team: "Beta", TeamGoals: 1, Result: model.Win,
	}})
	require.NoError(t, err)
	out := RenderReport(p)
	assert.Contains(t, out, "No lineup data.")
	assert.Contains(t, out, "No formation data.")
	assert.Contains(t, out, "No substitute appearances.")
	assert.Contains(t, out, "Best formation     : —")
	assert.Contains(t, out, "Top starter        : —")
	assert.Contains(t, out, "Impact substitute  : —")
}

func TestSelectInsights(t *testing.T) {
	in := SelectInsights(alphaSeason(t))
	require.NotNil(t, in.BestFormation)
	assert.Equal(t, "4-3-3", in.BestFormation.Formation, "3-5-2 has fewer than 3 uses")
	require.NotNil(t, in.TopStarter)
	assert.Equal(t, "P1", in.TopStarter.ID)
	require.NotNil(t, in.TopSubstitute)
	assert.Equal(t, "S1", in.TopSubstitute.ID, "S2 scored more but came on once")

	assert.Equal(t, Insights{}, SelectInsights(nil))
}

func TestSelectInsights_TiesKeepFirst(t *testing.T) {
	var recs []model.MatchRecord
	for i, f := range []string{"4-4-2", "4-4-2", "4-4-2", "5-3-2", "5-3-2", "5-3-2"} {
		recs = append(recs, model.MatchRecord{
			Date:      fmt.Sprintf("2024-01-%02d", i+1),
			Team:      "Alpha",
			Formation: f,
			TeamGoals: 1,
			Result:    model.Win,
			Starters: []model.PlayerAppearance{
				{ID: "A", Name: "A", Rating: 7},
				{ID: "B", Name: "B", Rating: 7},
			},
		})
	}
	p, err := aggregator.BuildTacticalProfile(recs)
	require.NoError(t, err)
	in := SelectInsights(p)
	assert.Equal(t, "4-4-2", in.BestFormation.Formation)
	assert.Equal(t, "A", in.TopStarter.ID)
	assert.Nil(t, in.TopSubstitute)
}

func TestPrintMatchTable(t *testing.T) {
	p := alphaSeason(t)
	var buf bytes.Buffer
	PrintMatchTable(&buf, p.Matches)
	out := buf.String()
	for i := 0; i < 5; i++ {
		assert.Contains(t, out, fmt.Sprintf("Opp %d", i))
	}
	assert.Contains(t, out, "Home")
	assert.Contains(t, out, "Away")
	assert.Contains(t, out, "52.0")
}

func TestPrintPlayerCard(t *testing.T) {
	p := alphaSeason(t)

	s1, ok := p.Players.Get("S1")
	require.True(t, ok)
	var buf bytes.Buffer
	PrintPlayerCard(&buf, p, s1)
	out := buf.String()
	assert.Contains(t, out, "=== Super Sub (S1) ===")
	assert.Contains(t, out, "As substitute : 5 apps, entry 65'")
	assert.Equal(t, 5, strings.Count(out, "sub "), out)

	b1, ok := p.Players.Get("B1")
	require.True(t, ok)
	buf.Reset()
	PrintPlayerCard(&buf, p, b1)
	out = buf.String()
	assert.Contains(t, out, "non-playing")
	assert.Contains(t, out, "bench")
	assert.NotContains(t, out, "As substitute")
}

func TestPrintDocumentListAndTeams(t *testing.T) {
	var buf bytes.Buffer
	PrintDocumentList(&buf, []model.DocumentMeta{{
		Hash: "0123456789abcdef", MatchDate: "2024-01-01", HomeTeam: "Alpha", AwayTeam: "Beta",
		Score: "2-1", Layout: "flat",
	}})
	assert.Contains(t, buf.String(), "0123456789ab")
	assert.NotContains(t, buf.String(), "0123456789abc")

	buf.Reset()
	PrintTeamList(&buf, []string{"Alpha", "Beta"}, map[string]int{"Alpha": 3})
	assert.Contains(t, buf.String(), "Alpha")
	assert.Contains(t, buf.String(), "3")
}
