package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-tactics/internal/aggregator"
	"github.com/pable/go-tactics/internal/model"
)

const none = "—"

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// RenderReport renders p as text. The same profile always renders to the
// same bytes.
func RenderReport(p *aggregator.TacticalProfile) string {
	var b strings.Builder
	WriteReport(&b, p)
	return b.String()
}

// WriteReport writes the full report for p to w: squad rotation by role,
// formation performance, substitution impact, overall record and insights.
func WriteReport(w io.Writer, p *aggregator.TacticalProfile) {
	if p == nil || len(p.Matches) == 0 {
		fmt.Fprintln(w, "No match data.")
		return
	}
	first, last := p.Matches[0].Date, p.Matches[len(p.Matches)-1].Date
	fmt.Fprintf(w, "\n=== Tactical Profile: %s ===\n", p.Team)
	fmt.Fprintf(w, "Matches: %d  |  %s → %s\n", len(p.Matches), first, last)

	writeRotation(w, p)
	writeFormations(w, p)
	writeSubstitutes(w, p)
	writeOverall(w, p)
	writeInsights(w, SelectInsights(p))
}

func writeRotation(w io.Writer, p *aggregator.TacticalProfile) {
	fmt.Fprintf(w, "\n--- Squad Rotation ---\n")
	players := PlayersByRole(p)
	if len(players) == 0 {
		fmt.Fprintln(w, "\nNo lineup data.")
		return
	}
	for start := 0; start < len(players); {
		role := players[start].Role
		end := start
		for end < len(players) && players[end].Role == role {
			end++
		}

		fmt.Fprintf(w, "\n%s (%d)\n", roleTitle(role), end-start)
		table := newTable(w)
		table.Header("PLAYER", "POS", "STARTS", "SUB", "START%", "AVG", "FORM", "G", "A", "xG", "MIN", "FORMATION")
		for _, pl := range players[start:end] {
			table.Append(
				pl.Name,
				orNone(pl.PrimaryPosition),
				strconv.Itoa(pl.Starts),
				strconv.Itoa(pl.SubAppearances),
				pct(pl.StartRate),
				opt(pl.AvgRating()),
				opt(pl.Form()),
				strconv.Itoa(pl.Goals),
				strconv.Itoa(pl.Assists),
				fmt.Sprintf("%.2f", pl.ExpectedGoals),
				strconv.Itoa(pl.Minutes),
				orNone(pl.PrimaryFormation),
			)
		}
		table.Render()
		start = end
	}
}

func roleTitle(r aggregator.Role) string {
	switch r {
	case aggregator.RoleKey:
		return "Key players"
	case aggregator.RoleRegular:
		return "Regulars"
	case aggregator.RoleRotation:
		return "Rotation"
	case aggregator.RoleFringe:
		return "Fringe"
	default:
		return "Not played"
	}
}

func writeFormations(w io.Writer, p *aggregator.TacticalProfile) {
	fmt.Fprintf(w, "\n--- Formation Performance ---\n\n")
	forms := FormationsByUsage(p)
	if len(forms) == 0 {
		fmt.Fprintln(w, "No formation data.")
		return
	}

	table := newTable(w)
	table.Header("FORMATION", "USED", "SHARE", "W", "D", "L", "WIN%", "PPG", "GF/G", "GA/G", "POSS%", "SHOTS", "xG", "STYLE")
	for _, f := range forms {
		table.Append(
			f.Formation,
			strconv.Itoa(f.Uses),
			pct(f.UsageShare(len(p.Matches))),
			strconv.Itoa(f.Wins),
			strconv.Itoa(f.Draws),
			strconv.Itoa(f.Losses),
			pct(f.WinRate),
			fmt.Sprintf("%.2f", f.PointsPerGame),
			fmt.Sprintf("%.2f", f.GoalsForPerGame),
			fmt.Sprintf("%.2f", f.GoalsAgainstPerGame),
			opt1(f.AvgStat(model.StatPossession)),
			opt1(f.AvgStat(model.StatShots)),
			opt(f.AvgStat(model.StatExpectedGoals)),
			string(f.Style),
		)
	}
	table.Render()
}

func writeSubstitutes(w io.Writer, p *aggregator.TacticalProfile) {
	fmt.Fprintf(w, "\n--- Substitution Impact ---\n\n")
	subs := SubstitutesByAppearances(p)
	if len(subs) == 0 {
		fmt.Fprintln(w, "No substitute appearances.")
		return
	}

	table := newTable(w)
	table.Header("PLAYER", "APPS", "AVG_MIN", "G", "A", "xG", "AVG", "W-D-L")
	for _, s := range subs {
		table.Append(
			s.Name,
			strconv.Itoa(s.Appearances),
			minute(s.AvgEntryMinute()),
			strconv.Itoa(s.Goals),
			strconv.Itoa(s.Assists),
			fmt.Sprintf("%.2f", s.ExpectedGoals),
			opt(s.AvgRating()),
			fmt.Sprintf("%d-%d-%d", s.Wins, s.Draws, s.Losses),
		)
	}
	table.Render()
}

func writeOverall(w io.Writer, p *aggregator.TacticalProfile) {
	o := p.Overall
	fmt.Fprintf(w, "\n--- Overall ---\n\n")
	fmt.Fprintf(w, "  Record        : %s  (win rate %s)\n", o.Record, pct(o.WinRate()))
	fmt.Fprintf(w, "  Home          : %s\n", o.Home)
	fmt.Fprintf(w, "  Away          : %s\n", o.Away)
	fmt.Fprintf(w, "  Goals         : %d scored, %d conceded\n", o.GoalsFor, o.GoalsAgainst)
	fmt.Fprintf(w, "  Formations    : %d used\n", p.Formations.Len())
	fmt.Fprintf(w, "  Squad         : %d players, %d came off the bench\n", p.Players.Len(), p.Substitutes.Len())
}

func writeInsights(w io.Writer, in Insights) {
	fmt.Fprintf(w, "\n--- Insights ---\n\n")
	if f := in.BestFormation; f != nil {
		fmt.Fprintf(w, "  Best formation     : %s, %s wins over %d matches (%s)\n",
			f.Formation, pct(f.WinRate), f.Uses, f.Style)
	} else {
		fmt.Fprintf(w, "  Best formation     : %s (no formation used %d+ times)\n", none, MinFormationUses)
	}
	if pl := in.TopStarter; pl != nil {
		avg, _ := pl.AvgRating()
		fmt.Fprintf(w, "  Top starter        : %s, %.2f avg rating, %s starts\n", pl.Name, avg, pct(pl.StartRate))
	} else {
		fmt.Fprintf(w, "  Top starter        : %s\n", none)
	}
	if s := in.TopSubstitute; s != nil {
		fmt.Fprintf(w, "  Impact substitute  : %s, %d goals in %d appearances\n", s.Name, s.Goals, s.Appearances)
	} else {
		fmt.Fprintf(w, "  Impact substitute  : %s\n", none)
	}
	fmt.Fprintln(w)
}

func pct(x float64) string { return fmt.Sprintf("%.0f%%", x*100) }

func opt(v float64, ok bool) string { return optf("%.2f", v, ok) }

func opt1(v float64, ok bool) string { return optf("%.1f", v, ok) }

func minute(v float64, ok bool) string { return optf("%.0f'", v, ok) }

func optf(format string, v float64, ok bool) string {
	if !ok {
		return none
	}
	return fmt.Sprintf(format, v)
}

func orNone(s string) string {
	if s == "" {
		return none
	}
	return s
}
