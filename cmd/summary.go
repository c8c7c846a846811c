package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-tactics/internal/storage"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about all match documents stored in the
database: document count, date range, league breakdown, busiest teams and
the document layouts seen.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.TotalDocuments == 0 {
		fmt.Fprintln(os.Stdout, "No match documents stored yet. Run 'tactics ingest <file>' to add some.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Documents     : %d\n", ov.TotalDocuments)
	fmt.Fprintf(os.Stdout, "  Date range    : %s → %s\n", ov.EarliestMatch, ov.LatestMatch)
	fmt.Fprintf(os.Stdout, "  Teams seen    : %d\n", ov.Teams)
	fmt.Fprintf(os.Stdout, "  Leagues       : %d\n", ov.Leagues)

	leagues, err := db.LeagueCounts()
	if err != nil {
		return fmt.Errorf("get league counts: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Leagues ---\n\n")
	printGroupCounts("LEAGUE", leagues)

	names, counts, err := db.TeamCounts()
	if err != nil {
		return fmt.Errorf("get team counts: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Most Active Teams ---\n\n")
	printGroupCounts("TEAM", topTeams(names, counts, 10))

	// Layout breakdown, only shown when more than one layout is present.
	layouts, err := db.LayoutCounts()
	if err != nil {
		return fmt.Errorf("get layouts: %w", err)
	}
	if len(layouts) > 1 {
		fmt.Fprintf(os.Stdout, "\n--- Layouts ---\n\n")
		printGroupCounts("LAYOUT", layouts)
	}

	return nil
}

func printGroupCounts(label string, groups []storage.GroupCount) {
	t := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	t.Header(label, "MATCHES")
	for _, g := range groups {
		t.Append(g.Label, fmt.Sprintf("%d", g.Count))
	}
	t.Render()
}

// topTeams returns the n teams with most documents, ties by name.
func topTeams(names []string, counts map[string]int, n int) []storage.GroupCount {
	out := make([]storage.GroupCount, 0, len(names))
	for _, name := range names {
		out = append(out, storage.GroupCount{Label: name, Count: counts[name]})
	}
	// names arrive sorted, so a stable sort keeps ties alphabetical.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}
