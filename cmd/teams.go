package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-tactics/internal/document"
	"github.com/pable/go-tactics/internal/extract"
	"github.com/pable/go-tactics/internal/report"
)

var teamsFiles []string

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List every team found in the match documents",
	Args:  cobra.NoArgs,
	RunE:  runTeams,
}

func init() {
	teamsCmd.Flags().StringSliceVar(&teamsFiles, "file", nil, "read these match files instead of the database")
}

func runTeams(cmd *cobra.Command, args []string) error {
	var (
		names  []string
		counts map[string]int
	)
	if len(teamsFiles) == 0 {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()
		names, counts, err = db.TeamCounts()
		if err != nil {
			return fmt.Errorf("team counts: %w", err)
		}
	} else {
		docs, err := loadDocuments(teamsFiles)
		if err != nil {
			return err
		}
		names, counts = countTeams(docs)
	}

	if len(names) == 0 {
		fmt.Fprintln(os.Stdout, "No teams found.")
		return nil
	}
	report.PrintTeamList(os.Stdout, names, counts)
	return nil
}

// countTeams counts the documents each side appears in.
func countTeams(docs []document.Document) ([]string, map[string]int) {
	counts := make(map[string]int)
	for _, doc := range docs {
		s, err := extract.Describe(doc)
		if err != nil {
			continue
		}
		for _, n := range []string{s.HomeTeam, s.AwayTeam} {
			if n != "" {
				counts[n]++
			}
		}
	}
	return extract.TeamNames(docs), counts
}
