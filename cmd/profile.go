package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-tactics/internal/report"
)

// Shared by the commands that profile a single team.
var (
	teamName  string
	teamFiles []string
)

// addTeamFlags registers --team and --file on c.
func addTeamFlags(c *cobra.Command) {
	c.Flags().StringVarP(&teamName, "team", "t", "", "team to profile (asked interactively when omitted)")
	c.Flags().StringSliceVar(&teamFiles, "file", nil, "read these match files instead of the database")
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Print the tactical profile of a team",
	Long: `Build and print a team's tactical profile: squad rotation grouped by role,
formation performance, substitution impact, the overall record and a few
highlighted insights.`,
	Args: cobra.NoArgs,
	RunE: runProfile,
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List a team's matches with results",
	Args:  cobra.NoArgs,
	RunE:  runMatches,
}

func init() {
	addTeamFlags(profileCmd)
	addTeamFlags(matchesCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	p, err := buildProfile(teamFiles, teamName)
	if err != nil || p == nil {
		return err
	}
	report.WriteReport(os.Stdout, p)
	return nil
}

func runMatches(cmd *cobra.Command, args []string) error {
	p, err := buildProfile(teamFiles, teamName)
	if err != nil || p == nil {
		return err
	}
	report.PrintMatchTable(os.Stdout, p.Matches)
	return nil
}
