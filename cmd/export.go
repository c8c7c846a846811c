package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-tactics/internal/aggregator"
	"github.com/pable/go-tactics/internal/export"
	"github.com/pable/go-tactics/internal/extract"
)

var (
	exportTeams  []string
	exportFiles  []string
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tactical profiles as CSV, XLSX or JSON",
	Long: `Profiles the given teams, or every team found when --team is omitted, and
writes them in one file.

  csv   one summary row per team: Team, Total_Matches, Wins, Draws, Losses, Win_Rate
  xlsx  Players, Formations, Substitutes and Matches sheets, one row block per team
  json  the full profile of every team, lists in report order

Example:
  tactics export --team "Alpha FC" --format xlsx --out alpha.xlsx
  tactics export --format csv > season.csv`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringSliceVarP(&exportTeams, "team", "t", nil, "teams to export (default all)")
	exportCmd.Flags().StringSliceVar(&exportFiles, "file", nil, "read these match files instead of the database")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", export.FormatCSV, "csv, xlsx or json")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(exportFormat)
	if format == export.FormatXLSX && exportOut == "" {
		return fmt.Errorf("--out is required for xlsx")
	}

	docs, err := loadDocuments(exportFiles)
	if err != nil {
		return err
	}
	teams := exportTeams
	if len(teams) == 0 {
		teams = extract.TeamNames(docs)
	}
	if len(teams) == 0 {
		fmt.Fprintln(os.Stdout, "No teams found.")
		return nil
	}

	byTeam, err := aggregator.BuildProfiles(cmd.Context(), newExtractor(), docs, teams, cfg.Workers)
	if err != nil {
		return fmt.Errorf("build profiles: %w", err)
	}
	profiles := make([]*aggregator.TacticalProfile, 0, len(byTeam))
	for _, t := range teams {
		p, ok := byTeam[t]
		if !ok {
			cWarn.Fprintf(os.Stderr, "No data found for %s\n", t)
			continue
		}
		profiles = append(profiles, p)
	}

	var w io.Writer = os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := export.Write(w, format, profiles); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d teams to %s\n", len(profiles), exportOut)
	}
	return nil
}
