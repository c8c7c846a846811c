package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-tactics/internal/model"
	"github.com/pable/go-tactics/internal/report"
)

var listTeam string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored match documents",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listTeam, "team", "", "only documents in which this team plays")
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	docs, err := db.ListDocuments()
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}
	if listTeam != "" {
		docs = filterTeam(docs, listTeam)
	}
	if len(docs) == 0 {
		fmt.Fprintln(os.Stdout, "No match documents stored yet. Run 'tactics ingest <file>' to add some.")
		return nil
	}
	report.PrintDocumentList(os.Stdout, docs)
	fmt.Fprintf(os.Stdout, "\n(%d documents)\n", len(docs))
	return nil
}

func filterTeam(docs []model.DocumentMeta, team string) []model.DocumentMeta {
	var out []model.DocumentMeta
	for _, d := range docs {
		if d.HomeTeam == team || d.AwayTeam == team {
			out = append(out, d)
		}
	}
	return out
}
