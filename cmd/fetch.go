package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-tactics/internal/provider"
	"github.com/pable/go-tactics/internal/storage"
)

// fetch command flags.
var (
	// fetchTeamID selects matches from this team's fixture list instead of args.
	fetchTeamID string
	// fetchCount caps how many fixtures are fetched with --team-id.
	fetchCount int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [match-id...]",
	Short: "Download match documents from the provider API",
	Long: `Fetches match documents by id from the provider API configured with
TACTICS_PROVIDER_URL (and TACTICS_PROVIDER_API_KEY when it needs one) and
stores them.

Examples:
  # Two matches by id
  tactics fetch 4506263 4506270

  # The ten most recent finished fixtures of a team
  tactics fetch --team-id 8634 --count 10`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchTeamID, "team-id", "", "fetch finished fixtures of this provider team id")
	fetchCmd.Flags().IntVar(&fetchCount, "count", 10, "number of fixtures to fetch with --team-id")
}

func runFetch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && fetchTeamID == "" {
		return errors.New("give match ids or --team-id")
	}
	if cfg.ProviderBaseURL == "" {
		return errors.New("no provider configured: set TACTICS_PROVIDER_URL")
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	client := provider.NewClient(cfg.ProviderBaseURL, cfg.ProviderAPIKey, cfg.ProviderTimeout)
	ids := args
	if fetchTeamID != "" {
		ids, err = finishedFixtures(cmd, client, fetchTeamID, fetchCount)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Team %s: %d finished fixtures selected\n", fetchTeamID, len(ids))
	}

	return doFetch(cmd, client, db, ids)
}

// finishedFixtures returns the ids of the last count finished fixtures.
func finishedFixtures(cmd *cobra.Command, client *provider.Client, teamID string, count int) ([]string, error) {
	fixtures, err := client.GetTeamFixtures(cmd.Context(), teamID)
	if err != nil {
		return nil, fmt.Errorf("team fixtures: %w", err)
	}
	var ids []string
	for _, f := range fixtures {
		if f.Finished {
			ids = append(ids, f.MatchID)
		}
	}
	if count > 0 && len(ids) > count {
		ids = ids[len(ids)-count:]
	}
	return ids, nil
}

// doFetch downloads each match and stores it unless already present.
func doFetch(cmd *cobra.Command, client *provider.Client, db *storage.DB, ids []string) error {
	stored := 0
	for i, id := range ids {
		fmt.Fprintf(os.Stdout, "[%d/%d] %s\n", i+1, len(ids), id)

		doc, err := client.GetMatch(cmd.Context(), id)
		if errors.Is(err, provider.ErrNotFound) {
			cWarn.Fprintf(os.Stderr, "  [skip] %s: not found\n", id)
			continue
		}
		if err != nil {
			if cmd.Context().Err() != nil {
				return err
			}
			cError.Fprintf(os.Stderr, "  [error] %s: %v\n", id, err)
			continue
		}

		exists, err := db.DocumentExists(doc.Hash())
		if err != nil {
			return fmt.Errorf("check document: %w", err)
		}
		if exists {
			fmt.Fprintln(os.Stdout, "  already stored")
			continue
		}

		meta, err := describe(doc, "provider:"+id)
		if err != nil {
			cWarn.Fprintf(os.Stderr, "  [skip] %s: %v\n", id, err)
			continue
		}
		if _, err := db.InsertDocuments([]storage.StoredDocument{{Meta: meta, Doc: doc}}); err != nil {
			return fmt.Errorf("insert document: %w", err)
		}
		fmt.Fprintf(os.Stdout, "  stored: %s %s %s (%s)\n", meta.HomeTeam, meta.Score, meta.AwayTeam, meta.MatchDate)
		stored++
	}

	fmt.Fprintf(os.Stdout, "\nDone: %d/%d matches stored\n", stored, len(ids))
	return nil
}
